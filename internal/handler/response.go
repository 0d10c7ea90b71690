package handler

import "github.com/labstack/echo/v4"

// ErrorResponse is the envelope for every non-2xx reply.
type ErrorResponse struct {
	Error errorPayload `json:"error"`
}

type errorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func errJSON(c echo.Context, status int, code, message string) error {
	return c.JSON(status, ErrorResponse{Error: errorPayload{Code: code, Message: message}})
}
