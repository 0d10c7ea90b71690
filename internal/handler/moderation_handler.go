package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/threadline/threadline-backend/internal/service"
)

type ModerationHandler struct {
	svc service.ModerationService
}

func NewModerationHandler(svc service.ModerationService) *ModerationHandler {
	return &ModerationHandler{svc: svc}
}

type moderationRequest struct {
	PostID uint64 `json:"postId"`
}

func (h *ModerationHandler) Approve(c echo.Context) error {
	uid, _ := c.Get("uid").(string)
	var req moderationRequest
	if err := c.Bind(&req); err != nil {
		return errJSON(c, http.StatusBadRequest, "bad_request", "invalid json")
	}
	if err := h.svc.Approve(c.Request().Context(), req.PostID, uid); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return errJSON(c, http.StatusNotFound, "not_found", "post not found")
		}
		return errJSON(c, http.StatusInternalServerError, "internal_error", err.Error())
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "approved"})
}

func (h *ModerationHandler) Reverse(c echo.Context) error {
	uid, _ := c.Get("uid").(string)
	var req moderationRequest
	if err := c.Bind(&req); err != nil {
		return errJSON(c, http.StatusBadRequest, "bad_request", "invalid json")
	}
	if err := h.svc.Reverse(c.Request().Context(), req.PostID, uid); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return errJSON(c, http.StatusNotFound, "not_found", "post not found")
		}
		return errJSON(c, http.StatusInternalServerError, "internal_error", err.Error())
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "reversed"})
}

type resolveReportRequest struct {
	Decision string `json:"decision"` // "deleted", "warned", or "retained"
}

func (h *ModerationHandler) ResolveReport(c echo.Context) error {
	uid, _ := c.Get("uid").(string)
	postID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return errJSON(c, http.StatusBadRequest, "bad_request", "invalid post id")
	}
	var req resolveReportRequest
	if err := c.Bind(&req); err != nil {
		return errJSON(c, http.StatusBadRequest, "bad_request", "invalid json")
	}
	err = h.svc.ResolveReport(c.Request().Context(), postID, service.ReportDecision(req.Decision), uid)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUnknownDecision):
			return errJSON(c, http.StatusBadRequest, "bad_request", err.Error())
		case errors.Is(err, service.ErrNotFound):
			return errJSON(c, http.StatusNotFound, "not_found", "post not found")
		default:
			return errJSON(c, http.StatusInternalServerError, "internal_error", err.Error())
		}
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "resolved"})
}
