package handler

import (
	"math"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/threadline/threadline-backend/internal/model"
	"github.com/threadline/threadline-backend/internal/service"
)

type AdminHandler struct {
	svc service.AdminService
}

func NewAdminHandler(svc service.AdminService) *AdminHandler {
	return &AdminHandler{svc: svc}
}

type adjustRequest struct {
	TargetUID string  `json:"targetUid"`
	Points    float64 `json:"points"` // human units, may be fractional
	Reason    string  `json:"reason"`
}

func (h *AdminHandler) Adjust(c echo.Context) error {
	uid, _ := c.Get("uid").(string)
	var req adjustRequest
	if err := c.Bind(&req); err != nil {
		return errJSON(c, http.StatusBadRequest, "bad_request", "invalid json")
	}
	if req.TargetUID == "" {
		return errJSON(c, http.StatusBadRequest, "bad_request", "targetUid is required")
	}
	if req.Reason == "" {
		return errJSON(c, http.StatusBadRequest, "bad_request", "reason is required")
	}
	scaled := int64(math.Round(req.Points * float64(model.Scale)))
	if err := h.svc.Adjust(c.Request().Context(), req.TargetUID, uid, scaled, req.Reason); err != nil {
		return errJSON(c, http.StatusInternalServerError, "internal_error", err.Error())
	}
	if scaled == 0 {
		return c.JSON(http.StatusOK, map[string]string{"status": "noop"})
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "recorded"})
}
