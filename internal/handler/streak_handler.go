package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/threadline/threadline-backend/internal/service"
)

type StreakHandler struct {
	svc service.StreakService
}

func NewStreakHandler(svc service.StreakService) *StreakHandler {
	return &StreakHandler{svc: svc}
}

func (h *StreakHandler) RecordLogin(c echo.Context) error {
	uid, _ := c.Get("uid").(string)
	if uid == "" {
		return errJSON(c, http.StatusUnauthorized, "unauthorized", "missing uid")
	}
	streak, err := h.svc.RecordLogin(c.Request().Context(), uid, time.Now())
	if err != nil {
		return errJSON(c, http.StatusInternalServerError, "internal_error", err.Error())
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"currentStreak": streak.CurrentStreak,
		"longestStreak": streak.LongestStreak,
	})
}
