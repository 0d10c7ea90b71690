package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/threadline/threadline-backend/internal/model"
	"github.com/threadline/threadline-backend/internal/service"
)

type ScoreHandler struct {
	svc service.ScoreService
}

func NewScoreHandler(svc service.ScoreService) *ScoreHandler {
	return &ScoreHandler{svc: svc}
}

func (h *ScoreHandler) GetTotal(c echo.Context) error {
	uid := c.Param("uid")
	if uid == "" {
		return errJSON(c, http.StatusBadRequest, "bad_request", "missing uid")
	}
	total, err := h.svc.GetTotal(c.Request().Context(), uid)
	if err != nil {
		return errJSON(c, http.StatusInternalServerError, "internal_error", err.Error())
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"uid":    total.UID,
		"points": model.PointsValue(total.TotalPoints),
	})
}

func (h *ScoreHandler) Leaderboard(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	list, err := h.svc.Leaderboard(c.Request().Context(), limit, offset)
	if err != nil {
		return errJSON(c, http.StatusInternalServerError, "internal_error", err.Error())
	}
	entries := make([]map[string]interface{}, 0, len(list))
	for i, total := range list {
		entries = append(entries, map[string]interface{}{
			"rank":   offset + i + 1,
			"uid":    total.UID,
			"points": model.PointsValue(total.TotalPoints),
		})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"entries": entries})
}

func (h *ScoreHandler) DailyStats(c echo.Context) error {
	uid := c.Param("uid")
	if uid == "" {
		return errJSON(c, http.StatusBadRequest, "bad_request", "missing uid")
	}
	days, _ := strconv.Atoi(c.QueryParam("days"))
	stats, err := h.svc.DailyStats(c.Request().Context(), uid, days)
	if err != nil {
		return errJSON(c, http.StatusInternalServerError, "internal_error", err.Error())
	}
	out := make([]map[string]interface{}, 0, len(stats))
	for _, st := range stats {
		out = append(out, map[string]interface{}{
			"day":    st.Day,
			"points": model.PointsValue(st.Points),
			"events": st.Events,
		})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"uid": uid, "days": out})
}
