package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/threadline/threadline-backend/internal/service"
)

type VoteHandler struct {
	svc service.VoteService
}

func NewVoteHandler(svc service.VoteService) *VoteHandler {
	return &VoteHandler{svc: svc}
}

type voteRequest struct {
	TargetType string `json:"targetType"` // "post" or "reply"
	TargetID   uint64 `json:"targetId"`
	Previous   string `json:"previous"` // "none", "upvote", "downvote"
	New        string `json:"new"`
}

func (h *VoteHandler) Apply(c echo.Context) error {
	uid, _ := c.Get("uid").(string)
	if uid == "" {
		return errJSON(c, http.StatusUnauthorized, "unauthorized", "missing uid")
	}
	var req voteRequest
	if err := c.Bind(&req); err != nil {
		return errJSON(c, http.StatusBadRequest, "bad_request", "invalid json")
	}
	err := h.svc.ApplyTransition(c.Request().Context(), service.VoteTransition{
		ActorUID: uid,
		Target:   service.TargetType(req.TargetType),
		TargetID: req.TargetID,
		Previous: service.VoteState(req.Previous),
		New:      service.VoteState(req.New),
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidTransition):
			return errJSON(c, http.StatusBadRequest, "bad_request", err.Error())
		case errors.Is(err, service.ErrNotFound):
			return errJSON(c, http.StatusNotFound, "not_found", "vote target not found")
		default:
			return errJSON(c, http.StatusInternalServerError, "internal_error", err.Error())
		}
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "applied"})
}
