package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/threadline/threadline-backend/internal/model"
	"github.com/threadline/threadline-backend/internal/service"
)

type ContentHandler struct {
	svc service.ContentService
}

func NewContentHandler(svc service.ContentService) *ContentHandler {
	return &ContentHandler{svc: svc}
}

type createPostRequest struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

func (h *ContentHandler) CreatePost(c echo.Context) error {
	uid, _ := c.Get("uid").(string)
	if uid == "" {
		return errJSON(c, http.StatusUnauthorized, "unauthorized", "missing uid")
	}
	var req createPostRequest
	if err := c.Bind(&req); err != nil {
		return errJSON(c, http.StatusBadRequest, "bad_request", "invalid json")
	}
	if req.Title == "" || req.Body == "" {
		return errJSON(c, http.StatusBadRequest, "bad_request", "title and body are required")
	}
	post := &model.Post{AuthorUID: uid, Title: req.Title, Body: req.Body}
	if err := h.svc.CreatePost(c.Request().Context(), post); err != nil {
		return errJSON(c, http.StatusInternalServerError, "internal_error", err.Error())
	}
	return c.JSON(http.StatusCreated, post)
}

type createReplyRequest struct {
	Body          string  `json:"body"`
	ParentReplyID *uint64 `json:"parentReplyId"`
}

func (h *ContentHandler) CreateReply(c echo.Context) error {
	uid, _ := c.Get("uid").(string)
	if uid == "" {
		return errJSON(c, http.StatusUnauthorized, "unauthorized", "missing uid")
	}
	postID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return errJSON(c, http.StatusBadRequest, "bad_request", "invalid post id")
	}
	var req createReplyRequest
	if err := c.Bind(&req); err != nil {
		return errJSON(c, http.StatusBadRequest, "bad_request", "invalid json")
	}
	if req.Body == "" {
		return errJSON(c, http.StatusBadRequest, "bad_request", "body is required")
	}
	reply := &model.Reply{PostID: postID, AuthorUID: uid, ParentReplyID: req.ParentReplyID, Body: req.Body}
	if err := h.svc.CreateReply(c.Request().Context(), reply); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return errJSON(c, http.StatusNotFound, "not_found", "post or parent reply not found")
		}
		return errJSON(c, http.StatusInternalServerError, "internal_error", err.Error())
	}
	return c.JSON(http.StatusCreated, reply)
}

type reportRequest struct {
	Reason string `json:"reason"`
}

func (h *ContentHandler) ReportPost(c echo.Context) error {
	uid, _ := c.Get("uid").(string)
	if uid == "" {
		return errJSON(c, http.StatusUnauthorized, "unauthorized", "missing uid")
	}
	postID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return errJSON(c, http.StatusBadRequest, "bad_request", "invalid post id")
	}
	var req reportRequest
	if err := c.Bind(&req); err != nil {
		return errJSON(c, http.StatusBadRequest, "bad_request", "invalid json")
	}
	report := &model.Report{PostID: postID, ReporterUID: uid, Reason: req.Reason}
	if err := h.svc.ReportPost(c.Request().Context(), report); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return errJSON(c, http.StatusNotFound, "not_found", "post not found")
		}
		return errJSON(c, http.StatusInternalServerError, "internal_error", err.Error())
	}
	return c.JSON(http.StatusCreated, report)
}
