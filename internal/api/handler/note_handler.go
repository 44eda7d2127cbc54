package handler

import (
	"github.com/gin-gonic/gin"

	"planeador/backend/internal/dto"
	"planeador/backend/internal/service"
	"planeador/backend/pkg/response"
)

// NoteHandler 笔记 HTTP 处理器
type NoteHandler struct {
	noteSvc service.NoteService
}

// NewNoteHandler 创建 NoteHandler
func NewNoteHandler(noteSvc service.NoteService) *NoteHandler {
	return &NoteHandler{noteSvc: noteSvc}
}

// Create POST /api/v1/subjects/:id/notes
func (h *NoteHandler) Create(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	subjectID, ok := ParseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.NoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	note, err := h.noteSvc.Create(c.Request.Context(), subjectID, userID, &req)
	if err != nil {
		handleSubjectError(c, err)
		return
	}

	response.Created(c, note)
}

// Update PUT /api/v1/notes/:id
func (h *NoteHandler) Update(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	id, ok := ParseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.NoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	if err := h.noteSvc.Update(c.Request.Context(), id, userID, &req); err != nil {
		handleSubjectError(c, err)
		return
	}

	response.OK(c, nil)
}

// Delete DELETE /api/v1/notes/:id
func (h *NoteHandler) Delete(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	id, ok := ParseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.noteSvc.Delete(c.Request.Context(), id, userID); err != nil {
		handleSubjectError(c, err)
		return
	}

	response.OK(c, nil)
}
