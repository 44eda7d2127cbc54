package handler

import (
	"github.com/gin-gonic/gin"

	"planeador/backend/internal/dto"
	"planeador/backend/internal/service"
	"planeador/backend/pkg/response"
)

// ExamHandler 考试 HTTP 处理器
type ExamHandler struct {
	examSvc service.ExamService
}

// NewExamHandler 创建 ExamHandler
func NewExamHandler(examSvc service.ExamService) *ExamHandler {
	return &ExamHandler{examSvc: examSvc}
}

// Create 在科目下登记考试
// POST /api/v1/subjects/:id/exams
func (h *ExamHandler) Create(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	subjectID, ok := ParseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.CreateExamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	exam, err := h.examSvc.Create(c.Request.Context(), subjectID, userID, &req)
	if err != nil {
		handleSubjectError(c, err)
		return
	}

	response.Created(c, exam)
}

// Update 稀疏更新考试，未出现的字段保持不变
// PATCH /api/v1/exams/:id
func (h *ExamHandler) Update(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	id, ok := ParseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateExamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	exam, err := h.examSvc.Update(c.Request.Context(), id, userID, &req)
	if err != nil {
		handleSubjectError(c, err)
		return
	}

	response.OK(c, exam)
}

// Delete 删除考试
// DELETE /api/v1/exams/:id
func (h *ExamHandler) Delete(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	id, ok := ParseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.examSvc.Delete(c.Request.Context(), id, userID); err != nil {
		handleSubjectError(c, err)
		return
	}

	response.OK(c, nil)
}
