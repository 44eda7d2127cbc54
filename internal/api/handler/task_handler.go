package handler

import (
	"github.com/gin-gonic/gin"

	"planeador/backend/internal/dto"
	"planeador/backend/internal/service"
	"planeador/backend/pkg/response"
)

// TaskHandler 科目任务 HTTP 处理器
type TaskHandler struct {
	taskSvc service.TaskService
}

// NewTaskHandler 创建 TaskHandler
func NewTaskHandler(taskSvc service.TaskService) *TaskHandler {
	return &TaskHandler{taskSvc: taskSvc}
}

// Create 在科目下创建任务
// POST /api/v1/subjects/:id/tasks
func (h *TaskHandler) Create(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	subjectID, ok := ParseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	task, err := h.taskSvc.Create(c.Request.Context(), subjectID, userID, &req)
	if err != nil {
		handleSubjectError(c, err)
		return
	}

	response.Created(c, task)
}

// Update 修改任务描述
// PUT /api/v1/tasks/:id
func (h *TaskHandler) Update(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	id, ok := ParseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	if err := h.taskSvc.UpdateDescription(c.Request.Context(), id, userID, &req); err != nil {
		handleSubjectError(c, err)
		return
	}

	response.OK(c, nil)
}

// SetCompleted 标记任务完成状态
// PUT /api/v1/tasks/:id/completed
func (h *TaskHandler) SetCompleted(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	id, ok := ParseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.SetTaskCompletedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	if err := h.taskSvc.SetCompleted(c.Request.Context(), id, userID, *req.Completed); err != nil {
		handleSubjectError(c, err)
		return
	}

	response.OK(c, nil)
}

// Delete 删除任务
// DELETE /api/v1/tasks/:id
func (h *TaskHandler) Delete(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	id, ok := ParseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.taskSvc.Delete(c.Request.Context(), id, userID); err != nil {
		handleSubjectError(c, err)
		return
	}

	response.OK(c, nil)
}
