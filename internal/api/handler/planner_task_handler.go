package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"planeador/backend/internal/dto"
	"planeador/backend/internal/service"
	"planeador/backend/pkg/response"
)

// PlannerTaskHandler 规划任务（带链接与联系人）HTTP 处理器
type PlannerTaskHandler struct {
	plannerSvc service.PlannerTaskService
}

// NewPlannerTaskHandler 创建 PlannerTaskHandler
func NewPlannerTaskHandler(plannerSvc service.PlannerTaskService) *PlannerTaskHandler {
	return &PlannerTaskHandler{plannerSvc: plannerSvc}
}

// List GET /api/v1/planner-tasks?date=YYYY-MM-DD
func (h *PlannerTaskHandler) List(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.PlannerTaskListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	tasks, err := h.plannerSvc.List(c.Request.Context(), userID, &req)
	if err != nil {
		handlePlannerTaskError(c, err)
		return
	}

	response.OK(c, tasks)
}

// Get GET /api/v1/planner-tasks/:id
func (h *PlannerTaskHandler) Get(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	id, ok := ParseIDParam(c, "id")
	if !ok {
		return
	}

	task, err := h.plannerSvc.Get(c.Request.Context(), id, userID)
	if err != nil {
		handlePlannerTaskError(c, err)
		return
	}

	response.OK(c, task)
}

// Create POST /api/v1/planner-tasks
func (h *PlannerTaskHandler) Create(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.PlannerTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	task, err := h.plannerSvc.Create(c.Request.Context(), userID, &req)
	if err != nil {
		handlePlannerTaskError(c, err)
		return
	}

	response.Created(c, task)
}

// Update 整体替换，links 与 contacts 同样整体替换
// PUT /api/v1/planner-tasks/:id
func (h *PlannerTaskHandler) Update(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	id, ok := ParseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.PlannerTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	task, err := h.plannerSvc.Update(c.Request.Context(), id, userID, &req)
	if err != nil {
		handlePlannerTaskError(c, err)
		return
	}

	response.OK(c, task)
}

// Delete DELETE /api/v1/planner-tasks/:id
func (h *PlannerTaskHandler) Delete(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	id, ok := ParseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.plannerSvc.Delete(c.Request.Context(), id, userID); err != nil {
		handlePlannerTaskError(c, err)
		return
	}

	response.OK(c, nil)
}

func handlePlannerTaskError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrPlannerTaskNotFound):
		response.NotFound(c, 17001, "规划任务不存在")
	case errors.Is(err, service.ErrPlannerTaskTitleEmpty):
		response.BadRequest(c, 17002, "规划任务标题不能为空")
	case errors.Is(err, service.ErrInvalidImportance):
		response.BadRequest(c, 16003, "重要程度只能是 baja、media 或 alta")
	default:
		handleCommonError(c, err)
	}
}
