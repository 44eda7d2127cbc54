package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"planeador/backend/internal/dto"
	"planeador/backend/internal/service"
	"planeador/backend/pkg/response"
)

// PomodoroHandler 番茄钟预设 HTTP 处理器
type PomodoroHandler struct {
	pomodoroSvc service.PomodoroService
}

// NewPomodoroHandler 创建 PomodoroHandler
func NewPomodoroHandler(pomodoroSvc service.PomodoroService) *PomodoroHandler {
	return &PomodoroHandler{pomodoroSvc: pomodoroSvc}
}

// List GET /api/v1/pomodoro/presets
func (h *PomodoroHandler) List(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	presets, err := h.pomodoroSvc.List(c.Request.Context(), userID)
	if err != nil {
		handlePomodoroError(c, err)
		return
	}

	response.OK(c, presets)
}

// Create 新建预设，每个用户最多 3 个
// POST /api/v1/pomodoro/presets
func (h *PomodoroHandler) Create(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.PresetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	preset, err := h.pomodoroSvc.Create(c.Request.Context(), userID, &req)
	if err != nil {
		handlePomodoroError(c, err)
		return
	}

	response.Created(c, preset)
}

// Update PUT /api/v1/pomodoro/presets/:id
func (h *PomodoroHandler) Update(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	id, ok := ParseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.PresetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	preset, err := h.pomodoroSvc.Update(c.Request.Context(), id, userID, &req)
	if err != nil {
		handlePomodoroError(c, err)
		return
	}

	response.OK(c, preset)
}

// Delete DELETE /api/v1/pomodoro/presets/:id
func (h *PomodoroHandler) Delete(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	id, ok := ParseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.pomodoroSvc.Delete(c.Request.Context(), id, userID); err != nil {
		handlePomodoroError(c, err)
		return
	}

	response.OK(c, nil)
}

func handlePomodoroError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrPresetLimitReached):
		response.Conflict(c, 15001, "最多只能保存 3 个预设")
	case errors.Is(err, service.ErrPresetNotFound):
		response.NotFound(c, 15002, "番茄钟预设不存在")
	case errors.Is(err, service.ErrPresetNameEmpty):
		response.BadRequest(c, 15003, "预设名称不能为空")
	case errors.Is(err, service.ErrPresetDuration):
		response.BadRequest(c, 15004, "时长必须为正整数分钟")
	default:
		handleCommonError(c, err)
	}
}
