package dto

// ── 提醒模块 DTO ──

// ReminderRequest 创建 / 更新提醒请求
type ReminderRequest struct {
	Date        string `json:"date"        binding:"required,datetime=2006-01-02"`
	Title       string `json:"title"       binding:"required,max=200"`
	Description string `json:"description" binding:"max=2000"`
	Importance  string `json:"importance"  binding:"omitempty,oneof=baja media alta"`
}

// ReminderListRequest 提醒列表查询，date 与 month 二选一
type ReminderListRequest struct {
	Date  string `form:"date"  binding:"omitempty,datetime=2006-01-02"`
	Month string `form:"month" binding:"omitempty,datetime=2006-01"`
}

// ReminderResponse 提醒信息
type ReminderResponse struct {
	ID          uint   `json:"id"`
	Date        string `json:"date"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Importance  string `json:"importance"`
}

// ImportRemindersRequest 通过 URL 导入日历（与文件上传二选一）
type ImportRemindersRequest struct {
	URL string `form:"url" binding:"omitempty,url,max=2048"`
}

// ImportResultResponse 日历导入结果
type ImportResultResponse struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
}
