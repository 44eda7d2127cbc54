package dto

// ── 课表模块 DTO ──

// SaveSlotRequest 保存课表格子（存在则更新）
type SaveSlotRequest struct {
	Day     string `json:"day"     binding:"required,max=20"`
	Time    string `json:"time"    binding:"required,max=10"`
	Subject string `json:"subject" binding:"required,max=100"`
}

// DeleteSlotRequest 删除课表格子
type DeleteSlotRequest struct {
	Day  string `form:"day"  binding:"required,max=20"`
	Time string `form:"time" binding:"required,max=10"`
}

// ScheduleEntry 某天的一格
type ScheduleEntry struct {
	Time    string `json:"time"`
	Subject string `json:"subject"`
}

// ScheduleResponse day → 按时间升序的格子列表
type ScheduleResponse map[string][]ScheduleEntry

// DeleteSlotResponse 删除结果，格子不存在时 deleted=false
type DeleteSlotResponse struct {
	Deleted bool `json:"deleted"`
}
