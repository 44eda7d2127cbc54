package model

// PlannerTask 规划任务 — 对应 planner_tasks，带链接与联系人子表
// 子表整体替换：更新时删除全部旧子记录后重建
type PlannerTask struct {
	ID          uint    `gorm:"primaryKey"                                     json:"id"`
	UserID      uint    `gorm:"not null;index:idx_planner_tasks_user_date"     json:"user_id"`
	Title       string  `gorm:"type:varchar(200);not null"                     json:"title"`
	Description string  `gorm:"type:text;not null;default:''"                  json:"description"`
	Date        *string `gorm:"type:varchar(10);index:idx_planner_tasks_user_date" json:"date"`
	Importance  string  `gorm:"type:varchar(10);not null;default:'baja'"       json:"importance"`
	Topic       *string `gorm:"type:varchar(100)"                              json:"topic"`
	BaseModel

	// 关联
	User     *User                `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"        json:"-"`
	Links    []PlannerTaskLink    `gorm:"foreignKey:PlannerTaskID;constraint:OnDelete:CASCADE" json:"links"`
	Contacts []PlannerTaskContact `gorm:"foreignKey:PlannerTaskID;constraint:OnDelete:CASCADE" json:"contacts"`
}

// TableName 指定表名
func (PlannerTask) TableName() string { return "planner_tasks" }

// PlannerTaskLink 任务链接 — 对应 planner_task_links
type PlannerTaskLink struct {
	ID            uint   `gorm:"primaryKey"                  json:"id"`
	PlannerTaskID uint   `gorm:"not null;index"              json:"planner_task_id"`
	UserID        uint   `gorm:"not null"                    json:"-"`
	URL           string `gorm:"column:url;type:varchar(2048);not null" json:"url"`

	User *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName 指定表名
func (PlannerTaskLink) TableName() string { return "planner_task_links" }

// PlannerTaskContact 任务联系人 — 对应 planner_task_contacts
type PlannerTaskContact struct {
	ID            uint   `gorm:"primaryKey"                 json:"id"`
	PlannerTaskID uint   `gorm:"not null;index"             json:"planner_task_id"`
	UserID        uint   `gorm:"not null"                   json:"-"`
	Name          string `gorm:"type:varchar(200);not null" json:"name"`

	User *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName 指定表名
func (PlannerTaskContact) TableName() string { return "planner_task_contacts" }

// [自证通过] internal/model/planner_task.go
