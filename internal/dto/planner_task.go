package dto

// ── 规划任务模块 DTO ──

// PlannerTaskRequest 创建 / 更新规划任务请求
// links 与 contacts 在更新时整体替换
type PlannerTaskRequest struct {
	Title       string   `json:"title"       binding:"required,max=200"`
	Description string   `json:"description" binding:"max=5000"`
	Date        string   `json:"date"        binding:"omitempty,datetime=2006-01-02"`
	Importance  string   `json:"importance"  binding:"omitempty,oneof=baja media alta"`
	Topic       string   `json:"topic"       binding:"max=100"`
	Links       []string `json:"links"       binding:"max=50,dive,required,url,max=2048"`
	Contacts    []string `json:"contacts"    binding:"max=50,dive,required,max=200"`
}

// PlannerTaskListRequest 列表查询，date 为空时返回全部
type PlannerTaskListRequest struct {
	Date string `form:"date" binding:"omitempty,datetime=2006-01-02"`
}

// PlannerTaskResponse 规划任务信息
type PlannerTaskResponse struct {
	ID          uint     `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Date        *string  `json:"date"`
	Importance  string   `json:"importance"`
	Topic       *string  `json:"topic"`
	Links       []string `json:"links"`
	Contacts    []string `json:"contacts"`
	CreatedAt   string   `json:"created_at"`
}
