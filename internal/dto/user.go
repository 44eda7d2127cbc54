package dto

// ── 用户模块 DTO ──

// UserListRequest 用户列表查询参数（管理员）
type UserListRequest struct {
	PaginationRequest
	Keyword string `form:"keyword" binding:"omitempty,max=50"`
}

// UpdateProfileRequest 更新个人资料请求
type UpdateProfileRequest struct {
	Name string `json:"name" binding:"required,min=2,max=100"`
}

// AdminToggleResponse 切换管理员标志的结果
type AdminToggleResponse struct {
	ID      uint `json:"id"`
	IsAdmin bool `json:"is_admin"`
}

// PhotoResponse 头像上传结果
type PhotoResponse struct {
	PhotoURL string `json:"photo_url"`
}
