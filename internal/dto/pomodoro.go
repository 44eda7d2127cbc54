package dto

// ── 番茄钟模块 DTO ──

// PresetColors 三个阶段的颜色（#RRGGBB，可选）
type PresetColors struct {
	Work  string `json:"work"  binding:"omitempty,hexcolor,max=7"`
	Short string `json:"short" binding:"omitempty,hexcolor,max=7"`
	Long  string `json:"long"  binding:"omitempty,hexcolor,max=7"`
}

// PresetRequest 创建 / 更新预设请求，时长单位为分钟
type PresetRequest struct {
	Name   string       `json:"name"   binding:"required,max=50"`
	Work   int          `json:"work"   binding:"required,min=1,max=600"`
	Short  int          `json:"short"  binding:"required,min=1,max=600"`
	Long   int          `json:"long"   binding:"required,min=1,max=600"`
	Colors PresetColors `json:"colors"`
}

// PresetResponse 预设信息
type PresetResponse struct {
	ID     uint         `json:"id"`
	Slot   int          `json:"slot"`
	Name   string       `json:"name"`
	Work   int          `json:"work"`
	Short  int          `json:"short"`
	Long   int          `json:"long"`
	Colors PresetColors `json:"colors"`
}
