package dto

// ── 空闲时间表模块 DTO ──

// WeekGrid 一周 7 天 × 25 格的时段文本
// 键为星期（"1"-"7"，1=周一），值为固定 25 格
type WeekGrid map[string][]string

// SaveWeekRequest 整周覆盖保存
type SaveWeekRequest struct {
	Week WeekGrid `json:"week" binding:"required"`
}

// WeekResponse 整周读取响应
type WeekResponse struct {
	UserID string   `json:"user_id"`
	Week   WeekGrid `json:"week"`
}

// SaveWeekResponse 保存结果
// 各天独立保存；FailedDays 非空表示部分天保存失败（已保存的天不回滚）
type SaveWeekResponse struct {
	SavedDays  []int `json:"saved_days"`
	FailedDays []int `json:"failed_days,omitempty"`
}
