package dto

// ── 导出模块 DTO ──

// ExpenseExportRequest 费用导出参数，过滤条件与列表一致
type ExpenseExportRequest struct {
	Trip      string `form:"trip"       binding:"omitempty,uuid"`
	Category  string `form:"category"   binding:"omitempty,oneof=transport food accommodation misc"`
	Search    string `form:"search"     binding:"omitempty,max=100"`
	Ordering  string `form:"ordering"   binding:"omitempty,oneof=date -date amount -amount category -category"`
	StartDate string `form:"start_date" binding:"omitempty,datetime=2006-01-02"`
	EndDate   string `form:"end_date"   binding:"omitempty,datetime=2006-01-02"`
}
