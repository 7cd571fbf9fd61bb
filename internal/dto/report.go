package dto

// ── 周报模块 DTO ──

// WeeklyReportListRequest 周报列表查询参数
type WeeklyReportListRequest struct {
	PaginationRequest
	Status string `form:"status" binding:"omitempty,oneof=draft submitted approved rejected"`
}

// CreateWeeklyReportRequest 创建周报请求，所有者取自登录用户
type CreateWeeklyReportRequest struct {
	WeekStart  string  `json:"week_start"  binding:"required,datetime=2006-01-02"`
	WeekEnd    string  `json:"week_end"    binding:"required,datetime=2006-01-02"`
	Status     string  `json:"status"      binding:"omitempty,oneof=draft submitted approved rejected"`
	ReportFile *string `json:"report_file" binding:"omitempty,max=255"`
	Comments   string  `json:"comments"    binding:"omitempty,max=2000"`
}

// UpdateWeeklyReportRequest 更新周报请求（PUT 全量 / PATCH 部分）
type UpdateWeeklyReportRequest struct {
	WeekStart  *string `json:"week_start"  binding:"omitempty,datetime=2006-01-02"`
	WeekEnd    *string `json:"week_end"    binding:"omitempty,datetime=2006-01-02"`
	Status     *string `json:"status"      binding:"omitempty,oneof=draft submitted approved rejected"`
	ReportFile *string `json:"report_file" binding:"omitempty,max=255"`
	Comments   *string `json:"comments"    binding:"omitempty,max=2000"`
}

// MissingForReplace PUT 全量更新时必须提供的字段
func (r *UpdateWeeklyReportRequest) MissingForReplace() map[string]string {
	missing := map[string]string{}
	if r.WeekStart == nil {
		missing["week_start"] = requiredMsg
	}
	if r.WeekEnd == nil {
		missing["week_end"] = requiredMsg
	}
	if r.Status == nil {
		missing["status"] = requiredMsg
	}
	return missing
}

// WeeklyReportResponse 周报响应
type WeeklyReportResponse struct {
	ID          string  `json:"id"`
	UserID      string  `json:"user_id"`
	WeekStart   string  `json:"week_start"`
	WeekEnd     string  `json:"week_end"`
	Status      string  `json:"status"`
	TotalAmount string  `json:"total_amount"`
	ReportFile  *string `json:"report_file"`
	SubmittedAt *string `json:"submitted_at"`
	Comments    string  `json:"comments"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
}

// ── 月度报表任务 ──

// MonthlyReportSummary 一次任务运行的统计
type MonthlyReportSummary struct {
	Period  string `json:"period"` // YYYY-MM
	Users   int    `json:"users"`
	Sent    int    `json:"sent"`
	Skipped int    `json:"skipped"`
	Failed  int    `json:"failed"`
}
