package dto

import "github.com/shopspring/decimal"

// ── 费用模块 DTO ──

// ExpenseListRequest 费用列表查询参数
type ExpenseListRequest struct {
	PaginationRequest
	Trip         string `form:"trip"          binding:"omitempty,uuid"`
	Category     string `form:"category"      binding:"omitempty,oneof=transport food accommodation misc"`
	Search       string `form:"search"        binding:"omitempty,max=100"`
	Ordering     string `form:"ordering"      binding:"omitempty,oneof=date -date amount -amount category -category"`
	StartDate    string `form:"start_date"    binding:"omitempty,datetime=2006-01-02"`
	EndDate      string `form:"end_date"      binding:"omitempty,datetime=2006-01-02"`
	IncludeTotal bool   `form:"include_total"`
}

// CreateExpenseRequest 创建费用请求
// amount 接受 JSON 数字或字符串（"150.00"）
type CreateExpenseRequest struct {
	TripID      string                 `json:"trip_id"     binding:"required,uuid"`
	Category    string                 `json:"category"    binding:"required,oneof=transport food accommodation misc"`
	Description string                 `json:"description" binding:"omitempty,max=2000"`
	Amount      *decimal.Decimal       `json:"amount"      binding:"required"`
	Details     map[string]interface{} `json:"details"`
	Date        string                 `json:"date"        binding:"required,datetime=2006-01-02"`
	Comments    string                 `json:"comments"    binding:"omitempty,max=2000"`
	Receipt     *string                `json:"receipt"     binding:"omitempty,max=255"`
	Verified    bool                   `json:"verified"`
}

// UpdateExpenseRequest 更新费用请求（PUT 全量 / PATCH 部分）
type UpdateExpenseRequest struct {
	TripID      *string                `json:"trip_id"     binding:"omitempty,uuid"`
	Category    *string                `json:"category"    binding:"omitempty,oneof=transport food accommodation misc"`
	Description *string                `json:"description" binding:"omitempty,max=2000"`
	Amount      *decimal.Decimal       `json:"amount"`
	Details     map[string]interface{} `json:"details"`
	Date        *string                `json:"date"        binding:"omitempty,datetime=2006-01-02"`
	Comments    *string                `json:"comments"    binding:"omitempty,max=2000"`
	Receipt     *string                `json:"receipt"     binding:"omitempty,max=255"`
	Verified    *bool                  `json:"verified"`
}

// MissingForReplace PUT 全量更新时必须提供的字段
func (r *UpdateExpenseRequest) MissingForReplace() map[string]string {
	missing := map[string]string{}
	if r.TripID == nil {
		missing["trip_id"] = requiredMsg
	}
	if r.Category == nil {
		missing["category"] = requiredMsg
	}
	if r.Amount == nil {
		missing["amount"] = requiredMsg
	}
	if r.Date == nil {
		missing["date"] = requiredMsg
	}
	return missing
}

// ExpenseResponse 费用响应，金额为两位小数定点字符串
type ExpenseResponse struct {
	ID          string                 `json:"id"`
	TripID      string                 `json:"trip_id"`
	UserID      string                 `json:"user_id"`
	Category    string                 `json:"category"`
	Description string                 `json:"description"`
	Amount      string                 `json:"amount"`
	Details     map[string]interface{} `json:"details"`
	Date        string                 `json:"date"`
	Comments    string                 `json:"comments"`
	Receipt     *string                `json:"receipt"`
	Verified    bool                   `json:"verified"`
	CreatedAt   string                 `json:"created_at"`
	UpdatedAt   string                 `json:"updated_at"`
}

// ExpenseListResult 费用列表结果；TotalAmount 仅在 include_total 时有值
type ExpenseListResult struct {
	List        []ExpenseResponse
	Total       int64
	TotalAmount *string
}
