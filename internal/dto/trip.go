package dto

// ── 出差模块 DTO ──

// TripListRequest 出差列表查询参数
type TripListRequest struct {
	PaginationRequest
	Status  string `form:"status"  binding:"omitempty,oneof=planned ongoing completed cancelled"`
	Purpose string `form:"purpose" binding:"omitempty,oneof=MEETING CONFERENCE TRAINING AUDIT SALES OTHER"`
}

// CreateTripRequest 创建出差请求
// 所有者取自登录用户；total_expense 由系统维护，请求中的值被忽略
type CreateTripRequest struct {
	Purpose     string `json:"purpose"     binding:"required,oneof=MEETING CONFERENCE TRAINING AUDIT SALES OTHER"`
	Description string `json:"description" binding:"omitempty,max=2000"`
	StartDate   string `json:"start_date"  binding:"required,datetime=2006-01-02"`
	EndDate     string `json:"end_date"    binding:"required,datetime=2006-01-02"`
	Status      string `json:"status"      binding:"omitempty,oneof=planned ongoing completed cancelled"`
}

// UpdateTripRequest 更新出差请求（PUT 全量 / PATCH 部分）
type UpdateTripRequest struct {
	Purpose     *string `json:"purpose"     binding:"omitempty,oneof=MEETING CONFERENCE TRAINING AUDIT SALES OTHER"`
	Description *string `json:"description" binding:"omitempty,max=2000"`
	StartDate   *string `json:"start_date"  binding:"omitempty,datetime=2006-01-02"`
	EndDate     *string `json:"end_date"    binding:"omitempty,datetime=2006-01-02"`
	Status      *string `json:"status"      binding:"omitempty,oneof=planned ongoing completed cancelled"`
}

// MissingForReplace PUT 全量更新时必须提供的字段
func (r *UpdateTripRequest) MissingForReplace() map[string]string {
	missing := map[string]string{}
	if r.Purpose == nil {
		missing["purpose"] = requiredMsg
	}
	if r.StartDate == nil {
		missing["start_date"] = requiredMsg
	}
	if r.EndDate == nil {
		missing["end_date"] = requiredMsg
	}
	return missing
}

// TripResponse 出差响应
type TripResponse struct {
	ID           string `json:"id"`
	UserID       string `json:"user_id"`
	Purpose      string `json:"purpose"`
	Description  string `json:"description"`
	StartDate    string `json:"start_date"`
	EndDate      string `json:"end_date"`
	Status       string `json:"status"`
	TotalExpense string `json:"total_expense"`
	CreatedAt    string `json:"created_at"`
	UpdatedAt    string `json:"updated_at"`
}
