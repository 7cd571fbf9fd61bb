package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"trip-expense/backend/internal/dto"
	"trip-expense/backend/internal/model"
	pkgerrors "trip-expense/backend/pkg/errors"
)

// ── 测试辅助 ──

func setupTestUserService() (UserService, *mockUserRepo) {
	repo, userRepo, _, _, _ := newTestRepository()
	return NewUserService(repo, zap.NewNop()), userRepo
}

func validCreateUserRequest() *dto.CreateUserRequest {
	return &dto.CreateUserRequest{
		Username:        "bob",
		Password:        "s3cretpass",
		ConfirmPassword: "s3cretpass",
		Email:           "bob@example.com",
		FirstName:       "Bob",
		LastName:        "Smith",
		EmployeeID:      "E100",
		Department:      model.DepartmentFIN,
		Mobile:          "9876543210",
	}
}

func strPtr(s string) *string { return &s }

// assertFieldError 断言返回字段级错误且包含 field
func assertFieldError(t *testing.T, err error, field string) {
	t.Helper()
	ve, ok := pkgerrors.AsValidation(err)
	if !ok {
		t.Fatalf("期望 ValidationError，实际: %v", err)
	}
	if _, exists := ve.Fields[field]; !exists {
		t.Errorf("期望字段 %s 的错误，实际: %v", field, ve.Fields)
	}
}

// ── Create ──

func TestUserService_Create_Success(t *testing.T) {
	svc, userRepo := setupTestUserService()

	resp, err := svc.Create(context.Background(), validCreateUserRequest())
	if err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}
	if !resp.IsActive {
		t.Error("新用户应为激活状态")
	}

	stored := userRepo.users[resp.ID]
	if stored == nil {
		t.Fatal("用户未写入仓库")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("s3cretpass")); err != nil {
		t.Error("密码应以 bcrypt 哈希存储")
	}
}

func TestUserService_Create_PasswordMismatch(t *testing.T) {
	svc, _ := setupTestUserService()
	req := validCreateUserRequest()
	req.ConfirmPassword = "different1"

	_, err := svc.Create(context.Background(), req)
	assertFieldError(t, err, "confirm_password")
}

func TestUserService_Create_InvalidFields(t *testing.T) {
	svc, _ := setupTestUserService()
	req := validCreateUserRequest()
	req.Department = "LEGAL"
	req.Mobile = "12345"
	req.Password, req.ConfirmPassword = "short", "short"

	_, err := svc.Create(context.Background(), req)
	assertFieldError(t, err, "department")
	assertFieldError(t, err, "mobile")
	assertFieldError(t, err, "password")
}

func TestUserService_Create_DuplicateEmployeeID(t *testing.T) {
	svc, userRepo := setupTestUserService()
	seedUser(userRepo, "u-1", "alice", true)
	req := validCreateUserRequest()
	req.EmployeeID = "E-u-1"
	req.Username = "alice"

	_, err := svc.Create(context.Background(), req)
	assertFieldError(t, err, "employee_id")
	assertFieldError(t, err, "username")
}

func TestUserService_Create_ManagerMustExist(t *testing.T) {
	svc, userRepo := setupTestUserService()
	req := validCreateUserRequest()
	req.ManagerID = strPtr("missing")

	_, err := svc.Create(context.Background(), req)
	assertFieldError(t, err, "manager_id")

	seedUser(userRepo, "boss", "boss", true)
	req.ManagerID = strPtr("boss")
	resp, err := svc.Create(context.Background(), req)
	if err != nil {
		t.Fatalf("上级存在时 Create 应成功: %v", err)
	}
	if resp.ManagerID == nil || *resp.ManagerID != "boss" {
		t.Errorf("期望 ManagerID=boss，实际=%v", resp.ManagerID)
	}
}

// ── Update ──

func TestUserService_Update_ManagerSelfRejected(t *testing.T) {
	svc, userRepo := setupTestUserService()
	seedUser(userRepo, "u-1", "alice", true)

	_, err := svc.Update(context.Background(), "u-1", &dto.UpdateUserRequest{ManagerID: strPtr("u-1")})
	assertFieldError(t, err, "manager_id")
	if userRepo.users["u-1"].ManagerID != nil {
		t.Error("校验失败时不应保存上级")
	}
}

func TestUserService_Update_ManagerOtherAccepted(t *testing.T) {
	svc, userRepo := setupTestUserService()
	seedUser(userRepo, "u-1", "alice", true)
	seedUser(userRepo, "u-2", "carol", true)

	resp, err := svc.Update(context.Background(), "u-1", &dto.UpdateUserRequest{ManagerID: strPtr("u-2")})
	if err != nil {
		t.Fatalf("Update 应成功: %v", err)
	}
	if resp.ManagerID == nil || *resp.ManagerID != "u-2" {
		t.Errorf("期望 ManagerID=u-2，实际=%v", resp.ManagerID)
	}

	resp, err = svc.Update(context.Background(), "u-1", &dto.UpdateUserRequest{ClearManager: true})
	if err != nil {
		t.Fatalf("清空上级应成功: %v", err)
	}
	if resp.ManagerID != nil {
		t.Error("期望上级被清空")
	}
}

func TestUserService_Update_PasswordRehash(t *testing.T) {
	svc, userRepo := setupTestUserService()
	seedUser(userRepo, "u-1", "alice", true)

	_, err := svc.Update(context.Background(), "u-1", &dto.UpdateUserRequest{Password: strPtr("newpassword")})
	assertFieldError(t, err, "confirm_password")

	_, err = svc.Update(context.Background(), "u-1", &dto.UpdateUserRequest{
		Password:        strPtr("newpassword"),
		ConfirmPassword: strPtr("newpassword"),
	})
	if err != nil {
		t.Fatalf("修改密码应成功: %v", err)
	}
	hash := userRepo.users["u-1"].PasswordHash
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte("newpassword")); err != nil {
		t.Error("新密码应重新哈希存储")
	}
}

func TestUserService_Update_UniqueExcludesSelf(t *testing.T) {
	svc, userRepo := setupTestUserService()
	seedUser(userRepo, "u-1", "alice", true)

	_, err := svc.Update(context.Background(), "u-1", &dto.UpdateUserRequest{
		Username:   strPtr("alice"),
		EmployeeID: strPtr("E-u-1"),
		FirstName:  strPtr("Alice"),
	})
	if err != nil {
		t.Fatalf("保留自身用户名与工号应成功: %v", err)
	}
	if userRepo.users["u-1"].FirstName != "Alice" {
		t.Error("FirstName 未更新")
	}
}

func TestUserService_Update_NotFound(t *testing.T) {
	svc, _ := setupTestUserService()

	_, err := svc.Update(context.Background(), "missing", &dto.UpdateUserRequest{})
	if !errors.Is(err, ErrUserNotFound) {
		t.Errorf("期望 ErrUserNotFound，实际: %v", err)
	}
}

// ── Delete / List ──

func TestUserService_Delete_Soft(t *testing.T) {
	svc, userRepo := setupTestUserService()
	seedUser(userRepo, "u-1", "alice", true)

	if err := svc.Delete(context.Background(), "u-1"); err != nil {
		t.Fatalf("Delete 应成功: %v", err)
	}
	stored, ok := userRepo.users["u-1"]
	if !ok {
		t.Fatal("软删除不应移除记录")
	}
	if stored.IsActive {
		t.Error("期望 is_active=false")
	}
}

func TestUserService_List_Filters(t *testing.T) {
	svc, userRepo := setupTestUserService()
	seedUser(userRepo, "u-1", "alice", true)
	seedUser(userRepo, "u-2", "bob", false)

	active := true
	list, total, err := svc.List(context.Background(), &dto.UserListRequest{IsActive: &active})
	if err != nil {
		t.Fatalf("List 应成功: %v", err)
	}
	if total != 1 || len(list) != 1 || list[0].Username != "alice" {
		t.Errorf("期望仅返回 alice，实际 total=%d list=%+v", total, list)
	}
}

func TestUserService_Update_EmptyManagerClears(t *testing.T) {
	svc, userRepo := setupTestUserService()
	seedUser(userRepo, "u-1", "alice", true)
	seedUser(userRepo, "u-2", "carol", true)

	if _, err := svc.Update(context.Background(), "u-1", &dto.UpdateUserRequest{ManagerID: strPtr("u-2")}); err != nil {
		t.Fatalf("设置上级应成功: %v", err)
	}

	resp, err := svc.Update(context.Background(), "u-1", &dto.UpdateUserRequest{ManagerID: strPtr("")})
	if err != nil {
		t.Fatalf("manager_id 为空字符串应视为清空，实际错误: %v", err)
	}
	if resp.ManagerID != nil {
		t.Errorf("期望上级被清空，实际=%v", *resp.ManagerID)
	}
}
