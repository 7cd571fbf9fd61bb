package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"trip-expense/backend/internal/service"
	pkgerrors "trip-expense/backend/pkg/errors"
	"trip-expense/backend/pkg/response"
)

// ── 业务错误码 ──

const (
	codeValidation         = 10001
	codeUnauthenticated    = 10002
	codeInvalidCredentials = 11001
	codeUserInactive       = 11002
	codeUserNotFound       = 20001
	codeTripNotFound       = 21001
	codeExpenseNotFound    = 22001
	codeReportNotFound     = 23001
)

// handleServiceError 将 service 层错误映射为 HTTP 响应
func handleServiceError(c *gin.Context, err error) {
	if ve, ok := pkgerrors.AsValidation(err); ok {
		response.ValidationFailed(c, ve.Fields)
		return
	}

	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		response.Error(c, http.StatusUnauthorized, codeInvalidCredentials, err.Error())
	case errors.Is(err, service.ErrUserInactive):
		response.Error(c, http.StatusUnauthorized, codeUserInactive, err.Error())
	case errors.Is(err, service.ErrUserNotFound):
		response.NotFound(c, codeUserNotFound, err.Error())
	case errors.Is(err, service.ErrTripNotFound):
		response.NotFound(c, codeTripNotFound, err.Error())
	case errors.Is(err, service.ErrExpenseNotFound):
		response.NotFound(c, codeExpenseNotFound, err.Error())
	case errors.Is(err, service.ErrWeeklyReportNotFound):
		response.NotFound(c, codeReportNotFound, err.Error())
	default:
		response.InternalError(c)
	}
}

// rejectMissingForReplace PUT 全量更新缺少必填字段时写入 400 并返回 true
func rejectMissingForReplace(c *gin.Context, missing map[string]string) bool {
	if c.Request.Method != http.MethodPut || len(missing) == 0 {
		return false
	}
	response.ValidationFailed(c, missing)
	return true
}
