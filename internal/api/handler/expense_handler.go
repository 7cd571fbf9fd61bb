package handler

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"trip-expense/backend/internal/dto"
	"trip-expense/backend/internal/service"
	"trip-expense/backend/pkg/response"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExpenseHandler 费用模块 HTTP 处理器
type ExpenseHandler struct {
	expenseSvc service.ExpenseService
}

// NewExpenseHandler 创建 ExpenseHandler
func NewExpenseHandler(expenseSvc service.ExpenseService) *ExpenseHandler {
	return &ExpenseHandler{expenseSvc: expenseSvc}
}

// List 费用列表，include_total=true 时附带过滤结果的金额合计
// GET /api/v1/expenses
func (h *ExpenseHandler) List(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	var req dto.ExpenseListRequest
	if !bindQuery(c, &req) {
		return
	}

	result, err := h.expenseSvc.List(c.Request.Context(), userID, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	if result.TotalAmount != nil {
		response.OKPageWithTotal(c, result.List, result.Total, req.GetPage(), req.GetPageSize(), *result.TotalAmount)
		return
	}
	response.OKPage(c, result.List, result.Total, req.GetPage(), req.GetPageSize())
}

// Create 创建费用
// POST /api/v1/expenses
func (h *ExpenseHandler) Create(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	var req dto.CreateExpenseRequest
	if !bindJSON(c, &req) {
		return
	}

	expense, err := h.expenseSvc.Create(c.Request.Context(), userID, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.Created(c, expense)
}

// Get 费用详情
// GET /api/v1/expenses/:id
func (h *ExpenseHandler) Get(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, service.ErrExpenseNotFound)
	if !ok {
		return
	}

	expense, err := h.expenseSvc.GetByID(c.Request.Context(), userID, id)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.OK(c, expense)
}

// Update 更新费用（PUT 全量 / PATCH 部分）
// PUT|PATCH /api/v1/expenses/:id
func (h *ExpenseHandler) Update(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, service.ErrExpenseNotFound)
	if !ok {
		return
	}
	var req dto.UpdateExpenseRequest
	if !bindJSON(c, &req) {
		return
	}
	if rejectMissingForReplace(c, req.MissingForReplace()) {
		return
	}

	expense, err := h.expenseSvc.Update(c.Request.Context(), userID, id, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.OK(c, expense)
}

// Delete 删除费用
// DELETE /api/v1/expenses/:id
func (h *ExpenseHandler) Delete(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, service.ErrExpenseNotFound)
	if !ok {
		return
	}
	if err := h.expenseSvc.Delete(c.Request.Context(), userID, id); err != nil {
		handleServiceError(c, err)
		return
	}
	response.NoContent(c)
}

// Export 导出费用为 Excel
// GET /api/v1/expenses/export
func (h *ExpenseHandler) Export(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	var req dto.ExpenseExportRequest
	if !bindQuery(c, &req) {
		return
	}

	buf, filename, err := h.expenseSvc.Export(c.Request.Context(), userID, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	// 设置下载响应头
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+url.QueryEscape(filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
