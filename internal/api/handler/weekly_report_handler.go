package handler

import (
	"github.com/gin-gonic/gin"

	"trip-expense/backend/internal/dto"
	"trip-expense/backend/internal/service"
	"trip-expense/backend/pkg/response"
)

// WeeklyReportHandler 周报模块 HTTP 处理器
type WeeklyReportHandler struct {
	reportSvc service.WeeklyReportService
}

// NewWeeklyReportHandler 创建 WeeklyReportHandler
func NewWeeklyReportHandler(reportSvc service.WeeklyReportService) *WeeklyReportHandler {
	return &WeeklyReportHandler{reportSvc: reportSvc}
}

// List 当前用户的周报
// GET /api/v1/reports
func (h *WeeklyReportHandler) List(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	var req dto.WeeklyReportListRequest
	if !bindQuery(c, &req) {
		return
	}

	reports, total, err := h.reportSvc.List(c.Request.Context(), userID, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.OKPage(c, reports, total, req.GetPage(), req.GetPageSize())
}

// Create 创建周报，所有者为当前用户
// POST /api/v1/reports
func (h *WeeklyReportHandler) Create(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	var req dto.CreateWeeklyReportRequest
	if !bindJSON(c, &req) {
		return
	}

	report, err := h.reportSvc.Create(c.Request.Context(), userID, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.Created(c, report)
}

// Get 周报详情
// GET /api/v1/reports/:id
func (h *WeeklyReportHandler) Get(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, service.ErrWeeklyReportNotFound)
	if !ok {
		return
	}

	report, err := h.reportSvc.GetByID(c.Request.Context(), userID, id)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.OK(c, report)
}

// Update 更新周报（PUT 全量 / PATCH 部分）
// PUT|PATCH /api/v1/reports/:id
func (h *WeeklyReportHandler) Update(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, service.ErrWeeklyReportNotFound)
	if !ok {
		return
	}
	var req dto.UpdateWeeklyReportRequest
	if !bindJSON(c, &req) {
		return
	}
	if rejectMissingForReplace(c, req.MissingForReplace()) {
		return
	}

	report, err := h.reportSvc.Update(c.Request.Context(), userID, id, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.OK(c, report)
}

// Delete 删除周报
// DELETE /api/v1/reports/:id
func (h *WeeklyReportHandler) Delete(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, service.ErrWeeklyReportNotFound)
	if !ok {
		return
	}
	if err := h.reportSvc.Delete(c.Request.Context(), userID, id); err != nil {
		handleServiceError(c, err)
		return
	}
	response.NoContent(c)
}
