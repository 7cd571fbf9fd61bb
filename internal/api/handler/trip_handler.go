package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"trip-expense/backend/internal/dto"
	"trip-expense/backend/internal/service"
	"trip-expense/backend/pkg/response"
)

// TripHandler 出差模块 HTTP 处理器
type TripHandler struct {
	tripSvc service.TripService
}

// NewTripHandler 创建 TripHandler
func NewTripHandler(tripSvc service.TripService) *TripHandler {
	return &TripHandler{tripSvc: tripSvc}
}

// List 当前用户的出差列表
// GET /api/v1/trips
func (h *TripHandler) List(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	var req dto.TripListRequest
	if !bindQuery(c, &req) {
		return
	}

	trips, total, err := h.tripSvc.List(c.Request.Context(), userID, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.OKPage(c, trips, total, req.GetPage(), req.GetPageSize())
}

// Create 创建出差
// POST /api/v1/trips
func (h *TripHandler) Create(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	var req dto.CreateTripRequest
	if !bindJSON(c, &req) {
		return
	}

	trip, err := h.tripSvc.Create(c.Request.Context(), userID, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.Created(c, trip)
}

// Get 出差详情
// GET /api/v1/trips/:id
func (h *TripHandler) Get(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, service.ErrTripNotFound)
	if !ok {
		return
	}

	trip, err := h.tripSvc.GetByID(c.Request.Context(), userID, id)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.OK(c, trip)
}

// Update 更新出差（PUT 全量 / PATCH 部分）
// PUT|PATCH /api/v1/trips/:id
func (h *TripHandler) Update(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, service.ErrTripNotFound)
	if !ok {
		return
	}
	var req dto.UpdateTripRequest
	if !bindJSON(c, &req) {
		return
	}
	if rejectMissingForReplace(c, req.MissingForReplace()) {
		return
	}

	trip, err := h.tripSvc.Update(c.Request.Context(), userID, id, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.OK(c, trip)
}

// Delete 删除出差（连同费用）
// DELETE /api/v1/trips/:id
func (h *TripHandler) Delete(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, service.ErrTripNotFound)
	if !ok {
		return
	}
	if err := h.tripSvc.Delete(c.Request.Context(), userID, id); err != nil {
		handleServiceError(c, err)
		return
	}
	response.NoContent(c)
}

// Calendar 出差日历订阅
// GET /api/v1/trips/calendar.ics
func (h *TripHandler) Calendar(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	body, err := h.tripSvc.Calendar(c.Request.Context(), userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", `inline; filename="trips.ics"`)
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", body)
}
