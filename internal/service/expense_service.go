package service

import (
	"bytes"
	"context"
	"errors"
	"sort"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"trip-expense/backend/internal/dto"
	"trip-expense/backend/internal/model"
	"trip-expense/backend/internal/repository"
	pkgerrors "trip-expense/backend/pkg/errors"
)

// ── 费用模块业务错误 ──

var (
	ErrExpenseNotFound = errors.New("费用记录不存在")
)

const (
	msgAmountNotPositive = "金额必须大于 0"
	msgAmountPrecision   = "金额最多保留两位小数"
	msgInvalidOrdering   = "不支持的排序字段"
)

// ExpenseService 费用业务接口
//
// 费用归属于出差，user_id 继承自出差所有者。
// 写操作与出差 total_expense 的重算在同一事务内完成，并对出差行加 FOR UPDATE 锁。
type ExpenseService interface {
	Create(ctx context.Context, userID string, req *dto.CreateExpenseRequest) (*dto.ExpenseResponse, error)
	GetByID(ctx context.Context, userID, id string) (*dto.ExpenseResponse, error)
	List(ctx context.Context, userID string, req *dto.ExpenseListRequest) (*dto.ExpenseListResult, error)
	Update(ctx context.Context, userID, id string, req *dto.UpdateExpenseRequest) (*dto.ExpenseResponse, error)
	Delete(ctx context.Context, userID, id string) error
	// Export 导出过滤后的费用为 Excel，返回内容与建议文件名
	Export(ctx context.Context, userID string, req *dto.ExpenseExportRequest) (*bytes.Buffer, string, error)
}

type expenseService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewExpenseService 创建 ExpenseService 实例
func NewExpenseService(repo *repository.Repository, logger *zap.Logger) ExpenseService {
	return &expenseService{repo: repo, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *expenseService) Create(ctx context.Context, userID string, req *dto.CreateExpenseRequest) (*dto.ExpenseResponse, error) {
	verr := &pkgerrors.ValidationError{}

	checkCategory(verr, req.Category)
	if req.Amount == nil {
		verr.Add("amount", requiredField)
	} else {
		checkAmount(verr, *req.Amount)
	}
	date := parseDateField(verr, "date", req.Date)
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	expense := &model.Expense{
		TripID:      req.TripID,
		Category:    req.Category,
		Description: req.Description,
		Amount:      *req.Amount,
		Details:     toJSONMap(req.Details),
		Date:        *date,
		Comments:    req.Comments,
		Receipt:     req.Receipt,
		Verified:    req.Verified,
	}

	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		trips, err := lockTrips(ctx, tx, userID, req.TripID)
		if err != nil {
			return err
		}
		expense.UserID = trips[req.TripID].UserID

		if err := tx.Expense.Create(ctx, expense); err != nil {
			return err
		}
		return recalcTripTotals(ctx, tx, req.TripID)
	})
	if err != nil {
		return nil, s.wrapTxError("创建费用失败", err)
	}

	resp := toExpenseResponse(expense)
	return &resp, nil
}

// ────────────────────── GetByID ──────────────────────

func (s *expenseService) GetByID(ctx context.Context, userID, id string) (*dto.ExpenseResponse, error) {
	expense, err := s.repo.Expense.GetByIDAndUser(ctx, id, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrExpenseNotFound
		}
		s.logger.Error("查询费用失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	resp := toExpenseResponse(expense)
	return &resp, nil
}

// ────────────────────── List ──────────────────────

func (s *expenseService) List(ctx context.Context, userID string, req *dto.ExpenseListRequest) (*dto.ExpenseListResult, error) {
	filters, err := buildExpenseFilters(userID, req.Trip, req.Category, req.Search, req.Ordering, req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}

	expenses, total, err := s.repo.Expense.List(ctx, filters, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("查询费用列表失败", zap.Error(err))
		return nil, err
	}

	result := &dto.ExpenseListResult{
		List:  make([]dto.ExpenseResponse, 0, len(expenses)),
		Total: total,
	}
	for i := range expenses {
		result.List = append(result.List, toExpenseResponse(&expenses[i]))
	}

	// 合计为整个过滤结果集的金额，不受分页影响
	if req.IncludeTotal {
		sum, err := s.repo.Expense.SumAmount(ctx, filters)
		if err != nil {
			s.logger.Error("统计费用合计失败", zap.Error(err))
			return nil, err
		}
		amount := sum.StringFixed(2)
		result.TotalAmount = &amount
	}

	return result, nil
}

// ────────────────────── Update ──────────────────────

func (s *expenseService) Update(ctx context.Context, userID, id string, req *dto.UpdateExpenseRequest) (*dto.ExpenseResponse, error) {
	verr := &pkgerrors.ValidationError{}
	if req.Category != nil {
		checkCategory(verr, *req.Category)
	}
	if req.Amount != nil {
		checkAmount(verr, *req.Amount)
	}
	var date *model.Date
	if req.Date != nil {
		date = parseDateField(verr, "date", *req.Date)
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	var updated *model.Expense
	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		expense, err := tx.Expense.GetByIDAndUser(ctx, id, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrExpenseNotFound
			}
			return err
		}

		oldTripID := expense.TripID
		newTripID := oldTripID
		if req.TripID != nil {
			newTripID = *req.TripID
		}

		// 涉及的出差按 id 顺序加锁（移动费用时锁两行）
		trips, err := lockTrips(ctx, tx, userID, oldTripID, newTripID)
		if err != nil {
			return err
		}

		expense.TripID = newTripID
		expense.UserID = trips[newTripID].UserID
		expense.Trip = nil
		if req.Category != nil {
			expense.Category = *req.Category
		}
		if req.Description != nil {
			expense.Description = *req.Description
		}
		if req.Amount != nil {
			expense.Amount = *req.Amount
		}
		if req.Details != nil {
			expense.Details = toJSONMap(req.Details)
		}
		if date != nil {
			expense.Date = *date
		}
		if req.Comments != nil {
			expense.Comments = *req.Comments
		}
		if req.Receipt != nil {
			expense.Receipt = req.Receipt
		}
		if req.Verified != nil {
			expense.Verified = *req.Verified
		}

		if err := tx.Expense.Update(ctx, expense); err != nil {
			return err
		}
		updated = expense
		return recalcTripTotals(ctx, tx, oldTripID, newTripID)
	})
	if err != nil {
		return nil, s.wrapTxError("更新费用失败", err)
	}

	resp := toExpenseResponse(updated)
	return &resp, nil
}

// ────────────────────── Delete ──────────────────────

func (s *expenseService) Delete(ctx context.Context, userID, id string) error {
	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		expense, err := tx.Expense.GetByIDAndUser(ctx, id, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrExpenseNotFound
			}
			return err
		}

		if _, err := lockTrips(ctx, tx, userID, expense.TripID); err != nil {
			return err
		}
		if err := tx.Expense.Delete(ctx, expense.ID); err != nil {
			return err
		}
		return recalcTripTotals(ctx, tx, expense.TripID)
	})
	if err != nil {
		return s.wrapTxError("删除费用失败", err)
	}
	return nil
}

// ── 出差合计维护 ──

// lockTrips 按 id 升序对出差加 FOR UPDATE 锁并校验归属，重复 id 只锁一次。
// 非本人出差与不存在同样返回 ErrTripNotFound。
func lockTrips(ctx context.Context, tx *repository.Repository, userID string, tripIDs ...string) (map[string]*model.Trip, error) {
	ids := uniqueSorted(tripIDs)
	locked := make(map[string]*model.Trip, len(ids))
	for _, id := range ids {
		trip, err := tx.Trip.GetByIDForUpdate(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrTripNotFound
			}
			return nil, err
		}
		if trip.UserID != userID {
			return nil, ErrTripNotFound
		}
		locked[id] = trip
	}
	return locked, nil
}

// recalcTripTotals 对每个出差重新汇总全部费用并写回 total_expense
func recalcTripTotals(ctx context.Context, tx *repository.Repository, tripIDs ...string) error {
	for _, id := range uniqueSorted(tripIDs) {
		sum, err := tx.Expense.SumByTrip(ctx, id)
		if err != nil {
			return err
		}
		if err := tx.Trip.UpdateTotalExpense(ctx, id, sum); err != nil {
			return err
		}
	}
	return nil
}

func uniqueSorted(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// wrapTxError 业务错误原样返回，其余记录日志
func (s *expenseService) wrapTxError(msg string, err error) error {
	if errors.Is(err, ErrExpenseNotFound) || errors.Is(err, ErrTripNotFound) {
		return err
	}
	s.logger.Error(msg, zap.Error(err))
	return err
}

// ── 校验 ──

const requiredField = "该字段为必填项"

func checkCategory(verr *pkgerrors.ValidationError, category string) {
	if _, ok := model.ExpenseCategories[category]; !ok {
		verr.Add("category", msgInvalidChoice)
	}
}

// checkAmount 金额 > 0 且最多两位小数（0.01 合法）
func checkAmount(verr *pkgerrors.ValidationError, amount decimal.Decimal) {
	if !amount.IsPositive() {
		verr.Add("amount", msgAmountNotPositive)
		return
	}
	if !amount.Equal(amount.Truncate(2)) {
		verr.Add("amount", msgAmountPrecision)
	}
}

func toJSONMap(m map[string]interface{}) datatypes.JSONMap {
	if m == nil {
		return datatypes.JSONMap{}
	}
	return datatypes.JSONMap(m)
}

// buildExpenseFilters 列表与导出共用的过滤条件组装
func buildExpenseFilters(userID, trip, category, search, ordering, startDate, endDate string) (*repository.ExpenseListFilters, error) {
	verr := &pkgerrors.ValidationError{}

	filters := &repository.ExpenseListFilters{
		UserID:   userID,
		TripID:   trip,
		Category: category,
		Search:   search,
		Ordering: ordering,
	}
	if category != "" {
		checkCategory(verr, category)
	}
	if ordering != "" && !repository.ExpenseOrderingAllowed(ordering) {
		verr.Add("ordering", msgInvalidOrdering)
	}
	if startDate != "" {
		filters.StartDate = parseDateField(verr, "start_date", startDate)
	}
	if endDate != "" {
		filters.EndDate = parseDateField(verr, "end_date", endDate)
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}
	return filters, nil
}

// [自证通过] internal/service/expense_service.go
