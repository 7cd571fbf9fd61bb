package repository

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"trip-expense/backend/internal/model"
)

// ExpenseListFilters 费用列表过滤条件
type ExpenseListFilters struct {
	UserID    string
	TripID    string
	Category  string
	Search    string      // 描述模糊搜索
	StartDate *model.Date // 含
	EndDate   *model.Date // 含
	Ordering  string      // 见 expenseOrderings
}

// expenseOrderings 允许的排序参数 → SQL ORDER BY，未知值回退为默认
var expenseOrderings = map[string]string{
	"date":      "date ASC, created_at ASC",
	"-date":     "date DESC, created_at DESC",
	"amount":    "amount ASC, created_at ASC",
	"-amount":   "amount DESC, created_at DESC",
	"category":  "category ASC, created_at ASC",
	"-category": "category DESC, created_at DESC",
}

const defaultExpenseOrdering = "-date"

// ExpenseOrderingAllowed 排序参数是否在白名单内
func ExpenseOrderingAllowed(ordering string) bool {
	_, ok := expenseOrderings[ordering]
	return ok
}

// ExpenseRepository 费用数据访问接口
type ExpenseRepository interface {
	Create(ctx context.Context, expense *model.Expense) error
	// GetByIDAndUser 按所有者查询；非本人费用与不存在同样返回 gorm.ErrRecordNotFound
	GetByIDAndUser(ctx context.Context, id, userID string) (*model.Expense, error)
	Update(ctx context.Context, expense *model.Expense) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filters *ExpenseListFilters, offset, limit int) ([]model.Expense, int64, error)
	// ListAll 不分页，供导出使用；limit<=0 表示不限制
	ListAll(ctx context.Context, filters *ExpenseListFilters, limit int) ([]model.Expense, error)
	// SumAmount 过滤结果的金额合计（整个结果集，不受分页影响）
	SumAmount(ctx context.Context, filters *ExpenseListFilters) (decimal.Decimal, error)
	// SumByTrip 某出差下全部费用的金额合计
	SumByTrip(ctx context.Context, tripID string) (decimal.Decimal, error)
	// ListByUserInPeriod 用户在 [from, to) 日期区间内的费用，按类别、创建时间排序
	ListByUserInPeriod(ctx context.Context, userID string, from, to model.Date) ([]model.Expense, error)
}

// expenseRepo ExpenseRepository 的 GORM 实现
type expenseRepo struct {
	db *gorm.DB
}

// NewExpenseRepo 创建 ExpenseRepository 实例
func NewExpenseRepo(db *gorm.DB) ExpenseRepository {
	return &expenseRepo{db: db}
}

func (r *expenseRepo) Create(ctx context.Context, expense *model.Expense) error {
	return r.db.WithContext(ctx).Create(expense).Error
}

func (r *expenseRepo) GetByIDAndUser(ctx context.Context, id, userID string) (*model.Expense, error) {
	var expense model.Expense
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&expense).Error
	if err != nil {
		return nil, err
	}
	return &expense, nil
}

func (r *expenseRepo) Update(ctx context.Context, expense *model.Expense) error {
	return r.db.WithContext(ctx).Save(expense).Error
}

func (r *expenseRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.Expense{}).Error
}

// applyFilters 组装 WHERE 条件（不含排序）
func (r *expenseRepo) applyFilters(ctx context.Context, filters *ExpenseListFilters) *gorm.DB {
	db := r.db.WithContext(ctx).Model(&model.Expense{}).Where("user_id = ?", filters.UserID)
	if filters.TripID != "" {
		db = db.Where("trip_id = ?", filters.TripID)
	}
	if filters.Category != "" {
		db = db.Where("category = ?", filters.Category)
	}
	if filters.Search != "" {
		db = db.Where("description ILIKE ?", "%"+filters.Search+"%")
	}
	if filters.StartDate != nil {
		db = db.Where("date >= ?", *filters.StartDate)
	}
	if filters.EndDate != nil {
		db = db.Where("date <= ?", *filters.EndDate)
	}
	return db
}

func orderClause(ordering string) string {
	if o, ok := expenseOrderings[ordering]; ok {
		return o
	}
	return expenseOrderings[defaultExpenseOrdering]
}

func (r *expenseRepo) List(ctx context.Context, filters *ExpenseListFilters, offset, limit int) ([]model.Expense, int64, error) {
	var expenses []model.Expense
	var total int64

	db := r.applyFilters(ctx, filters)

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.Offset(offset).Limit(limit).
		Order(orderClause(filters.Ordering)).
		Find(&expenses).Error; err != nil {
		return nil, 0, err
	}

	return expenses, total, nil
}

func (r *expenseRepo) ListAll(ctx context.Context, filters *ExpenseListFilters, limit int) ([]model.Expense, error) {
	var expenses []model.Expense
	db := r.applyFilters(ctx, filters).Order(orderClause(filters.Ordering))
	if limit > 0 {
		db = db.Limit(limit)
	}
	err := db.Find(&expenses).Error
	return expenses, err
}

func (r *expenseRepo) SumAmount(ctx context.Context, filters *ExpenseListFilters) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.applyFilters(ctx, filters).
		Select("COALESCE(SUM(amount), 0)").
		Row().Scan(&total)
	return total, err
}

func (r *expenseRepo) SumByTrip(ctx context.Context, tripID string) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.WithContext(ctx).
		Model(&model.Expense{}).
		Where("trip_id = ?", tripID).
		Select("COALESCE(SUM(amount), 0)").
		Row().Scan(&total)
	return total, err
}

func (r *expenseRepo) ListByUserInPeriod(ctx context.Context, userID string, from, to model.Date) ([]model.Expense, error) {
	var expenses []model.Expense
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND date >= ? AND date < ?", userID, from, to).
		Order("category ASC, created_at ASC").
		Find(&expenses).Error
	return expenses, err
}

// [自证通过] internal/repository/expense_repo.go
