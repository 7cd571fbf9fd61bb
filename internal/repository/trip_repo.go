package repository

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"trip-expense/backend/internal/model"
)

// TripListFilters 出差列表过滤条件
type TripListFilters struct {
	UserID  string
	Status  string
	Purpose string
}

// TripRepository 出差数据访问接口
type TripRepository interface {
	Create(ctx context.Context, trip *model.Trip) error
	// GetByIDAndUser 按所有者查询；非本人出差与不存在同样返回 gorm.ErrRecordNotFound
	GetByIDAndUser(ctx context.Context, id, userID string) (*model.Trip, error)
	// GetByIDForUpdate 使用 SELECT ... FOR UPDATE 行级锁查询出差
	// 必须在 Repository.Transaction 提供的事务聚合上调用
	GetByIDForUpdate(ctx context.Context, id string) (*model.Trip, error)
	Update(ctx context.Context, trip *model.Trip) error
	UpdateTotalExpense(ctx context.Context, id string, total decimal.Decimal) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filters *TripListFilters, offset, limit int) ([]model.Trip, int64, error)
	ListByUser(ctx context.Context, userID string) ([]model.Trip, error)
}

// tripRepo TripRepository 的 GORM 实现
type tripRepo struct {
	db *gorm.DB
}

// NewTripRepo 创建 TripRepository 实例
func NewTripRepo(db *gorm.DB) TripRepository {
	return &tripRepo{db: db}
}

func (r *tripRepo) Create(ctx context.Context, trip *model.Trip) error {
	return r.db.WithContext(ctx).Create(trip).Error
}

func (r *tripRepo) GetByIDAndUser(ctx context.Context, id, userID string) (*model.Trip, error) {
	var trip model.Trip
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&trip).Error
	if err != nil {
		return nil, err
	}
	return &trip, nil
}

func (r *tripRepo) GetByIDForUpdate(ctx context.Context, id string) (*model.Trip, error) {
	var trip model.Trip
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&trip).Error
	if err != nil {
		return nil, err
	}
	return &trip, nil
}

// Update 保存客户端可修改的字段；total_expense 不在此处写入
func (r *tripRepo) Update(ctx context.Context, trip *model.Trip) error {
	return r.db.WithContext(ctx).
		Model(trip).
		Select("purpose", "description", "start_date", "end_date", "status", "updated_at").
		Updates(trip).Error
}

func (r *tripRepo) UpdateTotalExpense(ctx context.Context, id string, total decimal.Decimal) error {
	return r.db.WithContext(ctx).
		Model(&model.Trip{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"total_expense": total,
			"updated_at":    gorm.Expr("NOW()"),
		}).Error
}

func (r *tripRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.Trip{}).Error
}

func (r *tripRepo) List(ctx context.Context, filters *TripListFilters, offset, limit int) ([]model.Trip, int64, error) {
	var trips []model.Trip
	var total int64

	db := r.db.WithContext(ctx).Model(&model.Trip{}).Where("user_id = ?", filters.UserID)
	if filters.Status != "" {
		db = db.Where("status = ?", filters.Status)
	}
	if filters.Purpose != "" {
		db = db.Where("purpose = ?", filters.Purpose)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.Offset(offset).Limit(limit).
		Order("start_date DESC, created_at DESC").
		Find(&trips).Error; err != nil {
		return nil, 0, err
	}

	return trips, total, nil
}

func (r *tripRepo) ListByUser(ctx context.Context, userID string) ([]model.Trip, error) {
	var trips []model.Trip
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("start_date ASC").
		Find(&trips).Error
	return trips, err
}
