package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"trip-expense/backend/internal/model"
)

// WeeklyReportListFilters 周报列表过滤条件
type WeeklyReportListFilters struct {
	UserID string
	Status string
}

// WeeklyReportRepository 周报数据访问接口
type WeeklyReportRepository interface {
	Create(ctx context.Context, report *model.WeeklyReport) error
	GetByIDAndUser(ctx context.Context, id, userID string) (*model.WeeklyReport, error)
	// GetByIDAndUserForUpdate 同 GetByIDAndUser，附加 SELECT ... FOR UPDATE 行级锁
	// 必须在 Repository.Transaction 提供的事务聚合上调用
	GetByIDAndUserForUpdate(ctx context.Context, id, userID string) (*model.WeeklyReport, error)
	Update(ctx context.Context, report *model.WeeklyReport) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filters *WeeklyReportListFilters, offset, limit int) ([]model.WeeklyReport, int64, error)
}

type weeklyReportRepo struct {
	db *gorm.DB
}

// NewWeeklyReportRepo 创建 WeeklyReportRepository 实例
func NewWeeklyReportRepo(db *gorm.DB) WeeklyReportRepository {
	return &weeklyReportRepo{db: db}
}

func (r *weeklyReportRepo) Create(ctx context.Context, report *model.WeeklyReport) error {
	return r.db.WithContext(ctx).Create(report).Error
}

func (r *weeklyReportRepo) GetByIDAndUser(ctx context.Context, id, userID string) (*model.WeeklyReport, error) {
	var report model.WeeklyReport
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&report).Error
	if err != nil {
		return nil, err
	}
	return &report, nil
}

func (r *weeklyReportRepo) GetByIDAndUserForUpdate(ctx context.Context, id, userID string) (*model.WeeklyReport, error) {
	var report model.WeeklyReport
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ? AND user_id = ?", id, userID).
		First(&report).Error
	if err != nil {
		return nil, err
	}
	return &report, nil
}

func (r *weeklyReportRepo) Update(ctx context.Context, report *model.WeeklyReport) error {
	return r.db.WithContext(ctx).Save(report).Error
}

func (r *weeklyReportRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.WeeklyReport{}).Error
}

func (r *weeklyReportRepo) List(ctx context.Context, filters *WeeklyReportListFilters, offset, limit int) ([]model.WeeklyReport, int64, error) {
	var reports []model.WeeklyReport
	var total int64

	db := r.db.WithContext(ctx).Model(&model.WeeklyReport{}).Where("user_id = ?", filters.UserID)
	if filters.Status != "" {
		db = db.Where("status = ?", filters.Status)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.Offset(offset).Limit(limit).
		Order("week_start DESC").
		Find(&reports).Error; err != nil {
		return nil, 0, err
	}

	return reports, total, nil
}
