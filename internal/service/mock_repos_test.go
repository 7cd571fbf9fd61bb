package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"trip-expense/backend/internal/model"
	"trip-expense/backend/internal/repository"
)

// 所有 mock 在读取时返回副本，模拟数据库中"未保存的修改不生效"

// newTestRepository 组装全部 mock 的 Repository 聚合（db 为 nil，Transaction 直接执行）
func newTestRepository() (*repository.Repository, *mockUserRepo, *mockTripRepo, *mockExpenseRepo, *mockWeeklyReportRepo) {
	users := newMockUserRepo()
	trips := newMockTripRepo()
	expenses := newMockExpenseRepo()
	reports := newMockWeeklyReportRepo()
	repo := &repository.Repository{
		User:         users,
		Trip:         trips,
		Expense:      expenses,
		WeeklyReport: reports,
	}
	return repo, users, trips, expenses, reports
}

// ── Mock UserRepository ──

type mockUserRepo struct {
	users map[string]*model.User // key: id
	seq   int
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	if user.ID == "" {
		m.seq++
		user.ID = fmt.Sprintf("user-%d", m.seq)
	}
	now := time.Now()
	user.DateJoined, user.LastModified = now, now
	cp := *user
	m.users[user.ID] = &cp
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByUsername(_ context.Context, username string) (*model.User, error) {
	for _, u := range m.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByEmployeeID(_ context.Context, employeeID string) (*model.User, error) {
	for _, u := range m.users {
		if u.EmployeeID == employeeID {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) Update(_ context.Context, user *model.User) error {
	user.LastModified = time.Now()
	cp := *user
	m.users[user.ID] = &cp
	return nil
}

func (m *mockUserRepo) Deactivate(_ context.Context, id string) error {
	if u, ok := m.users[id]; ok {
		u.IsActive = false
	}
	return nil
}

func (m *mockUserRepo) List(_ context.Context, filters *repository.UserListFilters, offset, limit int) ([]model.User, int64, error) {
	var result []model.User
	for _, u := range m.users {
		if filters != nil {
			if filters.Department != "" && u.Department != filters.Department {
				continue
			}
			if filters.IsActive != nil && u.IsActive != *filters.IsActive {
				continue
			}
			if filters.Keyword != "" && !strings.Contains(strings.ToLower(u.Username), strings.ToLower(filters.Keyword)) {
				continue
			}
		}
		result = append(result, *u)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Username < result[j].Username })
	return paginate(result, offset, limit), int64(len(result)), nil
}

func (m *mockUserRepo) ListAll(_ context.Context) ([]model.User, error) {
	var result []model.User
	for _, u := range m.users {
		result = append(result, *u)
	}
	return result, nil
}

// ── Mock TripRepository ──

type mockTripRepo struct {
	trips  map[string]*model.Trip
	seq    int
	locked []string // GetByIDForUpdate 调用顺序
}

func newMockTripRepo() *mockTripRepo {
	return &mockTripRepo{trips: make(map[string]*model.Trip)}
}

func (m *mockTripRepo) Create(_ context.Context, trip *model.Trip) error {
	if trip.ID == "" {
		m.seq++
		trip.ID = fmt.Sprintf("trip-%d", m.seq)
	}
	now := time.Now()
	trip.CreatedAt, trip.UpdatedAt = now, now
	cp := *trip
	m.trips[trip.ID] = &cp
	return nil
}

func (m *mockTripRepo) GetByIDAndUser(_ context.Context, id, userID string) (*model.Trip, error) {
	if t, ok := m.trips[id]; ok && t.UserID == userID {
		cp := *t
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTripRepo) GetByIDForUpdate(_ context.Context, id string) (*model.Trip, error) {
	m.locked = append(m.locked, id)
	if t, ok := m.trips[id]; ok {
		cp := *t
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTripRepo) Update(_ context.Context, trip *model.Trip) error {
	stored, ok := m.trips[trip.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	// total_expense 不由 Update 写入
	total := stored.TotalExpense
	cp := *trip
	cp.TotalExpense = total
	cp.UpdatedAt = time.Now()
	m.trips[trip.ID] = &cp
	return nil
}

func (m *mockTripRepo) UpdateTotalExpense(_ context.Context, id string, total decimal.Decimal) error {
	if t, ok := m.trips[id]; ok {
		t.TotalExpense = total
	}
	return nil
}

func (m *mockTripRepo) Delete(_ context.Context, id string) error {
	delete(m.trips, id)
	return nil
}

func (m *mockTripRepo) List(_ context.Context, filters *repository.TripListFilters, offset, limit int) ([]model.Trip, int64, error) {
	var result []model.Trip
	for _, t := range m.trips {
		if t.UserID != filters.UserID {
			continue
		}
		if filters.Status != "" && t.Status != filters.Status {
			continue
		}
		if filters.Purpose != "" && t.Purpose != filters.Purpose {
			continue
		}
		result = append(result, *t)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].StartDate.After(result[j].StartDate) })
	return paginate(result, offset, limit), int64(len(result)), nil
}

func (m *mockTripRepo) ListByUser(_ context.Context, userID string) ([]model.Trip, error) {
	var result []model.Trip
	for _, t := range m.trips {
		if t.UserID == userID {
			result = append(result, *t)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[j].StartDate.After(result[i].StartDate) })
	return result, nil
}

// ── Mock ExpenseRepository ──

type mockExpenseRepo struct {
	expenses map[string]*model.Expense
	seq      int
}

func newMockExpenseRepo() *mockExpenseRepo {
	return &mockExpenseRepo{expenses: make(map[string]*model.Expense)}
}

func (m *mockExpenseRepo) Create(_ context.Context, expense *model.Expense) error {
	if expense.ID == "" {
		m.seq++
		expense.ID = fmt.Sprintf("exp-%d", m.seq)
	}
	now := time.Now()
	expense.CreatedAt, expense.UpdatedAt = now, now
	cp := *expense
	m.expenses[expense.ID] = &cp
	return nil
}

func (m *mockExpenseRepo) GetByIDAndUser(_ context.Context, id, userID string) (*model.Expense, error) {
	if e, ok := m.expenses[id]; ok && e.UserID == userID {
		cp := *e
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockExpenseRepo) Update(_ context.Context, expense *model.Expense) error {
	expense.UpdatedAt = time.Now()
	cp := *expense
	m.expenses[expense.ID] = &cp
	return nil
}

func (m *mockExpenseRepo) Delete(_ context.Context, id string) error {
	delete(m.expenses, id)
	return nil
}

func (m *mockExpenseRepo) match(e *model.Expense, f *repository.ExpenseListFilters) bool {
	if e.UserID != f.UserID {
		return false
	}
	if f.TripID != "" && e.TripID != f.TripID {
		return false
	}
	if f.Category != "" && e.Category != f.Category {
		return false
	}
	if f.Search != "" && !strings.Contains(strings.ToLower(e.Description), strings.ToLower(f.Search)) {
		return false
	}
	if f.StartDate != nil && f.StartDate.After(e.Date) {
		return false
	}
	if f.EndDate != nil && e.Date.After(*f.EndDate) {
		return false
	}
	return true
}

func (m *mockExpenseRepo) filtered(f *repository.ExpenseListFilters) []model.Expense {
	var result []model.Expense
	for _, e := range m.expenses {
		if m.match(e, f) {
			result = append(result, *e)
		}
	}
	switch f.Ordering {
	case "amount":
		sort.Slice(result, func(i, j int) bool { return result[i].Amount.LessThan(result[j].Amount) })
	case "-amount":
		sort.Slice(result, func(i, j int) bool { return result[i].Amount.GreaterThan(result[j].Amount) })
	default:
		sort.Slice(result, func(i, j int) bool { return result[i].Date.After(result[j].Date) })
	}
	return result
}

func (m *mockExpenseRepo) List(_ context.Context, filters *repository.ExpenseListFilters, offset, limit int) ([]model.Expense, int64, error) {
	result := m.filtered(filters)
	return paginate(result, offset, limit), int64(len(result)), nil
}

func (m *mockExpenseRepo) ListAll(_ context.Context, filters *repository.ExpenseListFilters, limit int) ([]model.Expense, error) {
	result := m.filtered(filters)
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (m *mockExpenseRepo) SumAmount(_ context.Context, filters *repository.ExpenseListFilters) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, e := range m.filtered(filters) {
		total = total.Add(e.Amount)
	}
	return total, nil
}

func (m *mockExpenseRepo) SumByTrip(_ context.Context, tripID string) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, e := range m.expenses {
		if e.TripID == tripID {
			total = total.Add(e.Amount)
		}
	}
	return total, nil
}

func (m *mockExpenseRepo) ListByUserInPeriod(_ context.Context, userID string, from, to model.Date) ([]model.Expense, error) {
	var result []model.Expense
	for _, e := range m.expenses {
		if e.UserID == userID && !from.After(e.Date) && to.After(e.Date) {
			result = append(result, *e)
		}
	}
	return result, nil
}

// ── Mock WeeklyReportRepository ──

type mockWeeklyReportRepo struct {
	reports map[string]*model.WeeklyReport
	seq     int
	locked  []string // GetByIDAndUserForUpdate 调用记录
}

func newMockWeeklyReportRepo() *mockWeeklyReportRepo {
	return &mockWeeklyReportRepo{reports: make(map[string]*model.WeeklyReport)}
}

func (m *mockWeeklyReportRepo) Create(_ context.Context, report *model.WeeklyReport) error {
	if report.ID == "" {
		m.seq++
		report.ID = fmt.Sprintf("report-%d", m.seq)
	}
	now := time.Now()
	report.CreatedAt, report.UpdatedAt = now, now
	cp := *report
	m.reports[report.ID] = &cp
	return nil
}

func (m *mockWeeklyReportRepo) GetByIDAndUser(_ context.Context, id, userID string) (*model.WeeklyReport, error) {
	if r, ok := m.reports[id]; ok && r.UserID == userID {
		cp := *r
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockWeeklyReportRepo) GetByIDAndUserForUpdate(ctx context.Context, id, userID string) (*model.WeeklyReport, error) {
	m.locked = append(m.locked, id)
	return m.GetByIDAndUser(ctx, id, userID)
}

func (m *mockWeeklyReportRepo) Update(_ context.Context, report *model.WeeklyReport) error {
	report.UpdatedAt = time.Now()
	cp := *report
	m.reports[report.ID] = &cp
	return nil
}

func (m *mockWeeklyReportRepo) Delete(_ context.Context, id string) error {
	delete(m.reports, id)
	return nil
}

func (m *mockWeeklyReportRepo) List(_ context.Context, filters *repository.WeeklyReportListFilters, offset, limit int) ([]model.WeeklyReport, int64, error) {
	var result []model.WeeklyReport
	for _, r := range m.reports {
		if r.UserID != filters.UserID {
			continue
		}
		if filters.Status != "" && r.Status != filters.Status {
			continue
		}
		result = append(result, *r)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].WeekStart.After(result[j].WeekStart) })
	return paginate(result, offset, limit), int64(len(result)), nil
}

// ── 辅助函数 ──

func paginate[T any](items []T, offset, limit int) []T {
	if offset >= len(items) {
		return []T{}
	}
	end := offset + limit
	if limit <= 0 || end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}
