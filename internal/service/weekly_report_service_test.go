package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"trip-expense/backend/internal/dto"
	"trip-expense/backend/internal/model"
)

// ── 测试辅助 ──

type reportFixture struct {
	svc      WeeklyReportService
	expenses ExpenseService
	trips    TripService
	repo     *mockWeeklyReportRepo
	clock    time.Time
}

func setupTestWeeklyReportService() *reportFixture {
	repo, _, _, _, reportRepo := newTestRepository()
	f := &reportFixture{
		expenses: NewExpenseService(repo, zap.NewNop()),
		trips:    NewTripService(repo, zap.NewNop()),
		repo:     reportRepo,
		clock:    time.Date(2024, time.January, 15, 9, 0, 0, 0, time.UTC),
	}
	svc := NewWeeklyReportService(repo, zap.NewNop()).(*weeklyReportService)
	svc.now = func() time.Time { return f.clock }
	f.svc = svc
	return f
}

func (f *reportFixture) createDraft(t *testing.T, userID string) *dto.WeeklyReportResponse {
	t.Helper()
	r, err := f.svc.Create(context.Background(), userID, &dto.CreateWeeklyReportRequest{
		WeekStart: "2024-01-08",
		WeekEnd:   "2024-01-14",
	})
	if err != nil {
		t.Fatalf("创建周报应成功: %v", err)
	}
	return r
}

// ── submitted_at ──

func TestWeeklyReportService_SubmittedAtSetOnce(t *testing.T) {
	f := setupTestWeeklyReportService()
	ctx := context.Background()
	r := f.createDraft(t, "u-1")

	if r.SubmittedAt != nil {
		t.Fatal("草稿 submitted_at 应为空")
	}

	// 草稿下的其它修改不写入 submitted_at
	r, err := f.svc.Update(ctx, "u-1", r.ID, &dto.UpdateWeeklyReportRequest{Comments: strPtr("draft note")})
	if err != nil {
		t.Fatalf("Update 应成功: %v", err)
	}
	if r.SubmittedAt != nil {
		t.Error("未提交时 submitted_at 应保持为空")
	}

	r, err = f.svc.Update(ctx, "u-1", r.ID, &dto.UpdateWeeklyReportRequest{Status: strPtr(model.ReportStatusSubmitted)})
	if err != nil {
		t.Fatalf("提交应成功: %v", err)
	}
	if r.SubmittedAt == nil {
		t.Fatal("提交后 submitted_at 应被写入")
	}
	first := *r.SubmittedAt

	// 保持 submitted 的后续修改不影响 submitted_at
	f.clock = f.clock.Add(48 * time.Hour)
	r, err = f.svc.Update(ctx, "u-1", r.ID, &dto.UpdateWeeklyReportRequest{
		Status:   strPtr(model.ReportStatusSubmitted),
		Comments: strPtr("resubmit"),
	})
	if err != nil {
		t.Fatalf("Update 应成功: %v", err)
	}
	if r.SubmittedAt == nil || *r.SubmittedAt != first {
		t.Errorf("submitted_at 不应变化，期望=%s 实际=%v", first, r.SubmittedAt)
	}
}

func TestWeeklyReportService_CreateSubmitted(t *testing.T) {
	f := setupTestWeeklyReportService()

	r, err := f.svc.Create(context.Background(), "u-1", &dto.CreateWeeklyReportRequest{
		WeekStart: "2024-01-08",
		WeekEnd:   "2024-01-14",
		Status:    model.ReportStatusSubmitted,
	})
	if err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}
	if r.SubmittedAt == nil {
		t.Error("直接以 submitted 创建时应写入 submitted_at")
	}
}

// ── total_amount ──

func TestWeeklyReportService_TotalFrozenAfterDraft(t *testing.T) {
	f := setupTestWeeklyReportService()
	ctx := context.Background()
	trip := createTestTrip(t, f.trips, "u-1", "2024-01-08", "2024-01-14")

	if _, err := f.expenses.Create(ctx, "u-1", &dto.CreateExpenseRequest{
		TripID: trip.ID, Category: model.CategoryFood, Amount: amountPtr("40.00"), Date: "2024-01-09",
	}); err != nil {
		t.Fatalf("创建费用应成功: %v", err)
	}
	// 周外费用不计入
	if _, err := f.expenses.Create(ctx, "u-1", &dto.CreateExpenseRequest{
		TripID: trip.ID, Category: model.CategoryFood, Amount: amountPtr("99.00"), Date: "2024-01-20",
	}); err != nil {
		t.Fatalf("创建费用应成功: %v", err)
	}

	r := f.createDraft(t, "u-1")
	if r.TotalAmount != "40.00" {
		t.Errorf("期望 total_amount=40.00，实际=%s", r.TotalAmount)
	}

	if _, err := f.expenses.Create(ctx, "u-1", &dto.CreateExpenseRequest{
		TripID: trip.ID, Category: model.CategoryMisc, Amount: amountPtr("10.00"), Date: "2024-01-10",
	}); err != nil {
		t.Fatalf("创建费用应成功: %v", err)
	}

	// 存储状态为 draft：本次保存重新汇总
	r, err := f.svc.Update(ctx, "u-1", r.ID, &dto.UpdateWeeklyReportRequest{Status: strPtr(model.ReportStatusSubmitted)})
	if err != nil {
		t.Fatalf("提交应成功: %v", err)
	}
	if r.TotalAmount != "50.00" {
		t.Errorf("期望 total_amount=50.00，实际=%s", r.TotalAmount)
	}

	if _, err := f.expenses.Create(ctx, "u-1", &dto.CreateExpenseRequest{
		TripID: trip.ID, Category: model.CategoryMisc, Amount: amountPtr("5.00"), Date: "2024-01-11",
	}); err != nil {
		t.Fatalf("创建费用应成功: %v", err)
	}

	// 已提交：合计冻结
	r, err = f.svc.Update(ctx, "u-1", r.ID, &dto.UpdateWeeklyReportRequest{Comments: strPtr("frozen")})
	if err != nil {
		t.Fatalf("Update 应成功: %v", err)
	}
	if r.TotalAmount != "50.00" {
		t.Errorf("离开 draft 后合计应冻结为 50.00，实际=%s", r.TotalAmount)
	}
}

// ── 校验 / 归属 ──

func TestWeeklyReportService_WeekOrder(t *testing.T) {
	f := setupTestWeeklyReportService()

	_, err := f.svc.Create(context.Background(), "u-1", &dto.CreateWeeklyReportRequest{
		WeekStart: "2024-01-14",
		WeekEnd:   "2024-01-08",
	})
	assertFieldError(t, err, "week_end")
}

func TestWeeklyReportService_InvalidStatus(t *testing.T) {
	f := setupTestWeeklyReportService()
	r := f.createDraft(t, "u-1")

	_, err := f.svc.Update(context.Background(), "u-1", r.ID, &dto.UpdateWeeklyReportRequest{Status: strPtr("archived")})
	assertFieldError(t, err, "status")
}

func TestWeeklyReportService_OwnerScoped(t *testing.T) {
	f := setupTestWeeklyReportService()
	ctx := context.Background()
	r := f.createDraft(t, "u-1")

	if _, err := f.svc.GetByID(ctx, "u-2", r.ID); !errors.Is(err, ErrWeeklyReportNotFound) {
		t.Errorf("期望 ErrWeeklyReportNotFound，实际: %v", err)
	}
	if err := f.svc.Delete(ctx, "u-2", r.ID); !errors.Is(err, ErrWeeklyReportNotFound) {
		t.Errorf("期望 ErrWeeklyReportNotFound，实际: %v", err)
	}

	list, total, err := f.svc.List(ctx, "u-1", &dto.WeeklyReportListRequest{Status: model.ReportStatusDraft})
	if err != nil {
		t.Fatalf("List 应成功: %v", err)
	}
	if total != 1 || len(list) != 1 {
		t.Errorf("期望 1 条草稿，实际 total=%d", total)
	}

	if err := f.svc.Delete(ctx, "u-1", r.ID); err != nil {
		t.Fatalf("Delete 应成功: %v", err)
	}
	if _, ok := f.repo.reports[r.ID]; ok {
		t.Error("周报应被删除")
	}
}

func TestWeeklyReportService_UpdateLocksRow(t *testing.T) {
	f := setupTestWeeklyReportService()
	ctx := context.Background()
	r := f.createDraft(t, "u-1")

	if _, err := f.svc.Update(ctx, "u-1", r.ID, &dto.UpdateWeeklyReportRequest{Status: strPtr(model.ReportStatusSubmitted)}); err != nil {
		t.Fatalf("提交应成功: %v", err)
	}
	if len(f.repo.locked) != 1 || f.repo.locked[0] != r.ID {
		t.Errorf("更新应在事务内锁定周报行，实际锁定记录=%v", f.repo.locked)
	}

	// 非本人周报在加锁读取时即返回不存在，且不写入
	if _, err := f.svc.Update(ctx, "u-2", r.ID, &dto.UpdateWeeklyReportRequest{Comments: strPtr("x")}); !errors.Is(err, ErrWeeklyReportNotFound) {
		t.Errorf("期望 ErrWeeklyReportNotFound，实际: %v", err)
	}
	if got := f.repo.reports[r.ID]; got.Comments == "x" {
		t.Error("非本人更新不应落库")
	}
}

func TestWeeklyReportService_FailedUpdateKeepsStored(t *testing.T) {
	f := setupTestWeeklyReportService()
	ctx := context.Background()
	r := f.createDraft(t, "u-1")

	_, err := f.svc.Update(ctx, "u-1", r.ID, &dto.UpdateWeeklyReportRequest{
		Status:  strPtr(model.ReportStatusSubmitted),
		WeekEnd: strPtr("2024-01-01"),
	})
	if err == nil {
		t.Fatal("week_end 早于 week_start 应失败")
	}
	stored := f.repo.reports[r.ID]
	if stored.Status != model.ReportStatusDraft || stored.SubmittedAt != nil {
		t.Errorf("校验失败时不应修改存储状态，实际 status=%s submitted_at=%v", stored.Status, stored.SubmittedAt)
	}
}
