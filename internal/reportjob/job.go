// Package reportjob 月度费用报告任务：按用户汇总上月费用生成 CSV 并邮件发送。
// 由外部 cron 调用 cmd/reportjob 触发，一次运行处理一个月份。
package reportjob

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"trip-expense/backend/internal/dto"
	"trip-expense/backend/internal/model"
	"trip-expense/backend/internal/repository"
	"trip-expense/backend/pkg/mailer"
)

// Job 月度费用报告任务
type Job struct {
	repo   *repository.Repository
	sender mailer.Sender
	logger *zap.Logger
}

// New 创建任务
func New(repo *repository.Repository, sender mailer.Sender, logger *zap.Logger) *Job {
	return &Job{repo: repo, sender: sender, logger: logger}
}

// Run 顺序处理全部用户（含已停用）。
// 单个用户的查询或发送失败只记录日志并计入 Failed，不中断其余用户；
// 仅在无法获取用户列表或 ctx 被取消时返回错误。
func (j *Job) Run(ctx context.Context, period Period) (*dto.MonthlyReportSummary, error) {
	j.logger.Info("开始生成月度费用报告", zap.String("period", period.String()))

	users, err := j.repo.User.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("查询用户列表失败: %w", err)
	}

	summary := &dto.MonthlyReportSummary{Period: period.String(), Users: len(users)}

	for i := range users {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		user := &users[i]
		sent, err := j.processUser(ctx, user, period)
		switch {
		case err != nil:
			summary.Failed++
			j.logger.Error("发送费用报告失败",
				zap.String("username", user.Username),
				zap.String("email", user.Email),
				zap.Error(err),
			)
		case sent:
			summary.Sent++
			j.logger.Info("费用报告已发送", zap.String("email", user.Email))
		default:
			summary.Skipped++
		}
	}

	j.logger.Info("月度费用报告生成完成",
		zap.String("period", summary.Period),
		zap.Int("users", summary.Users),
		zap.Int("sent", summary.Sent),
		zap.Int("skipped", summary.Skipped),
		zap.Int("failed", summary.Failed),
	)
	return summary, nil
}

// processUser 返回 sent=false 且 err=nil 表示跳过
func (j *Job) processUser(ctx context.Context, user *model.User, period Period) (bool, error) {
	expenses, err := j.repo.Expense.ListByUserInPeriod(ctx, user.ID, period.Start(), period.End())
	if err != nil {
		return false, fmt.Errorf("查询费用失败: %w", err)
	}
	if len(expenses) == 0 {
		j.logger.Info("上月无费用，跳过", zap.String("username", user.Username))
		return false, nil
	}
	if user.Email == "" {
		j.logger.Warn("用户未配置邮箱，跳过", zap.String("username", user.Username))
		return false, nil
	}

	content, _, err := BuildCSV(expenses)
	if err != nil {
		return false, fmt.Errorf("生成 CSV 失败: %w", err)
	}

	msg := &mailer.Message{
		To:      []string{user.Email},
		Subject: "Expense Report for " + period.Label(),
		Body:    "Please find attached your expense report for " + period.Label() + ".",
		Attachments: []mailer.Attachment{{
			Filename:    period.AttachmentName(),
			ContentType: "text/csv",
			Content:     content,
		}},
	}
	if err := j.sender.Send(ctx, msg); err != nil {
		return false, err
	}
	return true, nil
}
