package reportjob

import (
	"fmt"
	"time"

	"trip-expense/backend/internal/model"
)

// Period 一个自然月
type Period struct {
	Year  int
	Month time.Month
}

// PreviousMonth 以 loc 时区计算 now 所在月份的上一个自然月
func PreviousMonth(now time.Time, loc *time.Location) Period {
	if loc == nil {
		loc = time.UTC
	}
	local := now.In(loc)
	first := time.Date(local.Year(), local.Month(), 1, 0, 0, 0, 0, loc).AddDate(0, -1, 0)
	return Period{Year: first.Year(), Month: first.Month()}
}

// ParsePeriod 解析 YYYY-MM
func ParsePeriod(s string) (Period, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return Period{}, fmt.Errorf("无效的月份 %q，格式应为 YYYY-MM: %w", s, err)
	}
	return Period{Year: t.Year(), Month: t.Month()}, nil
}

// Start 当月第一天（含）
func (p Period) Start() model.Date {
	return model.NewDate(time.Date(p.Year, p.Month, 1, 0, 0, 0, 0, time.UTC))
}

// End 下月第一天（不含）
func (p Period) End() model.Date {
	return model.NewDate(time.Date(p.Year, p.Month, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, 0))
}

// String YYYY-MM
func (p Period) String() string { return fmt.Sprintf("%04d-%02d", p.Year, int(p.Month)) }

// Label 邮件中展示的月份，如 "January 2024"
func (p Period) Label() string { return fmt.Sprintf("%s %d", p.Month.String(), p.Year) }

// AttachmentName 附件文件名，如 expense_report_2024_01.csv
func (p Period) AttachmentName() string {
	return fmt.Sprintf("expense_report_%04d_%02d.csv", p.Year, int(p.Month))
}
