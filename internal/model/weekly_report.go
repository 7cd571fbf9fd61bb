package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// WeeklyReport 报销周报表 — 对应 weekly_reports
type WeeklyReport struct {
	ID          string          `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	UserID      string          `gorm:"type:uuid;not null;index"                       json:"user_id"`
	WeekStart   Date            `gorm:"type:date;not null"                             json:"week_start"`
	WeekEnd     Date            `gorm:"type:date;not null"                             json:"week_end"`
	Status      string          `gorm:"type:varchar(10);not null;default:'draft'"      json:"status"`
	TotalAmount decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"          json:"total_amount"`
	ReportFile  *string         `gorm:"type:varchar(255)"                              json:"report_file"`
	SubmittedAt *time.Time      `json:"submitted_at"`
	Comments    string          `gorm:"type:text;not null;default:''"                  json:"comments"`
	BaseModel
}

// TableName 指定表名
func (WeeklyReport) TableName() string { return "weekly_reports" }
