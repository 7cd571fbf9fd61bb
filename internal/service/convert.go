package service

import (
	"time"

	"trip-expense/backend/internal/dto"
	"trip-expense/backend/internal/model"
)

// ── model → dto 转换 ──

func formatTime(t time.Time) string {
	return t.UTC().Format(dto.TimestampLayout)
}

func toUserResponse(u *model.User) dto.UserResponse {
	return dto.UserResponse{
		ID:           u.ID,
		Username:     u.Username,
		Email:        u.Email,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		EmployeeID:   u.EmployeeID,
		Department:   u.Department,
		Mobile:       u.Mobile,
		ManagerID:    u.ManagerID,
		IsActive:     u.IsActive,
		DateJoined:   formatTime(u.DateJoined),
		LastModified: formatTime(u.LastModified),
	}
}

func toUserListItem(u *model.User) dto.UserListItem {
	return dto.UserListItem{
		ID:         u.ID,
		Username:   u.Username,
		Email:      u.Email,
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		Department: u.Department,
		EmployeeID: u.EmployeeID,
		IsActive:   u.IsActive,
	}
}

func toTripResponse(t *model.Trip) dto.TripResponse {
	return dto.TripResponse{
		ID:           t.ID,
		UserID:       t.UserID,
		Purpose:      t.Purpose,
		Description:  t.Description,
		StartDate:    t.StartDate.String(),
		EndDate:      t.EndDate.String(),
		Status:       t.Status,
		TotalExpense: t.TotalExpense.StringFixed(2),
		CreatedAt:    formatTime(t.CreatedAt),
		UpdatedAt:    formatTime(t.UpdatedAt),
	}
}

func toExpenseResponse(e *model.Expense) dto.ExpenseResponse {
	details := map[string]interface{}(e.Details)
	if details == nil {
		details = map[string]interface{}{}
	}
	return dto.ExpenseResponse{
		ID:          e.ID,
		TripID:      e.TripID,
		UserID:      e.UserID,
		Category:    e.Category,
		Description: e.Description,
		Amount:      e.Amount.StringFixed(2),
		Details:     details,
		Date:        e.Date.String(),
		Comments:    e.Comments,
		Receipt:     e.Receipt,
		Verified:    e.Verified,
		CreatedAt:   formatTime(e.CreatedAt),
		UpdatedAt:   formatTime(e.UpdatedAt),
	}
}

func toWeeklyReportResponse(r *model.WeeklyReport) dto.WeeklyReportResponse {
	var submittedAt *string
	if r.SubmittedAt != nil {
		s := formatTime(*r.SubmittedAt)
		submittedAt = &s
	}
	return dto.WeeklyReportResponse{
		ID:          r.ID,
		UserID:      r.UserID,
		WeekStart:   r.WeekStart.String(),
		WeekEnd:     r.WeekEnd.String(),
		Status:      r.Status,
		TotalAmount: r.TotalAmount.StringFixed(2),
		ReportFile:  r.ReportFile,
		SubmittedAt: submittedAt,
		Comments:    r.Comments,
		CreatedAt:   formatTime(r.CreatedAt),
		UpdatedAt:   formatTime(r.UpdatedAt),
	}
}
