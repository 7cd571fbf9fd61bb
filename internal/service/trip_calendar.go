package service

import (
	"context"
	"time"

	ics "github.com/arran4/golang-ical"
	"go.uber.org/zap"

	"trip-expense/backend/internal/model"
)

// ── 出差日历导出 ──────────────────────────────────────────────
//
// 每个未取消的出差生成一个全天事件：
//   - DTSTART = start_date，DTEND = end_date 次日（RFC 5545 全天事件结束日不含）
//   - UID 使用出差 ID，便于日历客户端增量同步
// ─────────────────────────────────────────────────────────────

const calendarProductID = "-//trip-expense//trips//EN"

func (s *tripService) Calendar(ctx context.Context, userID string) ([]byte, error) {
	trips, err := s.repo.Trip.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("查询出差列表失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}
	return []byte(buildTripCalendar(trips, time.Now()).Serialize()), nil
}

func buildTripCalendar(trips []model.Trip, stamp time.Time) *ics.Calendar {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(calendarProductID)
	cal.SetName("Business Trips")

	for i := range trips {
		t := &trips[i]
		if t.Status == model.TripStatusCancelled {
			continue
		}

		ev := cal.AddEvent(t.ID + "@trip-expense")
		ev.SetDtStampTime(stamp.UTC())
		ev.SetAllDayStartAt(t.StartDate.Time)
		ev.SetAllDayEndAt(t.EndDate.Time.AddDate(0, 0, 1))
		ev.SetSummary(tripSummary(t))
		if t.Description != "" {
			ev.SetDescription(t.Description)
		}
		ev.SetStatus(ics.ObjectStatusConfirmed)
	}
	return cal
}

func tripSummary(t *model.Trip) string {
	if label, ok := model.TripPurposes[t.Purpose]; ok {
		return label
	}
	return t.Purpose
}
