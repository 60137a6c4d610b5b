package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/chatpulse/chatpulse/internal/analytics"
)

const dayLayout = "2006-01-02"

type dayCount struct {
	Day   string
	Count float64
}

// DailyMessageCounts returns one point per calendar day with at least
// one message, ordered oldest first, over the trailing lookback window.
func (s *Store) DailyMessageCounts(ctx context.Context, groupID string, lookbackDays int) (analytics.Series, error) {
	since := dayFloor(time.Now().UTC()).AddDate(0, 0, -lookbackDays)

	var rows []dayCount
	err := s.db.WithContext(ctx).
		Model(&Message{}).
		Select("date(timestamp) AS day, COUNT(*) AS count").
		Where("group_id = ? AND timestamp >= ?", groupID, since).
		Group("day").
		Order("day ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query daily message counts: %w", err)
	}
	return toSeries(rows)
}

// DailyActiveUserCounts returns the number of distinct senders per day.
func (s *Store) DailyActiveUserCounts(ctx context.Context, groupID string, lookbackDays int) (analytics.Series, error) {
	since := dayFloor(time.Now().UTC()).AddDate(0, 0, -lookbackDays)

	var rows []dayCount
	err := s.db.WithContext(ctx).
		Model(&Message{}).
		Select("date(timestamp) AS day, COUNT(DISTINCT user_id) AS count").
		Where("group_id = ? AND timestamp >= ?", groupID, since).
		Group("day").
		Order("day ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query daily active users: %w", err)
	}
	return toSeries(rows)
}

// DailyNewTopicCounts returns the number of distinct keywords whose most
// recent mention falls on each day. Recency of last mention is the
// proxy for topic emergence.
func (s *Store) DailyNewTopicCounts(ctx context.Context, groupID string, lookbackDays int) (analytics.Series, error) {
	since := dayFloor(time.Now().UTC()).AddDate(0, 0, -lookbackDays)

	var rows []dayCount
	err := s.db.WithContext(ctx).
		Model(&TopicKeyword{}).
		Select("date(last_mentioned) AS day, COUNT(DISTINCT keyword) AS count").
		Where("group_id = ? AND last_mentioned >= ?", groupID, since).
		Group("day").
		Order("day ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query daily topic counts: %w", err)
	}
	return toSeries(rows)
}

// MessageDaysBefore lists the distinct calendar days, oldest first, that
// hold messages older than the cutoff. Used by the retention job to
// archive and purge one day at a time.
func (s *Store) MessageDaysBefore(ctx context.Context, cutoff time.Time) ([]time.Time, error) {
	var days []string
	err := s.db.WithContext(ctx).
		Model(&Message{}).
		Where("timestamp < ?", cutoff).
		Distinct("date(timestamp)").
		Order("date(timestamp) ASC").
		Pluck("date(timestamp)", &days).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list message days: %w", err)
	}

	out := make([]time.Time, 0, len(days))
	for _, d := range days {
		parsed, err := time.Parse(dayLayout, d)
		if err != nil {
			return nil, fmt.Errorf("failed to parse day %q: %w", d, err)
		}
		out = append(out, parsed)
	}
	return out, nil
}

// MessagesOnDay loads every message whose timestamp falls on the given
// UTC calendar day.
func (s *Store) MessagesOnDay(ctx context.Context, day time.Time) ([]Message, error) {
	var msgs []Message
	err := s.db.WithContext(ctx).
		Where("date(timestamp) = ?", day.UTC().Format(dayLayout)).
		Order("timestamp ASC").
		Find(&msgs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load messages for %s: %w", day.Format(dayLayout), err)
	}
	return msgs, nil
}

// DeleteMessagesOnDay removes all messages on the given UTC calendar day
// and returns the number of rows deleted.
func (s *Store) DeleteMessagesOnDay(ctx context.Context, day time.Time) (int64, error) {
	result := s.db.WithContext(ctx).
		Where("date(timestamp) = ?", day.UTC().Format(dayLayout)).
		Delete(&Message{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete messages for %s: %w", day.Format(dayLayout), result.Error)
	}
	return result.RowsAffected, nil
}

func toSeries(rows []dayCount) (analytics.Series, error) {
	series := make(analytics.Series, 0, len(rows))
	for _, row := range rows {
		day, err := time.Parse(dayLayout, row.Day)
		if err != nil {
			return nil, fmt.Errorf("failed to parse day %q: %w", row.Day, err)
		}
		series = append(series, analytics.Point{Date: day, Value: row.Count})
	}
	return series, nil
}

func dayFloor(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
