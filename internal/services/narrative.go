package services

import (
	"fmt"

	"github.com/chatpulse/chatpulse/internal/analytics"
	"github.com/chatpulse/chatpulse/internal/analytics/forecast"
	"github.com/chatpulse/chatpulse/internal/models"
)

// describePrediction renders the human-readable summary attached to a
// prediction result.
func describePrediction(target string, horizonDays int, history, predictions []float64, confidence float64, direction forecast.Direction, changePercent float64) string {
	currentAvg := forecast.RecentAverage(history)
	futureAvg := analytics.Mean(predictions)

	switch target {
	case models.TargetMembers:
		return describeMembers(horizonDays, len(history), futureAvg, changePercent, confidence, direction)
	case models.TargetTopics:
		return describeTopics(horizonDays, futureAvg, changePercent, confidence, direction)
	default:
		return describeActivity(horizonDays, currentAvg, futureAvg, changePercent, confidence, direction)
	}
}

func describeActivity(horizonDays int, currentAvg, futureAvg, changePercent, confidence float64, direction forecast.Direction) string {
	var trendEmoji, trendDesc string
	switch direction {
	case forecast.DirectionRising:
		trendEmoji = "📈"
		trendDesc = "Group activity is expected to keep rising"
	case forecast.DirectionFalling:
		trendEmoji = "📉"
		trendDesc = "Group activity may decline"
	default:
		trendEmoji = "📊"
		trendDesc = "Group activity should stay roughly stable"
	}

	var changeDesc string
	switch {
	case abs(changePercent) > 20:
		changeDesc = "a large swing from current levels"
	case abs(changePercent) > 10:
		changeDesc = "a noticeable shift from current levels"
	default:
		changeDesc = "little movement from current levels"
	}

	return fmt.Sprintf(`%s Activity forecast (next %d days)

📊 Projection:
• Predicted average daily messages: %.1f
• Change vs. current: %+.1f%%
• Confidence: %.1f%%

📈 Trend analysis:
%s, with %s.

🎯 Assessment:
%s Combine this with what you know about upcoming group events before acting on it.

⚠️ Note: forecasts follow historical patterns; group events, holidays and topic spikes can all move the real numbers.`,
		trendEmoji, horizonDays, futureAvg, changePercent, confidence*100,
		trendDesc, changeDesc, confidenceNote(confidence))
}

func describeMembers(horizonDays, historyDays int, futureAvg, changePercent, confidence float64, direction forecast.Direction) string {
	var trendDesc string
	switch direction {
	case forecast.DirectionRising:
		trendDesc = "growing"
	case forecast.DirectionFalling:
		trendDesc = "declining"
	default:
		trendDesc = "stable"
	}

	return fmt.Sprintf(`📊 Member activity forecast (next %d days)

🔍 Projection:
• Predicted average active users: %.1f
• Change vs. current: %+.1f%%
• Trend: %s
• Confidence: %.1f%%

💡 Based on the last %d days of history. Member activity depends on many factors, so expect deviations when group events or hot topics intervene.`,
		horizonDays, futureAvg, changePercent, trendDesc, confidence*100, historyDays)
}

func describeTopics(horizonDays int, futureAvg, changePercent, confidence float64, direction forecast.Direction) string {
	var trendDesc string
	switch direction {
	case forecast.DirectionRising:
		trendDesc = "topics diversifying"
	case forecast.DirectionFalling:
		trendDesc = "topics concentrating"
	default:
		trendDesc = "topics holding steady"
	}

	return fmt.Sprintf(`🔥 Topic trend forecast (next %d days)

📈 Projection:
• Predicted new topics per day: %.1f
• Topic diversity change: %+.1f%%
• Trend: %s
• Confidence: %.1f%%

🎯 Trend analysis:
%s

⚠️ Note: topic trends react to group activity and outside events; treat this as guidance only.`,
		horizonDays, futureAvg, changePercent, trendDesc, confidence*100,
		topicInsight(changePercent))
}

// topicInsight picks the advisory sentence for a topic diversity shift.
func topicInsight(changePercent float64) string {
	switch {
	case changePercent > 15:
		return "Expect a wider spread of discussion and new threads emerging. Watch for rising topics and steer conversations toward them."
	case changePercent < -15:
		return "Discussion is likely to cluster around a few hot topics. Seeding fresh topics can keep the conversation lively."
	default:
		return "Topic diversity should hold at its current level with fairly stable discussion."
	}
}

func confidenceNote(confidence float64) string {
	switch {
	case confidence > 0.8:
		return "Confidence in this forecast is high."
	case confidence > 0.6:
		return "This forecast is a reasonable guide."
	default:
		return "Treat this forecast as indicative only; actual numbers may differ substantially."
	}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
