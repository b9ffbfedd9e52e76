package calculator

import (
	"time"

	"github.com/adrianbrandt/web-chores/internal/models"
)

// CompletionStats summarizes how far along a list is and who did the work.
//
// Algorithm:
//   - total = number of items
//   - completed = items with status COMPLETED
//   - per user: items whose CompletedByID is that user, as a share of total
//   - lastCompletedAt = latest CompletedAt among completed items
//
// Percentages are 0 for an empty list. Contributions keep the order in
// which each user first appears in items.
func CompletionStats(items []*models.ListItem) *models.ListStats {
	stats := &models.ListStats{
		TotalItems:        len(items),
		ItemsByStatus:     make(map[models.ItemStatus]int),
		UserContributions: []models.UserContribution{},
	}

	index := make(map[string]int)
	var lastCompleted *time.Time

	for _, item := range items {
		stats.ItemsByStatus[item.Status]++

		if item.Status == models.ItemStatusCompleted {
			stats.CompletedItems++
			if item.CompletedAt != nil && (lastCompleted == nil || item.CompletedAt.After(*lastCompleted)) {
				at := *item.CompletedAt
				lastCompleted = &at
			}
		}

		if item.CompletedByID == nil {
			continue
		}
		userID := *item.CompletedByID
		i, ok := index[userID]
		if !ok {
			i = len(stats.UserContributions)
			index[userID] = i
			stats.UserContributions = append(stats.UserContributions, models.UserContribution{UserID: userID})
		}
		stats.UserContributions[i].CompletedItems++
	}

	stats.CompletionPercentage = percentage(stats.CompletedItems, stats.TotalItems)
	for i := range stats.UserContributions {
		c := &stats.UserContributions[i]
		c.CompletionPercentage = percentage(c.CompletedItems, stats.TotalItems)
	}
	stats.LastCompletedAt = lastCompleted

	return stats
}

func percentage(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) / float64(total) * 100
}
