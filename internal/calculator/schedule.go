package calculator

import (
	"fmt"
	"time"

	"github.com/adrianbrandt/web-chores/internal/models"
)

// ValidateRecurrence checks that a schedule can produce occurrences.
func ValidateRecurrence(freq models.Frequency, customInterval *int, start time.Time, end *time.Time) error {
	if !freq.Valid() {
		return fmt.Errorf("unknown frequency %q", freq)
	}
	if freq == models.FrequencyCustom && (customInterval == nil || *customInterval <= 0) {
		return fmt.Errorf("custom frequency requires a positive interval")
	}
	if end != nil && end.Before(start) {
		return fmt.Errorf("end date precedes start date")
	}
	return nil
}

// NextOccurrence returns when rec should next fire and whether it will
// ever fire again.
//
// Before the first occurrence the start date is due. After that the
// interval is added to the last occurrence: one day, seven days, one
// calendar month, or CustomInterval days. ONE_TIME never fires twice.
// A next date past EndDate means the schedule is finished.
func NextOccurrence(rec *models.ListRecurrence) (time.Time, bool) {
	var next time.Time
	if rec.LastOccurrence == nil {
		next = rec.StartDate
	} else {
		last := *rec.LastOccurrence
		switch rec.Frequency {
		case models.FrequencyOneTime:
			return time.Time{}, false
		case models.FrequencyDaily:
			next = last.AddDate(0, 0, 1)
		case models.FrequencyWeekly:
			next = last.AddDate(0, 0, 7)
		case models.FrequencyMonthly:
			next = last.AddDate(0, 1, 0)
		case models.FrequencyCustom:
			if rec.CustomInterval == nil || *rec.CustomInterval <= 0 {
				return time.Time{}, false
			}
			next = last.AddDate(0, 0, *rec.CustomInterval)
		default:
			return time.Time{}, false
		}
	}

	if rec.EndDate != nil && next.After(*rec.EndDate) {
		return time.Time{}, false
	}
	return next, true
}

// IsDue reports whether rec should fire at now.
func IsDue(rec *models.ListRecurrence, now time.Time) bool {
	next, ok := NextOccurrence(rec)
	return ok && !now.Before(next)
}
