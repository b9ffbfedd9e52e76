package models

import "time"

// Frequency describes how often a recurring list is re-created.
type Frequency string

const (
	FrequencyOneTime Frequency = "ONE_TIME"
	FrequencyDaily   Frequency = "DAILY"
	FrequencyWeekly  Frequency = "WEEKLY"
	FrequencyMonthly Frequency = "MONTHLY"
	FrequencyCustom  Frequency = "CUSTOM"
)

// Valid reports whether f is a known frequency.
func (f Frequency) Valid() bool {
	switch f {
	case FrequencyOneTime, FrequencyDaily, FrequencyWeekly, FrequencyMonthly, FrequencyCustom:
		return true
	}
	return false
}

// ListRecurrence is the schedule attached to an anchor list. Each
// regeneration copies the anchor list, never a previous copy.
type ListRecurrence struct {
	ID        string    `json:"id"`
	ListID    string    `json:"list_id"`
	Frequency Frequency `json:"frequency"`

	// CustomInterval is the period in days for FrequencyCustom.
	CustomInterval *int `json:"custom_interval,omitempty"`

	StartDate time.Time  `json:"start_date"`
	EndDate   *time.Time `json:"end_date,omitempty"`

	// LastOccurrence is stamped by the regeneration engine.
	LastOccurrence *time.Time `json:"last_occurrence,omitempty"`
}

// DueRecurrence pairs a recurrence with its anchor list, as selected by
// the regeneration engine.
type DueRecurrence struct {
	Recurrence *ListRecurrence
	List       *List
}
