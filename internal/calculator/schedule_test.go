package calculator

import (
	"testing"
	"time"

	"github.com/adrianbrandt/web-chores/internal/models"
)

func intPtr(i int) *int { return &i }

func TestNextOccurrence(t *testing.T) {
	start := time.Date(2026, 1, 31, 9, 0, 0, 0, time.UTC)
	last := time.Date(2026, 2, 10, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		rec    models.ListRecurrence
		want   time.Time
		wantOK bool
	}{
		{
			name:   "first occurrence is the start date",
			rec:    models.ListRecurrence{Frequency: models.FrequencyWeekly, StartDate: start},
			want:   start,
			wantOK: true,
		},
		{
			name:   "daily",
			rec:    models.ListRecurrence{Frequency: models.FrequencyDaily, StartDate: start, LastOccurrence: &last},
			want:   last.AddDate(0, 0, 1),
			wantOK: true,
		},
		{
			name:   "weekly",
			rec:    models.ListRecurrence{Frequency: models.FrequencyWeekly, StartDate: start, LastOccurrence: &last},
			want:   time.Date(2026, 2, 17, 9, 0, 0, 0, time.UTC),
			wantOK: true,
		},
		{
			name:   "monthly uses calendar months",
			rec:    models.ListRecurrence{Frequency: models.FrequencyMonthly, StartDate: start, LastOccurrence: &last},
			want:   time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC),
			wantOK: true,
		},
		{
			name:   "custom interval in days",
			rec:    models.ListRecurrence{Frequency: models.FrequencyCustom, CustomInterval: intPtr(3), StartDate: start, LastOccurrence: &last},
			want:   time.Date(2026, 2, 13, 9, 0, 0, 0, time.UTC),
			wantOK: true,
		},
		{
			name:   "custom without interval never fires again",
			rec:    models.ListRecurrence{Frequency: models.FrequencyCustom, StartDate: start, LastOccurrence: &last},
			wantOK: false,
		},
		{
			name:   "one time fires once",
			rec:    models.ListRecurrence{Frequency: models.FrequencyOneTime, StartDate: start, LastOccurrence: &last},
			wantOK: false,
		},
		{
			name:   "past end date is finished",
			rec:    models.ListRecurrence{Frequency: models.FrequencyWeekly, StartDate: start, LastOccurrence: &last, EndDate: timePtr(last.AddDate(0, 0, 3))},
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := NextOccurrence(&tt.rec)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && !got.Equal(tt.want) {
				t.Errorf("next = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsDue(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	eightDaysAgo := now.AddDate(0, 0, -8)

	rec := &models.ListRecurrence{Frequency: models.FrequencyWeekly, StartDate: now.AddDate(0, -1, 0), LastOccurrence: &eightDaysAgo}
	if !IsDue(rec, now) {
		t.Error("weekly recurrence last fired 8 days ago should be due")
	}

	rec.LastOccurrence = &now
	if IsDue(rec, now.Add(time.Second)) {
		t.Error("recurrence that just fired should not be due")
	}

	future := &models.ListRecurrence{Frequency: models.FrequencyDaily, StartDate: now.Add(time.Hour)}
	if IsDue(future, now) {
		t.Error("recurrence starting in the future should not be due")
	}
}

func TestValidateRecurrence(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	before := start.Add(-time.Hour)

	if err := ValidateRecurrence(models.FrequencyWeekly, nil, start, nil); err != nil {
		t.Errorf("weekly: unexpected error %v", err)
	}
	if err := ValidateRecurrence(models.FrequencyCustom, nil, start, nil); err == nil {
		t.Error("custom without interval should fail")
	}
	if err := ValidateRecurrence(models.FrequencyCustom, intPtr(0), start, nil); err == nil {
		t.Error("custom with zero interval should fail")
	}
	if err := ValidateRecurrence(models.FrequencyDaily, nil, start, &before); err == nil {
		t.Error("end before start should fail")
	}
	if err := ValidateRecurrence(models.Frequency("HOURLY"), nil, start, nil); err == nil {
		t.Error("unknown frequency should fail")
	}
}
