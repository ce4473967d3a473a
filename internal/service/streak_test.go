package service_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/mtlprog/studybuddy/internal/service"
)

func TestCalculateStreak(t *testing.T) {
	now := time.Date(2024, time.March, 15, 14, 0, 0, 0, time.UTC)
	daysAgo := func(n int) time.Time { return now.AddDate(0, 0, -n) }

	tests := []struct {
		name   string
		starts []time.Time
		want   int
	}{
		{"no sessions", nil, 0},
		{"today only", []time.Time{now}, 1},
		{"yesterday only", []time.Time{daysAgo(1)}, 1},
		{"three consecutive days", []time.Time{now, daysAgo(1), daysAgo(2)}, 3},
		{"gap breaks the run", []time.Time{now, daysAgo(3)}, 1},
		{"last session too old", []time.Time{daysAgo(3)}, 0},
		{"run ending yesterday", []time.Time{daysAgo(1), daysAgo(2), daysAgo(3), daysAgo(5)}, 3},
		{"several sessions per day", []time.Time{now, now.Add(-time.Hour), daysAgo(1), daysAgo(1).Add(2 * time.Hour)}, 2},
		{"unordered input", []time.Time{daysAgo(2), now, daysAgo(1)}, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, service.CalculateStreak(tt.starts, now))
		})
	}
}

func TestCalculateStreak_CalendarDaysNotHours(t *testing.T) {
	// 00:05 today and 23:55 yesterday are ten minutes apart but two days.
	now := time.Date(2024, time.March, 15, 0, 10, 0, 0, time.UTC)
	starts := []time.Time{
		time.Date(2024, time.March, 15, 0, 5, 0, 0, time.UTC),
		time.Date(2024, time.March, 14, 23, 55, 0, 0, time.UTC),
	}
	assert.Equal(t, 2, service.CalculateStreak(starts, now))

	// 47 hours apart but only one day in between.
	now = time.Date(2024, time.March, 15, 23, 59, 0, 0, time.UTC)
	starts = []time.Time{time.Date(2024, time.March, 14, 0, 30, 0, 0, time.UTC)}
	assert.Equal(t, 1, service.CalculateStreak(starts, now))
}

func TestCalculateStreak_YearAndMonthBoundaries(t *testing.T) {
	now := time.Date(2025, time.January, 1, 9, 0, 0, 0, time.UTC)
	starts := []time.Time{
		time.Date(2025, time.January, 1, 8, 0, 0, 0, time.UTC),
		time.Date(2024, time.December, 31, 20, 0, 0, 0, time.UTC),
		time.Date(2024, time.December, 30, 20, 0, 0, 0, time.UTC),
	}
	assert.Equal(t, 3, service.CalculateStreak(starts, now))

	now = time.Date(2024, time.March, 1, 9, 0, 0, 0, time.UTC)
	starts = []time.Time{
		time.Date(2024, time.March, 1, 8, 0, 0, 0, time.UTC),
		time.Date(2024, time.February, 29, 8, 0, 0, 0, time.UTC),
		time.Date(2024, time.February, 28, 8, 0, 0, 0, time.UTC),
	}
	assert.Equal(t, 3, service.CalculateStreak(starts, now))
}

func TestCalculateStreak_UsesLocationOfNow(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*60*60)
	now := time.Date(2024, time.March, 15, 10, 0, 0, 0, loc)

	// 22:00 UTC on the 14th is 01:00 on the 15th at UTC+3.
	starts := []time.Time{time.Date(2024, time.March, 14, 22, 0, 0, 0, time.UTC)}
	assert.Equal(t, 1, service.CalculateStreak(starts, now))

	// 20:00 UTC on the 13th is 23:00 on the 13th at UTC+3, two days before now.
	starts = []time.Time{time.Date(2024, time.March, 13, 20, 0, 0, 0, time.UTC)}
	assert.Equal(t, 0, service.CalculateStreak(starts, now))
}
