package enrollment

import (
	"testing"
	"time"
)

func TestCurrentWeek(t *testing.T) {
	start := time.Date(2024, time.March, 4, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		elapsed time.Duration
		want    int
	}{
		{name: "same instant", elapsed: 0, want: 1},
		{name: "a few hours in", elapsed: 5 * time.Hour, want: 1},
		{name: "day 6", elapsed: 6 * 24 * time.Hour, want: 1},
		{name: "partial day 7 rounds up", elapsed: 6*24*time.Hour + time.Minute, want: 2},
		{name: "exactly 7 days", elapsed: 7 * 24 * time.Hour, want: 2},
		{name: "day 13", elapsed: 13 * 24 * time.Hour, want: 2},
		{name: "exactly 14 days", elapsed: 14 * 24 * time.Hour, want: 3},
		{name: "day 20", elapsed: 20 * 24 * time.Hour, want: 3},
		{name: "exactly 21 days", elapsed: 21 * 24 * time.Hour, want: 4},
		{name: "day 27", elapsed: 27 * 24 * time.Hour, want: 4},
		{name: "clamped past program end", elapsed: 60 * 24 * time.Hour, want: 4},
		{name: "future start date clamps to 1", elapsed: -3 * 24 * time.Hour, want: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CurrentWeek(start, start.Add(tt.elapsed)); got != tt.want {
				t.Errorf("CurrentWeek() = %d, want %d", got, tt.want)
			}
		})
	}
}
