package renewal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestProrate(t *testing.T) {
	tests := []struct {
		name     string
		old, new float64
		start    string
		expiry   string
		today    string
		want     float64
	}{
		{"downgrade is free", 20, 10, "2026-03-01", "2026-03-31", "2026-03-10", 0},
		{"lateral move is free", 20, 20, "2026-03-01", "2026-03-31", "2026-03-10", 0},
		{"expired today", 10, 20, "2026-03-01", "2026-03-31", "2026-03-31", 0},
		{"expired long ago", 10, 20, "2026-01-01", "2026-01-31", "2026-03-10", 0},
		{"full period left", 10, 20, "2026-03-01", "2026-03-31", "2026-03-01", 10},
		{"21 of 30 days left", 10, 20, "2026-03-01", "2026-03-31", "2026-03-10", 7},
		{"one day left", 10, 30, "2026-03-01", "2026-03-31", "2026-03-30", 0.67},
		{"zero-length period uses 30 days", 10, 20, "2026-03-20", "2026-03-20", "2026-03-05", 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Prorate(tt.old, tt.new, day(tt.start), day(tt.expiry), day(tt.today))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestProrate_LinearInDaysLeft(t *testing.T) {
	start, expiry := day("2026-03-01"), day("2026-03-31")
	prev := 10.0 + 0.01
	for today := start; today.Before(expiry); today = today.AddDate(0, 0, 1) {
		got := Prorate(10, 20, start, expiry, today)
		assert.GreaterOrEqual(t, got, 0.0)
		assert.LessOrEqual(t, got, 10.0)
		assert.Less(t, got, prev, today.Format("2006-01-02"))
		prev = got
	}
}

func TestRenewedExpiry(t *testing.T) {
	today := day("2026-03-10")

	assert.Equal(t, day("2026-07-08"), RenewedExpiry(day("2026-04-09"), today, 90))
	assert.Equal(t, day("2026-04-09"), RenewedExpiry(day("2026-02-01"), today, 30))
	assert.Equal(t, day("2027-03-10"), RenewedExpiry(today, today, 365))
}
