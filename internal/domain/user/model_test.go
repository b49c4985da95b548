package user

import (
	"testing"
	"time"

	"github.com/ezseobasics/ezseo/internal/domain/plan"
)

func TestCanPerformAction(t *testing.T) {
	tests := []struct {
		name  string
		tier  plan.Tier
		usage int
		want  bool
	}{
		{"basic under limit", plan.TierBasic, 99, true},
		{"basic at limit", plan.TierBasic, 100, false},
		{"basic over limit", plan.TierBasic, 150, false},
		{"plus under limit", plan.TierPlus, 499, true},
		{"plus at limit", plan.TierPlus, 500, false},
		{"pro is unlimited", plan.TierPro, 1000000, true},
		{"unknown tier blocks", "enterprise", 0, false},
		{"empty tier blocks", "", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := &User{Plan: tt.tier, UsageThisMonth: tt.usage}
			if got := u.CanPerformAction(); got != tt.want {
				t.Errorf("expected %t, got %t", tt.want, got)
			}
		})
	}
}

func TestNeedsUsageReset(t *testing.T) {
	now := time.Date(2025, time.March, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		reset time.Time
		want  bool
	}{
		{"same month", time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC), false},
		{"same instant", now, false},
		{"previous month", time.Date(2025, time.February, 28, 23, 59, 0, 0, time.UTC), true},
		{"previous year later month", time.Date(2024, time.December, 1, 0, 0, 0, 0, time.UTC), true},
		{"zero value", time.Time{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := &User{LastUsageReset: tt.reset}
			if got := u.NeedsUsageReset(now); got != tt.want {
				t.Errorf("expected %t, got %t", tt.want, got)
			}
		})
	}
}
