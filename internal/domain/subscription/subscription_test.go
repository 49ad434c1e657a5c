package subscription

import (
	"testing"
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"subscription_tracker_bot/internal/domain/billing"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestBillingPeriod(t *testing.T) {
	tests := []struct {
		name      string
		sub       Subscription
		wantStart time.Time
		wantEnd   *time.Time
	}{
		{
			name: "no trial",
			sub: Subscription{
				StartDate: date(2025, 1, 31),
				Cycle:     billing.Cycle{Unit: billing.UnitMonth, Value: 1},
			},
			wantStart: date(2025, 1, 31),
		},
		{
			name: "one month trial clamps",
			sub: Subscription{
				StartDate: date(2025, 1, 31),
				Cycle:     billing.Cycle{Unit: billing.UnitMonth, Value: 1},
				Trial:     &billing.Cycle{Unit: billing.UnitMonth, Value: 1},
			},
			wantStart: date(2025, 2, 28),
		},
		{
			name: "two week trial with end date",
			sub: Subscription{
				StartDate: date(2025, 6, 1),
				EndDate:   lo.ToPtr(time.Date(2026, 6, 1, 18, 0, 0, 0, time.UTC)),
				Cycle:     billing.Cycle{Unit: billing.UnitYear, Value: 1},
				Trial:     &billing.Cycle{Unit: billing.UnitWeek, Value: 2},
			},
			wantStart: date(2025, 6, 15),
			wantEnd:   lo.ToPtr(date(2026, 6, 1)),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := tt.sub.BillingPeriod()
			assert.Equal(t, tt.wantStart, p.StartDate)
			assert.Equal(t, tt.wantEnd, p.EndDate)
			assert.Equal(t, tt.sub.Cycle, p.Cycle)
		})
	}
}

func TestScheduleReminder(t *testing.T) {
	now := time.Date(2025, 6, 15, 9, 0, 0, 0, time.UTC)
	sub := &Subscription{
		Name:      "Music",
		Amount:    decimal.RequireFromString("9.99"),
		StartDate: date(2025, 1, 20),
		Cycle:     billing.Cycle{Unit: billing.UnitMonth, Value: 1},
	}

	sub.ScheduleReminder(now)
	assert.Nil(t, sub.ReminderDate, "reminders are off without a lead time")

	sub.LeadTime = lo.ToPtr(billing.LeadThreeDays)
	sub.ScheduleReminder(now)
	require.NotNil(t, sub.ReminderDate)
	assert.Equal(t, date(2025, 6, 17), *sub.ReminderDate)

	sub.AdvanceReminder(date(2025, 6, 17))
	require.NotNil(t, sub.ReminderDate)
	assert.Equal(t, date(2025, 7, 17), *sub.ReminderDate)

	sub.EndDate = lo.ToPtr(date(2025, 7, 1))
	sub.AdvanceReminder(date(2025, 6, 17))
	assert.Nil(t, sub.ReminderDate)
}

func TestScheduleReminder_TrialDelaysFirstReminder(t *testing.T) {
	sub := &Subscription{
		StartDate: date(2025, 6, 10),
		Cycle:     billing.Cycle{Unit: billing.UnitMonth, Value: 1},
		Trial:     &billing.Cycle{Unit: billing.UnitDay, Value: 7},
		LeadTime:  lo.ToPtr(billing.LeadOneDay),
	}

	sub.ScheduleReminder(date(2025, 6, 12))
	require.NotNil(t, sub.ReminderDate)
	assert.Equal(t, date(2025, 6, 16), *sub.ReminderDate)
}

func TestAdvanceReminder_LongLeadSurvivesShortMonths(t *testing.T) {
	sub := &Subscription{
		StartDate: date(2025, 1, 1),
		Cycle:     billing.Cycle{Unit: billing.UnitMonth, Value: 1},
		LeadTime:  lo.ToPtr(billing.MaxLeadTime),
	}

	sub.ScheduleReminder(time.Date(2025, 1, 2, 9, 0, 0, 0, time.UTC))
	require.NotNil(t, sub.ReminderDate)
	assert.Equal(t, date(2025, 1, 2), *sub.ReminderDate)

	for _, want := range []time.Time{
		date(2025, 3, 2),
		date(2025, 4, 1),
		date(2025, 5, 2),
		date(2025, 6, 1),
		date(2025, 7, 2),
	} {
		sub.AdvanceReminder(*sub.ReminderDate)
		require.NotNil(t, sub.ReminderDate, "reminders stopped before %s", billing.FormatDate(want))
		assert.Equal(t, want, *sub.ReminderDate)
	}
}

func TestScheduleReminder_FirstCycleTooShort(t *testing.T) {
	sub := &Subscription{
		StartDate: date(2025, 3, 1),
		Cycle:     billing.Cycle{Unit: billing.UnitMonth, Value: 1},
		LeadTime:  lo.ToPtr(billing.MaxLeadTime),
	}

	sub.ScheduleReminder(date(2025, 2, 10))
	require.NotNil(t, sub.ReminderDate, "later renewals still get reminders")
	assert.Equal(t, date(2025, 3, 2), *sub.ReminderDate)

	weekly := &Subscription{
		StartDate: date(2025, 3, 1),
		Cycle:     billing.Cycle{Unit: billing.UnitWeek, Value: 1},
		LeadTime:  lo.ToPtr(billing.LeadTime(10)),
	}
	weekly.ScheduleReminder(date(2025, 2, 10))
	assert.Nil(t, weekly.ReminderDate)
}
