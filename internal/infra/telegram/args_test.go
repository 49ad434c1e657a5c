package telegram

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"subscription_tracker_bot/internal/domain/billing"
)

func TestParseAddArgs(t *testing.T) {
	in, err := parseAddArgs(strings.Fields("Apple TV Plus 9.99 2025-01-31 1 month end=2026-01-31 trial=7d remind=3 currency=eur"))
	require.NoError(t, err)

	assert.Equal(t, "Apple TV Plus", in.Name)
	assert.Equal(t, "9.99", in.Amount.String())
	assert.Equal(t, time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC), in.StartDate)
	assert.Equal(t, billing.Cycle{Unit: billing.UnitMonth, Value: 1}, in.Cycle)
	require.NotNil(t, in.EndDate)
	assert.Equal(t, time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC), *in.EndDate)
	assert.Equal(t, &billing.Cycle{Unit: billing.UnitDay, Value: 7}, in.Trial)
	require.NotNil(t, in.LeadDays)
	assert.Equal(t, 3, *in.LeadDays)
	assert.Equal(t, "eur", in.Currency)
	assert.False(t, in.DisableReminders)
}

func TestParseAddArgs_NumericName(t *testing.T) {
	in, err := parseAddArgs(strings.Fields("1Password 3 2025-03-01 1 y remind=off"))
	require.NoError(t, err)

	assert.Equal(t, "1Password", in.Name)
	assert.Equal(t, billing.Cycle{Unit: billing.UnitYear, Value: 1}, in.Cycle)
	assert.True(t, in.DisableReminders)
	assert.Nil(t, in.LeadDays)
}

func TestParseAddArgs_Errors(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		want    string
	}{
		{"empty", "", "wrong command format"},
		{"no date", "Netflix 15.49 1 month", "wrong command format"},
		{"missing unit", "Netflix 15.49 2025-01-31 1", "wrong command format"},
		{"bad unit", "Netflix 15.49 2025-01-31 1 fortnight", "unknown cycle unit"},
		{"zero cycle", "Netflix 15.49 2025-01-31 0 month", "positive number"},
		{"bad option", "Netflix 15.49 2025-01-31 1 month soon", "key=value"},
		{"unknown option", "Netflix 15.49 2025-01-31 1 month color=red", "unknown option"},
		{"bad end", "Netflix 15.49 2025-01-31 1 month end=tomorrow", "expected YYYY-MM-DD"},
		{"bad trial", "Netflix 15.49 2025-01-31 1 month trial=7", "trial must look like"},
		{"bad remind", "Netflix 15.49 2025-01-31 1 month remind=90", "between 0 and 30"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseAddArgs(strings.Fields(tt.payload))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestParseLead(t *testing.T) {
	lead, err := parseLead("OFF")
	require.NoError(t, err)
	assert.Nil(t, lead)

	lead, err = parseLead("0")
	require.NoError(t, err)
	assert.Equal(t, billing.LeadSameDay, *lead)

	_, err = parseLead("-1")
	assert.Error(t, err)
}

func TestParseOptionalDate(t *testing.T) {
	d, err := parseOptionalDate("none")
	require.NoError(t, err)
	assert.Nil(t, d)

	d, err = parseOptionalDate("2025-02-28")
	require.NoError(t, err)
	assert.Equal(t, "2025-02-28", billing.FormatDate(*d))

	_, err = parseOptionalDate("2025-02-30")
	assert.Error(t, err)
}

func TestParseID(t *testing.T) {
	id, err := parseID("#12")
	require.NoError(t, err)
	assert.Equal(t, int64(12), id)

	_, err = parseID("abc")
	assert.Error(t, err)
	_, err = parseID("0")
	assert.Error(t, err)
}
