package telegram

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"subscription_tracker_bot/internal/app"
	"subscription_tracker_bot/internal/domain/billing"
)

const addUsage = "Usage: /add <name> <amount> <YYYY-MM-DD> <every> <day|week|month|year> " +
	"[end=YYYY-MM-DD] [trial=<n><d|w|m|y>] [remind=<days|off>] [currency=<ISO>]\n" +
	"Example: /add Netflix 15.49 2025-01-31 1 month remind=3"

var errUsage = errors.New("wrong command format")

var unitAliases = map[string]billing.Unit{
	"d": billing.UnitDay, "day": billing.UnitDay, "days": billing.UnitDay,
	"w": billing.UnitWeek, "week": billing.UnitWeek, "weeks": billing.UnitWeek,
	"m": billing.UnitMonth, "month": billing.UnitMonth, "months": billing.UnitMonth,
	"y": billing.UnitYear, "year": billing.UnitYear, "years": billing.UnitYear,
}

// parseAddArgs parses the /add payload. The name may span several words; it
// ends at the first amount that is followed by a date.
func parseAddArgs(args []string) (app.SubscriptionInput, error) {
	var in app.SubscriptionInput

	amountAt := -1
	for i := 1; i+1 < len(args); i++ {
		if _, err := decimal.NewFromString(args[i]); err != nil {
			continue
		}
		if _, err := billing.ParseDate(args[i+1]); err == nil {
			amountAt = i
			break
		}
	}
	if amountAt < 0 || len(args) < amountAt+4 {
		return in, errUsage
	}

	in.Name = strings.Join(args[:amountAt], " ")
	in.Amount, _ = decimal.NewFromString(args[amountAt])
	in.StartDate, _ = billing.ParseDate(args[amountAt+1])

	cycle, err := parseCycle(args[amountAt+2], args[amountAt+3])
	if err != nil {
		return in, err
	}
	in.Cycle = cycle

	for _, opt := range args[amountAt+4:] {
		key, value, ok := strings.Cut(opt, "=")
		if !ok || value == "" {
			return in, fmt.Errorf("%w: option %q must look like key=value", errUsage, opt)
		}
		switch strings.ToLower(key) {
		case "end":
			end, err := billing.ParseDate(value)
			if err != nil {
				return in, err
			}
			in.EndDate = &end
		case "trial":
			trial, err := parseCompactCycle(value)
			if err != nil {
				return in, err
			}
			in.Trial = &trial
		case "remind":
			lead, err := parseLead(value)
			if err != nil {
				return in, err
			}
			if lead == nil {
				in.DisableReminders = true
			} else {
				in.LeadDays = lo.ToPtr(lead.Days())
			}
		case "currency":
			in.Currency = value
		default:
			return in, fmt.Errorf("%w: unknown option %q", errUsage, key)
		}
	}
	return in, nil
}

// parseCycle reads "<value> <unit>", e.g. "3 months".
func parseCycle(value, unit string) (billing.Cycle, error) {
	n, err := strconv.Atoi(value)
	if err != nil || n < 1 {
		return billing.Cycle{}, fmt.Errorf("cycle length must be a positive number, got %q", value)
	}
	u, ok := unitAliases[strings.ToLower(unit)]
	if !ok {
		return billing.Cycle{}, fmt.Errorf("unknown cycle unit %q, use day, week, month or year", unit)
	}
	return billing.Cycle{Unit: u, Value: n}, nil
}

// parseCompactCycle reads "<value><d|w|m|y>", e.g. "14d".
func parseCompactCycle(s string) (billing.Cycle, error) {
	if len(s) < 2 {
		return billing.Cycle{}, fmt.Errorf("trial must look like 7d, 2w, 1m or 1y, got %q", s)
	}
	return parseCycle(s[:len(s)-1], s[len(s)-1:])
}

// parseLead reads a reminder lead time in days; "off" returns nil.
func parseLead(s string) (*billing.LeadTime, error) {
	if strings.EqualFold(s, "off") {
		return nil, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 || billing.LeadTime(n) > billing.MaxLeadTime {
		return nil, fmt.Errorf("reminder must be a number of days between 0 and %d, or off", billing.MaxLeadTime)
	}
	return lo.ToPtr(billing.LeadTime(n)), nil
}

// parseOptionalDate reads a date; "none" returns nil.
func parseOptionalDate(s string) (*time.Time, error) {
	if strings.EqualFold(s, "none") {
		return nil, nil
	}
	t, err := billing.ParseDate(s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimPrefix(s, "#"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("subscription id must be a positive number, got %q", s)
	}
	return id, nil
}
