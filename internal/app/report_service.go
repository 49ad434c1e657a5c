package app

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"subscription_tracker_bot/internal/domain/billing"
	"subscription_tracker_bot/internal/domain/subscription"
	"subscription_tracker_bot/internal/domain/user"
)

// Window is the calendar period a spend report covers.
type Window string

const (
	WindowWeek  Window = "week"
	WindowMonth Window = "month"
	WindowYear  Window = "year"
)

// ParseWindow accepts week, month or year; empty means month.
func ParseWindow(s string) (Window, error) {
	switch w := Window(strings.ToLower(strings.TrimSpace(s))); w {
	case "":
		return WindowMonth, nil
	case WindowWeek, WindowMonth, WindowYear:
		return w, nil
	default:
		return "", fmt.Errorf("%w: unknown report window %q, use week, month or year", ErrInvalidInput, s)
	}
}

// Range returns the calendar window containing today. Weeks start on Monday.
func (w Window) Range(today time.Time) billing.DateRange {
	today = billing.Date(today)
	switch w {
	case WindowWeek:
		offset := (int(today.Weekday()) + 6) % 7
		start := billing.AddDays(today, -offset)
		return billing.DateRange{Start: start, End: billing.AddDays(start, 7)}
	case WindowYear:
		start := time.Date(today.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
		return billing.DateRange{Start: start, End: start.AddDate(1, 0, 0)}
	default:
		start := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
		return billing.DateRange{Start: start, End: start.AddDate(0, 1, 0)}
	}
}

// CurrencyTotal sums one currency. Amounts in different currencies are never converted.
type CurrencyTotal struct {
	Currency          string
	SpentToDate       decimal.Decimal // every charge since the start dates
	InWindow          decimal.Decimal // charges falling inside the window
	RemainingInWindow decimal.Decimal // charges after today until the window closes
	Subscriptions     int
}

type SpendReport struct {
	Window Window
	Range  billing.DateRange
	Totals []CurrencyTotal // sorted by currency code
}

type ReportService struct {
	subRepo  subscription.Repository
	userRepo user.Repository
	clock    billing.Clock
}

func NewReportService(sr subscription.Repository, ur user.Repository, clock billing.Clock) *ReportService {
	return &ReportService{subRepo: sr, userRepo: ur, clock: clock}
}

// Spend totals the user's charges for the window containing today.
func (s *ReportService) Spend(ctx context.Context, telegramID int64, window Window) (*SpendReport, error) {
	u, err := lookupUser(ctx, s.userRepo, telegramID)
	if err != nil {
		return nil, err
	}
	subs, err := s.subRepo.ListByUser(ctx, u.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list subscriptions: %w", err)
	}

	today := billing.Date(s.clock.Now())
	r := window.Range(today)
	rest := billing.DateRange{Start: billing.AddDays(today, 1), End: r.End}

	byCurrency := lo.GroupBy(subs, func(sub *subscription.Subscription) string {
		return sub.Currency
	})
	totals := make([]CurrencyTotal, 0, len(byCurrency))
	for _, currency := range lo.Keys(byCurrency) {
		total := CurrencyTotal{Currency: currency}
		for _, sub := range byCurrency[currency] {
			p := sub.BillingPeriod()
			total.SpentToDate = total.SpentToDate.Add(charges(sub, billing.RenewalsPassed(p, today)))
			total.InWindow = total.InWindow.Add(charges(sub, billing.RenewalsInRange(p, r)))
			total.RemainingInWindow = total.RemainingInWindow.Add(charges(sub, billing.RenewalsInRange(p, rest)))
			total.Subscriptions++
		}
		totals = append(totals, total)
	}
	slices.SortFunc(totals, func(a, b CurrencyTotal) int {
		return strings.Compare(a.Currency, b.Currency)
	})

	return &SpendReport{Window: window, Range: r, Totals: totals}, nil
}

func charges(sub *subscription.Subscription, n int) decimal.Decimal {
	return sub.Amount.Mul(decimal.NewFromInt(int64(n)))
}
