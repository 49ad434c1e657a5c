package telegram

import (
	"fmt"
	"strings"

	"subscription_tracker_bot/internal/app"
	"subscription_tracker_bot/internal/domain/billing"
)

func formatSubscription(v app.SubscriptionView) string {
	s := v.Subscription
	var b strings.Builder
	fmt.Fprintf(&b, "#%d %s: %s %s %s", s.ID, s.Name, s.Amount.StringFixed(2), s.Currency, s.Cycle.String())
	if s.Trial != nil {
		trial := strings.TrimPrefix(s.Trial.String(), "every ")
		if s.Trial.Value == 1 {
			trial = "1 " + trial
		}
		fmt.Fprintf(&b, " (trial: %s)", trial)
	}

	if v.Ended() {
		b.WriteString("\n   ended")
		if s.EndDate != nil {
			fmt.Fprintf(&b, " on %s", billing.FormatDate(*s.EndDate))
		}
	} else {
		fmt.Fprintf(&b, "\n   next renewal %s", billing.FormatDate(*v.RenewalDate))
		if s.EndDate != nil {
			fmt.Fprintf(&b, ", ends %s", billing.FormatDate(*s.EndDate))
		}
	}
	fmt.Fprintf(&b, "\n   charged %s so far", plural(v.RenewalsPassed, "time"))

	switch {
	case s.LeadTime == nil:
		b.WriteString(", reminders off")
	case s.ReminderDate != nil:
		fmt.Fprintf(&b, ", reminder on %s", billing.FormatDate(*s.ReminderDate))
	}
	return b.String()
}

func formatSubscriptionList(views []app.SubscriptionView) string {
	if len(views) == 0 {
		return "You are not tracking any subscriptions yet. Add one with /add."
	}
	lines := make([]string, 0, len(views)+1)
	lines = append(lines, fmt.Sprintf("Your subscriptions (%d):", len(views)))
	for _, v := range views {
		lines = append(lines, formatSubscription(v))
	}
	return strings.Join(lines, "\n\n")
}

func formatSpendReport(r *app.SpendReport) string {
	if len(r.Totals) == 0 {
		return "Nothing to report: you are not tracking any subscriptions."
	}
	var b strings.Builder
	last := billing.AddDays(r.Range.End, -1)
	fmt.Fprintf(&b, "Spending this %s (%s to %s):", r.Window, billing.FormatDate(r.Range.Start), billing.FormatDate(last))
	for _, t := range r.Totals {
		fmt.Fprintf(&b, "\n\n%s, %s", t.Currency, plural(t.Subscriptions, "subscription"))
		fmt.Fprintf(&b, "\n   this %s: %s", r.Window, t.InWindow.StringFixed(2))
		fmt.Fprintf(&b, "\n   still to come: %s", t.RemainingInWindow.StringFixed(2))
		fmt.Fprintf(&b, "\n   spent to date: %s", t.SpentToDate.StringFixed(2))
	}
	return b.String()
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
