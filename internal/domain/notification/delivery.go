// internal/domain/notification/delivery.go
package notification

import "time"

// Delivery records that a renewal reminder was sent for one occurrence of a
// subscription. Corresponds to the 'reminder_deliveries' table; the pair
// (SubscriptionID, RenewalDate) is unique so a rerun of the daily job never
// sends the same reminder twice.
type Delivery struct {
	ID             int64
	SubscriptionID int64     // Foreign Key to subscriptions.id
	RenewalDate    time.Time // the occurrence the reminder was about
	SentAt         time.Time
}
