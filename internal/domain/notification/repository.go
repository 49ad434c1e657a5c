// internal/domain/notification/repository.go
package notification

import (
	"context"
	"time"
)

// Repository persists reminder deliveries.
type Repository interface {
	RecordDelivery(ctx context.Context, d *Delivery) error
	WasDelivered(ctx context.Context, subscriptionID int64, renewalDate time.Time) (bool, error)
}
