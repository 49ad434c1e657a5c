package app

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"subscription_tracker_bot/internal/domain/billing"
)

// SubscriptionInput is what a user supplies when adding a subscription.
type SubscriptionInput struct {
	Name      string          `validate:"required,max=64"`
	Amount    decimal.Decimal `validate:"gt=0"`
	Currency  string          `validate:"omitempty,iso4217"` // empty uses the user's currency
	StartDate time.Time       `validate:"required"`
	EndDate   *time.Time
	Cycle     billing.Cycle
	Trial     *billing.Cycle

	// LeadDays overrides the default reminder lead time. DisableReminders wins over it.
	LeadDays         *int `validate:"omitempty,min=0,max=30"`
	DisableReminders bool
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			return d.InexactFloat64()
		}
		return nil
	}, decimal.Decimal{})
	v.RegisterStructValidation(validateSubscriptionInput, SubscriptionInput{})
	return v
}

func validateSubscriptionInput(sl validator.StructLevel) {
	in := sl.Current().Interface().(SubscriptionInput)
	if err := in.Cycle.Validate(); err != nil {
		sl.ReportError(in.Cycle, "Cycle", "Cycle", "cycle", err.Error())
	}
	if in.Trial != nil {
		if err := in.Trial.Validate(); err != nil {
			sl.ReportError(in.Trial, "Trial", "Trial", "cycle", err.Error())
		}
	}
	if in.EndDate != nil && billing.Date(*in.EndDate).Before(billing.Date(in.StartDate)) {
		sl.ReportError(in.EndDate, "EndDate", "EndDate", "after_start", "")
	}
}

// invalidInput turns validator output into an ErrInvalidInput with a message
// fit for a chat reply.
func invalidInput(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	msgs := lo.Map(verrs, func(fe validator.FieldError, _ int) string {
		return fieldMessage(fe)
	})
	return fmt.Errorf("%w: %s", ErrInvalidInput, strings.Join(msgs, "; "))
}

func fieldMessage(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "gt":
		return field + " must be positive"
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "iso4217":
		return fmt.Sprintf("%q is not an ISO 4217 currency code", fe.Value())
	case "cycle":
		return fe.Param()
	case "after_start":
		return "end date must not be before the start date"
	default:
		return fmt.Sprintf("%s failed %s", field, fe.Tag())
	}
}
