package tx

import (
	"errors"
	"fmt"
)

// CheckoutInput is what the UI layer hands over when the operator taps pay:
// the cart snapshot, the chosen payment method, and (for cash) the tendered
// amount.
type CheckoutInput struct {
	Items         []LineItem    `json:"items" yaml:"items"`
	PaymentMethod PaymentMethod `json:"payment_method" yaml:"payment_method"`
	Tendered      int64         `json:"tendered" yaml:"tendered"`
}

// Total returns the cart total in integer rupiah.
func (in CheckoutInput) Total() int64 {
	var total int64
	for _, li := range in.Items {
		total += li.Subtotal()
	}
	return total
}

// Change returns the change due. Zero for QRIS.
func (in CheckoutInput) Change() int64 {
	if in.PaymentMethod != PaymentCash {
		return 0
	}
	if c := in.Tendered - in.Total(); c > 0 {
		return c
	}
	return 0
}

// ValidationErrorCode categorizes checkout input rejections.
type ValidationErrorCode string

const (
	// ErrCodeEmptyCart indicates a checkout with no line items.
	ErrCodeEmptyCart ValidationErrorCode = "EMPTY_CART"

	// ErrCodeInsufficientTender indicates a cash payment where the tendered
	// amount does not cover the total.
	ErrCodeInsufficientTender ValidationErrorCode = "INSUFFICIENT_TENDER"

	// ErrCodeBadLineItem indicates a line item with a non-positive quantity
	// or a negative unit price.
	ErrCodeBadLineItem ValidationErrorCode = "BAD_LINE_ITEM"

	// ErrCodeBadPaymentMethod indicates an unknown payment method.
	ErrCodeBadPaymentMethod ValidationErrorCode = "BAD_PAYMENT_METHOD"
)

// ValidationError rejects a checkout before the guard is acquired.
// It never reaches the network or the queue.
type ValidationError struct {
	Code    ValidationErrorCode
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsValidationError reports whether err is (or wraps) a ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// Validate checks the checkout input against the rules the till enforces
// before anything is submitted or queued.
func (in CheckoutInput) Validate() error {
	if len(in.Items) == 0 {
		return &ValidationError{Code: ErrCodeEmptyCart, Message: "cart is empty"}
	}
	for i, li := range in.Items {
		if li.Quantity <= 0 {
			return &ValidationError{
				Code:    ErrCodeBadLineItem,
				Message: fmt.Sprintf("item %d (%s): quantity must be positive", i, li.ProductName),
			}
		}
		if li.UnitPrice < 0 {
			return &ValidationError{
				Code:    ErrCodeBadLineItem,
				Message: fmt.Sprintf("item %d (%s): negative unit price", i, li.ProductName),
			}
		}
	}
	if !in.PaymentMethod.Valid() {
		return &ValidationError{
			Code:    ErrCodeBadPaymentMethod,
			Message: fmt.Sprintf("unknown payment method %q", in.PaymentMethod),
		}
	}
	if in.PaymentMethod == PaymentCash && in.Tendered < in.Total() {
		return &ValidationError{
			Code:    ErrCodeInsufficientTender,
			Message: fmt.Sprintf("tendered %d is less than total %d", in.Tendered, in.Total()),
		}
	}
	return nil
}
