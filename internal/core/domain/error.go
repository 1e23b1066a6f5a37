package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInternal = errors.New("internal error")

	// * Data errors.
	ErrDataNotFound    = errors.New("data not found")
	ErrConflictingData = errors.New("data conflicts with existing data in unique column")

	// * Communication errors.
	ErrBadRequest = errors.New("error parsing request")

	// * Authority errors.
	ErrTokenCreation              = errors.New("error creating token")
	ErrExpiredToken               = errors.New("access token has expired")
	ErrInvalidToken               = errors.New("access token is invalid")
	ErrInvalidCredentials         = errors.New("invalid username or password")
	ErrEmptyAuthorizationHeader   = errors.New("authorization header is not provided")
	ErrInvalidAuthorizationHeader = errors.New("authorization header format is invalid")
	ErrInvalidAuthorizationType   = errors.New("authorization type is not supported")

	// * Checkout errors.
	ErrValidation          = errors.New("required field is missing")
	ErrAmountBelowMinimum  = errors.New("amount is below the minimum order")
	ErrUnknownProduct      = errors.New("product is not in the catalog")
	ErrUnsupportedCurrency = errors.New("currency is not supported")
	ErrCheckoutNotFound    = errors.New("no checkout in progress")
	ErrCheckoutBusy        = errors.New("checkout submission is in flight")
	ErrCheckoutClosed      = errors.New("checkout is not accepting input")

	// * Ledger and dispatch errors.
	ErrPersistence       = errors.New("local order cache write failed")
	ErrRemoteWrite       = errors.New("remote order store write failed")
	ErrRemoteUnavailable = errors.New("remote store is not configured")
	ErrNotification      = errors.New("notification delivery failed")
)

// ValidationError names the first required field found empty.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", ErrValidation, e.Field)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}
