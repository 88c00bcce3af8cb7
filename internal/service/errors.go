package service

import (
	"errors"
	"fmt"

	"go-retail-pos/pkg/database"
	"go-retail-pos/pkg/validator"
)

// Error kinds. Handlers map them onto HTTP statuses with errors.Is.
var (
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("validation failed")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
)

var (
	ErrCompanyNotFound     = fmt.Errorf("company %w", ErrNotFound)
	ErrEmployeeNotFound    = fmt.Errorf("employee %w", ErrNotFound)
	ErrItemNotFound        = fmt.Errorf("item %w", ErrNotFound)
	ErrCategoryNotFound    = fmt.Errorf("category %w", ErrNotFound)
	ErrVendorNotFound      = fmt.Errorf("vendor %w", ErrNotFound)
	ErrShiftNotFound       = fmt.Errorf("shift %w", ErrNotFound)
	ErrTransactionNotFound = fmt.Errorf("transaction %w", ErrNotFound)
	ErrStoreCreditNotFound = fmt.Errorf("store credit %w", ErrNotFound)
	ErrGiftCardNotFound    = fmt.Errorf("gift card %w", ErrNotFound)
	ErrCustomerNotFound    = fmt.Errorf("customer %w", ErrNotFound)
	ErrPolicyNotFound      = fmt.Errorf("return policy %w", ErrNotFound)
	ErrUserNotFound        = fmt.Errorf("user %w", ErrNotFound)
	ErrRoleNotFound        = fmt.Errorf("role %w", ErrNotFound)

	ErrNoOpenShift        = fmt.Errorf("%w: employee has no open shift", ErrValidation)
	ErrInsufficientCash   = fmt.Errorf("%w: cash given is less than the total", ErrValidation)
	ErrInsufficientStock  = fmt.Errorf("%w: insufficient stock", ErrValidation)
	ErrInsufficientCredit = fmt.Errorf("%w: store credit does not cover the total", ErrValidation)
	ErrNotEligible        = fmt.Errorf("%w: not eligible for return", ErrValidation)
	ErrEmployeeInactive   = fmt.Errorf("%w: employee is inactive", ErrValidation)
	ErrInvalidAmount      = fmt.Errorf("%w: amount must be greater than zero", ErrValidation)

	ErrShiftClosed         = fmt.Errorf("%w: shift is already closed", ErrConflict)
	ErrStoreCreditUsed     = fmt.Errorf("%w: store credit already redeemed", ErrConflict)
	ErrGiftCardBalance     = fmt.Errorf("%w: gift card balance is insufficient or card inactive", ErrConflict)
	ErrGiftCardInactive    = fmt.Errorf("%w: gift card is inactive", ErrConflict)
	ErrInsufficientPoints  = fmt.Errorf("%w: insufficient loyalty points", ErrConflict)
	ErrTransactionSettled  = fmt.Errorf("%w: transaction is no longer completed", ErrConflict)
	ErrDuplicateSKU        = fmt.Errorf("%w: SKU already exists", ErrConflict)
	ErrEmailExists         = fmt.Errorf("%w: email already exists", ErrConflict)
	ErrBarcodeTaken        = fmt.Errorf("%w: barcode already in use", ErrConflict)
	ErrTransactionNumTaken = fmt.Errorf("%w: transaction number already in use", ErrConflict)

	ErrInvalidCredentials = fmt.Errorf("%w: invalid credentials", ErrUnauthorized)
	ErrUserInactive       = fmt.Errorf("%w: account is inactive", ErrUnauthorized)
	ErrSessionExpired     = fmt.Errorf("%w: session expired", ErrUnauthorized)
	ErrWrongPassword      = fmt.Errorf("%w: current password is incorrect", ErrValidation)
	ErrManagerRequired    = fmt.Errorf("%w: manager authorization required", ErrForbidden)
)

// validate reports the first failed field the way every request validator reports it.
func validate(req interface{}) error {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		first := errs[0]
		return fmt.Errorf("%w: field '%s' failed on tag '%s'", ErrValidation, first.FailedField, first.Tag)
	}
	return nil
}

// lookupErr turns a missing row into notFound and passes storage failures through.
func lookupErr(err, notFound error) error {
	if database.IsNotFound(err) {
		return notFound
	}
	return err
}

// writeErr turns a unique-index violation into conflict.
func writeErr(err, conflict error) error {
	if database.IsUniqueViolation(err) {
		return conflict
	}
	return err
}

func errValidationf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: "+format, append([]interface{}{ErrValidation}, args...)...)
}

func isNotFound(err error) bool {
	return database.IsNotFound(err)
}

func isUniqueViolation(err error) bool {
	return database.IsUniqueViolation(err)
}
