package validator

import (
	"errors"
	"regexp"
	"strings"
)

var (
	ErrInvalidEmail         = errors.New("invalid email")
	ErrInvalidName          = errors.New("invalid name")
	ErrInvalidPassword      = errors.New("invalid password")
	ErrInvalidAccountType   = errors.New("invalid account type")
	ErrAccountNumberMissing = errors.New("account number is required")
	ErrSwiftNotAllowed      = errors.New("swift/bic only applies to bank accounts")
	ErrInvalidFrequency     = errors.New("invalid frequency")
)

var (
	emailRegex = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	nameRegex  = regexp.MustCompile(`^[\p{L}0-9 '._-]{2,60}$`)
)

// Linked external account types. Cash is the only type without an account
// number behind it.
const (
	AccountTypeBank   = "bank"
	AccountTypeMobile = "mobile"
	AccountTypeCard   = "card"
	AccountTypeCrypto = "crypto"
	AccountTypeCash   = "cash"
)

const (
	FrequencyDaily   = "daily"
	FrequencyWeekly  = "weekly"
	FrequencyMonthly = "monthly"
)

func ValidateEmail(email string) error {
	if !emailRegex.MatchString(email) {
		return ErrInvalidEmail
	}
	return nil
}

func ValidateName(name string) error {
	if !nameRegex.MatchString(strings.TrimSpace(name)) {
		return ErrInvalidName
	}
	return nil
}

func ValidatePassword(password string) error {
	if len(password) < 8 {
		return ErrInvalidPassword
	}
	return nil
}

// ValidateLinkedAccount enforces the type-dependent field rules: every type
// except cash needs an account number, and SWIFT/BIC codes are only accepted
// on bank accounts.
func ValidateLinkedAccount(accountType, accountNumber, swiftBic string) error {
	switch accountType {
	case AccountTypeBank, AccountTypeMobile, AccountTypeCard, AccountTypeCrypto, AccountTypeCash:
	default:
		return ErrInvalidAccountType
	}
	if accountType != AccountTypeCash && strings.TrimSpace(accountNumber) == "" {
		return ErrAccountNumberMissing
	}
	if swiftBic != "" && accountType != AccountTypeBank {
		return ErrSwiftNotAllowed
	}
	return nil
}

func ValidateFrequency(frequency string) error {
	switch frequency {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly:
		return nil
	default:
		return ErrInvalidFrequency
	}
}
