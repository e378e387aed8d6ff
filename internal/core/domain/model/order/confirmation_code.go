package order

import (
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"math/big"

	"dispatch/internal/pkg/errs"
)

const confirmationCodeLength = 6

var (
	// ErrInvalidConfirmationCode is returned by Deliver when the supplied code
	// does not match the one issued at pickup.
	ErrInvalidConfirmationCode = errors.New("invalid confirmation code")

	confirmationCodeSpace = big.NewInt(1_000_000)
)

// ConfirmationCode is the six digit secret handed to the customer at pickup.
type ConfirmationCode string

// NewConfirmationCode draws a uniformly distributed code from crypto/rand.
func NewConfirmationCode() (ConfirmationCode, error) {
	n, err := rand.Int(rand.Reader, confirmationCodeSpace)
	if err != nil {
		return "", fmt.Errorf("generate confirmation code: %w", err)
	}
	return ConfirmationCode(fmt.Sprintf("%06d", n.Int64())), nil
}

func ParseConfirmationCode(s string) (ConfirmationCode, error) {
	if len(s) != confirmationCodeLength {
		return "", errs.NewValueIsInvalidErrorWithCause("confirmation code", fmt.Errorf("expected %d digits", confirmationCodeLength))
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return "", errs.NewValueIsInvalidErrorWithCause("confirmation code", fmt.Errorf("%q is not numeric", s))
		}
	}
	return ConfirmationCode(s), nil
}

// Matches compares in constant time. An empty code never matches.
func (c ConfirmationCode) Matches(provided string) bool {
	if c == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(c), []byte(provided)) == 1
}

func (c ConfirmationCode) String() string {
	return string(c)
}
