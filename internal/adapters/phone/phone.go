package phone

import (
	"fmt"
	"strings"

	"github.com/nyaruka/phonenumbers"

	"inviteticketing/internal/domain"
)

type normalizer struct {
	region string
}

// NewNormalizer returns a PhoneNormalizer that assumes region (ISO 3166 code,
// e.g. "CH") for numbers written without a country code.
func NewNormalizer(region string) domain.PhoneNormalizer {
	return &normalizer{region: strings.ToUpper(region)}
}

// Normalize formats phone as E.164, e.g. +41791234567.
func (n *normalizer) Normalize(phone string) (string, error) {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return "", fmt.Errorf("%w: empty phone number", domain.ErrInvalidInput)
	}
	num, err := phonenumbers.Parse(phone, n.region)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	if !phonenumbers.IsValidNumber(num) {
		return "", fmt.Errorf("%w: %v", domain.ErrInvalidInput, phonenumbers.ErrNotANumber)
	}
	return phonenumbers.Format(num, phonenumbers.E164), nil
}
