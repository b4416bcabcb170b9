// Package phone normalises user supplied phone numbers.
package phone

import (
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// Normalizer formats numbers to E.164 using a default region for numbers
// written without a country code.
type Normalizer struct {
	region string
}

func NewNormalizer(region string) Normalizer {
	region = strings.ToUpper(strings.TrimSpace(region))
	if region == "" {
		region = "US"
	}
	return Normalizer{region: region}
}

// E164 returns the E.164 form of input. Numbers that do not parse or are not
// valid for their region are returned trimmed but otherwise untouched.
func (n Normalizer) E164(input string) string {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return trimmed
	}

	number, err := phonenumbers.Parse(trimmed, n.region)
	if err != nil || !phonenumbers.IsValidNumber(number) {
		return trimmed
	}
	return phonenumbers.Format(number, phonenumbers.E164)
}

// E164Ptr applies E164 to an optional value; blank input becomes nil.
func (n Normalizer) E164Ptr(input *string) *string {
	if input == nil {
		return nil
	}
	out := n.E164(*input)
	if out == "" {
		return nil
	}
	return &out
}
