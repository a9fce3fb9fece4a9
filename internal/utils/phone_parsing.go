package utils

import (
	"fmt"
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// PhoneDetails holds the parsed components of a phone number, used for
// SMS delivery formatting and logging. Parsing failures never reject an
// authentication request; the identifier contract only requires the
// leading plus.
type PhoneDetails struct {
	CountryCode int    `json:"country_code"`
	National    string `json:"national"`
	E164        string `json:"e164"`
	Region      string `json:"region"`
}

// ParsePhoneNumber parses an E.164 phone number string into its components
func ParsePhoneNumber(phoneString string) (*PhoneDetails, error) {
	cleanPhone := strings.TrimSpace(phoneString)
	if !strings.HasPrefix(cleanPhone, "+") {
		return nil, fmt.Errorf("phone number missing leading +: %s", phoneString)
	}

	num, err := phonenumbers.Parse(cleanPhone, "")
	if err != nil {
		return nil, fmt.Errorf("failed to parse phone number: %w", err)
	}

	return &PhoneDetails{
		CountryCode: int(num.GetCountryCode()),
		National:    phonenumbers.GetNationalSignificantNumber(num),
		E164:        phonenumbers.Format(num, phonenumbers.E164),
		Region:      phonenumbers.GetRegionCodeForNumber(num),
	}, nil
}

// FormatForDelivery returns the international display form of a phone
// number for SMS gateway payloads, falling back to the raw string when
// the deeper structure cannot be parsed
func FormatForDelivery(phoneString string) string {
	num, err := phonenumbers.Parse(strings.TrimSpace(phoneString), "")
	if err != nil {
		return phoneString
	}
	return phonenumbers.Format(num, phonenumbers.INTERNATIONAL)
}
