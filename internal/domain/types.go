package domain

import "strings"

// Locale selects the per-language trip document.
type Locale string

const (
	LocaleEN Locale = "en"
	LocaleUK Locale = "uk"
)

// Locales lists supported locales in display order.
var Locales = []Locale{LocaleEN, LocaleUK}

// DisplayName returns the language name shown in the locale switcher.
func (l Locale) DisplayName() string {
	switch l {
	case LocaleEN:
		return "English"
	case LocaleUK:
		return "Українська"
	default:
		return ""
	}
}

// ParseLocale validates a locale string. Unsupported values are an
// InvalidArgumentError; no fallback is substituted.
func ParseLocale(s string) (Locale, error) {
	l := Locale(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Locales {
		if l == known {
			return l, nil
		}
	}
	return "", InvalidArgumentError{Arg: "locale", Value: s, Msg: "supported: en, uk"}
}

// Step is a preorder wizard step.
type Step string

const (
	StepSelectTrip     Step = "select_trip"
	StepPassengerCount Step = "passenger_count"
	StepPassengersInfo Step = "passengers_info"
	StepPayment        Step = "payment"
)

var stepOrder = map[Step]int{
	StepSelectTrip:     0,
	StepPassengerCount: 1,
	StepPassengersInfo: 2,
	StepPayment:        3,
}

// Index returns the position of the step, or -1 when unknown.
func (s Step) Index() int {
	if i, ok := stepOrder[s]; ok {
		return i
	}
	return -1
}

// Status represents a lightweight state value.
type Status string

const (
	StatusDraft         Status = "draft"
	StatusPaymentFailed Status = "payment_failed"
)
