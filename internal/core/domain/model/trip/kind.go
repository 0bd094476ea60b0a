package trip

import (
	"fmt"

	"tripdesk/internal/pkg/errs"
)

// Kind discriminates the trip variants. Each kind carries its own payload on
// the Trip aggregate; exactly one payload matching the kind must be present.
type Kind int

const (
	// KindUnknown represents an invalid or undefined kind.
	KindUnknown Kind = iota

	// KindNormal is a plain point-to-point ride without extra payload.
	KindNormal

	// KindParcel is a package delivery with parcel details attached.
	KindParcel

	// KindCustom is a traveler-shaped trip: one-way, round or tour.
	KindCustom
)

func getKindStrings() map[Kind]string {
	return map[Kind]string{
		KindNormal: "normal",
		KindParcel: "package",
		KindCustom: "custom",
	}
}

// KindFromString parses a persisted kind label.
func KindFromString(s string) (Kind, error) {
	for k, str := range getKindStrings() {
		if str == s {
			return k, nil
		}
	}
	return KindUnknown, errs.NewValueIsInvalidErrorWithCause("kind is invalid",
		fmt.Errorf("%q is not a valid kind", s))
}

// Validate checks if the Kind value is valid.
func (k Kind) Validate() error {
	if _, ok := getKindStrings()[k]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("kind is invalid",
			fmt.Errorf("%d is not a valid kind", k))
	}
	return nil
}

// String implements fmt.Stringer.
func (k Kind) String() string {
	if str, ok := getKindStrings()[k]; ok {
		return str
	}
	return "unknown"
}

// CustomKind refines KindCustom trips.
type CustomKind int

const (
	// CustomKindNone is used for non-custom trips.
	CustomKindNone CustomKind = iota

	// CustomKindOneWay is a single outbound leg with exactly two addresses.
	CustomKindOneWay

	// CustomKindRound goes out and comes back, optionally waiting in between.
	CustomKindRound

	// CustomKindTour is a multi-day rental with two or more addresses.
	CustomKindTour
)

func getCustomKindStrings() map[CustomKind]string {
	return map[CustomKind]string{
		CustomKindOneWay: "one_way",
		CustomKindRound:  "round",
		CustomKindTour:   "tour",
	}
}

// CustomKindFromString parses a persisted custom-kind label. An empty string
// maps to CustomKindNone.
func CustomKindFromString(s string) (CustomKind, error) {
	if s == "" {
		return CustomKindNone, nil
	}
	for k, str := range getCustomKindStrings() {
		if str == s {
			return k, nil
		}
	}
	return CustomKindNone, errs.NewValueIsInvalidErrorWithCause("custom kind is invalid",
		fmt.Errorf("%q is not a valid custom kind", s))
}

// String implements fmt.Stringer. CustomKindNone renders as the empty string.
func (k CustomKind) String() string {
	if str, ok := getCustomKindStrings()[k]; ok {
		return str
	}
	return ""
}
