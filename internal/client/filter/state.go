// Package filter holds the listing filter criteria and their query-string form.
//
// Decode and Encode are inverse functions over the query strings Encode
// produces: Encode(Decode(q, now)) == q. The one exception is a feature name
// that contains a comma, since features are comma-joined without escaping.
package filter

import (
	"errors"
	"fmt"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"
)

// Query keys, in encoding order.
const (
	KeyMake         = "make"
	KeyModel        = "model"
	KeyMinPrice     = "minPrice"
	KeyMaxPrice     = "maxPrice"
	KeyMinYear      = "minYear"
	KeyMaxYear      = "maxYear"
	KeyTransmission = "transmission"
	KeyFuelType     = "fuelType"
	KeyColor        = "color"
	KeyBodyType     = "bodyType"
	KeyOwnerNumber  = "ownerNumber"
	KeyFeatures     = "features"
	KeyPage         = "page"
)

// Keys lists every recognised query key in encoding order.
var Keys = []string{
	KeyMake, KeyModel, KeyMinPrice, KeyMaxPrice, KeyMinYear, KeyMaxYear,
	KeyTransmission, KeyFuelType, KeyColor, KeyBodyType, KeyOwnerNumber,
	KeyFeatures, KeyPage,
}

const (
	DefaultMinPrice = 0
	DefaultMaxPrice = 100000
	DefaultMinYear  = 2000
	DefaultPage     = 1

	featureSep = ","
)

var (
	ErrUnknownKey   = errors.New("unknown filter key")
	ErrInvalidValue = errors.New("invalid filter value")
)

// State is one immutable snapshot of the listing filters. Empty strings mean
// unconstrained. Features keep insertion order and never hold duplicates.
type State struct {
	Make         string
	Model        string
	MinPrice     int
	MaxPrice     int
	MinYear      int
	MaxYear      int
	Transmission string
	FuelType     string
	Color        string
	BodyType     string
	OwnerNumber  string
	Features     []string
	Page         int
}

// Defaults returns the filters of an empty query string; the upper year bound
// is the calendar year of now.
func Defaults(now time.Time) State {
	return State{
		MinPrice: DefaultMinPrice,
		MaxPrice: DefaultMaxPrice,
		MinYear:  DefaultMinYear,
		MaxYear:  now.Year(),
		Page:     DefaultPage,
	}
}

// Decode parses a raw query string (with or without a leading "?"). Unknown
// keys are ignored. Missing, zero or unparsable numbers take their default,
// a page below 1 becomes 1.
func Decode(rawQuery string, now time.Time) State {
	// ParseQuery keeps every well-formed pair even when it reports an error.
	values, _ := url.ParseQuery(strings.TrimPrefix(rawQuery, "?"))

	d := Defaults(now)
	s := d
	s.Make = values.Get(KeyMake)
	s.Model = values.Get(KeyModel)
	s.MinPrice = numberOr(values.Get(KeyMinPrice), d.MinPrice)
	s.MaxPrice = numberOr(values.Get(KeyMaxPrice), d.MaxPrice)
	s.MinYear = numberOr(values.Get(KeyMinYear), d.MinYear)
	s.MaxYear = numberOr(values.Get(KeyMaxYear), d.MaxYear)
	s.Transmission = values.Get(KeyTransmission)
	s.FuelType = values.Get(KeyFuelType)
	s.Color = values.Get(KeyColor)
	s.BodyType = values.Get(KeyBodyType)
	s.OwnerNumber = values.Get(KeyOwnerNumber)
	s.Features = splitFeatures(values.Get(KeyFeatures))
	s.Page = pageOr(values.Get(KeyPage))
	return s
}

// Encode serialises every field, in Keys order. Feature names are escaped
// individually and joined with a literal comma.
func Encode(s State) string {
	var b strings.Builder
	for i, k := range Keys {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(k)
		b.WriteByte('=')
		if k == KeyFeatures {
			for j, f := range s.Features {
				if j > 0 {
					b.WriteString(featureSep)
				}
				b.WriteString(url.QueryEscape(f))
			}
			continue
		}
		b.WriteString(url.QueryEscape(s.value(k)))
	}
	return b.String()
}

// String is the encoded query.
func (s State) String() string { return Encode(s) }

// value returns the unescaped string form of key.
func (s State) value(key string) string {
	switch key {
	case KeyMake:
		return s.Make
	case KeyModel:
		return s.Model
	case KeyMinPrice:
		return strconv.Itoa(s.MinPrice)
	case KeyMaxPrice:
		return strconv.Itoa(s.MaxPrice)
	case KeyMinYear:
		return strconv.Itoa(s.MinYear)
	case KeyMaxYear:
		return strconv.Itoa(s.MaxYear)
	case KeyTransmission:
		return s.Transmission
	case KeyFuelType:
		return s.FuelType
	case KeyColor:
		return s.Color
	case KeyBodyType:
		return s.BodyType
	case KeyOwnerNumber:
		return s.OwnerNumber
	case KeyFeatures:
		return strings.Join(s.Features, featureSep)
	case KeyPage:
		return strconv.Itoa(s.Page)
	}
	return ""
}

// Value returns the string form of key, the same text Encode would write
// before escaping.
func (s State) Value(key string) (string, error) {
	if !slices.Contains(Keys, key) {
		return "", fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}
	return s.value(key), nil
}

// With returns a copy of s that differs only at key. Changing anything but
// the page resets the page to 1. Numeric values follow the Decode rules,
// except that text which is not a number is rejected.
func (s State) With(key, value string) (State, error) {
	next := s.clone()

	switch key {
	case KeyMake:
		next.Make = value
	case KeyModel:
		next.Model = value
	case KeyTransmission:
		next.Transmission = value
	case KeyFuelType:
		next.FuelType = value
	case KeyColor:
		next.Color = value
	case KeyBodyType:
		next.BodyType = value
	case KeyOwnerNumber:
		next.OwnerNumber = value
	case KeyFeatures:
		next.Features = splitFeatures(value)
	case KeyMinPrice, KeyMaxPrice, KeyMinYear, KeyMaxYear, KeyPage:
		n, err := parseNumber(value)
		if err != nil {
			return s, fmt.Errorf("%w: %s=%q", ErrInvalidValue, key, value)
		}
		next.setNumber(key, n)
	default:
		return s, fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}

	if key != KeyPage {
		next.Page = DefaultPage
	}
	return next, nil
}

func (s *State) setNumber(key string, n int) {
	switch key {
	case KeyMinPrice:
		s.MinPrice = n // default is 0 already
	case KeyMaxPrice:
		s.MaxPrice = nonZeroOr(n, DefaultMaxPrice)
	case KeyMinYear:
		s.MinYear = nonZeroOr(n, DefaultMinYear)
	case KeyMaxYear:
		// zero keeps the current bound; the calendar year is only known to Decode
		s.MaxYear = nonZeroOr(n, s.MaxYear)
	case KeyPage:
		s.Page = max(n, DefaultPage)
	}
}

// ToggleFeature adds name to the feature set, or removes it when present.
// The page is reset to 1.
func (s State) ToggleFeature(name string) (State, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return s, fmt.Errorf("%w: empty feature", ErrInvalidValue)
	}

	next := s.clone()
	if i := slices.Index(next.Features, name); i >= 0 {
		next.Features = slices.Delete(next.Features, i, i+1)
	} else {
		next.Features = append(next.Features, name)
	}
	if len(next.Features) == 0 {
		next.Features = nil
	}
	next.Page = DefaultPage
	return next, nil
}

// HasFeature reports whether name is in the feature set.
func (s State) HasFeature(name string) bool {
	return slices.Contains(s.Features, name)
}

func (s State) clone() State {
	c := s
	c.Features = slices.Clone(s.Features)
	return c
}

// Key identifies a snapshot by value. Feature membership is normalised so
// that two snapshots with the same set compare equal.
type Key struct {
	Make         string
	Model        string
	MinPrice     int
	MaxPrice     int
	MinYear      int
	MaxYear      int
	Transmission string
	FuelType     string
	Color        string
	BodyType     string
	OwnerNumber  string
	Features     string
	Page         int
}

func (s State) Key() Key {
	features := slices.Clone(s.Features)
	slices.Sort(features)
	return Key{
		Make:         s.Make,
		Model:        s.Model,
		MinPrice:     s.MinPrice,
		MaxPrice:     s.MaxPrice,
		MinYear:      s.MinYear,
		MaxYear:      s.MaxYear,
		Transmission: s.Transmission,
		FuelType:     s.FuelType,
		Color:        s.Color,
		BodyType:     s.BodyType,
		OwnerNumber:  s.OwnerNumber,
		Features:     strings.Join(features, "\x00"),
		Page:         s.Page,
	}
}

// APIParams returns the query parameters of GET /cars for s. Every parameter
// is sent, empty ones included.
func (s State) APIParams() url.Values {
	return url.Values{
		"page":         {strconv.Itoa(s.Page)},
		"make":         {s.Make},
		"model":        {s.Model},
		"min_price":    {strconv.Itoa(s.MinPrice)},
		"max_price":    {strconv.Itoa(s.MaxPrice)},
		"min_year":     {strconv.Itoa(s.MinYear)},
		"max_year":     {strconv.Itoa(s.MaxYear)},
		"transmission": {s.Transmission},
		"fuel_type":    {s.FuelType},
		"color":        {s.Color},
		"body_type":    {s.BodyType},
		"owner_number": {s.OwnerNumber},
		"features":     {strings.Join(s.Features, featureSep)},
	}
}

func parseNumber(v string) (int, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0, nil
	}
	return strconv.Atoi(v)
}

func numberOr(v string, def int) int {
	n, err := parseNumber(v)
	if err != nil {
		return def
	}
	return nonZeroOr(n, def)
}

func nonZeroOr(n, def int) int {
	if n == 0 {
		return def
	}
	return n
}

func pageOr(v string) int {
	return max(numberOr(v, DefaultPage), DefaultPage)
}

// splitFeatures splits on commas, dropping empty items and repeats.
func splitFeatures(v string) []string {
	if v == "" {
		return nil
	}
	var out []string
	for _, f := range strings.Split(v, featureSep) {
		if f == "" || slices.Contains(out, f) {
			continue
		}
		out = append(out, f)
	}
	return out
}
