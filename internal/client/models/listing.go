package models

import (
	"strconv"
)

// ListingForm is what a seller fills in to publish a car. Zero optional
// fields are not sent; nil feature flags are not sent either.
type ListingForm struct {
	Title       string  `form:"title" validate:"required"`
	Make        string  `form:"make" validate:"required"`
	Model       string  `form:"model" validate:"required"`
	Year        int     `form:"year" validate:"gte=1900,lte=2100"`
	Price       float64 `form:"price" validate:"gt=0"`
	Description string  `form:"description" validate:"required"`
	Location    string  `form:"location" validate:"required"`

	Mileage           int64  `form:"mileage" validate:"gte=0"`
	MileageUnit       string `form:"mileage_unit"`
	FuelType          string
	Transmission      string
	OwnerNumber       string
	Color             string
	BodyType          string
	RegistrationYear  int `form:"registration_year" validate:"omitempty,gte=1900,lte=2100"`
	InsuranceValidity string
	EngineCC          string
	Variant           string

	PowerWindows *bool
	ABS          *bool
	Airbags      *bool
	Sunroof      *bool
	Navigation   *bool
	RearCamera   *bool
	LeatherSeats *bool

	// Images are local file paths uploaded as images[].
	Images []string `form:"images" validate:"min=1,dive,required"`
}

// Field is one ordered multipart text field.
type Field struct {
	Name  string
	Value string
}

// Fields returns the multipart text fields in the order the API documents
// them. Feature flags are encoded as "1"/"0".
func (f ListingForm) Fields() []Field {
	out := []Field{
		{"title", f.Title},
		{"make", f.Make},
		{"model", f.Model},
		{"year", strconv.Itoa(f.Year)},
		{"price", strconv.FormatFloat(f.Price, 'f', -1, 64)},
		{"description", f.Description},
		{"location", f.Location},
	}

	if f.Mileage != 0 {
		out = append(out, Field{"mileage", strconv.FormatInt(f.Mileage, 10)})
	}
	optional := []Field{
		{"mileage_unit", f.MileageUnit},
		{"fuel_type", f.FuelType},
		{"transmission", f.Transmission},
		{"owner_number", f.OwnerNumber},
		{"color", f.Color},
		{"body_type", f.BodyType},
	}
	for _, o := range optional {
		if o.Value != "" {
			out = append(out, o)
		}
	}
	if f.RegistrationYear != 0 {
		out = append(out, Field{"registration_year", strconv.Itoa(f.RegistrationYear)})
	}
	for _, o := range []Field{
		{"insurance_validity", f.InsuranceValidity},
		{"engine_cc", f.EngineCC},
		{"variant", f.Variant},
	} {
		if o.Value != "" {
			out = append(out, o)
		}
	}

	flags := []struct {
		name string
		v    *bool
	}{
		{"power_windows", f.PowerWindows},
		{"abs", f.ABS},
		{"airbags", f.Airbags},
		{"sunroof", f.Sunroof},
		{"navigation", f.Navigation},
		{"rear_camera", f.RearCamera},
		{"leather_seats", f.LeatherSeats},
	}
	for _, fl := range flags {
		if fl.v == nil {
			continue
		}
		v := "0"
		if *fl.v {
			v = "1"
		}
		out = append(out, Field{fl.name, v})
	}
	return out
}
