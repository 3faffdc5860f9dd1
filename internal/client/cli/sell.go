package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/carmarket/internal/client/models"
	"github.com/dmitrijs2005/carmarket/internal/client/nav"
	"github.com/dmitrijs2005/carmarket/internal/client/services"
	"github.com/dmitrijs2005/carmarket/internal/common"
)

// sellFeatures maps the feature names accepted by the sell form to the
// ListingForm flags.
var sellFeatures = map[string]func(f *models.ListingForm) **bool{
	"power_windows": func(f *models.ListingForm) **bool { return &f.PowerWindows },
	"abs":           func(f *models.ListingForm) **bool { return &f.ABS },
	"airbags":       func(f *models.ListingForm) **bool { return &f.Airbags },
	"sunroof":       func(f *models.ListingForm) **bool { return &f.Sunroof },
	"navigation":    func(f *models.ListingForm) **bool { return &f.Navigation },
	"rear_camera":   func(f *models.ListingForm) **bool { return &f.RearCamera },
	"leather_seats": func(f *models.ListingForm) **bool { return &f.LeatherSeats },
}

// Sell opens the sell form.
func (a *App) Sell(ctx context.Context, _ []string) error {
	return a.visit(ctx, nav.Location{Path: common.PathSellCar})
}

func (a *App) sellForm(ctx context.Context) error {
	form, err := a.inputListing()
	if err != nil {
		return err
	}

	car, err := a.carService.CreateListing(ctx, form)
	if err != nil {
		fmt.Fprintln(a.out, "Failed to list car.")
		return err
	}

	fmt.Fprintf(a.out, "Car listed successfully! (#%d)\n", car.ID)
	a.nav.Push(nav.Location{Path: common.PathDashboard})
	return nil
}

// inputListing walks the user through the sell form. Optional details are
// only asked for on request.
func (a *App) inputListing() (models.ListingForm, error) {
	var (
		f   models.ListingForm
		err error
	)
	text := func(prompt string, dst *string) {
		if err == nil {
			*dst, err = getSimpleText(a.reader, prompt, a.out)
		}
	}
	number := func(prompt, field string, dst *int) {
		var s string
		text(prompt, &s)
		if err == nil {
			*dst, err = atoiField(field, s)
		}
	}

	text("Title", &f.Title)
	text("Make", &f.Make)
	text("Model", &f.Model)
	text("Location", &f.Location)
	number("Year", "year", &f.Year)

	var price string
	text("Price", &price)
	if err == nil && price != "" {
		if f.Price, err = parseAmount(price); err != nil {
			err = fieldError("price", "price must be a number")
		}
	}
	if err != nil {
		return f, err
	}
	if f.Description, err = GetMultiline(a.reader, "Description", a.out); err != nil {
		return f, err
	}

	more, err := GetYesNo(a.reader, "Add more details?", a.out)
	if err != nil {
		return f, err
	}
	if more {
		var mileage int
		number("Mileage", "mileage", &mileage)
		f.Mileage = int64(mileage)
		text("Mileage unit (km/miles)", &f.MileageUnit)
		text("Fuel type", &f.FuelType)
		text("Transmission", &f.Transmission)
		text("Owner number", &f.OwnerNumber)
		text("Color", &f.Color)
		text("Body type", &f.BodyType)
		number("Registration year", "registration_year", &f.RegistrationYear)
		text("Insurance valid until (YYYY-MM-DD)", &f.InsuranceValidity)
		text("Engine CC", &f.EngineCC)
		text("Variant", &f.Variant)

		var features string
		text("Features (comma separated: "+strings.Join(featureNames(), ", ")+")", &features)
		if err == nil {
			err = setFeatures(&f, features)
		}
		if err != nil {
			return f, err
		}
	}

	f.Images, err = GetList(a.reader, "Image files", a.out)
	return f, err
}

func featureNames() []string {
	return []string{"power_windows", "abs", "airbags", "sunroof", "navigation", "rear_camera", "leather_seats"}
}

// setFeatures marks the listed features as present and the others as absent.
func setFeatures(f *models.ListingForm, list string) error {
	if strings.TrimSpace(list) == "" {
		return nil
	}
	for _, name := range featureNames() {
		no := false
		*sellFeatures[name](f) = &no
	}
	for _, raw := range strings.Split(list, ",") {
		name := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(raw)), " ", "_")
		if name == "" {
			continue
		}
		field, ok := sellFeatures[name]
		if !ok {
			return fieldError("features", fmt.Sprintf("unknown feature %q", raw))
		}
		yes := true
		*field(f) = &yes
	}
	return nil
}

// atoiField parses an optional number; empty input is zero.
func atoiField(field, s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fieldError(field, field+" must be a number")
	}
	return n, nil
}

func fieldError(field, msg string) error {
	return &services.InputError{Fields: []services.FieldError{{Field: field, Message: msg}}}
}
