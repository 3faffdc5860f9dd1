package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/carmarket/internal/client/filter"
	"github.com/dmitrijs2005/carmarket/internal/client/listing"
	"github.com/dmitrijs2005/carmarket/internal/client/nav"
	"github.com/dmitrijs2005/carmarket/internal/common"
)

// Cars opens the car list. An optional argument is an encoded filter query
// ("make=BMW&page=2"), with or without the leading '?'.
func (a *App) Cars(ctx context.Context, args []string) error {
	if len(args) > 1 {
		return errUsage
	}
	var query string
	if len(args) == 1 {
		query = strings.TrimPrefix(args[0], "?")
	}
	return a.visit(ctx, nav.Location{Path: common.PathCarList, Query: query})
}

func (a *App) mountListing(ctx context.Context, rawQuery string) error {
	v, err := a.listing.Mount(ctx, rawQuery)
	return a.showListing(v, err)
}

// onListing makes sure the car list is the current location before a filter
// transition rewrites its query.
func (a *App) onListing() {
	if a.nav.Current().Path != common.PathCarList {
		a.nav.Push(nav.Location{Path: common.PathCarList, Query: a.listing.Query()})
	}
}

// Filter sets one filter key. The value may contain spaces; no value clears
// a text filter and resets a numeric one to its default.
func (a *App) Filter(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage
	}
	a.onListing()
	v, err := a.listing.Apply(ctx, args[0], strings.Join(args[1:], " "))
	if errors.Is(err, filter.ErrUnknownKey) {
		fmt.Fprintf(a.out, "Unknown filter %q. Filters: %s\n", args[0], strings.Join(filter.Keys, ", "))
		return nil
	}
	return a.showListing(v, err)
}

func (a *App) Feature(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage
	}
	a.onListing()
	v, err := a.listing.ToggleFeature(ctx, strings.Join(args, " "))
	return a.showListing(v, err)
}

func (a *App) Page(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errUsage
	}
	a.onListing()
	v, err := a.listing.Apply(ctx, filter.KeyPage, args[0])
	return a.showListing(v, err)
}

func (a *App) ResetFilters(ctx context.Context, _ []string) error {
	return a.visit(ctx, nav.Location{Path: common.PathCarList})
}

func (a *App) Refresh(ctx context.Context, _ []string) error {
	a.onListing()
	v, err := a.listing.Refresh(ctx)
	return a.showListing(v, err)
}

func (a *App) showListing(v listing.View, err error) error {
	if errors.Is(err, listing.ErrSuperseded) {
		return nil
	}
	if err != nil {
		return err
	}
	if summary := describeFilters(v.State); summary != "" {
		fmt.Fprintln(a.out, "Filters:", summary)
	}
	renderPage(a.out, v.Page)
	return nil
}

// describeFilters lists the filters that differ from an empty query.
func describeFilters(s filter.State) string {
	var parts []string
	for _, kv := range []struct{ k, v string }{
		{filter.KeyMake, s.Make},
		{filter.KeyModel, s.Model},
		{filter.KeyTransmission, s.Transmission},
		{filter.KeyFuelType, s.FuelType},
		{filter.KeyColor, s.Color},
		{filter.KeyBodyType, s.BodyType},
		{filter.KeyOwnerNumber, s.OwnerNumber},
	} {
		if kv.v != "" {
			parts = append(parts, kv.k+"="+kv.v)
		}
	}
	if s.MinPrice != filter.DefaultMinPrice || s.MaxPrice != filter.DefaultMaxPrice {
		parts = append(parts, fmt.Sprintf("price=%d..%d", s.MinPrice, s.MaxPrice))
	}
	if s.MinYear != filter.DefaultMinYear {
		parts = append(parts, fmt.Sprintf("year>=%d", s.MinYear))
	}
	if len(s.Features) > 0 {
		parts = append(parts, "features="+strings.Join(s.Features, ","))
	}
	return strings.Join(parts, " ")
}
