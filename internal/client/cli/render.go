package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dmitrijs2005/carmarket/internal/client/models"
	"github.com/dustin/go-humanize"
)

const dateTimeFormat = "2006-01-02 15:04"

// table writes tab-separated rows aligned into columns.
type table struct {
	tw *tabwriter.Writer
}

func newTable(w io.Writer, header ...string) *table {
	t := &table{tw: tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)}
	t.row(header...)
	return t
}

func (t *table) row(cols ...string) {
	fmt.Fprintln(t.tw, strings.Join(cols, "\t"))
}

func (t *table) flush() { _ = t.tw.Flush() }

func money(v float64) string {
	return "$" + humanize.CommafWithDigits(v, 2)
}

func id(v int64) string { return strconv.FormatInt(v, 10) }

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func mileage(c models.Car) string {
	if c.Mileage == 0 {
		return "-"
	}
	unit := c.MileageUnit
	if unit == "" {
		unit = "km"
	}
	return humanize.Comma(c.Mileage) + " " + unit
}

func when(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format(dateTimeFormat)
}

func carTitle(ref *models.CarRef) string {
	if ref == nil {
		return "-"
	}
	return ref.Title
}

func userName(u *models.User) string {
	if u == nil {
		return "-"
	}
	return u.Name
}

func renderCars(w io.Writer, cars []models.Car) {
	t := newTable(w, "ID", "TITLE", "YEAR", "PRICE", "MILEAGE", "LOCATION", "STATUS")
	for _, c := range cars {
		t.row(id(c.ID), c.Title, strconv.Itoa(c.Year), money(c.Price), mileage(c), orDash(c.Location), orDash(c.Status))
	}
	t.flush()
}

func renderPage(w io.Writer, p models.Page[models.Car]) {
	if len(p.Data) == 0 {
		fmt.Fprintln(w, "No cars match these filters.")
		return
	}
	renderCars(w, p.Data)
	fmt.Fprintf(w, "Page %d of %d (%d cars)\n", p.CurrentPage, p.LastPage, p.Total)
}

func renderCar(w io.Writer, c models.Car, now time.Time) {
	fmt.Fprintf(w, "%s (#%d)\n", c.Title, c.ID)
	if c.Sold() {
		fmt.Fprintln(w, "SOLD: bidding and test drives are closed")
	}

	t := newTable(w, "FIELD", "VALUE")
	t.row("Make", c.Make)
	t.row("Model", c.Model)
	t.row("Year", strconv.Itoa(c.Year))
	t.row("Price", money(c.Price))
	t.row("Mileage", mileage(c))
	t.row("Transmission", orDash(c.Transmission))
	t.row("Fuel", orDash(c.FuelType))
	t.row("Color", orDash(c.Color))
	t.row("Body", orDash(c.BodyType))
	t.row("Owners", orDash(c.OwnerNumber))
	t.row("Location", orDash(c.Location))
	if len(c.Features) > 0 {
		t.row("Features", strings.Join(c.Features, ", "))
	}
	if c.Seller != nil {
		t.row("Seller", c.Seller.Name)
	}
	if !c.CreatedAt.IsZero() {
		t.row("Listed", humanize.RelTime(c.CreatedAt, now, "ago", "from now"))
	}
	t.flush()

	if c.Description != "" {
		fmt.Fprintln(w)
		fmt.Fprintln(w, c.Description)
	}
	for _, img := range c.Images {
		fmt.Fprintln(w, "Photo:", img.URL)
	}

	fmt.Fprintln(w)
	if len(c.Bids) == 0 {
		fmt.Fprintln(w, "No bids yet.")
		return
	}
	fmt.Fprintf(w, "Highest bid: %s\n", money(c.HighestBid()))
	bt := newTable(w, "BIDDER", "AMOUNT", "PLACED")
	for _, b := range c.Bids {
		bt.row(userName(b.User), money(b.Amount), when(b.CreatedAt))
	}
	bt.flush()
}

func renderBids(w io.Writer, bids []models.Bid, withUser bool) {
	if len(bids) == 0 {
		fmt.Fprintln(w, "No bids.")
		return
	}
	header := []string{"ID", "CAR", "AMOUNT", "STATUS", "PLACED"}
	if withUser {
		header = append(header, "USER")
	}
	t := newTable(w, header...)
	for _, b := range bids {
		cols := []string{id(b.ID), carTitle(b.Car), money(b.Amount), orDash(b.Status), when(b.CreatedAt)}
		if withUser {
			cols = append(cols, userName(b.User))
		}
		t.row(cols...)
	}
	t.flush()
}

func renderTestDrives(w io.Writer, tds []models.TestDrive, withUser bool) {
	if len(tds) == 0 {
		fmt.Fprintln(w, "No test drives.")
		return
	}
	header := []string{"ID", "CAR", "SCHEDULED", "STATUS"}
	if withUser {
		header = append(header, "USER")
	}
	t := newTable(w, header...)
	for _, td := range tds {
		cols := []string{id(td.ID), carTitle(td.Car), when(td.ScheduledTime), orDash(td.Status)}
		if withUser {
			cols = append(cols, userName(td.User))
		}
		t.row(cols...)
	}
	t.flush()
}

func renderUsers(w io.Writer, users []models.User) {
	if len(users) == 0 {
		fmt.Fprintln(w, "No users.")
		return
	}
	t := newTable(w, "ID", "NAME", "EMAIL", "ROLE")
	for _, u := range users {
		t.row(id(u.ID), u.Name, u.Email, orDash(u.Role))
	}
	t.flush()
}
