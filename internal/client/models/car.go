package models

import "time"

// Car statuses reported by the API.
const (
	CarStatusAvailable = "available"
	CarStatusPending   = "pending"
	CarStatusSold      = "sold"
)

// Image is a stored listing photo.
type Image struct {
	URL string `json:"url"`
}

// Car is a listing. Detail responses also carry Bids and Seller.
type Car struct {
	ID           int64     `json:"id"`
	Title        string    `json:"title"`
	Make         string    `json:"make"`
	Model        string    `json:"model"`
	Year         int       `json:"year"`
	Price        float64   `json:"price"`
	Description  string    `json:"description,omitempty"`
	Location     string    `json:"location,omitempty"`
	Mileage      int64     `json:"mileage,omitempty"`
	MileageUnit  string    `json:"mileage_unit,omitempty"`
	Transmission string    `json:"transmission,omitempty"`
	FuelType     string    `json:"fuel_type,omitempty"`
	Color        string    `json:"color,omitempty"`
	BodyType     string    `json:"body_type,omitempty"`
	OwnerNumber  string    `json:"owner_number,omitempty"`
	Features     []string  `json:"features,omitempty"`
	Images       []Image   `json:"images,omitempty"`
	Status       string    `json:"status,omitempty"`
	Seller       *User     `json:"seller,omitempty"`
	Bids         []Bid     `json:"bids,omitempty"`
	CreatedAt    time.Time `json:"created_at,omitzero"`
}

// Sold reports whether bidding and test drives are closed for the car.
func (c Car) Sold() bool { return c.Status == CarStatusSold }

// HighestBid returns the largest bid amount, or 0 without bids.
func (c Car) HighestBid() float64 {
	var max float64
	for _, b := range c.Bids {
		if b.Amount > max {
			max = b.Amount
		}
	}
	return max
}

// CarUpdate is the body of PUT /cars/:id. Nil fields are left unchanged.
type CarUpdate struct {
	Title       *string  `json:"title,omitempty"`
	Make        *string  `json:"make,omitempty"`
	Model       *string  `json:"model,omitempty"`
	Year        *int     `json:"year,omitempty"`
	Price       *float64 `json:"price,omitempty"`
	Description *string  `json:"description,omitempty"`
}

// CarRef is the embedded car summary in bids and test drives.
type CarRef struct {
	ID    int64  `json:"id,omitempty"`
	Title string `json:"title"`
}
