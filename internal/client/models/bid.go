package models

import "time"

type Bid struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id,omitempty"`
	CarID     int64     `json:"car_id,omitempty"`
	Amount    float64   `json:"amount"`
	Status    string    `json:"status,omitempty"`
	User      *User     `json:"user,omitempty"`
	Car       *CarRef   `json:"car,omitempty"`
	CreatedAt time.Time `json:"created_at,omitzero"`
}

// BidRequest is the body of POST /cars/:id/bids.
type BidRequest struct {
	Amount float64 `json:"amount"`
}
