package models

import "time"

type TestDrive struct {
	ID            int64     `json:"id"`
	ScheduledTime time.Time `json:"scheduled_time"`
	Status        string    `json:"status"`
	Car           *CarRef   `json:"car,omitempty"`
	User          *User     `json:"user,omitempty"`
}

// TestDriveRequest is the body of POST /test-drives.
type TestDriveRequest struct {
	CarID         int64     `json:"car_id"`
	ScheduledTime time.Time `json:"scheduled_time"`
}
