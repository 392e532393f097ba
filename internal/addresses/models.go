package addresses

import "time"

type Address struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Label       string    `json:"label"`
	FullAddress string    `json:"full_address"`
	Latitude    *float64  `json:"latitude,omitempty"`
	Longitude   *float64  `json:"longitude,omitempty"`
	IsDefault   bool      `json:"is_default"`
	CreatedAt   time.Time `json:"created_at"`
}

// Patch holds the fields an update changes; nil leaves a field as is.
type Patch struct {
	Label       *string
	FullAddress *string
	Latitude    *float64
	Longitude   *float64
	MakeDefault bool
}
