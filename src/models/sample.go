package models

import "time"

// MSample is one (timestamp, price) bar.
type MSample struct {
	Timestamp time.Time `json:"timestamp"`
	Price     float64   `json:"price"`
}
