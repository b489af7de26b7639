package sqlite

import "time"

// Slot is a row of the kv_store table
type Slot struct {
	Key       string
	Value     string
	UpdatedAt time.Time
}
