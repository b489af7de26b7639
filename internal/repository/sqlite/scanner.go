package sqlite

import "fmt"

// Scanner interface defines the common scanning behavior for both sql.Row and sql.Rows
type Scanner interface {
	Scan(dest ...interface{}) error
}

// ScanSlot scans a single kv_store row
func ScanSlot(scanner Scanner) (*Slot, error) {
	slot := &Slot{}
	var updatedAt string

	if err := scanner.Scan(&slot.Key, &slot.Value, &updatedAt); err != nil {
		return nil, err
	}

	t, err := ParseTimeFromDB(updatedAt)
	if err != nil {
		return nil, fmt.Errorf("parse updated_at %q: %w", updatedAt, err)
	}
	slot.UpdatedAt = t
	return slot, nil
}
