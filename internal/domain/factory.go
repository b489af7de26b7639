package domain

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// GenerateID returns a new time-ordered UUID (v7), or a random v4 UUID if the
// v7 generator fails.
func GenerateID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// Factory builds new tasks from form data.
type Factory struct {
	now   func() time.Time
	newID func() string

	mu   sync.Mutex
	last time.Time
}

// FactoryOption customises a Factory
type FactoryOption func(*Factory)

// WithClock sets the time source used for CreatedAt
func WithClock(now func() time.Time) FactoryOption {
	return func(f *Factory) {
		f.now = now
	}
}

// WithIDGenerator sets the identity source
func WithIDGenerator(newID func() string) FactoryOption {
	return func(f *Factory) {
		f.newID = newID
	}
}

// NewFactory creates a Factory using the wall clock and GenerateID by default
func NewFactory(opts ...FactoryOption) *Factory {
	f := &Factory{
		now:   time.Now,
		newID: GenerateID,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Create returns a new task with a fresh ID and CreatedAt set to now.
// CreatedAt never goes backwards between calls on the same Factory.
func (f *Factory) Create(form TaskFormData) Task {
	return Task{
		ID:          f.newID(),
		Title:       form.Title,
		Description: form.Description,
		Status:      form.Status,
		Priority:    form.Priority,
		DueDate:     copyDate(form.DueDate),
		CreatedAt:   f.timestamp(),
	}
}

func (f *Factory) timestamp() time.Time {
	now := f.now().UTC().Round(0)

	f.mu.Lock()
	defer f.mu.Unlock()
	if now.Before(f.last) {
		now = f.last
	}
	f.last = now
	return now
}

var defaultFactory = NewFactory()

// CreateTask builds a task with the package-level Factory.
func CreateTask(form TaskFormData) Task {
	return defaultFactory.Create(form)
}
