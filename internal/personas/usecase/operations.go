package usecase

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// DefaultFileDateLayout renders dates as d/m/yyyy
const DefaultFileDateLayout = "2/1/2006"

// maxIDAttempts bounds how many fresh ids are drawn before suffixing
const maxIDAttempts = 8

// IDGenerator returns a new candidate id
type IDGenerator func() string

// Clock returns the current time
type Clock func() time.Time

// Operations holds the pure mutation functions over the two collections.
// It keeps no state besides its id source, clock and date layout; every method
// takes the current collection and returns the next one without modifying its input.
type Operations struct {
	newID      IDGenerator
	now        Clock
	dateLayout string
}

// OperationsOption configures Operations
type OperationsOption func(*Operations)

// WithIDGenerator overrides the id source
func WithIDGenerator(gen IDGenerator) OperationsOption {
	return func(o *Operations) {
		if gen != nil {
			o.newID = gen
		}
	}
}

// WithClock overrides the clock used to date uploads
func WithClock(clock Clock) OperationsOption {
	return func(o *Operations) {
		if clock != nil {
			o.now = clock
		}
	}
}

// WithDateLayout overrides the layout used to format upload dates
func WithDateLayout(layout string) OperationsOption {
	return func(o *Operations) {
		if layout != "" {
			o.dateLayout = layout
		}
	}
}

// NewOperations creates Operations with time-ordered UUID ids and the wall clock
func NewOperations(opts ...OperationsOption) *Operations {
	o := &Operations{
		newID:      timeOrderedID,
		now:        time.Now,
		dateLayout: DefaultFileDateLayout,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// timeOrderedID returns a UUIDv7, which embeds a millisecond timestamp and is
// monotonic within the process.
func timeOrderedID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// freshID draws ids until one is not taken
func (o *Operations) freshID(taken func(string) bool) string {
	base := o.newID()
	id := base
	for i := 1; taken(id); i++ {
		if i < maxIDAttempts {
			base = o.newID()
			id = base
			continue
		}
		id = fmt.Sprintf("%s-%d", base, i)
	}
	return id
}
