// Package tracker is the application service around the scheduler. It
// validates input, serialises scheduling writes per problem and aggregates
// dashboard statistics.
package tracker

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/abhisek/leetreview/internal/store"
)

// DefaultNewLimit is the number of never-attempted problems offered per day.
const DefaultNewLimit = 5

// Service implements the tracker operations on top of a Store.
type Service struct {
	store    *store.Store
	now      func() time.Time
	loc      *time.Location
	newLimit int
	log      zerolog.Logger
	locks    *keyedMutex
}

// Option configures a Service.
type Option func(*Service)

// WithClock replaces time.Now as the source of the current time.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithLocation sets the time zone that defines "today". Defaults to UTC.
func WithLocation(loc *time.Location) Option {
	return func(s *Service) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// WithNewLimit sets how many new problems Today offers.
func WithNewLimit(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.newLimit = n
		}
	}
}

// WithLogger sets the logger used for write operations.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Service) { s.log = l }
}

// New creates a Service backed by st.
func New(st *store.Store, opts ...Option) *Service {
	s := &Service{
		store:    st,
		now:      time.Now,
		loc:      time.UTC,
		newLimit: DefaultNewLimit,
		log:      zerolog.Nop(),
		locks:    newKeyedMutex(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Now returns the service clock's current time at the precision records
// are stored with.
func (s *Service) Now() time.Time {
	return s.now().UTC().Truncate(time.Second)
}

// Location returns the time zone that defines "today".
func (s *Service) Location() *time.Location {
	return s.loc
}

// dayBounds returns the first and last instants of the calendar day that
// contains now in the service location.
func (s *Service) dayBounds(now time.Time) (start, end time.Time) {
	local := now.In(s.loc)
	start = time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, s.loc)
	end = start.AddDate(0, 0, 1).Add(-time.Nanosecond)
	return start, end
}
