package geo

import (
	"context"
	"errors"

	"kabadi-client/internal/domain"
)

var (
	ErrLocationUnavailable = errors.New("could not get your location")
	ErrLocationTimeout     = errors.New("location request timed out")
)

// DeviceLocator is the one-shot device position lookup
type DeviceLocator interface {
	Locate(ctx context.Context) (domain.Coordinate, error)
}

// StaticLocator reports a fixed, configured position
type StaticLocator struct {
	position *domain.Coordinate
}

// NewStaticLocator returns a locator for position. A nil position models a
// device with location access denied.
func NewStaticLocator(position *domain.Coordinate) *StaticLocator {
	return &StaticLocator{position: position}
}

func (s *StaticLocator) Locate(ctx context.Context) (domain.Coordinate, error) {
	if err := ctx.Err(); err != nil {
		return domain.Coordinate{}, err
	}
	if s.position == nil {
		return domain.Coordinate{}, ErrLocationUnavailable
	}
	return *s.position, nil
}

// LocatorFunc adapts a function to DeviceLocator
type LocatorFunc func(ctx context.Context) (domain.Coordinate, error)

func (f LocatorFunc) Locate(ctx context.Context) (domain.Coordinate, error) {
	return f(ctx)
}
