package geo

import (
	"context"
	"errors"
	"sync"
	"time"

	"kabadi-client/internal/domain"
	"kabadi-client/internal/logger"
)

// AnchorResolver owns the point collector searches are run around. The point
// comes from the geocoded home address when available, otherwise from one
// device lookup, and is cached once known.
type AnchorResolver struct {
	geocoder Geocoder
	locator  DeviceLocator
	timeout  time.Duration

	mu     sync.Mutex
	anchor *domain.Coordinate
}

func NewAnchorResolver(geocoder Geocoder, locator DeviceLocator, timeout time.Duration) *AnchorResolver {
	return &AnchorResolver{geocoder: geocoder, locator: locator, timeout: timeout}
}

// Cached returns the known anchor, if any
func (a *AnchorResolver) Cached() (domain.Coordinate, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.anchor == nil {
		return domain.Coordinate{}, false
	}
	return *a.anchor, true
}

// Set pins the anchor to c
func (a *AnchorResolver) Set(c domain.Coordinate) {
	a.mu.Lock()
	a.anchor = &c
	a.mu.Unlock()
}

// Reset forgets the cached anchor
func (a *AnchorResolver) Reset() {
	a.mu.Lock()
	a.anchor = nil
	a.mu.Unlock()
}

// ResolveAddress geocodes the home address and caches the result. When the
// geocoder has no answer the device is asked exactly once.
func (a *AnchorResolver) ResolveAddress(ctx context.Context, addressLine, pincode string) (domain.Coordinate, error) {
	if a.geocoder != nil {
		if c := a.geocoder.Resolve(ctx, addressLine, pincode); c != nil {
			a.Set(*c)
			return *c, nil
		}
		logger.Info("Address could not be geocoded, falling back to device location", "pincode", pincode)
	}
	return a.locate(ctx)
}

// Anchor returns the cached anchor or performs one device lookup
func (a *AnchorResolver) Anchor(ctx context.Context) (domain.Coordinate, error) {
	if c, ok := a.Cached(); ok {
		return c, nil
	}
	return a.locate(ctx)
}

func (a *AnchorResolver) locate(ctx context.Context) (domain.Coordinate, error) {
	if a.locator == nil {
		return domain.Coordinate{}, ErrLocationUnavailable
	}

	lctx := ctx
	if a.timeout > 0 {
		var cancel context.CancelFunc
		lctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	logger.ExternalServiceCall("device", "locate")
	c, err := a.locator.Locate(lctx)
	logger.ExternalServiceResult("device", "locate", err)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return domain.Coordinate{}, ErrLocationTimeout
		}
		return domain.Coordinate{}, err
	}
	a.Set(c)
	return c, nil
}
