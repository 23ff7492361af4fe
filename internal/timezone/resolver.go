package timezone

import (
	"fmt"
	"sync"

	"github.com/ringsaturn/tzf"
)

// Resolver maps coordinates to IANA timezone identifiers.
type Resolver struct {
	finder tzf.F
}

var (
	instance *Resolver
	once     sync.Once
	initErr  error
)

// NewResolver creates or returns the shared resolver. The tzf finder loads
// its timezone polygon data into memory once, so a single instance is reused
// process-wide.
func NewResolver() (*Resolver, error) {
	once.Do(func() {
		finder, err := tzf.NewDefaultFinder()
		if err != nil {
			initErr = fmt.Errorf("initialize timezone finder: %w", err)
			return
		}
		instance = &Resolver{finder: finder}
	})
	if initErr != nil {
		return nil, initErr
	}
	return instance, nil
}

// TimezoneName returns the IANA identifier for the coordinates, such as
// "America/Denver", or an empty string when no zone contains them.
func (r *Resolver) TimezoneName(lat, lon float64) string {
	return r.finder.GetTimezoneName(lon, lat)
}
