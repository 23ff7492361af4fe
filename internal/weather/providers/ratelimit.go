package providers

import (
	"context"

	"golang.org/x/time/rate"

	"weathermood/internal/weather"
)

// RateLimitedGeocoder throttles geocoding calls against the provider quota.
type RateLimitedGeocoder struct {
	inner   weather.Geocoder
	limiter *rate.Limiter
}

func NewRateLimitedGeocoder(inner weather.Geocoder, rps float64, burst int) *RateLimitedGeocoder {
	return &RateLimitedGeocoder{
		inner:   inner,
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
	}
}

func (g *RateLimitedGeocoder) Resolve(ctx context.Context, q weather.Query) (weather.Location, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return weather.Location{}, err
	}
	return g.inner.Resolve(ctx, q)
}

// RateLimitedClient throttles forecast fetches against the provider quota.
type RateLimitedClient struct {
	inner   weather.ProviderClient
	limiter *rate.Limiter
}

func NewRateLimitedClient(inner weather.ProviderClient, rps float64, burst int) *RateLimitedClient {
	return &RateLimitedClient{
		inner:   inner,
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
	}
}

func (c *RateLimitedClient) FetchRaw(ctx context.Context, loc weather.Location) (weather.ProviderPayload, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return weather.ProviderPayload{}, err
	}
	return c.inner.FetchRaw(ctx, loc)
}
