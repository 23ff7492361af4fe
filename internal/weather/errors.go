package weather

import "errors"

var (
	// ErrLocationNotFound means geocoding yielded no match for a text query.
	ErrLocationNotFound = errors.New("location not found")

	// ErrProviderUnavailable means every forecast endpoint failed.
	ErrProviderUnavailable = errors.New("weather provider unavailable")

	// ErrAuthentication means the provider rejected the configured credential.
	ErrAuthentication = errors.New("weather provider rejected credentials")

	// ErrMalformedPayload means the provider returned a shape that cannot be
	// normalized.
	ErrMalformedPayload = errors.New("malformed provider payload")
)
