package domain

import (
	"context"
	"log/slog"
)

// DefaultGeo is the fallback coordinate pair for policies with no location:
// the São Paulo municipal centroid, the portfolio's densest region.
var DefaultGeo = Geo{Lat: -23.5505, Lon: -46.6333}

// Geocoder resolves a postal code (CEP) to coordinates.
type Geocoder interface {
	LookupPostalCode(ctx context.Context, postalCode string) (Geo, error)
}

// EnrichPolicyLocation fills in a policy's coordinates when they are absent.
// If a geocoder is available it is tried first; on failure or an empty result
// the policy falls back to DefaultGeo with a warning, never an error — a
// documented relaxation carried over from the original system.
func EnrichPolicyLocation(ctx context.Context, p Policy, geocoder Geocoder, logger *slog.Logger) Policy {
	if !p.Geo.IsZero() {
		return p
	}

	if geocoder != nil && p.PostalCode != "" {
		geo, err := geocoder.LookupPostalCode(ctx, p.PostalCode)
		if err != nil {
			logger.Warn("postal code lookup failed, defaulting coordinates",
				"policy_id", p.ID,
				"postal_code", p.PostalCode,
				"error", err,
			)
		} else if !geo.IsZero() {
			p.Geo = geo
			return p
		}
	}

	logger.Warn("policy has no coordinates, using default location",
		"policy_id", p.ID,
		"postal_code", p.PostalCode,
	)
	p.Geo = DefaultGeo
	return p
}
