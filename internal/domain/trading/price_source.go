package trading

import (
	"fmt"
	"strings"
)

// PriceSource selects which feed supplies the buy/sell prices for an item
type PriceSource string

const (
	// PriceSourceLatest uses the instantaneous record (low = buy, high = sell)
	PriceSourceLatest PriceSource = "latest"

	// PriceSourceWindowed uses the trailing one-hour averages
	PriceSourceWindowed PriceSource = "1h"

	// PriceSourceHybrid prefers a fresh instantaneous record and falls back to the averages
	PriceSourceHybrid PriceSource = "hybrid"
)

// AllPriceSources returns every supported price source
func AllPriceSources() []PriceSource {
	return []PriceSource{PriceSourceLatest, PriceSourceWindowed, PriceSourceHybrid}
}

func (s PriceSource) String() string {
	return string(s)
}

// IsValid checks if the price source is supported
func (s PriceSource) IsValid() bool {
	switch s {
	case PriceSourceLatest, PriceSourceWindowed, PriceSourceHybrid:
		return true
	default:
		return false
	}
}

// ParsePriceSource parses a string into a PriceSource
func ParsePriceSource(s string) (PriceSource, error) {
	ps := PriceSource(strings.ToLower(strings.TrimSpace(s)))
	if !ps.IsValid() {
		return "", fmt.Errorf("%w: %s", ErrUnknownPriceSource, s)
	}
	return ps, nil
}

// FreshnessPolicy decides how many of the latest record's timestamps must be recent
type FreshnessPolicy string

const (
	// FreshnessAny requires at least one of the two timestamps to be recent
	FreshnessAny FreshnessPolicy = "any"

	// FreshnessBoth requires both timestamps to be recent
	FreshnessBoth FreshnessPolicy = "both"
)

func (p FreshnessPolicy) String() string {
	return string(p)
}

// IsValid checks if the policy is supported
func (p FreshnessPolicy) IsValid() bool {
	return p == FreshnessAny || p == FreshnessBoth
}

// ParseFreshnessPolicy parses a string into a FreshnessPolicy
func ParseFreshnessPolicy(s string) (FreshnessPolicy, error) {
	p := FreshnessPolicy(strings.ToLower(strings.TrimSpace(s)))
	if !p.IsValid() {
		return "", fmt.Errorf("%w: %s", ErrUnknownFreshnessPolicy, s)
	}
	return p, nil
}
