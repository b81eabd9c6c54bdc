package utils

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrInvalidGP indicates a gp amount that could not be parsed
var ErrInvalidGP = errors.New("invalid gp amount")

var gpSuffixes = []struct {
	suffix     string
	multiplier float64
}{
	{"b", 1_000_000_000},
	{"m", 1_000_000},
	{"k", 1_000},
}

// ParseGP parses amounts such as "900k", "1.5m", "2b", "1,000,000" or "250gp".
// Commas and underscores are ignored. Negative amounts are rejected.
func ParseGP(text string) (int64, error) {
	s := strings.ToLower(strings.TrimSpace(text))
	s = strings.NewReplacer(",", "", "_", "").Replace(s)
	s = strings.TrimSpace(strings.TrimSuffix(s, "gp"))

	multiplier := 1.0
	for _, sf := range gpSuffixes {
		if strings.HasSuffix(s, sf.suffix) {
			multiplier = sf.multiplier
			s = strings.TrimSuffix(s, sf.suffix)
			break
		}
	}

	value, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidGP, text)
	}
	gp := int64(value * multiplier)
	if gp < 0 {
		return 0, fmt.Errorf("%w: %q must be non-negative", ErrInvalidGP, text)
	}
	return gp, nil
}

// FormatGP renders an amount, abbreviating to b/m/k when abbreviate is set
func FormatGP(value int64, abbreviate bool) string {
	if !abbreviate {
		return strconv.FormatInt(value, 10)
	}
	abs := value
	if abs < 0 {
		abs = -abs
	}
	switch {
	case abs >= 1_000_000_000:
		return fmt.Sprintf("%.2fb", float64(value)/1_000_000_000)
	case abs >= 1_000_000:
		return fmt.Sprintf("%.2fm", float64(value)/1_000_000)
	case abs >= 1_000:
		return fmt.Sprintf("%.1fk", float64(value)/1_000)
	default:
		return strconv.FormatInt(value, 10)
	}
}

// FormatGPGrouped renders an amount with thousands separators, e.g. 1,234,567
func FormatGPGrouped(value int64) string {
	s := strconv.FormatInt(value, 10)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}

// ParseGuidePrice parses the guide price strings published by the official
// item database, e.g. "1,234", "12.3k", "2.1m". "unknown" and "n/a" yield nil.
func ParseGuidePrice(raw any) *int64 {
	switch v := raw.(type) {
	case nil:
		return nil
	case float64:
		n := int64(v)
		return &n
	case int64:
		return &v
	case int:
		n := int64(v)
		return &n
	case string:
		s := strings.ToLower(strings.TrimSpace(v))
		if s == "" || s == "unknown" || s == "n/a" {
			return nil
		}
		n, err := ParseGP(s)
		if err != nil {
			return nil
		}
		return &n
	default:
		return nil
	}
}
