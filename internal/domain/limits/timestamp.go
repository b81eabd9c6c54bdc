package limits

// millisecondThreshold separates second epochs from millisecond epochs
const millisecondThreshold int64 = 1_000_000_000_000

// NormalizeTimestamp converts a raw epoch value to unix seconds.
// Values above 10^12 are milliseconds.
func NormalizeTimestamp(raw int64) int64 {
	if raw > millisecondThreshold {
		return raw / 1000
	}
	return raw
}
