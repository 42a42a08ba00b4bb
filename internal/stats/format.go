package stats

import "fmt"

const (
	// Decimal bit-rate multipliers (1000-based).
	kilo = 1000
	mega = kilo * 1000
	giga = mega * 1000
)

// FormatBitRate formats a bytes-per-second rate as bits per second using
// decimal units (b/s, kb/s, Mb/s, Gb/s).
func FormatBitRate(bytesPerSec uint64) string {
	bits := bytesPerSec * 8
	switch {
	case bits >= giga:
		return fmt.Sprintf("%.1f Gb/s", float64(bits)/giga)
	case bits >= mega:
		return fmt.Sprintf("%.1f Mb/s", float64(bits)/mega)
	case bits >= kilo:
		return fmt.Sprintf("%.1f kb/s", float64(bits)/kilo)
	default:
		return fmt.Sprintf("%d b/s", bits)
	}
}
