package widgets

import (
	"math"
	"strings"
)

// Bar draws v (0..1) as a fixed-width block bar. Any non-zero share gets at
// least one cell.
func Bar(v float64, width int) string {
	if width <= 0 {
		return ""
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		v = 0
	}
	v = clamp01(v)

	fill := int(math.Round(v * float64(width)))
	if v > 0 && fill == 0 {
		fill = 1
	}
	if fill > width {
		fill = width
	}

	return strings.Repeat("█", fill) + strings.Repeat("░", width-fill)
}

// Share returns part/whole, or 0 when whole is zero.
func Share(part, whole int64) float64 {
	if whole <= 0 {
		return 0
	}
	return clamp01(float64(part) / float64(whole))
}

func clamp01(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
