package main

import (
	"fmt"
	"math"
	"strings"
)

// truncate shortens s to maxLen runes, marking the cut with "...".
func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}

// formatDegrees renders a screen-space angle in radians as compass-style
// degrees, 0 at the top and growing clockwise.
func formatDegrees(rad float64) string {
	deg := math.Mod((rad+math.Pi/2)*180/math.Pi, 360)
	if deg < 0 {
		deg += 360
	}
	if deg >= 359.95 {
		deg = 0
	}
	return fmt.Sprintf("%.1f°", deg)
}

// splitNames splits a comma-separated bead list.
func splitNames(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return strings.Split(s, ",")
}
