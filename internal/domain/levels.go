package domain

import (
	"fmt"
	"strconv"
)

// LevelForTemperature maps a temperature to an alert level by evaluating the
// bands from the highest cut point down. At or below 30°C no alert is due.
func LevelForTemperature(temp float64) AlertLevel {
	switch {
	case temp > 40:
		return LevelExtreme
	case temp > 35:
		return LevelVeryHigh
	case temp > 30:
		return LevelHigh
	default:
		return LevelNone
	}
}

// AlertMessage is the human-readable regional alert text, in French as
// published to citizens.
func AlertMessage(level AlertLevel, regionName string, temp float64) string {
	t := FormatTemperature(temp)
	switch level {
	case LevelExtreme:
		return fmt.Sprintf("Alerte extrême pour %s: %s°C", regionName, t)
	case LevelVeryHigh:
		return fmt.Sprintf("Alerte très élevée pour %s: %s°C", regionName, t)
	case LevelHigh:
		return fmt.Sprintf("Alerte élevée pour %s: %s°C", regionName, t)
	default:
		return ""
	}
}

// PriorityForLevel maps an alert level to a delivery priority.
func PriorityForLevel(level AlertLevel) Priority {
	switch level {
	case LevelExtreme:
		return PriorityUrgent
	case LevelVeryHigh:
		return PriorityHigh
	default:
		return PriorityMedium
	}
}

// FormatTemperature renders a temperature without trailing zeros: 41 → "41",
// 38.5 → "38.5".
func FormatTemperature(temp float64) string {
	return strconv.FormatFloat(temp, 'f', -1, 64)
}
