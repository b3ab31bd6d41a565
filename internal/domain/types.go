package domain

import "time"

// AlertLevel is the ordered severity of a regional heat alert.
type AlertLevel string

const (
	LevelNone     AlertLevel = ""
	LevelHigh     AlertLevel = "high"
	LevelVeryHigh AlertLevel = "very_high"
	LevelExtreme  AlertLevel = "extreme"
)

// Rank orders levels for comparison: none < high < very_high < extreme.
func (l AlertLevel) Rank() int {
	switch l {
	case LevelHigh:
		return 1
	case LevelVeryHigh:
		return 2
	case LevelExtreme:
		return 3
	default:
		return 0
	}
}

// Situation is a citizen's registered health-risk category.
type Situation string

const (
	SituationElderly  Situation = "personne_agee"
	SituationPregnant Situation = "femme_enceinte"
	SituationAtRisk   Situation = "personne_risque"
	SituationChild    Situation = "enfant"
	SituationNone     Situation = "aucune"
)

// Priority of a personalized alert delivery.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// AlertTypeHeatWave is the alert type produced by the fan-out step. Other
// types (health_risk, weather_warning, emergency) are authored by admins
// outside this pipeline.
const AlertTypeHeatWave = "heat_wave"

// Region is an administrative area with fixed coordinates, the unit of
// weather monitoring. Reference data: immutable except for deactivation.
type Region struct {
	ID         int64   `json:"id"`
	Name       string  `json:"name"`
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
	Population int64   `json:"population"`
	IsActive   bool    `json:"is_active"`
}

// Reading is one timestamped weather observation for a region. Append-only.
type Reading struct {
	ID          int64     `json:"id"`
	RegionID    int64     `json:"region_id"`
	Temperature float64   `json:"temperature"`
	Humidity    float64   `json:"humidity"`
	WeatherCode int       `json:"weather_code"`
	FeelsLike   *float64  `json:"feels_like,omitempty"`
	WindSpeed   *float64  `json:"wind_speed,omitempty"`
	UVIndex     *float64  `json:"uv_index,omitempty"`
	RecordedAt  time.Time `json:"recorded_at"`
}

// RegionalAlert is a deduplicated, level-tagged, time-bounded alert for a
// region. At most one active row exists per (region, level).
type RegionalAlert struct {
	ID                   int64      `json:"id"`
	RegionID             int64      `json:"region_id"`
	Level                AlertLevel `json:"alert_level"`
	TemperatureThreshold float64    `json:"temperature_threshold"`
	Message              string     `json:"message"`
	IsActive             bool       `json:"is_active"`
	CreatedAt            time.Time  `json:"created_at"`
	ExpiresAt            time.Time  `json:"expires_at"`
}

// NewRegionalAlert builds the alert a threshold crossing should create.
// ExpiresAt is a fixed TTL from now.
func NewRegionalAlert(region Region, level AlertLevel, temperature float64, ttl time.Duration) RegionalAlert {
	now := clock.Now().UTC()
	return RegionalAlert{
		RegionID:             region.ID,
		Level:                level,
		TemperatureThreshold: temperature,
		Message:              AlertMessage(level, region.Name, temperature),
		IsActive:             true,
		CreatedAt:            now,
		ExpiresAt:            now.Add(ttl),
	}
}

// AlertTemplate is a per-situation message template at a temperature threshold.
type AlertTemplate struct {
	ID                   int64     `json:"id"`
	Name                 string    `json:"name"`
	Situation            Situation `json:"situation"`
	TemperatureThreshold float64   `json:"temperature_threshold"`
	MessageTemplate      string    `json:"message_template"`
	Recommendations      string    `json:"recommendations"`
	IsActive             bool      `json:"is_active"`
}

// PersonalizedAlert is a per-user notification derived from a RegionalAlert
// and a matched template. Exactly one exists per (regional alert, user).
type PersonalizedAlert struct {
	ID              string    `json:"id"`
	UserID          int64     `json:"user_id"`
	RegionalAlertID int64     `json:"regional_alert_id"`
	RegionID        int64     `json:"region_id"`
	AlertType       string    `json:"alert_type"`
	Title           string    `json:"title"`
	Message         string    `json:"message"`
	MessageWolof    string    `json:"message_wolof,omitempty"`
	MessagePoular   string    `json:"message_poular,omitempty"`
	Priority        Priority  `json:"priority"`
	IsRead          bool      `json:"is_read"`
	IsSent          bool      `json:"is_sent"`
	CreatedAt       time.Time `json:"created_at"`
}

// NewPersonalizedAlert materializes one fan-out record for a user from a
// newly created regional alert and an already-rendered message.
func NewPersonalizedAlert(alert RegionalAlert, region Region, user User, message string) PersonalizedAlert {
	return PersonalizedAlert{
		UserID:          user.ID,
		RegionalAlertID: alert.ID,
		RegionID:        region.ID,
		AlertType:       AlertTypeHeatWave,
		Title:           "Alerte canicule - " + region.Name,
		Message:         message,
		Priority:        PriorityForLevel(alert.Level),
		CreatedAt:       clock.Now().UTC(),
	}
}

// User is the slice of the citizen directory the pipeline consumes. Read-only
// here; account management lives elsewhere. Role is resolved once at
// authentication time instead of duck-typing admin flags.
type User struct {
	ID                 int64     `json:"id"`
	Username           string    `json:"username"`
	Email              string    `json:"email"`
	FullName           string    `json:"full_name"`
	Region             string    `json:"region"`
	Situation          Situation `json:"situation"`
	Role               string    `json:"role"`
	EmailNotifications bool      `json:"email_notifications"`
	SMSNotifications   bool      `json:"sms_notifications"`
}

// DisplayName is the name used when rendering personalized messages.
func (u User) DisplayName() string {
	if u.FullName != "" {
		return u.FullName
	}
	return u.Username
}
