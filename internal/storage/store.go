package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/karangue/heatwave-alert-service/internal/domain"
)

// ErrRegionNotFound reports a region id that no longer exists; that unit of
// work aborts, the rest of the run continues.
var ErrRegionNotFound = errors.New("region not found")

// Store is the persistence layer for regions, readings, alerts, templates,
// and the citizen directory slice the pipeline reads.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// --- region registry ---

func (s *Store) ListActiveRegions(ctx context.Context) ([]domain.Region, error) {
	rows, err := s.pool.Query(ctx, `
        SELECT id, name, latitude, longitude, population, is_active
        FROM regions
        WHERE is_active
        ORDER BY name
    `)
	if err != nil {
		return nil, fmt.Errorf("query regions: %w", err)
	}
	defer rows.Close()

	var regions []domain.Region
	for rows.Next() {
		var r domain.Region
		if err := rows.Scan(&r.ID, &r.Name, &r.Latitude, &r.Longitude, &r.Population, &r.IsActive); err != nil {
			return nil, fmt.Errorf("scan region: %w", err)
		}
		regions = append(regions, r)
	}
	return regions, rows.Err()
}

func (s *Store) GetRegion(ctx context.Context, id int64) (domain.Region, error) {
	var r domain.Region
	err := s.pool.QueryRow(ctx, `
        SELECT id, name, latitude, longitude, population, is_active
        FROM regions
        WHERE id = $1
    `, id).Scan(&r.ID, &r.Name, &r.Latitude, &r.Longitude, &r.Population, &r.IsActive)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Region{}, ErrRegionNotFound
	}
	if err != nil {
		return domain.Region{}, fmt.Errorf("get region %d: %w", id, err)
	}
	return r, nil
}

// --- readings ---

func (s *Store) InsertReading(ctx context.Context, r *domain.Reading) error {
	err := s.pool.QueryRow(ctx, `
        INSERT INTO weather_readings
            (region_id, temperature, humidity, weather_code, feels_like, wind_speed, uv_index, recorded_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        RETURNING id
    `, r.RegionID, r.Temperature, r.Humidity, r.WeatherCode, r.FeelsLike, r.WindSpeed, r.UVIndex, r.RecordedAt).Scan(&r.ID)
	if err != nil {
		return fmt.Errorf("insert reading: %w", err)
	}
	return nil
}

func (s *Store) ListReadingsSince(ctx context.Context, regionID int64, since time.Time) ([]domain.Reading, error) {
	rows, err := s.pool.Query(ctx, `
        SELECT id, region_id, temperature, humidity, weather_code, feels_like, wind_speed, uv_index, recorded_at
        FROM weather_readings
        WHERE region_id = $1 AND recorded_at >= $2
        ORDER BY recorded_at DESC
    `, regionID, since)
	if err != nil {
		return nil, fmt.Errorf("query readings: %w", err)
	}
	defer rows.Close()
	return scanReadings(rows)
}

// LatestReadings returns the most recent reading per region, the fallback
// behind the redis snapshot cache.
func (s *Store) LatestReadings(ctx context.Context) ([]domain.Reading, error) {
	rows, err := s.pool.Query(ctx, `
        SELECT DISTINCT ON (region_id)
            id, region_id, temperature, humidity, weather_code, feels_like, wind_speed, uv_index, recorded_at
        FROM weather_readings
        ORDER BY region_id, recorded_at DESC
    `)
	if err != nil {
		return nil, fmt.Errorf("query latest readings: %w", err)
	}
	defer rows.Close()
	return scanReadings(rows)
}

// DeleteReadingsBefore prunes the append-only reading log. Idempotent.
func (s *Store) DeleteReadingsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	cmd, err := s.pool.Exec(ctx, `DELETE FROM weather_readings WHERE recorded_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("delete old readings: %w", err)
	}
	return cmd.RowsAffected(), nil
}

func scanReadings(rows pgx.Rows) ([]domain.Reading, error) {
	var readings []domain.Reading
	for rows.Next() {
		var r domain.Reading
		if err := rows.Scan(&r.ID, &r.RegionID, &r.Temperature, &r.Humidity, &r.WeatherCode,
			&r.FeelsLike, &r.WindSpeed, &r.UVIndex, &r.RecordedAt); err != nil {
			return nil, fmt.Errorf("scan reading: %w", err)
		}
		readings = append(readings, r)
	}
	return readings, rows.Err()
}

// --- regional alerts ---

// CreateRegionalAlert inserts the alert unless an active one already covers
// this (region, level). The partial unique index resolves concurrent
// crossings; a suppressed duplicate is a no-op, never an error. Reports
// whether a row was created and fills in the stored id.
func (s *Store) CreateRegionalAlert(ctx context.Context, alert *domain.RegionalAlert) (bool, error) {
	err := s.pool.QueryRow(ctx, `
        INSERT INTO regional_alerts
            (region_id, alert_level, temperature_threshold, message, is_active, created_at, expires_at)
        VALUES ($1, $2, $3, $4, TRUE, $5, $6)
        ON CONFLICT (region_id, alert_level) WHERE is_active DO NOTHING
        RETURNING id
    `, alert.RegionID, alert.Level, alert.TemperatureThreshold, alert.Message,
		alert.CreatedAt, alert.ExpiresAt).Scan(&alert.ID)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("create regional alert: %w", err)
	}
	return true, nil
}

// AlertWithRegion pairs an alert with its region name for API projections.
type AlertWithRegion struct {
	domain.RegionalAlert
	RegionName string `json:"region_name"`
}

func (s *Store) ListActiveAlerts(ctx context.Context, now time.Time) ([]AlertWithRegion, error) {
	rows, err := s.pool.Query(ctx, `
        SELECT a.id, a.region_id, a.alert_level, a.temperature_threshold, a.message,
               a.is_active, a.created_at, a.expires_at, r.name
        FROM regional_alerts a
        JOIN regions r ON r.id = a.region_id
        WHERE a.is_active AND a.expires_at > $1
        ORDER BY a.created_at DESC
    `, now)
	if err != nil {
		return nil, fmt.Errorf("query active alerts: %w", err)
	}
	defer rows.Close()

	var alerts []AlertWithRegion
	for rows.Next() {
		var a AlertWithRegion
		if err := rows.Scan(&a.ID, &a.RegionID, &a.Level, &a.TemperatureThreshold, &a.Message,
			&a.IsActive, &a.CreatedAt, &a.ExpiresAt, &a.RegionName); err != nil {
			return nil, fmt.Errorf("scan alert: %w", err)
		}
		alerts = append(alerts, a)
	}
	return alerts, rows.Err()
}

// DeactivateExpiredAlerts flips active alerts whose expiry has passed.
// Idempotent; returns the number of rows flipped.
func (s *Store) DeactivateExpiredAlerts(ctx context.Context, now time.Time) (int64, error) {
	cmd, err := s.pool.Exec(ctx, `
        UPDATE regional_alerts
        SET is_active = FALSE
        WHERE is_active AND expires_at < $1
    `, now)
	if err != nil {
		return 0, fmt.Errorf("deactivate expired alerts: %w", err)
	}
	return cmd.RowsAffected(), nil
}

// --- templates ---

func (s *Store) ListActiveTemplates(ctx context.Context, situation domain.Situation) ([]domain.AlertTemplate, error) {
	rows, err := s.pool.Query(ctx, `
        SELECT id, name, situation, temperature_threshold, message_template, recommendations, is_active
        FROM alert_templates
        WHERE is_active AND situation = $1
        ORDER BY temperature_threshold DESC
    `, situation)
	if err != nil {
		return nil, fmt.Errorf("query templates: %w", err)
	}
	defer rows.Close()

	var templates []domain.AlertTemplate
	for rows.Next() {
		var t domain.AlertTemplate
		if err := rows.Scan(&t.ID, &t.Name, &t.Situation, &t.TemperatureThreshold,
			&t.MessageTemplate, &t.Recommendations, &t.IsActive); err != nil {
			return nil, fmt.Errorf("scan template: %w", err)
		}
		templates = append(templates, t)
	}
	return templates, rows.Err()
}

// --- users ---

// ListOptedInUsers enumerates fan-out targets: exact region-name match and
// email notifications on.
func (s *Store) ListOptedInUsers(ctx context.Context, regionName string) ([]domain.User, error) {
	rows, err := s.pool.Query(ctx, `
        SELECT id, username, email, full_name, region, situation, role, email_notifications, sms_notifications
        FROM users
        WHERE region = $1 AND email_notifications
        ORDER BY id
    `, regionName)
	if err != nil {
		return nil, fmt.Errorf("query opted-in users: %w", err)
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(&u.ID, &u.Username, &u.Email, &u.FullName, &u.Region,
			&u.Situation, &u.Role, &u.EmailNotifications, &u.SMSNotifications); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// --- personalized alerts ---

// InsertPersonalizedAlert materializes one fan-out record. The unique
// constraint on (regional_alert_id, user_id) makes retries idempotent;
// reports whether a row was created.
func (s *Store) InsertPersonalizedAlert(ctx context.Context, a *domain.PersonalizedAlert) (bool, error) {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	cmd, err := s.pool.Exec(ctx, `
        INSERT INTO personalized_alerts
            (id, user_id, regional_alert_id, region_id, alert_type, title, message,
             message_wolof, message_poular, priority, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
        ON CONFLICT (regional_alert_id, user_id) DO NOTHING
    `, a.ID, a.UserID, a.RegionalAlertID, nullableID(a.RegionID), a.AlertType, a.Title,
		a.Message, a.MessageWolof, a.MessagePoular, a.Priority, a.CreatedAt)
	if err != nil {
		return false, fmt.Errorf("insert personalized alert: %w", err)
	}
	return cmd.RowsAffected() > 0, nil
}

func (s *Store) ListPersonalizedAlerts(ctx context.Context, userID int64, limit int) ([]domain.PersonalizedAlert, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	rows, err := s.pool.Query(ctx, `
        SELECT id, user_id, regional_alert_id, COALESCE(region_id, 0), alert_type, title, message,
               message_wolof, message_poular, priority, is_read, is_sent, created_at
        FROM personalized_alerts
        WHERE user_id = $1
        ORDER BY created_at DESC
        LIMIT $2
    `, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("query personalized alerts: %w", err)
	}
	defer rows.Close()

	var alerts []domain.PersonalizedAlert
	for rows.Next() {
		var a domain.PersonalizedAlert
		if err := rows.Scan(&a.ID, &a.UserID, &a.RegionalAlertID, &a.RegionID, &a.AlertType,
			&a.Title, &a.Message, &a.MessageWolof, &a.MessagePoular, &a.Priority,
			&a.IsRead, &a.IsSent, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan personalized alert: %w", err)
		}
		alerts = append(alerts, a)
	}
	return alerts, rows.Err()
}

func nullableID(v int64) any {
	if v == 0 {
		return nil
	}
	return v
}
