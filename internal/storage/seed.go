package storage

import (
	"context"
	"fmt"

	"github.com/karangue/heatwave-alert-service/internal/domain"
)

// SenegalRegions is the reference data for the 14 administrative regions.
var SenegalRegions = []domain.Region{
	{Name: "Dakar", Latitude: 14.7167, Longitude: -17.4677, Population: 3732284, IsActive: true},
	{Name: "Diourbel", Latitude: 14.6600, Longitude: -16.2300, Population: 1497455, IsActive: true},
	{Name: "Fatick", Latitude: 14.3392, Longitude: -16.4113, Population: 714392, IsActive: true},
	{Name: "Kaffrine", Latitude: 14.1050, Longitude: -15.5500, Population: 566992, IsActive: true},
	{Name: "Kaolack", Latitude: 14.1825, Longitude: -16.2533, Population: 960875, IsActive: true},
	{Name: "Kédougou", Latitude: 12.5500, Longitude: -12.1833, Population: 151715, IsActive: true},
	{Name: "Kolda", Latitude: 12.8833, Longitude: -14.9500, Population: 714392, IsActive: true},
	{Name: "Louga", Latitude: 15.6167, Longitude: -16.2167, Population: 874193, IsActive: true},
	{Name: "Matam", Latitude: 15.6600, Longitude: -13.2500, Population: 562539, IsActive: true},
	{Name: "Saint-Louis", Latitude: 16.0179, Longitude: -16.4896, Population: 908942, IsActive: true},
	{Name: "Sédhiou", Latitude: 12.7081, Longitude: -15.5569, Population: 452994, IsActive: true},
	{Name: "Tambacounda", Latitude: 13.7700, Longitude: -13.6670, Population: 681310, IsActive: true},
	{Name: "Thiès", Latitude: 14.7908, Longitude: -16.9250, Population: 1788864, IsActive: true},
	{Name: "Ziguinchor", Latitude: 12.5833, Longitude: -16.2667, Population: 549151, IsActive: true},
}

// DefaultTemplates covers every situation at the high and very-high bands.
var DefaultTemplates = []domain.AlertTemplate{
	{Name: "elderly-30", Situation: domain.SituationElderly, TemperatureThreshold: 30,
		MessageTemplate: "{name}, il fait {temperature}°C à {region}. Restez à l'ombre et buvez de l'eau régulièrement.",
		Recommendations: "Éviter les sorties entre 12h et 16h.", IsActive: true},
	{Name: "elderly-35", Situation: domain.SituationElderly, TemperatureThreshold: 35,
		MessageTemplate: "{name}, forte chaleur ({temperature}°C) à {region}. Restez à l'intérieur et contactez un proche en cas de malaise.",
		Recommendations: "Mouiller la peau plusieurs fois par jour.", IsActive: true},
	{Name: "pregnant-30", Situation: domain.SituationPregnant, TemperatureThreshold: 30,
		MessageTemplate: "{name}, il fait {temperature}°C à {region}. Reposez-vous et hydratez-vous fréquemment.",
		Recommendations: "Consulter en cas de vertiges.", IsActive: true},
	{Name: "pregnant-35", Situation: domain.SituationPregnant, TemperatureThreshold: 35,
		MessageTemplate: "{name}, chaleur dangereuse ({temperature}°C) à {region}. Évitez tout effort et restez au frais.",
		Recommendations: "Consulter rapidement en cas de contractions.", IsActive: true},
	{Name: "at-risk-30", Situation: domain.SituationAtRisk, TemperatureThreshold: 30,
		MessageTemplate: "{name}, il fait {temperature}°C à {region}. Surveillez vos symptômes et buvez de l'eau.",
		Recommendations: "Garder ses médicaments au frais.", IsActive: true},
	{Name: "child-30", Situation: domain.SituationChild, TemperatureThreshold: 30,
		MessageTemplate: "Il fait {temperature}°C à {region}. Gardez les enfants à l'ombre et faites-les boire souvent.",
		Recommendations: "Jamais d'enfant seul dans un véhicule.", IsActive: true},
	{Name: "general-35", Situation: domain.SituationNone, TemperatureThreshold: 35,
		MessageTemplate: "{name}, forte chaleur ({temperature}°C) à {region}. Limitez les activités en extérieur.",
		Recommendations: "Boire au moins 1,5L d'eau par jour.", IsActive: true},
}

// SeedRegions inserts the reference regions, leaving existing rows untouched.
func (s *Store) SeedRegions(ctx context.Context, regions []domain.Region) (int64, error) {
	var created int64
	for _, r := range regions {
		cmd, err := s.pool.Exec(ctx, `
            INSERT INTO regions (name, latitude, longitude, population, is_active)
            VALUES ($1, $2, $3, $4, $5)
            ON CONFLICT (name) DO NOTHING
        `, r.Name, r.Latitude, r.Longitude, r.Population, r.IsActive)
		if err != nil {
			return created, fmt.Errorf("seed region %s: %w", r.Name, err)
		}
		created += cmd.RowsAffected()
	}
	return created, nil
}

// SeedTemplates inserts the default message templates.
func (s *Store) SeedTemplates(ctx context.Context, templates []domain.AlertTemplate) (int64, error) {
	var created int64
	for _, t := range templates {
		cmd, err := s.pool.Exec(ctx, `
            INSERT INTO alert_templates
                (name, situation, temperature_threshold, message_template, recommendations, is_active)
            VALUES ($1, $2, $3, $4, $5, $6)
            ON CONFLICT (name) DO NOTHING
        `, t.Name, t.Situation, t.TemperatureThreshold, t.MessageTemplate, t.Recommendations, t.IsActive)
		if err != nil {
			return created, fmt.Errorf("seed template %s: %w", t.Name, err)
		}
		created += cmd.RowsAffected()
	}
	return created, nil
}

// SeedUsers inserts demo citizen accounts, keyed by email.
func (s *Store) SeedUsers(ctx context.Context, users []domain.User) (int64, error) {
	var created int64
	for _, u := range users {
		cmd, err := s.pool.Exec(ctx, `
            INSERT INTO users
                (username, email, full_name, region, situation, role, email_notifications, sms_notifications)
            VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
            ON CONFLICT (email) DO NOTHING
        `, u.Username, u.Email, u.FullName, u.Region, u.Situation, u.Role,
			u.EmailNotifications, u.SMSNotifications)
		if err != nil {
			return created, fmt.Errorf("seed user %s: %w", u.Email, err)
		}
		created += cmd.RowsAffected()
	}
	return created, nil
}
