// Command seed populates the reference data: the 14 Senegal regions, the
// default alert templates, and, on request, demo citizen accounts. Re-running
// is safe; existing rows are left untouched.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"github.com/karangue/heatwave-alert-service/internal/config"
	"github.com/karangue/heatwave-alert-service/internal/domain"
	"github.com/karangue/heatwave-alert-service/internal/observability"
	"github.com/karangue/heatwave-alert-service/internal/storage"
)

var demoUsers = []domain.User{
	{Username: "fatou.ndiaye", Email: "fatou.ndiaye@example.sn", FullName: "Fatou Ndiaye",
		Region: "Dakar", Situation: domain.SituationElderly, Role: "citizen",
		EmailNotifications: true, SMSNotifications: true},
	{Username: "awa.diop", Email: "awa.diop@example.sn", FullName: "Awa Diop",
		Region: "Matam", Situation: domain.SituationPregnant, Role: "citizen",
		EmailNotifications: true},
	{Username: "moussa.ba", Email: "moussa.ba@example.sn", FullName: "Moussa Ba",
		Region: "Kaolack", Situation: domain.SituationAtRisk, Role: "citizen",
		EmailNotifications: true, SMSNotifications: true},
	{Username: "aminata.sall", Email: "aminata.sall@example.sn", FullName: "Aminata Sall",
		Region: "Tambacounda", Situation: domain.SituationChild, Role: "citizen",
		EmailNotifications: true},
	{Username: "ousmane.fall", Email: "ousmane.fall@example.sn", FullName: "Ousmane Fall",
		Region: "Saint-Louis", Situation: domain.SituationNone, Role: "citizen",
		EmailNotifications: true},
	{Username: "admin", Email: "admin@example.sn", FullName: "Administrateur",
		Region: "Dakar", Situation: domain.SituationNone, Role: "admin"},
}

func main() {
	withDemoUsers := flag.Bool("demo-users", false, "also create demo citizen accounts")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	ctx := context.Background()

	pool, err := storage.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := storage.RunMigrations(ctx, pool); err != nil {
		logger.Error("migrations failed", "error", err)
		os.Exit(1)
	}

	store := storage.NewStore(pool)

	regions, err := store.SeedRegions(ctx, storage.SenegalRegions)
	if err != nil {
		logger.Error("seed regions failed", "error", err)
		os.Exit(1)
	}
	logger.Info("regions seeded", "created", regions, "total", len(storage.SenegalRegions))

	templates, err := store.SeedTemplates(ctx, storage.DefaultTemplates)
	if err != nil {
		logger.Error("seed templates failed", "error", err)
		os.Exit(1)
	}
	logger.Info("templates seeded", "created", templates, "total", len(storage.DefaultTemplates))

	if *withDemoUsers {
		users, err := store.SeedUsers(ctx, demoUsers)
		if err != nil {
			logger.Error("seed users failed", "error", err)
			os.Exit(1)
		}
		logger.Info("demo users seeded", "created", users, "total", len(demoUsers))
	}
}
