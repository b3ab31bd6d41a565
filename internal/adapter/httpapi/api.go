package httpapi

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/karangue/heatwave-alert-service/internal/domain"
	"github.com/karangue/heatwave-alert-service/internal/storage"
)

// ReadStore is the slice of the store the projection API consumes.
type ReadStore interface {
	ListActiveRegions(ctx context.Context) ([]domain.Region, error)
	GetRegion(ctx context.Context, id int64) (domain.Region, error)
	LatestReadings(ctx context.Context) ([]domain.Reading, error)
	ListReadingsSince(ctx context.Context, regionID int64, since time.Time) ([]domain.Reading, error)
	ListActiveAlerts(ctx context.Context, now time.Time) ([]storage.AlertWithRegion, error)
}

// SnapshotReader serves the latest reading per region from the cache.
type SnapshotReader interface {
	GetLatest(ctx context.Context, regionID int64) (domain.Reading, bool, error)
	GetLatestMany(ctx context.Context, regionIDs []int64) (map[int64]domain.Reading, error)
}

// API serves read-only projections of the weather and alert state. Cache
// lookups always fall back to the store, so a cold or absent cache only
// costs latency.
type API struct {
	store   ReadStore
	cache   SnapshotReader // nil disables cache lookups
	history time.Duration
	clock   clockwork.Clock
	logger  *slog.Logger
}

func NewAPI(store ReadStore, cache SnapshotReader, history time.Duration, clock clockwork.Clock, logger *slog.Logger) *API {
	return &API{
		store:   store,
		cache:   cache,
		history: history,
		clock:   clock,
		logger:  logger,
	}
}

func (a *API) mount(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/regions", a.handleRegions)
	mux.HandleFunc("GET /api/regions/{id}/history", a.handleHistory)
	mux.HandleFunc("GET /api/weather/current", a.handleCurrentAll)
	mux.HandleFunc("GET /api/weather/current/{id}", a.handleCurrentOne)
	mux.HandleFunc("GET /api/alerts/active", a.handleActiveAlerts)
}

// regionWeather is one entry of the current-weather projection. Reading is
// omitted for regions not yet observed.
type regionWeather struct {
	Region  domain.Region   `json:"region"`
	Reading *domain.Reading `json:"reading,omitempty"`
	Advice  []string        `json:"advice,omitempty"`
}

func (a *API) handleRegions(w http.ResponseWriter, r *http.Request) {
	regions, err := a.store.ListActiveRegions(r.Context())
	if err != nil {
		a.logger.Error("list regions failed", "error", err)
		writeError(w, http.StatusInternalServerError, "store unavailable")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"regions": regions, "count": len(regions)})
}

func (a *API) handleCurrentAll(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	regions, err := a.store.ListActiveRegions(ctx)
	if err != nil {
		a.logger.Error("list regions failed", "error", err)
		writeError(w, http.StatusInternalServerError, "store unavailable")
		return
	}

	latest := a.latestByRegion(ctx, regions)

	out := make([]regionWeather, 0, len(regions))
	for _, region := range regions {
		entry := regionWeather{Region: region}
		if reading, ok := latest[region.ID]; ok {
			entry.Reading = &reading
			entry.Advice = domain.HealthAdvice(reading)
		}
		out = append(out, entry)
	}
	writeJSON(w, http.StatusOK, map[string]any{"weather": out, "count": len(out)})
}

func (a *API) handleCurrentOne(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	regionID, ok := pathID(w, r)
	if !ok {
		return
	}

	region, err := a.store.GetRegion(ctx, regionID)
	if errors.Is(err, storage.ErrRegionNotFound) {
		writeError(w, http.StatusNotFound, "region not found")
		return
	}
	if err != nil {
		a.logger.Error("get region failed", "region_id", regionID, "error", err)
		writeError(w, http.StatusInternalServerError, "store unavailable")
		return
	}

	entry := regionWeather{Region: region}
	if reading, ok := a.latestForRegion(ctx, regionID); ok {
		entry.Reading = &reading
		entry.Advice = domain.HealthAdvice(reading)
	}
	writeJSON(w, http.StatusOK, entry)
}

func (a *API) handleHistory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	regionID, ok := pathID(w, r)
	if !ok {
		return
	}

	if _, err := a.store.GetRegion(ctx, regionID); err != nil {
		if errors.Is(err, storage.ErrRegionNotFound) {
			writeError(w, http.StatusNotFound, "region not found")
			return
		}
		a.logger.Error("get region failed", "region_id", regionID, "error", err)
		writeError(w, http.StatusInternalServerError, "store unavailable")
		return
	}

	since := a.clock.Now().UTC().Add(-a.history)
	readings, err := a.store.ListReadingsSince(ctx, regionID, since)
	if err != nil {
		a.logger.Error("list readings failed", "region_id", regionID, "error", err)
		writeError(w, http.StatusInternalServerError, "store unavailable")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"region_id": regionID,
		"since":     since,
		"readings":  readings,
		"count":     len(readings),
	})
}

func (a *API) handleActiveAlerts(w http.ResponseWriter, r *http.Request) {
	alerts, err := a.store.ListActiveAlerts(r.Context(), a.clock.Now().UTC())
	if err != nil {
		a.logger.Error("list active alerts failed", "error", err)
		writeError(w, http.StatusInternalServerError, "store unavailable")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"alerts": alerts, "count": len(alerts)})
}

// latestByRegion resolves the newest reading per region, cache first with a
// store fallback.
func (a *API) latestByRegion(ctx context.Context, regions []domain.Region) map[int64]domain.Reading {
	if a.cache != nil {
		ids := make([]int64, len(regions))
		for i, region := range regions {
			ids[i] = region.ID
		}
		latest, err := a.cache.GetLatestMany(ctx, ids)
		if err == nil && len(latest) == len(regions) {
			return latest
		}
		if err != nil {
			a.logger.Warn("snapshot cache read failed, falling back to store", "error", err)
		}
	}

	readings, err := a.store.LatestReadings(ctx)
	if err != nil {
		a.logger.Error("latest readings fallback failed", "error", err)
		return nil
	}
	latest := make(map[int64]domain.Reading, len(readings))
	for _, reading := range readings {
		latest[reading.RegionID] = reading
	}
	return latest
}

func (a *API) latestForRegion(ctx context.Context, regionID int64) (domain.Reading, bool) {
	if a.cache != nil {
		reading, ok, err := a.cache.GetLatest(ctx, regionID)
		if err != nil {
			a.logger.Warn("snapshot cache read failed, falling back to store",
				"region_id", regionID, "error", err)
		} else if ok {
			return reading, true
		}
	}

	readings, err := a.store.LatestReadings(ctx)
	if err != nil {
		a.logger.Error("latest readings fallback failed", "region_id", regionID, "error", err)
		return domain.Reading{}, false
	}
	for _, reading := range readings {
		if reading.RegionID == regionID {
			return reading, true
		}
	}
	return domain.Reading{}, false
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid region id")
		return 0, false
	}
	return id, true
}
