package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"

	"plate-service/internal/auth"
	"plate-service/internal/config"
	"plate-service/internal/db"
	httphandler "plate-service/internal/http"
	"plate-service/internal/http/middleware"
	"plate-service/internal/logger"
	"plate-service/internal/metrics"
	"plate-service/internal/repository"
	"plate-service/internal/service"
	"plate-service/internal/sidecode"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	appLogger := logger.New(cfg.Environment)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	appMetrics := metrics.New(registry)

	plateService, err := newPlateService(cfg, appLogger, appMetrics)
	if err != nil {
		appLogger.Fatal().Err(err).Msg("failed to initialise plate service")
	}

	tokenParser := auth.NewParser(cfg.Auth.AccessSecret)

	handler := httphandler.NewHandler(plateService, appLogger)
	authMiddleware := middleware.Auth(tokenParser)
	router := httphandler.NewRouter(handler, authMiddleware, cfg.Environment, registry)

	addr := fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
	appLogger.Info().
		Str("addr", addr).
		Strs("countries", plateService.Countries()).
		Msg("starting plate service")

	if err := router.Run(addr); err != nil {
		appLogger.Error().Err(err).Msg("failed to start server")
		os.Exit(1)
	}
}

// newPlateService picks the registry source: the database when configured,
// otherwise SIDECODES_FILE, otherwise the built-in Dutch sidecodes.
func newPlateService(cfg *config.Config, log zerolog.Logger, m *metrics.Metrics) (*service.PlateService, error) {
	if cfg.DB.DSN == "" {
		validator, err := fileOrDefaultValidator(cfg)
		if err != nil {
			return nil, err
		}
		return service.NewPlateService(validator, nil, nil, m, log), nil
	}

	database, err := db.New(cfg, log)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	sideCodeRepo := repository.NewSideCodeRepository(database)
	checkRepo := repository.NewPlateCheckRepository(database)

	seed := sidecode.DefaultRegistry()
	if cfg.SideCodes.File != "" {
		seed, err = config.LoadSideCodes(cfg.SideCodes.File)
		if err != nil {
			return nil, err
		}
	}
	seeded, err := seedRegistry(ctx, sideCodeRepo, seed)
	if err != nil {
		return nil, err
	}
	if seeded {
		log.Info().Int("countries", len(seed)).Msg("sidecode registry seeded")
	}

	plateService := service.NewPlateService(sidecode.New(), sideCodeRepo, checkRepo, m, log)
	if err := plateService.Reload(ctx); err != nil {
		return nil, err
	}
	return plateService, nil
}

type registrySeeder interface {
	SeedIfEmpty(ctx context.Context, registry map[string][]string) (bool, error)
}

// seedRegistry builds a validator from seed before anything is written, so a
// registry the validator would reject never reaches an empty store.
func seedRegistry(ctx context.Context, seeder registrySeeder, seed map[string][]string) (bool, error) {
	if _, err := sidecode.NewWithRegistry(seed); err != nil {
		return false, fmt.Errorf("invalid sidecode seed: %w", err)
	}
	seeded, err := seeder.SeedIfEmpty(ctx, seed)
	if err != nil {
		return false, fmt.Errorf("seed sidecodes: %w", err)
	}
	return seeded, nil
}

func fileOrDefaultValidator(cfg *config.Config) (*sidecode.Validator, error) {
	if cfg.SideCodes.File == "" {
		return sidecode.New(), nil
	}
	registry, err := config.LoadSideCodes(cfg.SideCodes.File)
	if err != nil {
		return nil, err
	}
	return sidecode.NewWithRegistry(registry)
}
