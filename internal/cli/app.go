package cli

import (
	"context"
	"log/slog"
	"time"

	"github.com/brunesovrbrauns/bdc-manager-app/internal/businessday"
	"github.com/brunesovrbrauns/bdc-manager-app/internal/config"
	"github.com/brunesovrbrauns/bdc-manager-app/internal/db"
	"github.com/brunesovrbrauns/bdc-manager-app/internal/repository"
	"github.com/brunesovrbrauns/bdc-manager-app/internal/service"
)

// App is what the commands operate on.
type App struct {
	Storewide service.StorewideService
	Reports   service.ReportService
	Close     func()
}

// Opener builds the App for one command run.
type Opener func(ctx context.Context, logger *slog.Logger) (*App, error)

// OpenPostgres connects with the server's configuration.
func OpenPostgres(ctx context.Context, logger *slog.Logger) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	clock, err := businessday.New(cfg.BusinessTimezone)
	if err != nil {
		return nil, err
	}
	reportZone, err := time.LoadLocation(cfg.ReportTimezone)
	if err != nil {
		return nil, err
	}
	pg, err := db.New(ctx, cfg)
	if err != nil {
		return nil, err
	}
	storewide := service.StorewideService{
		Clock:      clock,
		ReportZone: reportZone,
		Store:      repository.StorewideRepository{DB: pg},
		Totals:     repository.TotalsRepository{DB: pg},
		Logger:     logger,
	}
	return &App{
		Storewide: storewide,
		Reports:   service.ReportService{Storewide: storewide},
		Close:     pg.Close,
	}, nil
}
