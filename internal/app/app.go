// Package app assembles stores, services and sinks from configuration. It is
// shared by the HTTP server and the admin CLI.
package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/hivetool/internal/config"
	"github.com/mamadbah2/hivetool/internal/domain/models"
	"github.com/mamadbah2/hivetool/internal/metrics"
	"github.com/mamadbah2/hivetool/internal/repository"
	"github.com/mamadbah2/hivetool/internal/repository/memory"
	"github.com/mamadbah2/hivetool/internal/repository/mongodb"
	"github.com/mamadbah2/hivetool/internal/repository/sheets"
	"github.com/mamadbah2/hivetool/internal/server/handlers"
	"github.com/mamadbah2/hivetool/internal/service/auth"
	"github.com/mamadbah2/hivetool/internal/service/records"
	"github.com/mamadbah2/hivetool/internal/service/reporting"
	"github.com/mamadbah2/hivetool/internal/session"
	whatsappclient "github.com/mamadbah2/hivetool/pkg/clients/whatsapp"
)

// Records holds the service of every record kind.
type Records struct {
	Hives       *records.Service[models.Hive, *models.Hive]
	Feeds       *records.Service[models.Feed, *models.Feed]
	Harvests    *records.Service[models.Harvest, *models.Harvest]
	Inspections *records.Service[models.Inspection, *models.Inspection]
	Inventory   *records.Service[models.Inventory, *models.Inventory]
	Swarms      *records.Service[models.Swarm, *models.Swarm]
	Treatments  *records.Service[models.Treatment, *models.Treatment]
}

// App is the assembled application graph.
type App struct {
	Config    *config.Config
	Store     *mongodb.Store
	Users     repository.Users
	Sessions  repository.Sessions
	Auth      *auth.Service
	Records   Records
	Reporting *reporting.Service
	Metrics   *metrics.Metrics

	logger *zap.Logger
}

// New connects the configured store and wires every service. An empty
// MONGODB_URI selects the in-memory store.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	a := &App{Config: cfg, Metrics: metrics.New(), logger: logger}

	if cfg.MongoDB.URI == "" {
		logger.Warn("MONGODB_URI not set, using the in-memory store")
		a.Users = memory.NewUsers()
		a.Sessions = memory.NewSessions()
	} else {
		connectCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
		defer cancel()

		store, err := mongodb.Connect(connectCtx, cfg.MongoDB.URI, cfg.MongoDB.DBName, logger.Named("repo.mongo"))
		if err != nil {
			return nil, err
		}
		if err := store.EnsureIndexes(connectCtx); err != nil {
			_ = store.Close(context.Background())
			return nil, err
		}
		a.Store = store
		a.Users = mongodb.NewUserRepository(store)
		a.Sessions = mongodb.NewSessionRepository(store)
	}

	a.Auth = auth.NewService(a.Users, logger.Named("svc.auth"))
	a.Records = Records{
		Hives:       newRecords[models.Hive](a, models.KindHive),
		Feeds:       newRecords[models.Feed](a, models.KindFeed),
		Harvests:    newRecords[models.Harvest](a, models.KindHarvest),
		Inspections: newRecords[models.Inspection](a, models.KindInspection),
		Inventory:   newRecords[models.Inventory](a, models.KindInventory),
		Swarms:      newRecords[models.Swarm](a, models.KindSwarm),
		Treatments:  newRecords[models.Treatment](a, models.KindTreatment),
	}

	reportingSvc, err := a.newReporting(ctx)
	if err != nil {
		a.Close(context.Background())
		return nil, err
	}
	a.Reporting = reportingSvc
	return a, nil
}

func newRecords[T any, PT models.Record[T]](a *App, k models.Kind) *records.Service[T, PT] {
	var repo repository.Records[T, PT]
	if a.Store != nil {
		repo = mongodb.NewRecordRepository[T, PT](a.Store, k)
	} else {
		repo = memory.NewRecords[T, PT](k)
	}
	return records.NewService[T, PT](k, repo, a.Metrics, a.logger.Named("svc.records."+string(k)))
}

func (a *App) newReporting(ctx context.Context) (*reporting.Service, error) {
	loc, err := time.LoadLocation(a.Config.Reporting.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone: %w", err)
	}

	var sheetWriter reporting.RowWriter
	if a.Config.Sheets.Enabled() {
		repo, err := sheets.NewDigestSheet(ctx, a.Config.Sheets, a.logger.Named("repo.sheets"))
		if err != nil {
			return nil, err
		}
		sheetWriter = repo
	}

	var notifier reporting.Notifier
	if a.Config.WhatsApp.Enabled() {
		client := whatsappclient.NewClient(a.Config.WhatsApp)
		notifier = whatsappclient.NewOperatorNotifier(client, a.Config.WhatsApp.OperatorID)
	}

	r := a.Records
	src := reporting.Sources{
		Users:       a.Users,
		Hives:       r.Hives,
		Feeds:       r.Feeds,
		Harvests:    r.Harvests,
		Inspections: r.Inspections,
		Swarms:      r.Swarms,
		Treatments:  r.Treatments,
	}
	return reporting.NewService(src, sheetWriter, notifier, loc, a.logger.Named("svc.reporting")), nil
}

// SessionManager builds the cookie session manager.
func (a *App) SessionManager() *session.Manager {
	s := a.Config.Session
	return session.NewManager(a.Sessions, session.Options{
		Secret:     s.Secret,
		TTL:        s.TTL,
		TouchAfter: s.TouchAfter,
		Secure:     s.CookieSecure,
	}, a.logger.Named("session"))
}

// IdentityProvider returns the Google provider, or nil when federated
// sign-in is not configured.
func (a *App) IdentityProvider() auth.IdentityProvider {
	if !a.Config.Google.Enabled() {
		return nil
	}
	return auth.NewGoogleProvider(a.Config.Google)
}

// Routes returns the handler groups served by the HTTP server.
func (a *App) Routes(provider auth.IdentityProvider) []handlers.Routable {
	r := a.Records
	named := func(k models.Kind) *zap.Logger { return a.logger.Named("handlers." + string(k)) }
	return []handlers.Routable{
		handlers.NewAuthHandler(a.Auth, provider, a.logger.Named("handlers.auth")),
		handlers.NewRecordHandler[models.Hive, *models.Hive, models.HiveUpdate](r.Hives, named(models.KindHive)),
		handlers.NewRecordHandler[models.Feed, *models.Feed, models.FeedUpdate](r.Feeds, named(models.KindFeed)),
		handlers.NewRecordHandler[models.Harvest, *models.Harvest, models.HarvestUpdate](r.Harvests, named(models.KindHarvest)),
		handlers.NewRecordHandler[models.Inspection, *models.Inspection, models.InspectionUpdate](r.Inspections, named(models.KindInspection)),
		handlers.NewRecordHandler[models.Inventory, *models.Inventory, models.InventoryUpdate](r.Inventory, named(models.KindInventory)),
		handlers.NewRecordHandler[models.Swarm, *models.Swarm, models.SwarmUpdate](r.Swarms, named(models.KindSwarm)),
		handlers.NewRecordHandler[models.Treatment, *models.Treatment, models.TreatmentUpdate](r.Treatments, named(models.KindTreatment)),
	}
}

// Pinger returns the store health check, nil for the in-memory store.
func (a *App) Pinger() handlers.Pinger {
	if a.Store == nil {
		return nil
	}
	return a.Store
}

// Close disconnects MongoDB when it is in use.
func (a *App) Close(ctx context.Context) {
	if a.Store == nil {
		return
	}
	if err := a.Store.Close(ctx); err != nil {
		a.logger.Error("failed to close mongodb connection", zap.Error(err))
	}
}
