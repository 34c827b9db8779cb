package monopoly

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Kgreeven-max/monopoly/monopoly/database"
	"github.com/Kgreeven-max/monopoly/monopoly/database/repositories"
	"github.com/Kgreeven-max/monopoly/monopoly/economy/auction"
	"github.com/Kgreeven-max/monopoly/monopoly/economy/ledger"
	"github.com/Kgreeven-max/monopoly/monopoly/logger"
	"github.com/Kgreeven-max/monopoly/monopoly/server"
)

func New(cfg Config, version string, commit string) *App {
	return &App{
		Cfg:     cfg,
		Version: version,
		Commit:  commit,
	}
}

type App struct {
	Cfg     Config
	Version string
	Commit  string

	DB     *database.DB
	Ledger *ledger.PostgresLedger

	PlayerRepository     repositories.PlayerRepository
	PropertyRepository   repositories.PropertyRepository
	SettlementRepository repositories.SettlementRepository

	AuctionRegistry *auction.Registry
	AuctionManager  *auction.Manager
	Hub             *server.Hub
	Server          *server.Server
}

// Setup connects the database and wires every service. The auction registry
// is owned here and injected into the manager, so embedding callers and test
// harnesses can run isolated registries.
func (a *App) Setup(ctx context.Context) error {
	db, err := database.New(ctx, database.DBConfig{
		Host:     a.Cfg.DB.Host,
		Port:     a.Cfg.DB.Port,
		User:     a.Cfg.DB.User,
		Password: a.Cfg.DB.Password,
		Database: a.Cfg.DB.Database,
		PoolSize: a.Cfg.DB.PoolSize,
	})
	if err != nil {
		return fmt.Errorf("failed to connect database: %w", err)
	}
	a.DB = db

	if err := db.InitializeSchema(ctx); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}

	a.Ledger = ledger.NewPostgresLedger(db.BunDB())
	a.PlayerRepository = repositories.NewPlayerRepository(db.BunDB())
	a.PropertyRepository = repositories.NewPropertyRepository(db.BunDB())
	a.SettlementRepository = repositories.NewSettlementRepository(db.BunDB())

	a.Hub = server.NewHub()
	a.AuctionRegistry = auction.NewRegistry()
	a.AuctionManager = auction.NewManager(
		a.AuctionRegistry,
		a.Ledger,
		auction.NewSettlementEngine(a.Ledger, a.Cfg.Auction.OverbidFundFraction),
		a.Hub,
		auction.SystemClock,
		auction.Options{
			InitialCountdown: a.Cfg.Auction.InitialCountdown(),
			BidCountdown:     a.Cfg.Auction.BidCountdown(),
			RecentCacheSize:  a.Cfg.Auction.RecentCacheSize,
		},
	)

	a.Server = server.New(
		a.AuctionManager,
		a.Hub,
		a.PlayerRepository,
		a.PropertyRepository,
		a.SettlementRepository,
		a.Ledger,
	)

	logger.LogSystem("Monopoly server wired",
		slog.String("version", a.Version),
		slog.String("commit", a.Commit))
	return nil
}

// Shutdown stops timers and disconnects clients. In-flight auctions are
// volatile and lost with the process.
func (a *App) Shutdown() {
	if a.AuctionManager != nil {
		a.AuctionManager.Shutdown()
	}
	if a.Hub != nil {
		a.Hub.Close()
	}
	if a.DB != nil {
		a.DB.Close()
	}
}
