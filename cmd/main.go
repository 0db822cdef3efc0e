package main

import (
	"context"

	"github.com/agribid/auction-engine/internal/auction/application"
	"github.com/agribid/auction-engine/internal/auction/domain"
	"github.com/agribid/auction-engine/internal/auction/infra/httpapi"
	"github.com/agribid/auction-engine/internal/auction/infra/repository/memory"
	"github.com/agribid/auction-engine/internal/auction/infra/repository/postgres"
	wsinfra "github.com/agribid/auction-engine/internal/auction/infra/websocket"
	"github.com/agribid/auction-engine/internal/shared/config"
	"github.com/agribid/auction-engine/internal/shared/db"
	"github.com/agribid/auction-engine/internal/shared/db/migrations"
	"github.com/agribid/auction-engine/internal/shared/httpserver"
	"github.com/agribid/auction-engine/internal/shared/logger"
	sharedws "github.com/agribid/auction-engine/internal/shared/websocket"
	userdomain "github.com/agribid/auction-engine/internal/user/domain"
	userpg "github.com/agribid/auction-engine/internal/user/infra/repository/postgres"
	"go.uber.org/zap"
)

func main() {
	log := logger.GetLogger()
	defer log.Sync()

	log.Info("Starting auction engine...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	ctx := context.Background()

	var (
		lotRepo    domain.LotRepository
		bidRepo    domain.BidRepository
		notifRepo  domain.NotificationRepository
		resultRepo domain.AuctionResultRepository
		forumRepo  domain.ForumRepository
		userRepo   userdomain.UserRepository
	)

	if cfg.Database.Store == "memory" {
		log.Warn("Using in-memory store; data will not survive a restart")
		store := memory.NewStore()
		lotRepo = store.Lots()
		bidRepo = store.Bids()
		notifRepo = store.Notifications()
		resultRepo = store.Results()
		forumRepo = store.Forum()
		userRepo = store.Users()
	} else {
		log.Info("Running database migrations...")
		if err := migrations.RunMigrations(cfg.Database); err != nil {
			log.Fatal("Database migration failed", zap.Error(err))
		}

		pool, err := db.GetPostgresDBPool(ctx, cfg.Database)
		if err != nil {
			log.Fatal("Database connection failed", zap.Error(err))
		}
		defer pool.Close()

		lotRepo = postgres.NewLotRepository(pool)
		bidRepo = postgres.NewBidRepository(pool)
		notifRepo = postgres.NewNotificationRepository(pool)
		resultRepo = postgres.NewAuctionResultRepository(pool)
		forumRepo = postgres.NewForumRepository(pool)
		userRepo = userpg.NewUserRepository(pool)
	}

	hub := sharedws.NewHub()
	hubCtx, stopHub := context.WithCancel(ctx)
	go hub.Run(hubCtx)

	events := wsinfra.NewPublisher(hub)
	dispatcher := application.NewDispatcher(notifRepo, nil)
	locks := application.NewLockTable()

	ledger := application.NewLedger(lotRepo, bidRepo, userRepo, dispatcher, events, locks)
	clock := application.NewClock(lotRepo, bidRepo, resultRepo, dispatcher, events, locks)
	listings := application.NewListings(lotRepo, bidRepo, userRepo)
	forum := application.NewForum(forumRepo, lotRepo, bidRepo, dispatcher)
	inbox := application.NewInbox(notifRepo)
	svc := application.NewService(ledger, clock, listings, forum, inbox)

	sweeper := application.NewSweeper(clock, lotRepo, cfg.Sweep.Interval, cfg.Sweep.Timeout)
	sweeper.Start()

	server := httpserver.NewServer()
	httpapi.NewHandler(svc).Register(server.App())
	wsinfra.RegisterRoutes(server.App(), hub)

	err = server.Start(cfg.Server.Addr, cfg.Server.ShutdownTimeout, func() {
		sweeper.Stop()
		stopHub()
		dispatcher.Flush()
	})
	if err != nil {
		log.Fatal("HTTP server failed", zap.Error(err))
	}
}
