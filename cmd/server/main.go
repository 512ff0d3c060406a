package main

import (
	"context" // context package is needed for Redis operations

	"guildbank/internal/api"        // Custom package for API handlers
	"guildbank/internal/bank"       // Ledger service
	"guildbank/internal/config"     // Custom package for configuration
	"guildbank/internal/dice"       // Dice engine
	"guildbank/internal/directory"  // Character directory
	"guildbank/internal/embeds"     // Embed records
	"guildbank/internal/errlog"     // Recent-error ring buffer
	"guildbank/internal/initiative" // Initiative tracker
	"guildbank/internal/quests"     // Quest board
	"guildbank/internal/store"      // Repositories

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logrus for structured logging
)

// Main function to set up and run the server
func main() {
	cfg := config.LoadConfig() // Load configuration

	// Setup logger
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	// Open the database, migrate the schema and seed the bank account
	db, err := store.InitDB(cfg.DBDriver, cfg.DSN())
	if err != nil {
		log.Fatalf("failed to connect to DB: %v", err) // Fatal error if DB connection fails
	}

	// Setup Redis client; an empty address runs without caching
	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr, // Redis server address
			Password: cfg.RedisPass, // Redis password
			DB:       cfg.RedisDB,   // Redis database number
		})
		// Test Redis connection
		if _, err := redisClient.Ping(context.Background()).Result(); err != nil {
			log.Fatalf("failed to connect to Redis: %v", err)
		}
	}

	// Wire the services
	users := store.NewUserStore(db)
	characters := store.NewCharacterStore(db)
	transactions := store.NewTransactionStore(db)
	embedStore := store.NewEmbedStore(db)
	questStore := store.NewQuestStore(db)

	bankSvc := bank.NewService(transactions, log)
	dir := directory.New(users, characters, log)
	embedSvc := embeds.NewService(embedStore, log)
	questSvc := quests.NewService(questStore, embedSvc, log)

	app := api.New(
		cfg, log, redisClient, db,
		users,
		dice.New(),
		bankSvc,
		dir,
		embedSvc,
		questSvc,
		initiative.New(),
		errlog.New(),
	)

	// Set Mode to Release if in production
	if cfg.IsProd {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup Gin
	r := gin.Default() // Gin router instance

	// Set trusted proxies for Gin
	if err := r.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		log.Fatalf("failed to set trusted proxies: %v", err)
	}

	app.RegisterRoutes(r) // Attach every endpoint

	log.Info("Server running on " + cfg.AppPort) // Log server start
	if err := r.Run(":" + cfg.AppPort); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
