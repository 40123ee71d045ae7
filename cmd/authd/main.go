package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/marketloop/authd/adapters/events"
	"github.com/marketloop/authd/adapters/password"
	"github.com/marketloop/authd/adapters/registry"
	"github.com/marketloop/authd/adapters/tokenizer"
	"github.com/marketloop/authd/adapters/userstore"
	"github.com/marketloop/authd/config"
	"github.com/marketloop/authd/service"
	transport "github.com/marketloop/authd/transport/http"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg, err := config.FromEnv()
	if err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Mongo holds the user records
	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		logger.Error("failed to connect to mongo", "error", err)
		os.Exit(1)
	}
	defer func() { _ = mongoClient.Disconnect(context.Background()) }()

	users := userstore.NewMongoStore(mongoClient.Database(cfg.MongoDatabase))
	if err := users.EnsureIndexes(ctx); err != nil {
		logger.Error("failed to ensure user indexes", "error", err)
		os.Exit(1)
	}

	// Redis holds the refresh token registry and carries lifecycle events
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		logger.Error("failed to parse redis URL", "error", err)
		os.Exit(1)
	}
	redisClient := redis.NewClient(opts)
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Error("failed to connect to redis", "error", err)
		os.Exit(1)
	}
	defer func() { _ = redisClient.Close() }()

	publisher, err := redisstream.NewPublisher(
		redisstream.PublisherConfig{Client: redisClient},
		watermill.NewSlogLogger(logger),
	)
	if err != nil {
		logger.Error("failed to create event publisher", "error", err)
		os.Exit(1)
	}

	authService := service.NewAuthService(
		users,
		registry.NewRedisRegistry(redisClient, cfg.RefreshTTL),
		tokenizer.NewJWTTokenizer([]byte(cfg.AccessSecret), []byte(cfg.RefreshSecret), cfg.AccessTTL, cfg.RefreshTTL),
		password.NewBcryptHasher(0),
		events.NewWatermillPublisher(publisher),
		logger,
	)

	cookies := transport.CookieConfig{
		Secure:     cfg.Production,
		AccessTTL:  cfg.AccessTTL,
		RefreshTTL: cfg.RefreshTTL,
	}

	router := transport.SetupRouter(authService, cookies, logger)

	logger.Info("starting auth service", "addr", cfg.ListenAddr)
	if err := router.Run(cfg.ListenAddr); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
