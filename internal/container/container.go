// Package container wires the application together. Each *Package function
// registers one concern's providers with the injector; binaries compose the
// packages they need.
package container

import (
	"context"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	_ "github.com/danielgtaylor/huma/v2/formats/cbor" // CBOR format support for huma
	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"go.uber.org/zap"

	"github.com/Johndevils/Url-shorter-bot/internal/analytics"
	"github.com/Johndevils/Url-shorter-bot/internal/bot"
	"github.com/Johndevils/Url-shorter-bot/internal/broadcast"
	"github.com/Johndevils/Url-shorter-bot/internal/handlers"
	"github.com/Johndevils/Url-shorter-bot/internal/health"
	"github.com/Johndevils/Url-shorter-bot/internal/messaging"
	"github.com/Johndevils/Url-shorter-bot/internal/middleware"
	"github.com/Johndevils/Url-shorter-bot/internal/ratelimit"
	"github.com/Johndevils/Url-shorter-bot/internal/registry"
	"github.com/Johndevils/Url-shorter-bot/internal/shortlink"
	"github.com/Johndevils/Url-shorter-bot/internal/store"
	"github.com/Johndevils/Url-shorter-bot/internal/telegram"
)

// Options holds the CLI / environment configuration for both binaries.
type Options struct {
	Port          int    `default:"8888"           help:"Port to listen on"                                        short:"p"`
	BaseURL       string `default:""               help:"Public base URL for short links (default localhost:port)"`
	DatabaseURL   string `default:""               help:"PostgreSQL DSN; empty runs on in-memory storage"`
	RedisAddr     string `default:""               help:"Redis server address; empty disables cache and streams"   short:"r"`
	BotToken      string `default:""               help:"Telegram bot token"`
	BotAPIURL     string `default:""               help:"Telegram API base URL override, used in tests"`
	AdminChatID   int64  `default:"0"              help:"Chat ID allowed to broadcast"`
	WebhookSecret string `default:""               help:"Secret token expected on webhook calls"`
	StartImageURL string `default:""               help:"Image sent with the welcome message"`
	CodeLength    int    `default:"6"              help:"Length of generated short codes"                          short:"c"`
	CacheTTL      int    `default:"3600"           help:"Link cache TTL in seconds"`
	RateLimit     int64  `default:"120"            help:"Requests per client per minute on public endpoints"`
	LogFormat     string `default:"console"        help:"Log format: console or json"`
}

func (o *Options) baseURL() string {
	if o.BaseURL != "" {
		return o.BaseURL
	}

	return fmt.Sprintf("http://localhost:%d", o.Port)
}

// LoggerPackage provides the zap logger.
func LoggerPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*zap.Logger, error) {
		options := do.MustInvoke[*Options](i)

		if options.LogFormat == "json" {
			return zap.NewProduction()
		}

		return zap.NewDevelopment()
	})
}

// RedisPackage provides the Redis client. Resolving it with an empty
// RedisAddr is a configuration bug, so it fails loudly.
func RedisPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*redis.Client, error) {
		options := do.MustInvoke[*Options](i)

		if options.RedisAddr == "" {
			return nil, fmt.Errorf("redis address not configured")
		}

		return redis.NewClient(&redis.Options{
			Addr: options.RedisAddr,
		}), nil
	})
}

// PostgresPackage provides the connection pool and runs migrations once on
// first resolve.
func PostgresPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*pgxpool.Pool, error) {
		options := do.MustInvoke[*Options](i)

		if options.DatabaseURL == "" {
			return nil, fmt.Errorf("database url not configured")
		}

		if err := store.Migrate(options.DatabaseURL); err != nil {
			return nil, err
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		pool, err := pgxpool.New(ctx, options.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("create pool: %w", err)
		}

		if err := pool.Ping(ctx); err != nil {
			pool.Close()

			return nil, fmt.Errorf("ping database: %w", err)
		}

		return pool, nil
	})
}

// StorePackage provides the link repository and the user registry. Without a
// DatabaseURL everything runs in memory; with Redis on top the repository is
// wrapped in a read cache.
func StorePackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (shortlink.Repository, error) {
		options := do.MustInvoke[*Options](i)

		if options.DatabaseURL == "" {
			return store.NewMemoryLinks(), nil
		}

		pool := do.MustInvoke[*pgxpool.Pool](i)

		var repo shortlink.Repository = store.NewPostgresLinks(pool)

		if options.RedisAddr != "" {
			client := do.MustInvoke[*redis.Client](i)
			ttl := time.Duration(options.CacheTTL) * time.Second
			repo = store.NewLinkCache(repo, client, ttl)
		}

		return repo, nil
	})

	do.Provide(injector, func(i *do.Injector) (registry.Registry, error) {
		options := do.MustInvoke[*Options](i)

		if options.DatabaseURL == "" {
			return store.NewMemoryRegistry(), nil
		}

		return store.NewPostgresRegistry(do.MustInvoke[*pgxpool.Pool](i)), nil
	})
}

// ShortenerPackage provides the shortening service with an alphanumeric
// nanoid generator.
func ShortenerPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*shortlink.Service, error) {
		options := do.MustInvoke[*Options](i)
		repo := do.MustInvoke[shortlink.Repository](i)
		logger := do.MustInvoke[*zap.Logger](i)

		generate, err := shortlink.NewCodeGenerator(options.CodeLength)
		if err != nil {
			return nil, fmt.Errorf("create code generator: %w", err)
		}

		return shortlink.NewService(repo, generate, logger), nil
	})
}

// GatewayPackage provides the Telegram gateway.
func GatewayPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (telegram.Gateway, error) {
		options := do.MustInvoke[*Options](i)
		logger := do.MustInvoke[*zap.Logger](i)

		return telegram.NewClient(telegram.Config{
			Token:  options.BotToken,
			APIURL: options.BotAPIURL,
		}, logger)
	})
}

// RateLimitPackage provides the sliding window limiter, Redis-backed when
// available so replicas share counters.
func RateLimitPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (ratelimit.Limiter, error) {
		options := do.MustInvoke[*Options](i)

		var rlStore ratelimit.Store
		if options.RedisAddr != "" {
			rlStore = store.NewRateLimitRedisStore(do.MustInvoke[*redis.Client](i))
		} else {
			rlStore = store.NewRateLimitMemoryStore()
		}

		return ratelimit.NewSlidingWindowLimiter(rlStore, options.RateLimit, time.Minute), nil
	})
}

// MessagingPackage provides the event publisher: Redis streams when Redis is
// configured, an in-process channel otherwise.
func MessagingPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*messaging.PublisherGroup, error) {
		options := do.MustInvoke[*Options](i)

		if options.RedisAddr == "" {
			pubsub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})

			return messaging.NewPublisherGroup(pubsub), nil
		}

		client := do.MustInvoke[*redis.Client](i)

		publisher, err := redisstream.NewPublisher(redisstream.PublisherConfig{
			Client: client,
		}, watermill.NopLogger{})
		if err != nil {
			return nil, fmt.Errorf("create publisher: %w", err)
		}

		return messaging.NewPublisherGroup(publisher), nil
	})
}

// BroadcastPackage provides the detached runner and the broadcast engine.
func BroadcastPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*broadcast.Runner, error) {
		return broadcast.NewRunner(do.MustInvoke[*zap.Logger](i)), nil
	})

	do.Provide(injector, func(i *do.Injector) (*broadcast.Engine, error) {
		return broadcast.NewEngine(
			do.MustInvoke[registry.Registry](i),
			do.MustInvoke[telegram.Gateway](i),
			do.MustInvoke[*broadcast.Runner](i),
			do.MustInvoke[*zap.Logger](i),
		), nil
	})
}

// BotPackage provides the command dispatcher.
func BotPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*bot.Dispatcher, error) {
		options := do.MustInvoke[*Options](i)
		publishers := do.MustInvoke[*messaging.PublisherGroup](i)

		publishCreated := messaging.NewPublishFunc[analytics.LinkCreatedEvent](
			publishers.Publisher(), analytics.TopicLinkCreated,
		)

		return bot.NewDispatcher(
			bot.Config{
				BaseURL:       options.baseURL(),
				AdminChatID:   options.AdminChatID,
				StartImageURL: options.StartImageURL,
			},
			do.MustInvoke[*shortlink.Service](i),
			do.MustInvoke[registry.Registry](i),
			do.MustInvoke[telegram.Gateway](i),
			do.MustInvoke[*broadcast.Engine](i),
			publishCreated,
			do.MustInvoke[*zap.Logger](i),
		), nil
	})
}

// HTTPPackage provides the router and the API with all routes and
// middlewares registered.
func HTTPPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*chi.Mux, error) {
		return chi.NewMux(), nil
	})

	do.Provide(injector, func(i *do.Injector) (huma.API, error) {
		options := do.MustInvoke[*Options](i)
		logger := do.MustInvoke[*zap.Logger](i)
		router := do.MustInvoke[*chi.Mux](i)
		publishers := do.MustInvoke[*messaging.PublisherGroup](i)

		api := humachi.New(router, huma.DefaultConfig("URL Shortener Bot", "1.0.0"))

		api.UseMiddleware(middleware.RequestMeta(api))
		api.UseMiddleware(middleware.WebhookAuth(api, options.WebhookSecret, logger))
		api.UseMiddleware(middleware.RateLimiter(api, do.MustInvoke[ratelimit.Limiter](i), logger))

		publishVisit := messaging.NewPublishFunc[analytics.LinkVisitedEvent](
			publishers.Publisher(), analytics.TopicLinkVisited,
		)

		links := handlers.NewLinkHandler(do.MustInvoke[shortlink.Repository](i), publishVisit, logger)
		webhook := handlers.NewWebhookHandler(do.MustInvoke[*bot.Dispatcher](i), logger)

		handlers.RegisterRoutes(api, links, webhook)

		var dbChecker, redisChecker health.Checker
		if options.DatabaseURL != "" {
			dbChecker = health.NewPostgresChecker(do.MustInvoke[*pgxpool.Pool](i))
		}

		if options.RedisAddr != "" {
			redisChecker = health.NewRedisChecker(do.MustInvoke[*redis.Client](i))
		}

		health.RegisterRoutes(api, health.NewHandler(dbChecker, redisChecker))

		return api, nil
	})
}

// ConsumerGroupPackage provides the analytics consumer group for the
// consumer binary. It requires Redis: without streams there is nothing to
// consume from another process.
func ConsumerGroupPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*messaging.ConsumerGroup, error) {
		client := do.MustInvoke[*redis.Client](i)
		logger := do.MustInvoke[*zap.Logger](i)

		subscriber, err := redisstream.NewSubscriber(redisstream.SubscriberConfig{
			Client:        client,
			ConsumerGroup: "analytics",
		}, watermill.NopLogger{})
		if err != nil {
			return nil, fmt.Errorf("create subscriber: %w", err)
		}

		sink := analytics.NewLogSink(logger)
		group := messaging.NewConsumerGroup(subscriber, logger)

		group.Add(messaging.NewConsumer(subscriber, analytics.TopicLinkCreated,
			func(ctx context.Context, event *analytics.LinkCreatedEvent) error {
				return sink.LinkCreated(ctx, event)
			}, logger))
		group.Add(messaging.NewConsumer(subscriber, analytics.TopicLinkVisited,
			func(ctx context.Context, event *analytics.LinkVisitedEvent) error {
				return sink.LinkVisited(ctx, event)
			}, logger))

		return group, nil
	})
}
