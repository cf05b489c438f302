package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/UBC-CIC/first-responder-admin/internal/meetings/application/changefeed"
	meetingCommands "github.com/UBC-CIC/first-responder-admin/internal/meetings/application/commands"
	meetingQueries "github.com/UBC-CIC/first-responder-admin/internal/meetings/application/queries"
	meetingServices "github.com/UBC-CIC/first-responder-admin/internal/meetings/application/services"
	"github.com/UBC-CIC/first-responder-admin/internal/meetings/application/subscribers"
	meetingCache "github.com/UBC-CIC/first-responder-admin/internal/meetings/infrastructure/cache"
	notificationsDomain "github.com/UBC-CIC/first-responder-admin/internal/notifications/domain"
	"github.com/UBC-CIC/first-responder-admin/internal/notifications/infrastructure/logsink"
	"github.com/UBC-CIC/first-responder-admin/internal/notifications/infrastructure/relay"
	"github.com/UBC-CIC/first-responder-admin/internal/notifications/infrastructure/smtp"
	"github.com/UBC-CIC/first-responder-admin/internal/shared/infrastructure/database"
	_ "github.com/UBC-CIC/first-responder-admin/internal/shared/infrastructure/database/postgres" // Register Postgres driver
	_ "github.com/UBC-CIC/first-responder-admin/internal/shared/infrastructure/database/sqlite"   // Register SQLite driver
	"github.com/UBC-CIC/first-responder-admin/internal/shared/infrastructure/eventbus"
	"github.com/UBC-CIC/first-responder-admin/internal/shared/infrastructure/migrations"
	"github.com/UBC-CIC/first-responder-admin/internal/shared/infrastructure/outbox"
	specialistCommands "github.com/UBC-CIC/first-responder-admin/internal/specialists/application/commands"
	"github.com/UBC-CIC/first-responder-admin/internal/specialists/application/jobs"
	specialistQueries "github.com/UBC-CIC/first-responder-admin/internal/specialists/application/queries"
	telephonyApp "github.com/UBC-CIC/first-responder-admin/internal/telephony/application"
	"github.com/UBC-CIC/first-responder-admin/internal/telephony/infrastructure/livekit"
	"github.com/UBC-CIC/first-responder-admin/pkg/config"
	"github.com/UBC-CIC/first-responder-admin/pkg/observability"
)

// Container holds all application dependencies.
type Container struct {
	Config  *config.Config
	Logger  *slog.Logger
	Metrics *observability.InMemoryMetrics
	Health  *observability.HealthRegistry

	// Database
	DBConn   database.Connection
	DBDriver database.Driver
	Repos    *Repositories

	// Redis
	RedisClient *redis.Client

	// Publishers
	EventPublisher    eventbus.Publisher
	InProcessEventBus *eventbus.InProcessEventBus

	// Media provider
	Provider *livekit.Provider
	Webhooks *livekit.WebhookReceiver

	// Meeting registry
	Registry    *meetingServices.Registry
	Sweeper     *meetingServices.SpecialistSweeper
	ChangeFeed  *changefeed.Pipeline
	Snapshots   subscribers.SnapshotStore
	MeetingFeed *subscribers.MeetingFeed

	// Telephony
	Router *telephonyApp.Router

	// Notifications
	SMSSender   notificationsDomain.SMSSender
	EmailSender notificationsDomain.EmailSender

	// Meeting Command Handlers
	JoinMeetingHandler     *meetingCommands.JoinMeetingHandler
	EndMeetingHandler      *meetingCommands.EndMeetingHandler
	KickAttendeeHandler    *meetingCommands.KickAttendeeHandler
	AnnotateMeetingHandler *meetingCommands.AnnotateMeetingHandler
	PageSpecialistHandler  *meetingCommands.PageSpecialistHandler
	LifecycleHandler       *meetingCommands.LifecycleHandler

	// Meeting Query Handlers
	ListMeetingsHandler *meetingQueries.ListMeetingsHandler
	GetMeetingHandler   *meetingQueries.GetMeetingHandler

	// Specialist Handlers
	RegisterSpecialistHandler *specialistCommands.RegisterSpecialistHandler
	UpdateUserStatusHandler   *specialistCommands.UpdateUserStatusHandler
	ListSpecialistsHandler    *specialistQueries.ListSpecialistsHandler
	GetSpecialistHandler      *specialistQueries.GetSpecialistHandler

	// Background work
	AvailabilityJob *jobs.AvailabilityJob
	OutboxProcessor *outbox.Processor
}

// NewContainer wires the service. Redis and RabbitMQ are optional: without
// them reservations and the meeting feed stay in process and events are
// delivered through an in-process bus. Outside development an unreachable
// configured backend is an error.
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Container{
		Config:  cfg,
		Logger:  logger,
		Metrics: observability.NewInMemoryMetrics(),
		Health:  observability.NewHealthRegistry(),
	}

	if err := c.initDatabase(ctx); err != nil {
		return nil, err
	}
	if err := c.initRedis(ctx); err != nil {
		c.Close()
		return nil, err
	}
	if err := c.initPublisher(); err != nil {
		c.Close()
		return nil, err
	}

	c.initProvider()
	c.initRegistry()
	c.initNotifications()
	c.initHandlers()

	processorCfg := outbox.DefaultProcessorConfig()
	processorCfg.PollInterval = cfg.OutboxPollInterval
	processorCfg.BatchSize = cfg.OutboxBatchSize
	processorCfg.MaxRetries = cfg.OutboxMaxRetries
	c.OutboxProcessor = outbox.NewProcessor(c.Repos.Outbox, c.EventPublisher, processorCfg, logger)
	c.AvailabilityJob = jobs.NewAvailabilityJob(c.Repos.Specialists, cfg.AvailabilitySchedule, logger, c.Metrics)

	return c, nil
}

func (c *Container) initDatabase(ctx context.Context) error {
	conn, err := database.NewConnection(ctx, database.Config{
		Driver:     database.Driver(c.Config.DatabaseDriver),
		URL:        c.Config.DatabaseURL,
		SQLitePath: c.Config.SQLitePath,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := migrations.Run(ctx, conn); err != nil {
		_ = conn.Close()
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	c.DBConn = conn
	c.DBDriver = conn.Driver()
	c.Repos = NewRepositoryFactory(conn, c.Logger).Build()
	c.Health.Register("database", observability.PingHealthChecker("database", true, conn.Ping))
	c.Logger.Info("connected to database", "driver", c.DBDriver)
	return nil
}

func (c *Container) initRedis(ctx context.Context) error {
	if c.Config.RedisURL == "" {
		c.Logger.Info("Redis not configured, using in-memory reservations and meeting feed")
		return nil
	}

	opt, err := redis.ParseURL(c.Config.RedisURL)
	if err != nil {
		if !c.Config.IsDevelopment() {
			return fmt.Errorf("failed to parse Redis URL: %w", err)
		}
		c.Logger.Warn("invalid Redis URL, using in-memory fallback", "error", err)
		return nil
	}

	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		if !c.Config.IsDevelopment() {
			return fmt.Errorf("failed to connect to Redis: %w", err)
		}
		c.Logger.Warn("Redis not available, using in-memory fallback", "error", err)
		return nil
	}

	c.RedisClient = client
	c.Health.Register("redis", observability.PingHealthChecker("redis", false, func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	}))
	c.Logger.Info("connected to Redis")
	return nil
}

func (c *Container) initPublisher() error {
	if c.Config.RabbitMQURL != "" {
		publisher, err := eventbus.NewRabbitMQPublisher(c.Config.RabbitMQURL, c.Config.RabbitMQExchange, c.Logger)
		if err == nil {
			c.EventPublisher = publisher
			c.Logger.Info("connected to RabbitMQ", "exchange", c.Config.RabbitMQExchange)
			return nil
		}
		if !c.Config.IsDevelopment() {
			return fmt.Errorf("failed to connect to RabbitMQ: %w", err)
		}
		c.Logger.Warn("RabbitMQ not available, using in-process event bus", "error", err)
	}

	c.InProcessEventBus = eventbus.NewInProcessEventBus(c.Logger)
	c.EventPublisher = c.InProcessEventBus
	return nil
}

func (c *Container) initProvider() {
	lkCfg := livekit.DefaultConfig()
	lkCfg.URL = c.Config.LiveKitURL
	lkCfg.APIKey = c.Config.LiveKitAPIKey
	lkCfg.APISecret = c.Config.LiveKitAPISecret
	lkCfg.MediaRegion = c.Config.MediaRegion
	lkCfg.TokenTTL = c.Config.ParticipantTokenTTL

	c.Provider = livekit.NewProvider(lkCfg, c.Logger, c.Metrics)
	c.Webhooks = livekit.NewWebhookReceiver(lkCfg.APIKey, lkCfg.APISecret)
	c.Health.Register("media_provider", observability.BreakerHealthChecker(c.Provider.BreakerState))
}

func (c *Container) initRegistry() {
	var reserver meetingServices.Reserver
	if c.RedisClient != nil {
		reserver = meetingCache.NewRedisReserver(c.RedisClient, c.Config.ExternalIDReservationTTL)
		c.Snapshots = meetingCache.NewRedisSnapshotStore(c.RedisClient)
	} else {
		reserver = meetingCache.NewInMemoryReserver(c.Config.ExternalIDReservationTTL)
		c.Snapshots = meetingCache.NewInMemorySnapshotStore()
	}

	repos := c.Repos
	c.Sweeper = meetingServices.NewSpecialistSweeper(repos.Specialists, c.Logger)
	c.ChangeFeed = changefeed.NewPipeline(repos.Outbox, changefeed.Config{
		SuppressUpdates: c.Config.SuppressUpdateEvents,
	}, c.Logger)
	c.Registry = meetingServices.NewRegistry(
		repos.Meetings,
		c.Provider,
		meetingServices.NewExternalIDAllocator(repos.Meetings, reserver, c.Logger),
		meetingServices.NewDirectoryEnricher(repos.Specialists, repos.FirstResponders, repos.ServiceDesk, c.Logger),
		c.ChangeFeed,
		repos.UnitOfWork,
		c.Sweeper,
		c.Logger,
	)

	c.MeetingFeed = subscribers.NewMeetingFeed(c.Snapshots, c.Logger)
	if c.InProcessEventBus != nil {
		c.InProcessEventBus.RegisterConsumer(c.MeetingFeed)
	}
}

func (c *Container) initNotifications() {
	sink := logsink.New(c.Logger)

	if c.Config.SMTPEnabled() {
		sender := smtp.NewSender(smtp.Config{
			Host:     c.Config.SMTPHost,
			Port:     c.Config.SMTPPort,
			Username: c.Config.SMTPUsername,
			Password: c.Config.SMTPPassword,
			From:     c.Config.SMTPFrom,
		}, c.Logger, c.Metrics)
		c.EmailSender = sender
		c.Health.Register("smtp", observability.BreakerHealthChecker(sender.BreakerState))
	} else {
		c.EmailSender = sink
	}

	// Without a broker there is no SMS gateway listening.
	if c.InProcessEventBus == nil {
		c.SMSSender = relay.NewSMSRelay(c.EventPublisher, c.Config.SMSRoutingKey, c.Logger, c.Metrics)
	} else {
		c.SMSSender = sink
	}
}

func (c *Container) initHandlers() {
	cfg := c.Config
	repos := c.Repos

	c.Router = telephonyApp.NewRouter(c.Registry, c.Provider, telephonyApp.RouterConfig{
		AudioBucket:       cfg.AudioBucket,
		MaxPromptAttempts: cfg.MaxPromptAttempts,
	}, c.Logger, c.Metrics)

	c.JoinMeetingHandler = meetingCommands.NewJoinMeetingHandler(c.Registry, c.Provider, c.Logger, c.Metrics)
	c.EndMeetingHandler = meetingCommands.NewEndMeetingHandler(c.Registry, c.Provider, c.Sweeper, c.Logger, c.Metrics)
	c.KickAttendeeHandler = meetingCommands.NewKickAttendeeHandler(c.Registry, c.Provider, c.Sweeper, c.Logger)
	c.AnnotateMeetingHandler = meetingCommands.NewAnnotateMeetingHandler(c.Registry)
	c.LifecycleHandler = meetingCommands.NewLifecycleHandler(c.Registry, c.Sweeper, c.Logger, c.Metrics)
	c.PageSpecialistHandler = meetingCommands.NewPageSpecialistHandler(
		c.Registry,
		c.Provider,
		repos.Specialists,
		c.Sweeper,
		c.SMSSender,
		c.EmailSender,
		meetingCommands.PagingConfig{CallURL: cfg.CallURL, JoinPhoneNumber: cfg.JoinPhoneNumber},
		c.Logger,
		c.Metrics,
	)

	c.ListMeetingsHandler = meetingQueries.NewListMeetingsHandler(repos.Meetings)
	c.GetMeetingHandler = meetingQueries.NewGetMeetingHandler(repos.Meetings)

	c.RegisterSpecialistHandler = specialistCommands.NewRegisterSpecialistHandler(repos.Specialists, c.Logger)
	c.UpdateUserStatusHandler = specialistCommands.NewUpdateUserStatusHandler(repos.Specialists, c.Logger)
	c.ListSpecialistsHandler = specialistQueries.NewListSpecialistsHandler(repos.Specialists)
	c.GetSpecialistHandler = specialistQueries.NewGetSpecialistHandler(repos.Specialists)
}

// NewFeedConsumer returns the consumer that feeds MeetingFeed. With RabbitMQ
// it is a durable queue consumer; otherwise the in-process bus already
// delivers to the feed.
func (c *Container) NewFeedConsumer() (eventbus.Consumer, error) {
	if c.InProcessEventBus != nil {
		return c.InProcessEventBus, nil
	}
	consumer, err := eventbus.NewRabbitMQConsumer(eventbus.RabbitMQConsumerConfig{
		URL:       c.Config.RabbitMQURL,
		QueueName: c.Config.FeedQueue,
		Exchange:  c.Config.RabbitMQExchange,
		Logger:    c.Logger,
	}, eventbus.NewConsumerRegistry(c.Logger))
	if err != nil {
		return nil, fmt.Errorf("failed to create feed consumer: %w", err)
	}
	consumer.RegisterConsumer(c.MeetingFeed)
	return consumer, nil
}

// Close cleans up all resources.
func (c *Container) Close() {
	if c.AvailabilityJob != nil {
		c.AvailabilityJob.Stop()
	}

	if c.OutboxProcessor != nil && c.OutboxProcessor.IsRunning() {
		c.OutboxProcessor.Stop()
	}

	if c.EventPublisher != nil {
		if err := c.EventPublisher.Close(); err != nil {
			c.Logger.Warn("error closing event publisher", "error", err)
		}
	}

	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil && !errors.Is(err, redis.ErrClosed) {
			c.Logger.Warn("error closing Redis connection", "error", err)
		} else {
			c.Logger.Info("Redis connection closed")
		}
	}

	if c.DBConn != nil {
		if err := c.DBConn.Close(); err != nil {
			c.Logger.Warn("error closing database connection", "error", err)
		} else {
			c.Logger.Info("database connection closed", "driver", c.DBDriver)
		}
	}
}
