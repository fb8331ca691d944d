package api

import (
	"context"
	"fmt"

	"climbing-gym/belay/internal/auth"
	"climbing-gym/belay/internal/common"
	"climbing-gym/belay/internal/config"
	"climbing-gym/belay/internal/db/repositories"
	"climbing-gym/belay/internal/logging"
	"climbing-gym/belay/internal/metrics"
	"climbing-gym/belay/internal/providers"
	"climbing-gym/belay/internal/services"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Repositories struct {
	User         *repositories.UserRepositoryGORM
	Gym          *repositories.GymRepository
	Member       *repositories.MemberRepository
	Dashboard    *repositories.DashboardRepository
	Subscription *repositories.SubscriptionRepository
	Percentage   *repositories.PercentageRepository
	Report       *repositories.ReportRepository
}

type Services struct {
	Cache         common.CacheInterface
	RedisQueue    *common.RedisQueueService
	Tokens        *auth.TokenService
	GymResolver   *services.GymContextResolver
	Gate          *services.SubscriptionGate
	Notifications *services.NotificationService
	Percentage    *services.PercentageService
	Registration  *services.RegistrationService
	Profile       *services.ProfileService
	Members       *services.MemberListService
	Dashboard     *services.DashboardService
	GymAdmin      *services.GymAdminService
	Webhook       *services.StripeWebhookService
	Reports       *services.ReportService
	Expiry        *services.SubscriptionExpiryService
}

// Providers deliver what the outbound worker takes off the queue
type Providers struct {
	Mailer providers.EmailSender
	Push   providers.PushSender
}

type Dependencies struct {
	Config    *config.Config
	Metrics   *metrics.MetricsRegistry
	Repo      *Repositories
	Services  *Services
	Providers *Providers
	Health    map[string]pinger
}

// redisPinger adapts the redis client to the health check
type redisPinger struct {
	client *redis.Client
}

func (p redisPinger) PingContext(ctx context.Context) error {
	return p.client.Ping(ctx).Err()
}

func InitDependencies(
	ctx context.Context,
	cfg *config.Config,
	gormDB *gorm.DB,
	sqlDB *sqlx.DB,
	redisClient *redis.Client,
	metricsReg *metrics.MetricsRegistry,
) (*Dependencies, error) {
	repos := &Repositories{
		User:         repositories.NewUserRepositoryGORM(gormDB),
		Gym:          repositories.NewGymRepository(gormDB),
		Member:       repositories.NewMemberRepository(gormDB),
		Dashboard:    repositories.NewDashboardRepository(gormDB),
		Subscription: repositories.NewSubscriptionRepository(gormDB),
		Percentage:   repositories.NewPercentageRepository(gormDB),
		Report:       repositories.NewReportRepository(sqlDB),
	}

	var cacheSvc common.CacheInterface
	if cfg.Cache.UseRedis {
		cacheSvc = common.NewRedisCacheService(redisClient)
		logging.Info("Using Redis cache")
	} else {
		cacheSvc = common.NewCacheService(cfg.Cache.DefaultTTL, cfg.Cache.CleanupInterval)
		logging.Info("Using in-memory cache")
	}

	queue := common.NewRedisQueueService(redisClient)
	tokens := auth.NewTokenService([]byte(cfg.Auth.JWTSecret), cfg.Auth.TokenTTL)
	notifications := services.NewNotificationService(queue, cfg.Queue.Stream, metricsReg)
	gate := services.NewSubscriptionGate(repos.Subscription, repos.Gym, metricsReg)
	percentage := services.NewPercentageService(repos.Percentage, repos.User, metricsReg)

	svcs := &Services{
		Cache:         cacheSvc,
		RedisQueue:    queue,
		Tokens:        tokens,
		GymResolver:   services.NewGymContextResolver(repos.Gym),
		Gate:          gate,
		Notifications: notifications,
		Percentage:    percentage,
		Registration:  services.NewRegistrationService(gormDB, repos.User, tokens, notifications, cfg.Auth.BcryptCost, cfg.HTTP.PublicURL),
		Profile:       services.NewProfileService(repos.User, percentage),
		Members:       services.NewMemberListService(repos.Member, repos.Gym, gate, metricsReg),
		Dashboard:     services.NewDashboardService(repos.Dashboard, repos.Member, repos.Gym, cacheSvc, cfg.Cache.DefaultTTL, metricsReg),
		GymAdmin:      services.NewGymAdminService(repos.Gym, repos.User, notifications),
		Webhook:       services.NewStripeWebhookService(repos.Subscription, cfg.Stripe.WebhookSecret),
		Reports:       services.NewReportService(repos.Report),
		Expiry:        services.NewSubscriptionExpiryService(repos.Subscription, notifications),
	}

	provs, err := initProviders(ctx, cfg)
	if err != nil {
		return nil, err
	}

	return &Dependencies{
		Config:    cfg,
		Metrics:   metricsReg,
		Repo:      repos,
		Services:  svcs,
		Providers: provs,
		Health: map[string]pinger{
			"postgres": sqlDB,
			"redis":    redisPinger{client: redisClient},
		},
	}, nil
}

// initProviders falls back to logging senders for anything left unconfigured
func initProviders(ctx context.Context, cfg *config.Config) (*Providers, error) {
	provs := &Providers{Mailer: providers.LogSender{}, Push: providers.LogSender{}}

	if cfg.SMTP.Host != "" {
		mailer, err := providers.NewSMTPMailer(cfg.SMTP)
		if err != nil {
			return nil, fmt.Errorf("failed to init SMTP mailer: %w", err)
		}
		provs.Mailer = mailer
	} else {
		logging.Warn("SMTP not configured, emails will only be logged")
	}

	if cfg.Firebase.CredentialsPath != "" {
		push, err := providers.NewFirebasePush(ctx, cfg.Firebase.ProjectID, cfg.Firebase.CredentialsPath)
		if err != nil {
			return nil, fmt.Errorf("failed to init Firebase push: %w", err)
		}
		provs.Push = push
	} else {
		logging.Warn("Firebase not configured, push notifications will only be logged")
	}

	return provs, nil
}
