package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"
	"golang.org/x/sync/errgroup"

	"talentlink/internal/audit"
	apphandler "talentlink/internal/application/handler"
	appservice "talentlink/internal/application/service"
	appstore "talentlink/internal/application/store"
	disclosurehandler "talentlink/internal/disclosure/handler"
	disclosuremetrics "talentlink/internal/disclosure/metrics"
	disclosureservice "talentlink/internal/disclosure/service"
	jwttoken "talentlink/internal/jwt_token"
	msghandler "talentlink/internal/messaging/handler"
	"talentlink/internal/messaging/ratelimit"
	msgservice "talentlink/internal/messaging/service"
	msgstore "talentlink/internal/messaging/store"
	"talentlink/internal/platform/config"
	"talentlink/internal/platform/httpserver"
	"talentlink/internal/platform/kafka"
	"talentlink/internal/platform/logger"
	"talentlink/internal/platform/metrics"
	"talentlink/internal/platform/postgres"
	"talentlink/internal/platform/redis"
	profilehandler "talentlink/internal/profile/handler"
	profileservice "talentlink/internal/profile/service"
	profilestore "talentlink/internal/profile/store"
	"talentlink/internal/subscription"
	httptransport "talentlink/internal/transport/http"
	pkgaudit "talentlink/pkg/platform/audit"
	"talentlink/pkg/platform/audit/outbox"
	"talentlink/pkg/platform/audit/publishers/compliance"
	auditmemory "talentlink/pkg/platform/audit/store/memory"
	auditpostgres "talentlink/pkg/platform/audit/store/postgres"
	"talentlink/pkg/platform/tx"
)

// Each backend implements several narrow service interfaces.
type (
	profileStore interface {
		profileservice.Store
		subscription.AccountReader
	}
	applicationStore interface {
		appservice.Store
		audit.ContactFlagStore
		msgservice.ApplicationLocker
	}
	messageStore interface {
		msgservice.Store
		appservice.ThreadReader
	}
)

type stores struct {
	profiles     profileStore
	applications applicationStore
	messages     messageStore
	audit        pkgaudit.Store
	runner       tx.Runner
	db           *sql.DB
}

func main() {
	cfg := config.FromEnv()
	log := logger.New(cfg.Server.LogLevel)
	slog.SetDefault(log)

	if err := run(cfg, log); err != nil {
		log.Error("talentlink exited", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := openStores(ctx, cfg, log)
	if err != nil {
		return err
	}
	if st.db != nil {
		defer st.db.Close()
	}
	checks := map[string]httptransport.HealthCheck{}
	if st.db != nil {
		checks["postgres"] = st.db.PingContext
	}

	var limiter msgservice.Limiter
	rdb, ok, err := redis.Open(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	if ok {
		defer rdb.Close()
		checks["redis"] = redis.HealthCheck(rdb)
		limiter = ratelimit.NewRedisLimiter(rdb, cfg.Messaging.RateLimit, cfg.Messaging.RateWindow,
			ratelimit.WithLogger(log),
		)
	} else {
		log.Warn("REDIS_URL not set; message rate limiting disabled")
	}

	auditLogger := audit.New(
		compliance.New(st.audit, compliance.WithLogger(log), compliance.WithMetrics(compliance.NewMetrics())),
		st.applications, st.runner,
		audit.WithLogger(log),
	)
	profileSvc := profileservice.New(st.profiles, st.runner, profileservice.WithLogger(log))
	appSvc := appservice.New(st.applications, st.runner,
		appservice.WithLogger(log),
		appservice.WithThreadReader(st.messages),
		appservice.WithCandidateChecker(profileSvc),
	)
	msgOpts := []msgservice.Option{msgservice.WithLogger(log)}
	if limiter != nil {
		msgOpts = append(msgOpts, msgservice.WithLimiter(limiter))
	}
	messagingSvc := msgservice.New(st.messages, st.applications, auditLogger, st.runner, msgOpts...)
	disclosureSvc := disclosureservice.New(profileSvc, appSvc, subscription.NewGate(st.profiles), auditLogger,
		disclosureservice.WithLogger(log),
		disclosureservice.WithMetrics(disclosuremetrics.New()),
		disclosureservice.WithThreadLister(messagingSvc),
	)

	jwt := jwttoken.NewJWTService(cfg.Auth.JWTSigningKey, cfg.Auth.JWTIssuer, cfg.Auth.JWTAudience)
	router := httptransport.NewRouter(httptransport.Config{
		Logger:    log,
		Validator: jwt.Validator(),
		Metrics:   metrics.New(),
		Checks:    checks,
		Handlers: []httptransport.Registrar{
			profilehandler.New(profileSvc, log),
			apphandler.New(appSvc, log),
			msghandler.New(messagingSvc, log),
			disclosurehandler.New(disclosureSvc, log),
		},
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return httpserver.Run(gctx, httpserver.New(cfg.Server.Addr, router), cfg.Server.ShutdownTimeout, log)
	})
	if st.db != nil {
		relay, client, err := newRelay(ctx, cfg, st.db, log)
		if err != nil {
			return err
		}
		if relay != nil {
			defer client.Close()
			g.Go(func() error {
				if err := relay.Run(gctx); err != nil && !errors.Is(err, context.Canceled) {
					return err
				}
				return nil
			})
		}
	}

	log.Info("talentlink started", "addr", cfg.Server.Addr, "durable", st.db != nil)
	return g.Wait()
}

// openStores selects Postgres when DATABASE_URL is set and the in-memory stores
// otherwise.
func openStores(ctx context.Context, cfg config.Config, log *slog.Logger) (*stores, error) {
	if cfg.Postgres.DSN == "" {
		log.Warn("DATABASE_URL not set; using in-memory stores")
		return &stores{
			profiles:     profilestore.NewInMemory(),
			applications: appstore.NewInMemory(),
			messages:     msgstore.NewInMemory(),
			audit:        auditmemory.NewInMemoryStore(),
			runner:       tx.NewShardedRunner(),
		}, nil
	}

	db, err := postgres.Open(ctx, cfg.Postgres)
	if err != nil {
		return nil, err
	}
	if err := postgres.Migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &stores{
		profiles:     profilestore.NewPostgres(db),
		applications: appstore.NewPostgres(db),
		messages:     msgstore.NewPostgres(db),
		audit:        auditpostgres.New(db),
		runner:       tx.NewPostgresRunner(db),
		db:           db,
	}, nil
}

// newRelay builds the outbox relay that ships audit entries to Kafka. It returns
// nil when no brokers are configured; entries then stay in the outbox table.
func newRelay(ctx context.Context, cfg config.Config, db *sql.DB, log *slog.Logger) (*outbox.Relay, *kgo.Client, error) {
	client, err := kafka.New(ctx, cfg.Kafka)
	if err != nil {
		return nil, nil, err
	}
	if client == nil {
		log.Warn("KAFKA_BROKERS not set; audit outbox relay disabled")
		return nil, nil, nil
	}
	if err := outbox.EnsureTopic(ctx, client, cfg.Kafka.AuditTopic, 6, 1); err != nil {
		client.Close()
		return nil, nil, err
	}
	relay := outbox.NewRelay(outbox.NewPostgresStore(db), outbox.NewKafkaPublisher(client, cfg.Kafka.AuditTopic),
		outbox.WithLogger(log),
		outbox.WithMetrics(outbox.NewMetrics()),
		outbox.WithInterval(cfg.Kafka.RelayInterval),
		outbox.WithBatchSize(cfg.Kafka.RelayBatchSize),
		outbox.WithCircuitBreaker(outbox.NewCircuitBreaker(5, 30*time.Second)),
	)
	return relay, client, nil
}
