package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cavidescun/314q34wefasd/internal/catalog"
	catalogstore "github.com/cavidescun/314q34wefasd/internal/catalog/store"
	"github.com/cavidescun/314q34wefasd/internal/homologation/lock"
	hmetrics "github.com/cavidescun/314q34wefasd/internal/homologation/metrics"
	"github.com/cavidescun/314q34wefasd/internal/homologation/service"
	"github.com/cavidescun/314q34wefasd/internal/homologation/store/memory"
	recordstore "github.com/cavidescun/314q34wefasd/internal/homologation/store/postgres"
	httpapi "github.com/cavidescun/314q34wefasd/internal/http"
	"github.com/cavidescun/314q34wefasd/internal/platform/config"
	"github.com/cavidescun/314q34wefasd/internal/platform/kafka"
	"github.com/cavidescun/314q34wefasd/internal/platform/postgres"
	platformredis "github.com/cavidescun/314q34wefasd/internal/platform/redis"
	"github.com/cavidescun/314q34wefasd/internal/providers/email"
	"github.com/cavidescun/314q34wefasd/internal/providers/ocr"
	"github.com/cavidescun/314q34wefasd/internal/providers/storage"
	"github.com/cavidescun/314q34wefasd/internal/providers/ticketing"
	"github.com/cavidescun/314q34wefasd/internal/ratelimit"
	audit "github.com/cavidescun/314q34wefasd/pkg/platform/audit"
	auditconsumer "github.com/cavidescun/314q34wefasd/pkg/platform/audit/consumer"
	auditkafka "github.com/cavidescun/314q34wefasd/pkg/platform/audit/store/kafka"
	auditmemory "github.com/cavidescun/314q34wefasd/pkg/platform/audit/store/memory"
	auditpostgres "github.com/cavidescun/314q34wefasd/pkg/platform/audit/store/postgres"
)

// infra holds the shared connections. Every field is optional; nil selects
// the in-process fallback of whatever depends on it.
type infra struct {
	db       *sql.DB
	redis    *platformredis.Client
	kafka    *kafka.Client
	catalog  *pgxpool.Pool
	calendar *pgxpool.Pool
	closers  []func()
}

func openInfra(ctx context.Context, cfg *config.Config, log *slog.Logger) (*infra, error) {
	in := &infra{}
	fail := func(err error) (*infra, error) {
		in.Close()
		return nil, err
	}

	db, err := postgres.Open(ctx, cfg.Postgres)
	if err != nil {
		return fail(err)
	}
	if db != nil {
		in.db = db
		in.closers = append(in.closers, func() { _ = db.Close() })
		if _, err := db.ExecContext(ctx, recordstore.Schema); err != nil {
			return fail(fmt.Errorf("apply record schema: %w", err))
		}
		if _, err := db.ExecContext(ctx, auditpostgres.Schema); err != nil {
			return fail(fmt.Errorf("apply audit schema: %w", err))
		}
	} else {
		log.Warn("DATABASE_URL not set; using in-memory record stores")
	}

	rc, err := platformredis.New(ctx, cfg.Redis)
	if err != nil {
		return fail(err)
	}
	if rc != nil {
		in.redis = rc
		in.closers = append(in.closers, func() { _ = rc.Close() })
	}

	kc, err := kafka.New(ctx, cfg.Kafka)
	if err != nil {
		return fail(err)
	}
	if kc != nil {
		in.kafka = kc
		in.closers = append(in.closers, kc.Close)
		if err := kc.EnsureTopic(ctx, 3, 1); err != nil {
			return fail(err)
		}
	}

	if in.catalog, err = postgres.OpenPool(ctx, cfg.Catalog); err != nil {
		return fail(err)
	}
	if in.catalog != nil {
		in.closers = append(in.closers, in.catalog.Close)
	} else {
		log.Warn("PROGRAM_CATALOG_URL not set; program lookups will degrade")
	}
	if in.calendar, err = postgres.OpenPool(ctx, cfg.Calendar); err != nil {
		return fail(err)
	}
	if in.calendar != nil {
		in.closers = append(in.closers, in.calendar.Close)
	} else {
		log.Warn("ACADEMIC_CALENDAR_URL not set; period and semester lookups will degrade")
	}
	return in, nil
}

// Close releases connections in reverse order of opening.
func (in *infra) Close() {
	for i := len(in.closers) - 1; i >= 0; i-- {
		in.closers[i]()
	}
	in.closers = nil
}

func (in *infra) HealthChecks() map[string]httpapi.HealthCheck {
	checks := map[string]httpapi.HealthCheck{}
	if in.db != nil {
		checks["postgres"] = in.db.PingContext
	}
	if in.redis != nil {
		checks["redis"] = in.redis.Health
	}
	if in.kafka != nil {
		checks["kafka"] = in.kafka.Health
	}
	return checks
}

func buildStores(in *infra) service.Stores {
	if in.db == nil {
		return service.Stores{
			Students:      memory.NewStudents(),
			Contacts:      memory.NewContacts(),
			Homologations: memory.NewHomologations(),
			Documents:     memory.NewDocuments(),
			Intakes:       memory.NewIntakes(),
			Tx:            memory.NewTxRunner(),
		}
	}
	return service.Stores{
		Students:      recordstore.NewStudents(in.db),
		Contacts:      recordstore.NewContacts(in.db),
		Homologations: recordstore.NewHomologations(in.db),
		Documents:     recordstore.NewDocuments(in.db),
		Intakes:       recordstore.NewIntakes(in.db),
		Tx:            postgres.NewTxRunner(in.db),
	}
}

func buildLocker(cfg *config.Config, in *infra) service.Locker {
	if in.redis != nil {
		return lock.NewRedisLocker(in.redis.Client, cfg.Redis.IntakeLockTTL)
	}
	return lock.NewMemoryLocker(cfg.Redis.IntakeLockTTL)
}

func buildCollaborators(cfg *config.Config, in *infra, m *hmetrics.Metrics, log *slog.Logger) (service.Collaborators, *catalog.Resolver, error) {
	validator, err := ocr.New(cfg.OCR, ocr.WithLogger(log))
	if err != nil {
		return service.Collaborators{}, nil, fmt.Errorf("ocr client: %w", err)
	}
	blobs, err := storage.New(cfg.Storage)
	if err != nil {
		return service.Collaborators{}, nil, fmt.Errorf("blob storage: %w", err)
	}

	ticketOpts := []ticketing.Option{
		ticketing.WithCircuitObserver(m),
		ticketing.WithLogger(log),
	}
	if in.redis != nil {
		ticketOpts = append(ticketOpts, ticketing.WithTokenCache(ticketing.NewRedisTokenCache(in.redis.Client)))
	}
	tickets, err := ticketing.New(cfg.Ticketing, ticketOpts...)
	if err != nil {
		return service.Collaborators{}, nil, fmt.Errorf("ticketing client: %w", err)
	}

	notifier, err := email.New(cfg.Email)
	if err != nil {
		return service.Collaborators{}, nil, fmt.Errorf("email client: %w", err)
	}

	resolver := buildResolver(cfg, in, log)
	return service.Collaborators{
		Validator: validator,
		Storage:   blobs,
		Catalog:   resolver,
		Ticketing: tickets,
		Notifier:  notifier,
	}, resolver, nil
}

func buildResolver(cfg *config.Config, in *infra, log *slog.Logger) *catalog.Resolver {
	// A nil pool must stay a nil interface so the resolver degrades.
	var programs catalog.ProgramCatalog
	if in.catalog != nil {
		programs = catalogstore.NewPrograms(in.catalog)
	}
	var calendar catalog.AcademicCalendar
	if in.calendar != nil {
		calendar = catalogstore.NewCalendar(in.calendar)
	}

	catalogMetrics := catalog.NewMetrics()
	var cache catalog.LookupCache = catalog.NewInMemoryCache(cfg.Redis.CatalogTTL)
	if in.redis != nil {
		cache = catalog.NewRedisCache(in.redis.Client, cfg.Redis.CatalogTTL, catalogMetrics)
	}
	return catalog.NewResolver(programs, calendar,
		catalog.WithCache(cache),
		catalog.WithMetrics(catalogMetrics),
		catalog.WithLogger(log),
		catalog.WithTimeout(cfg.Timeouts.Catalog),
	)
}

func buildRateLimit(cfg *config.Config, in *infra, log *slog.Logger) *ratelimit.Middleware {
	var store ratelimit.Store = ratelimit.NewMemoryStore()
	if in.redis != nil {
		store = ratelimit.NewRedisStore(in.redis.Client)
	}
	return ratelimit.New(store, ratelimit.Limit{Requests: cfg.RateLimit.Writes, Window: cfg.RateLimit.Window}, log)
}

type auditSink struct {
	store audit.Store
	log   audit.Lister
}

// buildAudit picks the audit sink. With Kafka, events go to the topic and,
// when Postgres is available, a consumer materializes them for the audit
// trail route. Without Kafka, Postgres or memory is written directly.
func buildAudit(ctx context.Context, cfg *config.Config, in *infra, log *slog.Logger) (auditSink, error) {
	switch {
	case in.kafka != nil:
		sink := auditSink{store: auditkafka.New(in.kafka.Client, in.kafka.Topic)}
		if in.db == nil {
			return sink, nil
		}
		materialized := auditpostgres.New(in.db)
		consumer, err := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.AuditGroup, cfg.Kafka.AuditTopic, log)
		if err != nil {
			return auditSink{}, err
		}
		in.closers = append(in.closers, consumer.Close)
		go func() {
			if err := consumer.Run(ctx, auditconsumer.NewHandler(materialized, log)); err != nil && ctx.Err() == nil {
				log.Error("audit consumer stopped", "error", err)
			}
		}()
		sink.log = materialized
		return sink, nil
	case in.db != nil:
		store := auditpostgres.New(in.db)
		return auditSink{store: store, log: store}, nil
	default:
		store := auditmemory.NewInMemoryStore()
		return auditSink{store: store, log: store}, nil
	}
}
