package router

import (
	"database/sql"
	"net/http"
	"os"
	"strconv"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "kennel-ops/docs"
	"kennel-ops/internal/adapters/refdata/httpapi"
	"kennel-ops/internal/adapters/refdata/static"
	mem "kennel-ops/internal/adapters/storage/memory"
	pg "kennel-ops/internal/adapters/storage/postgres"
	"kennel-ops/internal/adapters/storage/sqlite"
	"kennel-ops/internal/domain/auditlog"
	"kennel-ops/internal/domain/bookings"
	"kennel-ops/internal/domain/carelogs"
	"kennel-ops/internal/middleware"
	"kennel-ops/internal/platform/logger"
	"kennel-ops/internal/platform/metrics"
	"kennel-ops/internal/ports/refdata"
)

type Options struct {
	// Opcional: si viene, usa Postgres. Si no, decide por env
	// (DB_DSN => postgres, SQLITE_PATH => sqlite, sino in-memory).
	DB *sql.DB

	// Opcional: directorio de clientes/animales. Si es nil, decide por
	// env (REFDATA_BASE_URL => HTTP, sino estático vacío).
	Refs refdata.Accessor

	// Opcional: logger. Si es nil, se crea desde env.
	Logger logger.Logger
}

func NewRouter(opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(metrics.HTTPMiddleware)

	r.Use(middleware.ActorContext())

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Method(http.MethodGet, "/metrics", metrics.Handler())
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	log := opts.Logger
	if log == nil {
		log = logger.NewFromEnv()
	}

	var (
		bookingRepo bookings.Repository
		careLogRepo carelogs.Repository
		auditRepo   auditlog.Repository
	)

	// Si no te pasan DB explícita, intenta por env (para dev/handoff)
	db := opts.DB
	if db == nil {
		if dsn := os.Getenv("DB_DSN"); dsn != "" {
			opened, err := pg.Open(dsn)
			if err == nil {
				db = opened
			} else {
				log.Error("postgres unavailable, falling back", map[string]any{"error": err.Error()})
			}
		}
	}

	switch {
	case db != nil:
		bookingRepo = pg.NewBookingsRepo(db)
		careLogRepo = pg.NewCareLogsRepo(db)
		auditRepo = pg.NewAuditLogRepo(db)
	case os.Getenv("SQLITE_PATH") != "":
		store, err := sqlite.Open(os.Getenv("SQLITE_PATH"))
		if err != nil {
			log.Error("sqlite unavailable, falling back to memory", map[string]any{"error": err.Error()})
			auditRepo = mem.NewAuditLogRepo()
			bookingRepo = mem.NewBookingRepo(auditRepo)
			careLogRepo = mem.NewCareLogRepo()
		} else {
			bookingRepo = store.Bookings()
			careLogRepo = store.CareLogs()
			auditRepo = store.AuditLog()
		}
	default:
		auditRepo = mem.NewAuditLogRepo()
		bookingRepo = mem.NewBookingRepo(auditRepo)
		careLogRepo = mem.NewCareLogRepo()
	}

	refs := opts.Refs
	if refs == nil {
		if baseURL := os.Getenv("REFDATA_BASE_URL"); baseURL != "" {
			client, err := httpapi.NewClient(httpapi.Config{
				BaseURL: baseURL,
				APIKey:  os.Getenv("REFDATA_API_KEY"),
			})
			if err != nil {
				log.Error("refdata client misconfigured, using empty directory", map[string]any{"error": err.Error()})
				refs = static.New()
			} else {
				refs = client
			}
		} else {
			refs = static.New()
		}
	}

	// Services por módulo
	bookingsSvc := bookings.NewService(bookingRepo, refs)
	careLogsSvc := carelogs.NewService(careLogRepo)
	auditSvc := auditlog.NewService(auditRepo)

	if on, _ := strconv.ParseBool(os.Getenv("CASCADE_CARE_LOGS")); on {
		bookingsSvc.EnableCareLogCascade(careLogRepo)
	}

	// Rutas por módulo
	bookings.RegisterRoutes(r, bookingsSvc, log)
	carelogs.RegisterRoutes(r, careLogsSvc)
	auditlog.RegisterRoutes(r, auditSvc)

	return r
}
