package http

import (
	"log/slog"
	"os"

	"github.com/cmlabs-hris/hris-attendance-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

type RouterConfig struct {
	Logger         *slog.Logger
	AllowedOrigins []string
}

func NewRouter(cfg RouterConfig, JWTService jwt.Service, attendanceHandler AttendanceHandler, reportHandler ReportHandler) *chi.Mux {
	r := chi.NewRouter()

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Content-Disposition"},
		MaxAge:           300,
	}))

	r.Use(chiMiddleware.RealIP)

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1/attendance", func(r chi.Router) {
		// EventSource cannot set headers, so the token may also come as ?jwt=
		r.Use(jwtauth.Verify(JWTService.JWTAuth(), jwtauth.TokenFromHeader, jwtauth.TokenFromQuery))
		r.Use(middleware.AuthRequired(JWTService.JWTAuth()))

		r.Post("/clock-in", attendanceHandler.ClockIn)
		r.Post("/clock-out", attendanceHandler.ClockOut)

		r.Route("/employees/{employeeID}", func(r chi.Router) {
			r.Use(middleware.RequireEmployeeAccess("employeeID"))

			r.Get("/status", attendanceHandler.GetStatus)
			r.Get("/today", attendanceHandler.GetToday)
			r.Get("/logs", attendanceHandler.GetLogs)
			r.Get("/monthly", attendanceHandler.GetMonthly)
			r.Get("/stream", attendanceHandler.Stream)

			r.Route("/summaries", func(r chi.Router) {
				r.Get("/", attendanceHandler.GetSummaryRange)
				r.Get("/export", reportHandler.ExportSummaries)
				r.Get("/{date}", attendanceHandler.GetSummary)
				r.Post("/{date}/reconcile", attendanceHandler.ReconcileSummary)
			})
		})
	})

	return r
}

// NewLogger builds the JSON application logger shared by the request logger.
func NewLogger(appName, version, env, level string) *slog.Logger {
	logFormat := httplog.SchemaECS.Concise(env != "development")

	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       parseLevel(level),
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", appName),
		slog.String("version", version),
		slog.String("env", env),
	)
}

func parseLevel(level string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return slog.LevelInfo
	}
	return l
}
