package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/lucentlab/lucent/pkg/usecase/intake"
	"github.com/lucentlab/lucent/pkg/usecase/product"
)

// Config holds server wiring
type Config struct {
	Addr           string
	AllowedOrigins []string
	Logger         *slog.Logger
}

// NewRouter builds the API router. Split out from New so tests can drive the
// handlers without binding a listener.
func NewRouter(intakeUC *intake.UseCase, productUC *product.UseCase, cfg Config) chi.Router {
	h := &Handler{
		intake:   intakeUC,
		products: productUC,
	}

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(Logger(cfg.Logger))
	r.Use(AccessLog)
	r.Use(CORS(cfg.AllowedOrigins))

	r.Get("/", h.Liveness)
	r.Route("/api", func(r chi.Router) {
		r.Post("/generate-question", h.GenerateQuestion)
		r.Get("/products", h.ListProducts)
		r.Get("/products/{productID}", h.GetProduct)
	})

	return r
}

// New creates the HTTP server for the intake API.
func New(intakeUC *intake.UseCase, productUC *product.UseCase, cfg Config) *http.Server {
	return &http.Server{
		Addr:        cfg.Addr,
		Handler:     NewRouter(intakeUC, productUC, cfg),
		ReadTimeout: 30 * time.Second,
		// No write timeout: a generate-question request blocks on the model
		// call, which has no upstream deadline.
		WriteTimeout: 0,
		IdleTimeout:  120 * time.Second,
	}
}
