package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/mind-engage/fsquiz/internal/config"
	"github.com/mind-engage/fsquiz/internal/logging"
	"github.com/mind-engage/fsquiz/internal/storage"
)

// Deps are the collaborators the router serves. Assets and DB are optional.
type Deps struct {
	Events   EventLister
	Quiz     QuizService
	Renderer DocumentRenderer
	Assets   storage.BlobStore
	DB       Pinger
}

func NewRouter(cfg config.Config, d Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, logging.Middleware, middleware.Recoverer)
	if cfg.RequestTimeout > 0 {
		r.Use(middleware.Timeout(cfg.RequestTimeout))
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSOrigins(),
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
		ExposedHeaders: []string{"Content-Disposition", "Content-Length"},
		MaxAge:         300,
	}))

	r.Get("/", RootHandler)
	r.Get("/healthz", HealthzHandler)
	r.Get("/readyz", ReadyzHandler(d.DB))

	r.Route("/api", func(ar chi.Router) {
		ar.Get("/events", EventsHandler(d.Events))
		ar.Get("/generateRange", GenerateRangeHandler(d.Quiz))
		ar.Post("/grade", GradeHandler(d.Quiz))
		ar.Post("/exportPDFQuestions", ExportQuestionsHandler(d.Renderer))
	})

	if cfg.ExposeAssets && d.Assets != nil {
		r.Route("/assets", func(ar chi.Router) {
			MountAssets(ar, d.Assets)
		})
	}
	return r
}
