package httpapi

import (
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/DoyleJ11/quizboard/internal/pages"
)

type Options struct {
	Pages       fs.FS
	CORSOrigins []string
	Metrics     *Metrics // nil disables /metrics
}

func SetupRoutes(d Deps, opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(d.Log))
	if opts.Metrics != nil {
		r.Use(opts.Metrics.Middleware)
	}
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, http.StatusNotFound, "Not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	// Pages
	if opts.Pages != nil {
		r.Get("/", pages.Handler(opts.Pages, pages.Index))
		r.Get("/host", pages.Handler(opts.Pages, pages.Host))
		r.Get("/public", pages.Handler(opts.Pages, pages.Public))
	}

	// API
	r.Route("/api", func(r chi.Router) {
		r.Get("/questions", GetQuestions(d))
		r.Get("/questions/save", GetQuestionsForEdit(d))
		r.Post("/questions/save", SaveQuestions(d))
		r.Get("/scores", GetScores(d))
		r.Post("/scores", UpdateScore(d))
		r.Post("/reset_scores", ResetScores(d))
		r.Get("/rounds", GetRounds(d))
	})

	r.Get("/debug/questions", DebugQuestions(d))
	r.Get("/healthz", Healthz(d))
	if opts.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", opts.Metrics.Handler())
	}
	return r
}
