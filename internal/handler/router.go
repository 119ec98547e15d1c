package handler

import (
	"net/http"

	"contract-analyzer/internal/domain"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

const serviceName = "contract-analyzer"

// NewRouter creates a new HTTP router with all routes configured. Every route
// is served both at the root and under /api.
func NewRouter(
	documentHandler *DocumentHandler,
	analysisHandler *AnalysisHandler,
	logger domain.Logger,
	allowedOrigins []string,
) http.Handler {
	router := mux.NewRouter()
	router.Use(RequestID, RequestLogger(logger), Recoverer(logger))

	for _, r := range []*mux.Router{router, router.PathPrefix("/api").Subrouter()} {
		r.HandleFunc("/health", health).Methods(http.MethodGet)
		r.HandleFunc("/upload", documentHandler.Upload).Methods(http.MethodPost)
		r.HandleFunc("/parse", documentHandler.Parse).Methods(http.MethodPost)
		r.HandleFunc("/analyze", analysisHandler.Analyze).Methods(http.MethodPost)
	}

	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "Not found")
	})
	router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	c := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodOptions,
		},
		AllowedHeaders: []string{
			"Accept",
			"Content-Type",
			requestIDHeader,
		},
		ExposedHeaders: []string{
			requestIDHeader,
		},
		MaxAge: 300, // Maximum value not ignored by any of major browsers
	})

	return c.Handler(router)
}

func health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "service": serviceName})
}
