package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/evoting/core/log"
	"github.com/evoting/core/voting"
)

const maxRequestBodyLog = 512 // Maximum length of request body to log

// APIConfig holds the configuration for the API HTTP server.
type APIConfig struct {
	Host string
	Port int
}

// API is the HTTP server wrapping a voting.Server.
type API struct {
	router *chi.Mux
	server *voting.Server

	parentCtx context.Context
}

// New creates an API bound to the given voting.Server and starts listening
// in the background.
func New(ctx context.Context, conf *APIConfig, server *voting.Server) (*API, error) {
	if conf == nil {
		return nil, fmt.Errorf("missing API configuration")
	}
	if server == nil {
		return nil, fmt.Errorf("missing voting server instance")
	}

	a := &API{server: server, parentCtx: ctx}
	a.initRouter()

	go func() {
		log.Infow("starting API server", "host", conf.Host, "port", conf.Port)
		if err := http.ListenAndServe(fmt.Sprintf("%s:%d", conf.Host, conf.Port), a.router); err != nil {
			log.Fatalf("failed to start the API server: %v", err)
		}
	}()
	return a, nil
}

// Router returns the chi router for testing purposes.
func (a *API) Router() *chi.Mux {
	return a.router
}

// registerHandlers registers all the HTTP handlers for the API endpoints.
func (a *API) registerHandlers() {
	log.Infow("register handler", "endpoint", PingEndpoint, "method", "GET")
	a.router.Get(PingEndpoint, func(w http.ResponseWriter, r *http.Request) {
		httpWriteOK(w)
	})

	log.Infow("register handler", "endpoint", PublicKeyEndpoint, "method", "GET")
	a.router.Get(PublicKeyEndpoint, a.publicKey)

	log.Infow("register handler", "endpoint", VotesEndpoint, "method", "POST")
	a.router.Post(VotesEndpoint, a.newVote)

	log.Infow("register handler", "endpoint", OpenEndpoint, "method", "POST")
	a.router.Post(OpenEndpoint, a.openVote)

	log.Infow("register handler", "endpoint", ResultEndpoint, "method", "GET")
	a.router.Get(ResultEndpoint, a.result)
}

// initRouter creates the router with all the routes and middleware.
func (a *API) initRouter() {
	a.router = chi.NewRouter()
	a.router.Use(cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}).Handler)
	a.router.Use(loggingMiddleware(maxRequestBodyLog))
	a.router.Use(middleware.Recoverer)
	a.router.Use(middleware.Throttle(100))
	a.router.Use(middleware.ThrottleBacklog(5000, 40000, 60*time.Second))
	a.router.Use(middleware.Timeout(45 * time.Second))

	a.registerHandlers()
}
