package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/The127/ioc"
	"github.com/the127/keyv/internal/config"
	"github.com/the127/keyv/internal/handlers/valuehandlers"
	"github.com/the127/keyv/internal/logging"
	"github.com/the127/keyv/internal/middlewares"

	gh "github.com/gorilla/handlers"
	"github.com/gorilla/mux"
)

func NewRouter(root *ioc.DependencyProvider, serverConfig config.ServerConfig) *mux.Router {
	r := mux.NewRouter()

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logging.Logger.Infof("Not found API Request: %s %s", r.Method, r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"code":    "Not Found",
			"message": "route not found",
		})
	})

	r.Use(middlewares.LoggingMiddleware())
	r.Use(middlewares.RecoverMiddleware())
	r.Use(middlewares.ScopeMiddleware(root))

	r.Use(gh.CORS(
		gh.AllowedOrigins(serverConfig.AllowedOrigins),
		gh.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE"}),
		gh.AllowedHeaders([]string{"Content-Type", middlewares.RequestIdHeader}),
		gh.ExposedHeaders([]string{middlewares.RequestIdHeader}),
		gh.MaxAge(3600),
	))

	mapApi(r)

	return r
}

// Serve starts listening in the background, the returned server is used to
// shut it down.
func Serve(root *ioc.DependencyProvider, serverConfig config.ServerConfig) *http.Server {
	addr := fmt.Sprintf("%s:%d", serverConfig.Host, serverConfig.Port)
	logging.Logger.Infof("Starting server on %s", addr)
	srv := &http.Server{
		Addr:    addr,
		Handler: NewRouter(root, serverConfig),
	}

	go serve(srv)
	return srv
}

func serve(srv *http.Server) {
	err := srv.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		panic(fmt.Errorf("error while running server: %w", err))
	}
}

func mapApi(r *mux.Router) {
	apiRouter := r.PathPrefix("/api/v1").Subrouter()
	apiRouter.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}).Methods(http.MethodGet, http.MethodOptions)

	namespaceRouter := apiRouter.PathPrefix("/namespaces/{namespace}").Subrouter()

	namespaceRouter.HandleFunc("/values:mget", valuehandlers.GetValues).Methods(http.MethodPost, http.MethodOptions)
	namespaceRouter.HandleFunc("/values:mset", valuehandlers.SetValues).Methods(http.MethodPost, http.MethodOptions)
	namespaceRouter.HandleFunc("/values", valuehandlers.ClearValues).Methods(http.MethodDelete, http.MethodOptions)

	namespaceRouter.HandleFunc("/values/{key}", valuehandlers.GetValue).Methods(http.MethodGet, http.MethodOptions)
	namespaceRouter.HandleFunc("/values/{key}", valuehandlers.PutValue).Methods(http.MethodPut, http.MethodOptions)
	namespaceRouter.HandleFunc("/values/{key}", valuehandlers.DeleteValue).Methods(http.MethodDelete, http.MethodOptions)
}
