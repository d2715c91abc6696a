// @title Move Bridge Relayer API
// @version 1.0
// @BasePath /api
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key
package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/Euraxluo/move-bridge/api/core"
	"github.com/Euraxluo/move-bridge/api/utils"
	"github.com/Euraxluo/move-bridge/common"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/hashicorp/go-hclog"
)

const (
	apiStartDelay      = 5 * time.Second
	apiShutdownTimeout = 5 * time.Second
)

type APIImpl struct {
	ctx       context.Context
	apiConfig core.APIConfig
	handler   http.Handler
	server    *http.Server
	apiKeys   map[string]struct{}
	logger    hclog.Logger

	serverClosedCh chan bool
}

var _ core.API = (*APIImpl)(nil)

func NewAPI(
	ctx context.Context, apiConfig core.APIConfig,
	controllers []core.APIController, logger hclog.Logger,
) (
	*APIImpl, error,
) {
	api := &APIImpl{
		ctx:       ctx,
		apiConfig: apiConfig,
		apiKeys:   make(map[string]struct{}, len(apiConfig.APIKeys)),
		logger:    logger,
	}

	for _, apiKey := range apiConfig.APIKeys {
		api.apiKeys[apiKey] = struct{}{}
	}

	if len(api.apiKeys) == 0 {
		logger.Warn("no api keys configured, protected endpoints will reject every request")
	}

	router := mux.NewRouter().StrictSlash(true)

	for _, controller := range controllers {
		api.registerController(router, controller)
	}

	api.handler = handlers.CORS(
		handlers.AllowedOrigins(apiConfig.AllowedOrigins),
		handlers.AllowedHeaders(apiConfig.AllowedHeaders),
		handlers.AllowedMethods(apiConfig.AllowedMethods),
	)(router)

	return api, nil
}

func (api *APIImpl) registerController(router *mux.Router, controller core.APIController) {
	for _, endpoint := range controller.GetEndpoints() {
		endpointPath := fmt.Sprintf("/%s/%s/%s",
			api.apiConfig.PathPrefix, controller.GetPathPrefix(), endpoint.Path)

		endpointHandler := endpoint.Handler
		if endpoint.APIKeyAuth {
			endpointHandler = api.withAPIKeyAuth(endpointHandler)
		}

		router.HandleFunc(endpointPath, api.withCallLogging(endpoint.Path, endpointHandler)).
			Methods(endpoint.Method)

		api.logger.Debug("registered api endpoint", "endpoint", endpointPath, "method", endpoint.Method)
	}
}

func (api *APIImpl) Start() {
	// give the OS a moment to release the port from a previous run
	select {
	case <-api.ctx.Done():
		return
	case <-time.After(apiStartDelay):
	}

	api.serverClosedCh = make(chan bool, 1)

	err := common.RetryForever(api.ctx, apiStartDelay, func(ctx context.Context) error {
		srvCtx, cancelFunc := context.WithCancel(ctx)
		defer cancelFunc()

		api.server = &http.Server{
			Addr:              fmt.Sprintf(":%d", api.apiConfig.Port),
			Handler:           api.handler,
			ReadHeaderTimeout: 3 * time.Second,
			ConnContext:       func(ctx context.Context, c net.Conn) context.Context { return srvCtx },
			BaseContext:       func(l net.Listener) context.Context { return srvCtx },
		}

		api.logger.Debug("starting api", "port", api.apiConfig.Port)

		err := api.server.ListenAndServe()
		if err == nil || errors.Is(err, http.ErrServerClosed) {
			return nil
		}

		api.logger.Error("failed to start api, retrying",
			"err", err, "port", api.apiConfig.Port,
			"process", utils.FormatProcessOnPort(api.apiConfig.Port))

		api.server.Close()

		return err
	})
	if err != nil {
		api.logger.Error("api server exited", "err", err)
	}

	api.logger.Debug("api stopped")
	api.serverClosedCh <- true
}

func (api *APIImpl) Dispose() error {
	if api.server == nil {
		return nil
	}

	var apiErrors []error

	if err := api.server.Shutdown(context.Background()); err != nil {
		apiErrors = append(apiErrors, fmt.Errorf("failed to shutdown api server: %w", err))
	}

	select {
	case <-api.serverClosedCh:
	case <-time.After(apiShutdownTimeout):
		api.logger.Debug("api not closed after a timeout, closing forcefully")

		if err := api.server.Close(); err != nil {
			apiErrors = append(apiErrors, fmt.Errorf("failed to close api server: %w", err))
		}
	}

	return errors.Join(apiErrors...)
}

func (api *APIImpl) withAPIKeyAuth(handler core.APIEndpointHandler) core.APIEndpointHandler {
	return func(w http.ResponseWriter, r *http.Request) {
		apiKey := r.Header.Get(api.apiConfig.APIKeyHeader)
		if apiKey == "" {
			utils.WriteUnauthorizedResponse(w, r, api.logger)

			return
		}

		if _, authorized := api.apiKeys[apiKey]; !authorized {
			utils.WriteUnauthorizedResponse(w, r, api.logger)

			return
		}

		handler(w, r)
	}
}

func (api *APIImpl) withCallLogging(path string, handler core.APIEndpointHandler) core.APIEndpointHandler {
	return func(w http.ResponseWriter, r *http.Request) {
		api.logger.Debug("endpoint called", "path", path, "url", r.URL)
		handler(w, r)
		api.logger.Debug("endpoint call finished", "path", path, "url", r.URL)
	}
}
