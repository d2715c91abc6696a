package relayercomponents

import (
	"context"
	"errors"
	"fmt"

	"github.com/Euraxluo/move-bridge/api"
	apiCore "github.com/Euraxluo/move-bridge/api/core"
	"github.com/Euraxluo/move-bridge/api/controllers"
	"github.com/Euraxluo/move-bridge/authenticator"
	"github.com/Euraxluo/move-bridge/common"
	"github.com/Euraxluo/move-bridge/core"
	databaseaccess "github.com/Euraxluo/move-bridge/database_access"
	"github.com/Euraxluo/move-bridge/relayer"
	"github.com/Euraxluo/move-bridge/telemetry"
	"github.com/hashicorp/go-hclog"
)

// RelayerComponentsImpl assembles the relayer service: the processed message
// store, the message authenticator, the chain adapters with the orchestrator
// on top, the HTTP API and telemetry.
type RelayerComponentsImpl struct {
	ctx           context.Context
	shouldRunAPI  bool
	appConfig     *core.AppConfig
	db            core.Database
	authenticator core.Authenticator
	relayer       core.Relayer
	api           apiCore.API
	telemetry     *telemetry.Telemetry
	logger        hclog.Logger
}

func NewRelayerComponents(
	ctx context.Context,
	appConfig *core.AppConfig,
	shouldRunAPI bool,
	logger hclog.Logger,
) (*RelayerComponentsImpl, error) {
	shouldRunAPI = shouldRunAPI && appConfig.APIConfig.IsEnabled()

	telemetryObj := telemetry.NewTelemetry(appConfig.Telemetry, logger.Named("telemetry"))

	db, err := databaseaccess.NewDatabase(appConfig.DbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open relayer database: %w", err)
	}

	messageAuthenticator, err := createAuthenticator(appConfig, logger.Named("authenticator"))
	if err != nil {
		return nil, fmt.Errorf("failed to create message authenticator: %w", err)
	}

	relayerObj, err := relayer.NewRelayer(appConfig, messageAuthenticator, db, nil, logger.Named("relayer"))
	if err != nil {
		return nil, fmt.Errorf("failed to create relayer: %w", err)
	}

	var apiObj *api.APIImpl

	if shouldRunAPI {
		apiControllers := []apiCore.APIController{
			controllers.NewRelayerController(
				appConfig, relayerObj, messageAuthenticator, db, logger.Named("relayer_controller")),
		}

		apiObj, err = api.NewAPI(ctx, appConfig.APIConfig, apiControllers, logger.Named("api"))
		if err != nil {
			return nil, fmt.Errorf("failed to create api: %w", err)
		}
	}

	return &RelayerComponentsImpl{
		ctx:           ctx,
		shouldRunAPI:  shouldRunAPI,
		appConfig:     appConfig,
		db:            db,
		authenticator: messageAuthenticator,
		relayer:       relayerObj,
		api:           apiObj,
		telemetry:     telemetryObj,
		logger:        logger,
	}, nil
}

// createAuthenticator builds the message authenticator from the configured
// signing key, or generates an ephemeral keypair when none is set.
func createAuthenticator(appConfig *core.AppConfig, logger hclog.Logger) (*authenticator.MessageAuthenticator, error) {
	policy := authenticator.PolicyFromConfig(appConfig)

	if appConfig.Authenticator.SigningKey != "" {
		seed, err := common.DecodeHex(appConfig.Authenticator.SigningKey)
		if err != nil {
			return nil, fmt.Errorf("failed to decode signing key: %w", err)
		}

		return authenticator.NewMessageAuthenticator(seed, policy, logger)
	}

	logger.Info("No signing key configured, generating an ephemeral keypair")

	return authenticator.GenerateMessageAuthenticator(policy, logger)
}

func (rc *RelayerComponentsImpl) Start() error {
	rc.logger.Debug("Starting RelayerComponents")

	if err := rc.telemetry.Start(); err != nil {
		return err
	}

	go rc.relayer.Start(rc.ctx)

	if rc.shouldRunAPI {
		go rc.api.Start()
	}

	if rc.telemetry.IsEnabled() {
		worker := NewTelemetryWorker(
			rc.db, rc.authenticator, rc.appConfig.Telemetry.PullTime, rc.logger.Named("telemetry_worker"))

		go worker.Start(rc.ctx)
	}

	rc.logger.Debug("Started RelayerComponents",
		"publicKey", common.EncodeHex(rc.authenticator.PublicKey()))

	return nil
}

func (rc *RelayerComponentsImpl) Dispose() error {
	rc.logger.Info("Disposing RelayerComponents")

	errs := make([]error, 0)

	if rc.shouldRunAPI {
		if err := rc.api.Dispose(); err != nil {
			rc.logger.Error("error while disposing api", "err", err)
			errs = append(errs, fmt.Errorf("error while disposing api: %w", err))
		}
	}

	if err := rc.db.Close(); err != nil {
		rc.logger.Error("Failed to close relayer db", "err", err)
		errs = append(errs, fmt.Errorf("failed to close relayer db: %w", err))
	}

	if err := rc.telemetry.Close(context.Background()); err != nil {
		rc.logger.Error("Failed to close telemetry", "err", err)
		errs = append(errs, fmt.Errorf("failed to close telemetry: %w", err))
	}

	if len(errs) > 0 {
		return fmt.Errorf("errors while disposing relayercomponents: %w", errors.Join(errs...))
	}

	rc.logger.Info("RelayerComponents disposed")

	return nil
}
