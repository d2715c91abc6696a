package utils

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os/exec"
	"path/filepath"

	"github.com/Euraxluo/move-bridge/api/model/response"
	"github.com/Euraxluo/move-bridge/core"
	"github.com/Euraxluo/move-bridge/logger"
	"github.com/hashicorp/go-hclog"
)

// NewAPILogger derives the API logger from the main logger config, writing to
// its own api.log file next to the configured one.
func NewAPILogger(appConfig *core.AppConfig) (hclog.Logger, error) {
	apiLoggerConfig := appConfig.Logger

	if apiLoggerConfig.LogFilePath != "" {
		apiLoggerConfig.LogFilePath = filepath.Join(filepath.Dir(apiLoggerConfig.LogFilePath), "api.log")
	}

	apiLogger, err := logger.NewLogger(apiLoggerConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create api logger: %w", err)
	}

	return apiLogger, nil
}

func WriteResponse(w http.ResponseWriter, r *http.Request, status int, payload any, logger hclog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Error("failed to write response", "url", r.URL, "status", status, "err", err)
	}
}

func WriteErrorResponse(w http.ResponseWriter, r *http.Request, status int, err error, logger hclog.Logger) {
	logger.Warn("api request failed", "url", r.URL, "status", status, "err", err)

	WriteResponse(w, r, status, response.ErrorResponse{Err: err.Error()}, logger)
}

func WriteUnauthorizedResponse(w http.ResponseWriter, r *http.Request, logger hclog.Logger) {
	WriteErrorResponse(w, r, http.StatusUnauthorized, errors.New("Unauthorized"), logger)
}

// DecodeModel decodes the request body into T. On failure it writes a 400
// response and returns false, the caller should just return.
func DecodeModel[T any](w http.ResponseWriter, r *http.Request, logger hclog.Logger) (T, bool) {
	var requestBody T

	if err := json.NewDecoder(r.Body).Decode(&requestBody); err != nil {
		WriteErrorResponse(w, r, http.StatusBadRequest, fmt.Errorf("bad request: %w", err), logger)

		return requestBody, false
	}

	return requestBody, true
}

func FormatProcessOnPort(port uint32) string {
	process, err := ProcessOnPort(port)
	if err != nil {
		return err.Error()
	}

	return process
}

// ProcessOnPort returns the pid holding the tcp port, for startup diagnostics.
func ProcessOnPort(port uint32) (string, error) {
	var out bytes.Buffer

	cmd := exec.Command("sh", "-c", fmt.Sprintf("lsof -i tcp:%d | grep LISTEN | awk '{print $2}'", port)) //nolint:gosec
	cmd.Stdout = &out

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("cmd failed: %w", err)
	}

	return out.String(), nil
}
