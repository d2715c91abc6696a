package core

// APIConfig configures the relayer HTTP API. A zero port disables the API
// regardless of the run flag.
type APIConfig struct {
	Port           uint32   `json:"port"`
	PathPrefix     string   `json:"pathPrefix"`
	AllowedHeaders []string `json:"allowedHeaders"`
	AllowedOrigins []string `json:"allowedOrigins"`
	AllowedMethods []string `json:"allowedMethods"`
	APIKeyHeader   string   `json:"apiKeyHeader"`
	APIKeys        []string `json:"apiKeys"`
}

func (config APIConfig) IsEnabled() bool {
	return config.Port != 0
}
