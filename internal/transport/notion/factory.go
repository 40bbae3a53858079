package notion

import (
	"context"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/snapnote/internal/domain"
)

// SecretSource resolves a named secret, failing with domain.ErrConfigurationMissing.
type SecretSource interface {
	Lookup(name string) (string, error)
}

// FactoryConfig holds the settings shared by every Client.
type FactoryConfig struct {
	BaseURL       string
	Version       string
	Timeout       time.Duration
	APIKeyEnv     string
	DatabaseIDEnv string
	Properties    Properties
	Logger        *zap.Logger
}

// Factory builds a Client per invocation from credentials loaded at that moment.
// Only the underlying *http.Client is shared.
type Factory struct {
	secrets SecretSource
	http    *http.Client
	cfg     FactoryConfig
	logger  *zap.Logger
}

// NewFactory creates a factory. A nil httpClient gets one with cfg.Timeout.
func NewFactory(secrets SecretSource, httpClient *http.Client, cfg FactoryConfig) *Factory {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Factory{secrets: secrets, http: httpClient, cfg: cfg, logger: logger}
}

// Open implements domain.PageStoreFactory.
func (f *Factory) Open(_ context.Context) (domain.PageStore, error) {
	return f.open()
}

func (f *Factory) open() (*Client, error) {
	apiKey, err := f.secrets.Lookup(f.cfg.APIKeyEnv)
	if err != nil {
		return nil, err
	}
	databaseID, err := f.secrets.Lookup(f.cfg.DatabaseIDEnv)
	if err != nil {
		return nil, err
	}

	return &Client{
		http:       f.http,
		baseURL:    strings.TrimRight(f.cfg.BaseURL, "/"),
		version:    f.cfg.Version,
		apiKey:     apiKey,
		databaseID: databaseID,
		props:      f.cfg.Properties,
		logger:     f.logger,
	}, nil
}

// HealthCheck opens a client with current credentials and reads the schema.
func (f *Factory) HealthCheck(ctx context.Context) error {
	c, err := f.open()
	if err != nil {
		return err
	}
	return c.HealthCheck(ctx)
}
