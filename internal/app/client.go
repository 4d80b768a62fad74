package app

import (
	"context"
	"fmt"

	"github.com/knawat/mp-go/internal/config"
	"github.com/knawat/mp-go/internal/logger"
	"github.com/knawat/mp-go/pkg/httpclient"
	"github.com/knawat/mp-go/pkg/mp"
)

// NewClient authenticates against the configured Knawat API.
func NewClient(ctx context.Context, cfg *config.Config, log logger.Logger) (*mp.MP, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if err := cfg.RequireCredentials(); err != nil {
		return nil, err
	}
	if log == nil {
		log = logger.NopLogger{}
	}

	opts := append(cfg.ClientOptions(), httpclient.WithLogger(log))
	client, err := mp.NewWithBaseURL(ctx, cfg.BaseURL, cfg.ConsumerKey, cfg.ConsumerSecret, opts...)
	if err != nil {
		return nil, fmt.Errorf("init knawat client: %w", err)
	}
	return client, nil
}
