package storage

import (
	"fmt"
	"strings"
	"time"
)

// Package storage provides local DB/cache abstraction.

// Store tracks published product versions and the catalog sync cursor.
type Store interface {
	Close() error
	SeenProduct(key string) (bool, error)
	MarkProduct(key string) error
	Cursor() (string, error)
	SetCursor(cursor string) error
}

// Options controls retention characteristics for concrete store implementations.
type Options struct {
	ProductTTL      time.Duration
	CleanupInterval time.Duration
}

const (
	defaultProductTTL      = 5 * 24 * time.Hour
	defaultCleanupInterval = 12 * time.Hour
)

// NewStore creates the configured storage backend.
func NewStore(typ, path string, opts Options) (Store, error) {
	typ = strings.TrimSpace(strings.ToLower(typ))
	opts = normalizeOptions(opts)

	switch typ {
	case "", "none", "disabled":
		return noopStore{}, nil
	case "bbolt":
		if strings.TrimSpace(path) == "" {
			return nil, fmt.Errorf("bbolt storage requires a path")
		}
		return openBolt(path, opts)
	default:
		return nil, fmt.Errorf("unsupported storage type %q", typ)
	}
}

func normalizeOptions(opts Options) Options {
	if opts.ProductTTL <= 0 {
		opts.ProductTTL = defaultProductTTL
	}
	if opts.CleanupInterval <= 0 {
		opts.CleanupInterval = defaultCleanupInterval
	}
	return opts
}

type noopStore struct{}

func (noopStore) Close() error                     { return nil }
func (noopStore) SeenProduct(string) (bool, error) { return false, nil }
func (noopStore) MarkProduct(string) error         { return nil }
func (noopStore) Cursor() (string, error)          { return "", nil }
func (noopStore) SetCursor(string) error           { return nil }
