package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/knawat/mp-go/internal/domain"
	"github.com/knawat/mp-go/internal/logger"
	"github.com/knawat/mp-go/pkg/mp"
	"github.com/knawat/mp-go/pkg/publishers"
)

const (
	defaultPageSize = 25
	defaultLanguage = "en"
	sortField       = "updated"
	sortOrder       = "asc"
)

// Report summarizes one sync pass.
type Report struct {
	Fetched   int    `json:"fetched"`
	Skipped   int    `json:"skipped"`
	Published int    `json:"published"`
	Failed    int    `json:"failed"`
	Cursor    string `json:"cursor"`
}

// Service runs catalog sync passes: products changed since the stored cursor
// are summarized and published once per revision.
type Service struct {
	source    ProductSource
	publisher EventPublisher
	store     Store
	pageSize  int
	language  string
	log       logger.Logger
}

// Option customizes a Service.
type Option func(*Service)

// WithPageSize sets how many products one pass requests.
func WithPageSize(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.pageSize = n
		}
	}
}

// WithLanguage selects the language used for names and descriptions.
func WithLanguage(lang string) Option {
	return func(s *Service) {
		if lang != "" {
			s.language = lang
		}
	}
}

// WithLogger sets the service logger.
func WithLogger(log logger.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

// NewService wires a sync service.
func NewService(source ProductSource, publisher EventPublisher, store Store, opts ...Option) *Service {
	s := &Service{
		source:    source,
		publisher: publisher,
		store:     store,
		pageSize:  defaultPageSize,
		language:  defaultLanguage,
		log:       logger.NopLogger{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run executes one sync pass.
func (s *Service) Run(ctx context.Context) (Report, error) {
	if s == nil || s.source == nil || s.store == nil {
		return Report{}, fmt.Errorf("catalog service is not initialized")
	}

	cursor, err := s.store.Cursor()
	if err != nil {
		return Report{}, fmt.Errorf("read sync cursor: %w", err)
	}
	report := Report{Cursor: cursor}

	products, err := s.fetch(ctx, cursor)
	if err != nil {
		return report, err
	}
	report.Fetched = len(products)

	var errs []error
	advance := true
	for _, p := range products {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}

		published, skipped, err := s.process(ctx, p)
		switch {
		case err != nil:
			report.Failed++
			advance = false
			errs = append(errs, err)
			s.log.ErrorObj("product sync failed", "product_error", map[string]any{
				"sku":   p.SKU,
				"error": err.Error(),
			})
		case skipped:
			report.Skipped++
		case published:
			report.Published++
		}

		if advance && err == nil && p.Updated > report.Cursor {
			report.Cursor = p.Updated
		}
	}

	if report.Cursor != cursor {
		if err := s.store.SetCursor(report.Cursor); err != nil {
			errs = append(errs, fmt.Errorf("store sync cursor: %w", err))
		}
	}

	s.log.InfoObj("catalog sync pass completed", "sync_report", report)
	return report, errors.Join(errs...)
}

func (s *Service) fetch(ctx context.Context, cursor string) ([]domain.Product, error) {
	res, err := s.source.GetProductsResult(ctx, mp.ProductsQuery{
		Limit:      s.pageSize,
		Page:       1,
		LastUpdate: cursor,
		SortField:  sortField,
		SortOrder:  sortOrder,
	})
	if err != nil {
		return nil, fmt.Errorf("fetch products: %w", err)
	}
	if err := res.StatusError(); err != nil {
		return nil, fmt.Errorf("fetch products: %w", err)
	}

	var page struct {
		Products []domain.Product `json:"products"`
	}
	if err := res.Decode(&page); err != nil {
		return nil, fmt.Errorf("decode products: %w", err)
	}
	return page.Products, nil
}

// process publishes p unless its revision was already published.
func (s *Service) process(ctx context.Context, p domain.Product) (published, skipped bool, err error) {
	if p.SKU == "" {
		s.log.WarnObj("product without sku ignored", "product", p.Updated)
		return false, true, nil
	}

	key := p.VersionKey()
	seen, err := s.store.SeenProduct(key)
	if err != nil {
		s.log.WarnObj("seen-product lookup failed; publishing anyway", "product_lookup", map[string]any{
			"key":   key,
			"error": err.Error(),
		})
	} else if seen {
		return false, true, nil
	}

	evt := publishers.NewEvent(Summarize(p, s.language))
	if s.publisher != nil {
		if _, err := s.publisher.Publish(ctx, evt); err != nil {
			return false, false, fmt.Errorf("publish product %s: %w", p.SKU, err)
		}
	}

	if err := s.store.MarkProduct(key); err != nil {
		s.log.WarnObj("mark product failed", "product_mark", map[string]any{
			"key":   key,
			"error": err.Error(),
		})
	}
	return true, false, nil
}
