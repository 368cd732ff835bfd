package ingest

import (
	"context"
	"fmt"
	"io"

	"github.com/shopspring/decimal"

	"wbsearch_api/internal/wildberries/models"
	"wbsearch_api/metrics"
	"wbsearch_api/pkg/business/service"
	"wbsearch_api/pkg/logger"
)

// Fetcher is the remote search surface the service pulls raw records from.
type Fetcher interface {
	SearchProducts(ctx context.Context, query string, limit int) ([]models.RawProduct, error)
}

// Upserter is the single write operation the service needs from storage.
type Upserter interface {
	Upsert(ctx context.Context, product *models.Product) (bool, error)
}

// Result sums up one ingest run. Failed counts records that were rejected
// before the store as well as records whose upsert failed.
type Result struct {
	Processed int
	Upserted  int
	Failed    int
}

// Service maps raw search records to normalized products and drives the
// upsert loop. A bad record fails alone; the run continues.
type Service struct {
	fetcher Fetcher
	repo    Upserter
	text    *service.TextService
	log     logger.Logger
}

func NewService(fetcher Fetcher, repo Upserter, text *service.TextService, writer io.Writer) *Service {
	return &Service{
		fetcher: fetcher,
		repo:    repo,
		text:    text,
		log:     logger.NewLogger(writer, "[Ingest]"),
	}
}

// RunSearch fetches listings for the query and stores them. The fetch is a
// single attempt; a remote failure aborts the run before any write.
func (s *Service) RunSearch(ctx context.Context, query string, limit int) (Result, error) {
	raws, err := s.fetcher.SearchProducts(ctx, query, limit)
	if err != nil {
		metrics.RecordIngestRun(0, 0, err)
		return Result{}, fmt.Errorf("failed to fetch products for %q: %w", query, err)
	}

	result, err := s.ProcessProducts(ctx, raws)
	metrics.RecordIngestRun(result.Upserted, result.Failed, err)
	if err != nil {
		return result, err
	}

	s.log.Log("Ingest run for %q: processed=%d upserted=%d failed=%d",
		query, result.Processed, result.Upserted, result.Failed)
	return result, nil
}

// ProcessProducts normalizes and upserts the given raw records one at a
// time. It only returns an error when the context is cancelled; per-record
// failures are counted in the result.
func (s *Service) ProcessProducts(ctx context.Context, raws []models.RawProduct) (Result, error) {
	var result Result

	for _, raw := range raws {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		result.Processed++

		product, err := s.normalize(raw)
		if err != nil {
			result.Failed++
			s.log.Log("Skipping record: %v", err)
			continue
		}

		changed, err := s.repo.Upsert(ctx, product)
		if err != nil {
			result.Failed++
			s.log.Log("Upsert failed for product %d: %v", product.ID, err)
			continue
		}
		if changed {
			result.Upserted++
		}
	}

	return result, nil
}

// normalize converts one raw record to a Product. Missing numeric fields
// default to zero and a missing name to empty text; a record without a
// usable id is rejected so it can never corrupt the primary key.
func (s *Service) normalize(raw models.RawProduct) (*models.Product, error) {
	id, ok := raw.ID()
	if !ok {
		return nil, fmt.Errorf("record has no usable id")
	}

	// priceU/salePriceU come in minor units; integer division truncates
	// to whole currency units.
	price := decimal.NewFromInt(raw.Int64Or("priceU", 0) / 100)
	discountPrice := decimal.NewFromInt(raw.Int64Or("salePriceU", 0) / 100)
	rating := decimal.NewFromFloat(raw.Float64Or("reviewRating", 0)).Round(1)

	feedbacks := raw.Int64Or("feedbacks", 0)
	if feedbacks < 0 {
		feedbacks = 0
	}

	return &models.Product{
		ID:            id,
		Name:          s.text.SanitizeName(raw.StringOr("name", "")),
		Price:         price,
		DiscountPrice: discountPrice,
		Rating:        rating,
		FeedbackCount: int(feedbacks),
	}, nil
}
