package models

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Monetary fields go out as JSON numbers, matching the read API
	// contract.
	decimal.MarshalJSONWithoutQuotes = true
}

// Product is a stored search listing. The id comes from wb.ru and stays
// stable across updates.
type Product struct {
	ID            int64           `json:"id"`
	Name          string          `json:"name"`
	Price         decimal.Decimal `json:"price"`
	DiscountPrice decimal.Decimal `json:"discount_price"`
	Rating        decimal.Decimal `json:"rating"`
	FeedbackCount int             `json:"feedback_count"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// ProductFilters carries the optional constraints of a product query. A
// nil field imposes no constraint; an exact value for a field makes the
// repository ignore that field's min/max bounds.
type ProductFilters struct {
	ExactPrice *int64
	MinPrice   *int64
	MaxPrice   *int64

	ExactRating *decimal.Decimal
	MinRating   *decimal.Decimal
	MaxRating   *decimal.Decimal

	ExactFeedbacks *int
	MinFeedbacks   *int
	MaxFeedbacks   *int
}
