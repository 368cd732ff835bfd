package storage

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"strings"

	"wbsearch_api/internal/wildberries/models"
	"wbsearch_api/pkg/logger"
)

// ProductRepository owns every read and write against
// wildberries.products. Writes run in their own transaction and roll back
// on failure before the error is propagated.
type ProductRepository struct {
	db  *sql.DB
	log logger.Logger
}

func NewProductRepository(db *sql.DB, writer io.Writer) *ProductRepository {
	return &ProductRepository{
		db:  db,
		log: logger.NewLogger(writer, "[ProductRepository]"),
	}
}

const upsertProductQuery = `
		INSERT INTO wildberries.products (
			id, name, price, discount_price, rating, feedback_count
		) VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			price = EXCLUDED.price,
			discount_price = EXCLUDED.discount_price,
			rating = EXCLUDED.rating,
			feedback_count = EXCLUDED.feedback_count,
			updated_at = CURRENT_TIMESTAMP;`

// Upsert inserts the product or overwrites all mutable fields of the
// existing row with the same id, refreshing updated_at. Concurrent writers
// of one id are serialized by the ON CONFLICT resolution, the later write
// wins. Reports whether a row was affected.
func (r *ProductRepository) Upsert(ctx context.Context, product *models.Product) (bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("failed to begin upsert transaction: %w", err)
	}

	res, err := tx.ExecContext(ctx, upsertProductQuery,
		product.ID,
		product.Name,
		product.Price,
		product.DiscountPrice,
		product.Rating,
		product.FeedbackCount,
	)
	if err != nil {
		tx.Rollback()
		r.log.Log("Error upserting product %d: %v", product.ID, err)
		return false, fmt.Errorf("failed to upsert product %d: %w", product.ID, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		tx.Rollback()
		return false, fmt.Errorf("failed to read upsert result for product %d: %w", product.ID, err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit upsert of product %d: %w", product.ID, err)
	}
	return affected > 0, nil
}

const selectProductsQuery = `SELECT id, name, price, discount_price, rating, feedback_count, updated_at
			  FROM wildberries.products`

// buildProductQuery assembles the WHERE clause for a filtered read. Per
// field, an exact value fully replaces the min/max bounds; fields combine
// with AND. Results are ordered by id ascending.
func buildProductQuery(filters models.ProductFilters) (string, []interface{}) {
	var sb strings.Builder
	sb.WriteString(selectProductsQuery)
	sb.WriteString(" WHERE 1=1")

	args := make([]interface{}, 0, 6)

	appendRange := func(column string, exact, minVal, maxVal interface{}) {
		if exact != nil {
			args = append(args, exact)
			fmt.Fprintf(&sb, " AND %s = $%d", column, len(args))
			return
		}
		if minVal != nil {
			args = append(args, minVal)
			fmt.Fprintf(&sb, " AND %s >= $%d", column, len(args))
		}
		if maxVal != nil {
			args = append(args, maxVal)
			fmt.Fprintf(&sb, " AND %s <= $%d", column, len(args))
		}
	}

	appendRange("price", opt(filters.ExactPrice), opt(filters.MinPrice), opt(filters.MaxPrice))
	appendRange("rating", opt(filters.ExactRating), opt(filters.MinRating), opt(filters.MaxRating))
	appendRange("feedback_count", opt(filters.ExactFeedbacks), opt(filters.MinFeedbacks), opt(filters.MaxFeedbacks))

	sb.WriteString(" ORDER BY id")
	return sb.String(), args
}

// opt unwraps an optional filter value so a nil pointer stays a plain nil
// inside interface{}.
func opt[T any](p *T) interface{} {
	if p == nil {
		return nil
	}
	return *p
}

// GetFiltered returns every product satisfying the filters. No matching
// rows is an empty slice, not an error.
func (r *ProductRepository) GetFiltered(ctx context.Context, filters models.ProductFilters) ([]models.Product, error) {
	query, args := buildProductQuery(filters)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.log.Log("Error reading products: %v", err)
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	products := make([]models.Product, 0)
	for rows.Next() {
		var p models.Product
		if err := rows.Scan(
			&p.ID, &p.Name, &p.Price, &p.DiscountPrice,
			&p.Rating, &p.FeedbackCount, &p.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan product row: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read product rows: %w", err)
	}

	return products, nil
}

// ClearAll removes every stored product and reports whether any rows were
// removed. Clearing an already empty table is not an error.
func (r *ProductRepository) ClearAll(ctx context.Context) (bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("failed to begin clear transaction: %w", err)
	}

	res, err := tx.ExecContext(ctx, "DELETE FROM wildberries.products;")
	if err != nil {
		tx.Rollback()
		r.log.Log("Error clearing products: %v", err)
		return false, fmt.Errorf("failed to clear products: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		tx.Rollback()
		return false, fmt.Errorf("failed to read clear result: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit clear: %w", err)
	}

	r.log.Log("Cleared %d products", affected)
	return affected > 0, nil
}
