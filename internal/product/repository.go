package product

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"nutrimart-be/internal/logger"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"go.uber.org/zap"
)

type Repository interface {
	GetByID(ctx context.Context, id string) (*Product, error)
	// GetByIDs resolves many products in one query. Unknown ids are simply
	// absent from the result map.
	GetByIDs(ctx context.Context, ids []string) (map[string]*Product, error)
	GetList(ctx context.Context, opts QueryOptions) ([]*Product, error)
	Create(ctx context.Context, input NewProductInput) (*Product, error)
	Update(ctx context.Context, id string, input UpdateProductInput) (*Product, error)
	Delete(ctx context.Context, id string) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const productColumns = `
	id, name, imageurl, flavor, category, weight,
	description, price, count_in_stock, rating, num_reviews,
	created_at, updated_at`

func scanProduct(s interface{ Scan(...any) error }) (*Product, error) {
	var p Product
	err := s.Scan(
		&p.ID, &p.Name, &p.ImageURL, &p.Flavor, &p.Category, &p.Weight,
		&p.Description, &p.Price, &p.CountInStock, &p.Rating, &p.NumReviews,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Product, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+productColumns+`
		FROM products
		WHERE id = $1
	`, id)

	p, err := scanProduct(row)
	if err == sql.ErrNoRows {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *repository) GetByIDs(ctx context.Context, ids []string) (map[string]*Product, error) {
	result := make(map[string]*Product, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT `+productColumns+`
		FROM products
		WHERE id = ANY($1)
	`, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		result[p.ID] = p
	}

	return result, rows.Err()
}

func (r *repository) GetList(ctx context.Context, opts QueryOptions) ([]*Product, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "GetProductList"),
	)

	start := time.Now()

	// ---------- pagination ----------
	limit := opts.Limit
	if limit == 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	page := opts.Page
	if page == 0 {
		page = 1
	}
	offset := int(page-1) * int(limit)

	// ---------- where ----------
	where := []string{"1=1"}
	args := []any{}

	if opts.Search != nil && *opts.Search != "" {
		where = append(where, fmt.Sprintf(
			"(name ILIKE $%d OR description ILIKE $%d)",
			len(args)+1, len(args)+1,
		))
		args = append(args, "%"+*opts.Search+"%")
	}

	if opts.Category != nil && *opts.Category != "" {
		where = append(where, fmt.Sprintf("category = $%d", len(args)+1))
		args = append(args, *opts.Category)
	}

	if opts.InStock != nil {
		if *opts.InStock {
			where = append(where, "count_in_stock > 0")
		} else {
			where = append(where, "count_in_stock = 0")
		}
	}

	// ---------- sort ----------
	field := "created_at"
	switch opts.SortField {
	case "price":
		field = "price"
	case "name":
		field = "name"
	case "rating":
		field = "rating"
	}

	dir := "ASC"
	if opts.SortDesc {
		dir = "DESC"
	}

	query := `
	SELECT ` + productColumns + `
	FROM products
	WHERE ` + strings.Join(where, " AND ") + `
	ORDER BY ` + field + ` ` + dir + `
	LIMIT $` + fmt.Sprint(len(args)+1) + `
	OFFSET $` + fmt.Sprint(len(args)+2)

	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("query failed",
			zap.Error(err),
			zap.Duration("duration", time.Since(start)),
		)
		return nil, err
	}
	defer rows.Close()

	result := make([]*Product, 0, limit)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			log.Error("row scan failed", zap.Error(err))
			return nil, err
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	log.Debug("query success",
		zap.Int("rows", len(result)),
		zap.Duration("duration", time.Since(start)),
	)

	return result, nil
}

func (r *repository) Create(ctx context.Context, input NewProductInput) (*Product, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "CreateProduct"),
		zap.String("name", input.Name),
	)

	row := r.db.QueryRowContext(ctx, `
		INSERT INTO products (
			id, name, imageurl, flavor, category, weight,
			description, price, count_in_stock
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		RETURNING `+productColumns+`
	`,
		uuid.New().String(), input.Name, input.ImageURL, input.Flavor,
		input.Category, input.Weight, input.Description,
		input.Price, input.CountInStock,
	)

	p, err := scanProduct(row)
	if err != nil {
		log.Error("failed to create product", zap.Error(err))
		return nil, err
	}

	log.Info("product created", zap.String("product_id", p.ID))
	return p, nil
}

func (r *repository) Update(ctx context.Context, id string, input UpdateProductInput) (*Product, error) {
	set := []string{"updated_at = NOW()"}
	args := []any{}

	addSet := func(col string, v any) {
		set = append(set, fmt.Sprintf("%s = $%d", col, len(args)+1))
		args = append(args, v)
	}

	if input.Name != nil {
		addSet("name", *input.Name)
	}
	if input.ImageURL != nil {
		addSet("imageurl", *input.ImageURL)
	}
	if input.Flavor != nil {
		addSet("flavor", *input.Flavor)
	}
	if input.Category != nil {
		addSet("category", *input.Category)
	}
	if input.Weight != nil {
		addSet("weight", *input.Weight)
	}
	if input.Description != nil {
		addSet("description", *input.Description)
	}
	if input.Price != nil {
		addSet("price", *input.Price)
	}
	if input.CountInStock != nil {
		addSet("count_in_stock", *input.CountInStock)
	}

	query := `
		UPDATE products
		SET ` + strings.Join(set, ", ") + `
		WHERE id = $` + fmt.Sprint(len(args)+1) + `
		RETURNING ` + productColumns

	args = append(args, id)

	p, err := scanProduct(r.db.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *repository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrProductNotFound
	}

	return nil
}
