package product

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"hotelmart/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
)

const productColumns = `id::text, name, slug, category, price::float8, count_in_stock, image, description, brand, rating, num_reviews, created_at`

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger logrus.FieldLogger
}

func NewPostgres(pool *pgxpool.Pool, logger logrus.FieldLogger) Repository {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &postgresRepo{pool: pool, logger: logger}
}

func (r *postgresRepo) List(ctx context.Context, q Query) ([]domain.Product, error) {
	sql, args := buildListQuery(q)
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		r.logger.WithError(err).Error("product repo: list")
		return nil, err
	}
	defer rows.Close()

	result := []domain.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *p)
	}
	if err := rows.Err(); err != nil {
		r.logger.WithError(err).Error("product repo: list rows")
		return nil, err
	}
	r.logger.WithFields(logrus.Fields{"category": q.Category, "text": q.Text, "count": len(result)}).Debug("product repo: list")
	return result, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	return r.getOne(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1::uuid`, id)
}

func (r *postgresRepo) GetBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	return r.getOne(ctx, `SELECT `+productColumns+` FROM products WHERE slug = $1`, slug)
}

func (r *postgresRepo) getOne(ctx context.Context, q string, arg string) (*domain.Product, error) {
	p, err := scanProduct(r.pool.QueryRow(ctx, q, arg))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.Is(err, pgx.ErrNoRows) || (errors.As(err, &pgErr) && pgErr.Code == "22P02") {
			r.logger.WithField("lookup", arg).Debug("product repo: not found")
			return nil, domain.ErrNotFound
		}
		r.logger.WithError(err).WithField("lookup", arg).Error("product repo: get")
		return nil, err
	}
	return p, nil
}

func (r *postgresRepo) Upsert(ctx context.Context, p domain.Product) (*domain.Product, error) {
	const q = `
INSERT INTO products (name, slug, category, price, count_in_stock, image, description, brand, rating, num_reviews)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
ON CONFLICT (slug) DO UPDATE SET
    name = EXCLUDED.name,
    category = EXCLUDED.category,
    price = EXCLUDED.price,
    count_in_stock = EXCLUDED.count_in_stock,
    image = EXCLUDED.image,
    description = EXCLUDED.description,
    brand = EXCLUDED.brand,
    rating = EXCLUDED.rating,
    num_reviews = EXCLUDED.num_reviews
RETURNING ` + productColumns
	out, err := scanProduct(r.pool.QueryRow(ctx, q,
		p.Name, p.Slug, p.Category, p.Price, p.CountInStock, p.Image, p.Description, p.Brand, p.Rating, p.NumReviews,
	))
	if err != nil {
		r.logger.WithError(err).WithField("slug", p.Slug).Error("product repo: upsert")
		return nil, fmt.Errorf("upsert product %q: %w", p.Slug, err)
	}
	r.logger.WithFields(logrus.Fields{"slug": out.Slug, "id": out.ID}).Debug("product repo: upserted")
	return out, nil
}

func scanProduct(row pgx.Row) (*domain.Product, error) {
	var p domain.Product
	if err := row.Scan(&p.ID, &p.Name, &p.Slug, &p.Category, &p.Price, &p.CountInStock, &p.Image,
		&p.Description, &p.Brand, &p.Rating, &p.NumReviews, &p.CreatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

// buildListQuery turns q into parameterised SQL. Text and category match
// case-insensitively as substrings.
func buildListQuery(q Query) (string, []interface{}) {
	var (
		where []string
		args  []interface{}
	)
	add := func(cond string, v interface{}) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}
	if c := strings.TrimSpace(q.Category); c != "" {
		add("category ILIKE $%d", "%"+escapeLike(c)+"%")
	}
	if t := strings.TrimSpace(q.Text); t != "" {
		add("name ILIKE $%d", "%"+escapeLike(t)+"%")
	}
	if q.MinPrice != nil {
		add("price >= $%d", *q.MinPrice)
	}
	if q.MaxPrice != nil {
		add("price <= $%d", *q.MaxPrice)
	}

	var b strings.Builder
	b.WriteString("SELECT " + productColumns + " FROM products")
	if len(where) > 0 {
		b.WriteString(" WHERE " + strings.Join(where, " AND "))
	}
	b.WriteString(" ORDER BY " + orderClause(q.Sort))
	return b.String(), args
}

func orderClause(sort string) string {
	switch sort {
	case SortLowest:
		return "price ASC, name ASC"
	case SortHighest:
		return "price DESC, name ASC"
	case SortTopRated:
		return "rating DESC, name ASC"
	case SortNewest:
		return "created_at DESC"
	default:
		return "name ASC"
	}
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
