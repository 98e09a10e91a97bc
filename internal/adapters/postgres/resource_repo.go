package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/samirrijal/digitalshield/internal/core/domain"
)

const resourceColumns = `
	id, title, description, content, category, type, difficulty_level,
	COALESCE(read_time, ''), COALESCE(url, ''), tags, is_featured, created_at`

// ResourceRepo implements ports.ResourceRepository with pgx.
type ResourceRepo struct {
	db *DB
}

func NewResourceRepo(db *DB) *ResourceRepo {
	return &ResourceRepo{db: db}
}

// Upsert inserts or updates a resource keyed by id.
func (r *ResourceRepo) Upsert(ctx context.Context, res *domain.Resource) error {
	tags := res.Tags
	if tags == nil {
		tags = []string{}
	}
	_, err := r.db.Pool.Exec(ctx, `
		INSERT INTO resources (id, title, description, content, category, type, difficulty_level, read_time, url, tags, is_featured)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (id) DO UPDATE
		SET title = EXCLUDED.title, description = EXCLUDED.description,
		    content = EXCLUDED.content, category = EXCLUDED.category,
		    type = EXCLUDED.type, difficulty_level = EXCLUDED.difficulty_level,
		    read_time = EXCLUDED.read_time, url = EXCLUDED.url,
		    tags = EXCLUDED.tags, is_featured = EXCLUDED.is_featured,
		    updated_at = now()
	`, res.ID, res.Title, res.Description, res.Content, res.Category, res.Kind, res.DifficultyLevel,
		nilIfEmpty(res.ReadTime), nilIfEmpty(res.URL), tags, res.IsFeatured)
	return err
}

func (r *ResourceRepo) GetByID(ctx context.Context, id string) (*domain.Resource, error) {
	row := r.db.Pool.QueryRow(ctx, `SELECT `+resourceColumns+` FROM resources WHERE id = $1`, id)
	res, err := scanResource(row)
	if err != nil {
		return nil, notFound(err)
	}
	return res, nil
}

// List returns featured resources first, then by title.
func (r *ResourceRepo) List(ctx context.Context, f domain.ResourceFilter) ([]domain.Resource, error) {
	var (
		where []string
		args  []any
	)
	if f.Category != "" {
		args = append(args, f.Category)
		where = append(where, fmt.Sprintf("category = $%d", len(args)))
	}
	if f.FeaturedOnly {
		where = append(where, "is_featured")
	}
	if f.Search != "" {
		args = append(args, containsPattern(f.Search))
		where = append(where, fmt.Sprintf("(title ILIKE $%[1]d OR description ILIKE $%[1]d OR $%[2]d = ANY(tags))", len(args), len(args)+1))
		args = append(args, strings.ToLower(f.Search))
	}

	q := `SELECT ` + resourceColumns + ` FROM resources`
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += " ORDER BY is_featured DESC, title"

	rows, err := r.db.Pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Resource{}
	for rows.Next() {
		res, err := scanResource(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *res)
	}
	return out, rows.Err()
}

func scanResource(row pgx.Row) (*domain.Resource, error) {
	var res domain.Resource
	if err := row.Scan(
		&res.ID, &res.Title, &res.Description, &res.Content, &res.Category, &res.Kind,
		&res.DifficultyLevel, &res.ReadTime, &res.URL, &res.Tags, &res.IsFeatured, &res.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &res, nil
}
