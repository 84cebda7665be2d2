package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"royal_palate/internal/domain"
)

func valTime(p *time.Time) any {
	if p == nil {
		return nil
	}
	return p.UTC()
}

func valTags(tags []string) any {
	if tags == nil {
		tags = []string{}
	}
	b, _ := json.Marshal(tags)
	return string(b)
}

func scanTags(b []byte) []string {
	tags := []string{}
	if len(b) > 0 {
		_ = json.Unmarshal(b, &tags)
	}
	return tags
}

// Repo is the fixture database. The API only reads from it; cmd/seeder
// is the sole writer.
type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

func (r *Repo) UpsertCategory(ctx context.Context, c domain.Category, position int) error {
	_, err := r.db.ExecContext(ctx, upsertCategorySQL, c.ID, c.Name, position)
	return err
}

func (r *Repo) UpsertPost(ctx context.Context, p domain.Post) error {
	_, err := r.db.ExecContext(ctx, upsertPostSQL,
		p.ID,
		p.Title,
		p.Excerpt,
		p.Image,
		p.Date.UTC(),
		p.Location,
		p.Category,
		p.Rating,
		p.ReadTime,
		valTags(p.Tags),
		p.Featured,
	)
	return err
}

func (r *Repo) UpsertProduct(ctx context.Context, p domain.Product) error {
	_, err := r.db.ExecContext(ctx, upsertProductSQL,
		p.ID,
		p.Name,
		p.Description,
		p.Price,
		p.OriginalPrice,
		p.Image,
		p.Category,
		p.Rating,
		p.ReviewCount,
		p.InStock,
		valTags(p.Tags),
		p.Discount,
		p.Featured,
	)
	return err
}

func (r *Repo) UpsertReviews(ctx context.Context, rs []domain.Review) error {
	if len(rs) == 0 {
		return nil
	}
	values := make([]string, 0, len(rs))
	args := make([]any, 0, len(rs)*12) // 12 params per row
	for _, rv := range rs {
		values = append(values, "(?,?,?,?,?,?,?,?,?,?,?,?)")
		args = append(args,
			rv.ID,
			rv.RestaurantID,
			rv.Rating,
			rv.Title,
			rv.Comment,
			rv.Name,
			rv.Email,
			valTime(rv.VisitDate),
			rv.Recommended,
			rv.Date.UTC(),
			rv.Verified,
			rv.Helpful,
		)
	}
	sqlStr := insertReviewsPrefix + strings.Join(values, ",") + insertReviewsOnDup
	_, err := r.db.ExecContext(ctx, sqlStr, args...)
	return err
}

// ---- domain.FixtureSource ----

func (r *Repo) Categories(ctx context.Context) ([]domain.Category, error) {
	rows, err := r.db.QueryContext(ctx, listCategoriesSQL)
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	defer rows.Close()

	var out []domain.Category
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *Repo) Posts(ctx context.Context) ([]domain.Post, error) {
	rows, err := r.db.QueryContext(ctx, listPostsSQL)
	if err != nil {
		return nil, fmt.Errorf("query posts: %w", err)
	}
	defer rows.Close()

	var out []domain.Post
	for rows.Next() {
		var p domain.Post
		var tagsJSON []byte
		if err := rows.Scan(
			&p.ID, &p.Title, &p.Excerpt, &p.Image, &p.Date,
			&p.Location, &p.Category, &p.Rating, &p.ReadTime,
			&tagsJSON, &p.Featured,
		); err != nil {
			return nil, err
		}
		p.Tags = scanTags(tagsJSON)
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *Repo) Products(ctx context.Context) ([]domain.Product, error) {
	rows, err := r.db.QueryContext(ctx, listProductsSQL)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	var out []domain.Product
	for rows.Next() {
		var p domain.Product
		var tagsJSON []byte
		if err := rows.Scan(
			&p.ID, &p.Name, &p.Description, &p.Price, &p.OriginalPrice,
			&p.Image, &p.Category, &p.Rating, &p.ReviewCount, &p.InStock,
			&tagsJSON, &p.Discount, &p.Featured,
		); err != nil {
			return nil, err
		}
		p.Tags = scanTags(tagsJSON)
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *Repo) Reviews(ctx context.Context) ([]domain.Review, error) {
	rows, err := r.db.QueryContext(ctx, listReviewsSQL)
	if err != nil {
		return nil, fmt.Errorf("query reviews: %w", err)
	}
	defer rows.Close()

	var out []domain.Review
	for rows.Next() {
		var rv domain.Review
		var visit sql.NullTime
		if err := rows.Scan(
			&rv.ID, &rv.RestaurantID, &rv.Rating, &rv.Title, &rv.Comment,
			&rv.Name, &rv.Email, &visit, &rv.Recommended, &rv.Date,
			&rv.Verified, &rv.Helpful,
		); err != nil {
			return nil, err
		}
		if visit.Valid {
			v := visit.Time
			rv.VisitDate = &v
		}
		out = append(out, rv)
	}
	return out, rows.Err()
}

var _ domain.FixtureSource = (*Repo)(nil)
