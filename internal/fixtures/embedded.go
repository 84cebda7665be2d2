// Package fixtures serves the site's static datasets from JSON files compiled
// into the binary.
package fixtures

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"

	"royal_palate/internal/domain"
)

//go:embed data/*.json
var files embed.FS

type Embedded struct{ fs embed.FS }

func New() *Embedded { return &Embedded{fs: files} }

func (e *Embedded) Posts(ctx context.Context) ([]domain.Post, error) {
	var out []domain.Post
	return out, e.decode("data/posts.json", &out)
}

func (e *Embedded) Products(ctx context.Context) ([]domain.Product, error) {
	var out []domain.Product
	return out, e.decode("data/products.json", &out)
}

func (e *Embedded) Categories(ctx context.Context) ([]domain.Category, error) {
	var out []domain.Category
	return out, e.decode("data/categories.json", &out)
}

func (e *Embedded) Reviews(ctx context.Context) ([]domain.Review, error) {
	var out []domain.Review
	return out, e.decode("data/reviews.json", &out)
}

func (e *Embedded) decode(name string, out any) error {
	b, err := e.fs.ReadFile(name)
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	if err := json.Unmarshal(b, out); err != nil {
		return fmt.Errorf("decode %s: %w", name, err)
	}
	return nil
}
