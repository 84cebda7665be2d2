package app

import (
	"fmt"

	"royal_palate/internal/domain"
)

// CatalogService serves the blog and storefront datasets. It is built once
// from fixtures and is read-only afterwards.
type CatalogService struct {
	posts      []domain.Post
	products   []domain.Product
	categories []domain.Category
}

func NewCatalogService(posts []domain.Post, products []domain.Product, categories []domain.Category) *CatalogService {
	return &CatalogService{posts: posts, products: products, categories: categories}
}

func (s *CatalogService) ListPosts(q domain.PostQuery) []domain.Post {
	return domain.FilterPosts(s.posts, q)
}

func (s *CatalogService) FeaturedPosts() []domain.Post {
	out := make([]domain.Post, 0)
	for _, p := range s.posts {
		if p.Featured {
			out = append(out, p)
		}
	}
	return out
}

func (s *CatalogService) GetPost(id int64) (domain.Post, error) {
	for _, p := range s.posts {
		if p.ID == id {
			return p, nil
		}
	}
	return domain.Post{}, fmt.Errorf("post %d: %w", id, domain.ErrNotFound)
}

// ListProducts returns products in catalog order; "" or "all" means every category.
func (s *CatalogService) ListProducts(category string) []domain.Product {
	out := make([]domain.Product, 0, len(s.products))
	for _, p := range s.products {
		if category == "" || category == "all" || p.Category == category {
			out = append(out, p)
		}
	}
	return out
}

func (s *CatalogService) GetProduct(id int64) (domain.Product, error) {
	for _, p := range s.products {
		if p.ID == id {
			return p, nil
		}
	}
	return domain.Product{}, fmt.Errorf("product %d: %w", id, domain.ErrNotFound)
}

func (s *CatalogService) Categories() []domain.Category {
	out := make([]domain.Category, len(s.categories))
	copy(out, s.categories)
	return out
}

func (s *CatalogService) Recommend(viewed []int64) domain.Recommendations {
	return domain.Recommend(s.products, viewed)
}
