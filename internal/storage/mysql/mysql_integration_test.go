//go:build integration

package mysql_test

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"

	"royal_palate/internal/app"
	"royal_palate/internal/domain"
	"royal_palate/internal/fixtures"
	"royal_palate/internal/storage/memory"
	mysqlrepo "royal_palate/internal/storage/mysql"
)

func migrationsDir(t *testing.T) string {
	t.Helper()
	if v := os.Getenv("MIGRATIONS_DIR"); v != "" {
		return v
	}
	return filepath.Join("..", "..", "..", "migrations")
}

func applyMigrations(t *testing.T, db *sql.DB) {
	t.Helper()
	dir := migrationsDir(t)

	st, err := os.Stat(dir)
	if err != nil || !st.IsDir() {
		t.Fatalf("MIGRATIONS_DIR=%s is not a directory or missing", dir)
	}

	ents, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read migrations dir: %v", err)
	}
	var files []string
	for _, e := range ents {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".sql" {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	if len(files) == 0 {
		t.Fatalf("no .sql files in %s", dir)
	}
	sort.Strings(files)

	for _, f := range files {
		sqlBytes, err := os.ReadFile(f)
		if err != nil {
			t.Fatalf("read %s: %v", f, err)
		}
		if _, err := db.Exec(string(sqlBytes)); err != nil {
			t.Fatalf("exec %s: %v", f, err)
		}
	}
}

func startMySQL(t *testing.T) *sql.DB {
	t.Helper()
	// Let Docker pick a free host port.
	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Fatalf("dockertest: %v", err)
	}

	runOpts := &dockertest.RunOptions{
		Repository: "mysql",
		Tag:        "8.0.36",
		Env: []string{
			"MYSQL_ROOT_PASSWORD=root",
			"MYSQL_DATABASE=palate",
		},
	}
	resource, err := pool.RunWithOptions(runOpts, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Fatalf("run mysql: %v", err)
	}
	t.Cleanup(func() { _ = pool.Purge(resource) })

	hostPort := resource.GetPort("3306/tcp")
	dsn := fmt.Sprintf("root:%s@tcp(127.0.0.1:%s)/%s?parseTime=true&multiStatements=true&charset=utf8mb4,utf8&loc=UTC",
		"root", hostPort, "palate")

	var db *sql.DB
	if err := pool.Retry(func() error {
		var e error
		db, e = sql.Open("mysql", dsn)
		if e != nil {
			return e
		}
		return db.Ping()
	}); err != nil {
		t.Fatalf("connect mysql: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	applyMigrations(t, db)
	return db
}

func TestRepo_MySQL_UpsertAndRead(t *testing.T) {
	db := startMySQL(t)
	repo := mysqlrepo.New(db)
	ctx := context.Background()

	if err := repo.UpsertCategory(ctx, domain.Category{ID: "fine-dining", Name: "Fine Dining"}, 1); err != nil {
		t.Fatalf("UpsertCategory: %v", err)
	}
	post := domain.Post{
		ID: 7, Title: "The Gilded Crust", Excerpt: "Bread fit for a coronation",
		Date: time.Date(2024, 11, 2, 0, 0, 0, 0, time.UTC), Category: "fine-dining",
		Rating: 4, ReadTime: "5 min read", Tags: []string{"bakery"}, Featured: true,
	}
	if err := repo.UpsertPost(ctx, post); err != nil {
		t.Fatalf("UpsertPost: %v", err)
	}
	if err := repo.UpsertProduct(ctx, domain.Product{
		ID: 3, Name: "Crown Platter", Price: 49.5, OriginalPrice: 65, Category: "serveware",
		Rating: 4.7, ReviewCount: 12, InStock: false, Discount: 24,
	}); err != nil {
		t.Fatalf("UpsertProduct: %v", err)
	}

	visit := time.Date(2024, 10, 30, 0, 0, 0, 0, time.UTC)
	reviews := []domain.Review{
		{ID: 10, RestaurantID: 7, Rating: 5, Title: "Crisp", Comment: "Perfect crust", Name: "Ana", Email: "ana@example.com",
			VisitDate: &visit, Recommended: true, Date: time.Date(2024, 11, 3, 9, 0, 0, 0, time.UTC), Helpful: 3},
		{ID: 11, RestaurantID: 7, Rating: 2, Title: "Stale", Comment: "Yesterday's loaf", Name: "Bob", Email: "bob@example.com",
			Date: time.Date(2024, 11, 4, 9, 0, 0, 0, time.UTC)},
	}
	if err := repo.UpsertReviews(ctx, reviews); err != nil {
		t.Fatalf("UpsertReviews: %v", err)
	}
	// re-seeding with a lower counter must not roll helpful back
	reviews[0].Helpful = 1
	if err := repo.UpsertReviews(ctx, reviews[:1]); err != nil {
		t.Fatalf("UpsertReviews again: %v", err)
	}

	cats, err := repo.Categories(ctx)
	if err != nil || len(cats) != 1 || cats[0].Name != "Fine Dining" {
		t.Fatalf("Categories: %+v %v", cats, err)
	}
	posts, err := repo.Posts(ctx)
	if err != nil || len(posts) != 1 {
		t.Fatalf("Posts: %+v %v", posts, err)
	}
	if !posts[0].Date.Equal(post.Date) || len(posts[0].Tags) != 1 || !posts[0].Featured {
		t.Fatalf("unexpected post: %+v", posts[0])
	}
	products, err := repo.Products(ctx)
	if err != nil || len(products) != 1 {
		t.Fatalf("Products: %+v %v", products, err)
	}
	if products[0].InStock || products[0].Rating != 4.7 || products[0].Tags == nil {
		t.Fatalf("unexpected product: %+v", products[0])
	}
	got, err := repo.Reviews(ctx)
	if err != nil || len(got) != 2 {
		t.Fatalf("Reviews: %+v %v", got, err)
	}
	if got[0].ID != 10 || got[0].Helpful != 3 || got[0].VisitDate == nil || got[1].VisitDate != nil {
		t.Fatalf("unexpected reviews: %+v", got)
	}
}

func TestRepo_MySQL_AsFixtureSource(t *testing.T) {
	db := startMySQL(t)
	repo := mysqlrepo.New(db)
	ctx := context.Background()

	// seed from the embedded set, then load back through the app loader
	src := fixtures.New()
	cats, _ := src.Categories(ctx)
	for i, c := range cats {
		if err := repo.UpsertCategory(ctx, c, i); err != nil {
			t.Fatalf("UpsertCategory: %v", err)
		}
	}
	posts, _ := src.Posts(ctx)
	for _, p := range posts {
		if err := repo.UpsertPost(ctx, p); err != nil {
			t.Fatalf("UpsertPost: %v", err)
		}
	}
	products, _ := src.Products(ctx)
	for _, p := range products {
		if err := repo.UpsertProduct(ctx, p); err != nil {
			t.Fatalf("UpsertProduct: %v", err)
		}
	}
	reviews, _ := src.Reviews(ctx)
	if err := repo.UpsertReviews(ctx, reviews); err != nil {
		t.Fatalf("UpsertReviews: %v", err)
	}

	store := memory.NewReviews()
	catalog, err := app.LoadFixtures(ctx, "mysql", repo, store)
	if err != nil {
		t.Fatalf("LoadFixtures: %v", err)
	}
	if len(catalog.Categories()) != len(cats) || store.Len() != len(reviews) {
		t.Fatalf("loaded %d categories and %d reviews", len(catalog.Categories()), store.Len())
	}
}
