package mysql

const upsertCategorySQL = `
INSERT INTO categories (id, name, position)
VALUES (?, ?, ?)
ON DUPLICATE KEY UPDATE
  name       = VALUES(name),
  position   = VALUES(position),
  updated_at = CURRENT_TIMESTAMP
`

const upsertPostSQL = `
INSERT INTO posts
  (id, title, excerpt, image, published, location, category, rating, read_time, tags, featured)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  title      = VALUES(title),
  excerpt    = VALUES(excerpt),
  image      = VALUES(image),
  published  = VALUES(published),
  location   = VALUES(location),
  category   = VALUES(category),
  rating     = VALUES(rating),
  read_time  = VALUES(read_time),
  tags       = VALUES(tags),
  featured   = VALUES(featured),
  updated_at = CURRENT_TIMESTAMP
`

const upsertProductSQL = `
INSERT INTO products
  (id, name, description, price, original_price, image, category, rating, review_count, in_stock, tags, discount, featured)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  name           = VALUES(name),
  description    = VALUES(description),
  price          = VALUES(price),
  original_price = VALUES(original_price),
  image          = VALUES(image),
  category       = VALUES(category),
  rating         = VALUES(rating),
  review_count   = VALUES(review_count),
  in_stock       = VALUES(in_stock),
  tags           = VALUES(tags),
  discount       = VALUES(discount),
  featured       = VALUES(featured),
  updated_at     = CURRENT_TIMESTAMP
`

// Note: `comment` is reserved in some modes; keep it quoted everywhere.
const insertReviewsPrefix = "INSERT INTO reviews\n  (id, restaurant_id, rating, title, `comment`, name, email, visit_date, recommended, submitted_at, verified, helpful)\nVALUES "

// helpful only ever grows, so a re-seed never rolls a counter back.
const insertReviewsOnDup = " ON DUPLICATE KEY UPDATE\n" +
	"  rating      = VALUES(rating),\n" +
	"  title       = VALUES(title),\n" +
	"  `comment`   = VALUES(`comment`),\n" +
	"  name        = VALUES(name),\n" +
	"  email       = VALUES(email),\n" +
	"  visit_date  = VALUES(visit_date),\n" +
	"  recommended = VALUES(recommended),\n" +
	"  verified    = VALUES(verified),\n" +
	"  helpful     = GREATEST(reviews.helpful, VALUES(helpful))\n"

// -----------------------------------------------------------------------------
// READ QUERIES
// -----------------------------------------------------------------------------

const listCategoriesSQL = `SELECT id, name FROM categories ORDER BY position, id`

const listPostsSQL = `
SELECT id, title, excerpt, image, published, location, category, rating, read_time, tags, featured
FROM posts
ORDER BY id
`

const listProductsSQL = `
SELECT id, name, description, price, original_price, image, category, rating,
       review_count, in_stock, tags, discount, featured
FROM products
ORDER BY id
`

// Insertion order of the in-memory store follows id, which the seeder
// preserves from the source.
const listReviewsSQL = "SELECT id, restaurant_id, rating, title, `comment`, name, email, visit_date, recommended, submitted_at, verified, helpful\nFROM reviews\nORDER BY id"
