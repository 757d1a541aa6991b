// Command seed-db loads a product catalog from a JSON file and creates a
// demo user, so a fresh database can serve orders immediately.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/errgroup"

	"github.com/storefront-eng/storefront/internal/storage/postgres"
)

type productJSON struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
}

func main() {
	var (
		databaseURL  string
		productsFile string
		userID       string
		userEmail    string
		userPassword string
	)

	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.StringVar(&productsFile, "products-file", "db/seed/products.json", "path to products JSON file")
	flag.StringVar(&userID, "user-id", "", "id for the seeded demo user (random when empty)")
	flag.StringVar(&userEmail, "user-email", "demo@storefront.local", "email for the seeded demo user")
	flag.StringVar(&userPassword, "user-password", "", "password for the seeded demo user (or STOREFRONT_SEED_PASSWORD env)")
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		slog.Error("database URL is required: set --database-url or DATABASE_URL")
		os.Exit(1)
	}
	if userPassword == "" {
		userPassword = os.Getenv("STOREFRONT_SEED_PASSWORD")
	}
	if userPassword == "" {
		slog.Error("user password is required: set --user-password or STOREFRONT_SEED_PASSWORD")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, databaseURL, productsFile, userID, userEmail, userPassword); err != nil {
		slog.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("seed completed successfully")
}

func run(ctx context.Context, databaseURL, productsFile, userID, userEmail, userPassword string) error {
	slog.Info("connecting to database")

	pool, err := postgres.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "create pool")
	}
	defer pool.Close()

	if err := postgres.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	data, err := os.ReadFile(productsFile)
	if err != nil {
		return errors.Wrap(err, "read products file")
	}

	var products []productJSON
	if err := json.Unmarshal(data, &products); err != nil {
		return errors.Wrap(err, "parse products file")
	}

	slog.Info("seeding products", slog.Int("count", len(products)))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(8)
	for _, p := range products {
		g.Go(func() error {
			return insertProduct(gctx, pool, p)
		})
	}
	if err := g.Wait(); err != nil {
		return errors.Wrap(err, "insert products")
	}

	if err := insertDemoUser(ctx, pool, userID, userEmail, userPassword); err != nil {
		return errors.Wrap(err, "insert demo user")
	}

	return nil
}

const upsertProductSQL = `INSERT INTO products (id, name, slug, description, price, stock)
	VALUES ($1, $2, $3, $4, $5, $6)
	ON CONFLICT (id) DO UPDATE
	SET name = EXCLUDED.name, slug = EXCLUDED.slug, description = EXCLUDED.description,
	    price = EXCLUDED.price, stock = EXCLUDED.stock, updated_at = now()`

func insertProduct(ctx context.Context, pool *pgxpool.Pool, p productJSON) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	_, err := pool.Exec(ctx, upsertProductSQL,
		p.ID, p.Name, slugify(p.Name, p.ID), p.Description, p.Price, p.Stock,
	)
	if err != nil {
		return errors.Wrapf(err, "product %q", p.Name)
	}
	return nil
}

const upsertUserSQL = `INSERT INTO users (id, first_name, last_name, email, password)
	VALUES ($1, $2, $3, $4, $5)
	ON CONFLICT (email) DO NOTHING`

func insertDemoUser(ctx context.Context, pool *pgxpool.Pool, id, email, password string) error {
	if id == "" {
		id = uuid.New().String()
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return errors.Wrap(err, "hash password")
	}

	_, err = pool.Exec(ctx, upsertUserSQL,
		id, "Demo", "User", email, string(hash),
	)
	if err != nil {
		return errors.Wrap(err, "insert user")
	}
	slog.Info("demo user ready", slog.String("email", email))
	return nil
}

// slugify builds a URL-safe product slug from the name and id, matching the
// catalog's "name-id" convention.
func slugify(name, id string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name + "-" + id) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			b.WriteByte('-')
		}
	}
	return strings.Trim(b.String(), "-")
}
