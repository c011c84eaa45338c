package books

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/inkwell-press/inkwell/internal/platform/httpx"
)

const uniqueViolation = "23505"

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const bookColumns = `id, title, author, slug, description, price_cents, is_active, is_featured, created_at, updated_at`

// ListBooks returns books, optionally restricted to active ones for the
// storefront.
func (r *Repository) ListBooks(ctx context.Context, activeOnly bool) ([]Book, error) {
	query := `SELECT ` + bookColumns + ` FROM books ORDER BY title`
	if activeOnly {
		query = `SELECT ` + bookColumns + ` FROM books WHERE is_active ORDER BY title`
	}
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Book
	for rows.Next() {
		book, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, book)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// GetBook fetches one book by ID.
func (r *Repository) GetBook(ctx context.Context, id int64) (Book, error) {
	book, err := scanBook(r.pool.QueryRow(ctx, `SELECT `+bookColumns+` FROM books WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Book{}, httpx.ErrNotFound
		}
		return Book{}, err
	}
	return book, nil
}

// CreateBook inserts a catalogue entry.
func (r *Repository) CreateBook(ctx context.Context, book Book) (Book, error) {
	const query = `
		INSERT INTO books (title, author, slug, description, price_cents, is_active, is_featured, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, now(), now())
		RETURNING ` + bookColumns
	created, err := scanBook(r.pool.QueryRow(ctx, query,
		book.Title, book.Author, book.Slug, book.Description, book.PriceCents, book.Active, book.Featured))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return Book{}, fmt.Errorf("%w: slug already in use", httpx.ErrDuplicate)
		}
		return Book{}, err
	}
	return created, nil
}

// UpdateBook replaces the editable fields.
func (r *Repository) UpdateBook(ctx context.Context, book Book) (Book, error) {
	const query = `
		UPDATE books SET title = $2, author = $3, slug = $4, description = $5, price_cents = $6, updated_at = now()
		WHERE id = $1
		RETURNING ` + bookColumns
	updated, err := scanBook(r.pool.QueryRow(ctx, query,
		book.ID, book.Title, book.Author, book.Slug, book.Description, book.PriceCents))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Book{}, httpx.ErrNotFound
		}
		return Book{}, err
	}
	return updated, nil
}

// SetFlag flips one of the boolean toggles (is_active, is_featured).
func (r *Repository) SetFlag(ctx context.Context, id int64, column string, value bool) error {
	if column != "is_active" && column != "is_featured" {
		return fmt.Errorf("books: unsupported flag column %q", column)
	}
	tag, err := r.pool.Exec(ctx, `UPDATE books SET `+column+` = $2, updated_at = now() WHERE id = $1`, id, value)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

// DeleteBook removes a catalogue entry.
func (r *Repository) DeleteBook(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM books WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

func scanBook(row interface{ Scan(dest ...any) error }) (Book, error) {
	var book Book
	err := row.Scan(&book.ID, &book.Title, &book.Author, &book.Slug, &book.Description,
		&book.PriceCents, &book.Active, &book.Featured, &book.CreatedAt, &book.UpdatedAt)
	return book, err
}
