package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/aussiebroadwan/idgate/internal/auth/domain"
	"github.com/aussiebroadwan/idgate/internal/auth/store"
)

const publicColumns = `id, name, email, contact, role, profile_image_url, address, is_banned, is_deleted, created_at, updated_at`

type accountsRepo struct {
	db *sql.DB
}

func selectColumns(o store.ReadOptions) string {
	if o.IncludeSecret {
		return publicColumns + `, password_hash`
	}
	return publicColumns
}

func (r *accountsRepo) GetByEmail(ctx context.Context, email string, opts ...store.ReadOption) (domain.Account, error) {
	o := store.ApplyReadOptions(opts)
	query := `SELECT ` + selectColumns(o) + ` FROM accounts WHERE email = $1`

	return scanAccount(r.db.QueryRowContext(ctx, query, email), o.IncludeSecret)
}

func (r *accountsRepo) GetByID(ctx context.Context, id string, opts ...store.ReadOption) (domain.Account, error) {
	o := store.ApplyReadOptions(opts)
	query := `SELECT ` + selectColumns(o) + ` FROM accounts WHERE id = $1`

	return scanAccount(r.db.QueryRowContext(ctx, query, id), o.IncludeSecret)
}

func (r *accountsRepo) Create(ctx context.Context, a domain.Account) (domain.Account, error) {
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	a.UpdatedAt = a.CreatedAt

	query :=
		`INSERT INTO accounts (id, name, email, password_hash, contact, role, profile_image_url, address, is_banned, is_deleted, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err := r.db.ExecContext(ctx, query,
		a.ID, a.Name, a.Email, a.PasswordHash, a.Contact, string(a.Role), a.ProfileImageURL,
		a.Address, a.IsBanned, a.IsDeleted, a.CreatedAt, a.UpdatedAt)
	if err != nil {
		return domain.Account{}, mapWriteError(err)
	}
	return a.WithoutSecret(), nil
}

func (r *accountsRepo) UpdatePasswordHash(ctx context.Context, id string, match store.PasswordMatch, hash string) (domain.Account, error) {
	query :=
		`UPDATE accounts SET password_hash = $1, updated_at = $2
		 WHERE id = $3 AND ($4 = '' OR role = $4) AND ($5 = '' OR password_hash = $5)
		 RETURNING ` + publicColumns

	row := r.db.QueryRowContext(ctx, query, hash, time.Now().UTC(), id, string(match.Role), match.Hash)
	return scanAccount(row, false)
}

func (r *accountsRepo) UpdateProfile(ctx context.Context, id string, u domain.ProfileUpdate) (domain.Account, error) {
	query :=
		`UPDATE accounts SET
		 name = COALESCE($1, name),
		 contact = COALESCE($2, contact),
		 profile_image_url = COALESCE($3, profile_image_url),
		 address = COALESCE($4, address),
		 updated_at = $5
		 WHERE id = $6
		 RETURNING ` + publicColumns

	row := r.db.QueryRowContext(ctx, query,
		nullable(u.Name), nullable(u.Contact), nullable(u.ProfileImageURL), nullable(u.Address),
		time.Now().UTC(), id)
	return scanAccount(row, false)
}

func (r *accountsRepo) SetBanned(ctx context.Context, id string, banned bool) (domain.Account, error) {
	query :=
		`UPDATE accounts SET is_banned = $1, updated_at = $2
		 WHERE id = $3
		 RETURNING ` + publicColumns

	return scanAccount(r.db.QueryRowContext(ctx, query, banned, time.Now().UTC(), id), false)
}

func (r *accountsRepo) SoftDelete(ctx context.Context, id string) (domain.Account, error) {
	query :=
		`UPDATE accounts SET is_deleted = TRUE, updated_at = $1
		 WHERE id = $2
		 RETURNING ` + publicColumns

	return scanAccount(r.db.QueryRowContext(ctx, query, time.Now().UTC(), id), false)
}

func (r *accountsRepo) List(ctx context.Context, f store.ListFilter) ([]domain.Account, error) {
	query :=
		`SELECT ` + publicColumns + ` FROM accounts
		 WHERE $1 OR NOT is_deleted
		 ORDER BY created_at, id`

	rows, err := r.db.QueryContext(ctx, query, f.IncludeDeleted)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var out []domain.Account
	for rows.Next() {
		a, err := scanAccount(rows, false)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}

func (r *accountsRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM accounts`).Scan(&n); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(s rowScanner, withSecret bool) (domain.Account, error) {
	var (
		a    domain.Account
		role string
	)
	dest := []any{
		&a.ID, &a.Name, &a.Email, &a.Contact, &role, &a.ProfileImageURL, &a.Address,
		&a.IsBanned, &a.IsDeleted, &a.CreatedAt, &a.UpdatedAt,
	}
	if withSecret {
		dest = append(dest, &a.PasswordHash)
	}

	if err := s.Scan(dest...); err != nil {
		return domain.Account{}, mapNotFound(err)
	}
	a.Role = domain.Role(role)
	return a, nil
}

func nullable(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
