package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/aussiebroadwan/idgate/internal/auth/domain"
	"github.com/aussiebroadwan/idgate/internal/auth/store"
)

const (
	publicColumns = `id, name, email, contact, role, profile_image_url, address,
		is_banned, is_deleted, created_at, updated_at`
	secretColumns = publicColumns + `, password_hash`
)

type accountsRepo struct {
	db *sql.DB
}

func columns(o store.ReadOptions) string {
	if o.IncludeSecret {
		return secretColumns
	}
	return publicColumns
}

func (r *accountsRepo) GetByEmail(ctx context.Context, email string, opts ...store.ReadOption) (domain.Account, error) {
	o := store.ApplyReadOptions(opts)
	row := r.db.QueryRowContext(ctx,
		`SELECT `+columns(o)+` FROM accounts WHERE email = ?`, email)
	return scanAccount(row, o.IncludeSecret)
}

func (r *accountsRepo) GetByID(ctx context.Context, id string, opts ...store.ReadOption) (domain.Account, error) {
	o := store.ApplyReadOptions(opts)
	row := r.db.QueryRowContext(ctx,
		`SELECT `+columns(o)+` FROM accounts WHERE id = ?`, id)
	return scanAccount(row, o.IncludeSecret)
}

func (r *accountsRepo) Create(ctx context.Context, a domain.Account) (domain.Account, error) {
	now := time.Now().UTC()
	if a.CreatedAt.IsZero() {
		a.CreatedAt = now
	}
	a.UpdatedAt = a.CreatedAt

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO accounts (
			id, name, email, password_hash, contact, role, profile_image_url,
			address, is_banned, is_deleted, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.Name, a.Email, a.PasswordHash, a.Contact, string(a.Role), a.ProfileImageURL,
		a.Address, a.IsBanned, a.IsDeleted, a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		return domain.Account{}, mapWriteError(err)
	}
	return a.WithoutSecret(), nil
}

func (r *accountsRepo) UpdatePasswordHash(
	ctx context.Context,
	id string,
	match store.PasswordMatch,
	hash string,
) (domain.Account, error) {
	row := r.db.QueryRowContext(ctx, `
		UPDATE accounts SET password_hash = ?, updated_at = ?
		WHERE id = ?
			AND (? = '' OR role = ?)
			AND (? = '' OR password_hash = ?)
		RETURNING `+publicColumns,
		hash, time.Now().UTC(), id,
		string(match.Role), string(match.Role),
		match.Hash, match.Hash,
	)
	return scanAccount(row, false)
}

func (r *accountsRepo) UpdateProfile(ctx context.Context, id string, u domain.ProfileUpdate) (domain.Account, error) {
	row := r.db.QueryRowContext(ctx, `
		UPDATE accounts SET
			name = COALESCE(?, name),
			contact = COALESCE(?, contact),
			profile_image_url = COALESCE(?, profile_image_url),
			address = COALESCE(?, address),
			updated_at = ?
		WHERE id = ?
		RETURNING `+publicColumns,
		nullable(u.Name), nullable(u.Contact), nullable(u.ProfileImageURL), nullable(u.Address),
		time.Now().UTC(), id,
	)
	return scanAccount(row, false)
}

func (r *accountsRepo) SetBanned(ctx context.Context, id string, banned bool) (domain.Account, error) {
	row := r.db.QueryRowContext(ctx, `
		UPDATE accounts SET is_banned = ?, updated_at = ?
		WHERE id = ?
		RETURNING `+publicColumns,
		banned, time.Now().UTC(), id,
	)
	return scanAccount(row, false)
}

func (r *accountsRepo) SoftDelete(ctx context.Context, id string) (domain.Account, error) {
	row := r.db.QueryRowContext(ctx, `
		UPDATE accounts SET is_deleted = 1, updated_at = ?
		WHERE id = ?
		RETURNING `+publicColumns,
		time.Now().UTC(), id,
	)
	return scanAccount(row, false)
}

func (r *accountsRepo) List(ctx context.Context, f store.ListFilter) ([]domain.Account, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+publicColumns+` FROM accounts
		WHERE ? OR is_deleted = 0
		ORDER BY created_at, id`,
		f.IncludeDeleted,
	)
	if err != nil {
		return nil, err
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
	return out, rows.Err()
}

func (r *accountsRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM accounts`).Scan(&n)
	return n, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanAccount(s scanner, withSecret bool) (domain.Account, error) {
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
