package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-repository-cache/cache"
	repositorycache "github.com/goliatone/go-repository-cache/repositorycache"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// BunRepository persists user records through bun. Mutations run inside a
// transaction so the duplicate-email check and the write commit together.
type BunRepository struct {
	db    *bun.DB
	users repository.Repository[*User]
}

func NewBunRepository(db *bun.DB) *BunRepository {
	return NewBunRepositoryWithCache(db, nil, nil)
}

// NewBunRepositoryWithCache constructs the repository with optional read caching.
func NewBunRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, keySerializer cache.KeySerializer) *BunRepository {
	base := NewUserRepository(db)
	if cacheService != nil && keySerializer != nil {
		base = repositorycache.New(base, cacheService, keySerializer)
	}
	return &BunRepository{db: db, users: base}
}

var _ Repository = (*BunRepository)(nil)

// Create inserts a user after checking email uniqueness inside the same
// transaction as the insert.
func (r *BunRepository) Create(ctx context.Context, record *User) (*User, error) {
	if r.db == nil {
		return nil, &StoreError{Op: "create user", Err: errNoDatabase}
	}

	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		existing := new(User)
		err := tx.NewSelect().
			Model(existing).
			Where("?TableAlias.email = ?", record.Email).
			Limit(1).
			Scan(ctx)
		if err == nil {
			return &EmailExistsError{Email: record.Email, ExistingID: existing.ID}
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return &StoreError{Op: "check email exists", Err: err}
		}

		if _, err := tx.NewInsert().Model(record).Exec(ctx); err != nil {
			return &StoreError{Op: "insert user", Err: err}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}

// Save writes an updated user record. A changed email is re-checked for
// uniqueness against other accounts.
func (r *BunRepository) Save(ctx context.Context, record *User) (*User, error) {
	if r.db == nil {
		return nil, &StoreError{Op: "save user", Err: errNoDatabase}
	}

	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		existing := new(User)
		err := tx.NewSelect().
			Model(existing).
			Where("?TableAlias.email = ?", record.Email).
			Where("?TableAlias.id != ?", record.ID).
			Limit(1).
			Scan(ctx)
		if err == nil {
			return &EmailExistsError{Email: record.Email, ExistingID: existing.ID}
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return &StoreError{Op: "check email exists", Err: err}
		}

		res, err := tx.NewUpdate().
			Model(record).
			WherePK().
			Column("email", "full_name", "role", "updated_at").
			Exec(ctx)
		if err != nil {
			return &StoreError{Op: "update user", Err: err}
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return &StoreError{Op: "user update rows affected", Err: err}
		}
		if affected == 0 {
			return &NotFoundError{Key: record.ID.String()}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}

// Delete removes a user record.
func (r *BunRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if r.db == nil {
		return &StoreError{Op: "delete user", Err: errNoDatabase}
	}

	res, err := r.db.NewDelete().
		Model((*User)(nil)).
		Where("?TableAlias.id = ?", id).
		Exec(ctx)
	if err != nil {
		return &StoreError{Op: "delete user", Err: err}
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return &StoreError{Op: "user delete rows affected", Err: err}
	}
	if affected == 0 {
		return &NotFoundError{Key: id.String()}
	}
	return nil
}

// Get loads a user by id.
func (r *BunRepository) Get(ctx context.Context, id uuid.UUID) (*User, error) {
	records, _, err := r.users.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.id = ?", id)
		}),
		repository.SelectPaginate(1, 0),
	)
	if err != nil {
		return nil, mapRepositoryError(err, id.String())
	}
	if len(records) == 0 {
		return nil, &NotFoundError{Key: id.String()}
	}
	return records[0], nil
}

// GetByEmail loads a user by email.
func (r *BunRepository) GetByEmail(ctx context.Context, email string) (*User, error) {
	records, _, err := r.users.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.email = ?", email)
		}),
		repository.SelectPaginate(1, 0),
	)
	if err != nil {
		return nil, mapRepositoryError(err, email)
	}
	if len(records) == 0 {
		return nil, &NotFoundError{Key: email}
	}
	return records[0], nil
}

// ListPage returns one page of users ordered by creation time, plus the total
// count of accounts.
func (r *BunRepository) ListPage(ctx context.Context, opts ListOptions) ([]*User, int, error) {
	if r.db == nil {
		return nil, 0, &StoreError{Op: "list users", Err: errNoDatabase}
	}

	total, err := r.db.NewSelect().Model((*User)(nil)).Count(ctx)
	if err != nil {
		return nil, 0, &StoreError{Op: "count users", Err: err}
	}

	offset := (opts.Page - 1) * opts.PerPage
	var records []*User
	err = r.db.NewSelect().
		Model(&records).
		OrderExpr("?TableAlias.created_at ASC").
		Limit(opts.PerPage).
		Offset(offset).
		Scan(ctx)
	if err != nil {
		return nil, 0, &StoreError{Op: "list users", Err: err}
	}
	return records, total, nil
}

var errNoDatabase = fmt.Errorf("database not configured")

func mapRepositoryError(err error, key string) error {
	if err == nil {
		return nil
	}
	if goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
		return &NotFoundError{Key: key}
	}
	return &StoreError{Op: "user repository", Err: err}
}
