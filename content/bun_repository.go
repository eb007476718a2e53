package content

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

// BunRepository persists content aggregates through bun. Multi-record writes
// run inside a single transaction; commit or rollback always happens before
// control returns to the caller.
type BunRepository struct {
	db           *bun.DB
	contents     repository.Repository[*Content]
	translations repository.Repository[*ContentTranslation]
	seo          repository.Repository[*SeoMeta]
}

func NewBunRepository(db *bun.DB) *BunRepository {
	return NewBunRepositoryWithCache(db, nil, nil)
}

// NewBunRepositoryWithCache constructs the repository with optional read caching.
func NewBunRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, keySerializer cache.KeySerializer) *BunRepository {
	return &BunRepository{
		db:           db,
		contents:     wrapWithCache(NewContentRepository(db), cacheService, keySerializer),
		translations: wrapWithCache(NewContentTranslationRepository(db), cacheService, keySerializer),
		seo:          wrapWithCache(NewSeoMetaRepository(db), cacheService, keySerializer),
	}
}

var _ Repository = (*BunRepository)(nil)

// CreateContent inserts the content row, its translation, and the optional SEO
// row in one transaction. No partial rows survive a failure.
func (r *BunRepository) CreateContent(ctx context.Context, record *Content, translation *ContentTranslation, seo *SeoMeta) (*ContentTranslation, error) {
	if r.db == nil {
		return nil, &StoreError{Op: "create content", Err: errNoDatabase}
	}

	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewInsert().Model(record).Exec(ctx); err != nil {
			return &StoreError{Op: "insert content", Err: err}
		}
		if _, err := tx.NewInsert().Model(translation).Exec(ctx); err != nil {
			return &StoreError{Op: "insert content translation", Err: err}
		}
		if seo != nil {
			if _, err := tx.NewInsert().Model(seo).Exec(ctx); err != nil {
				return &StoreError{Op: "insert seo meta", Err: err}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	translation.Seo = seo
	return translation, nil
}

// CreateTranslation inserts a locale variant plus optional SEO row. The parent
// existence check and the duplicate-locale check run inside the same
// transaction so a concurrent content delete cannot leave a dangling reference.
func (r *BunRepository) CreateTranslation(ctx context.Context, translation *ContentTranslation, seo *SeoMeta) (*ContentTranslation, error) {
	if r.db == nil {
		return nil, &StoreError{Op: "create translation", Err: errNoDatabase}
	}

	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		exists, err := tx.NewSelect().
			Model((*Content)(nil)).
			Where("?TableAlias.id = ?", translation.ContentID).
			Exists(ctx)
		if err != nil {
			return &StoreError{Op: "check content exists", Err: err}
		}
		if !exists {
			return &NotFoundError{Resource: "content", Key: translation.ContentID.String()}
		}

		existing := new(ContentTranslation)
		err = tx.NewSelect().
			Model(existing).
			Where("?TableAlias.content_id = ?", translation.ContentID).
			Where("?TableAlias.locale = ?", translation.Locale).
			Limit(1).
			Scan(ctx)
		if err == nil {
			return &TranslationExistsError{
				ContentID:  translation.ContentID,
				Locale:     translation.Locale,
				ExistingID: existing.ID,
			}
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return &StoreError{Op: "check translation exists", Err: err}
		}

		if _, err := tx.NewInsert().Model(translation).Exec(ctx); err != nil {
			return &StoreError{Op: "insert content translation", Err: err}
		}
		if seo != nil {
			if _, err := tx.NewInsert().Model(seo).Exec(ctx); err != nil {
				return &StoreError{Op: "insert seo meta", Err: err}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	translation.Seo = seo
	return translation, nil
}

// SaveTranslation writes an updated translation and, when supplied, its SEO
// row in one transaction.
func (r *BunRepository) SaveTranslation(ctx context.Context, translation *ContentTranslation, seo *SeoMeta) (*ContentTranslation, error) {
	if r.db == nil {
		return nil, &StoreError{Op: "save translation", Err: errNoDatabase}
	}

	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		res, err := tx.NewUpdate().
			Model(translation).
			WherePK().
			Column("slug", "status", "title", "summary", "fields", "updated_at").
			Exec(ctx)
		if err != nil {
			return &StoreError{Op: "update content translation", Err: err}
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return &StoreError{Op: "translation update rows affected", Err: err}
		}
		if affected == 0 {
			return &NotFoundError{Resource: "content translation", Key: translation.ID.String()}
		}

		if seo != nil {
			if _, err := tx.NewUpdate().
				Model(seo).
				WherePK().
				Column("meta_title", "meta_description", "canonical_url", "no_index", "updated_at").
				Exec(ctx); err != nil {
				return &StoreError{Op: "update seo meta", Err: err}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if seo != nil {
		translation.Seo = seo
	}
	return translation, nil
}

// DeleteContent removes the content row and cascades over its translations and
// their SEO rows in one transaction.
func (r *BunRepository) DeleteContent(ctx context.Context, id uuid.UUID) error {
	if r.db == nil {
		return &StoreError{Op: "delete content", Err: errNoDatabase}
	}

	return r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewDelete().
			Model((*SeoMeta)(nil)).
			Where("?TableAlias.content_translation_id IN (SELECT id FROM content_translations WHERE content_id = ?)", id).
			Exec(ctx); err != nil {
			return &StoreError{Op: "delete seo meta", Err: err}
		}

		if _, err := tx.NewDelete().
			Model((*ContentTranslation)(nil)).
			Where("?TableAlias.content_id = ?", id).
			Exec(ctx); err != nil {
			return &StoreError{Op: "delete content translations", Err: err}
		}

		res, err := tx.NewDelete().
			Model((*Content)(nil)).
			Where("?TableAlias.id = ?", id).
			Exec(ctx)
		if err != nil {
			return &StoreError{Op: "delete content", Err: err}
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return &StoreError{Op: "content delete rows affected", Err: err}
		}
		if affected == 0 {
			return &NotFoundError{Resource: "content", Key: id.String()}
		}
		return nil
	})
}

// DeleteTranslation removes the unique translation for (contentID, locale)
// together with its SEO row in one transaction.
func (r *BunRepository) DeleteTranslation(ctx context.Context, contentID uuid.UUID, locale string) error {
	if r.db == nil {
		return &StoreError{Op: "delete translation", Err: errNoDatabase}
	}

	return r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		existing := new(ContentTranslation)
		err := tx.NewSelect().
			Model(existing).
			Where("?TableAlias.content_id = ?", contentID).
			Where("?TableAlias.locale = ?", locale).
			Limit(1).
			Scan(ctx)
		if errors.Is(err, sql.ErrNoRows) {
			return &NotFoundError{Resource: "content translation", Key: translationKey(contentID, locale)}
		}
		if err != nil {
			return &StoreError{Op: "lookup content translation", Err: err}
		}

		if _, err := tx.NewDelete().
			Model((*SeoMeta)(nil)).
			Where("?TableAlias.content_translation_id = ?", existing.ID).
			Exec(ctx); err != nil {
			return &StoreError{Op: "delete seo meta", Err: err}
		}

		if _, err := tx.NewDelete().
			Model((*ContentTranslation)(nil)).
			Where("?TableAlias.id = ?", existing.ID).
			Exec(ctx); err != nil {
			return &StoreError{Op: "delete content translation", Err: err}
		}
		return nil
	})
}

// GetContent loads a content row with its translations and their SEO rows.
func (r *BunRepository) GetContent(ctx context.Context, id uuid.UUID) (*Content, error) {
	records, _, err := r.contents.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.id = ?", id)
		}),
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Relation("Translations").Relation("Translations.Seo")
		}),
		repository.SelectPaginate(1, 0),
	)
	if err != nil {
		return nil, mapRepositoryError(err, "content", id.String())
	}
	if len(records) == 0 {
		return nil, &NotFoundError{Resource: "content", Key: id.String()}
	}
	return records[0], nil
}

// GetContentBySlug loads the content row owning a translation with the slug.
func (r *BunRepository) GetContentBySlug(ctx context.Context, slug string) (*Content, error) {
	records, _, err := r.contents.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where(
				"EXISTS (SELECT 1 FROM content_translations AS t WHERE t.content_id = ?TableAlias.id AND t.slug = ?)",
				slug,
			)
		}),
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Relation("Translations").Relation("Translations.Seo")
		}),
		repository.SelectPaginate(1, 0),
	)
	if err != nil {
		return nil, mapRepositoryError(err, "content", slug)
	}
	if len(records) == 0 {
		return nil, &NotFoundError{Resource: "content", Key: slug}
	}
	return records[0], nil
}

// GetTranslation loads the unique translation for (contentID, locale) with its
// SEO row attached.
func (r *BunRepository) GetTranslation(ctx context.Context, contentID uuid.UUID, locale string) (*ContentTranslation, error) {
	records, _, err := r.translations.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.content_id = ?", contentID)
		}),
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.locale = ?", locale)
		}),
		repository.SelectPaginate(1, 0),
	)
	if err != nil {
		return nil, mapRepositoryError(err, "content translation", translationKey(contentID, locale))
	}
	if len(records) == 0 {
		return nil, &NotFoundError{Resource: "content translation", Key: translationKey(contentID, locale)}
	}

	record := records[0]
	seoRecords, _, err := r.seo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.content_translation_id = ?", record.ID)
		}),
		repository.SelectPaginate(1, 0),
	)
	if err != nil {
		return nil, mapRepositoryError(err, "seo meta", record.ID.String())
	}
	if len(seoRecords) > 0 {
		record.Seo = seoRecords[0]
	}
	return record, nil
}

// ListPage returns one page of content rows ordered by creation time, with
// translations (optionally narrowed to one locale) and their SEO rows loaded,
// plus the total count of matching content rows.
func (r *BunRepository) ListPage(ctx context.Context, opts ListOptions) ([]*Content, int, error) {
	if r.db == nil {
		return nil, 0, &StoreError{Op: "list content", Err: errNoDatabase}
	}

	countQuery := r.db.NewSelect().Model((*Content)(nil))
	if opts.Locale != "" {
		countQuery = countQuery.Where(
			"EXISTS (SELECT 1 FROM content_translations AS t WHERE t.content_id = ?TableAlias.id AND t.locale = ?)",
			opts.Locale,
		)
	}
	total, err := countQuery.Count(ctx)
	if err != nil {
		return nil, 0, &StoreError{Op: "count content", Err: err}
	}

	offset := (opts.Page - 1) * opts.PerPage
	var records []*Content
	listQuery := r.db.NewSelect().
		Model(&records).
		Relation("Translations", func(q *bun.SelectQuery) *bun.SelectQuery {
			if opts.Locale != "" {
				q = q.Where("locale = ?", opts.Locale)
			}
			return q
		}).
		Relation("Translations.Seo").
		OrderExpr("?TableAlias.created_at ASC").
		Limit(opts.PerPage).
		Offset(offset)
	if opts.Locale != "" {
		listQuery = listQuery.Where(
			"EXISTS (SELECT 1 FROM content_translations AS t WHERE t.content_id = ?TableAlias.id AND t.locale = ?)",
			opts.Locale,
		)
	}
	if err := listQuery.Scan(ctx); err != nil {
		return nil, 0, &StoreError{Op: "list content", Err: err}
	}

	return records, total, nil
}

var errNoDatabase = fmt.Errorf("database not configured")

func translationKey(contentID uuid.UUID, locale string) string {
	return contentID.String() + ":" + locale
}

func mapRepositoryError(err error, resource, key string) error {
	if err == nil {
		return nil
	}
	if goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
		return &NotFoundError{
			Resource: resource,
			Key:      key,
		}
	}
	return &StoreError{Op: resource + " repository", Err: err}
}

func wrapWithCache[T any](base repository.Repository[T], cacheService cache.CacheService, keySerializer cache.KeySerializer) repository.Repository[T] {
	if cacheService == nil || keySerializer == nil {
		return base
	}
	return repositorycache.New(base, cacheService, keySerializer)
}
