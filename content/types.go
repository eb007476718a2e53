package content

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Status values shared by content entries and their translations.
const (
	StatusDraft     = "draft"
	StatusPublished = "published"
)

// Content is the locale-independent container for a page or post. Translated
// fields live on ContentTranslation; Content carries authorship and the
// publication status shared by every locale.
type Content struct {
	bun.BaseModel `bun:"table:contents,alias:c"`

	ID        uuid.UUID `bun:",pk,type:uuid" json:"id"`
	AuthorID  uuid.UUID `bun:"author_id,notnull,type:uuid" json:"author_id"`
	Status    string    `bun:"status,notnull,default:'draft'" json:"status"`
	CreatedAt time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`

	Translations []*ContentTranslation `bun:"rel:has-many,join:id=content_id" json:"translations,omitempty"`
}

// ContentTranslation stores the localized variant of a content entry. The pair
// (content_id, locale) is unique: at most one translation per locale.
type ContentTranslation struct {
	bun.BaseModel `bun:"table:content_translations,alias:ctn"`

	ID        uuid.UUID      `bun:",pk,type:uuid" json:"id"`
	ContentID uuid.UUID      `bun:"content_id,notnull,type:uuid" json:"content_id"`
	Locale    string         `bun:"locale,notnull" json:"locale"`
	Slug      string         `bun:"slug,notnull" json:"slug"`
	Status    string         `bun:"status,notnull,default:'draft'" json:"status"`
	Title     string         `bun:"title,notnull" json:"title"`
	Summary   *string        `bun:"summary" json:"summary,omitempty"`
	Fields    map[string]any `bun:"fields,type:jsonb" json:"fields,omitempty"`
	CreatedAt time.Time      `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt time.Time      `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`

	Seo *SeoMeta `bun:"rel:has-one,join:id=content_translation_id" json:"seo,omitempty"`
}

// SeoMeta holds optional search metadata owned by exactly one translation.
type SeoMeta struct {
	bun.BaseModel `bun:"table:seo_meta,alias:sm"`

	ID                   uuid.UUID `bun:",pk,type:uuid" json:"id"`
	ContentTranslationID uuid.UUID `bun:"content_translation_id,notnull,type:uuid" json:"content_translation_id"`
	MetaTitle            *string   `bun:"meta_title" json:"meta_title,omitempty"`
	MetaDescription      *string   `bun:"meta_description" json:"meta_description,omitempty"`
	CanonicalURL         *string   `bun:"canonical_url" json:"canonical_url,omitempty"`
	NoIndex              bool      `bun:"no_index,notnull,default:false" json:"no_index"`
	CreatedAt            time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt            time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}
