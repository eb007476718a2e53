package content

import (
	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

func NewContentRepository(db *bun.DB) repository.Repository[*Content] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*Content]{
		NewRecord: func() *Content { return &Content{} },
		GetID: func(c *Content) uuid.UUID {
			return c.ID
		},
		SetID: func(c *Content, id uuid.UUID) {
			c.ID = id
		},
		GetIdentifier: func() string {
			return "id"
		},
		GetIdentifierValue: func(c *Content) string {
			if c == nil {
				return ""
			}
			return c.ID.String()
		},
	})
}

func NewContentTranslationRepository(db *bun.DB) repository.Repository[*ContentTranslation] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*ContentTranslation]{
		NewRecord: func() *ContentTranslation { return &ContentTranslation{} },
		GetID: func(ct *ContentTranslation) uuid.UUID {
			return ct.ID
		},
		SetID: func(ct *ContentTranslation, id uuid.UUID) {
			ct.ID = id
		},
		GetIdentifier: func() string {
			return "slug"
		},
		GetIdentifierValue: func(ct *ContentTranslation) string {
			if ct == nil {
				return ""
			}
			return ct.Slug
		},
	})
}

func NewSeoMetaRepository(db *bun.DB) repository.Repository[*SeoMeta] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*SeoMeta]{
		NewRecord: func() *SeoMeta { return &SeoMeta{} },
		GetID: func(sm *SeoMeta) uuid.UUID {
			return sm.ID
		},
		SetID: func(sm *SeoMeta, id uuid.UUID) {
			sm.ID = id
		},
		GetIdentifier: func() string {
			return "id"
		},
		GetIdentifierValue: func(sm *SeoMeta) string {
			if sm == nil {
				return ""
			}
			return sm.ID.String()
		},
	})
}
