package content

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// MemoryRepository is an in-memory Repository implementation for scaffolding
// and tests. Mutations apply under one lock so they are atomic the same way
// the bun repository's transactions are.
type MemoryRepository struct {
	mu           sync.RWMutex
	contents     map[uuid.UUID]*Content
	translations map[uuid.UUID]*ContentTranslation
	seo          map[uuid.UUID]*SeoMeta
}

// NewMemoryRepository creates an empty in-memory repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		contents:     make(map[uuid.UUID]*Content),
		translations: make(map[uuid.UUID]*ContentTranslation),
		seo:          make(map[uuid.UUID]*SeoMeta),
	}
}

var _ Repository = (*MemoryRepository)(nil)

func (m *MemoryRepository) CreateContent(_ context.Context, record *Content, translation *ContentTranslation, seo *SeoMeta) (*ContentTranslation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.contents[record.ID] = cloneContent(record)
	m.translations[translation.ID] = cloneTranslation(translation)
	if seo != nil {
		m.seo[seo.ID] = cloneSeo(seo)
	}

	out := cloneTranslation(translation)
	out.Seo = cloneSeo(seo)
	return out, nil
}

func (m *MemoryRepository) CreateTranslation(_ context.Context, translation *ContentTranslation, seo *SeoMeta) (*ContentTranslation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.contents[translation.ContentID]; !ok {
		return nil, &NotFoundError{Resource: "content", Key: translation.ContentID.String()}
	}
	for _, existing := range m.translations {
		if existing.ContentID == translation.ContentID && existing.Locale == translation.Locale {
			return nil, &TranslationExistsError{
				ContentID:  translation.ContentID,
				Locale:     translation.Locale,
				ExistingID: existing.ID,
			}
		}
	}

	m.translations[translation.ID] = cloneTranslation(translation)
	if seo != nil {
		m.seo[seo.ID] = cloneSeo(seo)
	}

	out := cloneTranslation(translation)
	out.Seo = cloneSeo(seo)
	return out, nil
}

func (m *MemoryRepository) SaveTranslation(_ context.Context, translation *ContentTranslation, seo *SeoMeta) (*ContentTranslation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.translations[translation.ID]; !ok {
		return nil, &NotFoundError{Resource: "content translation", Key: translation.ID.String()}
	}

	stored := cloneTranslation(translation)
	stored.Seo = nil
	m.translations[translation.ID] = stored
	if seo != nil {
		m.seo[seo.ID] = cloneSeo(seo)
	}

	out := cloneTranslation(translation)
	out.Seo = cloneSeo(m.seoForTranslation(translation.ID))
	return out, nil
}

func (m *MemoryRepository) DeleteContent(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.contents[id]; !ok {
		return &NotFoundError{Resource: "content", Key: id.String()}
	}

	for trID, tr := range m.translations {
		if tr.ContentID != id {
			continue
		}
		for seoID, record := range m.seo {
			if record.ContentTranslationID == trID {
				delete(m.seo, seoID)
			}
		}
		delete(m.translations, trID)
	}
	delete(m.contents, id)
	return nil
}

func (m *MemoryRepository) DeleteTranslation(_ context.Context, contentID uuid.UUID, locale string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for trID, tr := range m.translations {
		if tr.ContentID != contentID || tr.Locale != locale {
			continue
		}
		for seoID, record := range m.seo {
			if record.ContentTranslationID == trID {
				delete(m.seo, seoID)
			}
		}
		delete(m.translations, trID)
		return nil
	}
	return &NotFoundError{Resource: "content translation", Key: translationKey(contentID, locale)}
}

func (m *MemoryRepository) GetContent(_ context.Context, id uuid.UUID) (*Content, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	record, ok := m.contents[id]
	if !ok {
		return nil, &NotFoundError{Resource: "content", Key: id.String()}
	}
	return m.assembleContent(record, ""), nil
}

func (m *MemoryRepository) GetContentBySlug(_ context.Context, slug string) (*Content, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, tr := range m.translations {
		if tr.Slug != slug {
			continue
		}
		if record, ok := m.contents[tr.ContentID]; ok {
			return m.assembleContent(record, ""), nil
		}
	}
	return nil, &NotFoundError{Resource: "content", Key: slug}
}

func (m *MemoryRepository) GetTranslation(_ context.Context, contentID uuid.UUID, locale string) (*ContentTranslation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, tr := range m.translations {
		if tr.ContentID != contentID || tr.Locale != locale {
			continue
		}
		out := cloneTranslation(tr)
		out.Seo = cloneSeo(m.seoForTranslation(tr.ID))
		return out, nil
	}
	return nil, &NotFoundError{Resource: "content translation", Key: translationKey(contentID, locale)}
}

func (m *MemoryRepository) ListPage(_ context.Context, opts ListOptions) ([]*Content, int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	matching := make([]*Content, 0, len(m.contents))
	for _, record := range m.contents {
		if opts.Locale != "" && !m.hasLocale(record.ID, opts.Locale) {
			continue
		}
		matching = append(matching, record)
	}

	sort.Slice(matching, func(i, j int) bool {
		if matching[i].CreatedAt.Equal(matching[j].CreatedAt) {
			return matching[i].ID.String() < matching[j].ID.String()
		}
		return matching[i].CreatedAt.Before(matching[j].CreatedAt)
	})

	total := len(matching)
	offset := (opts.Page - 1) * opts.PerPage
	if offset >= total {
		return []*Content{}, total, nil
	}
	end := offset + opts.PerPage
	if end > total {
		end = total
	}

	out := make([]*Content, 0, end-offset)
	for _, record := range matching[offset:end] {
		out = append(out, m.assembleContent(record, opts.Locale))
	}
	return out, total, nil
}

func (m *MemoryRepository) assembleContent(record *Content, locale string) *Content {
	out := cloneContent(record)
	ids := make([]uuid.UUID, 0, len(m.translations))
	for id, tr := range m.translations {
		if tr.ContentID != record.ID {
			continue
		}
		if locale != "" && tr.Locale != locale {
			continue
		}
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })

	for _, id := range ids {
		tr := cloneTranslation(m.translations[id])
		tr.Seo = cloneSeo(m.seoForTranslation(id))
		out.Translations = append(out.Translations, tr)
	}
	return out
}

func (m *MemoryRepository) hasLocale(contentID uuid.UUID, locale string) bool {
	for _, tr := range m.translations {
		if tr.ContentID == contentID && tr.Locale == locale {
			return true
		}
	}
	return false
}

func (m *MemoryRepository) seoForTranslation(translationID uuid.UUID) *SeoMeta {
	for _, record := range m.seo {
		if record.ContentTranslationID == translationID {
			return record
		}
	}
	return nil
}

func cloneContent(src *Content) *Content {
	if src == nil {
		return nil
	}
	copied := *src
	copied.Translations = nil
	return &copied
}

func cloneTranslation(src *ContentTranslation) *ContentTranslation {
	if src == nil {
		return nil
	}
	copied := *src
	copied.Fields = cloneMap(src.Fields)
	copied.Seo = nil
	return &copied
}

func cloneSeo(src *SeoMeta) *SeoMeta {
	if src == nil {
		return nil
	}
	copied := *src
	return &copied
}
