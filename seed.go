package publishing

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-publishing/content"
	"github.com/goliatone/go-publishing/internal/identity"
	"github.com/goliatone/go-publishing/users"
)

var (
	ErrSeedModuleRequired = errors.New("publishing: module is required")
	ErrSeedEmailRequired  = errors.New("publishing: seed user email is required")
	ErrSeedSlugRequired   = errors.New("publishing: seed content slug is required")
)

// SeedUser describes an account created during seeding. Identifiers derive
// deterministically from the email, so re-running the seed converges instead
// of duplicating accounts.
type SeedUser struct {
	Email    string
	FullName string
	Role     users.Role
}

// SeedTranslation describes a locale variant created during seeding.
type SeedTranslation struct {
	Locale  string
	Slug    string
	Title   string
	Summary *string
	Fields  map[string]any
	Seo     *content.SeoInput
}

// SeedContent describes a content entry with its translations. The entry id
// derives from the canonical slug; translation ids derive from (entry, locale).
type SeedContent struct {
	Slug         string
	AuthorEmail  string
	Status       string
	Translations []SeedTranslation
}

// Seed is a declarative fixture applied through the module repositories.
type Seed struct {
	Users   []SeedUser
	Content []SeedContent
}

// Seed applies the fixture idempotently: existing records are left in place,
// missing ones are created with deterministic identifiers.
func (m *Module) Seed(ctx context.Context, seed Seed) error {
	if m == nil || m.contentRepo == nil || m.userRepo == nil {
		return ErrSeedModuleRequired
	}
	if ctx == nil {
		ctx = context.Background()
	}
	now := m.clock().UTC()

	for _, su := range seed.Users {
		if err := m.seedUser(ctx, su, now); err != nil {
			return err
		}
	}
	for _, sc := range seed.Content {
		if err := m.seedContent(ctx, sc, now); err != nil {
			return err
		}
	}
	return nil
}

func (m *Module) seedUser(ctx context.Context, su SeedUser, now time.Time) error {
	email := strings.ToLower(strings.TrimSpace(su.Email))
	if email == "" {
		return ErrSeedEmailRequired
	}

	id := identity.UserUUID(email)
	if _, err := m.userRepo.Get(ctx, id); err == nil {
		return nil
	} else if !users.IsNotFound(err) {
		return err
	}

	role := su.Role
	if role == "" {
		role = users.RoleMember
	}
	_, err := m.userRepo.Create(ctx, &users.User{
		ID:        id,
		Email:     email,
		FullName:  strings.TrimSpace(su.FullName),
		Role:      role,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return fmt.Errorf("publishing: seed user %s: %w", email, err)
	}
	return nil
}

func (m *Module) seedContent(ctx context.Context, sc SeedContent, now time.Time) error {
	slug := strings.TrimSpace(sc.Slug)
	if slug == "" || len(sc.Translations) == 0 {
		return ErrSeedSlugRequired
	}

	contentID := identity.ContentUUID(slug)
	record, err := m.contentRepo.GetContent(ctx, contentID)
	switch {
	case err == nil:
	case content.IsNotFound(err):
		first := sc.Translations[0]
		translation, buildErr := m.buildSeedTranslation(contentID, first, now)
		if buildErr != nil {
			return buildErr
		}
		entry := &content.Content{
			ID:        contentID,
			AuthorID:  identity.UserUUID(sc.AuthorEmail),
			Status:    seedStatus(sc.Status),
			CreatedAt: now,
			UpdatedAt: now,
		}
		if _, err := m.contentRepo.CreateContent(ctx, entry, translation, m.buildSeedSeo(translation.ID, first.Seo, now)); err != nil {
			return fmt.Errorf("publishing: seed content %s: %w", slug, err)
		}
		record = entry
	default:
		return err
	}

	for _, st := range sc.Translations {
		if _, err := m.contentRepo.GetTranslation(ctx, record.ID, strings.TrimSpace(st.Locale)); err == nil {
			continue
		} else if !content.IsNotFound(err) {
			return err
		}

		translation, buildErr := m.buildSeedTranslation(record.ID, st, now)
		if buildErr != nil {
			return buildErr
		}
		if _, err := m.contentRepo.CreateTranslation(ctx, translation, m.buildSeedSeo(translation.ID, st.Seo, now)); err != nil {
			if content.IsConflict(err) {
				continue
			}
			return fmt.Errorf("publishing: seed translation %s/%s: %w", slug, st.Locale, err)
		}
	}
	return nil
}

func (m *Module) buildSeedTranslation(contentID uuid.UUID, st SeedTranslation, now time.Time) (*content.ContentTranslation, error) {
	locale := strings.TrimSpace(st.Locale)
	if locale == "" {
		return nil, content.ErrLocaleRequired
	}
	normalized, err := content.NormalizeSlug(strings.TrimSpace(st.Slug))
	if err != nil || normalized == "" {
		return nil, content.ErrSlugInvalid
	}

	return &content.ContentTranslation{
		ID:        identity.TranslationUUID(contentID, locale),
		ContentID: contentID,
		Locale:    locale,
		Slug:      normalized,
		Status:    seedStatus(""),
		Title:     st.Title,
		Summary:   st.Summary,
		Fields:    st.Fields,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func (m *Module) buildSeedSeo(translationID uuid.UUID, input *content.SeoInput, now time.Time) *content.SeoMeta {
	if input == nil {
		return nil
	}
	return &content.SeoMeta{
		ID:                   identity.UUID("go-publishing:seo:" + translationID.String()),
		ContentTranslationID: translationID,
		MetaTitle:            input.MetaTitle,
		MetaDescription:      input.MetaDescription,
		CanonicalURL:         input.CanonicalURL,
		NoIndex:              input.NoIndex,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
}

func seedStatus(status string) string {
	trimmed := strings.ToLower(strings.TrimSpace(status))
	if trimmed == "" {
		return content.StatusDraft
	}
	return trimmed
}
