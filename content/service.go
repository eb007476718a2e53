package content

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-publishing/internal/logging"
	"github.com/goliatone/go-publishing/pkg/activity"
	"github.com/goliatone/go-publishing/pkg/interfaces"
)

// Service exposes the transactional content use-cases. Every mutating
// operation persists its records as one atomic unit: either the content entry,
// its translation, and the optional SEO record all commit, or none do.
type Service interface {
	CreateContent(ctx context.Context, req CreateContentRequest) (*ContentTranslation, error)
	CreateTranslation(ctx context.Context, req CreateTranslationRequest) (*ContentTranslation, error)
	UpdateTranslation(ctx context.Context, req UpdateTranslationRequest) (*ContentTranslation, error)
	DeleteContent(ctx context.Context, id uuid.UUID) error
	DeleteTranslation(ctx context.Context, contentID uuid.UUID, locale string) error
	GetContent(ctx context.Context, id uuid.UUID) (*Content, error)
	GetContentBySlug(ctx context.Context, slug string) (*Content, error)
	GetTranslation(ctx context.Context, contentID uuid.UUID, locale string) (*ContentTranslation, error)
	List(ctx context.Context, opts ListOptions) (*TranslationPage, error)
}

// TranslationInput represents the localized fields supplied on create.
type TranslationInput struct {
	Locale  string
	Slug    string
	Title   string
	Status  string
	Summary *string
	Fields  map[string]any
}

// SeoInput carries the optional search metadata persisted with a translation.
type SeoInput struct {
	MetaTitle       *string
	MetaDescription *string
	CanonicalURL    *string
	NoIndex         bool
}

// CreateContentRequest captures the payload to create a content entry together
// with its first translation.
type CreateContentRequest struct {
	AuthorID    uuid.UUID
	Status      string
	Translation TranslationInput
	Seo         *SeoInput
}

// CreateTranslationRequest adds a locale variant to existing content.
type CreateTranslationRequest struct {
	ContentID   uuid.UUID
	Translation TranslationInput
	Seo         *SeoInput
}

// TranslationPatch lists the mutable translation fields; only non-nil entries
// are applied. A non-nil Fields map replaces the stored payload wholesale.
type TranslationPatch struct {
	Slug    *string
	Title   *string
	Status  *string
	Summary *string
	Fields  map[string]any
}

// SeoPatch lists the mutable SEO fields; only non-nil entries are applied.
// The patch never creates an SEO record where none exists.
type SeoPatch struct {
	MetaTitle       *string
	MetaDescription *string
	CanonicalURL    *string
	NoIndex         *bool
}

// UpdateTranslationRequest patches the unique translation for (ContentID, Locale).
type UpdateTranslationRequest struct {
	ContentID uuid.UUID
	Locale    string
	Patch     TranslationPatch
	Seo       *SeoPatch
}

// ListOptions filters and paginates the flattened translation listing.
// Pagination happens at the content level; Locale narrows which translations
// are flattened into the result.
type ListOptions struct {
	Locale  string
	Page    int
	PerPage int
}

// TranslationListItem is a translation annotated with its parent content status.
type TranslationListItem struct {
	ContentTranslation
	ContentStatus string `json:"content_status"`
}

// TranslationPage is one page of flattened translation records.
type TranslationPage struct {
	Items      []TranslationListItem `json:"items"`
	Total      int                   `json:"total"`
	Page       int                   `json:"page"`
	PerPage    int                   `json:"per_page"`
	TotalPages int                   `json:"total_pages"`
}

// Repository abstracts storage for content aggregates. Implementations must
// run every mutating call inside a single transaction and roll back on error.
type Repository interface {
	CreateContent(ctx context.Context, record *Content, translation *ContentTranslation, seo *SeoMeta) (*ContentTranslation, error)
	CreateTranslation(ctx context.Context, translation *ContentTranslation, seo *SeoMeta) (*ContentTranslation, error)
	SaveTranslation(ctx context.Context, translation *ContentTranslation, seo *SeoMeta) (*ContentTranslation, error)
	DeleteContent(ctx context.Context, id uuid.UUID) error
	DeleteTranslation(ctx context.Context, contentID uuid.UUID, locale string) error
	GetContent(ctx context.Context, id uuid.UUID) (*Content, error)
	GetContentBySlug(ctx context.Context, slug string) (*Content, error)
	GetTranslation(ctx context.Context, contentID uuid.UUID, locale string) (*ContentTranslation, error)
	ListPage(ctx context.Context, opts ListOptions) ([]*Content, int, error)
}

// ServiceOption configures the service at construction time.
type ServiceOption func(*service)

// WithClock overrides the clock used to stamp records.
func WithClock(clock func() time.Time) ServiceOption {
	return func(s *service) {
		if clock != nil {
			s.now = clock
		}
	}
}

type IDGenerator func() uuid.UUID

func WithIDGenerator(generator IDGenerator) ServiceOption {
	return func(s *service) {
		if generator != nil {
			s.id = generator
		}
	}
}

// WithLogger wires the structured logger used for mutation telemetry.
func WithLogger(logger interfaces.Logger) ServiceOption {
	return func(s *service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithActivityEmitter wires the activity emitter used for audit records.
func WithActivityEmitter(emitter *activity.Emitter) ServiceOption {
	return func(s *service) {
		if emitter != nil {
			s.activity = emitter
		}
	}
}

type service struct {
	repo     Repository
	now      func() time.Time
	id       IDGenerator
	logger   interfaces.Logger
	activity *activity.Emitter
}

// NewService constructs a content service backed by the supplied repository.
func NewService(repo Repository, opts ...ServiceOption) Service {
	s := &service{
		repo:     repo,
		now:      time.Now,
		id:       uuid.New,
		logger:   logging.NoOp(),
		activity: activity.NewEmitter(nil, activity.Config{}),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// CreateContent persists the content entry, its first translation, and the
// optional SEO record as one unit.
func (s *service) CreateContent(ctx context.Context, req CreateContentRequest) (*ContentTranslation, error) {
	if req.AuthorID == uuid.Nil {
		return nil, ErrAuthorRequired
	}
	translation, err := s.buildTranslation(uuid.Nil, req.Translation)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	record := &Content{
		ID:        s.id(),
		AuthorID:  req.AuthorID,
		Status:    chooseStatus(req.Status),
		CreatedAt: now,
		UpdatedAt: now,
	}
	translation.ContentID = record.ID
	translation.CreatedAt = now
	translation.UpdatedAt = now

	seo := s.buildSeo(translation.ID, req.Seo, now)

	created, err := s.repo.CreateContent(ctx, record, translation, seo)
	if err != nil {
		s.logger.Error("content.create.failed", "error", err)
		return nil, err
	}

	s.emit(ctx, req.AuthorID, "create", "content", record.ID, map[string]any{
		"locale": created.Locale,
		"slug":   created.Slug,
	})
	s.logger.Info("content.create", "content_id", record.ID, "locale", created.Locale)
	return created, nil
}

// CreateTranslation adds a locale variant to an existing content entry. The
// parent existence check and the duplicate-locale check run inside the same
// transaction as the inserts.
func (s *service) CreateTranslation(ctx context.Context, req CreateTranslationRequest) (*ContentTranslation, error) {
	if req.ContentID == uuid.Nil {
		return nil, ErrContentIDRequired
	}
	translation, err := s.buildTranslation(req.ContentID, req.Translation)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	translation.CreatedAt = now
	translation.UpdatedAt = now

	seo := s.buildSeo(translation.ID, req.Seo, now)

	created, err := s.repo.CreateTranslation(ctx, translation, seo)
	if err != nil {
		return nil, err
	}

	s.emit(ctx, uuid.Nil, "create", "content_translation", created.ID, map[string]any{
		"content_id": req.ContentID.String(),
		"locale":     created.Locale,
	})
	return created, nil
}

// UpdateTranslation applies a partial patch to the unique translation for
// (ContentID, Locale). SEO patches merge into an existing record only; when no
// SEO record exists the patch is ignored rather than fabricating one.
func (s *service) UpdateTranslation(ctx context.Context, req UpdateTranslationRequest) (*ContentTranslation, error) {
	if req.ContentID == uuid.Nil {
		return nil, ErrContentIDRequired
	}
	locale := strings.TrimSpace(req.Locale)
	if locale == "" {
		return nil, ErrLocaleRequired
	}

	existing, err := s.repo.GetTranslation(ctx, req.ContentID, locale)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	if err := applyTranslationPatch(existing, req.Patch); err != nil {
		return nil, err
	}
	existing.UpdatedAt = now

	var seo *SeoMeta
	if req.Seo != nil && existing.Seo != nil {
		seo = existing.Seo
		applySeoPatch(seo, *req.Seo)
		seo.UpdatedAt = now
	}

	updated, err := s.repo.SaveTranslation(ctx, existing, seo)
	if err != nil {
		return nil, err
	}

	s.emit(ctx, uuid.Nil, "update", "content_translation", updated.ID, map[string]any{
		"content_id": req.ContentID.String(),
		"locale":     locale,
	})
	return updated, nil
}

// DeleteContent removes the content entry and cascades over its translations
// and their SEO records inside one transaction.
func (s *service) DeleteContent(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return ErrContentIDRequired
	}
	if err := s.repo.DeleteContent(ctx, id); err != nil {
		return err
	}
	s.emit(ctx, uuid.Nil, "delete", "content", id, nil)
	s.logger.Info("content.delete", "content_id", id)
	return nil
}

// DeleteTranslation removes the unique translation for (contentID, locale)
// together with its SEO record.
func (s *service) DeleteTranslation(ctx context.Context, contentID uuid.UUID, locale string) error {
	if contentID == uuid.Nil {
		return ErrContentIDRequired
	}
	locale = strings.TrimSpace(locale)
	if locale == "" {
		return ErrLocaleRequired
	}
	if err := s.repo.DeleteTranslation(ctx, contentID, locale); err != nil {
		return err
	}
	s.emit(ctx, uuid.Nil, "delete", "content_translation", contentID, map[string]any{
		"locale": locale,
	})
	return nil
}

// GetContent fetches a content entry with its translations loaded.
func (s *service) GetContent(ctx context.Context, id uuid.UUID) (*Content, error) {
	if id == uuid.Nil {
		return nil, ErrContentIDRequired
	}
	return s.repo.GetContent(ctx, id)
}

// GetContentBySlug fetches the content entry owning a translation with the slug.
func (s *service) GetContentBySlug(ctx context.Context, slug string) (*Content, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, ErrSlugRequired
	}
	return s.repo.GetContentBySlug(ctx, slug)
}

// GetTranslation fetches the unique translation for (contentID, locale) with
// its SEO record attached. Absence surfaces as a typed NotFound error, never a
// nil result.
func (s *service) GetTranslation(ctx context.Context, contentID uuid.UUID, locale string) (*ContentTranslation, error) {
	if contentID == uuid.Nil {
		return nil, ErrContentIDRequired
	}
	locale = strings.TrimSpace(locale)
	if locale == "" {
		return nil, ErrLocaleRequired
	}
	return s.repo.GetTranslation(ctx, contentID, locale)
}

// List returns one page of flattened translation records. Content entries are
// paginated first; each entry's matching translations are flattened into the
// item list annotated with the parent status.
func (s *service) List(ctx context.Context, opts ListOptions) (*TranslationPage, error) {
	if opts.Page < 1 {
		return nil, ErrPageInvalid
	}
	if opts.PerPage < 1 {
		return nil, ErrPageSizeInvalid
	}
	opts.Locale = strings.TrimSpace(opts.Locale)

	records, total, err := s.repo.ListPage(ctx, opts)
	if err != nil {
		return nil, err
	}

	items := make([]TranslationListItem, 0, len(records))
	for _, record := range records {
		for _, tr := range record.Translations {
			if tr == nil {
				continue
			}
			items = append(items, TranslationListItem{
				ContentTranslation: *tr,
				ContentStatus:      record.Status,
			})
		}
	}

	totalPages := 0
	if total > 0 {
		totalPages = (total + opts.PerPage - 1) / opts.PerPage
	}

	return &TranslationPage{
		Items:      items,
		Total:      total,
		Page:       opts.Page,
		PerPage:    opts.PerPage,
		TotalPages: totalPages,
	}, nil
}

func (s *service) buildTranslation(contentID uuid.UUID, input TranslationInput) (*ContentTranslation, error) {
	locale := strings.TrimSpace(input.Locale)
	if locale == "" {
		return nil, ErrLocaleRequired
	}
	rawSlug := strings.TrimSpace(input.Slug)
	if rawSlug == "" {
		return nil, ErrSlugRequired
	}
	normalized, err := NormalizeSlug(rawSlug)
	if err != nil || normalized == "" {
		return nil, ErrSlugInvalid
	}
	if strings.TrimSpace(input.Title) == "" {
		return nil, ErrTitleRequired
	}

	return &ContentTranslation{
		ID:        s.id(),
		ContentID: contentID,
		Locale:    locale,
		Slug:      normalized,
		Status:    chooseStatus(input.Status),
		Title:     input.Title,
		Summary:   input.Summary,
		Fields:    cloneMap(input.Fields),
	}, nil
}

func (s *service) buildSeo(translationID uuid.UUID, input *SeoInput, now time.Time) *SeoMeta {
	if input == nil {
		return nil
	}
	return &SeoMeta{
		ID:                   s.id(),
		ContentTranslationID: translationID,
		MetaTitle:            input.MetaTitle,
		MetaDescription:      input.MetaDescription,
		CanonicalURL:         input.CanonicalURL,
		NoIndex:              input.NoIndex,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
}

func (s *service) emit(ctx context.Context, actor uuid.UUID, verb, objectType string, objectID uuid.UUID, meta map[string]any) {
	if s.activity == nil || !s.activity.Enabled() || objectID == uuid.Nil {
		return
	}
	event := activity.Event{
		Verb:       verb,
		ActorID:    actor.String(),
		ObjectType: objectType,
		ObjectID:   objectID.String(),
		Metadata:   meta,
	}
	_ = s.activity.Emit(ctx, event)
}

func applyTranslationPatch(record *ContentTranslation, patch TranslationPatch) error {
	if patch.Slug != nil {
		normalized, err := NormalizeSlug(strings.TrimSpace(*patch.Slug))
		if err != nil || normalized == "" {
			return ErrSlugInvalid
		}
		record.Slug = normalized
	}
	if patch.Title != nil {
		if strings.TrimSpace(*patch.Title) == "" {
			return ErrTitleRequired
		}
		record.Title = *patch.Title
	}
	if patch.Status != nil {
		record.Status = chooseStatus(*patch.Status)
	}
	if patch.Summary != nil {
		record.Summary = patch.Summary
	}
	if patch.Fields != nil {
		record.Fields = cloneMap(patch.Fields)
	}
	return nil
}

func applySeoPatch(record *SeoMeta, patch SeoPatch) {
	if patch.MetaTitle != nil {
		record.MetaTitle = patch.MetaTitle
	}
	if patch.MetaDescription != nil {
		record.MetaDescription = patch.MetaDescription
	}
	if patch.CanonicalURL != nil {
		record.CanonicalURL = patch.CanonicalURL
	}
	if patch.NoIndex != nil {
		record.NoIndex = *patch.NoIndex
	}
}

func chooseStatus(status string) string {
	trimmed := strings.TrimSpace(strings.ToLower(status))
	if trimmed == "" {
		return StatusDraft
	}
	return trimmed
}

func cloneMap(src map[string]any) map[string]any {
	if src == nil {
		return nil
	}
	out := make(map[string]any, len(src))
	for key, value := range src {
		out[key] = value
	}
	return out
}
