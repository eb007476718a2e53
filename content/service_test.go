package content

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-publishing/pkg/activity"
)

func newTestService(t *testing.T, opts ...ServiceOption) (Service, *MemoryRepository) {
	t.Helper()
	repo := NewMemoryRepository()
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	step := 0
	clock := func() time.Time {
		step++
		return base.Add(time.Duration(step) * time.Second)
	}
	opts = append([]ServiceOption{WithClock(clock)}, opts...)
	return NewService(repo, opts...), repo
}

func strPtr(value string) *string {
	return &value
}

func boolPtr(value bool) *bool {
	return &value
}

func seedContent(t *testing.T, svc Service, locale, slug string, seo *SeoInput) *ContentTranslation {
	t.Helper()
	created, err := svc.CreateContent(context.Background(), CreateContentRequest{
		AuthorID: uuid.New(),
		Status:   StatusPublished,
		Translation: TranslationInput{
			Locale: locale,
			Slug:   slug,
			Title:  "Launch Notes",
			Fields: map[string]any{"body": "hello"},
		},
		Seo: seo,
	})
	if err != nil {
		t.Fatalf("CreateContent: %v", err)
	}
	return created
}

func TestCreateContentPersistsAggregate(t *testing.T) {
	svc, _ := newTestService(t)

	created := seedContent(t, svc, "en", "Launch Notes!", &SeoInput{
		MetaTitle: strPtr("Launch Notes"),
		NoIndex:   true,
	})

	if created.Slug != "launch-notes" {
		t.Errorf("expected normalized slug launch-notes, got %q", created.Slug)
	}
	if created.Status != StatusPublished {
		t.Errorf("expected translation status published, got %q", created.Status)
	}
	if created.Seo == nil || created.Seo.MetaTitle == nil || *created.Seo.MetaTitle != "Launch Notes" {
		t.Fatalf("expected SEO record on created translation, got %+v", created.Seo)
	}

	fetched, err := svc.GetTranslation(context.Background(), created.ContentID, "en")
	if err != nil {
		t.Fatalf("GetTranslation: %v", err)
	}
	if fetched.Title != "Launch Notes" {
		t.Errorf("expected title to roundtrip, got %q", fetched.Title)
	}
	if fetched.Seo == nil || !fetched.Seo.NoIndex {
		t.Errorf("expected SEO no_index to roundtrip, got %+v", fetched.Seo)
	}

	record, err := svc.GetContent(context.Background(), created.ContentID)
	if err != nil {
		t.Fatalf("GetContent: %v", err)
	}
	if len(record.Translations) != 1 {
		t.Fatalf("expected 1 translation loaded, got %d", len(record.Translations))
	}
}

func TestCreateContentDefaultsStatusToDraft(t *testing.T) {
	svc, _ := newTestService(t)

	created, err := svc.CreateContent(context.Background(), CreateContentRequest{
		AuthorID: uuid.New(),
		Translation: TranslationInput{
			Locale: "en",
			Slug:   "untitled",
			Title:  "Untitled",
		},
	})
	if err != nil {
		t.Fatalf("CreateContent: %v", err)
	}
	if created.Status != StatusDraft {
		t.Errorf("expected draft status, got %q", created.Status)
	}

	record, err := svc.GetContent(context.Background(), created.ContentID)
	if err != nil {
		t.Fatalf("GetContent: %v", err)
	}
	if record.Status != StatusDraft {
		t.Errorf("expected content draft status, got %q", record.Status)
	}
}

func TestCreateContentValidation(t *testing.T) {
	svc, _ := newTestService(t)
	author := uuid.New()

	cases := []struct {
		name string
		req  CreateContentRequest
		want error
	}{
		{
			name: "missing author",
			req: CreateContentRequest{
				Translation: TranslationInput{Locale: "en", Slug: "a", Title: "A"},
			},
			want: ErrAuthorRequired,
		},
		{
			name: "missing locale",
			req: CreateContentRequest{
				AuthorID:    author,
				Translation: TranslationInput{Slug: "a", Title: "A"},
			},
			want: ErrLocaleRequired,
		},
		{
			name: "missing slug",
			req: CreateContentRequest{
				AuthorID:    author,
				Translation: TranslationInput{Locale: "en", Title: "A"},
			},
			want: ErrSlugRequired,
		},
		{
			name: "missing title",
			req: CreateContentRequest{
				AuthorID:    author,
				Translation: TranslationInput{Locale: "en", Slug: "a"},
			},
			want: ErrTitleRequired,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateContent(context.Background(), tc.req)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
			if !IsValidation(err) {
				t.Errorf("expected validation classification for %v", err)
			}
		})
	}
}

func TestCreateTranslationDuplicateLocale(t *testing.T) {
	svc, _ := newTestService(t)
	created := seedContent(t, svc, "en", "welcome", nil)

	_, err := svc.CreateTranslation(context.Background(), CreateTranslationRequest{
		ContentID: created.ContentID,
		Translation: TranslationInput{
			Locale: "en",
			Slug:   "welcome-again",
			Title:  "Welcome Again",
		},
	})
	if !IsConflict(err) {
		t.Fatalf("expected conflict, got %v", err)
	}

	var conflict *TranslationExistsError
	if !errors.As(err, &conflict) {
		t.Fatalf("expected TranslationExistsError, got %T", err)
	}
	if conflict.Locale != "en" || conflict.ExistingID != created.ID {
		t.Errorf("unexpected conflict details: %+v", conflict)
	}
}

func TestCreateTranslationMissingParent(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.CreateTranslation(context.Background(), CreateTranslationRequest{
		ContentID: uuid.New(),
		Translation: TranslationInput{
			Locale: "es",
			Slug:   "bienvenida",
			Title:  "Bienvenida",
		},
	})
	if !IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestCreateTranslationAddsLocaleVariant(t *testing.T) {
	svc, _ := newTestService(t)
	created := seedContent(t, svc, "en", "welcome", nil)

	variant, err := svc.CreateTranslation(context.Background(), CreateTranslationRequest{
		ContentID: created.ContentID,
		Translation: TranslationInput{
			Locale: "es",
			Slug:   "bienvenida",
			Title:  "Bienvenida",
		},
		Seo: &SeoInput{CanonicalURL: strPtr("https://example.com/es/bienvenida")},
	})
	if err != nil {
		t.Fatalf("CreateTranslation: %v", err)
	}
	if variant.ContentID != created.ContentID {
		t.Errorf("expected variant bound to parent content")
	}

	record, err := svc.GetContent(context.Background(), created.ContentID)
	if err != nil {
		t.Fatalf("GetContent: %v", err)
	}
	if len(record.Translations) != 2 {
		t.Fatalf("expected 2 translations, got %d", len(record.Translations))
	}
}

func TestUpdateTranslationPartialPatch(t *testing.T) {
	svc, _ := newTestService(t)
	created := seedContent(t, svc, "en", "welcome", nil)

	updated, err := svc.UpdateTranslation(context.Background(), UpdateTranslationRequest{
		ContentID: created.ContentID,
		Locale:    "en",
		Patch: TranslationPatch{
			Title: strPtr("Welcome Back"),
		},
	})
	if err != nil {
		t.Fatalf("UpdateTranslation: %v", err)
	}

	if updated.Title != "Welcome Back" {
		t.Errorf("expected patched title, got %q", updated.Title)
	}
	if updated.Slug != created.Slug {
		t.Errorf("expected slug untouched, got %q", updated.Slug)
	}
	if updated.Status != created.Status {
		t.Errorf("expected status untouched, got %q", updated.Status)
	}
	if updated.Fields["body"] != "hello" {
		t.Errorf("expected fields untouched, got %v", updated.Fields)
	}
	if !updated.UpdatedAt.After(created.UpdatedAt) {
		t.Errorf("expected updated_at to advance")
	}
}

func TestUpdateTranslationReplacesFieldsWholesale(t *testing.T) {
	svc, _ := newTestService(t)
	created := seedContent(t, svc, "en", "welcome", nil)

	updated, err := svc.UpdateTranslation(context.Background(), UpdateTranslationRequest{
		ContentID: created.ContentID,
		Locale:    "en",
		Patch: TranslationPatch{
			Fields: map[string]any{"hero": "banner.png"},
		},
	})
	if err != nil {
		t.Fatalf("UpdateTranslation: %v", err)
	}
	if _, ok := updated.Fields["body"]; ok {
		t.Errorf("expected fields map replaced, old keys survived: %v", updated.Fields)
	}
	if updated.Fields["hero"] != "banner.png" {
		t.Errorf("expected new fields map, got %v", updated.Fields)
	}
}

func TestUpdateTranslationSeoPatchMerges(t *testing.T) {
	svc, _ := newTestService(t)
	created := seedContent(t, svc, "en", "welcome", &SeoInput{
		MetaTitle:       strPtr("Welcome"),
		MetaDescription: strPtr("Original description"),
	})

	updated, err := svc.UpdateTranslation(context.Background(), UpdateTranslationRequest{
		ContentID: created.ContentID,
		Locale:    "en",
		Seo: &SeoPatch{
			MetaDescription: strPtr("Fresh description"),
			NoIndex:         boolPtr(true),
		},
	})
	if err != nil {
		t.Fatalf("UpdateTranslation: %v", err)
	}
	if updated.Seo == nil {
		t.Fatal("expected SEO record on result")
	}
	if updated.Seo.MetaTitle == nil || *updated.Seo.MetaTitle != "Welcome" {
		t.Errorf("expected untouched meta title, got %+v", updated.Seo.MetaTitle)
	}
	if updated.Seo.MetaDescription == nil || *updated.Seo.MetaDescription != "Fresh description" {
		t.Errorf("expected patched description, got %+v", updated.Seo.MetaDescription)
	}
	if !updated.Seo.NoIndex {
		t.Errorf("expected no_index flipped on")
	}
}

func TestUpdateTranslationSeoPatchIgnoredWithoutRecord(t *testing.T) {
	svc, _ := newTestService(t)
	created := seedContent(t, svc, "en", "welcome", nil)

	updated, err := svc.UpdateTranslation(context.Background(), UpdateTranslationRequest{
		ContentID: created.ContentID,
		Locale:    "en",
		Seo: &SeoPatch{
			MetaTitle: strPtr("Should not appear"),
		},
	})
	if err != nil {
		t.Fatalf("UpdateTranslation: %v", err)
	}
	if updated.Seo != nil {
		t.Errorf("expected no SEO record fabricated, got %+v", updated.Seo)
	}
}

func TestUpdateTranslationUnknownLocale(t *testing.T) {
	svc, _ := newTestService(t)
	created := seedContent(t, svc, "en", "welcome", nil)

	_, err := svc.UpdateTranslation(context.Background(), UpdateTranslationRequest{
		ContentID: created.ContentID,
		Locale:    "fr",
		Patch:     TranslationPatch{Title: strPtr("Bienvenue")},
	})
	if !IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestUpdateTranslationRejectsInvalidSlug(t *testing.T) {
	svc, _ := newTestService(t)
	created := seedContent(t, svc, "en", "welcome", nil)

	_, err := svc.UpdateTranslation(context.Background(), UpdateTranslationRequest{
		ContentID: created.ContentID,
		Locale:    "en",
		Patch:     TranslationPatch{Slug: strPtr("   ")},
	})
	if !errors.Is(err, ErrSlugInvalid) {
		t.Fatalf("expected slug invalid, got %v", err)
	}
}

func TestDeleteContentCascades(t *testing.T) {
	svc, _ := newTestService(t)
	created := seedContent(t, svc, "en", "welcome", &SeoInput{MetaTitle: strPtr("Welcome")})

	if err := svc.DeleteContent(context.Background(), created.ContentID); err != nil {
		t.Fatalf("DeleteContent: %v", err)
	}

	if _, err := svc.GetContent(context.Background(), created.ContentID); !IsNotFound(err) {
		t.Errorf("expected content gone, got %v", err)
	}
	if _, err := svc.GetTranslation(context.Background(), created.ContentID, "en"); !IsNotFound(err) {
		t.Errorf("expected translation gone, got %v", err)
	}
	if _, err := svc.GetContentBySlug(context.Background(), "welcome"); !IsNotFound(err) {
		t.Errorf("expected slug lookup to miss, got %v", err)
	}
}

func TestDeleteContentUnknownID(t *testing.T) {
	svc, _ := newTestService(t)

	if err := svc.DeleteContent(context.Background(), uuid.New()); !IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestDeleteTranslationLeavesSiblings(t *testing.T) {
	svc, _ := newTestService(t)
	created := seedContent(t, svc, "en", "welcome", nil)
	if _, err := svc.CreateTranslation(context.Background(), CreateTranslationRequest{
		ContentID:   created.ContentID,
		Translation: TranslationInput{Locale: "es", Slug: "bienvenida", Title: "Bienvenida"},
	}); err != nil {
		t.Fatalf("CreateTranslation: %v", err)
	}

	if err := svc.DeleteTranslation(context.Background(), created.ContentID, "es"); err != nil {
		t.Fatalf("DeleteTranslation: %v", err)
	}

	if _, err := svc.GetTranslation(context.Background(), created.ContentID, "es"); !IsNotFound(err) {
		t.Errorf("expected deleted translation to miss, got %v", err)
	}
	if _, err := svc.GetTranslation(context.Background(), created.ContentID, "en"); err != nil {
		t.Errorf("expected sibling translation intact, got %v", err)
	}
}

func TestGetContentBySlug(t *testing.T) {
	svc, _ := newTestService(t)
	created := seedContent(t, svc, "en", "welcome", nil)

	record, err := svc.GetContentBySlug(context.Background(), "welcome")
	if err != nil {
		t.Fatalf("GetContentBySlug: %v", err)
	}
	if record.ID != created.ContentID {
		t.Errorf("expected content %s, got %s", created.ContentID, record.ID)
	}

	if _, err := svc.GetContentBySlug(context.Background(), "missing"); !IsNotFound(err) {
		t.Errorf("expected not found for unknown slug, got %v", err)
	}
}

func TestLookupValidation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.GetContent(ctx, uuid.Nil); !errors.Is(err, ErrContentIDRequired) {
		t.Errorf("GetContent nil id: got %v", err)
	}
	if _, err := svc.GetContentBySlug(ctx, "  "); !errors.Is(err, ErrSlugRequired) {
		t.Errorf("GetContentBySlug blank: got %v", err)
	}
	if _, err := svc.GetTranslation(ctx, uuid.New(), ""); !errors.Is(err, ErrLocaleRequired) {
		t.Errorf("GetTranslation blank locale: got %v", err)
	}
	if err := svc.DeleteTranslation(ctx, uuid.Nil, "en"); !errors.Is(err, ErrContentIDRequired) {
		t.Errorf("DeleteTranslation nil id: got %v", err)
	}
}

func TestListFlattensTranslations(t *testing.T) {
	svc, _ := newTestService(t)
	first := seedContent(t, svc, "en", "first-post", nil)
	if _, err := svc.CreateTranslation(context.Background(), CreateTranslationRequest{
		ContentID:   first.ContentID,
		Translation: TranslationInput{Locale: "es", Slug: "primera-entrada", Title: "Primera"},
	}); err != nil {
		t.Fatalf("CreateTranslation: %v", err)
	}
	seedContent(t, svc, "en", "second-post", nil)

	page, err := svc.List(context.Background(), ListOptions{Page: 1, PerPage: 10})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if page.Total != 2 {
		t.Errorf("expected total 2 content entries, got %d", page.Total)
	}
	if len(page.Items) != 3 {
		t.Fatalf("expected 3 flattened translations, got %d", len(page.Items))
	}
	for _, item := range page.Items {
		if item.ContentStatus != StatusPublished {
			t.Errorf("expected parent status annotation, got %q", item.ContentStatus)
		}
	}
}

func TestListLocaleFilter(t *testing.T) {
	svc, _ := newTestService(t)
	first := seedContent(t, svc, "en", "first-post", nil)
	if _, err := svc.CreateTranslation(context.Background(), CreateTranslationRequest{
		ContentID:   first.ContentID,
		Translation: TranslationInput{Locale: "es", Slug: "primera-entrada", Title: "Primera"},
	}); err != nil {
		t.Fatalf("CreateTranslation: %v", err)
	}
	seedContent(t, svc, "en", "second-post", nil)

	page, err := svc.List(context.Background(), ListOptions{Locale: "es", Page: 1, PerPage: 10})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if page.Total != 1 {
		t.Errorf("expected 1 content entry with es translation, got %d", page.Total)
	}
	if len(page.Items) != 1 || page.Items[0].Locale != "es" {
		t.Fatalf("expected only es translations, got %+v", page.Items)
	}
}

func TestListPagination(t *testing.T) {
	svc, _ := newTestService(t)
	seedContent(t, svc, "en", "post-one", nil)
	seedContent(t, svc, "en", "post-two", nil)
	seedContent(t, svc, "en", "post-three", nil)

	page, err := svc.List(context.Background(), ListOptions{Page: 2, PerPage: 2})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if page.Total != 3 {
		t.Errorf("expected total 3, got %d", page.Total)
	}
	if page.TotalPages != 2 {
		t.Errorf("expected 2 pages, got %d", page.TotalPages)
	}
	if len(page.Items) != 1 {
		t.Errorf("expected 1 item on last page, got %d", len(page.Items))
	}

	empty, err := svc.List(context.Background(), ListOptions{Page: 5, PerPage: 2})
	if err != nil {
		t.Fatalf("List past end: %v", err)
	}
	if len(empty.Items) != 0 || empty.Total != 3 {
		t.Errorf("expected empty page with preserved total, got %+v", empty)
	}
}

func TestListRejectsInvalidPaging(t *testing.T) {
	svc, _ := newTestService(t)

	if _, err := svc.List(context.Background(), ListOptions{Page: 0, PerPage: 10}); !errors.Is(err, ErrPageInvalid) {
		t.Errorf("expected page invalid, got %v", err)
	}
	if _, err := svc.List(context.Background(), ListOptions{Page: 1, PerPage: 0}); !errors.Is(err, ErrPageSizeInvalid) {
		t.Errorf("expected page size invalid, got %v", err)
	}
}

func TestMutationsEmitActivity(t *testing.T) {
	capture := &activity.CaptureHook{}
	emitter := activity.NewEmitter(activity.Hooks{capture}, activity.Config{Enabled: true, Channel: "publishing"})
	svc, _ := newTestService(t, WithActivityEmitter(emitter))

	created := seedContent(t, svc, "en", "welcome", nil)
	if err := svc.DeleteContent(context.Background(), created.ContentID); err != nil {
		t.Fatalf("DeleteContent: %v", err)
	}

	events := capture.Events()
	if len(events) != 2 {
		t.Fatalf("expected 2 activity events, got %d", len(events))
	}
	if events[0].Verb != "create" || events[0].ObjectType != "content" {
		t.Errorf("unexpected first event: %+v", events[0])
	}
	if events[1].Verb != "delete" {
		t.Errorf("unexpected second event: %+v", events[1])
	}
	for _, event := range events {
		if event.Channel != "publishing" {
			t.Errorf("expected channel stamped, got %q", event.Channel)
		}
		if event.OccurredAt.IsZero() {
			t.Errorf("expected occurred_at stamped")
		}
	}
}
