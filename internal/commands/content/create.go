package contentcmd

import (
	"context"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"github.com/goliatone/go-publishing/content"
	"github.com/goliatone/go-publishing/internal/commands"
	"github.com/goliatone/go-publishing/pkg/interfaces"
)

const createContentMessageType = "publishing.content.create"

// SeoPayload carries optional search metadata on command messages.
type SeoPayload struct {
	MetaTitle       *string `json:"meta_title,omitempty"`
	MetaDescription *string `json:"meta_description,omitempty"`
	CanonicalURL    *string `json:"canonical_url,omitempty"`
	NoIndex         bool    `json:"no_index,omitempty"`
}

func (p *SeoPayload) toInput() *content.SeoInput {
	if p == nil {
		return nil
	}
	return &content.SeoInput{
		MetaTitle:       p.MetaTitle,
		MetaDescription: p.MetaDescription,
		CanonicalURL:    p.CanonicalURL,
		NoIndex:         p.NoIndex,
	}
}

// CreateContentCommand requests creation of a content entry with its first
// translation and optional SEO metadata.
type CreateContentCommand struct {
	AuthorID uuid.UUID      `json:"author_id"`
	Status   string         `json:"status,omitempty"`
	Locale   string         `json:"locale"`
	Slug     string         `json:"slug"`
	Title    string         `json:"title"`
	Summary  *string        `json:"summary,omitempty"`
	Fields   map[string]any `json:"fields,omitempty"`
	Seo      *SeoPayload    `json:"seo,omitempty"`
}

// Type implements command.Message.
func (CreateContentCommand) Type() string { return createContentMessageType }

// Validate ensures the message carries the required fields before reaching handlers.
func (m CreateContentCommand) Validate() error {
	errs := validation.Errors{}
	if m.AuthorID == uuid.Nil {
		errs["author_id"] = validation.NewError("publishing.content.create.author_required", "author_id is required")
	}
	if m.Locale == "" {
		errs["locale"] = validation.NewError("publishing.content.create.locale_required", "locale is required")
	}
	if m.Slug == "" {
		errs["slug"] = validation.NewError("publishing.content.create.slug_required", "slug is required")
	}
	if m.Title == "" {
		errs["title"] = validation.NewError("publishing.content.create.title_required", "title is required")
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// CreateContentHandler creates content entries via the content service.
type CreateContentHandler struct {
	inner *commands.Handler[CreateContentCommand]
}

// NewCreateContentHandler constructs a handler wired to the provided content service.
func NewCreateContentHandler(service content.Service, logger interfaces.Logger, opts ...commands.HandlerOption[CreateContentCommand]) *CreateContentHandler {
	exec := func(ctx context.Context, msg CreateContentCommand) error {
		_, err := service.CreateContent(ctx, content.CreateContentRequest{
			AuthorID: msg.AuthorID,
			Status:   msg.Status,
			Translation: content.TranslationInput{
				Locale:  msg.Locale,
				Slug:    msg.Slug,
				Title:   msg.Title,
				Status:  msg.Status,
				Summary: msg.Summary,
				Fields:  msg.Fields,
			},
			Seo: msg.Seo.toInput(),
		})
		return err
	}

	handlerOpts := []commands.HandlerOption[CreateContentCommand]{
		commands.WithLogger[CreateContentCommand](logger),
		commands.WithOperation[CreateContentCommand]("content.create"),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &CreateContentHandler{
		inner: commands.NewHandler[CreateContentCommand](exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[CreateContentCommand].Execute.
func (h *CreateContentHandler) Execute(ctx context.Context, msg CreateContentCommand) error {
	return h.inner.Execute(ctx, msg)
}
