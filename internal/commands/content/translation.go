package contentcmd

import (
	"context"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"github.com/goliatone/go-publishing/content"
	"github.com/goliatone/go-publishing/internal/commands"
	"github.com/goliatone/go-publishing/pkg/interfaces"
)

const (
	createTranslationMessageType = "publishing.content.translation.create"
	updateTranslationMessageType = "publishing.content.translation.update"
)

// CreateTranslationCommand requests a new locale variant for existing content.
type CreateTranslationCommand struct {
	ContentID uuid.UUID      `json:"content_id"`
	Locale    string         `json:"locale"`
	Slug      string         `json:"slug"`
	Title     string         `json:"title"`
	Status    string         `json:"status,omitempty"`
	Summary   *string        `json:"summary,omitempty"`
	Fields    map[string]any `json:"fields,omitempty"`
	Seo       *SeoPayload    `json:"seo,omitempty"`
}

// Type implements command.Message.
func (CreateTranslationCommand) Type() string { return createTranslationMessageType }

// Validate ensures the message carries the required fields before reaching handlers.
func (m CreateTranslationCommand) Validate() error {
	errs := validation.Errors{}
	if m.ContentID == uuid.Nil {
		errs["content_id"] = validation.NewError("publishing.content.translation.create.content_id_required", "content_id is required")
	}
	if m.Locale == "" {
		errs["locale"] = validation.NewError("publishing.content.translation.create.locale_required", "locale is required")
	}
	if m.Slug == "" {
		errs["slug"] = validation.NewError("publishing.content.translation.create.slug_required", "slug is required")
	}
	if m.Title == "" {
		errs["title"] = validation.NewError("publishing.content.translation.create.title_required", "title is required")
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// CreateTranslationHandler adds locale variants via the content service.
type CreateTranslationHandler struct {
	inner *commands.Handler[CreateTranslationCommand]
}

// NewCreateTranslationHandler constructs a handler wired to the provided content service.
func NewCreateTranslationHandler(service content.Service, logger interfaces.Logger, opts ...commands.HandlerOption[CreateTranslationCommand]) *CreateTranslationHandler {
	exec := func(ctx context.Context, msg CreateTranslationCommand) error {
		_, err := service.CreateTranslation(ctx, content.CreateTranslationRequest{
			ContentID: msg.ContentID,
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

	handlerOpts := []commands.HandlerOption[CreateTranslationCommand]{
		commands.WithLogger[CreateTranslationCommand](logger),
		commands.WithOperation[CreateTranslationCommand]("content.translation.create"),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &CreateTranslationHandler{
		inner: commands.NewHandler[CreateTranslationCommand](exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[CreateTranslationCommand].Execute.
func (h *CreateTranslationHandler) Execute(ctx context.Context, msg CreateTranslationCommand) error {
	return h.inner.Execute(ctx, msg)
}

// UpdateTranslationCommand patches the translation for (content_id, locale).
type UpdateTranslationCommand struct {
	ContentID uuid.UUID      `json:"content_id"`
	Locale    string         `json:"locale"`
	Slug      *string        `json:"slug,omitempty"`
	Title     *string        `json:"title,omitempty"`
	Status    *string        `json:"status,omitempty"`
	Summary   *string        `json:"summary,omitempty"`
	Fields    map[string]any `json:"fields,omitempty"`
	Seo       *SeoPatch      `json:"seo,omitempty"`
}

// SeoPatch carries partial SEO updates on command messages.
type SeoPatch struct {
	MetaTitle       *string `json:"meta_title,omitempty"`
	MetaDescription *string `json:"meta_description,omitempty"`
	CanonicalURL    *string `json:"canonical_url,omitempty"`
	NoIndex         *bool   `json:"no_index,omitempty"`
}

// Type implements command.Message.
func (UpdateTranslationCommand) Type() string { return updateTranslationMessageType }

// Validate ensures the message carries the required fields before reaching handlers.
func (m UpdateTranslationCommand) Validate() error {
	errs := validation.Errors{}
	if m.ContentID == uuid.Nil {
		errs["content_id"] = validation.NewError("publishing.content.translation.update.content_id_required", "content_id is required")
	}
	if m.Locale == "" {
		errs["locale"] = validation.NewError("publishing.content.translation.update.locale_required", "locale is required")
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// UpdateTranslationHandler patches translations via the content service.
type UpdateTranslationHandler struct {
	inner *commands.Handler[UpdateTranslationCommand]
}

// NewUpdateTranslationHandler constructs a handler wired to the provided content service.
func NewUpdateTranslationHandler(service content.Service, logger interfaces.Logger, opts ...commands.HandlerOption[UpdateTranslationCommand]) *UpdateTranslationHandler {
	exec := func(ctx context.Context, msg UpdateTranslationCommand) error {
		req := content.UpdateTranslationRequest{
			ContentID: msg.ContentID,
			Locale:    msg.Locale,
			Patch: content.TranslationPatch{
				Slug:    msg.Slug,
				Title:   msg.Title,
				Status:  msg.Status,
				Summary: msg.Summary,
				Fields:  msg.Fields,
			},
		}
		if msg.Seo != nil {
			req.Seo = &content.SeoPatch{
				MetaTitle:       msg.Seo.MetaTitle,
				MetaDescription: msg.Seo.MetaDescription,
				CanonicalURL:    msg.Seo.CanonicalURL,
				NoIndex:         msg.Seo.NoIndex,
			}
		}
		_, err := service.UpdateTranslation(ctx, req)
		return err
	}

	handlerOpts := []commands.HandlerOption[UpdateTranslationCommand]{
		commands.WithLogger[UpdateTranslationCommand](logger),
		commands.WithOperation[UpdateTranslationCommand]("content.translation.update"),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &UpdateTranslationHandler{
		inner: commands.NewHandler[UpdateTranslationCommand](exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[UpdateTranslationCommand].Execute.
func (h *UpdateTranslationHandler) Execute(ctx context.Context, msg UpdateTranslationCommand) error {
	return h.inner.Execute(ctx, msg)
}
