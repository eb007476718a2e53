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
	deleteContentMessageType     = "publishing.content.delete"
	deleteTranslationMessageType = "publishing.content.translation.delete"
)

// DeleteContentCommand removes a content entry and everything attached to it.
type DeleteContentCommand struct {
	ContentID uuid.UUID `json:"content_id"`
}

// Type implements command.Message.
func (DeleteContentCommand) Type() string { return deleteContentMessageType }

// Validate ensures the message carries the required fields before reaching handlers.
func (m DeleteContentCommand) Validate() error {
	if m.ContentID == uuid.Nil {
		return validation.Errors{
			"content_id": validation.NewError("publishing.content.delete.content_id_required", "content_id is required"),
		}
	}
	return nil
}

// DeleteContentHandler removes content entries via the content service.
type DeleteContentHandler struct {
	inner *commands.Handler[DeleteContentCommand]
}

// NewDeleteContentHandler constructs a handler wired to the provided content service.
func NewDeleteContentHandler(service content.Service, logger interfaces.Logger, opts ...commands.HandlerOption[DeleteContentCommand]) *DeleteContentHandler {
	exec := func(ctx context.Context, msg DeleteContentCommand) error {
		return service.DeleteContent(ctx, msg.ContentID)
	}

	handlerOpts := []commands.HandlerOption[DeleteContentCommand]{
		commands.WithLogger[DeleteContentCommand](logger),
		commands.WithOperation[DeleteContentCommand]("content.delete"),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &DeleteContentHandler{
		inner: commands.NewHandler[DeleteContentCommand](exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[DeleteContentCommand].Execute.
func (h *DeleteContentHandler) Execute(ctx context.Context, msg DeleteContentCommand) error {
	return h.inner.Execute(ctx, msg)
}

// DeleteTranslationCommand removes the translation for (content_id, locale).
type DeleteTranslationCommand struct {
	ContentID uuid.UUID `json:"content_id"`
	Locale    string    `json:"locale"`
}

// Type implements command.Message.
func (DeleteTranslationCommand) Type() string { return deleteTranslationMessageType }

// Validate ensures the message carries the required fields before reaching handlers.
func (m DeleteTranslationCommand) Validate() error {
	errs := validation.Errors{}
	if m.ContentID == uuid.Nil {
		errs["content_id"] = validation.NewError("publishing.content.translation.delete.content_id_required", "content_id is required")
	}
	if m.Locale == "" {
		errs["locale"] = validation.NewError("publishing.content.translation.delete.locale_required", "locale is required")
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// DeleteTranslationHandler removes translations via the content service.
type DeleteTranslationHandler struct {
	inner *commands.Handler[DeleteTranslationCommand]
}

// NewDeleteTranslationHandler constructs a handler wired to the provided content service.
func NewDeleteTranslationHandler(service content.Service, logger interfaces.Logger, opts ...commands.HandlerOption[DeleteTranslationCommand]) *DeleteTranslationHandler {
	exec := func(ctx context.Context, msg DeleteTranslationCommand) error {
		return service.DeleteTranslation(ctx, msg.ContentID, msg.Locale)
	}

	handlerOpts := []commands.HandlerOption[DeleteTranslationCommand]{
		commands.WithLogger[DeleteTranslationCommand](logger),
		commands.WithOperation[DeleteTranslationCommand]("content.translation.delete"),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &DeleteTranslationHandler{
		inner: commands.NewHandler[DeleteTranslationCommand](exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[DeleteTranslationCommand].Execute.
func (h *DeleteTranslationHandler) Execute(ctx context.Context, msg DeleteTranslationCommand) error {
	return h.inner.Execute(ctx, msg)
}
