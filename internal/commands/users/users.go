package userscmd

import (
	"context"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"github.com/goliatone/go-publishing/internal/commands"
	"github.com/goliatone/go-publishing/pkg/interfaces"
	"github.com/goliatone/go-publishing/users"
)

const (
	createUserMessageType = "publishing.users.create"
	deleteUserMessageType = "publishing.users.delete"
)

// CreateUserCommand registers a new account.
type CreateUserCommand struct {
	ActorID  uuid.UUID `json:"actor_id,omitempty"`
	Email    string    `json:"email"`
	FullName string    `json:"full_name,omitempty"`
	Role     string    `json:"role,omitempty"`
}

// Type implements command.Message.
func (CreateUserCommand) Type() string { return createUserMessageType }

// Validate ensures the message carries the required fields before reaching handlers.
func (m CreateUserCommand) Validate() error {
	if m.Email == "" {
		return validation.Errors{
			"email": validation.NewError("publishing.users.create.email_required", "email is required"),
		}
	}
	return nil
}

// CreateUserHandler registers accounts via the user service.
type CreateUserHandler struct {
	inner *commands.Handler[CreateUserCommand]
}

// NewCreateUserHandler constructs a handler wired to the provided user service.
func NewCreateUserHandler(service users.Service, logger interfaces.Logger, opts ...commands.HandlerOption[CreateUserCommand]) *CreateUserHandler {
	exec := func(ctx context.Context, msg CreateUserCommand) error {
		_, err := service.Create(ctx, msg.ActorID, users.CreateUserRequest{
			Email:    msg.Email,
			FullName: msg.FullName,
			Role:     msg.Role,
		})
		return err
	}

	handlerOpts := []commands.HandlerOption[CreateUserCommand]{
		commands.WithLogger[CreateUserCommand](logger),
		commands.WithOperation[CreateUserCommand]("users.create"),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &CreateUserHandler{
		inner: commands.NewHandler[CreateUserCommand](exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[CreateUserCommand].Execute.
func (h *CreateUserHandler) Execute(ctx context.Context, msg CreateUserCommand) error {
	return h.inner.Execute(ctx, msg)
}

// DeleteUserCommand removes an account on behalf of the acting user.
type DeleteUserCommand struct {
	ActorID uuid.UUID `json:"actor_id"`
	UserID  uuid.UUID `json:"user_id"`
}

// Type implements command.Message.
func (DeleteUserCommand) Type() string { return deleteUserMessageType }

// Validate ensures the message carries the required fields before reaching handlers.
func (m DeleteUserCommand) Validate() error {
	errs := validation.Errors{}
	if m.ActorID == uuid.Nil {
		errs["actor_id"] = validation.NewError("publishing.users.delete.actor_required", "actor_id is required")
	}
	if m.UserID == uuid.Nil {
		errs["user_id"] = validation.NewError("publishing.users.delete.user_id_required", "user_id is required")
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// DeleteUserHandler removes accounts via the user service.
type DeleteUserHandler struct {
	inner *commands.Handler[DeleteUserCommand]
}

// NewDeleteUserHandler constructs a handler wired to the provided user service.
func NewDeleteUserHandler(service users.Service, logger interfaces.Logger, opts ...commands.HandlerOption[DeleteUserCommand]) *DeleteUserHandler {
	exec := func(ctx context.Context, msg DeleteUserCommand) error {
		return service.Delete(ctx, msg.ActorID, msg.UserID)
	}

	handlerOpts := []commands.HandlerOption[DeleteUserCommand]{
		commands.WithLogger[DeleteUserCommand](logger),
		commands.WithOperation[DeleteUserCommand]("users.delete"),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &DeleteUserHandler{
		inner: commands.NewHandler[DeleteUserCommand](exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[DeleteUserCommand].Execute.
func (h *DeleteUserHandler) Execute(ctx context.Context, msg DeleteUserCommand) error {
	return h.inner.Execute(ctx, msg)
}
