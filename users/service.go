package users

import (
	"context"
	"regexp"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"github.com/goliatone/go-publishing/internal/logging"
	"github.com/goliatone/go-publishing/pkg/activity"
	"github.com/goliatone/go-publishing/pkg/interfaces"
)

// Service exposes the policy-gated user admin use-cases. Every operation
// resolves the acting account, evaluates the matching policy check, and only
// then touches storage.
type Service interface {
	List(ctx context.Context, actorID uuid.UUID, opts ListOptions) (*Page, error)
	Get(ctx context.Context, actorID, id uuid.UUID) (*User, error)
	Create(ctx context.Context, actorID uuid.UUID, req CreateUserRequest) (*User, error)
	Update(ctx context.Context, actorID, id uuid.UUID, patch UpdateUserRequest) (*User, error)
	Delete(ctx context.Context, actorID, id uuid.UUID) error
}

// ListOptions paginates the account listing.
type ListOptions struct {
	Page    int
	PerPage int
}

// Page is one page of user records.
type Page struct {
	Items      []*User `json:"items"`
	Total      int     `json:"total"`
	Page       int     `json:"page"`
	PerPage    int     `json:"per_page"`
	TotalPages int     `json:"total_pages"`
}

// CreateUserRequest carries the payload for a new account.
type CreateUserRequest struct {
	Email    string
	FullName string
	Role     string
}

// UpdateUserRequest lists the mutable account fields; only non-nil entries
// are applied.
type UpdateUserRequest struct {
	Email    *string
	FullName *string
	Role     *string
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

// NewService constructs a user service backed by the supplied repository.
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

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// List returns one page of accounts. Only actors passing the view-list policy
// may browse.
func (s *service) List(ctx context.Context, actorID uuid.UUID, opts ListOptions) (*Page, error) {
	if opts.Page < 1 || opts.PerPage < 1 {
		return nil, ErrPageInvalid
	}

	actor := s.resolveActor(ctx, actorID)
	if err := Authorize(ActionViewList, actor, nil); err != nil {
		return nil, err
	}

	records, total, err := s.repo.ListPage(ctx, opts)
	if err != nil {
		return nil, err
	}

	totalPages := 0
	if total > 0 {
		totalPages = (total + opts.PerPage - 1) / opts.PerPage
	}

	return &Page{
		Items:      records,
		Total:      total,
		Page:       opts.Page,
		PerPage:    opts.PerPage,
		TotalPages: totalPages,
	}, nil
}

// Get returns the target account when the self-scope policy allows it. A
// missing target surfaces as a policy denial, not as not-found, so callers
// cannot probe which accounts exist.
func (s *service) Get(ctx context.Context, actorID, id uuid.UUID) (*User, error) {
	if id == uuid.Nil {
		return nil, ErrUserIDRequired
	}

	actor := s.resolveActor(ctx, actorID)
	target := s.resolveTarget(ctx, id)
	if err := Authorize(ActionView, actor, target); err != nil {
		return nil, err
	}
	return target, nil
}

// Create registers a new account. Registration is open, so the policy check
// passes for any actor.
func (s *service) Create(ctx context.Context, actorID uuid.UUID, req CreateUserRequest) (*User, error) {
	actor := s.resolveActor(ctx, actorID)
	if err := Authorize(ActionCreate, actor, nil); err != nil {
		return nil, err
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		return nil, ErrEmailRequired
	}
	if err := validation.Validate(email, validation.Match(emailPattern)); err != nil {
		return nil, ErrEmailInvalid
	}
	role := NormalizeRole(req.Role)
	if role == "" {
		role = RoleMember
	}
	if !role.Known() {
		return nil, ErrRoleInvalid
	}

	now := s.now().UTC()
	record := &User{
		ID:        s.id(),
		Email:     email,
		FullName:  strings.TrimSpace(req.FullName),
		Role:      role,
		CreatedAt: now,
		UpdatedAt: now,
	}

	created, err := s.repo.Create(ctx, record)
	if err != nil {
		s.logger.Error("users.create.failed", "error", err)
		return nil, err
	}

	s.emit(ctx, actorID, "create", created.ID, map[string]any{"role": string(created.Role)})
	s.logger.Info("users.create", "user_id", created.ID, "role", created.Role)
	return created, nil
}

// Update patches the target account when the self-scope policy allows it.
func (s *service) Update(ctx context.Context, actorID, id uuid.UUID, patch UpdateUserRequest) (*User, error) {
	if id == uuid.Nil {
		return nil, ErrUserIDRequired
	}

	actor := s.resolveActor(ctx, actorID)
	target := s.resolveTarget(ctx, id)
	if err := Authorize(ActionUpdate, actor, target); err != nil {
		return nil, err
	}

	if patch.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*patch.Email))
		if email == "" {
			return nil, ErrEmailRequired
		}
		if err := validation.Validate(email, validation.Match(emailPattern)); err != nil {
			return nil, ErrEmailInvalid
		}
		target.Email = email
	}
	if patch.FullName != nil {
		target.FullName = strings.TrimSpace(*patch.FullName)
	}
	if patch.Role != nil {
		role := NormalizeRole(*patch.Role)
		if !role.Known() {
			return nil, ErrRoleInvalid
		}
		target.Role = role
	}
	target.UpdatedAt = s.now().UTC()

	updated, err := s.repo.Save(ctx, target)
	if err != nil {
		return nil, err
	}

	s.emit(ctx, actorID, "update", updated.ID, nil)
	return updated, nil
}

// Delete removes the target account when the self-scope policy allows it.
func (s *service) Delete(ctx context.Context, actorID, id uuid.UUID) error {
	if id == uuid.Nil {
		return ErrUserIDRequired
	}

	actor := s.resolveActor(ctx, actorID)
	target := s.resolveTarget(ctx, id)
	if err := Authorize(ActionDelete, actor, target); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.emit(ctx, actorID, "delete", id, nil)
	s.logger.Info("users.delete", "user_id", id)
	return nil
}

// resolveActor loads the acting account. Lookup failures yield a nil actor so
// the policy layer denies by default.
func (s *service) resolveActor(ctx context.Context, actorID uuid.UUID) *User {
	if actorID == uuid.Nil {
		return nil
	}
	actor, err := s.repo.Get(ctx, actorID)
	if err != nil {
		return nil
	}
	return actor
}

// resolveTarget loads the target account. A missing record yields nil, which
// the self-scoped checks treat as a denial.
func (s *service) resolveTarget(ctx context.Context, id uuid.UUID) *User {
	target, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil
	}
	return target
}

func (s *service) emit(ctx context.Context, actorID uuid.UUID, verb string, objectID uuid.UUID, meta map[string]any) {
	if s.activity == nil || !s.activity.Enabled() || objectID == uuid.Nil {
		return
	}
	event := activity.Event{
		Verb:       verb,
		ActorID:    actorID.String(),
		UserID:     objectID.String(),
		ObjectType: "user",
		ObjectID:   objectID.String(),
		Metadata:   meta,
	}
	_ = s.activity.Emit(ctx, event)
}
