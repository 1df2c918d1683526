package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/msomdec/user-directory/internal/domain"
)

// userKind is the namespace all user entities live under in the store.
const userKind = "User"

// UserService translates user CRUD intents into store gateway calls.
type UserService struct {
	store domain.Store
}

// NewUserService creates a new UserService over the given store.
func NewUserService(store domain.Store) *UserService {
	return &UserService{store: store}
}

// List returns all stored users. Users sharing a name collapse into one
// entry, the last one observed in scan order. Collapsing by name rather
// than by key is kept for compatibility with existing clients.
func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	cur, err := s.store.ScanAll(ctx, userKind)
	if err != nil {
		return nil, fmt.Errorf("scan users: %w", err)
	}
	defer cur.Close()

	byName := make(map[string]domain.User)
	for cur.Next() {
		e := cur.Entity()
		byName[e.Fields["name"]] = domain.User{
			Name:  e.Fields["name"],
			Email: e.Fields["email"],
		}
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("scan users: %w", err)
	}

	users := make([]domain.User, 0, len(byName))
	for _, u := range byName {
		users = append(users, u)
	}
	return users, nil
}

// Get retrieves a single user by id. Returns domain.ErrNotFound if no user
// is stored under the id; a user is never built from an absent record.
func (s *UserService) Get(ctx context.Context, id string) (*domain.User, error) {
	e, err := s.store.Get(ctx, userKind, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &domain.User{Name: e.Fields["name"], Email: e.Fields["email"]}, nil
}

// Create validates the inputs and stores a new user keyed by email.
// Validation runs before the write so an invalid request never persists
// anything.
func (s *UserService) Create(ctx context.Context, name, email string) (*domain.User, error) {
	if err := failIfInvalid(name, email); err != nil {
		return nil, err
	}

	fields := map[string]string{"name": name, "email": email}
	if err := s.store.Put(ctx, userKind, email, fields); err != nil {
		return nil, fmt.Errorf("put user: %w", err)
	}
	return &domain.User{Name: name, Email: email}, nil
}

// Update overwrites the name and email of an existing user. An unknown id
// surfaces as domain.ErrInvalidInput, not ErrNotFound, so both failure
// modes reach clients with the same status. The new values are not
// validated; only Create enforces non-empty fields.
func (s *UserService) Update(ctx context.Context, id, name, email string) (*domain.User, error) {
	if _, err := s.store.Get(ctx, userKind, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: No user with id '%s' found", domain.ErrInvalidInput, id)
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	fields := map[string]string{"name": name, "email": email}
	if err := s.store.Update(ctx, userKind, id, fields); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	return &domain.User{Name: name, Email: email}, nil
}

// Delete removes the user stored under id. Deleting an unknown id succeeds.
func (s *UserService) Delete(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, userKind, id); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}

func failIfInvalid(name, email string) error {
	if name == "" {
		return fmt.Errorf("%w: Parameter 'name' cannot be empty", domain.ErrInvalidInput)
	}
	if email == "" {
		return fmt.Errorf("%w: Parameter 'email' cannot be empty", domain.ErrInvalidInput)
	}
	return nil
}
