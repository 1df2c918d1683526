package service_test

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/msomdec/user-directory/internal/domain"
	"github.com/msomdec/user-directory/internal/service"
	"github.com/msomdec/user-directory/internal/store/sqlite"
)

func newTestUserService(t *testing.T) *service.UserService {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := sqlite.New(dbPath)
	if err != nil {
		t.Fatalf("New DB: %v", err)
	}
	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return service.NewUserService(db.Entities())
}

func TestUserService_CreateThenGet(t *testing.T) {
	users := newTestUserService(t)
	ctx := context.Background()

	created, err := users.Create(ctx, "Ada", "ada@example.com")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.Name != "Ada" || created.Email != "ada@example.com" {
		t.Fatalf("unexpected created user: %+v", created)
	}

	got, err := users.Get(ctx, "ada@example.com")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Name != "Ada" || got.Email != "ada@example.com" {
		t.Fatalf("unexpected user: %+v", got)
	}
}

func TestUserService_Create_Validation(t *testing.T) {
	users := newTestUserService(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		uname string
		email string
	}{
		{"empty name", "", "e@x.com"},
		{"empty email", "n", ""},
		{"both empty", "", ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := users.Create(ctx, tc.uname, tc.email)
			if !errors.Is(err, domain.ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}

	// Validation runs before the write, so nothing may have been persisted.
	all, err := users.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 0 {
		t.Fatalf("expected empty store after invalid creates, got %d users", len(all))
	}
	if _, err := users.Get(ctx, "e@x.com"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUserService_Get_Missing(t *testing.T) {
	users := newTestUserService(t)

	_, err := users.Get(context.Background(), "nobody@example.com")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUserService_UpdateThenGet(t *testing.T) {
	users := newTestUserService(t)
	ctx := context.Background()

	if _, err := users.Create(ctx, "Old", "old@example.com"); err != nil {
		t.Fatalf("Create: %v", err)
	}

	updated, err := users.Update(ctx, "old@example.com", "New", "new@example.com")
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Name != "New" || updated.Email != "new@example.com" {
		t.Fatalf("unexpected updated user: %+v", updated)
	}

	// The storage key stays the caller-supplied id; only the fields change.
	got, err := users.Get(ctx, "old@example.com")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Name != "New" || got.Email != "new@example.com" {
		t.Fatalf("expected updated fields, got %+v", got)
	}
}

func TestUserService_Update_UnknownID(t *testing.T) {
	users := newTestUserService(t)
	ctx := context.Background()

	if _, err := users.Create(ctx, "Ada", "ada@example.com"); err != nil {
		t.Fatalf("Create: %v", err)
	}

	_, err := users.Update(ctx, "ghost", "New", "new@example.com")
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	want := "No user with id 'ghost' found"
	if got := err.Error(); !strings.Contains(got, want) {
		t.Fatalf("expected message containing %q, got %q", want, got)
	}

	// The failed update must not have touched the store.
	got, err := users.Get(ctx, "ada@example.com")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Name != "Ada" {
		t.Fatalf("expected untouched user, got %+v", got)
	}
}

func TestUserService_Delete_Idempotent(t *testing.T) {
	users := newTestUserService(t)
	ctx := context.Background()

	if _, err := users.Create(ctx, "Ada", "ada@example.com"); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := users.Delete(ctx, "ada@example.com"); err != nil {
		t.Fatalf("first Delete: %v", err)
	}
	if _, err := users.Get(ctx, "ada@example.com"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}

	// Deleting again must not fail.
	if err := users.Delete(ctx, "ada@example.com"); err != nil {
		t.Fatalf("second Delete: %v", err)
	}
}

func TestUserService_List_CollapsesByName(t *testing.T) {
	users := newTestUserService(t)
	ctx := context.Background()

	if _, err := users.Create(ctx, "A", "a@x.com"); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := users.Create(ctx, "A", "a2@x.com"); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := users.Create(ctx, "B", "b@x.com"); err != nil {
		t.Fatalf("Create: %v", err)
	}

	all, err := users.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 users after name collapse, got %d: %+v", len(all), all)
	}

	seen := 0
	for _, u := range all {
		if u.Name == "A" {
			seen++
		}
	}
	if seen != 1 {
		t.Fatalf("expected exactly one user named A, got %d", seen)
	}
}

func TestUserService_TransportErrorPropagates(t *testing.T) {
	users := service.NewUserService(&failingStore{})
	ctx := context.Background()

	if _, err := users.Get(ctx, "any"); !errors.Is(err, domain.ErrUnavailable) {
		t.Fatalf("Get: expected ErrUnavailable, got %v", err)
	}
	if _, err := users.Create(ctx, "n", "e@x.com"); !errors.Is(err, domain.ErrUnavailable) {
		t.Fatalf("Create: expected ErrUnavailable, got %v", err)
	}
	if _, err := users.List(ctx); !errors.Is(err, domain.ErrUnavailable) {
		t.Fatalf("List: expected ErrUnavailable, got %v", err)
	}
	if err := users.Delete(ctx, "any"); !errors.Is(err, domain.ErrUnavailable) {
		t.Fatalf("Delete: expected ErrUnavailable, got %v", err)
	}
}

// failingStore simulates an unreachable remote store.
type failingStore struct{}

func (f *failingStore) Get(ctx context.Context, kind, key string) (domain.Entity, error) {
	return domain.Entity{}, domain.ErrUnavailable
}

func (f *failingStore) Put(ctx context.Context, kind, key string, fields map[string]string) error {
	return domain.ErrUnavailable
}

func (f *failingStore) Update(ctx context.Context, kind, key string, fields map[string]string) error {
	return domain.ErrUnavailable
}

func (f *failingStore) Delete(ctx context.Context, kind, key string) error {
	return domain.ErrUnavailable
}

func (f *failingStore) ScanAll(ctx context.Context, kind string) (domain.Cursor, error) {
	return nil, domain.ErrUnavailable
}
