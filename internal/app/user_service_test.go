package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"quizhub-service/internal/app"
	"quizhub-service/internal/auth"
	"quizhub-service/internal/domain"
)

func newTestUserService(store app.Store) *app.UserService {
	return app.NewUserService(store, auth.NewService("test-secret", time.Hour))
}

func TestRegisterCreatesActiveStudent(t *testing.T) {
	ctx := context.Background()
	store := newTestStore()
	service := newTestUserService(store)

	user, err := service.Register(ctx, app.RegisterInput{Name: "Niko", Email: "niko@example.com", Password: "hunter2"})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if user.Role != domain.RoleStudent || user.Status != domain.StatusActive {
		t.Fatalf("expected active student, got %+v", user)
	}
	if user.PasswordHash != "" {
		t.Fatal("register must not return the password digest")
	}

	stored, err := store.FindUserByEmail(ctx, "niko@example.com")
	if err != nil {
		t.Fatalf("user not stored: %v", err)
	}
	if stored.PasswordHash == "" || stored.PasswordHash == "hunter2" {
		t.Fatal("stored password must be hashed")
	}
}

func TestRegisterValidatesAndDeduplicates(t *testing.T) {
	ctx := context.Background()
	service := newTestUserService(newTestStore())

	if _, err := service.Register(ctx, app.RegisterInput{Name: "x", Email: "", Password: "pw"}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if _, err := service.Register(ctx, app.RegisterInput{Name: "x", Email: "sam@example.com", Password: "pw"}); !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestLoginRoundTrip(t *testing.T) {
	ctx := context.Background()
	service := newTestUserService(newTestStore())

	if _, err := service.Register(ctx, app.RegisterInput{Name: "Niko", Email: "niko@example.com", Password: "hunter2"}); err != nil {
		t.Fatalf("register: %v", err)
	}

	result, err := service.Login(ctx, "niko@example.com", "hunter2")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if result.Token == "" {
		t.Fatal("expected a session token")
	}
	if result.User.Email != "niko@example.com" || result.User.PasswordHash != "" {
		t.Fatalf("unexpected login payload: %+v", result.User)
	}

	if _, err := service.Login(ctx, "niko@example.com", "wrong"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := service.Login(ctx, "nobody@example.com", "hunter2"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown email, got %v", err)
	}
}

func TestUpdateStatusRequiresAdmin(t *testing.T) {
	ctx := context.Background()
	store := newTestStore()
	service := newTestUserService(store)

	if err := service.UpdateStatus(ctx, "student-1", "student-2", domain.StatusBanned); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}

	if err := service.UpdateStatus(ctx, "admin-1", "student-1", domain.StatusBanned); err != nil {
		t.Fatalf("ban failed: %v", err)
	}
	banned, _ := store.GetUser(ctx, "student-1")
	if banned.Status != domain.StatusBanned {
		t.Fatalf("status not applied: %+v", banned)
	}

	if err := service.UpdateStatus(ctx, "admin-1", "student-1", domain.Status("frozen")); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation for unknown status, got %v", err)
	}
}

func TestBannedAdminStillCannotMutate(t *testing.T) {
	ctx := context.Background()
	store := newTestStore()
	service := newTestUserService(store)

	// An admin that was banned loses state-changing access too.
	admin, _ := store.GetUser(ctx, "admin-1")
	admin.Status = domain.StatusBanned
	_ = store.PutUser(ctx, admin)

	if err := service.UpdateStatus(ctx, "admin-1", "student-1", domain.StatusBanned); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for banned admin, got %v", err)
	}
}

func TestListSanitizesUsers(t *testing.T) {
	ctx := context.Background()
	store := newTestStore()
	service := newTestUserService(store)

	sam, _ := store.GetUser(ctx, "student-1")
	sam.PasswordHash = "$2a$10$fakedigest"
	_ = store.PutUser(ctx, sam)

	users, err := service.List(ctx)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	for _, u := range users {
		if u.PasswordHash != "" {
			t.Fatalf("user %s leaked its password digest", u.ID)
		}
	}
}
