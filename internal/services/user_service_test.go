package services

import (
	"errors"
	"testing"

	"github.com/campus-hub/course-service/internal/events"
	"github.com/campus-hub/course-service/internal/models"
)

func TestUserService_Register(t *testing.T) {
	env := newTestEnv(t)
	svc := env.manager.User()

	user, err := svc.Register(testCtx(), &RegisterRequest{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "password123",
		Role:     models.RoleStudent,
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if user.ID == 0 {
		t.Error("expected persisted user with id")
	}
	if user.PasswordHash == "password123" {
		t.Error("password stored in clear")
	}

	published := env.publisher.GetPublishedEvents()
	if len(published) != 1 || published[0].Type != events.TypeUserRegistered {
		t.Errorf("published events = %v, want one user.registered", published)
	}
}

func TestUserService_RegisterDuplicateEmail(t *testing.T) {
	env := newTestEnv(t)
	svc := env.manager.User()
	env.createUser(t, "alice", models.RoleStudent)

	_, err := svc.Register(testCtx(), &RegisterRequest{
		Username: "someone-else",
		Email:    "alice@example.com",
		Password: "password123",
		Role:     models.RoleStudent,
	})
	if !errors.Is(err, ErrEmailTaken) {
		t.Errorf("Register = %v, want ErrEmailTaken", err)
	}
}

func TestUserService_RegisterDuplicateUsername(t *testing.T) {
	env := newTestEnv(t)
	svc := env.manager.User()
	env.createUser(t, "alice", models.RoleStudent)

	_, err := svc.Register(testCtx(), &RegisterRequest{
		Username: "alice",
		Email:    "other@example.com",
		Password: "password123",
		Role:     models.RoleStudent,
	})
	if !errors.Is(err, ErrUsernameTaken) {
		t.Errorf("Register = %v, want ErrUsernameTaken", err)
	}
}

func TestUserService_RegisterRejectsUnknownRole(t *testing.T) {
	env := newTestEnv(t)
	svc := env.manager.User()

	_, err := svc.Register(testCtx(), &RegisterRequest{
		Username: "bob",
		Email:    "bob@example.com",
		Password: "password123",
		Role:     models.UserRole("admin"),
	})

	var validationErrs ValidationErrors
	if !errors.As(err, &validationErrs) {
		t.Fatalf("Register = %v, want ValidationErrors", err)
	}
}

func TestUserService_Login(t *testing.T) {
	env := newTestEnv(t)
	svc := env.manager.User()
	user := env.createUser(t, "alice", models.RoleInstructor)

	resp, err := svc.Login(testCtx(), &LoginRequest{
		Email:    user.Email,
		Password: "password123",
	})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if resp.Token == "" {
		t.Error("expected a token")
	}
	if resp.User.ID != user.ID {
		t.Errorf("User.ID = %d, want %d", resp.User.ID, user.ID)
	}
}

func TestUserService_LoginWrongPassword(t *testing.T) {
	env := newTestEnv(t)
	svc := env.manager.User()
	user := env.createUser(t, "alice", models.RoleStudent)

	_, err := svc.Login(testCtx(), &LoginRequest{
		Email:    user.Email,
		Password: "wrong-password",
	})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("Login = %v, want ErrInvalidCredentials", err)
	}
}

func TestUserService_LoginUnknownEmail(t *testing.T) {
	env := newTestEnv(t)
	svc := env.manager.User()

	_, err := svc.Login(testCtx(), &LoginRequest{
		Email:    "ghost@example.com",
		Password: "password123",
	})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("Login = %v, want ErrInvalidCredentials", err)
	}
}

func TestUserService_GetByIDNotFound(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.manager.User().GetByID(testCtx(), 999)
	if !errors.Is(err, ErrUserNotFound) {
		t.Errorf("GetByID = %v, want ErrUserNotFound", err)
	}
}
