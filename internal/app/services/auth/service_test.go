package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	domainuser "smartrent/internal/domain/user"
	"smartrent/internal/infra/security"
	"smartrent/internal/infra/storage/memory"
)

func newTestService() *Service {
	return &Service{
		Users:      memory.NewUserRepository(),
		Sessions:   memory.NewSessionStore(),
		Passwords:  security.BcryptHasher{Cost: 4},
		Tokens:     security.RandomTokenGenerator{},
		SessionTTL: time.Hour,
	}
}

func TestRegisterLoginAndResolve(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	registered, err := svc.Register(ctx, RegisterParams{
		Email:    "Jamie@Example.com",
		Name:     "Jamie",
		Password: "correct horse",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if registered.User.Email != "jamie@example.com" {
		t.Errorf("email not normalized: %q", registered.User.Email)
	}
	if !registered.User.HasRole(domainuser.RoleCustomer) {
		t.Errorf("new user missing customer role: %v", registered.User.Roles)
	}
	if registered.Token == "" {
		t.Fatal("registration issued no session token")
	}

	resolved, err := svc.ResolveToken(ctx, registered.Token)
	if err != nil {
		t.Fatalf("ResolveToken: %v", err)
	}
	if resolved.User.ID != registered.User.ID {
		t.Errorf("resolved user %s, want %s", resolved.User.ID, registered.User.ID)
	}

	loggedIn, err := svc.Login(ctx, LoginParams{Email: "jamie@example.com", Password: "correct horse"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if loggedIn.Token == registered.Token {
		t.Error("login reused the registration token")
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	if _, err := svc.Register(ctx, RegisterParams{Email: "a@b.c", Name: "A", Password: "longenough"}); err != nil {
		t.Fatalf("Register: %v", err)
	}

	cases := []LoginParams{
		{Email: "a@b.c", Password: "wrong password"},
		{Email: "nobody@b.c", Password: "longenough"},
		{Email: "", Password: "longenough"},
	}
	for _, params := range cases {
		if _, err := svc.Login(ctx, params); !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("Login(%q) error = %v, want ErrInvalidCredentials", params.Email, err)
		}
	}
}

func TestRegisterRejectsShortPassword(t *testing.T) {
	svc := newTestService()
	_, err := svc.Register(context.Background(), RegisterParams{Email: "a@b.c", Name: "A", Password: "short"})
	if !errors.Is(err, ErrPasswordTooShort) {
		t.Errorf("error = %v, want ErrPasswordTooShort", err)
	}
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	if _, err := svc.Register(ctx, RegisterParams{Email: "a@b.c", Name: "A", Password: "longenough"}); err != nil {
		t.Fatalf("Register: %v", err)
	}
	_, err := svc.Register(ctx, RegisterParams{Email: "A@B.C", Name: "B", Password: "alsolongenough"})
	if !errors.Is(err, domainuser.ErrEmailAlreadyUsed) {
		t.Errorf("error = %v, want ErrEmailAlreadyUsed", err)
	}
}

func TestLogoutInvalidatesSession(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	registered, err := svc.Register(ctx, RegisterParams{Email: "a@b.c", Name: "A", Password: "longenough"})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := svc.Logout(ctx, registered.Token); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if _, err := svc.ResolveToken(ctx, registered.Token); err == nil {
		t.Error("token still resolves after logout")
	}
}

func TestEnsureAdminCreatesAndPromotes(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	if err := svc.EnsureAdmin(ctx, "root@example.com", "bootstrappw"); err != nil {
		t.Fatalf("EnsureAdmin: %v", err)
	}
	admin, err := svc.Users.ByEmail(ctx, "root@example.com")
	if err != nil {
		t.Fatalf("ByEmail: %v", err)
	}
	if !admin.HasRole(domainuser.RoleAdmin) {
		t.Errorf("bootstrap account lacks admin role: %v", admin.Roles)
	}

	registered, err := svc.Register(ctx, RegisterParams{Email: "user@example.com", Name: "U", Password: "longenough"})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := svc.EnsureAdmin(ctx, "user@example.com", "ignored"); err != nil {
		t.Fatalf("EnsureAdmin promote: %v", err)
	}
	promoted, err := svc.Users.ByID(ctx, registered.User.ID)
	if err != nil {
		t.Fatalf("ByID: %v", err)
	}
	if !promoted.HasRole(domainuser.RoleAdmin) {
		t.Errorf("existing account not promoted: %v", promoted.Roles)
	}
}
