package service

import (
	"context"
	"testing"

	"campfire/internal/models"
)

func TestUserServiceRegisterValidatesInput(t *testing.T) {
	svc := NewUserService(noopUserRepo())

	tests := []struct {
		name string
		in   RegisterInput
	}{
		{"bad username", RegisterInput{Username: "x", Email: "a@b.com", Password: "SecurePass12!"}},
		{"bad email", RegisterInput{Username: "alice", Email: "nope", Password: "SecurePass12!"}},
		{"weak password", RegisterInput{Username: "alice", Email: "a@b.com", Password: "short"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), tt.in)
			assertAppErrorCode(t, err, models.CodeValidation)
		})
	}
}

func TestUserServiceRegisterDuplicateEmail(t *testing.T) {
	users := noopUserRepo()
	users.getByEmailFn = func(context.Context, string) (*models.User, error) {
		return &models.User{ID: 2}, nil
	}

	svc := NewUserService(users)
	_, err := svc.Register(context.Background(), RegisterInput{
		Username: "alice",
		Email:    "a@b.com",
		Password: "SecurePass12!",
	})
	assertAppErrorCode(t, err, models.CodeConflict)
}

func TestUserServiceRegisterHashesPassword(t *testing.T) {
	users := noopUserRepo()
	var created *models.User
	users.createFn = func(_ context.Context, user *models.User) error {
		user.ID = 1
		created = user
		return nil
	}

	svc := NewUserService(users)
	_, err := svc.Register(context.Background(), RegisterInput{
		Username: "alice",
		Email:    "a@b.com",
		Password: "SecurePass12!",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.Password == "SecurePass12!" {
		t.Fatal("password stored in plaintext")
	}
	if !PasswordMatches("SecurePass12!", created.Password) {
		t.Fatal("stored digest does not match original password")
	}
}

func TestUserServiceAuthenticate(t *testing.T) {
	digest, err := HashPassword("SecurePass12!")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	users := noopUserRepo()
	users.getByEmailFn = func(context.Context, string) (*models.User, error) {
		return &models.User{ID: 1, Email: "a@b.com", Password: digest}, nil
	}
	svc := NewUserService(users)

	if _, err := svc.Authenticate(context.Background(), "a@b.com", "SecurePass12!"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = svc.Authenticate(context.Background(), "a@b.com", "WrongPass12!")
	assertAppErrorCode(t, err, models.CodeUnauthorized)
}

func TestUserServiceAuthenticateUnknownEmail(t *testing.T) {
	svc := NewUserService(noopUserRepo())
	_, err := svc.Authenticate(context.Background(), "ghost@b.com", "SecurePass12!")
	assertAppErrorCode(t, err, models.CodeUnauthorized)
}

func TestUserServiceUpdateProfile(t *testing.T) {
	users := noopUserRepo()
	users.getByIDFn = func(_ context.Context, id uint) (*models.User, error) {
		return &models.User{ID: id, Username: "alice", Bio: "old"}, nil
	}

	svc := NewUserService(users)
	user, err := svc.UpdateProfile(context.Background(), UpdateProfileInput{
		UserID: 1,
		Bio:    "new bio",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.Bio != "new bio" || user.Username != "alice" {
		t.Fatalf("unexpected profile: %+v", user)
	}
}
