package services

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"tindibandi/models"
	"tindibandi/repository"
)

type mockUserRepo struct {
	users []models.User
}

func (m *mockUserRepo) Insert(_ context.Context, user *models.User) error {
	for _, u := range m.users {
		if u.Username == user.Username || u.Email == user.Email {
			return repository.ErrDuplicateUser
		}
	}
	user.MongoID = primitive.NewObjectID()
	m.users = append(m.users, *user)
	return nil
}

func (m *mockUserRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	for i := range m.users {
		if m.users[i].MongoID == id {
			return &m.users[i], nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (m *mockUserRepo) FindByUsername(_ context.Context, username string) (*models.User, error) {
	for i := range m.users {
		if m.users[i].Username == username {
			return &m.users[i], nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (m *mockUserRepo) FindByUsernameOrEmail(_ context.Context, identifier string) (*models.User, error) {
	for i := range m.users {
		if m.users[i].Username == identifier || m.users[i].Email == identifier {
			return &m.users[i], nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (m *mockUserRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	for i := range m.users {
		if m.users[i].Email == email {
			return &m.users[i], nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (m *mockUserRepo) Update(_ context.Context, user *models.User) error {
	for i := range m.users {
		if m.users[i].MongoID == user.MongoID {
			m.users[i] = *user
			return nil
		}
	}
	return repository.ErrUserNotFound
}

func validRegistration() models.RegisterRequest {
	return models.RegisterRequest{
		Username:     "alice",
		Password:     "correcthorse",
		FirstName:    "Alice",
		LastName:     "Rao",
		Email:        "Alice@Example.com",
		MobileNumber: "9876543210",
		DateOfBirth:  "1995-06-15",
	}
}

func TestRegister_Success(t *testing.T) {
	repo := &mockUserRepo{}
	svc := NewUserService(repo)

	user, err := svc.Register(context.Background(), validRegistration())
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, "alice@example.com", user.Email, "email should be normalized")
	assert.NotEmpty(t, user.PasswordHash)
	assert.NotEqual(t, "correcthorse", user.PasswordHash)
}

func TestRegister_FieldValidation(t *testing.T) {
	svc := NewUserService(&mockUserRepo{})

	tests := []struct {
		name    string
		mutate  func(*models.RegisterRequest)
		message string
	}{
		{"missing username", func(r *models.RegisterRequest) { r.Username = "" }, "All fields are required"},
		{"short password", func(r *models.RegisterRequest) { r.Password = "short" }, "at least 8 characters"},
		{"bad email", func(r *models.RegisterRequest) { r.Email = "not-an-email" }, "valid email"},
		{"bad dob", func(r *models.RegisterRequest) { r.DateOfBirth = "15/06/1995" }, "Invalid date of birth"},
		{"too young", func(r *models.RegisterRequest) { r.DateOfBirth = "2020-01-01" }, "at least 13 years old"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := validRegistration()
			tc.mutate(&req)
			_, err := svc.Register(context.Background(), req)
			require.ErrorIs(t, err, ErrInvalidInput)
			assert.Contains(t, err.Error(), tc.message)
		})
	}
}

func TestRegister_DuplicateUsername(t *testing.T) {
	repo := &mockUserRepo{}
	svc := NewUserService(repo)

	_, err := svc.Register(context.Background(), validRegistration())
	require.NoError(t, err)

	again := validRegistration()
	again.Email = "other@example.com"
	_, err = svc.Register(context.Background(), again)
	require.ErrorIs(t, err, ErrInvalidInput)
	assert.Contains(t, err.Error(), "Username already exists")
}

func TestRegister_DuplicateEmail(t *testing.T) {
	repo := &mockUserRepo{}
	svc := NewUserService(repo)

	_, err := svc.Register(context.Background(), validRegistration())
	require.NoError(t, err)

	again := validRegistration()
	again.Username = "bob"
	_, err = svc.Register(context.Background(), again)
	require.ErrorIs(t, err, ErrInvalidInput)
	assert.Contains(t, err.Error(), "Email already registered")
}

func TestLogin_WithUsernameAndEmail(t *testing.T) {
	repo := &mockUserRepo{}
	svc := NewUserService(repo)

	_, err := svc.Register(context.Background(), validRegistration())
	require.NoError(t, err)

	byUsername, err := svc.Login(context.Background(), models.LoginRequest{Username: "alice", Password: "correcthorse"})
	require.NoError(t, err)

	byEmail, err := svc.Login(context.Background(), models.LoginRequest{Username: "alice@example.com", Password: "correcthorse"})
	require.NoError(t, err)
	assert.Equal(t, byUsername.MongoID, byEmail.MongoID)
}

func TestLogin_UniformFailure(t *testing.T) {
	repo := &mockUserRepo{}
	svc := NewUserService(repo)

	_, err := svc.Register(context.Background(), validRegistration())
	require.NoError(t, err)

	_, wrongPassword := svc.Login(context.Background(), models.LoginRequest{Username: "alice", Password: "wrongwrong"})
	_, unknownUser := svc.Login(context.Background(), models.LoginRequest{Username: "mallory", Password: "whatever"})

	assert.ErrorIs(t, wrongPassword, ErrInvalidCredentials)
	assert.ErrorIs(t, unknownUser, ErrInvalidCredentials)
	assert.Equal(t, wrongPassword.Error(), unknownUser.Error())
}

func TestLogin_CaseSensitiveUsername(t *testing.T) {
	repo := &mockUserRepo{}
	svc := NewUserService(repo)

	req := validRegistration()
	req.Username = "Alice"
	_, err := svc.Register(context.Background(), req)
	require.NoError(t, err)

	// Mixed-case usernames still log in even though the first lookup
	// lowercases the identifier.
	user, err := svc.Login(context.Background(), models.LoginRequest{Username: "Alice", Password: "correcthorse"})
	require.NoError(t, err)
	assert.Equal(t, "Alice", user.Username)
}

func TestUpdateProfile_Success(t *testing.T) {
	repo := &mockUserRepo{}
	svc := NewUserService(repo)

	_, err := svc.Register(context.Background(), validRegistration())
	require.NoError(t, err)

	updated, err := svc.UpdateProfile(context.Background(), "alice", models.ProfileUpdateRequest{
		FirstName:    "Alicia",
		LastName:     "Rao",
		Email:        "alicia@example.com",
		MobileNumber: "9000000000",
		DateOfBirth:  "1995-06-15",
	})
	require.NoError(t, err)
	assert.Equal(t, "Alicia", updated.FirstName)
	assert.Equal(t, "alicia@example.com", updated.Email)

	stored, err := svc.GetByUsername(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, "Alicia", stored.FirstName)
}

func TestUpdateProfile_EmailTakenByOther(t *testing.T) {
	repo := &mockUserRepo{}
	svc := NewUserService(repo)

	_, err := svc.Register(context.Background(), validRegistration())
	require.NoError(t, err)

	other := validRegistration()
	other.Username = "bob"
	other.Email = "bob@example.com"
	_, err = svc.Register(context.Background(), other)
	require.NoError(t, err)

	_, err = svc.UpdateProfile(context.Background(), "alice", models.ProfileUpdateRequest{
		FirstName:    "Alice",
		LastName:     "Rao",
		Email:        "bob@example.com",
		MobileNumber: "9876543210",
		DateOfBirth:  "1995-06-15",
	})
	require.ErrorIs(t, err, ErrInvalidInput)
	assert.True(t, strings.Contains(err.Error(), "already in use"))
}
