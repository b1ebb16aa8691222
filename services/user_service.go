package services

import (
	"context"
	"errors"
	"log"
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"tindibandi/models"
	"tindibandi/repository"
	"tindibandi/utils"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type UserService struct {
	repo repository.UserRepository
}

func NewUserService(repo repository.UserRepository) *UserService {
	return &UserService{repo: repo}
}

// minRegistrationAge mirrors the signup policy: 13 years or older.
const minRegistrationAge = 13

func parseDateOfBirth(value string) (time.Time, error) {
	dob, err := time.Parse("2006-01-02", value)
	if err != nil {
		// Accept full timestamps too; the frontend sends both.
		dob, err = time.Parse(time.RFC3339, value)
		if err != nil {
			return time.Time{}, wrapKind(ErrInvalidInput, "Invalid date of birth")
		}
	}

	now := time.Now()
	minAge := time.Date(now.Year()-minRegistrationAge, now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if dob.After(minAge) {
		return time.Time{}, wrapKind(ErrInvalidInput, "You must be at least 13 years old to register")
	}
	return dob, nil
}

func (s *UserService) Register(ctx context.Context, req models.RegisterRequest) (*models.User, error) {
	if req.Username == "" || req.Password == "" || req.FirstName == "" || req.LastName == "" ||
		req.Email == "" || req.MobileNumber == "" || req.DateOfBirth == "" {
		return nil, wrapKind(ErrInvalidInput,
			"All fields are required: username, password, firstName, lastName, email, mobileNumber, dateOfBirth")
	}
	if len(req.Password) < 8 {
		return nil, wrapKind(ErrInvalidInput, "Password must be at least 8 characters long")
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if !emailPattern.MatchString(email) {
		return nil, wrapKind(ErrInvalidInput, "Please enter a valid email")
	}

	dob, err := parseDateOfBirth(req.DateOfBirth)
	if err != nil {
		return nil, err
	}

	if existing, err := s.repo.FindByUsername(ctx, req.Username); err == nil && existing != nil {
		return nil, wrapKind(ErrInvalidInput, "Username already exists")
	} else if err != nil && !errors.Is(err, repository.ErrUserNotFound) {
		return nil, err
	}
	if existing, err := s.repo.FindByEmail(ctx, email); err == nil && existing != nil {
		return nil, wrapKind(ErrInvalidInput, "Email already registered")
	} else if err != nil && !errors.Is(err, repository.ErrUserNotFound) {
		return nil, err
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:     req.Username,
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		Email:        email,
		MobileNumber: strings.TrimSpace(req.MobileNumber),
		DateOfBirth:  dob,
		PasswordHash: hash,
	}

	if err := s.repo.Insert(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateUser) {
			// The unique index closes the race between the existence checks
			// and the insert.
			return nil, wrapKind(ErrInvalidInput, "Username or email already exists")
		}
		return nil, err
	}

	log.Printf("User %s registered successfully", user.Username)
	return user, nil
}

// Login accepts a username or an email as the identifier and keeps the
// failure message uniform so it leaks nothing about which part was wrong.
func (s *UserService) Login(ctx context.Context, req models.LoginRequest) (*models.User, error) {
	if req.Username == "" || req.Password == "" {
		return nil, wrapKind(ErrInvalidInput, "Username and password required")
	}

	user, err := s.repo.FindByUsernameOrEmail(ctx, strings.ToLower(req.Username))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			// Retry with the raw casing for usernames, which are case
			// sensitive unlike emails.
			user, err = s.repo.FindByUsernameOrEmail(ctx, req.Username)
		}
		if err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return nil, ErrInvalidCredentials
			}
			return nil, err
		}
	}

	if !utils.CheckPassword(req.Password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

func (s *UserService) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *UserService) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.repo.FindByUsername(ctx, username)
}

func (s *UserService) UpdateProfile(ctx context.Context, username string, req models.ProfileUpdateRequest) (*models.User, error) {
	if req.FirstName == "" || req.LastName == "" || req.Email == "" ||
		req.MobileNumber == "" || req.DateOfBirth == "" {
		return nil, wrapKind(ErrInvalidInput,
			"All fields are required: firstName, lastName, email, mobileNumber, dateOfBirth")
	}

	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email != user.Email {
		if existing, err := s.repo.FindByEmail(ctx, email); err == nil && existing != nil {
			return nil, wrapKind(ErrInvalidInput, "Email already in use by another account")
		} else if err != nil && !errors.Is(err, repository.ErrUserNotFound) {
			return nil, err
		}
	}

	dob, err := parseDateOfBirth(req.DateOfBirth)
	if err != nil {
		return nil, err
	}

	user.FirstName = strings.TrimSpace(req.FirstName)
	user.LastName = strings.TrimSpace(req.LastName)
	user.Email = email
	user.MobileNumber = strings.TrimSpace(req.MobileNumber)
	user.DateOfBirth = dob

	if err := s.repo.Update(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateUser) {
			return nil, wrapKind(ErrInvalidInput, "Email already in use by another account")
		}
		return nil, err
	}
	return user, nil
}
