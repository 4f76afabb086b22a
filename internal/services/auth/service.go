package auth

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"debt-ledger-backend/internal/models"
	"debt-ledger-backend/internal/repository"
)

var (
	ErrUserExists         = errors.New("auth: username already taken")
	ErrEmailExists        = errors.New("auth: email already registered")
	ErrInvalidCredentials = errors.New("auth: invalid username or password")
)

// Token is the login/register response body.
type Token struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	User        *models.User `json:"user"`
}

type Service struct {
	users    *repository.UserRepository
	secret   []byte
	tokenTTL time.Duration
}

func NewService(users *repository.UserRepository, secret string) *Service {
	return &Service{
		users:    users,
		secret:   []byte(secret),
		tokenTTL: 30 * time.Minute,
	}
}

func (s *Service) Register(ctx context.Context, username, email, password string) (*Token, error) {
	if _, err := s.users.FindByUsername(ctx, username); err == nil {
		return nil, ErrUserExists
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, err
	}
	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, ErrEmailExists
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		ID:           uuid.New(),
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.users.Insert(ctx, user); err != nil {
		return nil, err
	}
	return s.issueToken(user)
}

func (s *Service) Login(ctx context.Context, username, password string) (*Token, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if errors.Is(err, repository.ErrUserNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return s.issueToken(user)
}

func (s *Service) issueToken(user *models.User) (*Token, error) {
	claims := jwt.MapClaims{
		"sub": user.Username,
		"id":  user.ID.String(),
		"exp": time.Now().Add(s.tokenTTL).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, err
	}
	return &Token{AccessToken: signed, TokenType: "bearer", User: user}, nil
}
