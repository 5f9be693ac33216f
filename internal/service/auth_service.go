package service

import (
	"crypto/subtle"
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"

	"go-scrapyard-ws/internal/config"
	"go-scrapyard-ws/pkg/jwt"
)

var ErrInvalidCredentials = errors.New("invalid username or password")

// AuthService gates the application behind the single operator credential
// taken from configuration. The password is hashed at startup and never kept
// in plain text.
type AuthService interface {
	Login(username, password string) (string, error)
}

type authService struct {
	username     string
	passwordHash []byte
	tokenTTL     time.Duration
}

func NewAuthService(cfg config.Config) (AuthService, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.OperatorPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	return &authService{
		username:     cfg.OperatorUsername,
		passwordHash: hash,
		tokenTTL:     time.Duration(cfg.TokenTTLHours) * time.Hour,
	}, nil
}

func (s *authService) Login(username, password string) (string, error) {
	if subtle.ConstantTimeCompare([]byte(username), []byte(s.username)) != 1 {
		return "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(s.passwordHash, []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}
	return jwt.GenerateToken(username, s.tokenTTL)
}
