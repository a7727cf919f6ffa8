package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/lachabroderie/shop-api/internal/auth"
)

// ErrInvalidCredentials is returned when the back-office password is wrong.
var ErrInvalidCredentials = errors.New("invalid credentials")

type AdminService interface {
	Login(ctx context.Context, password string) (string, error)
}

type adminService struct {
	log          *slog.Logger
	passwordHash string
	jwtSecret    string
	tokenTTL     time.Duration
}

func NewAdminService(log *slog.Logger, passwordHash, jwtSecret string, tokenTTL time.Duration) AdminService {
	return &adminService{
		log:          log,
		passwordHash: passwordHash,
		jwtSecret:    jwtSecret,
		tokenTTL:     tokenTTL,
	}
}

// Login checks the single back-office password and issues a session token.
func (s *adminService) Login(ctx context.Context, password string) (string, error) {
	const op = "service.AdminService.Login"
	logger := s.log.With(slog.String("op", op))

	if err := bcrypt.CompareHashAndPassword([]byte(s.passwordHash), []byte(password)); err != nil {
		logger.Warn("login rejected", slog.Any("error", err))
		return "", ErrInvalidCredentials
	}

	token, err := auth.NewAdminToken(s.jwtSecret, s.tokenTTL)
	if err != nil {
		logger.Error("failed to issue token", slog.Any("error", err))
		return "", fmt.Errorf("%s: %w", op, err)
	}

	logger.Info("admin logged in")
	return token, nil
}
