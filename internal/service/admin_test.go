package service_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"

	"github.com/lachabroderie/shop-api/internal/service"
)

func TestAdminService_Login(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("correct-horse"), bcrypt.MinCost)
	assert.NoError(t, err)

	svc := service.NewAdminService(testLogger(), string(hash), "testsecret", time.Hour)

	token, err := svc.Login(context.Background(), "correct-horse")
	assert.NoError(t, err)
	assert.Equal(t, 3, len(strings.Split(token, ".")), "expected a JWT")
}

func TestAdminService_LoginWrongPassword(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("correct-horse"), bcrypt.MinCost)
	assert.NoError(t, err)

	svc := service.NewAdminService(testLogger(), string(hash), "testsecret", time.Hour)

	_, err = svc.Login(context.Background(), "battery-staple")
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
}
