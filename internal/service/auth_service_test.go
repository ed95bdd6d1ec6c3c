package service

import (
	"errors"
	"fmt"
	"quizhub_backend/internal/config"
	"quizhub_backend/internal/model"
	"quizhub_backend/internal/repository"
	"quizhub_backend/internal/util"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newAuthService(t *testing.T) *AuthService {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", model.GenerateUUID())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&model.User{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret-key-used-only-in-tests"
	cfg.JWT.ExpireTime = time.Hour
	return NewAuthService(repository.NewUserRepository(db), cfg)
}

func TestRegisterAndLogin(t *testing.T) {
	s := newAuthService(t)

	user := &model.User{Email: "alice@example.com", Password: "hunter22"}
	if err := s.Register(user); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if user.ID == "" {
		t.Error("registered user has no id")
	}
	if user.Password == "hunter22" {
		t.Error("password stored in plaintext")
	}

	token, got, err := s.Login("alice@example.com", "hunter22")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if token == "" {
		t.Error("empty token")
	}
	if got.ID != user.ID {
		t.Errorf("logged in user = %q, want %q", got.ID, user.ID)
	}

	claims, err := util.ParseJWT(token, "test-secret-key-used-only-in-tests")
	if err != nil {
		t.Fatalf("ParseJWT: %v", err)
	}
	if claims.UserID != user.ID || claims.Email != "alice@example.com" {
		t.Errorf("claims = %+v", claims)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	s := newAuthService(t)

	if err := s.Register(&model.User{Email: "alice@example.com", Password: "pw"}); err != nil {
		t.Fatalf("Register: %v", err)
	}
	err := s.Register(&model.User{Email: "alice@example.com", Password: "pw2"})
	if !errors.Is(err, util.ErrEmailRegistered) {
		t.Fatalf("err = %v, want ErrEmailRegistered", err)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	s := newAuthService(t)

	if err := s.Register(&model.User{Email: "alice@example.com", Password: "hunter22"}); err != nil {
		t.Fatalf("Register: %v", err)
	}

	if _, _, err := s.Login("alice@example.com", "wrong"); !errors.Is(err, util.ErrInvalidCredentials) {
		t.Errorf("wrong password err = %v, want ErrInvalidCredentials", err)
	}
	if _, _, err := s.Login("nobody@example.com", "hunter22"); !errors.Is(err, util.ErrInvalidCredentials) {
		t.Errorf("unknown email err = %v, want ErrInvalidCredentials", err)
	}
}
