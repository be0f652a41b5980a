package service

import (
	"context"
	"net/http"
	"testing"
	"time"

	"anoa.com/learnify/internal/entity"
	"anoa.com/learnify/internal/modules/user/dto"
	"anoa.com/learnify/internal/modules/user/repository"
	"anoa.com/learnify/internal/testutil"
	"anoa.com/learnify/pkg/apperror"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const secret = "test-secret"

func newService(t *testing.T) (AuthService, *entity.User) {
	t.Helper()
	db := testutil.NewDB(t)
	hash, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	admin := &entity.User{Name: "Admin", Email: "admin@learnify.com", PasswordHash: string(hash), Role: entity.RoleAdmin}
	if err := db.Create(admin).Error; err != nil {
		t.Fatal(err)
	}
	return NewAuthService(repository.NewUserRepository(db), secret, time.Hour), admin
}

func TestLogin(t *testing.T) {
	svc, admin := newService(t)

	res, err := svc.Login(context.Background(), dto.LoginInput{Email: "Admin@Learnify.com", Password: "admin123"})
	if err != nil {
		t.Fatal(err)
	}
	if res.User.ID != admin.ID || res.User.Role != entity.RoleAdmin {
		t.Errorf("unexpected user %+v", res.User)
	}

	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(res.Token, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		t.Fatalf("token does not verify: %v", err)
	}
	if claims.Subject != admin.ID.String() {
		t.Errorf("expected subject %s, got %s", admin.ID, claims.Subject)
	}
	if token.Method != jwt.SigningMethodHS256 {
		t.Errorf("unexpected signing method %v", token.Method.Alg())
	}
}

func TestLoginInvalidCredentials(t *testing.T) {
	svc, _ := newService(t)
	tests := []dto.LoginInput{
		{Email: "admin@learnify.com", Password: "wrong"},
		{Email: "nobody@learnify.com", Password: "admin123"},
	}
	for _, input := range tests {
		_, err := svc.Login(context.Background(), input)
		if err == nil {
			t.Fatalf("%s: expected error", input.Email)
		}
		if apperror.MapErrorToStatus(err) != http.StatusUnauthorized || err.Error() != msgInvalidCredentials {
			t.Errorf("%s: unexpected error %v", input.Email, err)
		}
	}
}

func TestMe(t *testing.T) {
	svc, admin := newService(t)

	me, err := svc.Me(context.Background(), admin.ID)
	if err != nil {
		t.Fatal(err)
	}
	if me.Email != admin.Email {
		t.Errorf("unexpected profile %+v", me)
	}

	if _, err := svc.Me(context.Background(), uuid.New()); apperror.MapErrorToStatus(err) != http.StatusNotFound {
		t.Errorf("expected 404, got %v", err)
	}
}
