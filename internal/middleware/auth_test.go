package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"nivesh/internal/config"
	"nivesh/internal/models"
)

func setTestConfig(t *testing.T) {
	t.Helper()
	config.Set(&config.Config{JWTSecret: "test-secret", JWTExpirationDur: time.Hour})
	t.Cleanup(func() { config.Set(nil) })
}

func setupAuthRouter() *gin.Engine {
	r := gin.New()
	r.Use(AuthMiddleware())
	r.GET("/me", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id": c.GetUint("userID"),
			"role":    c.GetString("role"),
		})
	})
	return r
}

func getWithAuth(r *gin.Engine, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/me", http.NoBody)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestAuthMiddleware(t *testing.T) {
	setTestConfig(t)
	user := &models.User{Base: models.Base{ID: 7}, Email: "advisor@example.com", Role: models.RoleAdmin}

	valid, err := GenerateAccessToken(user)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, &JWTClaims{
		UserID:    7,
		TokenType: "access",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	})
	expiredToken, _ := expired.SignedString([]byte("test-secret"))

	foreign := jwt.NewWithClaims(jwt.SigningMethodHS256, &JWTClaims{UserID: 7, TokenType: "access",
		RegisteredClaims: jwt.RegisteredClaims{Issuer: tokenIssuer}})
	foreignToken, _ := foreign.SignedString([]byte("other-secret"))

	tests := []struct {
		name       string
		header     string
		wantStatus int
	}{
		{name: "valid_token", header: "Bearer " + valid, wantStatus: http.StatusOK},
		{name: "missing_header", header: "", wantStatus: http.StatusUnauthorized},
		{name: "wrong_scheme", header: "Token " + valid, wantStatus: http.StatusUnauthorized},
		{name: "expired_token", header: "Bearer " + expiredToken, wantStatus: http.StatusUnauthorized},
		{name: "wrong_secret", header: "Bearer " + foreignToken, wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := getWithAuth(setupAuthRouter(), tt.header)
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			body := parseBody(t, rec)
			if tt.wantStatus == http.StatusOK {
				if body["role"] != models.RoleAdmin || body["user_id"] != float64(7) {
					t.Errorf("unexpected context values: %v", body)
				}
				return
			}
			if code := body["error"].(map[string]interface{})["code"]; code != "UNAUTHORIZED" {
				t.Errorf("error code = %v, want UNAUTHORIZED", code)
			}
		})
	}
}

func TestParseAccessToken_Claims(t *testing.T) {
	setTestConfig(t)
	user := &models.User{Base: models.Base{ID: 3}, Email: "a@example.com", Name: "Asha", Role: models.RoleClient}

	token, err := GenerateAccessToken(user)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}
	claims, err := ParseAccessToken(token)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if claims.UserID != 3 || claims.Name != "Asha" || claims.Role != models.RoleClient {
		t.Errorf("unexpected claims: %+v", claims)
	}
	if got := claims.ExpiresAt.Sub(claims.IssuedAt.Time); got != time.Hour {
		t.Errorf("expected 1h lifetime, got %v", got)
	}
}
