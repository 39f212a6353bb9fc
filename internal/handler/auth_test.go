package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/inkwell/internal/db"
)

func TestAuthRequiredWithoutUser(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/me/posts", nil)

	AuthRequired()(c)

	expectStatus(t, w, http.StatusUnauthorized)
	if !c.IsAborted() {
		t.Fatalf("expected request to be aborted")
	}
}

func TestAdminRequiredRejectsRegularUser(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/admin/api/overview", nil)
	c.Set(currentUserKey, &db.User{Name: "reader", Role: db.RoleUser})

	AdminRequired()(c)

	expectStatus(t, w, http.StatusForbidden)
	if !c.IsAborted() {
		t.Fatalf("expected request to be aborted")
	}
}

func TestAdminRequiredAllowsAdmin(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/admin/api/overview", nil)
	c.Set(currentUserKey, &db.User{Name: "admin", Role: db.RoleAdmin})

	AdminRequired()(c)

	if c.IsAborted() {
		t.Fatalf("admin should pass the middleware")
	}
}

func signIdentityToken(t *testing.T, secret, subject, email string) string {
	t.Helper()
	claims := identityClaims{
		Email:     email,
		FirstName: "小",
		LastName:  "王",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func TestIdentitySyncCreatesUserFromToken(t *testing.T) {
	api := setupTestAPI(t)

	engine := gin.New()
	engine.Use(sessions.Sessions("inkwell_session", cookie.NewStore([]byte(api.cfg.SessionSecret))))
	engine.Use(api.IdentitySync())
	engine.GET("/probe", func(c *gin.Context) {
		user := currentUser(c)
		if user == nil {
			c.JSON(http.StatusOK, gin.H{"user": nil})
			return
		}
		c.JSON(http.StatusOK, gin.H{"user": gin.H{"name": user.Name, "role": user.Role}})
	})

	token := signIdentityToken(t, api.cfg.IdentityJWTSecret, "idp|42", "boss@example.com")
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	expectStatus(t, w, http.StatusOK)

	var user db.User
	if err := api.db.Where("identity_id = ?", "idp|42").First(&user).Error; err != nil {
		t.Fatalf("synced user not found: %v", err)
	}
	if user.Role != db.RoleAdmin {
		t.Fatalf("allow-listed email should become admin, got %s", user.Role)
	}
	if user.Name != "小 王" {
		t.Fatalf("expected display name from claims, got %q", user.Name)
	}
}

func TestIdentitySyncIgnoresBadToken(t *testing.T) {
	api := setupTestAPI(t)

	engine := gin.New()
	engine.Use(sessions.Sessions("inkwell_session", cookie.NewStore([]byte(api.cfg.SessionSecret))))
	engine.Use(api.IdentitySync())
	engine.GET("/probe", func(c *gin.Context) {
		if currentUser(c) != nil {
			c.JSON(http.StatusOK, gin.H{"logged_in": true})
			return
		}
		c.JSON(http.StatusOK, gin.H{"logged_in": false})
	})

	token := signIdentityToken(t, "wrong-secret", "idp|43", "nobody@example.com")
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	expectStatus(t, w, http.StatusOK)
	body := decodeBody(t, w)
	if body["logged_in"] != false {
		t.Fatalf("forged token must not log anyone in")
	}

	var count int64
	if err := api.db.Model(&db.User{}).Count(&count).Error; err != nil {
		t.Fatalf("count users: %v", err)
	}
	if count != 0 {
		t.Fatalf("forged token must not create users, have %d", count)
	}
}
