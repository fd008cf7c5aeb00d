package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

const testKey = "test-signing-key"

func TestIssueAndParse(t *testing.T) {
	pair, err := Issue("user-1", "FACULTY", "campusmark", testKey, time.Minute, time.Hour)
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	claims, err := Parse(pair.AccessToken, testKey, "campusmark")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if claims.UserID != "user-1" || claims.Role != "FACULTY" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestParseRejectsBadTokens(t *testing.T) {
	pair, err := Issue("user-1", "STUDENT", "campusmark", testKey, time.Minute, time.Hour)
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	if _, err := Parse(pair.AccessToken, "other-key", "campusmark"); err == nil {
		t.Fatal("expected wrong key to fail")
	}
	if _, err := Parse(pair.AccessToken, testKey, "someone-else"); err == nil {
		t.Fatal("expected issuer mismatch to fail")
	}

	expired, err := Issue("user-1", "STUDENT", "campusmark", testKey, -time.Minute, time.Hour)
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	if _, err := Parse(expired.AccessToken, testKey, "campusmark"); err == nil {
		t.Fatal("expected expired token to fail")
	}
}

func protectedRouter(roles ...string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	group := r.Group("/", Required(testKey, "campusmark"))
	if len(roles) > 0 {
		group.Use(RequireRole(roles...))
	}
	group.GET("/ok", func(c *gin.Context) {
		claims, _ := FromContext(c)
		c.JSON(http.StatusOK, gin.H{"uid": claims.UserID})
	})
	return r
}

func TestRequiredMiddleware(t *testing.T) {
	r := protectedRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ok", nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", w.Code)
	}

	pair, _ := Issue("user-1", "STUDENT", "campusmark", testKey, time.Minute, time.Hour)
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/ok", nil)
	req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 with token, got %d", w.Code)
	}
}

func TestRequireRole(t *testing.T) {
	r := protectedRouter("FACULTY", "ADMIN")

	student, _ := Issue("stu", "STUDENT", "campusmark", testKey, time.Minute, time.Hour)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ok", nil)
	req.Header.Set("Authorization", "Bearer "+student.AccessToken)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for student, got %d", w.Code)
	}

	faculty, _ := Issue("fac", "FACULTY", "campusmark", testKey, time.Minute, time.Hour)
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/ok", nil)
	req.Header.Set("Authorization", "Bearer "+faculty.AccessToken)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 for faculty, got %d", w.Code)
	}
}
