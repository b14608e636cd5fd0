package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/open436/section-service/middleware"
)

func identityRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.GatewayIdentity())
	r.GET("/whoami", func(ctx *gin.Context) {
		id, ok := middleware.GetIdentity(ctx)
		if !ok {
			ctx.JSON(http.StatusOK, gin.H{"anonymous": true})
			return
		}
		ctx.JSON(http.StatusOK, gin.H{
			"user_id":  id.UserID,
			"username": id.Username,
			"role":     id.Role,
			"is_admin": id.IsAdmin(),
		})
	})
	r.GET("/admin", middleware.AdminRequired(), func(ctx *gin.Context) {
		ctx.Status(http.StatusOK)
	})
	return r
}

func serveIdentity(r *gin.Engine, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestGatewayIdentityParsesHeaders(t *testing.T) {
	r := identityRouter()

	w := serveIdentity(r, map[string]string{
		middleware.HeaderUserID:   "42",
		middleware.HeaderUsername: "alice",
		middleware.HeaderUserRole: "admin",
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user_id":42,"username":"alice","role":"admin","is_admin":true}`, w.Body.String())
}

func TestGatewayIdentityDefaultsRoleToUser(t *testing.T) {
	r := identityRouter()

	w := serveIdentity(r, map[string]string{
		middleware.HeaderUserID: "7",
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user_id":7,"username":"","role":"user","is_admin":false}`, w.Body.String())
}

func TestGatewayIdentityAnonymous(t *testing.T) {
	r := identityRouter()

	// no headers at all
	w := serveIdentity(r, nil)
	assert.JSONEq(t, `{"anonymous":true}`, w.Body.String())

	// garbage user id stays anonymous rather than failing the request
	w = serveIdentity(r, map[string]string{middleware.HeaderUserID: "not-a-number"})
	assert.JSONEq(t, `{"anonymous":true}`, w.Body.String())
}

func TestAdminRequired(t *testing.T) {
	r := identityRouter()

	cases := []struct {
		name    string
		headers map[string]string
		status  int
	}{
		{"anonymous", nil, http.StatusUnauthorized},
		{"plain user", map[string]string{
			middleware.HeaderUserID:   "3",
			middleware.HeaderUserRole: "user",
		}, http.StatusForbidden},
		{"moderator", map[string]string{
			middleware.HeaderUserID:   "4",
			middleware.HeaderUserRole: "moderator",
		}, http.StatusForbidden},
		{"admin", map[string]string{
			middleware.HeaderUserID:   "1",
			middleware.HeaderUserRole: "admin",
		}, http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/admin", nil)
			for k, v := range tc.headers {
				req.Header.Set(k, v)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tc.status, w.Code)
		})
	}
}
