package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/abdullharslan/ProductManager/domain"
	"github.com/abdullharslan/ProductManager/internal/mocks"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	logrustest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger() (*logrus.Logger, *logrustest.Hook) {
	logger, hook := logrustest.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	return logger, hook
}

func serve(r *gin.Engine, method, path string, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestErrorHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		err            error
		isProduction   bool
		expectedStatus int
		expectedJSON   string
		expectedLevel  logrus.Level
	}{
		{
			name:           "validation",
			err:            fmt.Errorf("register: %w", domain.NewValidationError("Email is required.", "Password is required.")),
			expectedStatus: http.StatusBadRequest,
			expectedJSON:   `{"status":"ValidationError","errors":["Email is required.","Password is required."]}`,
			expectedLevel:  logrus.InfoLevel,
		},
		{
			name:           "typed not found keeps its message",
			err:            domain.NewNotFoundError("Product with ID 3 not found."),
			expectedStatus: http.StatusNotFound,
			expectedJSON:   `{"status":"Error","message":"Product with ID 3 not found."}`,
			expectedLevel:  logrus.WarnLevel,
		},
		{
			name:           "sentinel not found",
			err:            domain.ErrUserNotFound,
			expectedStatus: http.StatusNotFound,
			expectedJSON:   `{"status":"Error","message":"The requested resource was not found."}`,
			expectedLevel:  logrus.WarnLevel,
		},
		{
			name:           "invalid token",
			err:            domain.ErrInvalidToken,
			expectedStatus: http.StatusUnauthorized,
			expectedJSON:   `{"status":"Error","message":"Invalid or missing access token."}`,
			expectedLevel:  logrus.WarnLevel,
		},
		{
			name:           "unauthorized",
			err:            domain.ErrUnauthorized,
			expectedStatus: http.StatusForbidden,
			expectedJSON:   `{"status":"Error","message":"You do not have permission to perform this action."}`,
			expectedLevel:  logrus.WarnLevel,
		},
		{
			name:           "internal outside production shows detail",
			err:            errors.New("failed to load user: connection reset"),
			expectedStatus: http.StatusInternalServerError,
			expectedJSON:   `{"status":"Error","message":"failed to load user: connection reset"}`,
			expectedLevel:  logrus.ErrorLevel,
		},
		{
			name:           "internal in production is generic",
			err:            errors.New("failed to load user: connection reset"),
			isProduction:   true,
			expectedStatus: http.StatusInternalServerError,
			expectedJSON:   `{"status":"Error","message":"An internal server error occurred."}`,
			expectedLevel:  logrus.ErrorLevel,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, hook := newTestLogger()
			r := gin.New()
			r.Use(ErrorHandler(tt.isProduction, logger))
			r.GET("/", func(c *gin.Context) { _ = c.Error(tt.err) })

			w := serve(r, http.MethodGet, "/", nil)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.JSONEq(t, tt.expectedJSON, w.Body.String())
			require.NotNil(t, hook.LastEntry())
			assert.Equal(t, tt.expectedLevel, hook.LastEntry().Level)
		})
	}
}

func TestErrorHandler_LeavesWrittenResponses(t *testing.T) {
	gin.SetMode(gin.TestMode)
	logger, _ := newTestLogger()

	r := gin.New()
	r.Use(ErrorHandler(false, logger))
	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusAccepted, "done")
		_ = c.Error(errors.New("late failure"))
	})

	w := serve(r, http.MethodGet, "/", nil)

	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, "done", w.Body.String())
}

func TestRecovery(t *testing.T) {
	gin.SetMode(gin.TestMode)

	for _, isProduction := range []bool{false, true} {
		t.Run(fmt.Sprintf("production=%v", isProduction), func(t *testing.T) {
			logger, hook := newTestLogger()
			r := gin.New()
			r.Use(Recovery(isProduction, logger))
			r.GET("/", func(c *gin.Context) { panic("nil map write") })

			w := serve(r, http.MethodGet, "/", nil)

			assert.Equal(t, http.StatusInternalServerError, w.Code)
			expected := `{"status":"Error","message":"nil map write"}`
			if isProduction {
				expected = `{"status":"Error","message":"An internal server error occurred."}`
			}
			assert.JSONEq(t, expected, w.Body.String())
			require.NotNil(t, hook.LastEntry())
			assert.Equal(t, logrus.ErrorLevel, hook.LastEntry().Level)
		})
	}
}

func TestAuthMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tokenSvc := mocks.NewMockTokenService()
	tokenSvc.ValidateTokenFunc = func(token string) bool {
		return token == "good" || token == "no-subject"
	}
	tokenSvc.GetPrincipalFromExpiredTokenFunc = func(token string) (*domain.TokenClaims, error) {
		if token == "no-subject" {
			return &domain.TokenClaims{}, nil
		}
		return &domain.TokenClaims{UserID: "u-1", Email: "ann@example.com", Role: domain.RoleUser}, nil
	}

	tests := []struct {
		name           string
		header         string
		expectedStatus int
	}{
		{name: "valid bearer token", header: "Bearer good", expectedStatus: http.StatusOK},
		{name: "scheme is case-insensitive", header: "bearer good", expectedStatus: http.StatusOK},
		{name: "missing header", header: "", expectedStatus: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic good", expectedStatus: http.StatusUnauthorized},
		{name: "no token", header: "Bearer", expectedStatus: http.StatusUnauthorized},
		{name: "rejected token", header: "Bearer forged", expectedStatus: http.StatusUnauthorized},
		{name: "token without subject", header: "Bearer no-subject", expectedStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, _ := newTestLogger()
			r := gin.New()
			r.Use(ErrorHandler(false, logger))
			r.GET("/", NewAuthMW(tokenSvc).WithJWT(), func(c *gin.Context) {
				userID, _ := GetUserID(c)
				role, _ := GetUserRole(c)
				c.JSON(http.StatusOK, gin.H{"user_id": userID, "role": role})
			})

			header := map[string]string{}
			if tt.header != "" {
				header["Authorization"] = tt.header
			}
			w := serve(r, http.MethodGet, "/", header)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedStatus == http.StatusOK {
				assert.JSONEq(t, `{"user_id":"u-1","role":"user"}`, w.Body.String())
			}
		})
	}
}

func TestCasbinMW_Enforce(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		role           string
		setUser        bool
		checkErr       error
		expectedStatus int
		expectAudit    bool
	}{
		{name: "allowed", role: "admin", setUser: true, expectedStatus: http.StatusOK},
		{name: "denied", role: "user", setUser: true, expectedStatus: http.StatusForbidden, expectAudit: true},
		{name: "no authenticated user", expectedStatus: http.StatusUnauthorized},
		{name: "enforcer failure", role: "admin", setUser: true, checkErr: errors.New("adapter unavailable"), expectedStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, _ := newTestLogger()
			audit := mocks.NewMockAuditLogger()
			policies := mocks.NewMockPolicyService()
			policies.CheckPermissionFunc = func(role, resource, action string) (bool, error) {
				assert.Equal(t, "/api/products/3", resource)
				assert.Equal(t, http.MethodDelete, action)
				return role == "admin", tt.checkErr
			}

			r := gin.New()
			r.Use(RequestLogger(logger), ErrorHandler(false, logger))
			r.DELETE("/api/products/:id", func(c *gin.Context) {
				if tt.setUser {
					c.Set(ContextUserID, "u-1")
					c.Set(ContextUserRole, tt.role)
				}
			}, NewCasbinMW(policies, audit, logger).Enforce(), func(c *gin.Context) {
				c.Status(http.StatusOK)
			})

			w := serve(r, http.MethodDelete, "/api/products/3", map[string]string{"User-Agent": "curl/8"})

			assert.Equal(t, tt.expectedStatus, w.Code)
			events := audit.Events()
			if !tt.expectAudit {
				assert.Empty(t, events)
				return
			}
			require.Len(t, events, 1)
			assert.Equal(t, domain.AccessDeniedEvent, events[0].EventType)
			assert.Equal(t, "u-1", events[0].UserID)
			assert.Equal(t, "curl/8", events[0].UserAgent)
			assert.False(t, events[0].Success)
		})
	}
}

func TestRequestLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name          string
		status        int
		expectedLevel logrus.Level
	}{
		{name: "success", status: http.StatusOK, expectedLevel: logrus.InfoLevel},
		{name: "client error", status: http.StatusNotFound, expectedLevel: logrus.WarnLevel},
		{name: "server error", status: http.StatusBadGateway, expectedLevel: logrus.ErrorLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, hook := newTestLogger()
			var seen *domain.ClientContext

			r := gin.New()
			r.Use(RequestLogger(logger))
			r.GET("/ping", func(c *gin.Context) {
				seen = domain.ClientContextFrom(c.Request.Context())
				c.Set(ContextUserID, "u-9")
				c.Status(tt.status)
			})

			serve(r, http.MethodGet, "/ping", map[string]string{"User-Agent": "test-agent"})

			require.NotNil(t, seen)
			assert.Equal(t, "test-agent", seen.UserAgent)
			assert.NotEmpty(t, seen.IPAddress)

			entry := hook.LastEntry()
			require.NotNil(t, entry)
			assert.Equal(t, tt.expectedLevel, entry.Level)
			assert.Equal(t, tt.status, entry.Data["status"])
			assert.Equal(t, "/ping", entry.Data["path"])
			assert.Equal(t, "u-9", entry.Data["user_id"])
		})
	}
}
