package e2e

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	logrustest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/abdullharslan/ProductManager/domain"
	"github.com/abdullharslan/ProductManager/internal/app"
	"github.com/abdullharslan/ProductManager/internal/config"
	"github.com/abdullharslan/ProductManager/internal/infrastructure/auth"
	"github.com/abdullharslan/ProductManager/internal/infrastructure/database"
	"github.com/abdullharslan/ProductManager/internal/infrastructure/repositories"
	"github.com/abdullharslan/ProductManager/internal/mocks"
)

const (
	testBaseURL  = "https://shop.example.com"
	testPassword = "Secur3!Pass"
)

// TestServer runs the fully wired application over sqlite and miniredis
type TestServer struct {
	t         *testing.T
	Server    *httptest.Server
	Container *app.Container
	DB        *gorm.DB
	Redis     *miniredis.Miniredis
	Email     *mocks.MockEmailService
}

// NewTestServer creates and starts a test server; everything is torn down with t
func NewTestServer(t *testing.T) *TestServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.AutoMigrate(db))

	mr, err := miniredis.Run()
	require.NoError(t, err)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	cfg := &config.Config{
		Env:                  "test",
		BaseURL:              testBaseURL,
		JWTSecretKey:         "e2e-secret-key-that-is-long-enough-0123",
		JWTIssuer:            "product-manager-e2e",
		JWTAudience:          "product-manager-e2e-clients",
		AccessTTL:            time.Hour,
		RefreshTTL:           7 * 24 * time.Hour,
		EmailConfirmationTTL: 24 * time.Hour,
		PasswordResetTTL:     time.Hour,
	}

	log, _ := logrustest.NewNullLogger()
	email := mocks.NewMockEmailService()
	container, err := app.NewContainerWithConnections(cfg, log, db, rdb,
		app.WithEmailService(email),
		app.WithPasswordService(auth.NewPasswordServiceWithCost(bcrypt.MinCost)),
	)
	require.NoError(t, err)

	server := httptest.NewServer(container.Router)
	t.Cleanup(func() {
		server.Close()
		_ = container.Close()
		mr.Close()
	})

	return &TestServer{
		t:         t,
		Server:    server,
		Container: container,
		DB:        db,
		Redis:     mr,
		Email:     email,
	}
}

// Response is a decoded HTTP response
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// JSON decodes the body into v
func (r *Response) JSON(t *testing.T, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(r.Body, v), "body: %s", r.Body)
}

// Errors returns the messages of a ValidationError body
func (r *Response) Errors(t *testing.T) []string {
	t.Helper()

	var body struct {
		Status string   `json:"status"`
		Errors []string `json:"errors"`
	}
	r.JSON(t, &body)
	require.Equal(t, "ValidationError", body.Status, "body: %s", r.Body)
	return body.Errors
}

// Do sends a request; body is JSON-encoded unless it is nil
func (ts *TestServer) Do(method, path string, body interface{}, token string) *Response {
	ts.t.Helper()

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(ts.t, err)
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, ts.Server.URL+path, reader)
	require.NoError(ts.t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := ts.Server.Client().Do(req)
	require.NoError(ts.t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(ts.t, err)
	return &Response{StatusCode: resp.StatusCode, Header: resp.Header, Body: data}
}

// LinkPath turns the last emailed link of kind into a request path on the API
func (ts *TestServer) LinkPath(kind, endpoint string) (string, url.Values) {
	ts.t.Helper()

	sent, ok := ts.Email.Last(kind)
	require.True(ts.t, ok, "expected a %s email", kind)
	require.True(ts.t, strings.HasPrefix(sent.Link, testBaseURL), "unexpected link %s", sent.Link)

	u, err := url.Parse(sent.Link)
	require.NoError(ts.t, err)
	return endpoint + "?" + u.RawQuery, u.Query()
}

// RegisterConfirmed registers an account through the API and confirms it
func (ts *TestServer) RegisterConfirmed(emailAddr string) {
	ts.t.Helper()

	resp := ts.Do(http.MethodPost, "/api/auth/register", map[string]string{
		"firstName":       "Ann",
		"lastName":        "Lee",
		"email":           emailAddr,
		"password":        testPassword,
		"confirmPassword": testPassword,
	}, "")
	require.Equal(ts.t, http.StatusOK, resp.StatusCode, "register: %s", resp.Body)

	path, _ := ts.LinkPath(mocks.EmailKindConfirmation, "/api/auth/confirm-email")
	resp = ts.Do(http.MethodGet, path, nil, "")
	require.Equal(ts.t, http.StatusOK, resp.StatusCode, "confirm: %s", resp.Body)
}

// Login returns the token pair of a confirmed account without two-factor
func (ts *TestServer) Login(emailAddr, password string) domain.AuthResponse {
	ts.t.Helper()

	resp := ts.Do(http.MethodPost, "/api/auth/login", map[string]string{
		"email":    emailAddr,
		"password": password,
	}, "")
	require.Equal(ts.t, http.StatusOK, resp.StatusCode, "login: %s", resp.Body)

	var out domain.AuthResponse
	resp.JSON(ts.t, &out)
	require.NotEmpty(ts.t, out.Token)
	return out
}

// SetUserColumn changes a stored user attribute directly in the database
func (ts *TestServer) SetUserColumn(emailAddr, column string, value interface{}) {
	ts.t.Helper()

	res := ts.DB.Model(&repositories.DBUser{}).
		Where("normalized_email = ?", repositories.NormalizeEmail(emailAddr)).
		Update(column, value)
	require.NoError(ts.t, res.Error)
	require.Equal(ts.t, int64(1), res.RowsAffected)
}
