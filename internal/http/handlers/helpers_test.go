package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/abdullharslan/ProductManager/internal/http/middleware"
	"github.com/gin-gonic/gin"
	logrustest "github.com/sirupsen/logrus/hooks/test"
)

// newTestEngine builds an engine with the error mapper installed so handler
// failures surface as they would in production routing
func newTestEngine(register func(r *gin.Engine)) *gin.Engine {
	gin.SetMode(gin.TestMode)

	logger, _ := logrustest.NewNullLogger()
	r := gin.New()
	r.Use(middleware.ErrorHandler(false, logger))
	register(r)
	return r
}

func performRequest(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func toJSON(t *testing.T, v interface{}) string {
	t.Helper()

	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("failed to marshal request: %v", err)
	}
	return string(b)
}
