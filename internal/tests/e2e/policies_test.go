package e2e

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abdullharslan/ProductManager/domain"
)

func TestAdminPolicies(t *testing.T) {
	ts := NewTestServer(t)
	ts.RegisterConfirmed("ann@example.com")
	ts.RegisterConfirmed("bob@example.com")
	ts.SetUserColumn("bob@example.com", "role", domain.RoleAdmin)

	user := ts.Login("ann@example.com", testPassword)
	admin := ts.Login("bob@example.com", testPassword)

	resp := ts.Do(http.MethodGet, "/api/admin/policies", nil, "")
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = ts.Do(http.MethodGet, "/api/admin/policies", nil, user.Token)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = ts.Do(http.MethodGet, "/api/admin/policies", nil, admin.Token)
	require.Equal(t, http.StatusOK, resp.StatusCode, "list: %s", resp.Body)
	var policies [][]string
	resp.JSON(t, &policies)
	assert.Contains(t, policies, []string{"role_user", "/api/products*", "(POST)|(PUT)"})
	assert.Contains(t, policies, []string{"role_admin", "/api/*", "(GET)|(POST)|(PUT)|(DELETE)"})

	resp = ts.Do(http.MethodPost, "/api/admin/policies", map[string]string{"role": "user"}, admin.Token)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, []string{"Resource is required.", "Action is required."}, resp.Errors(t))

	resp = ts.Do(http.MethodPost, "/api/products", map[string]interface{}{
		"name": "Widget", "price": 2.5, "stockQuantity": 1,
	}, user.Token)
	require.Equal(t, http.StatusCreated, resp.StatusCode, "create: %s", resp.Body)
	var created domain.Product
	resp.JSON(t, &created)
	itemPath := fmt.Sprintf("/api/products/%d", created.ID)

	resp = ts.Do(http.MethodDelete, itemPath, nil, user.Token)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)

	grant := map[string]string{"role": "user", "resource": "/api/products/*", "action": "DELETE"}
	resp = ts.Do(http.MethodPost, "/api/admin/policies", grant, admin.Token)
	require.Equal(t, http.StatusNoContent, resp.StatusCode, "add: %s", resp.Body)

	resp = ts.Do(http.MethodDelete, itemPath, nil, user.Token)
	require.Equal(t, http.StatusNoContent, resp.StatusCode, "delete: %s", resp.Body)

	resp = ts.Do(http.MethodDelete, "/api/admin/policies", grant, admin.Token)
	require.Equal(t, http.StatusNoContent, resp.StatusCode, "remove: %s", resp.Body)

	resp = ts.Do(http.MethodDelete, itemPath, nil, user.Token)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)

	// policies live in the database, not only in the enforcer
	var count int64
	require.NoError(t, ts.DB.Table("casbin_rule").Where("v0 = ?", "role_user").Count(&count).Error)
	assert.Equal(t, int64(1), count)
}
