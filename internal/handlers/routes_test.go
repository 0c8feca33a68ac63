package handlers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"noirstore/internal/models"
)

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	res := s.do(t, http.MethodGet, "/healthz", nil, "")
	assert.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, "ok", res.Body["status"])
}

func TestPublicProductsShowOnlyActive(t *testing.T) {
	s := newTestServer(t)
	active := s.product(t, models.ProductInput{Name: "Wool Coat", Price: 320, Category: "OUTERWEAR", Stock: 4})
	draft := s.product(t, models.ProductInput{Name: "Linen Shirt", Price: 90, Category: "TOPS", Stock: 10, Status: models.ProductDraft})

	res := s.do(t, http.MethodGet, "/api/products?status=draft", nil, "")
	require.Equal(t, http.StatusOK, res.Code)
	items := res.Body["data"].([]any)
	require.Len(t, items, 1)
	assert.Equal(t, "Wool Coat", items[0].(map[string]any)["name"])
	assert.EqualValues(t, 1, res.Body["pagination"].(map[string]any)["total"])

	res = s.do(t, http.MethodGet, fmt.Sprintf("/api/products/%d", active.ID), nil, "")
	assert.Equal(t, http.StatusOK, res.Code)

	res = s.do(t, http.MethodGet, fmt.Sprintf("/api/products/%d", draft.ID), nil, "")
	assert.Equal(t, http.StatusNotFound, res.Code)
	assert.Equal(t, false, res.Body["success"])
}

func TestPublicProductsRejectBadQuery(t *testing.T) {
	s := newTestServer(t)
	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodGet, "/api/products?page=0", nil, "").Code)
	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodGet, "/api/products?minPrice=cheap", nil, "").Code)
	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodGet, "/api/products/abc", nil, "").Code)
}

func TestAdminRoutesRequireBackOfficeRole(t *testing.T) {
	s := newTestServer(t)

	res := s.do(t, http.MethodGet, "/admin/api/products", nil, "")
	assert.Equal(t, http.StatusUnauthorized, res.Code)
	assert.Equal(t, "missing token", res.Body["error"])

	customer := s.login(t, "jordan@example.com", "secret1")
	res = s.do(t, http.MethodGet, "/admin/api/products", nil, customer)
	assert.Equal(t, http.StatusForbidden, res.Code)

	res = s.do(t, http.MethodGet, "/admin/api/products", nil, s.adminToken(t))
	assert.Equal(t, http.StatusOK, res.Code)
}

func TestLoginRejectsWrongAdminPassword(t *testing.T) {
	s := newTestServer(t)
	res := s.do(t, http.MethodPost, "/api/auth/login", models.Credentials{Email: testAdminEmail, Password: "nope12"}, "")
	assert.Equal(t, http.StatusUnauthorized, res.Code)

	res = s.do(t, http.MethodPost, "/api/auth/login", map[string]any{"email": testAdminEmail}, "")
	assert.Equal(t, http.StatusBadRequest, res.Code)
	assert.Contains(t, res.Body["details"], "password is required")
}

func TestLogoutEndsSession(t *testing.T) {
	s := newTestServer(t)
	token := s.adminToken(t)

	res := s.do(t, http.MethodGet, "/api/auth/me", nil, token)
	require.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, "Admin User", data(t, res)["name"])

	res = s.do(t, http.MethodPost, "/api/auth/logout", nil, token)
	require.Equal(t, http.StatusOK, res.Code)

	res = s.do(t, http.MethodGet, "/api/auth/me", nil, token)
	assert.Equal(t, http.StatusUnauthorized, res.Code)
}

func TestAdminProductLifecycle(t *testing.T) {
	s := newTestServer(t)
	token := s.adminToken(t)

	res := s.do(t, http.MethodPost, "/admin/api/products", models.ProductInput{
		Name: "Silk Scarf", Price: 85, Category: "ACCESSORIES", Stock: 12,
	}, token)
	require.Equal(t, http.StatusCreated, res.Code, res.Body)
	etag := res.Header.Get("ETag")
	require.NotEmpty(t, etag)
	id := int64(data(t, res)["id"].(float64))
	path := fmt.Sprintf("/admin/api/products/%d", id)

	res = s.do(t, http.MethodPut, path, map[string]any{"price": 95}, token, "If-Match", etag)
	require.Equal(t, http.StatusOK, res.Code, res.Body)
	assert.EqualValues(t, 95, data(t, res)["price"])
	assert.NotEqual(t, etag, res.Header.Get("ETag"))

	res = s.do(t, http.MethodPut, path, map[string]any{"price": 70}, token, "If-Match", etag)
	assert.Equal(t, http.StatusConflict, res.Code)

	res = s.do(t, http.MethodPut, path, map[string]any{"price": 70}, token, "If-Match", "v1")
	assert.Equal(t, http.StatusBadRequest, res.Code)

	res = s.do(t, http.MethodPatch, path+"/stock", map[string]any{"quantity": -9}, token)
	require.Equal(t, http.StatusOK, res.Code)
	assert.EqualValues(t, 3, data(t, res)["stock"])

	res = s.do(t, http.MethodPatch, path+"/stock", map[string]any{}, token)
	assert.Equal(t, http.StatusBadRequest, res.Code)

	res = s.do(t, http.MethodDelete, path, nil, token)
	require.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, path, nil, token).Code)
}

func TestCreateProductValidation(t *testing.T) {
	s := newTestServer(t)
	res := s.do(t, http.MethodPost, "/admin/api/products", map[string]any{"price": 10}, s.adminToken(t))
	require.Equal(t, http.StatusBadRequest, res.Code)
	assert.Equal(t, "validation failed", res.Body["error"])
	assert.Contains(t, res.Body["details"], "name is required")
}

func TestCartCheckoutFlow(t *testing.T) {
	s := newTestServer(t)
	p := s.product(t, models.ProductInput{Name: "Knit Beanie", Price: 40, Category: "ACCESSORIES", Stock: 10, Sizes: models.StringList{"S", "M"}})
	token := s.login(t, "jordan@example.com", "secret1")

	res := s.do(t, http.MethodPost, "/api/cart/items", models.CartLine{ProductID: p.ID, Size: "M", Quantity: 2}, token)
	require.Equal(t, http.StatusOK, res.Code, res.Body)
	assert.EqualValues(t, 2, data(t, res)["count"])

	res = s.do(t, http.MethodPost, "/api/cart/items", models.CartLine{ProductID: p.ID, Size: "XL", Quantity: 1}, token)
	assert.Equal(t, http.StatusBadRequest, res.Code)

	res = s.do(t, http.MethodPost, "/api/orders", map[string]any{"paymentMethod": "card"}, token)
	require.Equal(t, http.StatusCreated, res.Code, res.Body)
	order := data(t, res)
	assert.EqualValues(t, 80, order["subtotal"])
	assert.Equal(t, "jordan@example.com", order["customer"].(map[string]any)["email"])

	res = s.do(t, http.MethodGet, "/api/cart", nil, token)
	assert.EqualValues(t, 0, data(t, res)["count"])

	admin := s.adminToken(t)
	res = s.do(t, http.MethodGet, fmt.Sprintf("/admin/api/products/%d", p.ID), nil, admin)
	assert.EqualValues(t, 8, data(t, res)["stock"])

	res = s.do(t, http.MethodPost, "/api/orders", map[string]any{"paymentMethod": "card"}, token)
	assert.Equal(t, http.StatusBadRequest, res.Code)
	assert.Equal(t, "Cart is empty", res.Body["error"])
}

func TestCheckoutReportsInsufficientStock(t *testing.T) {
	s := newTestServer(t)
	p := s.product(t, models.ProductInput{Name: "Leather Belt", Price: 60, Category: "ACCESSORIES", Stock: 1})
	token := s.login(t, "jordan@example.com", "secret1")

	res := s.do(t, http.MethodPost, "/api/orders", map[string]any{
		"paymentMethod": "card",
		"items":         []models.CheckoutItem{{ProductID: p.ID, Quantity: 3}},
	}, token)
	require.Equal(t, http.StatusBadRequest, res.Code)
	assert.Equal(t, "Insufficient stock", res.Body["error"])
	assert.EqualValues(t, p.ID, res.Body["productId"])
	assert.EqualValues(t, 1, res.Body["available"])
	assert.EqualValues(t, 3, res.Body["requested"])
}

func TestAdminOrderStatusUpdates(t *testing.T) {
	s := newTestServer(t)
	p := s.product(t, models.ProductInput{Name: "Canvas Tote", Price: 30, Category: "BAGS", Stock: 5})
	customer := s.login(t, "jordan@example.com", "secret1")
	res := s.do(t, http.MethodPost, "/api/orders", map[string]any{
		"paymentMethod": "cash",
		"items":         []models.CheckoutItem{{ProductID: p.ID, Quantity: 1}},
	}, customer)
	require.Equal(t, http.StatusCreated, res.Code, res.Body)
	id := data(t, res)["id"].(string)

	admin := s.adminToken(t)
	res = s.do(t, http.MethodPatch, "/admin/api/orders/"+id+"/status", map[string]any{"status": "shipped"}, admin)
	require.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, "shipped", data(t, res)["status"])

	res = s.do(t, http.MethodPatch, "/admin/api/orders/"+id+"/status", map[string]any{"status": "lost"}, admin)
	assert.Equal(t, http.StatusBadRequest, res.Code)

	res = s.do(t, http.MethodPatch, "/admin/api/orders/"+id+"/payment", map[string]any{"paymentStatus": "paid"}, admin)
	require.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, "paid", data(t, res)["paymentStatus"])

	res = s.do(t, http.MethodGet, "/admin/api/orders/stats", nil, admin)
	require.Equal(t, http.StatusOK, res.Code)
	assert.EqualValues(t, 1, data(t, res)["shipped"])

	res = s.do(t, http.MethodGet, "/admin/api/orders?dateFrom=2000-01-01&status=shipped", nil, admin)
	require.Equal(t, http.StatusOK, res.Code)
	assert.Len(t, res.Body["data"], 1)

	res = s.do(t, http.MethodGet, "/admin/api/orders?dateTo=yesterday", nil, admin)
	assert.Equal(t, http.StatusBadRequest, res.Code)

	res = s.do(t, http.MethodDelete, "/admin/api/orders/"+id, nil, admin)
	require.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, "/admin/api/orders/"+id, nil, admin).Code)
}

func TestAdminCustomers(t *testing.T) {
	s := newTestServer(t)
	admin := s.adminToken(t)

	res := s.do(t, http.MethodPost, "/admin/api/customers", models.CustomerInput{Name: "Avery Stone", Email: "Avery@Example.com"}, admin)
	require.Equal(t, http.StatusCreated, res.Code, res.Body)
	assert.Equal(t, "avery@example.com", data(t, res)["email"])
	id := int64(data(t, res)["id"].(float64))

	res = s.do(t, http.MethodPost, "/admin/api/customers", models.CustomerInput{Name: "Avery Again", Email: "avery@example.com"}, admin)
	assert.Equal(t, http.StatusConflict, res.Code)

	res = s.do(t, http.MethodGet, "/admin/api/customers?search=avery", nil, admin)
	require.Equal(t, http.StatusOK, res.Code)
	assert.Len(t, res.Body["data"], 1)

	res = s.do(t, http.MethodPut, fmt.Sprintf("/admin/api/customers/%d", id), map[string]any{"status": "inactive"}, admin)
	require.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, "inactive", data(t, res)["status"])

	res = s.do(t, http.MethodGet, "/admin/api/customers/stats", nil, admin)
	require.Equal(t, http.StatusOK, res.Code)
	assert.EqualValues(t, 1, data(t, res)["total"])
	assert.EqualValues(t, 0, data(t, res)["active"])

	res = s.do(t, http.MethodDelete, fmt.Sprintf("/admin/api/customers/%d", id), nil, admin)
	require.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodDelete, fmt.Sprintf("/admin/api/customers/%d", id), nil, admin).Code)
}

func TestAdminSettings(t *testing.T) {
	s := newTestServer(t)
	admin := s.adminToken(t)

	res := s.do(t, http.MethodGet, "/admin/api/settings", nil, admin)
	require.Equal(t, http.StatusOK, res.Code)
	assert.EqualValues(t, 500, data(t, res)["shipping"].(map[string]any)["freeShippingThreshold"])

	res = s.do(t, http.MethodPut, "/admin/api/settings", map[string]any{
		"shipping": map[string]any{"standardShipping": 12},
	}, admin)
	require.Equal(t, http.StatusOK, res.Code, res.Body)
	shipping := data(t, res)["shipping"].(map[string]any)
	assert.EqualValues(t, 12, shipping["standardShipping"])
	assert.EqualValues(t, 35, shipping["expressShipping"])

	res = s.do(t, http.MethodPut, "/admin/api/settings", map[string]any{
		"store": map[string]any{"email": "not-an-email"},
	}, admin)
	assert.Equal(t, http.StatusBadRequest, res.Code)
}

func TestDashboardAndActivities(t *testing.T) {
	s := newTestServer(t)
	s.product(t, models.ProductInput{Name: "Wool Coat", Price: 320, Category: "OUTERWEAR", Stock: 4})
	admin := s.adminToken(t)

	for _, path := range []string{"stats", "revenue", "categories", "top-products"} {
		res := s.do(t, http.MethodGet, "/admin/api/dashboard/"+path, nil, admin)
		assert.Equal(t, http.StatusOK, res.Code, path)
	}

	res := s.do(t, http.MethodGet, "/admin/api/dashboard/stats", nil, admin)
	assert.EqualValues(t, 1, data(t, res)["totalProducts"])

	res = s.do(t, http.MethodGet, "/admin/api/activities?limit=2", nil, admin)
	require.Equal(t, http.StatusOK, res.Code)
	items := res.Body["data"].([]any)
	require.Len(t, items, 2)
	assert.Equal(t, "User Admin User logged in", items[0].(map[string]any)["message"])

	res = s.do(t, http.MethodGet, "/admin/api/activities?limit=zero", nil, admin)
	assert.Equal(t, http.StatusBadRequest, res.Code)
}

func TestChangePasswordOnlyForAdmin(t *testing.T) {
	s := newTestServer(t)
	admin := s.adminToken(t)

	res := s.do(t, http.MethodPost, "/api/auth/password", models.PasswordChange{CurrentPassword: testAdminPassword, NewPassword: "fresh-secret"}, admin)
	require.Equal(t, http.StatusOK, res.Code, res.Body)
	s.login(t, testAdminEmail, "fresh-secret")

	customer := s.login(t, "jordan@example.com", "secret1")
	res = s.do(t, http.MethodPost, "/api/auth/password", models.PasswordChange{CurrentPassword: "secret1", NewPassword: "secret2"}, customer)
	assert.Equal(t, http.StatusBadRequest, res.Code)

	res = s.do(t, http.MethodPut, "/api/auth/me", models.ProfilePatch{Name: ptr("Jordan Vale")}, customer)
	require.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, "Jordan Vale", data(t, res)["name"])
}

func ptr[T any](v T) *T { return &v }

func TestCartLineEdits(t *testing.T) {
	s := newTestServer(t)
	p := s.product(t, models.ProductInput{Name: "Rib Socks", Price: 12.5, Category: "ACCESSORIES", Stock: 50, Sizes: models.StringList{"S", "M"}})
	token := s.login(t, "riley@example.com", "secret1")

	res := s.do(t, http.MethodGet, "/api/cart", nil, "")
	assert.Equal(t, http.StatusUnauthorized, res.Code)

	res = s.do(t, http.MethodPost, "/api/cart/items", models.CartLine{ProductID: p.ID, Size: "S"}, token)
	require.Equal(t, http.StatusOK, res.Code, res.Body)
	assert.EqualValues(t, 1, data(t, res)["count"])

	res = s.do(t, http.MethodPut, "/api/cart/items", models.CartLine{ProductID: p.ID, Size: "S", Quantity: 4}, token)
	require.Equal(t, http.StatusOK, res.Code)
	assert.EqualValues(t, 4, data(t, res)["count"])
	assert.EqualValues(t, 50, data(t, res)["total"])

	res = s.do(t, http.MethodDelete, fmt.Sprintf("/api/cart/items?productId=%d&size=M", p.ID), nil, token)
	assert.Equal(t, http.StatusNotFound, res.Code)

	res = s.do(t, http.MethodDelete, fmt.Sprintf("/api/cart/items?productId=%d&size=S", p.ID), nil, token)
	require.Equal(t, http.StatusOK, res.Code)
	assert.EqualValues(t, 0, data(t, res)["count"])

	res = s.do(t, http.MethodDelete, "/api/cart/items?productId=x", nil, token)
	assert.Equal(t, http.StatusBadRequest, res.Code)

	res = s.do(t, http.MethodDelete, "/api/cart", nil, token)
	assert.Equal(t, http.StatusOK, res.Code)
}

func TestAdminSiteContent(t *testing.T) {
	s := newTestServer(t)
	admin := s.adminToken(t)

	res := s.do(t, http.MethodGet, "/admin/api/site-content", nil, admin)
	require.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, "NOIR", data(t, res)["hero"].(map[string]any)["title"])

	res = s.do(t, http.MethodPut, "/admin/api/site-content", map[string]any{
		"general": map[string]any{"siteName": "NOIR", "primaryColor": "#111111", "secondaryColor": "#fafafa"},
	}, admin)
	require.Equal(t, http.StatusOK, res.Code, res.Body)
	assert.Equal(t, "#111111", data(t, res)["general"].(map[string]any)["primaryColor"])
	assert.Equal(t, "NOIR", data(t, res)["hero"].(map[string]any)["title"])

	res = s.do(t, http.MethodPut, "/admin/api/site-content", map[string]any{
		"general": map[string]any{"primaryColor": "black"},
	}, admin)
	assert.Equal(t, http.StatusBadRequest, res.Code)

	res = s.do(t, http.MethodPut, "/admin/api/site-content", map[string]any{
		"menuItems": []map[string]any{{"id": 1, "href": "#x"}},
	}, admin)
	assert.Equal(t, http.StatusBadRequest, res.Code)

	res = s.do(t, http.MethodPut, "/admin/api/site-content", map[string]any{}, admin)
	assert.Equal(t, http.StatusBadRequest, res.Code)

	customer := s.login(t, "jordan@example.com", "secret1")
	res = s.do(t, http.MethodGet, "/admin/api/site-content", nil, customer)
	assert.Equal(t, http.StatusForbidden, res.Code)
}
