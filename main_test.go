package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/judyrop/shop-api/database/dbtest"
	"github.com/judyrop/shop-api/models"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

type testAPI struct {
	t      *testing.T
	db     *gorm.DB
	router *gin.Engine
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	db := dbtest.New(t)
	return &testAPI{t: t, db: db, router: SetupRouter(db, zerolog.Nop(), RouterConfig{})}
}

func (a *testAPI) request(method, path string, payload any) *httptest.ResponseRecorder {
	a.t.Helper()
	var body bytes.Buffer
	if payload != nil {
		require.NoError(a.t, json.NewEncoder(&body).Encode(payload))
	}

	req := httptest.NewRequest(method, path, &body)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

// create posts payload, requires a 201 and returns the new id.
func (a *testAPI) create(path string, payload any) uint {
	a.t.Helper()
	w := a.request(http.MethodPost, path, payload)
	require.Equal(a.t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		ID uint `json:"id"`
	}
	require.NoError(a.t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.ID
}

func (a *testAPI) count(model any) int64 {
	a.t.Helper()
	var n int64
	require.NoError(a.t, a.db.Model(model).Count(&n).Error)
	return n
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`
	Errors  []struct {
		Field string `json:"field"`
		Error string `json:"error"`
	} `json:"errors"`
}

type product struct {
	ID         uint   `json:"id"`
	Name       string `json:"name"`
	Price      int64  `json:"price"`
	CategoryID uint   `json:"category_id"`
}

type category struct {
	ID       uint      `json:"id"`
	Name     string    `json:"name"`
	Products []product `json:"products"`
}

type client struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type order struct {
	ID       uint      `json:"id"`
	ClientID uint      `json:"client_id"`
	Client   client    `json:"client"`
	Products []product `json:"products"`
}

func (a *testAPI) seedCatalog() (categoryID uint, productIDs []uint) {
	categoryID = a.create("/api/categories/", map[string]any{"name": "Fiction"})
	for _, p := range []map[string]any{
		{"name": "Dune", "price": 999, "category_id": categoryID},
		{"name": "Hyperion", "price": 1299, "category_id": categoryID},
	} {
		productIDs = append(productIDs, a.create("/api/products/", p))
	}
	return categoryID, productIDs
}

func (a *testAPI) seedClient(email string) uint {
	return a.create("/api/clients/", map[string]any{"name": "Ada", "email": email, "password": "s3cret"})
}

// ----------------------- TESTS ----------------------- //

func TestHealth(t *testing.T) {
	api := newTestAPI(t)

	w := api.request(http.MethodGet, "/health", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestCreateCategoryThenGet(t *testing.T) {
	api := newTestAPI(t)

	id := api.create("/api/categories/", map[string]any{"name": "Bakery"})

	w := api.request(http.MethodGet, fmt.Sprintf("/api/categories/%d", id), nil)
	assert.Equal(t, http.StatusOK, w.Code)
	got := decode[category](t, w)
	assert.Equal(t, "Bakery", got.Name)
	assert.NotNil(t, got.Products)
	assert.Empty(t, got.Products)
}

func TestListEndpointsStartEmpty(t *testing.T) {
	api := newTestAPI(t)

	for _, path := range []string{"/api/categories/", "/api/products/", "/api/clients/", "/api/orders/"} {
		w := api.request(http.MethodGet, path, nil)
		assert.Equal(t, http.StatusOK, w.Code, path)
		assert.JSONEq(t, `[]`, w.Body.String(), path)
	}
}

func TestListCategoriesIncludesProducts(t *testing.T) {
	api := newTestAPI(t)
	api.seedCatalog()
	api.create("/api/categories/", map[string]any{"name": "Poetry"})

	w := api.request(http.MethodGet, "/api/categories/", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	got := decode[[]category](t, w)
	require.Len(t, got, 2)
	assert.Len(t, got[0].Products, 2)
	assert.Empty(t, got[1].Products)
}

func TestMissingResourcesReturnNotFound(t *testing.T) {
	api := newTestAPI(t)

	tests := []struct {
		method  string
		path    string
		message string
	}{
		{http.MethodGet, "/api/categories/999", "Category not found"},
		{http.MethodDelete, "/api/categories/999", "Category not found"},
		{http.MethodGet, "/api/products/999", "Product not found"},
		{http.MethodDelete, "/api/products/999", "Product not found"},
		{http.MethodGet, "/api/clients/999", "Client not found"},
		{http.MethodGet, "/api/clients/999/orders", "Client not found"},
		{http.MethodDelete, "/api/clients/999", "Client not found"},
		{http.MethodGet, "/api/orders/999", "Order not found"},
		{http.MethodDelete, "/api/orders/999", "Order not found"},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			w := api.request(tt.method, tt.path, nil)

			assert.Equal(t, http.StatusNotFound, w.Code)
			body := decode[errorBody](t, w)
			assert.Equal(t, "NOT_FOUND", body.Code)
			assert.Equal(t, tt.message, body.Message)
			assert.Equal(t, http.StatusNotFound, body.Status)
		})
	}
}

func TestInvalidPathIDs(t *testing.T) {
	api := newTestAPI(t)

	for _, path := range []string{"/api/categories/abc", "/api/products/0", "/api/clients/-1", "/api/orders/1.5"} {
		w := api.request(http.MethodGet, path, nil)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code, path)
	}
}

func TestCreateValidation(t *testing.T) {
	api := newTestAPI(t)
	longName := string(bytes.Repeat([]byte("a"), 129))

	tests := []struct {
		name    string
		path    string
		payload any
		field   string
	}{
		{"category without name", "/api/categories/", map[string]any{}, "name"},
		{"category with empty name", "/api/categories/", map[string]any{"name": ""}, "name"},
		{"category name too long", "/api/categories/", map[string]any{"name": longName}, "name"},
		{"product without price", "/api/products/", map[string]any{"name": "Dune", "category_id": 1}, "price"},
		{"product with string price", "/api/products/", map[string]any{"name": "Dune", "price": "999", "category_id": 1}, "price"},
		{"product without category", "/api/products/", map[string]any{"name": "Dune", "price": 999}, "category_id"},
		{"client without password", "/api/clients/", map[string]any{"name": "Ada", "email": "ada@example.com"}, "password"},
		{"client with bad email", "/api/clients/", map[string]any{"name": "Ada", "email": "not-an-email", "password": "x"}, "email"},
		{"order without products", "/api/orders/", map[string]any{"client_id": 1, "product_ids": []uint{}}, "product_ids"},
		{"order with duplicate products", "/api/orders/", map[string]any{"client_id": 1, "product_ids": []uint{1, 1}}, "product_ids"},
		{"order without client", "/api/orders/", map[string]any{"product_ids": []uint{1}}, "client_id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := api.request(http.MethodPost, tt.path, tt.payload)

			assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
			body := decode[errorBody](t, w)
			assert.Equal(t, "UNPROCESSABLE_ENTITY", body.Code)
			require.NotEmpty(t, body.Errors)
			assert.Equal(t, tt.field, body.Errors[0].Field)
		})
	}
}

func TestMalformedJSON(t *testing.T) {
	api := newTestAPI(t)

	req := httptest.NewRequest(http.MethodPost, "/api/categories/", bytes.NewBufferString(`{"name":`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	api.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Zero(t, api.count(&models.Category{}))
}

func TestCreateProductWithMissingCategory(t *testing.T) {
	api := newTestAPI(t)

	w := api.request(http.MethodPost, "/api/products/", map[string]any{"name": "Dune", "price": 999, "category_id": 999})

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Category not found", decode[errorBody](t, w).Message)
	assert.Zero(t, api.count(&models.Product{}))
}

func TestCreateProductWithZeroPrice(t *testing.T) {
	api := newTestAPI(t)
	categoryID := api.create("/api/categories/", map[string]any{"name": "Freebies"})

	w := api.request(http.MethodPost, "/api/products/", map[string]any{"name": "Sticker", "price": 0, "category_id": categoryID})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, int64(0), decode[product](t, w).Price)
}

func TestDuplicateClientEmail(t *testing.T) {
	api := newTestAPI(t)
	api.seedClient("ada@example.com")

	w := api.request(http.MethodPost, "/api/clients/", map[string]any{"name": "Imposter", "email": "ada@example.com", "password": "x"})

	assert.Equal(t, http.StatusConflict, w.Code)
	body := decode[errorBody](t, w)
	assert.Equal(t, "CONFLICT", body.Code)
	assert.Equal(t, "Client with this email already exists", body.Message)
	assert.Equal(t, int64(1), api.count(&models.Client{}))
}

func TestClientResponsesOmitPassword(t *testing.T) {
	api := newTestAPI(t)
	id := api.seedClient("ada@example.com")

	for _, path := range []string{"/api/clients/", fmt.Sprintf("/api/clients/%d", id)} {
		w := api.request(http.MethodGet, path, nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.NotContains(t, w.Body.String(), "password")
		assert.NotContains(t, w.Body.String(), "s3cret")
	}
}

func TestOrderWithMissingProductWritesNothing(t *testing.T) {
	api := newTestAPI(t)
	_, productIDs := api.seedCatalog()
	clientID := api.seedClient("ada@example.com")

	w := api.request(http.MethodPost, "/api/orders/", map[string]any{
		"client_id":   clientID,
		"product_ids": []uint{productIDs[0], productIDs[1], 999},
	})

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "One or more products not found", decode[errorBody](t, w).Message)
	assert.Zero(t, api.count(&models.Order{}))
	assert.Zero(t, api.count(&models.OrderProduct{}))
}

func TestOrderWithMissingClient(t *testing.T) {
	api := newTestAPI(t)
	_, productIDs := api.seedCatalog()

	w := api.request(http.MethodPost, "/api/orders/", map[string]any{"client_id": 999, "product_ids": productIDs})

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Client not found", decode[errorBody](t, w).Message)
	assert.Zero(t, api.count(&models.Order{}))
}

func TestDeleteCategoryCascadesToProducts(t *testing.T) {
	api := newTestAPI(t)
	categoryID, productIDs := api.seedCatalog()
	clientID := api.seedClient("ada@example.com")
	orderID := api.create("/api/orders/", map[string]any{"client_id": clientID, "product_ids": productIDs})

	w := api.request(http.MethodDelete, fmt.Sprintf("/api/categories/%d", categoryID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	deleted := decode[category](t, w)
	assert.Equal(t, "Fiction", deleted.Name)
	assert.Len(t, deleted.Products, 2)

	for _, id := range productIDs {
		w := api.request(http.MethodGet, fmt.Sprintf("/api/products/%d", id), nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	}
	w = api.request(http.MethodGet, fmt.Sprintf("/api/categories/%d", categoryID), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = api.request(http.MethodGet, fmt.Sprintf("/api/orders/%d", orderID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode[order](t, w).Products)
	assert.Zero(t, api.count(&models.OrderProduct{}))
}

func TestDeleteClientCascadesToOrders(t *testing.T) {
	api := newTestAPI(t)
	_, productIDs := api.seedCatalog()
	clientID := api.seedClient("ada@example.com")
	otherID := api.seedClient("grace@example.com")

	first := api.create("/api/orders/", map[string]any{"client_id": clientID, "product_ids": productIDs[:1]})
	second := api.create("/api/orders/", map[string]any{"client_id": clientID, "product_ids": productIDs})
	kept := api.create("/api/orders/", map[string]any{"client_id": otherID, "product_ids": productIDs[1:]})

	w := api.request(http.MethodDelete, fmt.Sprintf("/api/clients/%d", clientID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ada@example.com", decode[client](t, w).Email)

	for _, id := range []uint{first, second} {
		w := api.request(http.MethodGet, fmt.Sprintf("/api/orders/%d", id), nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	}
	w = api.request(http.MethodGet, fmt.Sprintf("/api/orders/%d", kept), nil)
	assert.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, int64(1), api.count(&models.OrderProduct{}))
	assert.Equal(t, int64(2), api.count(&models.Product{}))
}

func TestDeleteProductRemovesItFromOrders(t *testing.T) {
	api := newTestAPI(t)
	_, productIDs := api.seedCatalog()
	clientID := api.seedClient("ada@example.com")
	orderID := api.create("/api/orders/", map[string]any{"client_id": clientID, "product_ids": productIDs})

	w := api.request(http.MethodDelete, fmt.Sprintf("/api/products/%d", productIDs[0]), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Dune", decode[product](t, w).Name)

	w = api.request(http.MethodGet, fmt.Sprintf("/api/orders/%d", orderID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	got := decode[order](t, w)
	require.Len(t, got.Products, 1)
	assert.Equal(t, productIDs[1], got.Products[0].ID)
}

func TestDeleteOrder(t *testing.T) {
	api := newTestAPI(t)
	_, productIDs := api.seedCatalog()
	clientID := api.seedClient("ada@example.com")
	orderID := api.create("/api/orders/", map[string]any{"client_id": clientID, "product_ids": productIDs})

	w := api.request(http.MethodDelete, fmt.Sprintf("/api/orders/%d", orderID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, orderID, decode[order](t, w).ID)

	assert.Zero(t, api.count(&models.Order{}))
	assert.Zero(t, api.count(&models.OrderProduct{}))
	assert.Equal(t, int64(2), api.count(&models.Product{}))

	w = api.request(http.MethodDelete, fmt.Sprintf("/api/orders/%d", orderID), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestClientOrders(t *testing.T) {
	api := newTestAPI(t)
	_, productIDs := api.seedCatalog()
	clientID := api.seedClient("ada@example.com")

	w := api.request(http.MethodGet, fmt.Sprintf("/api/clients/%d/orders", clientID), nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())

	api.create("/api/orders/", map[string]any{"client_id": clientID, "product_ids": productIDs})

	w = api.request(http.MethodGet, fmt.Sprintf("/api/clients/%d/orders", clientID), nil)
	assert.Equal(t, http.StatusOK, w.Code)
	got := decode[[]order](t, w)
	require.Len(t, got, 1)
	assert.Len(t, got[0].Products, 2)
	assert.Equal(t, clientID, got[0].Client.ID)
}

func TestTrailingSlashRedirect(t *testing.T) {
	api := newTestAPI(t)

	w := api.request(http.MethodGet, "/api/categories", nil)

	assert.Equal(t, http.StatusMovedPermanently, w.Code)
	assert.Equal(t, "/api/categories/", w.Header().Get("Location"))
}

func TestEndToEndOrderFlow(t *testing.T) {
	api := newTestAPI(t)

	categoryID := api.create("/api/categories/", map[string]any{"name": "Fiction"})
	assert.Equal(t, uint(1), categoryID)

	productID := api.create("/api/products/", map[string]any{"name": "Dune", "price": 999, "category_id": categoryID})
	clientID := api.create("/api/clients/", map[string]any{"name": "Paul", "email": "paul@arrakis.dev", "password": "spice"})

	w := api.request(http.MethodPost, "/api/orders/", map[string]any{"client_id": clientID, "product_ids": []uint{productID}})
	require.Equal(t, http.StatusCreated, w.Code)

	created := decode[order](t, w)
	assert.Equal(t, clientID, created.ClientID)
	assert.Equal(t, client{ID: clientID, Name: "Paul", Email: "paul@arrakis.dev"}, created.Client)
	require.Len(t, created.Products, 1)
	assert.Equal(t, product{ID: productID, Name: "Dune", Price: 999, CategoryID: categoryID}, created.Products[0])

	w = api.request(http.MethodGet, fmt.Sprintf("/api/orders/%d", created.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, created, decode[order](t, w))

	w = api.request(http.MethodGet, "/api/orders/", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []order{created}, decode[[]order](t, w))
}

type stubVerifier struct{}

func (stubVerifier) Verify(_ context.Context, raw string) (*oidc.IDToken, error) {
	if raw != "valid" {
		return nil, errors.New("token rejected")
	}
	return &oidc.IDToken{Subject: "tester"}, nil
}

func TestWriteRoutesRequireTokenWhenAuthEnabled(t *testing.T) {
	db := dbtest.New(t)
	router := SetupRouter(db, zerolog.Nop(), RouterConfig{Verifier: stubVerifier{}})

	send := func(method, path, token string, payload any) *httptest.ResponseRecorder {
		var body bytes.Buffer
		if payload != nil {
			require.NoError(t, json.NewEncoder(&body).Encode(payload))
		}
		req := httptest.NewRequest(method, path, &body)
		req.Header.Set("Content-Type", "application/json")
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	w := send(http.MethodPost, "/api/categories/", "", map[string]any{"name": "Fiction"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = send(http.MethodPost, "/api/categories/", "forged", map[string]any{"name": "Fiction"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = send(http.MethodPost, "/api/categories/", "valid", map[string]any{"name": "Fiction"})
	assert.Equal(t, http.StatusCreated, w.Code)

	w = send(http.MethodGet, "/api/categories/", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = send(http.MethodDelete, "/api/categories/1", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
