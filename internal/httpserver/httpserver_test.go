package httpserver

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mkozhevin/retail_orders/internal/models"
	"github.com/mkozhevin/retail_orders/internal/repo"
	"github.com/mkozhevin/retail_orders/internal/service"
	"github.com/mkozhevin/retail_orders/internal/tokens"
)

var testSecret = []byte("test-secret")

func newTestServer(t *testing.T) (*echo.Echo, *repo.GormRepo) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, repo.Migrate(db))
	r := &repo.GormRepo{DB: db}

	accounts := &service.AccountService{Repo: r, JWTSecret: testSecret}
	deps := Deps{
		Account:   &AccountHandler{Accounts: accounts},
		Address:   &AddressHandler{Accounts: accounts},
		Catalog:   &CatalogHandler{Catalog: &service.CatalogService{Repo: r}},
		Basket:    &BasketHandler{Basket: &service.BasketService{Repo: r}},
		Order:     &OrderHandler{Orders: &service.OrderService{Repo: r}},
		Partner:   &PartnerHandler{Accounts: accounts, Partner: &service.PartnerService{Repo: r}},
		JWTSecret: testSecret,
	}

	e := echo.New()
	Register(e, &deps)
	return e, r
}

func doJSON(e *echo.Echo, method, path, token string, payload any) *httptest.ResponseRecorder {
	var body bytes.Buffer
	if payload != nil {
		json.NewEncoder(&body).Encode(payload)
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func issueToken(t *testing.T, userID uint, userType string) string {
	t.Helper()
	token, err := tokens.NewAccessToken(testSecret, userID, userType, time.Now().Add(time.Hour))
	require.NoError(t, err)
	return token
}

func createActiveUser(t *testing.T, r *repo.GormRepo, email, userType string) *models.User {
	t.Helper()
	user := models.User{Email: email, FirstName: "Иван", LastName: "Петров", Type: userType, Active: true}
	require.NoError(t, user.SetPassword("correct-horse"))
	require.NoError(t, r.DB.Create(&user).Error)
	return &user
}

func TestUnauthenticatedRequest(t *testing.T) {
	e, _ := newTestServer(t)

	rec := doJSON(e, http.MethodGet, "/api/v1/basket", "", nil)
	require.Equal(t, http.StatusForbidden, rec.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, false, resp["Status"])
	assert.Equal(t, "Log in required", resp["Error"])
}

func TestBuyerCannotUsePartnerEndpoints(t *testing.T) {
	e, r := newTestServer(t)
	buyer := createActiveUser(t, r, "ivan@example.com", models.UserTypeBuyer)
	token := issueToken(t, buyer.ID, buyer.Type)

	rec := doJSON(e, http.MethodGet, "/api/v1/partner/state", token, nil)
	require.Equal(t, http.StatusForbidden, rec.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Только для магазинов", resp["Error"])
}

func TestGarbageToken(t *testing.T) {
	e, _ := newTestServer(t)

	rec := doJSON(e, http.MethodGet, "/api/v1/basket", "not-a-jwt", nil)
	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRegisterMissingFields(t *testing.T) {
	e, _ := newTestServer(t)

	rec := doJSON(e, http.MethodPost, "/api/v1/user/register", "", map[string]string{
		"email":    "anna@example.com",
		"password": "correct-horse",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, false, resp["Status"])
	assert.Equal(t, "Не указаны все необходимые аргументы", resp["Errors"])
}

func TestLoginFlow(t *testing.T) {
	e, r := newTestServer(t)
	createActiveUser(t, r, "ivan@example.com", models.UserTypeBuyer)

	rec := doJSON(e, http.MethodPost, "/api/v1/user/login", "", map[string]string{
		"email":    "ivan@example.com",
		"password": "correct-horse",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Status bool
		Token  string
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Status)
	require.NotEmpty(t, resp.Token)

	details := doJSON(e, http.MethodGet, "/api/v1/user/details", resp.Token, nil)
	require.Equal(t, http.StatusOK, details.Code)

	var view map[string]any
	require.NoError(t, json.Unmarshal(details.Body.Bytes(), &view))
	assert.Equal(t, "ivan@example.com", view["email"])
}

func TestPlaceOrderNonIntegerAddress(t *testing.T) {
	e, r := newTestServer(t)
	buyer := createActiveUser(t, r, "ivan@example.com", models.UserTypeBuyer)
	token := issueToken(t, buyer.ID, buyer.Type)

	rec := doJSON(e, http.MethodPost, "/api/v1/order", token, map[string]any{
		"address_id": "тридцать три",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, false, resp["Status"])
}

func TestAddressRoundTrip(t *testing.T) {
	e, r := newTestServer(t)
	buyer := createActiveUser(t, r, "ivan@example.com", models.UserTypeBuyer)
	token := issueToken(t, buyer.ID, buyer.Type)

	rec := doJSON(e, http.MethodPost, "/api/v1/user/contact", token, map[string]string{
		"city":   "Москва",
		"street": "Тверская",
		"house":  "1",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	list := doJSON(e, http.MethodGet, "/api/v1/user/contact", token, nil)
	require.Equal(t, http.StatusOK, list.Code)

	var addrs []models.Address
	require.NoError(t, json.Unmarshal(list.Body.Bytes(), &addrs))
	require.Len(t, addrs, 1)
	assert.Equal(t, "Тверская", addrs[0].Street)

	del := doJSON(e, http.MethodDelete, "/api/v1/user/contact", token, map[string]string{
		"items": "один",
	})
	require.Equal(t, http.StatusBadRequest, del.Code)

	del = doJSON(e, http.MethodDelete, "/api/v1/user/contact", token, map[string]any{
		"items": "1",
	})
	require.Equal(t, http.StatusOK, del.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(del.Body.Bytes(), &resp))
	assert.EqualValues(t, 1, resp["Удалено объектов"])
}
