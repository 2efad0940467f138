package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	apperrors "utilityledger/internal/errors"
	"utilityledger/internal/middleware"
	"utilityledger/internal/models"
	"utilityledger/internal/pagination"
	"utilityledger/internal/validator"
)

// --- mock services ---

type mockUserService struct {
	createUserFn     func(name, email, password string, role models.UserRole) (*models.User, error)
	getUserByEmailFn func(email string) (*models.User, error)
	getUserByIDFn    func(id uint) (*models.User, error)
	authenticateFn   func(email, password string) (*models.User, error)
	listUsersFn      func(page pagination.PageRequest) (*pagination.PageResponse[models.User], error)
}

func (m *mockUserService) CreateUser(_ context.Context, name, email, password string, role models.UserRole) (*models.User, error) {
	if m.createUserFn != nil {
		return m.createUserFn(name, email, password, role)
	}
	return &models.User{}, nil
}

func (m *mockUserService) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	if m.getUserByEmailFn != nil {
		return m.getUserByEmailFn(email)
	}
	return &models.User{}, nil
}

func (m *mockUserService) GetUserByID(_ context.Context, id uint) (*models.User, error) {
	if m.getUserByIDFn != nil {
		return m.getUserByIDFn(id)
	}
	return &models.User{}, nil
}

func (m *mockUserService) VerifyPassword(_ *models.User, _ string) bool {
	return true
}

func (m *mockUserService) Authenticate(_ context.Context, email, password string) (*models.User, error) {
	if m.authenticateFn != nil {
		return m.authenticateFn(email, password)
	}
	return &models.User{}, nil
}

func (m *mockUserService) ListUsers(_ context.Context, page pagination.PageRequest) (*pagination.PageResponse[models.User], error) {
	if m.listUsersFn != nil {
		return m.listUsersFn(page)
	}
	page.Defaults()
	resp := pagination.NewPageResponse([]models.User{}, page, 0)
	return &resp, nil
}

// --- test helpers ---

func init() {
	gin.SetMode(gin.TestMode)
	validator.Register()
}

func setupAuthRouter(handler *AuthHandler) *gin.Engine {
	r := gin.New()
	r.POST("/auth/register", handler.Register)
	r.POST("/auth/login", handler.Login)
	r.GET("/profile", injectUserID(1), handler.GetProfile)
	r.GET("/users", handler.ListUsers)
	return r
}

func injectUserID(uid uint) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ContextUserID, uid)
		c.Next()
	}
}

func doRequest(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON response: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

func assertErrorCode(t *testing.T, result map[string]interface{}, code string) {
	t.Helper()
	errObj, ok := result["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected error object in response, got: %v", result)
	}
	if errObj["code"] != code {
		t.Errorf("expected error code %q, got %q", code, errObj["code"])
	}
}

// --- tests ---

func TestAuthHandler_Register(t *testing.T) {
	t.Run("returns 201 with token", func(t *testing.T) {
		var gotRole models.UserRole
		userSvc := &mockUserService{
			createUserFn: func(name, email, _ string, role models.UserRole) (*models.User, error) {
				gotRole = role
				return &models.User{Base: models.Base{ID: 1}, Name: name, Email: email, Role: models.RoleUser}, nil
			},
		}
		r := setupAuthRouter(NewAuthHandler(userSvc))

		rec := doRequest(r, "POST", "/auth/register",
			`{"name":"Jane Doe","email":"jane@example.com","password":"password123"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		token, _ := result["token"].(string)
		if token == "" {
			t.Fatal("expected non-empty token")
		}
		claims, err := middleware.ParseAccessToken(token)
		if err != nil {
			t.Fatalf("token should parse: %v", err)
		}
		if claims.UserID != 1 || claims.Role != models.RoleUser {
			t.Errorf("unexpected claims %+v", claims)
		}
		user := result["user"].(map[string]interface{})
		if user["email"] != "jane@example.com" || user["name"] != "Jane Doe" {
			t.Errorf("unexpected user %v", user)
		}
		if _, leaked := user["password_hash"]; leaked {
			t.Error("password hash must not be serialized")
		}
		if gotRole != "" {
			t.Errorf("expected empty role to reach the service, got %q", gotRole)
		}
	})

	t.Run("passes an explicit role through", func(t *testing.T) {
		var gotRole models.UserRole
		userSvc := &mockUserService{
			createUserFn: func(_, email, _ string, role models.UserRole) (*models.User, error) {
				gotRole = role
				return &models.User{Base: models.Base{ID: 2}, Email: email, Role: role}, nil
			},
		}
		r := setupAuthRouter(NewAuthHandler(userSvc))

		rec := doRequest(r, "POST", "/auth/register",
			`{"name":"Admin","email":"admin@example.com","password":"password123","role":"admin"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if gotRole != models.RoleAdmin {
			t.Errorf("expected admin, got %q", gotRole)
		}
	})

	for name, body := range map[string]string{
		"missing email":  `{"name":"Jane Doe","password":"password123"}`,
		"short name":     `{"name":"Jo","email":"jo@example.com","password":"password123"}`,
		"short password": `{"name":"Jane Doe","email":"jane@example.com","password":"short"}`,
		"invalid email":  `{"name":"Jane Doe","email":"not-an-email","password":"password123"}`,
		"unknown role":   `{"name":"Jane Doe","email":"jane@example.com","password":"password123","role":"root"}`,
	} {
		t.Run("returns 400 on "+name, func(t *testing.T) {
			r := setupAuthRouter(NewAuthHandler(&mockUserService{}))

			rec := doRequest(r, "POST", "/auth/register", body)

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
			}
			assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
		})
	}

	t.Run("returns 409 on duplicate email", func(t *testing.T) {
		userSvc := &mockUserService{
			createUserFn: func(_, _, _ string, _ models.UserRole) (*models.User, error) {
				return nil, apperrors.ErrDuplicateEmail
			},
		}
		r := setupAuthRouter(NewAuthHandler(userSvc))

		rec := doRequest(r, "POST", "/auth/register",
			`{"name":"Jane Doe","email":"dup@example.com","password":"password123"}`)

		if rec.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "DUPLICATE_EMAIL")
	})
}

func TestAuthHandler_Login(t *testing.T) {
	t.Run("returns 200 with token", func(t *testing.T) {
		userSvc := &mockUserService{
			authenticateFn: func(email, _ string) (*models.User, error) {
				return &models.User{Base: models.Base{ID: 7}, Email: email, Role: models.RoleAdmin}, nil
			},
		}
		r := setupAuthRouter(NewAuthHandler(userSvc))

		rec := doRequest(r, "POST", "/auth/login", `{"email":"a@example.com","password":"password123"}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		claims, err := middleware.ParseAccessToken(result["token"].(string))
		if err != nil {
			t.Fatalf("token should parse: %v", err)
		}
		if claims.UserID != 7 || claims.Email != "a@example.com" || claims.Role != models.RoleAdmin {
			t.Errorf("unexpected claims %+v", claims)
		}
	})

	t.Run("returns 401 on invalid credentials", func(t *testing.T) {
		userSvc := &mockUserService{
			authenticateFn: func(_, _ string) (*models.User, error) {
				return nil, apperrors.ErrInvalidCredentials
			},
		}
		r := setupAuthRouter(NewAuthHandler(userSvc))

		rec := doRequest(r, "POST", "/auth/login", `{"email":"a@example.com","password":"wrong"}`)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_CREDENTIALS")
	})

	t.Run("returns 400 on missing password", func(t *testing.T) {
		r := setupAuthRouter(NewAuthHandler(&mockUserService{}))

		rec := doRequest(r, "POST", "/auth/login", `{"email":"a@example.com"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 500 on unexpected error", func(t *testing.T) {
		userSvc := &mockUserService{
			authenticateFn: func(_, _ string) (*models.User, error) {
				return nil, fmt.Errorf("connection reset")
			},
		}
		r := setupAuthRouter(NewAuthHandler(userSvc))

		rec := doRequest(r, "POST", "/auth/login", `{"email":"a@example.com","password":"password123"}`)

		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("expected 500, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INTERNAL_ERROR")
	})
}

func TestAuthHandler_GetProfile(t *testing.T) {
	t.Run("returns the authenticated user", func(t *testing.T) {
		userSvc := &mockUserService{
			getUserByIDFn: func(id uint) (*models.User, error) {
				return &models.User{Base: models.Base{ID: id}, Name: "Jane Doe", Email: "jane@example.com"}, nil
			},
		}
		r := setupAuthRouter(NewAuthHandler(userSvc))

		rec := doRequest(r, "GET", "/profile", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		user := parseJSON(t, rec)["user"].(map[string]interface{})
		if user["id"] != float64(1) || user["email"] != "jane@example.com" {
			t.Errorf("unexpected user %v", user)
		}
	})

	t.Run("returns 404 when user is gone", func(t *testing.T) {
		userSvc := &mockUserService{
			getUserByIDFn: func(uint) (*models.User, error) { return nil, apperrors.ErrUserNotFound },
		}
		r := setupAuthRouter(NewAuthHandler(userSvc))

		rec := doRequest(r, "GET", "/profile", "")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "USER_NOT_FOUND")
	})

	t.Run("returns 401 without a user in context", func(t *testing.T) {
		r := gin.New()
		r.GET("/profile", NewAuthHandler(&mockUserService{}).GetProfile)

		rec := doRequest(r, "GET", "/profile", "")

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})
}

func TestAuthHandler_ListUsers(t *testing.T) {
	t.Run("maps users to public fields", func(t *testing.T) {
		var gotPage pagination.PageRequest
		userSvc := &mockUserService{
			listUsersFn: func(page pagination.PageRequest) (*pagination.PageResponse[models.User], error) {
				gotPage = page
				users := []models.User{
					{Base: models.Base{ID: 1}, Name: "Admin", Email: "admin@example.com", Role: models.RoleAdmin, Password: "secret"},
				}
				resp := pagination.NewPageResponse(users, pagination.PageRequest{Limit: 10}, 1)
				return &resp, nil
			},
		}
		r := setupAuthRouter(NewAuthHandler(userSvc))

		rec := doRequest(r, "GET", "/users?limit=10", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if gotPage.Limit != 10 {
			t.Errorf("expected limit 10 to reach the service, got %d", gotPage.Limit)
		}
		if strings.Contains(rec.Body.String(), "secret") {
			t.Error("password hash leaked into response")
		}
		result := parseJSON(t, rec)
		data := result["data"].([]interface{})
		if len(data) != 1 || data[0].(map[string]interface{})["role"] != "admin" {
			t.Errorf("unexpected data %v", data)
		}
		if result["total_items"] != float64(1) {
			t.Errorf("expected total_items 1, got %v", result["total_items"])
		}
	})

	t.Run("returns 400 on invalid paging", func(t *testing.T) {
		r := setupAuthRouter(NewAuthHandler(&mockUserService{}))

		rec := doRequest(r, "GET", "/users?limit=abc", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}
