package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avolkau/taskkeeper/internal/common"
	"github.com/avolkau/taskkeeper/internal/logging"
	"github.com/avolkau/taskkeeper/internal/server/models"
	"github.com/avolkau/taskkeeper/internal/server/services"
)

const testSecret = "test-secret"

type fakeUserService struct {
	registerFn func(ctx context.Context, email, password string) (*models.User, error)
	loginFn    func(ctx context.Context, email, password string) (string, error)
}

func (f *fakeUserService) Register(ctx context.Context, email, password string) (*models.User, error) {
	return f.registerFn(ctx, email, password)
}

func (f *fakeUserService) Login(ctx context.Context, email, password string) (string, error) {
	return f.loginFn(ctx, email, password)
}

type fakeTaskService struct {
	createFn func(ctx context.Context, userID int64, title string, description *string) (*models.Task, error)
	listFn   func(ctx context.Context, userID int64) ([]*models.Task, error)
	getFn    func(ctx context.Context, id, userID int64) (*models.Task, error)
	updateFn func(ctx context.Context, id, userID int64, patch services.TaskPatch) (*models.Task, error)
	deleteFn func(ctx context.Context, id, userID int64) error
}

func (f *fakeTaskService) Create(ctx context.Context, userID int64, title string, description *string) (*models.Task, error) {
	return f.createFn(ctx, userID, title, description)
}

func (f *fakeTaskService) ListForUser(ctx context.Context, userID int64) ([]*models.Task, error) {
	return f.listFn(ctx, userID)
}

func (f *fakeTaskService) GetForUser(ctx context.Context, id, userID int64) (*models.Task, error) {
	return f.getFn(ctx, id, userID)
}

func (f *fakeTaskService) Update(ctx context.Context, id, userID int64, patch services.TaskPatch) (*models.Task, error) {
	return f.updateFn(ctx, id, userID, patch)
}

func (f *fakeTaskService) Delete(ctx context.Context, id, userID int64) error {
	return f.deleteFn(ctx, id, userID)
}

func newTestHandler(t *testing.T, us UserService, ts TaskService) http.Handler {
	t.Helper()
	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	return NewServer(":0", logger, us, ts, testSecret, "http://localhost:5173").Handler()
}

func doJSON(t *testing.T, h http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestHandleRegister_Success(t *testing.T) {
	us := &fakeUserService{
		registerFn: func(ctx context.Context, email, password string) (*models.User, error) {
			return &models.User{ID: 1, Email: "alice@example.com"}, nil
		},
	}
	h := newTestHandler(t, us, &fakeTaskService{})

	w := doJSON(t, h, http.MethodPost, "/auth/register", "",
		map[string]string{"email": "alice@example.com", "password": "s3cret"})

	require.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"id": 1, "email": "alice@example.com"}`, w.Body.String())
}

func TestHandleRegister_ValidationRejectedBeforeService(t *testing.T) {
	us := &fakeUserService{
		registerFn: func(ctx context.Context, email, password string) (*models.User, error) {
			t.Fatalf("service must not be called for invalid input")
			return nil, nil
		},
	}
	h := newTestHandler(t, us, &fakeTaskService{})

	tests := []struct {
		name string
		body map[string]string
	}{
		{name: "missing email", body: map[string]string{"password": "s3cret"}},
		{name: "not an email", body: map[string]string{"email": "nope", "password": "s3cret"}},
		{name: "password too short", body: map[string]string{"email": "a@b.com", "password": "12345"}},
		{name: "unknown field", body: map[string]string{"email": "a@b.com", "password": "s3cret", "admin": "true"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := doJSON(t, h, http.MethodPost, "/auth/register", "", tc.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestHandleRegister_Conflict(t *testing.T) {
	us := &fakeUserService{
		registerFn: func(ctx context.Context, email, password string) (*models.User, error) {
			return nil, common.ErrorAlreadyExists
		},
	}
	h := newTestHandler(t, us, &fakeTaskService{})

	w := doJSON(t, h, http.MethodPost, "/auth/register", "",
		map[string]string{"email": "alice@example.com", "password": "s3cret"})

	require.Equal(t, http.StatusConflict, w.Code)
	assert.JSONEq(t, `{"error": "email already registered"}`, w.Body.String())
}

func TestHandleLogin_Success(t *testing.T) {
	us := &fakeUserService{
		loginFn: func(ctx context.Context, email, password string) (string, error) {
			return "the-token", nil
		},
	}
	h := newTestHandler(t, us, &fakeTaskService{})

	w := doJSON(t, h, http.MethodPost, "/auth/login", "",
		map[string]string{"email": "alice@example.com", "password": "s3cret"})

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"access_token": "the-token"}`, w.Body.String())
}

func TestHandleLogin_InvalidCredentialsGeneric(t *testing.T) {
	us := &fakeUserService{
		loginFn: func(ctx context.Context, email, password string) (string, error) {
			return "", common.ErrorInvalidCredentials
		},
	}
	h := newTestHandler(t, us, &fakeTaskService{})

	w := doJSON(t, h, http.MethodPost, "/auth/login", "",
		map[string]string{"email": "whoever@example.com", "password": "whatever"})

	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"error": "invalid credentials"}`, w.Body.String())
}
