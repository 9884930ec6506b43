package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/avolkovs/artefactreg/internal/common"
	"github.com/avolkovs/artefactreg/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUserService struct {
	signUpFn func(ctx context.Context, username, password string) (*models.User, string, error)
	loginFn  func(ctx context.Context, username, password string) (*models.User, string, error)
}

func (f *fakeUserService) SignUp(ctx context.Context, username, password string) (*models.User, string, error) {
	return f.signUpFn(ctx, username, password)
}

func (f *fakeUserService) Login(ctx context.Context, username, password string) (*models.User, string, error) {
	return f.loginFn(ctx, username, password)
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestSignUpHandler_Success(t *testing.T) {
	h := &AuthHandler{Users: &fakeUserService{
		signUpFn: func(ctx context.Context, username, password string) (*models.User, string, error) {
			return &models.User{ID: 1, Username: username}, "tok123", nil
		},
	}}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/signup",
		strings.NewReader(`{"username":"alice","password":"s3cret"}`))
	h.SignUp(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "Login Successful", body["message"])
	assert.Equal(t, "alice", body["username"])
	assert.Equal(t, true, body["isValid"])
	assert.Equal(t, "tok123", body["token"])
}

func TestSignUpHandler_DuplicateUsername(t *testing.T) {
	h := &AuthHandler{Users: &fakeUserService{
		signUpFn: func(ctx context.Context, username, password string) (*models.User, string, error) {
			return nil, "", common.ErrorAlreadyExists
		},
	}}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/signup",
		strings.NewReader(`{"username":"alice","password":"s3cret"}`))
	h.SignUp(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "Username already exists", body["message"])
	assert.Equal(t, false, body["isValid"])
}

func TestSignUpHandler_BadBody(t *testing.T) {
	h := &AuthHandler{Users: &fakeUserService{}}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/signup", strings.NewReader("not json"))
	h.SignUp(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLoginHandler_Success(t *testing.T) {
	h := &AuthHandler{Users: &fakeUserService{
		loginFn: func(ctx context.Context, username, password string) (*models.User, string, error) {
			return &models.User{ID: 1, Username: username}, "tok123", nil
		},
	}}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/login",
		strings.NewReader(`{"username":"alice","password":"s3cret"}`))
	h.Login(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "Login Successful", body["message"])
	assert.Equal(t, "tok123", body["token"])
}

func TestLoginHandler_UnknownUser(t *testing.T) {
	h := &AuthHandler{Users: &fakeUserService{
		loginFn: func(ctx context.Context, username, password string) (*models.User, string, error) {
			return nil, "", common.ErrorNotFound
		},
	}}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/login",
		strings.NewReader(`{"username":"ghost","password":"x"}`))
	h.Login(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "Invalid Username", body["message"])
}

func TestLoginHandler_WrongPassword(t *testing.T) {
	h := &AuthHandler{Users: &fakeUserService{
		loginFn: func(ctx context.Context, username, password string) (*models.User, string, error) {
			return nil, "", common.ErrorUnauthorized
		},
	}}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/login",
		strings.NewReader(`{"username":"alice","password":"wrong"}`))
	h.Login(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "Invalid Password", body["message"])
}
