package handler

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"usersbackend/internal/middleware"
	"usersbackend/internal/models"
	"usersbackend/internal/repository"
	"usersbackend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeImportService struct {
	outcome *service.ImportOutcome
	err     error

	gotPayload []byte
}

func (f *fakeImportService) Import(payload []byte) (*service.ImportOutcome, error) {
	f.gotPayload = payload
	if f.err != nil {
		return nil, f.err
	}
	return f.outcome, nil
}

type fakeUserRepo struct {
	users []*models.User
}

func (f *fakeUserRepo) FindByCredentials(identifier, encodedPassword string) (*models.User, error) {
	return nil, repository.ErrNotFound
}

func (f *fakeUserRepo) GetByID(id int64) (*models.User, error) {
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUserRepo) GetByUsername(username string) (*models.User, error) {
	for _, u := range f.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUserRepo) ExistsByEmailOrUsername(email, username string) (bool, error) {
	return false, nil
}

func (f *fakeUserRepo) InsertBatch(users []*models.User) error { return nil }

// setClaims injects verified claims the way the auth middleware does.
func setClaims(claims *models.Claims) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ClaimsKey, claims)
		c.Next()
	}
}

func newUsersRouter(importSvc service.ImportService, repo repository.UserRepository, claims *models.Claims) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	h := NewUsersHandler(importSvc, repo, zap.NewNop())

	router.GET("/api/users/generate", h.Generate)
	router.POST("/api/users/batch", h.BatchImport)
	if claims != nil {
		router.GET("/api/users/me", setClaims(claims), h.MyProfile)
		router.GET("/api/users/:username", setClaims(claims), h.ProfileByUsername)
	}
	return router
}

func multipartFile(t *testing.T, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", "users.json")
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func postBatch(router *gin.Engine, body *bytes.Buffer, contentType string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/users/batch", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestBatchImport_Success(t *testing.T) {
	importSvc := &fakeImportService{outcome: &service.ImportOutcome{
		TotalRecords: 3, SuccessfullyImported: 2, NotImported: 1,
	}}
	router := newUsersRouter(importSvc, &fakeUserRepo{}, nil)

	payload := []byte(`[{"username": "alice"}]`)
	body, contentType := multipartFile(t, payload)
	w := postBatch(router, body, contentType)

	require.Equal(t, http.StatusOK, w.Code)
	var outcome service.ImportOutcome
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &outcome))
	assert.Equal(t, 3, outcome.TotalRecords)
	assert.Equal(t, 2, outcome.SuccessfullyImported)
	assert.Equal(t, 1, outcome.NotImported)
	assert.Equal(t, payload, importSvc.gotPayload)
}

func TestBatchImport_MissingFile(t *testing.T) {
	importSvc := &fakeImportService{}
	router := newUsersRouter(importSvc, &fakeUserRepo{}, nil)

	w := postBatch(router, &bytes.Buffer{}, "multipart/form-data")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "File is empty or doesn't exist")
	assert.Nil(t, importSvc.gotPayload)
}

func TestBatchImport_EmptyFile(t *testing.T) {
	importSvc := &fakeImportService{}
	router := newUsersRouter(importSvc, &fakeUserRepo{}, nil)

	body, contentType := multipartFile(t, nil)
	w := postBatch(router, body, contentType)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "File is empty or doesn't exist")
}

func TestBatchImport_InvalidJSONVersusEmptyAreDistinct(t *testing.T) {
	invalid := &fakeImportService{err: service.ErrInvalidFormat}
	router := newUsersRouter(invalid, &fakeUserRepo{}, nil)
	body, contentType := multipartFile(t, []byte(`{broken`))
	w := postBatch(router, body, contentType)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "not a valid JSON")

	empty := &fakeImportService{err: service.ErrEmptyInput}
	router = newUsersRouter(empty, &fakeUserRepo{}, nil)
	body, contentType = multipartFile(t, []byte(`[]`))
	w = postBatch(router, body, contentType)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "No valid user data")
}

func TestBatchImport_StorageFailure(t *testing.T) {
	importSvc := &fakeImportService{err: service.ErrStorage}
	router := newUsersRouter(importSvc, &fakeUserRepo{}, nil)

	body, contentType := multipartFile(t, []byte(`[{"username": "alice"}]`))
	w := postBatch(router, body, contentType)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestGenerate_ReturnsDownloadableJSON(t *testing.T) {
	router := newUsersRouter(&fakeImportService{}, &fakeUserRepo{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/users/generate?count=4", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "users.json")

	var users []*models.User
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &users))
	assert.Len(t, users, 4)
}

func TestGenerate_BadCount(t *testing.T) {
	router := newUsersRouter(&fakeImportService{}, &fakeUserRepo{}, nil)

	for _, query := range []string{"", "?count=abc", "?count=0"} {
		req := httptest.NewRequest(http.MethodGet, "/api/users/generate"+query, nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code, "query %q", query)
	}
}

func TestMyProfile_ReturnsOwnRecord(t *testing.T) {
	repo := &fakeUserRepo{users: []*models.User{
		{ID: 5, Username: "jdoe", Email: "jdoe@example.com", Role: models.RoleUser},
	}}
	claims := &models.Claims{UserID: 5, Email: "jdoe@example.com", Role: models.RoleUser}
	router := newUsersRouter(&fakeImportService{}, repo, claims)

	req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var user models.User
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &user))
	assert.Equal(t, int64(5), user.ID)
	assert.Equal(t, "jdoe", user.Username)
}

func TestMyProfile_UserGone(t *testing.T) {
	claims := &models.Claims{UserID: 404, Role: models.RoleUser}
	router := newUsersRouter(&fakeImportService{}, &fakeUserRepo{}, claims)

	req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestProfileByUsername_FoundAndMissing(t *testing.T) {
	repo := &fakeUserRepo{users: []*models.User{
		{ID: 8, Username: "target", Email: "t@example.com", Role: models.RoleUser},
	}}
	claims := &models.Claims{UserID: 1, Role: models.RoleAdmin}
	router := newUsersRouter(&fakeImportService{}, repo, claims)

	req := httptest.NewRequest(http.MethodGet, "/api/users/target", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var user models.User
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &user))
	assert.Equal(t, "target", user.Username)

	req = httptest.NewRequest(http.MethodGet, "/api/users/nobody", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "User not found.")
}
