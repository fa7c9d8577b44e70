package controllers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"building-backend/controllers"
	"building-backend/models"
	"building-backend/routes"
	"building-backend/services"
	"building-backend/utils"
)

// stubRepo scripts repository answers and records what the handlers asked for.
type stubRepo struct {
	list     []models.Building
	building *models.Building
	lookup   *models.FloorLookup
	err      error

	calls     []string
	gotFloor  models.Floor
	gotFields map[string]any
	gotMapURL string
}

func (s *stubRepo) ListBuildings(ctx context.Context) ([]models.Building, error) {
	s.calls = append(s.calls, "ListBuildings")
	return s.list, s.err
}

func (s *stubRepo) GetBuilding(ctx context.Context, id string) (*models.Building, error) {
	s.calls = append(s.calls, "GetBuilding:"+id)
	return s.building, s.err
}

func (s *stubRepo) CreateBuilding(ctx context.Context, building *models.Building) (*models.Building, error) {
	s.calls = append(s.calls, "CreateBuilding:"+building.ID)
	if s.err != nil {
		return nil, s.err
	}
	if s.building != nil {
		return s.building, nil
	}
	return building, nil
}

func (s *stubRepo) UpdateBuilding(ctx context.Context, id string, upd models.BuildingUpdate) (*models.Building, error) {
	s.calls = append(s.calls, "UpdateBuilding:"+id)
	return s.building, s.err
}

func (s *stubRepo) DeleteBuilding(ctx context.Context, id string) error {
	s.calls = append(s.calls, "DeleteBuilding:"+id)
	return s.err
}

func (s *stubRepo) AddFloor(ctx context.Context, buildingID string, floor models.Floor) (*models.Building, error) {
	s.calls = append(s.calls, "AddFloor:"+buildingID)
	s.gotFloor = floor
	return s.building, s.err
}

func (s *stubRepo) UpdateFloor(ctx context.Context, buildingID, floorID string, fields map[string]any) (*models.Building, error) {
	s.calls = append(s.calls, "UpdateFloor:"+buildingID+":"+floorID)
	s.gotFields = fields
	return s.building, s.err
}

func (s *stubRepo) UpdateFloorMapURL(ctx context.Context, floorID, url string) (*models.Building, error) {
	s.calls = append(s.calls, "UpdateFloorMapURL:"+floorID)
	s.gotMapURL = url
	return s.building, s.err
}

func (s *stubRepo) DeleteFloor(ctx context.Context, buildingID, floorID string) (*models.Building, error) {
	s.calls = append(s.calls, "DeleteFloor:"+buildingID+":"+floorID)
	return s.building, s.err
}

func (s *stubRepo) FindFloor(ctx context.Context, floorID string) (*models.FloorLookup, error) {
	s.calls = append(s.calls, "FindFloor:"+floorID)
	return s.lookup, s.err
}

// memCredentials is an in-memory credential store for auth flow tests.
type memCredentials struct {
	admins map[string]*models.Admin
	byID   map[string]*models.Admin
	hashes map[string]string
}

func newMemCredentials() *memCredentials {
	return &memCredentials{
		admins: map[string]*models.Admin{},
		byID:   map[string]*models.Admin{},
		hashes: map[string]string{},
	}
}

func (m *memCredentials) Register(ctx context.Context, username, password string) (*models.Admin, error) {
	if _, ok := m.admins[username]; ok {
		return nil, services.ErrAdminExists
	}
	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, err
	}
	admin := &models.Admin{ID: primitive.NewObjectID(), Username: username}
	m.admins[username] = admin
	m.byID[admin.ID.Hex()] = admin
	m.hashes[username] = hash
	return admin, nil
}

func (m *memCredentials) Authenticate(ctx context.Context, username, password string) (*models.Admin, error) {
	admin, ok := m.admins[username]
	if !ok || !utils.CheckPasswordHash(password, m.hashes[username]) {
		return nil, services.ErrInvalidCredentials
	}
	return admin, nil
}

func (m *memCredentials) GetByID(ctx context.Context, id string) (*models.Admin, error) {
	admin, ok := m.byID[id]
	if !ok {
		return nil, services.ErrInvalidCredentials
	}
	return admin, nil
}

type memStore struct {
	saves map[string][]byte
}

func (m *memStore) Save(ctx context.Context, name string, data []byte) (string, error) {
	if m.saves == nil {
		m.saves = map[string][]byte{}
	}
	m.saves[name] = data
	return "/uploads/floor-maps/" + name, nil
}

type testAPI struct {
	router *gin.Engine
	repo   *stubRepo
	creds  *memCredentials
	store  *memStore
	tokens *services.TokenService
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := &stubRepo{}
	creds := newMemCredentials()
	store := &memStore{}
	tokens := services.NewTokenService("test-secret")

	router := routes.SetupRouter(routes.Options{
		Auth:      controllers.NewAuthController(creds, tokens),
		Buildings: controllers.NewBuildingController(repo),
		Floors:    controllers.NewFloorController(repo, services.NewAssetService(store)),
		Tokens:    tokens,
		UploadDir: t.TempDir(),
	})

	return &testAPI{router: router, repo: repo, creds: creds, store: store, tokens: tokens}
}

func (a *testAPI) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func (a *testAPI) adminToken(t *testing.T) string {
	t.Helper()
	admin, err := a.creds.Register(context.Background(), "admin", "pw123")
	require.NoError(t, err)
	token, err := a.tokens.Issue(admin.ID.Hex())
	require.NoError(t, err)
	return token
}

func testPNG(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestHealthEndpoint(t *testing.T) {
	api := newTestAPI(t)
	w := api.do(t, http.MethodGet, "/api/health", "", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
	assert.Contains(t, w.Body.String(), "timestamp")
}

func TestListBuildingsIsPublic(t *testing.T) {
	api := newTestAPI(t)
	api.repo.list = []models.Building{{ID: "b1", Name: "Tower"}}

	w := api.do(t, http.MethodGet, "/api/buildings", "", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"id":"b1"`)
}

func TestMutationsRequireBearerToken(t *testing.T) {
	api := newTestAPI(t)

	tests := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/api/buildings"},
		{http.MethodPut, "/api/buildings/b1"},
		{http.MethodDelete, "/api/buildings/b1"},
		{http.MethodPost, "/api/buildings/b1/floors"},
		{http.MethodPut, "/api/buildings/b1/floors/f1"},
		{http.MethodDelete, "/api/buildings/b1/floors/f1"},
		{http.MethodPost, "/api/floors/f1/upload-map"},
	}
	for _, tt := range tests {
		w := api.do(t, tt.method, tt.path, "", map[string]any{})
		assert.Equal(t, http.StatusUnauthorized, w.Code, "%s %s", tt.method, tt.path)
	}
	assert.Empty(t, api.repo.calls, "unauthorized requests must not reach the repository")
}

func TestCreateBuilding(t *testing.T) {
	api := newTestAPI(t)
	token := api.adminToken(t)

	w := api.do(t, http.MethodPost, "/api/buildings", token, map[string]any{
		"id": "b1", "name": "Tower", "location": "X", "modelPath": "m.glb",
	})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"id":"b1"`)
	require.Len(t, api.repo.calls, 1)
	assert.Equal(t, "CreateBuilding:b1", api.repo.calls[0])
}

func TestCreateBuildingDuplicateID(t *testing.T) {
	api := newTestAPI(t)
	token := api.adminToken(t)
	api.repo.err = services.ErrDuplicateBuildingID

	w := api.do(t, http.MethodPost, "/api/buildings", token, map[string]any{
		"id": "b1", "name": "Tower", "location": "X", "modelPath": "m.glb",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "already exists")
}

func TestGetBuildingNotFound(t *testing.T) {
	api := newTestAPI(t)
	api.repo.err = services.ErrBuildingNotFound

	w := api.do(t, http.MethodGet, "/api/buildings/missing", "", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Building not found")
}

func TestDeleteBuilding(t *testing.T) {
	api := newTestAPI(t)
	token := api.adminToken(t)

	w := api.do(t, http.MethodDelete, "/api/buildings/b1", token, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Building deleted successfully")
	assert.Equal(t, []string{"DeleteBuilding:b1"}, api.repo.calls)
}

func TestAddFloorPassesPayloadThrough(t *testing.T) {
	api := newTestAPI(t)
	token := api.adminToken(t)
	api.repo.building = &models.Building{ID: "b1", Name: "Tower"}

	w := api.do(t, http.MethodPost, "/api/buildings/b1/floors", token, map[string]any{
		"level": 1, "name": "Lobby", "price": "$1", "size": "100sqft",
	})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, 1, api.repo.gotFloor.Level)
	assert.Equal(t, "Lobby", api.repo.gotFloor.Name)
}

func TestUpdateFloorInvalidLevel(t *testing.T) {
	api := newTestAPI(t)
	token := api.adminToken(t)
	api.repo.err = services.NewValidationError("Level must be a valid number")

	w := api.do(t, http.MethodPut, "/api/buildings/b1/floors/f1", token, map[string]any{
		"level": "abc",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Level must be a valid number")
	assert.Equal(t, "abc", api.repo.gotFields["level"])
}

func TestGetFloorAcrossBuildings(t *testing.T) {
	api := newTestAPI(t)
	api.repo.lookup = &models.FloorLookup{
		Floor:        models.Floor{ID: "f1", Level: 1, Name: "Lobby"},
		BuildingID:   "b1",
		BuildingName: "Tower",
	}

	w := api.do(t, http.MethodGet, "/api/floors/f1", "", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"buildingId":"b1"`)
	assert.Contains(t, w.Body.String(), `"buildingName":"Tower"`)
	assert.Contains(t, w.Body.String(), `"id":"f1"`)
}

func uploadRequest(t *testing.T, path, token, fieldName, contentType string, data []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="`+fieldName+`"; filename="map.png"`)
	header.Set("Content-Type", contentType)
	part, err := mw.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func TestUploadFloorMap(t *testing.T) {
	api := newTestAPI(t)
	token := api.adminToken(t)
	api.repo.lookup = &models.FloorLookup{Floor: models.Floor{ID: "f1"}, BuildingID: "b1"}
	api.repo.building = &models.Building{ID: "b1"}

	req := uploadRequest(t, "/api/floors/f1/upload-map", token, "map", "image/png", testPNG(t, 100, 80))
	w := httptest.NewRecorder()
	api.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "mapUrl")

	require.Len(t, api.store.saves, 1)
	assert.True(t, strings.HasPrefix(api.repo.gotMapURL, "/uploads/floor-maps/floor-map-"))

	found := false
	for _, call := range api.repo.calls {
		if call == "UpdateFloorMapURL:f1" {
			found = true
		}
	}
	assert.True(t, found, "positional map-url update must run after persisting the asset")
}

func TestUploadFloorMapRejectsNonImage(t *testing.T) {
	api := newTestAPI(t)
	token := api.adminToken(t)
	api.repo.lookup = &models.FloorLookup{Floor: models.Floor{ID: "f1"}, BuildingID: "b1"}

	req := uploadRequest(t, "/api/floors/f1/upload-map", token, "map", "application/pdf", []byte("%PDF-1.4"))
	w := httptest.NewRecorder()
	api.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, api.store.saves, "rejected uploads must not reach the store")
	assert.Empty(t, api.repo.gotMapURL)
}

func TestUploadFloorMapMissingFile(t *testing.T) {
	api := newTestAPI(t)
	token := api.adminToken(t)

	w := api.do(t, http.MethodPost, "/api/floors/f1/upload-map", token, nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "No file uploaded")
}

func TestUploadFloorMapUnknownFloor(t *testing.T) {
	api := newTestAPI(t)
	token := api.adminToken(t)
	api.repo.err = services.ErrFloorNotFound

	req := uploadRequest(t, "/api/floors/missing/upload-map", token, "map", "image/png", testPNG(t, 10, 10))
	w := httptest.NewRecorder()
	api.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Empty(t, api.store.saves)
}

func TestAuthFlow(t *testing.T) {
	api := newTestAPI(t)

	// register
	w := api.do(t, http.MethodPost, "/api/auth/register", "", map[string]any{
		"username": "admin", "password": "pw123",
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	// duplicate username
	w = api.do(t, http.MethodPost, "/api/auth/register", "", map[string]any{
		"username": "admin", "password": "other",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// wrong password and unknown user look identical
	w = api.do(t, http.MethodPost, "/api/auth/login", "", map[string]any{
		"username": "admin", "password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	wrongPw := w.Body.String()

	w = api.do(t, http.MethodPost, "/api/auth/login", "", map[string]any{
		"username": "nobody", "password": "pw123",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, wrongPw, w.Body.String())

	// successful login returns a usable token
	w = api.do(t, http.MethodPost, "/api/auth/login", "", map[string]any{
		"username": "admin", "password": "pw123",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var loginResp struct {
		Token string `json:"token"`
		User  struct {
			ID       string `json:"id"`
			Username string `json:"username"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &loginResp))
	require.NotEmpty(t, loginResp.Token)
	assert.Equal(t, "admin", loginResp.User.Username)

	// verify accepts the fresh token
	w = api.do(t, http.MethodGet, "/api/auth/verify", loginResp.Token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"valid":true`)

	// and rejects a mangled one
	w = api.do(t, http.MethodGet, "/api/auth/verify", loginResp.Token+"x", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), `"valid":false`)

	// the token gates mutations
	w = api.do(t, http.MethodPost, "/api/buildings", loginResp.Token, map[string]any{
		"id": "b1", "name": "Tower", "location": "X", "modelPath": "m.glb",
	})
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestUpdateBuildingNotFound(t *testing.T) {
	api := newTestAPI(t)
	token := api.adminToken(t)
	api.repo.err = services.ErrBuildingNotFound

	w := api.do(t, http.MethodPut, "/api/buildings/missing", token, map[string]any{"name": "New"})

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteFloorReturnsBuilding(t *testing.T) {
	api := newTestAPI(t)
	token := api.adminToken(t)
	api.repo.building = &models.Building{ID: "b1", Floors: []models.Floor{{ID: "f2"}}}

	w := api.do(t, http.MethodDelete, "/api/buildings/b1/floors/f1", token, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"DeleteFloor:b1:f1"}, api.repo.calls)
	assert.Contains(t, w.Body.String(), `"id":"f2"`)
}
