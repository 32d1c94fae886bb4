package api_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"testing"
	"time"

	"room_finder/internal/api"
	"room_finder/internal/domain"
	"room_finder/internal/middleware"
	"room_finder/internal/storage"
	"room_finder/internal/utils"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testSecret = "test-secret"

// testEnv bundles everything a handler test touches
type testEnv struct {
	db     *gorm.DB
	rdb    *redis.Client
	store  *storage.Memory
	router *gin.Engine
}

// newTestEnv builds an isolated instance of the full route layout backed
// by sqlite and an in-process Redis
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	// A named shared-memory database keeps all pooled connections on the
	// same data within one test
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Profile{}, &domain.Room{}))

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	store := storage.NewMemory("http://media.test")

	r := gin.New()
	r.POST("/api/auth/signup", api.SignupHandler(db))
	r.POST("/api/auth/login", api.LoginHandler(db, testSecret))
	r.POST("/api/auth/logout", middleware.JWTAuthMiddleware(testSecret, rdb), api.LogoutHandler(rdb))
	r.GET("/api/auth/session", api.SessionHandler(db, rdb, testSecret))
	r.GET("/api/rooms", api.SearchRoomsHandler(db, rdb))
	r.GET("/api/rooms/:id", api.RoomDetailHandler(db))
	r.GET("/media/*path", api.MediaHandler(store))
	owner := r.Group("/api/owner")
	owner.Use(middleware.JWTAuthMiddleware(testSecret, rdb), middleware.OwnerOnlyMiddleware(db))
	owner.GET("/rooms", api.OwnerRoomsHandler(db, rdb))
	owner.POST("/rooms", api.CreateRoomHandler(db, rdb, store))
	owner.GET("/rooms/:id", api.GetOwnedRoomHandler(db))
	owner.PUT("/rooms/:id", api.UpdateRoomHandler(db, rdb))
	owner.DELETE("/rooms/:id", api.DeleteRoomHandler(db, rdb))

	return &testEnv{db: db, rdb: rdb, store: store, router: r}
}

// seedProfile inserts a profile with a usable password and returns it
// with a signed session token
func (e *testEnv) seedProfile(t *testing.T, role string) (domain.Profile, string) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)
	p := domain.Profile{
		ID:           uuid.NewString(),
		FullName:     "Test " + role,
		Email:        fmt.Sprintf("%s@example.com", uuid.NewString()),
		Role:         role,
		PasswordHash: string(hash),
	}
	require.NoError(t, e.db.Create(&p).Error)
	token, err := utils.GenerateJWT(p.ID, testSecret)
	require.NoError(t, err)
	return p, token
}

// seedRoom inserts a listing with the given attributes, backdated by age
// so newest-first ordering is deterministic across seeds
func (e *testEnv) seedRoom(t *testing.T, ownerID, title, location string, price float64, propertyType, preference string, age time.Duration) domain.Room {
	t.Helper()
	room := domain.Room{
		ID:               uuid.NewString(),
		OwnerID:          ownerID,
		Title:            title,
		Description:      "seeded listing",
		Address:          "12 Test Street",
		Location:         location,
		Price:            price,
		PropertyType:     propertyType,
		TenantPreference: preference,
		ContactNumber:    "5550100",
		Images:           []string{},
		CreatedAt:        time.Now().Add(-age),
	}
	require.NoError(t, e.db.Create(&room).Error)
	return room
}

// doJSON issues a JSON request against the test router
func (e *testEnv) doJSON(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

// doMultipart issues a multipart form request carrying listing fields and
// image files keyed by filename
func (e *testEnv) doMultipart(t *testing.T, method, path, token string, fields map[string]string, files map[string][]byte) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	for name, data := range files {
		fw, err := mw.CreateFormFile("images", name)
		require.NoError(t, err)
		_, err = fw.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

// decode unmarshals a recorded JSON body into a generic map
func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

// roomCount counts the rows in the listing table
func (e *testEnv) roomCount(t *testing.T) int64 {
	t.Helper()
	var n int64
	require.NoError(t, e.db.Model(&domain.Room{}).Count(&n).Error)
	return n
}

// validForm returns a complete listing form field set
func validForm() map[string]string {
	return map[string]string{
		"title":             "Spacious 1BHK in Downtown",
		"description":       "Sunny corner room",
		"address":           "221B Baker Street",
		"location":          "Mumbai",
		"price":             "8500",
		"property_type":     domain.PropertyType1BHK,
		"tenant_preference": domain.PreferenceBachelor,
		"contact_number":    "5550101",
	}
}
