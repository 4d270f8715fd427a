package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"kota-backend/catalog"
	"kota-backend/identity"
	"kota-backend/models"
	"kota-backend/routes"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Setenv("JWT_SECRET", "test-secret-key-for-unit-tests")
	os.Exit(m.Run())
}

var testDBCounter int

// testEnv stands up the full router against an in-memory database and stub
// upstream servers so handler tests exercise the real wiring.
type testEnv struct {
	router   *gin.Engine
	catalog  *httptest.Server
	identity *httptest.Server
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	testDBCounter++
	dsn := fmt.Sprintf("file:handlers_test_%d?mode=memory&cache=shared", testDBCounter)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := db.AutoMigrate(&models.Slot{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	catalogSrv := httptest.NewServer(http.HandlerFunc(stubCatalog))
	t.Cleanup(catalogSrv.Close)

	identitySrv := httptest.NewServer(http.HandlerFunc(stubIdentity))
	t.Cleanup(identitySrv.Close)

	r := gin.New()
	routes.SetupRoutes(r, db,
		catalog.NewClient(catalogSrv.URL, ""),
		identity.NewClient(identitySrv.URL, "", ""))

	return &testEnv{router: r, catalog: catalogSrv, identity: identitySrv}
}

// stubCatalog serves a two-product catalog. Product 404 answers with an empty
// body the way the real upstream does for unknown ids.
func stubCatalog(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	switch r.URL.Path {
	case "/products":
		fmt.Fprint(w, `[{"id":7,"title":"Gold Chain","price":29.95,"category":"jewelery"},{"id":9,"title":"Hard Drive","price":64.00,"category":"electronics"}]`)
	case "/products/7":
		fmt.Fprint(w, `{"id":7,"title":"Gold Chain","price":29.95,"category":"jewelery"}`)
	case "/products/9":
		fmt.Fprint(w, `{"id":9,"title":"Hard Drive","price":64.00,"category":"electronics"}`)
	case "/products/categories":
		fmt.Fprint(w, `["electronics","jewelery"]`)
	default:
		// Unknown product: 200 with an empty body.
	}
}

func stubIdentity(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	switch r.URL.Path {
	case "/auth/login":
		var creds map[string]string
		json.NewDecoder(r.Body).Decode(&creds)
		if creds["username"] == "johnd" && creds["password"] == "m38rmF$" {
			fmt.Fprint(w, `{"token":"upstream-token"}`)
			return
		}
		w.WriteHeader(http.StatusUnauthorized)
	case "/users":
		fmt.Fprint(w, `[{"id":1,"username":"johnd","email":"john@gmail.com","name":{"firstname":"john","lastname":"doe"}}]`)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (e *testEnv) do(t *testing.T, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode request body: %v", err)
		}
	}

	req, _ := http.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

// login signs in as the demo user and returns the issued token.
func (e *testEnv) login(t *testing.T) string {
	t.Helper()

	w := e.do(t, "POST", "/api/auth/login", gin.H{"username": "johnd", "password": "m38rmF$"}, "")
	if w.Code != http.StatusOK {
		t.Fatalf("login failed with %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode login response: %v", err)
	}
	return resp.Token
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), out); err != nil {
		t.Fatalf("failed to decode response %q: %v", w.Body.String(), err)
	}
}
