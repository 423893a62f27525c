package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Power-Sh3ll/CIS440-Spectra/db"
	"github.com/Power-Sh3ll/CIS440-Spectra/models"
	"github.com/Power-Sh3ll/CIS440-Spectra/routes"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

// setupRouter wires the full route table against a fresh in-memory database
// named after the test, so cases don't bleed into each other.
func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatalf("unwrap test db: %v", err)
	}
	// A single connection keeps the shared in-memory database alive.
	sqlDB.SetMaxOpenConns(1)

	if err := gdb.AutoMigrate(
		&models.User{},
		&models.Friendship{},
		&models.DailyActivity{},
		&models.DailyCarbon{},
		&models.Badge{},
		&models.UserBadge{},
		&models.UserSettings{},
	); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}

	db.DB = gdb
	if err := db.SeedBadges(); err != nil {
		t.Fatalf("seed badges: %v", err)
	}

	r := gin.New()
	routes.Register(r)
	return r
}

func doRequest(t *testing.T, r *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var out map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
	return out
}

func createAccount(t *testing.T, r *gin.Engine, email, first, last string) {
	t.Helper()

	w := doRequest(t, r, http.MethodPost, "/api/create-account", "", gin.H{
		"email":       email,
		"password":    "hunter22",
		"firstName":   first,
		"lastName":    last,
		"dateOfBirth": "1990-06-15",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create account %s: status %d, body %s", email, w.Code, w.Body.String())
	}
}

func login(t *testing.T, r *gin.Engine, email string) string {
	t.Helper()

	w := doRequest(t, r, http.MethodPost, "/api/login", "", gin.H{
		"email":    email,
		"password": "hunter22",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("login %s: status %d, body %s", email, w.Code, w.Body.String())
	}

	token, ok := decodeBody(t, w)["token"].(string)
	if !ok || token == "" {
		t.Fatalf("login %s: no token in response", email)
	}
	return token
}

func signup(t *testing.T, r *gin.Engine, email, first, last string) string {
	t.Helper()
	createAccount(t, r, email, first, last)
	return login(t, r, email)
}

// befriend runs the full request/accept handshake between two users.
func befriend(t *testing.T, r *gin.Engine, tokenA, emailA, tokenB, emailB string) {
	t.Helper()

	w := doRequest(t, r, http.MethodPost, "/api/friends/request", tokenA, gin.H{"friendEmail": emailB})
	if w.Code != http.StatusCreated {
		t.Fatalf("friend request %s -> %s: status %d", emailA, emailB, w.Code)
	}

	w = doRequest(t, r, http.MethodPost, "/api/friends/accept", tokenB, gin.H{"requesterEmail": emailA})
	if w.Code != http.StatusOK {
		t.Fatalf("friend accept %s -> %s: status %d", emailB, emailA, w.Code)
	}
}

func earnedBadgeCodes(t *testing.T, r *gin.Engine, token string) map[string]bool {
	t.Helper()

	w := doRequest(t, r, http.MethodGet, "/api/user/badges", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list badges: status %d", w.Code)
	}

	var body struct {
		Earned []struct {
			Code string `json:"code"`
		} `json:"earned"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode badges: %v", err)
	}

	codes := make(map[string]bool, len(body.Earned))
	for _, b := range body.Earned {
		codes[b.Code] = true
	}
	return codes
}
