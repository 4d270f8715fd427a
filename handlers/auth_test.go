package handlers_test

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestLoginSuccess(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, "POST", "/api/auth/login", gin.H{"username": "johnd", "password": "m38rmF$"}, "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Token string `json:"token"`
		User  struct {
			ID       int    `json:"id"`
			Username string `json:"username"`
			Name     string `json:"name"`
		} `json:"user"`
	}
	decodeBody(t, w, &resp)
	if resp.Token == "" {
		t.Error("expected a session token")
	}
	if resp.User.Username != "johnd" || resp.User.Name != "john doe" {
		t.Errorf("unexpected user payload: %+v", resp.User)
	}
}

func TestLoginInvalidCredentials(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, "POST", "/api/auth/login", gin.H{"username": "johnd", "password": "wrong"}, "")
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d: %s", w.Code, w.Body.String())
	}
}

func TestLoginMissingFields(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, "POST", "/api/auth/login", gin.H{"username": "johnd"}, "")
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
}

func TestProfileRequiresToken(t *testing.T) {
	env := newTestEnv(t)
	env.login(t)

	w := env.do(t, "GET", "/api/auth/profile", nil, "")
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 without a token, got %d", w.Code)
	}
}

func TestProfileWithToken(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t)

	w := env.do(t, "GET", "/api/auth/profile", nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Username string `json:"username"`
		Email    string `json:"email"`
	}
	decodeBody(t, w, &resp)
	if resp.Username != "johnd" || resp.Email != "john@gmail.com" {
		t.Errorf("unexpected profile: %+v", resp)
	}
}

func TestLogoutKeepsCart(t *testing.T) {
	env := newTestEnv(t)
	env.login(t)
	env.do(t, "POST", "/api/cart", gin.H{"product_id": 7, "quantity": 2}, "")

	w := env.do(t, "POST", "/api/auth/logout", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	w = env.do(t, "GET", "/api/cart", nil, "")
	var view struct {
		ItemCount int `json:"item_count"`
	}
	decodeBody(t, w, &view)
	if view.ItemCount != 2 {
		t.Errorf("expected the cart to survive logout, got %d items", view.ItemCount)
	}
}
