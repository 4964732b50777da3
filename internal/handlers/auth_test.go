package handlers

import (
	"net/http"
	"strings"
	"testing"

	"github.com/otakulog/otakulog/internal/types"
)

func TestRegisterSetsCookieAndReturnsUser(t *testing.T) {
	env := setupTestEnv(t)

	w := env.do(http.MethodPost, "/api/auth/register",
		`{"username":"alice","email":" A@X.com ","password":"secret1","confirmPassword":"secret1"}`, nil)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	var resp types.AuthResponse
	decode(t, w, &resp)

	if resp.User.ID == 0 || resp.User.Username != "alice" || resp.User.Email != "a@x.com" {
		t.Errorf("user = %+v", resp.User)
	}
	if resp.Token == "" {
		t.Fatal("expected token in body")
	}

	cookie := sessionCookie(t, w)
	if cookie.Value != resp.Token {
		t.Error("cookie value should match returned token")
	}
	if !cookie.HttpOnly || cookie.SameSite != http.SameSiteStrictMode || cookie.MaxAge != 604800 || cookie.Path != "/" {
		t.Errorf("cookie attributes = %+v", cookie)
	}

	if id, ok := env.handler.tokens.Verify(resp.Token); !ok || id.ID != resp.User.ID {
		t.Errorf("token does not verify to the new user: %+v, %v", id, ok)
	}
}

func TestRegisterValidation(t *testing.T) {
	env := setupTestEnv(t)

	tests := []struct {
		name    string
		body    string
		status  int
		message string
		field   string
	}{
		{
			name:    "missing field",
			body:    `{"username":"alice","email":"a@x.com","password":"secret1"}`,
			status:  http.StatusBadRequest,
			message: "All fields are required",
		},
		{
			name:    "password mismatch",
			body:    `{"username":"alice","email":"a@x.com","password":"secret1","confirmPassword":"secret2"}`,
			status:  http.StatusBadRequest,
			message: "Passwords do not match",
			field:   "confirmPassword",
		},
		{
			name:    "short password",
			body:    `{"username":"alice","email":"a@x.com","password":"abc","confirmPassword":"abc"}`,
			status:  http.StatusBadRequest,
			message: "Password must be at least 6 characters long",
			field:   "password",
		},
		{
			name:    "short username",
			body:    `{"username":"al","email":"a@x.com","password":"secret1","confirmPassword":"secret1"}`,
			status:  http.StatusBadRequest,
			message: "Username must be at least 3 characters long",
			field:   "username",
		},
		{
			name:    "bad email",
			body:    `{"username":"alice","email":"not-an-email","password":"secret1","confirmPassword":"secret1"}`,
			status:  http.StatusBadRequest,
			message: "Please enter a valid email address",
			field:   "email",
		},
		{
			name:    "password over bcrypt limit",
			body:    `{"username":"alice","email":"a@x.com","password":"` + strings.Repeat("p", 73) + `","confirmPassword":"` + strings.Repeat("p", 73) + `"}`,
			status:  http.StatusBadRequest,
			message: "Password must be at most 72 bytes long",
			field:   "password",
		},
		{
			name:    "two character username",
			body:    `{"username":"éé","email":"a@x.com","password":"secret1","confirmPassword":"secret1"}`,
			status:  http.StatusBadRequest,
			message: "Username must be at least 3 characters long",
			field:   "username",
		},
		{
			name:    "malformed json",
			body:    `{"username":`,
			status:  http.StatusBadRequest,
			message: "Invalid request",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(http.MethodPost, "/api/auth/register", tt.body, nil)
			if w.Code != tt.status {
				t.Fatalf("status = %d, want %d (body %s)", w.Code, tt.status, w.Body.String())
			}

			var resp types.AuthError
			decode(t, w, &resp)
			if resp.Message != tt.message || resp.Field != tt.field {
				t.Errorf("error = %+v, want {%s %s}", resp, tt.message, tt.field)
			}
			if len(w.Result().Cookies()) != 0 {
				t.Error("failed registration must not set a cookie")
			}
		})
	}
}

func TestRegisterLongPasswordThenLogin(t *testing.T) {
	env := setupTestEnv(t)
	password := strings.Repeat("p", 72)

	w := env.do(http.MethodPost, "/api/auth/register",
		`{"username":"alice","email":"a@x.com","password":"`+password+`","confirmPassword":"`+password+`"}`, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("register status = %d, body %s", w.Code, w.Body.String())
	}

	w = env.do(http.MethodPost, "/api/auth/login", `{"email":"a@x.com","password":"`+password+`"}`, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("login status = %d, body %s", w.Code, w.Body.String())
	}
}

func TestRegisterMultibyteUsername(t *testing.T) {
	env := setupTestEnv(t)

	w := env.do(http.MethodPost, "/api/auth/register",
		`{"username":"ééé","email":"e@x.com","password":"secret1","confirmPassword":"secret1"}`, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
}

func TestRegisterConflicts(t *testing.T) {
	env := setupTestEnv(t)
	env.register(t, "alice")

	w := env.do(http.MethodPost, "/api/auth/register",
		`{"username":"alice2","email":"ALICE@x.com","password":"secret1","confirmPassword":"secret1"}`, nil)
	if w.Code != http.StatusConflict {
		t.Fatalf("email conflict status = %d", w.Code)
	}
	var resp types.AuthError
	decode(t, w, &resp)
	if resp.Message != "Email already registered" || resp.Field != "email" {
		t.Errorf("email conflict = %+v", resp)
	}

	w = env.do(http.MethodPost, "/api/auth/register",
		`{"username":"alice","email":"other@x.com","password":"secret1","confirmPassword":"secret1"}`, nil)
	if w.Code != http.StatusConflict {
		t.Fatalf("username conflict status = %d", w.Code)
	}
	decode(t, w, &resp)
	if resp.Message != "Username already taken" || resp.Field != "username" {
		t.Errorf("username conflict = %+v", resp)
	}
}

func TestLogin(t *testing.T) {
	env := setupTestEnv(t)
	env.register(t, "alice")

	tests := []struct {
		name    string
		body    string
		status  int
		message string
	}{
		{"missing password", `{"email":"alice@x.com"}`, http.StatusBadRequest, "Email and password are required"},
		{"unknown email", `{"email":"bob@x.com","password":"secret1"}`, http.StatusUnauthorized, "Invalid credentials"},
		{"wrong password", `{"email":"alice@x.com","password":"secret2"}`, http.StatusUnauthorized, "Invalid credentials"},
	}

	for _, tt := range tests {
		w := env.do(http.MethodPost, "/api/auth/login", tt.body, nil)
		if w.Code != tt.status {
			t.Errorf("%s: status = %d, want %d", tt.name, w.Code, tt.status)
			continue
		}
		var resp types.AuthError
		decode(t, w, &resp)
		if resp.Message != tt.message {
			t.Errorf("%s: message = %q, want %q", tt.name, resp.Message, tt.message)
		}
	}

	w := env.do(http.MethodPost, "/api/auth/login", `{"email":"Alice@X.com","password":"secret1"}`, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("login status = %d, body %s", w.Code, w.Body.String())
	}

	var resp types.AuthResponse
	decode(t, w, &resp)
	if resp.User.Username != "alice" || resp.Token == "" {
		t.Errorf("login response = %+v", resp)
	}
	if id, ok := env.handler.tokens.Verify(sessionCookie(t, w).Value); !ok || id.Username != "alice" {
		t.Errorf("login cookie does not verify: %+v, %v", id, ok)
	}
}

func TestLogoutClearsCookie(t *testing.T) {
	env := setupTestEnv(t)
	cookie := env.register(t, "alice")

	w := env.do(http.MethodPost, "/api/auth/logout", "", cookie)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	cleared := sessionCookie(t, w)
	if cleared.Value != "" || cleared.MaxAge >= 0 {
		t.Errorf("cookie not cleared: %+v", cleared)
	}
}

func TestCurrentUser(t *testing.T) {
	env := setupTestEnv(t)

	w := env.do(http.MethodGet, "/api/auth/user", "", nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous status = %d", w.Code)
	}
	var authErr types.AuthError
	decode(t, w, &authErr)
	if authErr.Message != "Not authenticated" {
		t.Errorf("message = %q", authErr.Message)
	}

	cookie := env.register(t, "alice")

	w = env.do(http.MethodGet, "/api/auth/user", "", cookie)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var user types.UserResponse
	decode(t, w, &user)
	if user.Username != "alice" || user.Email != "alice@x.com" || user.CreatedAt.IsZero() {
		t.Errorf("user = %+v", user)
	}
	if strings.Contains(strings.ToLower(w.Body.String()), "password") {
		t.Errorf("password material leaked: %s", w.Body.String())
	}
}

func TestCurrentUserDeleted(t *testing.T) {
	env := setupTestEnv(t)
	cookie := env.register(t, "alice")

	if err := env.handler.db.Exec("DELETE FROM users").Error; err != nil {
		t.Fatalf("delete users: %v", err)
	}

	w := env.do(http.MethodGet, "/api/auth/user", "", cookie)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
}
