package test

import (
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/irsalhamdi/course-shop/validate"
)

func TestRegister(t *testing.T) {
	env, err := NewTestEnv(t, "register_test")
	if err != nil {
		t.Fatalf("initializing test env: %v", err)
	}

	c := env.NewClient(t)
	form := url.Values{
		"email":    {"a@b.com"},
		"password": {"abc123"},
		"confirm":  {"abc123"},
		"name":     {"Abe"},
	}

	resp, body := c.Post(t, "/auth/register", form)
	if resp.StatusCode != http.StatusSeeOther || location(resp) != "/" {
		t.Fatalf("first registration: status %s location %q: %s", resp.Status, location(resp), body)
	}

	if n := env.Users.Len(); n != 1 {
		t.Fatalf("users after registration: got %d, want 1", n)
	}

	_, body, _ = c.Page(t, "/")
	if !strings.Contains(body, "Log out") {
		t.Fatal("registration did not log the user in")
	}

	resp, body = c.Post(t, "/auth/register", form)
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("second registration: got status %s, want 422", resp.Status)
	}
	if !strings.Contains(body, validate.Message("email.taken")) {
		t.Fatalf("second registration does not report the taken email: %s", body)
	}

	if n := env.Users.Len(); n != 1 {
		t.Fatalf("users after second registration: got %d, want 1", n)
	}
}

func TestRegisterNormalizedEmailIsTaken(t *testing.T) {
	env, err := NewTestEnv(t, "register_normalized_test")
	if err != nil {
		t.Fatalf("initializing test env: %v", err)
	}

	c := env.NewClient(t)
	c.Register(t, "john.doe@gmail.com", "abc123", "John")

	resp, body := c.Post(t, "/auth/register", url.Values{
		"email":    {"JohnDoe+shop@googlemail.com"},
		"password": {"abc123"},
		"confirm":  {"abc123"},
		"name":     {"John"},
	})
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("got status %s, want 422: %s", resp.Status, body)
	}

	if n := env.Users.Len(); n != 1 {
		t.Fatalf("got %d users, want 1", n)
	}
}

func TestRegisterRejections(t *testing.T) {
	env, err := NewTestEnv(t, "register_rejections_test")
	if err != nil {
		t.Fatalf("initializing test env: %v", err)
	}

	tests := []struct {
		name    string
		form    url.Values
		message string
	}{
		{
			name: "confirm mismatch",
			form: url.Values{
				"email": {"e@example.com"}, "password": {"abc123"}, "confirm": {"abc124"}, "name": {"Eve"},
			},
			message: "Passwords must match",
		},
		{
			name: "invalid email",
			form: url.Values{
				"email": {"not-an-email"}, "password": {"abc123"}, "confirm": {"abc123"}, "name": {"Eve"},
			},
			message: validate.Message("email"),
		},
		{
			name: "short password",
			form: url.Values{
				"email": {"e@example.com"}, "password": {"abc"}, "confirm": {"abc"}, "name": {"Eve"},
			},
			message: validate.Message("password"),
		},
		{
			name: "password not alphanumeric",
			form: url.Values{
				"email": {"e@example.com"}, "password": {"abc 12!"}, "confirm": {"abc 12!"}, "name": {"Eve"},
			},
			message: validate.Message("password"),
		},
		{
			name: "short name",
			form: url.Values{
				"email": {"e@example.com"}, "password": {"abc123"}, "confirm": {"abc123"}, "name": {"Ev"},
			},
			message: validate.Message("name"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := env.NewClient(t)

			resp, body := c.Post(t, "/auth/register", tt.form)
			if resp.StatusCode != http.StatusUnprocessableEntity {
				t.Fatalf("got status %s, want 422", resp.Status)
			}
			if !strings.Contains(body, tt.message) {
				t.Fatalf("page does not show %q", tt.message)
			}
			if strings.Contains(body, `value="`+tt.form.Get("password")+`"`) {
				t.Fatal("password echoed back into the form")
			}
		})
	}

	if n := env.Users.Len(); n != 0 {
		t.Fatalf("got %d users, want 0", n)
	}
}

func TestLogin(t *testing.T) {
	env, err := NewTestEnv(t, "login_test")
	if err != nil {
		t.Fatalf("initializing test env: %v", err)
	}

	c := env.NewClient(t)
	c.Register(t, "login@example.com", "secret1", "Login")
	c.Logout(t)

	resp := c.Login(t, "login@example.com", "wrong12")
	if resp.StatusCode != http.StatusSeeOther || location(resp) != "/auth/login#login" {
		t.Fatalf("wrong password: status %s location %q", resp.Status, location(resp))
	}

	_, body, _ := c.Page(t, "/auth/login")
	if !strings.Contains(body, validate.Message("login.invalid")) {
		t.Fatal("login error not flashed")
	}

	_, body, _ = c.Page(t, "/auth/login")
	if strings.Contains(body, validate.Message("login.invalid")) {
		t.Fatal("flash shown twice")
	}

	resp = c.Login(t, "nobody@example.com", "secret1")
	if location(resp) != "/auth/login#login" {
		t.Fatalf("unknown email: location %q", location(resp))
	}

	resp = c.Login(t, "LOGIN@example.com", "secret1")
	if resp.StatusCode != http.StatusSeeOther || location(resp) != "/" {
		t.Fatalf("login: status %s location %q", resp.Status, location(resp))
	}

	st, _, _ := c.Page(t, "/profile")
	if st != http.StatusOK {
		t.Fatalf("profile after login: got status %d", st)
	}

	c.Logout(t)

	resp, err = c.Get(env.URL + "/profile")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if location(resp) != "/auth/login#login" {
		t.Fatalf("profile after logout: location %q", location(resp))
	}
}

func TestLoginThrottle(t *testing.T) {
	env, err := NewTestEnv(t, "login_throttle_test", WithLoginBurst(2))
	if err != nil {
		t.Fatalf("initializing test env: %v", err)
	}

	c := env.NewClient(t)
	for i := 0; i < 2; i++ {
		c.Login(t, "x@example.com", "nopass1")
		c.Page(t, "/auth/login")
	}

	c.Login(t, "x@example.com", "nopass1")
	_, body, _ := c.Page(t, "/auth/login")
	if !strings.Contains(body, validate.Message("login.throttle")) {
		t.Fatal("third attempt was not throttled")
	}
}

func TestAuthenticationGate(t *testing.T) {
	env, err := NewTestEnv(t, "gate_test")
	if err != nil {
		t.Fatalf("initializing test env: %v", err)
	}

	c := env.NewClient(t)
	for _, path := range []string{"/card", "/orders", "/add", "/profile"} {
		resp, err := c.Get(env.URL + path)
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()

		if resp.StatusCode != http.StatusFound || location(resp) != "/auth/login#login" {
			t.Errorf("%s: status %s location %q", path, resp.Status, location(resp))
		}
	}
}

func TestCSRFRejected(t *testing.T) {
	env, err := NewTestEnv(t, "csrf_test")
	if err != nil {
		t.Fatalf("initializing test env: %v", err)
	}

	c := env.NewClient(t)
	c.Token(t)

	resp, body := c.PostRaw(t, "/auth/register", url.Values{
		"email":    {"csrf@example.com"},
		"password": {"abc123"},
		"confirm":  {"abc123"},
		"name":     {"Csrf"},
	})
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("got status %s, want 403", resp.Status)
	}
	if strings.Contains(body, "CSRF") {
		t.Fatal("error page leaks the failure reason")
	}

	if n := env.Users.Len(); n != 0 {
		t.Fatalf("got %d users, want 0", n)
	}
}
