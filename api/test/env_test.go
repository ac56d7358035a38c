package test

import (
	"fmt"
	"html"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/alexedwards/scs/v2/memstore"
	"github.com/irsalhamdi/course-shop/api"
	"github.com/irsalhamdi/course-shop/api/middleware"
	"github.com/irsalhamdi/course-shop/api/view"
	"github.com/irsalhamdi/course-shop/assets"
	"github.com/irsalhamdi/course-shop/core/course"
	"github.com/irsalhamdi/course-shop/core/order"
	"github.com/irsalhamdi/course-shop/core/user"
	"github.com/irsalhamdi/course-shop/rate"
	"github.com/irsalhamdi/course-shop/upload"
	"github.com/sirupsen/logrus"
)

type TestEnv struct {
	*httptest.Server
	Users   *user.MemStore
	Courses *course.MemStore
	Orders  order.Store
	Metrics *middleware.Metrics
	Uploads string
}

type envOpts struct {
	orders order.Store
	burst  int
}

type EnvOpt func(*envOpts)

// WithOrders replaces the order store of the environment.
func WithOrders(s order.Store) EnvOpt {
	return func(o *envOpts) { o.orders = s }
}

// WithLoginBurst sets how many login attempts a client gets.
func WithLoginBurst(n int) EnvOpt {
	return func(o *envOpts) { o.burst = n }
}

func NewTestEnv(t *testing.T, name string, opts ...EnvOpt) (*TestEnv, error) {
	t.Helper()

	o := envOpts{orders: order.NewMemStore(), burst: 100}
	for _, opt := range opts {
		opt(&o)
	}

	log := logrus.New()
	log.SetOutput(io.Discard)

	v, err := view.New(assets.Views())
	if err != nil {
		return nil, fmt.Errorf("parsing views: %w", err)
	}

	dir := t.TempDir()
	disk, err := upload.NewDisk(dir, "/images")
	if err != nil {
		return nil, err
	}

	sm := scs.New()
	sm.Store = memstore.New()
	sm.Lifetime = time.Hour

	limiter := rate.NewLimiter(o.burst, time.Hour, rate.Every(time.Hour))
	t.Cleanup(limiter.Stop)

	env := TestEnv{
		Users:   user.NewMemStore(),
		Courses: course.NewMemStore(),
		Orders:  o.orders,
		Metrics: middleware.NewMetrics(),
		Uploads: dir,
	}

	mux := api.APIMux(api.APIConfig{
		Log:            log,
		Users:          env.Users,
		Courses:        env.Courses,
		Orders:         env.Orders,
		Session:        sm,
		View:           v,
		Public:         assets.Public(),
		Uploads:        disk,
		UploadMaxBytes: 1 << 20,
		UploadDir:      dir,
		CSRFKey:        middleware.CSRFKey(name),
		Limiter:        limiter,
		Metrics:        env.Metrics,
	})

	env.Server = httptest.NewServer(mux)
	t.Cleanup(env.Server.Close)

	return &env, nil
}

// Client is a browser: it keeps cookies and does not follow redirects.
type Client struct {
	*http.Client
	base string
}

func (env *TestEnv) NewClient(t *testing.T) *Client {
	t.Helper()

	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatal(err)
	}

	return &Client{
		Client: &http.Client{
			Jar: jar,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		base: env.URL,
	}
}

var csrfRe = regexp.MustCompile(`name="_csrf" value="([^"]+)"`)

// Page fetches path and returns the status, the body and the CSRF token of
// the first form on it.
func (c *Client) Page(t *testing.T, path string) (int, string, string) {
	t.Helper()

	resp, err := c.Get(c.base + path)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}

	body := string(b)
	var token string
	if m := csrfRe.FindStringSubmatch(body); m != nil {
		token = html.UnescapeString(m[1])
	}
	return resp.StatusCode, body, token
}

// Token loads a page of the site to obtain a CSRF token.
func (c *Client) Token(t *testing.T) string {
	t.Helper()

	_, _, token := c.Page(t, "/auth/login")
	if token == "" {
		t.Fatal("no csrf token on the login page")
	}
	return token
}

// Post submits form with a fresh CSRF token and returns the response with
// its body read.
func (c *Client) Post(t *testing.T, path string, form url.Values) (*http.Response, string) {
	t.Helper()

	if form == nil {
		form = url.Values{}
	}
	form.Set("_csrf", c.Token(t))

	return c.PostRaw(t, path, form)
}

// PostRaw submits form as is.
func (c *Client) PostRaw(t *testing.T, path string, form url.Values) (*http.Response, string) {
	t.Helper()

	resp, err := c.Client.Post(c.base+path, "application/x-www-form-urlencoded", strings.NewReader(form.Encode()))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	return resp, string(b)
}

// Do sends r after attaching a CSRF token header.
func (c *Client) Do(t *testing.T, r *http.Request) (*http.Response, string) {
	t.Helper()

	r.Header.Set(middleware.CSRFHeader, c.Token(t))

	resp, err := c.Client.Do(r)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	return resp, string(b)
}

func (c *Client) Register(t *testing.T, email, pass, name string) {
	t.Helper()

	resp, body := c.Post(t, "/auth/register", url.Values{
		"email":    {email},
		"password": {pass},
		"confirm":  {pass},
		"name":     {name},
	})
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("registering %s: status code %s: %s", email, resp.Status, body)
	}
}

func (c *Client) Login(t *testing.T, email, pass string) *http.Response {
	t.Helper()

	resp, _ := c.Post(t, "/auth/login", url.Values{
		"email":    {email},
		"password": {pass},
	})
	return resp
}

func (c *Client) Logout(t *testing.T) {
	t.Helper()

	resp, err := c.Get(c.base + "/auth/logout")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
}

func location(resp *http.Response) string {
	return resp.Header.Get("Location")
}
