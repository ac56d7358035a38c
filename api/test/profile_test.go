package test

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"strings"
	"testing"
)

func multipartForm(t *testing.T, fields map[string]string, fileName, contentType string, content []byte) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatal(err)
		}
	}

	if fileName != "" {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="avatar"; filename="`+fileName+`"`)
		h.Set("Content-Type", contentType)
		part, err := mw.CreatePart(h)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := part.Write(content); err != nil {
			t.Fatal(err)
		}
	}

	if err := mw.Close(); err != nil {
		t.Fatal(err)
	}
	return &buf, mw.FormDataContentType()
}

func TestProfile(t *testing.T) {
	env, err := NewTestEnv(t, "profile_test")
	if err != nil {
		t.Fatalf("initializing test env: %v", err)
	}

	c := env.NewClient(t)
	c.Register(t, "profile@example.com", "profile1", "Profile")

	png := []byte("\x89PNG\r\n\x1a\nnot really an image")
	body, ct := multipartForm(t, map[string]string{
		"name":  "Renamed",
		"_csrf": c.Token(t),
	}, "me.png", "image/png", png)

	resp, err := c.Client.Post(env.URL+"/profile", ct, body)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusSeeOther || location(resp) != "/profile" {
		t.Fatalf("updating profile: status %s location %q", resp.Status, location(resp))
	}

	u, err := env.Users.FetchByEmail(context.Background(), "profile@example.com")
	if err != nil {
		t.Fatal(err)
	}
	if u.Name != "Renamed" {
		t.Fatalf("name: got %q, want Renamed", u.Name)
	}
	if !strings.HasPrefix(u.AvatarURL, "/images/") || !strings.HasSuffix(u.AvatarURL, ".png") {
		t.Fatalf("avatar url: got %q", u.AvatarURL)
	}

	resp, err = c.Get(env.URL + u.AvatarURL)
	if err != nil {
		t.Fatal(err)
	}
	got, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, png) {
		t.Fatal("served avatar differs from the upload")
	}

	avatar := u.AvatarURL
	body, ct = multipartForm(t, map[string]string{
		"name":  "Renamed again",
		"_csrf": c.Token(t),
	}, "notes.txt", "text/plain", []byte("hello"))

	resp, err = c.Client.Post(env.URL+"/profile", ct, body)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("profile with a text file: status %s", resp.Status)
	}

	u, err = env.Users.FetchByEmail(context.Background(), "profile@example.com")
	if err != nil {
		t.Fatal(err)
	}
	if u.Name != "Renamed again" || u.AvatarURL != avatar {
		t.Fatalf("text upload: name %q avatar %q", u.Name, u.AvatarURL)
	}

	body, ct = multipartForm(t, map[string]string{
		"name":  "No",
		"_csrf": c.Token(t),
	}, "me.png", "image/png", png)

	resp, err = c.Client.Post(env.URL+"/profile", ct, body)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("short name: got status %s, want 422", resp.Status)
	}
	uploadsLeft(t, env, 1)

	body, ct = multipartForm(t, map[string]string{
		"name":  "Forged",
		"_csrf": "forged",
	}, "me.png", "image/png", png)

	resp, err = c.Client.Post(env.URL+"/profile", ct, body)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("forged token: got status %s, want 403", resp.Status)
	}
	uploadsLeft(t, env, 1)

	anon := env.NewClient(t)
	body, ct = multipartForm(t, map[string]string{
		"name":  "Anonymous",
		"_csrf": anon.Token(t),
	}, "me.png", "image/png", png)

	resp, err = anon.Client.Post(env.URL+"/profile", ct, body)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusFound {
		t.Fatalf("anonymous upload: got status %s, want 302", resp.Status)
	}
	uploadsLeft(t, env, 1)
}

func uploadsLeft(t *testing.T, env *TestEnv, exp int) {
	t.Helper()

	entries, err := os.ReadDir(env.Uploads)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != exp {
		t.Fatalf("got %d stored uploads, want %d", len(entries), exp)
	}
}
