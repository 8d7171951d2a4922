package router

import (
	"errors"
	"html"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	httpContext "github.com/dtroode/filecms/internal/api/http/context"
	"github.com/dtroode/filecms/internal/api/http/handler"
	"github.com/dtroode/filecms/internal/api/http/views"
	"github.com/dtroode/filecms/internal/credentials"
	"github.com/dtroode/filecms/internal/markdown"
	"github.com/dtroode/filecms/internal/mocks"
	"github.com/dtroode/filecms/internal/model"
	"github.com/dtroode/filecms/internal/service"
	"github.com/dtroode/filecms/internal/session"
	"github.com/dtroode/filecms/internal/storage/fs"
	"github.com/dtroode/filecms/internal/testutil"
	"github.com/dtroode/filecms/internal/token"
)

const cookieName = "cms_session"

type testApp struct {
	t       *testing.T
	app     *fiber.App
	dataDir string
	cookie  string
}

type response struct {
	status      int
	contentType string
	location    string
	body        string
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	return newTestAppWithStore(t, session.NewMemoryStore())
}

func newTestAppWithStore(t *testing.T, sessionStore model.SessionStore) *testApp {
	t.Helper()
	log := testutil.MakeNoopLogger()

	dir := t.TempDir()
	dataDir := filepath.Join(dir, "data")
	store, err := fs.NewStore(dataDir)
	require.NoError(t, err)

	hasher := credentials.BcryptVerifier{Cost: bcrypt.MinCost}
	hash, err := hasher.Hash("secret")
	require.NoError(t, err)
	usersFile := filepath.Join(dir, "users.yml")
	require.NoError(t, credentials.SetUser(usersFile, "admin", hash))
	creds, err := credentials.NewStore(usersFile, hasher, log)
	require.NoError(t, err)

	documents := service.NewDocument(store, markdown.NewGoldmarkRenderer(markdown.Options{}), log)
	auth := service.NewAuth(creds, log)
	sessions := session.NewManager(sessionStore, token.NewJWT("test-secret"), time.Hour, log)

	r := New(documents, auth, sessions, httpContext.NewManager(), views.NewEngine(), views.Layout,
		Config{CookieName: cookieName}, log)

	return &testApp{t: t, app: r.Register(), dataDir: dataDir}
}

func (a *testApp) createDocument(name, content string) {
	a.t.Helper()
	require.NoError(a.t, os.WriteFile(filepath.Join(a.dataDir, name), []byte(content), 0o644))
}

func (a *testApp) documentContent(name string) (string, bool) {
	data, err := os.ReadFile(filepath.Join(a.dataDir, name))
	if err != nil {
		return "", false
	}
	return string(data), true
}

func (a *testApp) do(method, target string, form url.Values) response {
	a.t.Helper()

	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, target, body)
	if form != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationForm)
	}
	if a.cookie != "" {
		req.AddCookie(&http.Cookie{Name: cookieName, Value: a.cookie})
	}

	resp, err := a.app.Test(req, -1)
	require.NoError(a.t, err)
	defer resp.Body.Close()

	for _, c := range resp.Cookies() {
		if c.Name == cookieName {
			a.cookie = c.Value
		}
	}

	data, err := io.ReadAll(resp.Body)
	require.NoError(a.t, err)

	return response{
		status:      resp.StatusCode,
		contentType: resp.Header.Get(fiber.HeaderContentType),
		location:    resp.Header.Get(fiber.HeaderLocation),
		body:        string(data),
	}
}

func (a *testApp) get(target string) response {
	return a.do(http.MethodGet, target, nil)
}

func (a *testApp) post(target string, form url.Values) response {
	if form == nil {
		form = url.Values{}
	}
	return a.do(http.MethodPost, target, form)
}

// follow asserts a redirect home and loads the target.
func (a *testApp) follow(resp response) response {
	a.t.Helper()
	require.Equal(a.t, fiber.StatusFound, resp.status)
	require.Equal(a.t, "/", resp.location)
	return a.get(resp.location)
}

func (a *testApp) signIn() {
	a.t.Helper()
	resp := a.post("/users/signin", url.Values{"username": {"admin"}, "password": {"secret"}})
	require.Equal(a.t, fiber.StatusFound, resp.status)
	a.get("/")
}

func TestIndex_ListsDocuments(t *testing.T) {
	a := newTestApp(t)
	a.createDocument("changes.txt", "")
	a.createDocument("about.md", "")

	resp := a.get("/")
	assert.Equal(t, fiber.StatusOK, resp.status)
	assert.True(t, strings.HasPrefix(resp.contentType, "text/html"))
	assert.Contains(t, resp.body, "about.md")
	assert.Contains(t, resp.body, "changes.txt")
	assert.Contains(t, resp.body, "delete")
	assert.Contains(t, resp.body, "<a href")
}

func TestShow_Text(t *testing.T) {
	a := newTestApp(t)
	a.createDocument("changes.txt", "Duis")

	resp := a.get("/changes.txt")
	assert.Equal(t, fiber.StatusOK, resp.status)
	assert.True(t, strings.HasPrefix(resp.contentType, "text/plain"))
	assert.Equal(t, "Duis", resp.body)
}

func TestShow_Markdown(t *testing.T) {
	a := newTestApp(t)
	a.createDocument("about.md", "# Dummy")

	resp := a.get("/about.md")
	assert.Equal(t, fiber.StatusOK, resp.status)
	assert.True(t, strings.HasPrefix(resp.contentType, "text/html"))
	assert.Contains(t, resp.body, "<h1>Dummy")
}

func TestShow_NotFound(t *testing.T) {
	a := newTestApp(t)

	resp := a.get("/not_found.txt")
	page := a.follow(resp)
	assert.Equal(t, fiber.StatusOK, page.status)
	assert.Contains(t, page.body, handler.MessageNotFound)
}

func TestUnknownRoute_NotFound(t *testing.T) {
	a := newTestApp(t)

	page := a.follow(a.get("/a/b/c"))
	assert.Contains(t, page.body, handler.MessageNotFound)
}

func TestEdit_Form(t *testing.T) {
	a := newTestApp(t)
	a.createDocument("changes.txt", "Duis")
	a.signIn()

	resp := a.get("/changes.txt/edit")
	assert.Equal(t, fiber.StatusOK, resp.status)
	assert.True(t, strings.HasPrefix(resp.contentType, "text/html"))
	assert.Contains(t, resp.body, "<form")
	assert.Contains(t, resp.body, "<button type='submit'")
	assert.Contains(t, resp.body, "Duis")
}

func TestEdit_Save_FlashIsOneShot(t *testing.T) {
	a := newTestApp(t)
	a.createDocument("changes.txt", "Duis")
	a.signIn()

	page := a.follow(a.post("/changes.txt/edit", url.Values{"file_contents": {"new content"}}))
	assert.True(t, strings.HasPrefix(page.contentType, "text/html"))
	assert.Contains(t, page.body, "changes.txt has been updated.")

	again := a.get("/")
	assert.Equal(t, fiber.StatusOK, again.status)
	assert.NotContains(t, again.body, "changes.txt has been updated.")

	doc := a.get("/changes.txt")
	assert.True(t, strings.HasPrefix(doc.contentType, "text/plain"))
	assert.Equal(t, "new content", doc.body)
}

func TestEdit_Save_MissingDocument(t *testing.T) {
	a := newTestApp(t)
	a.signIn()

	page := a.follow(a.post("/ghost.txt/edit", url.Values{"file_contents": {"boo"}}))
	assert.Contains(t, page.body, handler.MessageNotFound)
	_, exists := a.documentContent("ghost.txt")
	assert.False(t, exists)
}

func TestNew_Form(t *testing.T) {
	a := newTestApp(t)
	a.signIn()

	resp := a.get("/document/new")
	assert.Equal(t, fiber.StatusOK, resp.status)
	assert.Contains(t, resp.body, "<form")
	assert.Contains(t, resp.body, "<button type='submit'")
	assert.Contains(t, resp.body, "Add a new document:")
}

func TestCreate(t *testing.T) {
	a := newTestApp(t)
	a.signIn()

	page := a.follow(a.post("/document/new", url.Values{"filename": {"New Document.txt"}}))
	assert.Contains(t, page.body, "New Document.txt has been created.")

	index := a.get("/")
	assert.Contains(t, index.body, "New Document.txt")
	_, exists := a.documentContent("New Document.txt")
	assert.True(t, exists)

	doc := a.get("/New%20Document.txt")
	assert.Equal(t, fiber.StatusOK, doc.status)
	assert.Equal(t, "", doc.body)
}

func TestCreate_Invalid(t *testing.T) {
	for _, name := range []string{"", "New Document", "mytxtfile", "file.txtx", "../escape.txt", ".notes.txt", "a#b.txt", "what?.txt"} {
		t.Run(name, func(t *testing.T) {
			a := newTestApp(t)
			a.signIn()

			page := a.follow(a.post("/document/new", url.Values{"filename": {name}}))
			assert.Contains(t, page.body, handler.MessageInvalidName)

			entries, err := os.ReadDir(a.dataDir)
			require.NoError(t, err)
			assert.Empty(t, entries)
		})
	}
}

func TestCreate_Duplicate(t *testing.T) {
	a := newTestApp(t)
	a.createDocument("changes.txt", "Duis")
	a.signIn()

	page := a.follow(a.post("/document/new", url.Values{"filename": {"changes.txt"}}))
	assert.Contains(t, page.body, "changes.txt already exists.")

	content, _ := a.documentContent("changes.txt")
	assert.Equal(t, "Duis", content)
}

func TestDelete(t *testing.T) {
	a := newTestApp(t)
	a.createDocument("changes.txt", "Duis")
	a.signIn()

	page := a.follow(a.post("/changes.txt/delete", nil))
	assert.Contains(t, page.body, "changes.txt has been deleted.")

	index := a.get("/")
	assert.NotContains(t, index.body, "changes.txt")
}

func TestSignIn(t *testing.T) {
	a := newTestApp(t)

	page := a.follow(a.post("/users/signin", url.Values{"username": {"admin"}, "password": {"secret"}}))
	assert.Contains(t, page.body, "admin is now logged in.")
	assert.Contains(t, page.body, "Sign out")
	assert.NotContains(t, page.body, "Sign in")

	form := a.get("/document/new")
	assert.Equal(t, fiber.StatusOK, form.status)
}

func TestSignIn_Form(t *testing.T) {
	a := newTestApp(t)

	index := a.get("/")
	assert.Equal(t, fiber.StatusOK, index.status)
	assert.Contains(t, index.body, "<button type='submit'")
	assert.Contains(t, index.body, "Sign in")

	form := a.get("/users/signin")
	assert.Contains(t, form.body, "<label for='username'")
	assert.Contains(t, form.body, "<label for='password'")
	assert.Contains(t, form.body, "Sign in")
}

func TestSignIn_Invalid(t *testing.T) {
	tests := []struct {
		name     string
		username string
		password string
	}{
		{name: "wrong password", username: "admin", password: "1"},
		{name: "unknown user", username: "ghost", password: "secret"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newTestApp(t)

			resp := a.post("/users/signin", url.Values{"username": {tt.username}, "password": {tt.password}})
			assert.Equal(t, fiber.StatusOK, resp.status)
			assert.Contains(t, resp.body, handler.MessageInvalidCredentials)
			assert.Contains(t, resp.body, "value='"+tt.username+"'")

			gated := a.get("/document/new")
			assert.Equal(t, fiber.StatusFound, gated.status)
		})
	}
}

func TestSignOut(t *testing.T) {
	a := newTestApp(t)
	a.signIn()

	page := a.follow(a.post("/users/signout", nil))
	assert.Contains(t, page.body, "You have been signed out.")
	assert.Contains(t, page.body, "Sign in")

	gated := a.follow(a.get("/document/new"))
	assert.Contains(t, gated.body, handler.MessageAuthRequired)
}

func TestGatedRoutes_SignedOut(t *testing.T) {
	tests := []struct {
		name   string
		method string
		target string
		form   url.Values
	}{
		{name: "new form", method: http.MethodGet, target: "/document/new"},
		{name: "create", method: http.MethodPost, target: "/document/new", form: url.Values{"filename": {"x.txt"}}},
		{name: "edit form", method: http.MethodGet, target: "/changes.txt/edit"},
		{name: "save", method: http.MethodPost, target: "/changes.txt/edit", form: url.Values{"file_contents": {"hacked"}}},
		{name: "delete", method: http.MethodPost, target: "/changes.txt/delete", form: url.Values{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newTestApp(t)
			a.createDocument("changes.txt", "Duis")

			page := a.follow(a.do(tt.method, tt.target, tt.form))
			assert.Contains(t, page.body, handler.MessageAuthRequired)

			content, exists := a.documentContent("changes.txt")
			assert.True(t, exists)
			assert.Equal(t, "Duis", content)
			_, created := a.documentContent("x.txt")
			assert.False(t, created)
		})
	}
}

func TestIndex_NoFlashOnSecondRender(t *testing.T) {
	a := newTestApp(t)

	first := a.get("/")
	second := a.get("/")
	assert.NotContains(t, first.body, "class='flash")
	assert.NotContains(t, second.body, "class='flash")
}

func TestSessionCookie(t *testing.T) {
	a := newTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	resp, err := a.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var cookie *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == cookieName {
			cookie = c
		}
	}
	require.NotNil(t, cookie)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
	assert.Equal(t, int(time.Hour.Seconds()), cookie.MaxAge)

	// A known cookie is not reissued.
	a.cookie = cookie.Value
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: cookieName, Value: a.cookie})
	resp2, err := a.app.Test(req, -1)
	require.NoError(t, err)
	defer resp2.Body.Close()
	assert.Empty(t, resp2.Cookies())
}

func TestForgedCookie_StartsAnonymousSession(t *testing.T) {
	a := newTestApp(t)
	a.cookie = "forged"

	resp := a.get("/document/new")
	assert.Equal(t, fiber.StatusFound, resp.status)
	assert.NotEqual(t, "forged", a.cookie)
}

func TestFlashStoreFailure_InternalError(t *testing.T) {
	store := mocks.NewSessionStore(t)
	store.On("Create", mock.Anything, mock.AnythingOfType("model.Session")).Return(nil)
	store.On("SetFlash", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("db down"))

	a := newTestAppWithStore(t, store)

	resp := a.get("/missing.txt")
	assert.Equal(t, fiber.StatusInternalServerError, resp.status)
	assert.True(t, strings.HasPrefix(resp.contentType, "text/plain"))
	assert.Equal(t, handler.MessageInternalError, resp.body)
}

func TestSessionStoreFailure_InternalError(t *testing.T) {
	store := mocks.NewSessionStore(t)
	store.On("Create", mock.Anything, mock.AnythingOfType("model.Session")).Return(errors.New("db down"))

	a := newTestAppWithStore(t, store)

	resp := a.get("/")
	assert.Equal(t, fiber.StatusInternalServerError, resp.status)
	assert.Equal(t, handler.MessageInternalError, resp.body)
}

func TestIndex_TakeFlashFailure_InternalError(t *testing.T) {
	store := mocks.NewSessionStore(t)
	store.On("Create", mock.Anything, mock.AnythingOfType("model.Session")).Return(nil)
	store.On("PopFlash", mock.Anything, mock.Anything).Return(nil, errors.New("db down"))

	a := newTestAppWithStore(t, store)

	resp := a.get("/")
	assert.Equal(t, fiber.StatusInternalServerError, resp.status)
	assert.Equal(t, handler.MessageInternalError, resp.body)
}

func TestCreate_LinksReachDocument(t *testing.T) {
	hrefs := regexp.MustCompile(`href='([^']*)'`)

	for _, name := range []string{"Notes & Ideas.md", "New Document.txt", "v1.2.txt"} {
		t.Run(name, func(t *testing.T) {
			a := newTestApp(t)
			a.signIn()

			created := a.follow(a.post("/document/new", url.Values{"filename": {name}}))
			require.Contains(t, created.body, html.EscapeString(name)+" has been created.")
			require.NoError(t, os.WriteFile(filepath.Join(a.dataDir, name), []byte("body"), 0o644))

			index := a.get("/")
			var links []string
			for _, m := range hrefs.FindAllStringSubmatch(index.body, -1) {
				link := html.UnescapeString(m[1])
				if link == "/" || link == "/document/new" {
					continue
				}
				links = append(links, link)
			}
			require.Len(t, links, 2)

			view := a.get(links[0])
			assert.Equal(t, fiber.StatusOK, view.status)
			assert.Contains(t, view.body, "body")

			edit := a.get(links[1])
			assert.Equal(t, fiber.StatusOK, edit.status)
			assert.Contains(t, edit.body, "<form")
		})
	}
}

func TestSignIn_ReplacesSessionCookie(t *testing.T) {
	a := newTestApp(t)
	a.get("/")
	planted := a.cookie
	require.NotEmpty(t, planted)

	a.signIn()
	assert.NotEqual(t, planted, a.cookie)

	form := a.get("/document/new")
	assert.Equal(t, fiber.StatusOK, form.status)

	// The cookie from before sign-in stays anonymous.
	a.cookie = planted
	gated := a.get("/document/new")
	assert.Equal(t, fiber.StatusFound, gated.status)
	assert.NotEqual(t, planted, a.cookie)
}

func TestPostHome_RedirectsWithNotFound(t *testing.T) {
	a := newTestApp(t)

	page := a.follow(a.post("/", nil))
	assert.Equal(t, fiber.StatusOK, page.status)
	assert.Contains(t, page.body, handler.MessageNotFound)
}

func TestShow_StorageFailure(t *testing.T) {
	a := newTestApp(t)
	require.NoError(t, os.Mkdir(filepath.Join(a.dataDir, "broken.txt"), 0o755))

	page := a.follow(a.get("/broken.txt"))
	assert.Equal(t, fiber.StatusOK, page.status)
	assert.Contains(t, page.body, handler.MessageUnknown)

	again := a.get("/")
	assert.NotContains(t, again.body, handler.MessageUnknown)
}
