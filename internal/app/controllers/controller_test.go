package controllers_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/emre/coursehub/internal/app/controllers"
	"github.com/emre/coursehub/internal/app/repositories"
	"github.com/emre/coursehub/internal/app/routes"
	"github.com/emre/coursehub/internal/app/services"
	"github.com/emre/coursehub/internal/middleware"
	"github.com/emre/coursehub/internal/pkg/session"
)

const cookieName = "coursehub_session"

var csrfRe = regexp.MustCompile(`name="_csrf" value="([^"]+)"`)

type testApp struct {
	router      *gin.Engine
	students    *repositories.MemoryStudentRepository
	courses     *repositories.MemoryCourseRepository
	enrollments *repositories.MemoryEnrollmentRepository
	store       *session.MemoryStore
	goCourseID  int64
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	students := repositories.NewMemoryStudentRepository()
	courses := repositories.NewMemoryCourseRepository()
	enrollments := repositories.NewMemoryEnrollmentRepository()
	goCourseID := courses.Add("Intro to Go", "Slices, maps and goroutines.")
	courses.Add("Databases", "Relational modelling basics.")

	store := session.NewMemoryStore()
	manager := session.NewManager(store, cookieName, time.Hour, false)

	logger := zerolog.Nop()
	studentService := services.NewStudentService(students, bcrypt.MinCost, logger)
	courseService := services.NewCourseService(courses, enrollments)

	sessionMW := middleware.NewSessionMiddleware(manager, logger)
	home := controllers.NewHomeController(store, logger)
	studentController := controllers.NewStudentController(studentService, courseService, manager, logger)

	router := gin.New()
	router.Use(sessionMW.Load())
	router.LoadHTMLGlob(filepath.Join("..", "..", "..", "web", "templates", "*.html"))
	routes.SetupRouter(router, home, studentController, sessionMW)

	return &testApp{
		router:      router,
		students:    students,
		courses:     courses,
		enrollments: enrollments,
		store:       store,
		goCourseID:  goCourseID,
	}
}

// browser carries cookies between requests like a real user agent would.
type browser struct {
	t       *testing.T
	app     *testApp
	cookies map[string]string
}

func newBrowser(t *testing.T, app *testApp) *browser {
	return &browser{t: t, app: app, cookies: map[string]string{}}
}

func (b *browser) do(method, target string, form url.Values) *httptest.ResponseRecorder {
	b.t.Helper()
	var body *strings.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	} else {
		body = strings.NewReader("")
	}
	req := httptest.NewRequest(method, target, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	for name, value := range b.cookies {
		req.AddCookie(&http.Cookie{Name: name, Value: value})
	}
	rec := httptest.NewRecorder()
	b.app.router.ServeHTTP(rec, req)
	for _, c := range rec.Result().Cookies() {
		if c.MaxAge < 0 {
			delete(b.cookies, c.Name)
		} else {
			b.cookies[c.Name] = c.Value
		}
	}
	return rec
}

func (b *browser) get(target string) *httptest.ResponseRecorder {
	return b.do(http.MethodGet, target, nil)
}

func (b *browser) post(target string, form url.Values) *httptest.ResponseRecorder {
	return b.do(http.MethodPost, target, form)
}

// csrfToken fetches a page containing a form and pulls the token out of it.
func (b *browser) csrfToken(fromPage string) string {
	b.t.Helper()
	rec := b.get(fromPage)
	require.Equal(b.t, http.StatusOK, rec.Code)
	match := csrfRe.FindStringSubmatch(rec.Body.String())
	require.NotNil(b.t, match, "page %s should embed a csrf token", fromPage)
	return match[1]
}

func (b *browser) register(name, email, password string) *httptest.ResponseRecorder {
	b.t.Helper()
	token := b.csrfToken("/register")
	return b.post("/register", url.Values{
		"_csrf":    {token},
		"name":     {name},
		"email":    {email},
		"password": {password},
	})
}

func (b *browser) login(email, password string) *httptest.ResponseRecorder {
	b.t.Helper()
	token := b.csrfToken("/login")
	return b.post("/login", url.Values{
		"_csrf":    {token},
		"email":    {email},
		"password": {password},
	})
}

func TestHomePage(t *testing.T) {
	app := newTestApp(t)
	b := newBrowser(t, app)

	rec := b.get("/")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "Log in")
	require.NotEmpty(t, b.cookies[cookieName], "first visit should start a session")
}

func TestUnknownRoute(t *testing.T) {
	app := newTestApp(t)
	b := newBrowser(t, app)

	rec := b.get("/no/such/page")
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, "404 Not Found", rec.Body.String())
}

func TestGuestIsRedirectedToLogin(t *testing.T) {
	app := newTestApp(t)
	b := newBrowser(t, app)

	for _, target := range []string{"/student/dashboard", "/student/course/1"} {
		rec := b.get(target)
		require.Equal(t, http.StatusFound, rec.Code, target)
		require.Equal(t, "/login", rec.Header().Get("Location"), target)
	}

	rec := b.post("/student/course/1/enroll", url.Values{})
	require.Equal(t, http.StatusFound, rec.Code)
	require.Equal(t, "/login", rec.Header().Get("Location"))
}

func TestCSRFRejection(t *testing.T) {
	app := newTestApp(t)
	b := newBrowser(t, app)

	t.Run("missing token", func(t *testing.T) {
		rec := b.post("/register", url.Values{
			"name":     {"Ada"},
			"email":    {"ada@x.com"},
			"password": {"password1"},
		})
		require.Equal(t, http.StatusForbidden, rec.Code)
		require.Equal(t, "Forbidden", rec.Body.String())
		require.Equal(t, 0, app.students.Count())
	})

	t.Run("wrong token", func(t *testing.T) {
		b.csrfToken("/register")
		rec := b.post("/register", url.Values{
			"_csrf":    {"not-the-token"},
			"name":     {"Ada"},
			"email":    {"ada@x.com"},
			"password": {"password1"},
		})
		require.Equal(t, http.StatusForbidden, rec.Code)
		require.Equal(t, 0, app.students.Count())
	})

	t.Run("token from another session", func(t *testing.T) {
		other := newBrowser(t, app)
		stolen := other.csrfToken("/register")
		rec := b.post("/register", url.Values{
			"_csrf":    {stolen},
			"name":     {"Ada"},
			"email":    {"ada@x.com"},
			"password": {"password1"},
		})
		require.Equal(t, http.StatusForbidden, rec.Code)
		require.Equal(t, 0, app.students.Count())
	})

	t.Run("login and logout without token", func(t *testing.T) {
		rec := b.post("/login", url.Values{
			"email":    {"ada@x.com"},
			"password": {"password1"},
		})
		require.Equal(t, http.StatusForbidden, rec.Code)

		rec = b.post("/logout", url.Values{})
		require.Equal(t, http.StatusForbidden, rec.Code)
	})
}

func TestCSRFRejectionOnEnroll(t *testing.T) {
	app := newTestApp(t)
	b := newBrowser(t, app)
	require.Equal(t, http.StatusSeeOther, b.register("Ada", "ada@x.com", "password1").Code)

	target := fmt.Sprintf("/student/course/%d/enroll", app.goCourseID)

	rec := b.post(target, url.Values{})
	require.Equal(t, http.StatusForbidden, rec.Code)

	rec = b.post(target, url.Values{"_csrf": {"wrong"}})
	require.Equal(t, http.StatusForbidden, rec.Code)

	student, err := app.students.GetByEmail(context.Background(), "ada@x.com")
	require.NoError(t, err)
	count, err := app.enrollments.CountByStudent(context.Background(), student.ID)
	require.NoError(t, err)
	require.Equal(t, 0, count, "rejected requests must not mutate the store")
}

func TestRegisterFlow(t *testing.T) {
	app := newTestApp(t)
	b := newBrowser(t, app)

	rec := b.register("Ada", "ada@x.com", "password1")
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/student/dashboard", rec.Header().Get("Location"))
	require.Equal(t, 1, app.students.Count())

	rec = b.get("/student/dashboard")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "Intro to Go")
	require.Contains(t, rec.Body.String(), "Databases")
}

func TestRegisterValidation(t *testing.T) {
	app := newTestApp(t)
	b := newBrowser(t, app)

	token := b.csrfToken("/register")
	rec := b.post("/register", url.Values{
		"_csrf":    {token},
		"name":     {""},
		"email":    {"not-an-email"},
		"password": {"short"},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	require.Contains(t, body, "Name is required.")
	require.Contains(t, body, "Valid email is required.")
	require.Contains(t, body, "Password must be at least 8 characters.")
	require.Contains(t, body, `value="not-an-email"`, "email input should be preserved")
	require.NotContains(t, body, "short", "password must never be echoed back")
	require.Equal(t, 0, app.students.Count())
}

func TestRegisterDuplicateEmail(t *testing.T) {
	app := newTestApp(t)

	first := newBrowser(t, app)
	rec := first.register("Ada", "ada@x.com", "password1")
	require.Equal(t, http.StatusSeeOther, rec.Code)

	second := newBrowser(t, app)
	rec = second.register("Imposter", "ada@x.com", "password2")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "Email already used.")
	require.Equal(t, 1, app.students.Count())
}

func TestLoginFlow(t *testing.T) {
	app := newTestApp(t)

	registrar := newBrowser(t, app)
	rec := registrar.register("Ada", "ada@x.com", "password1")
	require.Equal(t, http.StatusSeeOther, rec.Code)

	t.Run("correct credentials", func(t *testing.T) {
		b := newBrowser(t, app)
		rec := b.login("ada@x.com", "password1")
		require.Equal(t, http.StatusSeeOther, rec.Code)
		require.Equal(t, "/student/dashboard", rec.Header().Get("Location"))

		rec = b.get("/student/dashboard")
		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("wrong password", func(t *testing.T) {
		b := newBrowser(t, app)
		rec := b.login("ada@x.com", "wrongpass")
		require.Equal(t, http.StatusOK, rec.Code)
		require.Contains(t, rec.Body.String(), "Invalid credentials.")
		require.Contains(t, rec.Body.String(), `value="ada@x.com"`)

		rec = b.get("/student/dashboard")
		require.Equal(t, http.StatusFound, rec.Code, "failed login must stay anonymous")
	})

	t.Run("unknown email reads the same", func(t *testing.T) {
		b := newBrowser(t, app)
		rec := b.login("nobody@x.com", "password1")
		require.Equal(t, http.StatusOK, rec.Code)
		require.Contains(t, rec.Body.String(), "Invalid credentials.")
	})

	t.Run("blank form accumulates errors", func(t *testing.T) {
		b := newBrowser(t, app)
		token := b.csrfToken("/login")
		rec := b.post("/login", url.Values{"_csrf": {token}})
		require.Equal(t, http.StatusOK, rec.Code)
		require.Contains(t, rec.Body.String(), "Valid email is required.")
		require.Contains(t, rec.Body.String(), "Password is required.")
	})
}

func TestLoginRotatesSessionToken(t *testing.T) {
	app := newTestApp(t)

	registrar := newBrowser(t, app)
	require.Equal(t, http.StatusSeeOther, registrar.register("Ada", "ada@x.com", "password1").Code)

	b := newBrowser(t, app)
	b.get("/")
	before := b.cookies[cookieName]
	require.NotEmpty(t, before)

	require.Equal(t, http.StatusSeeOther, b.login("ada@x.com", "password1").Code)
	after := b.cookies[cookieName]
	require.NotEqual(t, before, after, "login must issue a fresh session token")

	// The pre-login token is dead; replaying it gets a guest session.
	stale := newBrowser(t, app)
	stale.cookies[cookieName] = before
	rec := stale.get("/student/dashboard")
	require.Equal(t, http.StatusFound, rec.Code)
}

func TestCourseDetailAndEnroll(t *testing.T) {
	app := newTestApp(t)
	b := newBrowser(t, app)
	require.Equal(t, http.StatusSeeOther, b.register("Ada", "ada@x.com", "password1").Code)

	coursePath := fmt.Sprintf("/student/course/%d", app.goCourseID)

	rec := b.get(coursePath)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "Intro to Go")
	require.Contains(t, rec.Body.String(), "Enroll")

	token := csrfRe.FindStringSubmatch(rec.Body.String())
	require.NotNil(t, token)

	rec = b.post(coursePath+"/enroll", url.Values{"_csrf": {token[1]}})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, coursePath, rec.Header().Get("Location"))

	rec = b.get(coursePath)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "Already enrolled in this course.")

	t.Run("repeat enrollment stays single", func(t *testing.T) {
		rec := b.post(coursePath+"/enroll", url.Values{"_csrf": {token[1]}})
		require.Equal(t, http.StatusSeeOther, rec.Code)

		student, err := app.students.GetByEmail(context.Background(), "ada@x.com")
		require.NoError(t, err)
		count, err := app.enrollments.CountByStudent(context.Background(), student.ID)
		require.NoError(t, err)
		require.Equal(t, 1, count)
	})

	t.Run("dashboard shows enrolled badge", func(t *testing.T) {
		rec := b.get("/student/dashboard")
		require.Equal(t, http.StatusOK, rec.Code)
		require.Contains(t, rec.Body.String(), "Enrolled")
	})
}

func TestCourseNotFound(t *testing.T) {
	app := newTestApp(t)
	b := newBrowser(t, app)
	require.Equal(t, http.StatusSeeOther, b.register("Ada", "ada@x.com", "password1").Code)

	var bodies []string
	for _, target := range []string{"/student/course/999999", "/student/course/abc", "/student/course/12x"} {
		rec := b.get(target)
		require.Equal(t, http.StatusNotFound, rec.Code, target)
		bodies = append(bodies, rec.Body.String())
	}
	require.Equal(t, bodies[0], bodies[1], "malformed and missing ids must be indistinguishable")
	require.Equal(t, "Course not found", bodies[0])

	token := b.csrfToken("/student/dashboard")
	rec := b.post("/student/course/999999/enroll", url.Values{"_csrf": {token}})
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestLogout(t *testing.T) {
	app := newTestApp(t)
	b := newBrowser(t, app)
	require.Equal(t, http.StatusSeeOther, b.register("Ada", "ada@x.com", "password1").Code)

	authenticated := b.cookies[cookieName]

	token := b.csrfToken("/student/dashboard")
	rec := b.post("/logout", url.Values{"_csrf": {token}})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/login", rec.Header().Get("Location"))
	require.NotEqual(t, authenticated, b.cookies[cookieName], "logout must rotate the token")

	rec = b.get("/student/dashboard")
	require.Equal(t, http.StatusFound, rec.Code, "logged-out browser is anonymous again")

	// Replaying the pre-logout cookie must not restore the identity.
	replay := newBrowser(t, app)
	replay.cookies[cookieName] = authenticated
	rec = replay.get("/student/dashboard")
	require.Equal(t, http.StatusFound, rec.Code)
}
