package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/emre/coursehub/internal/app/services"
	"github.com/emre/coursehub/internal/middleware"
	"github.com/emre/coursehub/internal/pkg/apperrors"
	"github.com/emre/coursehub/internal/pkg/session"
	"github.com/emre/coursehub/internal/pkg/validation"
)

// StudentController handles registration, login, and the enrollment pages.
type StudentController struct {
	studentService *services.StudentService
	courseService  *services.CourseService
	sessions       *session.Manager
	logger         zerolog.Logger
}

// NewStudentController creates a new StudentController
func NewStudentController(
	studentService *services.StudentService,
	courseService *services.CourseService,
	sessions *session.Manager,
	logger zerolog.Logger,
) *StudentController {
	return &StudentController{
		studentService: studentService,
		courseService:  courseService,
		sessions:       sessions,
		logger:         logger,
	}
}

// ShowRegister renders the empty registration form.
func (ctrl *StudentController) ShowRegister(c *gin.Context) {
	ctrl.renderRegister(c, nil, validation.RegisterForm{})
}

// Register processes a registration submission. All validation errors are
// accumulated and shown together with the submitted name and email; the
// password is never echoed back.
func (ctrl *StudentController) Register(c *gin.Context) {
	form := validation.RegisterForm{
		Name:     strings.TrimSpace(c.PostForm("name")),
		Email:    strings.TrimSpace(c.PostForm("email")),
		Password: c.PostForm("password"),
	}

	errs := form.Validate()
	if len(errs) > 0 {
		ctrl.renderRegister(c, errs, form)
		return
	}

	student, err := ctrl.studentService.Register(c.Request.Context(), form.Name, form.Email, form.Password)
	if err != nil {
		if errors.Is(err, apperrors.ErrEmailAlreadyExists) {
			ctrl.renderRegister(c, []string{"Email already used."}, form)
			return
		}
		ctrl.logger.Error().Err(err).Msg("Failed to register student")
		c.String(http.StatusInternalServerError, "Internal server error")
		return
	}

	ctrl.establishSession(c, student.ID)
}

// ShowLogin renders the empty login form.
func (ctrl *StudentController) ShowLogin(c *gin.Context) {
	ctrl.renderLogin(c, nil, validation.LoginForm{})
}

// Login processes a login submission. Format errors are accumulated; a
// well-formed submission that fails authentication gets the single generic
// message regardless of which credential was wrong.
func (ctrl *StudentController) Login(c *gin.Context) {
	form := validation.LoginForm{
		Email:    strings.TrimSpace(c.PostForm("email")),
		Password: c.PostForm("password"),
	}

	errs := form.Validate()
	if len(errs) > 0 {
		ctrl.renderLogin(c, errs, form)
		return
	}

	student, err := ctrl.studentService.Authenticate(c.Request.Context(), form.Email, form.Password)
	if err != nil {
		if errors.Is(err, apperrors.ErrInvalidCredentials) {
			ctrl.renderLogin(c, []string{"Invalid credentials."}, form)
			return
		}
		ctrl.logger.Error().Err(err).Msg("Failed to authenticate student")
		c.String(http.StatusInternalServerError, "Internal server error")
		return
	}

	ctrl.establishSession(c, student.ID)
}

// Logout clears the identity binding, rotates the session token, and sends
// the browser back to the login page.
func (ctrl *StudentController) Logout(c *gin.Context) {
	sess := middleware.CurrentSession(c)

	fresh, err := ctrl.sessions.Logout(c.Request.Context(), sess)
	if err != nil {
		ctrl.logger.Error().Err(err).Msg("Failed to end session")
		c.String(http.StatusInternalServerError, "Internal server error")
		return
	}

	middleware.ReplaceSession(c, fresh)
	ctrl.sessions.SetCookie(c.Writer, fresh)
	c.Redirect(http.StatusSeeOther, "/login")
}

// Dashboard lists all courses annotated with the student's enrollment state.
func (ctrl *StudentController) Dashboard(c *gin.Context) {
	studentID := middleware.CurrentSession(c).StudentID

	courses, err := ctrl.courseService.ListForStudent(c.Request.Context(), studentID)
	if err != nil {
		ctrl.logger.Error().Err(err).Msg("Failed to list courses")
		c.String(http.StatusInternalServerError, "Internal server error")
		return
	}

	data, err := baseViewData(c, ctrl.sessions.Store())
	if err != nil {
		ctrl.logger.Error().Err(err).Msg("Failed to build view data")
		c.String(http.StatusInternalServerError, "Internal server error")
		return
	}
	data["Courses"] = courses

	c.HTML(http.StatusOK, "dashboard.html", data)
}

// Course shows one course and its enrollment state. A malformed id is
// indistinguishable from a nonexistent one: both are not-found.
func (ctrl *StudentController) Course(c *gin.Context) {
	courseID, ok := parseCourseID(c.Param("id"))
	if !ok {
		ctrl.courseNotFound(c)
		return
	}

	studentID := middleware.CurrentSession(c).StudentID

	course, enrolled, err := ctrl.courseService.GetDetail(c.Request.Context(), studentID, courseID)
	if err != nil {
		if errors.Is(err, apperrors.ErrCourseNotFound) {
			ctrl.courseNotFound(c)
			return
		}
		ctrl.logger.Error().Err(err).Msg("Failed to load course")
		c.String(http.StatusInternalServerError, "Internal server error")
		return
	}

	data, err := baseViewData(c, ctrl.sessions.Store())
	if err != nil {
		ctrl.logger.Error().Err(err).Msg("Failed to build view data")
		c.String(http.StatusInternalServerError, "Internal server error")
		return
	}
	data["Course"] = course
	data["IsEnrolled"] = enrolled

	c.HTML(http.StatusOK, "course.html", data)
}

// Enroll records the enrollment and redirects back to the course page.
// Repeat submissions are no-ops.
func (ctrl *StudentController) Enroll(c *gin.Context) {
	courseID, ok := parseCourseID(c.Param("id"))
	if !ok {
		ctrl.courseNotFound(c)
		return
	}

	studentID := middleware.CurrentSession(c).StudentID

	if err := ctrl.courseService.Enroll(c.Request.Context(), studentID, courseID); err != nil {
		if errors.Is(err, apperrors.ErrCourseNotFound) {
			ctrl.courseNotFound(c)
			return
		}
		ctrl.logger.Error().Err(err).Msg("Failed to enroll student")
		c.String(http.StatusInternalServerError, "Internal server error")
		return
	}

	c.Redirect(http.StatusSeeOther, "/student/course/"+strconv.FormatInt(courseID, 10))
}

// establishSession binds the student to a fresh session and redirects to
// the dashboard. Redirect rather than render, so a refresh cannot resubmit.
func (ctrl *StudentController) establishSession(c *gin.Context, studentID int64) {
	sess := middleware.CurrentSession(c)

	fresh, err := ctrl.sessions.Login(c.Request.Context(), sess, studentID)
	if err != nil {
		ctrl.logger.Error().Err(err).Msg("Failed to establish session")
		c.String(http.StatusInternalServerError, "Internal server error")
		return
	}

	middleware.ReplaceSession(c, fresh)
	ctrl.sessions.SetCookie(c.Writer, fresh)
	c.Redirect(http.StatusSeeOther, "/student/dashboard")
}

func (ctrl *StudentController) renderRegister(c *gin.Context, errs []string, form validation.RegisterForm) {
	data, err := baseViewData(c, ctrl.sessions.Store())
	if err != nil {
		ctrl.logger.Error().Err(err).Msg("Failed to build view data")
		c.String(http.StatusInternalServerError, "Internal server error")
		return
	}
	data["Errors"] = errs
	data["Name"] = form.Name
	data["Email"] = form.Email

	c.HTML(http.StatusOK, "register.html", data)
}

func (ctrl *StudentController) renderLogin(c *gin.Context, errs []string, form validation.LoginForm) {
	data, err := baseViewData(c, ctrl.sessions.Store())
	if err != nil {
		ctrl.logger.Error().Err(err).Msg("Failed to build view data")
		c.String(http.StatusInternalServerError, "Internal server error")
		return
	}
	data["Errors"] = errs
	data["Email"] = form.Email

	c.HTML(http.StatusOK, "login.html", data)
}

func (ctrl *StudentController) courseNotFound(c *gin.Context) {
	c.String(http.StatusNotFound, "Course not found")
}

// parseCourseID accepts only a non-negative integer literal.
func parseCourseID(raw string) (int64, bool) {
	if raw == "" {
		return 0, false
	}
	for _, r := range raw {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}
