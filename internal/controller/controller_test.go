package controller

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
	"workplace_training_backend/internal/config"
	"workplace_training_backend/internal/middleware"
	"workplace_training_backend/internal/model"
	"workplace_training_backend/internal/repository"
	"workplace_training_backend/internal/service"
	"workplace_training_backend/pkg/database/dbtest"
	"workplace_training_backend/pkg/events"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	strongPassword = "Str0ng!Pass"
	passphrase     = "let-me-in"
)

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type harness struct {
	router     *gin.Engine
	userRepo   *repository.UserRepository
	courseRepo *repository.CourseRepository
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db := dbtest.New(t)
	cfg := &config.Config{
		Server:  config.ServerConfig{Mode: "test", BaseURL: "http://localhost:8080"},
		JWT:     config.JWTConfig{Secret: "controller-test-secret-controller-test", ExpireTime: time.Hour},
		Storage: config.StorageConfig{Type: "local", LocalPath: t.TempDir()},
		Course:  config.CourseConfig{DefaultPassingScore: 70, MaxUploadMB: 10},
		Admin:   config.AdminConfig{RegistrationPassphrase: passphrase},
	}

	userRepo := repository.NewUserRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	contentRepo := repository.NewContentRepository(db)
	progressRepo := repository.NewProgressRepository(db)
	annRepo := repository.NewAnnouncementRepository(db)
	storage := service.NewStorageService(cfg)
	blacklist := service.NewMemoryTokenBlacklist()

	auth := NewAuthController(service.NewAuthService(userRepo, blacklist, cfg))
	users := NewUserController(service.NewUserService(userRepo))
	learning := NewLearningController(service.NewLearningService(
		db, courseRepo, userRepo, contentRepo, progressRepo, annRepo, storage, events.NopPublisher{},
	))
	content := service.NewContentService(db, courseRepo, contentRepo, storage, cfg)
	courses := NewCourseController(service.NewCourseService(
		db, courseRepo, userRepo, repository.NewGroupRepository(db), content, storage, cfg,
	))

	r := gin.New()
	r.POST("/api/auth/register", auth.Register)
	r.POST("/api/auth/login", auth.Login)

	api := r.Group("/api", middleware.AuthMiddleware(cfg, blacklist))
	api.POST("/auth/logout", auth.Logout)
	api.GET("/profile", users.GetProfile)
	api.GET("/learning/courses/:id", learning.GetCourse)
	api.POST("/learning/videos/:id/complete", learning.CompleteVideo)
	api.GET("/learning/courses/:id/test", learning.GetTest)

	admin := r.Group("/api/admin", middleware.AuthMiddleware(cfg, blacklist), middleware.RoleMiddleware(model.Admin))
	admin.GET("/courses", courses.GetCourses)
	admin.PUT("/courses/:id", courses.UpdateCourse)

	return &harness{router: r, userRepo: userRepo, courseRepo: courseRepo}
}

func (h *harness) do(t *testing.T, method, path, token string, body interface{}) (int, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	h.router.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w.Code, env
}

func (h *harness) register(t *testing.T, username string, admin bool) *model.User {
	t.Helper()
	body := gin.H{
		"username":  username,
		"email":     username + "@example.com",
		"password":  strongPassword,
		"firstName": username,
		"lastName":  "Test",
	}
	if admin {
		body["adminPassphrase"] = passphrase
	}
	code, env := h.do(t, http.MethodPost, "/api/auth/register", "", body)
	require.Equal(t, http.StatusCreated, code, env.Message)
	var user model.User
	require.NoError(t, json.Unmarshal(env.Data, &user))
	return &user
}

func (h *harness) login(t *testing.T, username string) string {
	t.Helper()
	code, env := h.do(t, http.MethodPost, "/api/auth/login", "", gin.H{"login": username, "password": strongPassword})
	require.Equal(t, http.StatusOK, code, env.Message)
	var data struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	return data.Token
}

func TestRegisterAndLogin(t *testing.T) {
	h := newHarness(t)
	user := h.register(t, "ayse", false)
	assert.Equal(t, model.Student, user.Role)

	code, _ := h.do(t, http.MethodPost, "/api/auth/register", "", gin.H{
		"username": "ayse", "email": "other@example.com", "password": strongPassword,
	})
	assert.Equal(t, http.StatusConflict, code)

	code, _ = h.do(t, http.MethodPost, "/api/auth/register", "", gin.H{
		"username": "weak", "email": "weak@example.com", "password": "password",
	})
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = h.do(t, http.MethodPost, "/api/auth/register", "", gin.H{
		"username": "sneaky", "email": "sneaky@example.com", "password": strongPassword, "adminPassphrase": "guess",
	})
	assert.Equal(t, http.StatusForbidden, code)

	code, _ = h.do(t, http.MethodPost, "/api/auth/login", "", gin.H{"login": "ayse", "password": "Wr0ng!Pass"})
	assert.Equal(t, http.StatusUnauthorized, code)

	token := h.login(t, "ayse")
	code, env := h.do(t, http.MethodGet, "/api/profile", token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(env.Data), "ayse@example.com")

	code, _ = h.do(t, http.MethodPost, "/api/auth/logout", token, nil)
	assert.Equal(t, http.StatusOK, code)
	code, _ = h.do(t, http.MethodGet, "/api/profile", token, nil)
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestLearningEndpoints(t *testing.T) {
	h := newHarness(t)
	student := h.register(t, "ayse", false)
	h.register(t, "mehmet", false)

	course := &model.Course{
		Title:        "Ladder Safety",
		PassingScore: 70,
		Videos:       []model.Video{{Title: "Intro", FilePath: "videos/intro.mp4", Order: 1}},
	}
	require.NoError(t, h.courseRepo.Create(course))
	require.NoError(t, h.courseRepo.AddAssignedUsers(course, []model.User{*student}))

	ayse := h.login(t, "ayse")
	mehmet := h.login(t, "mehmet")
	coursePath := "/api/learning/courses/" + jsonID(course.ID)

	code, _ := h.do(t, http.MethodGet, coursePath, mehmet, nil)
	assert.Equal(t, http.StatusForbidden, code)
	code, _ = h.do(t, http.MethodGet, "/api/learning/courses/abc", ayse, nil)
	assert.Equal(t, http.StatusBadRequest, code)
	code, _ = h.do(t, http.MethodGet, "/api/learning/courses/9999", ayse, nil)
	assert.Equal(t, http.StatusNotFound, code)

	code, env := h.do(t, http.MethodPost, "/api/learning/videos/"+jsonID(course.Videos[0].ID)+"/complete", ayse, nil)
	require.Equal(t, http.StatusOK, code, env.Message)
	var result service.CompletionResult
	require.NoError(t, json.Unmarshal(env.Data, &result))
	assert.Equal(t, 1, result.Progress.CompletedVideos)
	assert.True(t, result.Progress.AllContentCompleted)

	code, _ = h.do(t, http.MethodGet, coursePath+"/test", ayse, nil)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestAdminRoutesRequireAdmin(t *testing.T) {
	h := newHarness(t)
	h.register(t, "ayse", false)
	h.register(t, "boss", true)

	code, _ := h.do(t, http.MethodGet, "/api/admin/courses", h.login(t, "ayse"), nil)
	assert.Equal(t, http.StatusForbidden, code)

	admin := h.login(t, "boss")
	code, _ = h.do(t, http.MethodGet, "/api/admin/courses", admin, nil)
	assert.Equal(t, http.StatusOK, code)

	code, _ = h.do(t, http.MethodPut, "/api/admin/courses/1", admin, gin.H{"title": "x", "assignBy": "teams"})
	assert.Equal(t, http.StatusBadRequest, code)
	code, _ = h.do(t, http.MethodPut, "/api/admin/courses/9999", admin, gin.H{"title": "x"})
	assert.Equal(t, http.StatusNotFound, code)
}

func jsonID(id uint) string {
	b, _ := json.Marshal(id)
	return string(b)
}
