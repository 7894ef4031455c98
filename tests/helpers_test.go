package tests

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/DenisSivko/hw05-final/controllers"
	"github.com/DenisSivko/hw05-final/middlewares"
	"github.com/DenisSivko/hw05-final/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// newTestServer builds a server over an in-memory SQLite database with
// the production routes, minus the rate limiter (its per-IP state is
// global and would bleed between tests).
func newTestServer(t *testing.T) (*controllers.Server, *gin.Engine) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	os.Setenv("API_SECRET", "test-secret")

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to in-memory database: %v", err)
	}

	server := &controllers.Server{DB: db}
	require.NoError(t, server.Migrate())

	r := gin.New()
	server.Router = r
	registerRoutes(server, r)
	return server, r
}

func registerRoutes(s *controllers.Server, r *gin.Engine) {
	r.Use(middlewares.OptionalAuthMiddleware(s.DB))

	r.POST("/signup", s.CreateUser)
	r.POST("/login", s.Login)
	r.POST("/password/forgot", s.ForgotPassword)
	r.POST("/password/reset", s.ResetPassword)
	r.PUT("/account", middlewares.LoginRequiredMiddleware(s.DB), s.UpdateAccount)
	r.DELETE("/account", middlewares.LoginRequiredMiddleware(s.DB), s.DeleteAccount)

	r.GET("/", s.ListIndex)
	r.GET("/group/:slug", s.GroupPosts)
	r.GET("/follow", middlewares.LoginRequiredMiddleware(s.DB), s.FollowIndex)

	r.GET("/groups", s.GetGroups)
	admin := r.Group("/group")
	admin.Use(middlewares.LoginRequiredMiddleware(s.DB), middlewares.AdminOnlyMiddleware())
	{
		admin.POST("", s.CreateGroup)
		admin.PUT("/:slug", s.UpdateGroup)
		admin.DELETE("/:slug", s.DeleteGroup)
	}

	loginRequired := middlewares.LoginRequiredMiddleware(s.DB)
	r.GET("/new", loginRequired, s.NewPostForm)
	r.POST("/new", loginRequired, s.CreatePost)
	r.GET("/:username", s.Profile)
	r.GET("/:username/follow", loginRequired, s.FollowAuthor)
	r.GET("/:username/unfollow", loginRequired, s.UnfollowAuthor)
	r.GET("/:username/:post_id", s.PostView)
	r.GET("/:username/:post_id/edit", loginRequired, s.EditPostForm)
	r.POST("/:username/:post_id/edit", loginRequired, s.EditPost)
	r.POST("/:username/:post_id/comment", loginRequired, s.AddComment)
}

// signupAndLogin registers a user and returns their id and token.
func signupAndLogin(t *testing.T, r *gin.Engine, username, email string) (uint, string) {
	t.Helper()

	payload, _ := json.Marshal(map[string]string{
		"username": username,
		"email":    email,
		"password": "password123",
	})
	req, _ := http.NewRequest(http.MethodPost, "/signup", bytes.NewBuffer(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code, "signup failed: %s", w.Body.String())

	var signupBody map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &signupBody))
	userID := uint(signupBody["response"].(map[string]interface{})["id"].(float64))

	loginPayload, _ := json.Marshal(map[string]string{
		"email":    email,
		"password": "password123",
	})
	loginReq, _ := http.NewRequest(http.MethodPost, "/login", bytes.NewBuffer(loginPayload))
	loginReq.Header.Set("Content-Type", "application/json")
	loginW := httptest.NewRecorder()
	r.ServeHTTP(loginW, loginReq)
	require.Equal(t, http.StatusOK, loginW.Code, "login failed: %s", loginW.Body.String())

	var loginBody map[string]interface{}
	require.NoError(t, json.Unmarshal(loginW.Body.Bytes(), &loginBody))
	token := loginBody["response"].(map[string]interface{})["token"].(string)
	return userID, token
}

// createPost submits the post form as the given user and returns the
// stored record.
func createPost(t *testing.T, server *controllers.Server, r *gin.Engine, token, text string, groupID *uint) models.Post {
	t.Helper()

	payload := map[string]interface{}{"text": text}
	if groupID != nil {
		payload["group_id"] = *groupID
	}
	body, _ := json.Marshal(payload)
	req, _ := http.NewRequest(http.MethodPost, "/new", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusFound, w.Code, "create post did not redirect: %s", w.Body.String())
	require.Equal(t, "/", w.Header().Get("Location"))

	var post models.Post
	require.NoError(t, server.DB.Preload("Author").Order("id desc").Take(&post).Error)
	return post
}

func makeAdmin(t *testing.T, server *controllers.Server, userID uint) {
	t.Helper()
	require.NoError(t, server.DB.Model(&models.User{}).
		Where("id = ?", userID).Update("is_admin", true).Error)
}

func authedGet(r *gin.Engine, token, path string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func followEdgeCount(t *testing.T, server *controllers.Server, userID, authorID uint) int64 {
	t.Helper()
	var count int64
	require.NoError(t, server.DB.Model(&models.Follow{}).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Count(&count).Error)
	return count
}

func detailPath(post models.Post) string {
	return fmt.Sprintf("/%s/%d", post.Author.Username, post.ID)
}
