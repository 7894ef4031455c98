package controllers

import (
	"net/http"

	"github.com/DenisSivko/hw05-final/middlewares"

	"github.com/gin-gonic/gin"
)

func (s *Server) initializeRoutes() {

	// Public reads still resolve a principal when a token is present,
	// so profile and post views can report the "following" flag.
	s.Router.Use(middlewares.OptionalAuthMiddleware(s.DB))

	// Auth and account
	s.Router.POST("/signup", middlewares.LoginRateLimitMiddleware(), s.CreateUser)
	s.Router.POST("/login", middlewares.LoginRateLimitMiddleware(), s.Login)
	s.Router.POST("/password/forgot", middlewares.LoginRateLimitMiddleware(), s.ForgotPassword)
	s.Router.POST("/password/reset", middlewares.LoginRateLimitMiddleware(), s.ResetPassword)
	s.Router.PUT("/account", middlewares.LoginRequiredMiddleware(s.DB), s.UpdateAccount)
	s.Router.DELETE("/account", middlewares.LoginRequiredMiddleware(s.DB), s.DeleteAccount)

	// Feeds
	s.Router.GET("/", s.ListIndex)
	s.Router.GET("/group/:slug", s.GroupPosts)
	s.Router.GET("/follow", middlewares.LoginRequiredMiddleware(s.DB), s.FollowIndex)

	// Group management (admin only; the public group feed is above)
	s.Router.GET("/groups", s.GetGroups)
	admin := s.Router.Group("/group")
	admin.Use(middlewares.LoginRequiredMiddleware(s.DB), middlewares.AdminOnlyMiddleware())
	{
		admin.POST("", s.CreateGroup)
		admin.PUT("/:slug", s.UpdateGroup)
		admin.DELETE("/:slug", s.DeleteGroup)
	}

	// Posts
	loginRequired := middlewares.LoginRequiredMiddleware(s.DB)
	s.Router.GET("/new", loginRequired, s.NewPostForm)
	s.Router.POST("/new", loginRequired, s.CreatePost)
	s.Router.GET("/:username", s.Profile)
	s.Router.GET("/:username/follow", loginRequired, s.FollowAuthor)
	s.Router.GET("/:username/unfollow", loginRequired, s.UnfollowAuthor)
	s.Router.GET("/:username/:post_id", s.PostView)
	s.Router.GET("/:username/:post_id/edit", loginRequired, s.EditPostForm)
	s.Router.POST("/:username/:post_id/edit", loginRequired, s.EditPost)
	s.Router.POST("/:username/:post_id/comment", loginRequired, s.AddComment)

	// Anything else is a plain 404 presentation.
	s.Router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"status": http.StatusNotFound,
			"error":  map[string]string{"Not_found": "Page Not Found"},
		})
	})
}
