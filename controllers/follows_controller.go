package controllers

import (
	"fmt"
	"net/http"

	"github.com/DenisSivko/hw05-final/models"
	httpctx "github.com/DenisSivko/hw05-final/utils/httpctx"

	"github.com/gin-gonic/gin"
)

// FollowAuthor subscribes the principal to an author's posts and
// redirects to the author's profile. Following twice is a no-op, and a
// self-follow never reaches the store.
func (server *Server) FollowAuthor(c *gin.Context) {
	uid, authenticated := httpctx.CurrentUserID(c)

	user := models.User{}
	author, err := user.FindUserByUsername(server.DB, c.Param("username"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"status": http.StatusNotFound,
			"error":  map[string]string{"Not_found": "User Not Found"},
		})
		return
	}

	if CanFollow(uid, authenticated, author.ID) {
		follow := models.Follow{}
		if _, err := follow.SaveFollow(server.DB, uid, author.ID); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"status": http.StatusInternalServerError,
				"error":  map[string]string{"Server_error": "Error following user"},
			})
			return
		}
	}

	c.Redirect(http.StatusFound, profilePath(author.Username))
}

// UnfollowAuthor removes the subscription if it exists and redirects to
// the profile either way.
func (server *Server) UnfollowAuthor(c *gin.Context) {
	uid, authenticated := httpctx.CurrentUserID(c)

	user := models.User{}
	author, err := user.FindUserByUsername(server.DB, c.Param("username"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"status": http.StatusNotFound,
			"error":  map[string]string{"Not_found": "User Not Found"},
		})
		return
	}

	if CanFollow(uid, authenticated, author.ID) {
		follow := models.Follow{}
		if _, err := follow.DeleteFollow(server.DB, uid, author.ID); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"status": http.StatusInternalServerError,
				"error":  map[string]string{"Server_error": "Error unfollowing user"},
			})
			return
		}
	}

	c.Redirect(http.StatusFound, profilePath(author.Username))
}

func profilePath(username string) string {
	return fmt.Sprintf("/%s", username)
}
