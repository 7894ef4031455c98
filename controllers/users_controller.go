package controllers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/DenisSivko/hw05-final/cache"
	"github.com/DenisSivko/hw05-final/models"
	"github.com/DenisSivko/hw05-final/utils/formaterror"
	httpctx "github.com/DenisSivko/hw05-final/utils/httpctx"

	"github.com/gin-gonic/gin"
)

// CreateUser registers an account. Reading never needs one; writing
// always does.
func (server *Server) CreateUser(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"status": http.StatusUnprocessableEntity,
			"error":  map[string]string{"Invalid_body": "Unable to get request"},
		})
		return
	}

	user := models.User{}
	if err := json.Unmarshal(body, &user); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"status": http.StatusUnprocessableEntity,
			"error":  map[string]string{"Unmarshal_error": "Cannot unmarshal body"},
		})
		return
	}

	user.Prepare()
	if errorMessages := user.Validate(""); len(errorMessages) > 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"status": http.StatusUnprocessableEntity,
			"error":  errorMessages,
		})
		return
	}

	created, err := user.SaveUser(server.DB)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"status": http.StatusUnprocessableEntity,
			"error":  formaterror.FormatError(err.Error()),
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"status":   http.StatusCreated,
		"response": toUserResponse(created),
	})
}

// UpdateAccount lets the principal change their own email or password.
func (server *Server) UpdateAccount(c *gin.Context) {
	uid, _ := httpctx.CurrentUserID(c)

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"status": http.StatusUnprocessableEntity,
			"error":  map[string]string{"Invalid_body": "Unable to get request"},
		})
		return
	}

	user := models.User{}
	if err := json.Unmarshal(body, &user); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"status": http.StatusUnprocessableEntity,
			"error":  map[string]string{"Unmarshal_error": "Cannot unmarshal body"},
		})
		return
	}

	// A password-only update keeps the stored email.
	if strings.TrimSpace(user.Email) == "" {
		existing := models.User{}
		current, err := existing.FindUserByID(server.DB, uid)
		if err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"status": http.StatusUnprocessableEntity,
				"error":  formaterror.FormatError(err.Error()),
			})
			return
		}
		user.Email = current.Email
	}

	user.Prepare()
	if errorMessages := user.Validate("update"); len(errorMessages) > 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"status": http.StatusUnprocessableEntity,
			"error":  errorMessages,
		})
		return
	}

	updated, err := user.UpdateAUser(server.DB, uid)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"status": http.StatusUnprocessableEntity,
			"error":  formaterror.FormatError(err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   http.StatusOK,
		"response": toUserResponse(updated),
	})
}

// DeleteAccount removes the principal's own account and everything
// attached to it: posts, comments on those posts, the user's comments
// elsewhere, and the user's follow edges in both directions.
func (server *Server) DeleteAccount(c *gin.Context) {
	uid, _ := httpctx.CurrentUserID(c)

	user := models.User{}
	if _, err := user.DeleteAUser(server.DB, uid); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": http.StatusInternalServerError,
			"error":  map[string]string{"Server_error": "Error deleting account"},
		})
		return
	}

	// The user's posts were on cached index pages.
	_ = cache.DeleteByPrefix(context.Background(), "posts:index:")

	c.JSON(http.StatusOK, gin.H{
		"status":   http.StatusOK,
		"response": "Account deleted",
	})
}
