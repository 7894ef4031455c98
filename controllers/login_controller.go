package controllers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/DenisSivko/hw05-final/auth"
	"github.com/DenisSivko/hw05-final/models"
	"github.com/DenisSivko/hw05-final/security"
	"github.com/DenisSivko/hw05-final/utils/formaterror"
	"github.com/DenisSivko/hw05-final/utils/mailer"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const authCookieMaxAge = 60 * 60 * 24

// Login authenticates with email and password and issues a JWT, both
// in the response body and as a cookie for browser flows. The optional
// "next" query parameter is echoed back so the client can return to the
// page that bounced it here.
func (server *Server) Login(c *gin.Context) {
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
	if errorMessages := user.Validate("login"); len(errorMessages) > 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"status": http.StatusUnprocessableEntity,
			"error":  errorMessages,
		})
		return
	}

	userData, token, err := server.SignIn(user.Email, user.Password)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"status": http.StatusUnprocessableEntity,
			"error":  formaterror.FormatError(err.Error()),
		})
		return
	}

	if next := c.Query("next"); next != "" && strings.HasPrefix(next, "/") {
		userData["next"] = next
	}

	c.SetCookie("auth_token", token, authCookieMaxAge, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{
		"status":   http.StatusOK,
		"response": userData,
	})
}

func (server *Server) SignIn(email, password string) (map[string]interface{}, string, error) {
	user := models.User{}

	normalizedEmail := strings.ToLower(strings.TrimSpace(email))
	err := server.DB.Model(models.User{}).Where("lower(email) = ?", normalizedEmail).Take(&user).Error
	if err != nil {
		return nil, "", err
	}
	if err := security.VerifyPassword(user.Password, password); err != nil {
		return nil, "", errors.New("hashedPassword mismatch")
	}
	token, err := auth.CreateToken(user.ID)
	if err != nil {
		return nil, "", err
	}

	userData := map[string]interface{}{
		"token":    token,
		"id":       user.ID,
		"email":    user.Email,
		"username": user.Username,
		"is_admin": user.IsAdmin,
	}
	return userData, token, nil
}

// ForgotPassword mails a one-time reset token. The response does not
// reveal whether the email belongs to an account.
func (server *Server) ForgotPassword(c *gin.Context) {
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
	if errorMessages := user.Validate("forgotpassword"); len(errorMessages) > 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"status": http.StatusUnprocessableEntity,
			"error":  errorMessages,
		})
		return
	}

	neutralResponse := gin.H{
		"status":   http.StatusOK,
		"response": "If the email exists, a reset link has been sent",
	}

	existing := models.User{}
	if err := server.DB.Model(models.User{}).Where("email = ?", user.Email).Take(&existing).Error; err != nil {
		c.JSON(http.StatusOK, neutralResponse)
		return
	}

	details := models.ResetPassword{
		Email: existing.Email,
		Token: uuid.NewString(),
	}
	details.Prepare()
	if _, err := details.SaveDetails(server.DB); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": http.StatusInternalServerError,
			"error":  map[string]string{"Server_error": "Cannot create reset token"},
		})
		return
	}

	appURL := os.Getenv("APP_URL")
	if appURL == "" {
		appURL = "http://localhost:8888"
	}
	if _, err := mailer.SendResetPassword(existing.Email, os.Getenv("SENDGRID_FROM"), details.Token, appURL); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": http.StatusInternalServerError,
			"error":  map[string]string{"Server_error": "Cannot send reset email"},
		})
		return
	}

	c.JSON(http.StatusOK, neutralResponse)
}

// ResetPassword exchanges a valid token for a new password. Tokens are
// single-use.
func (server *Server) ResetPassword(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"status": http.StatusUnprocessableEntity,
			"error":  map[string]string{"Invalid_body": "Unable to get request"},
		})
		return
	}

	var request struct {
		Token          string `json:"token"`
		NewPassword    string `json:"new_password"`
		RetypePassword string `json:"retype_password"`
	}
	if err := json.Unmarshal(body, &request); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"status": http.StatusUnprocessableEntity,
			"error":  map[string]string{"Unmarshal_error": "Cannot unmarshal body"},
		})
		return
	}

	errList := map[string]string{}
	if strings.TrimSpace(request.Token) == "" {
		errList["Required_token"] = "Required Token"
	}
	if len(request.NewPassword) < 6 {
		errList["Invalid_password"] = "Password should be at least 6 characters"
	}
	if request.NewPassword != request.RetypePassword {
		errList["Password_unequal"] = "Passwords provided do not match"
	}
	if len(errList) > 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"status": http.StatusUnprocessableEntity,
			"error":  errList,
		})
		return
	}

	details := models.ResetPassword{}
	found, err := details.FindByToken(server.DB, request.Token)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"status": http.StatusUnprocessableEntity,
			"error":  map[string]string{"Invalid_token": "Invalid or expired token"},
		})
		return
	}

	user := models.User{Email: found.Email, Password: request.NewPassword}
	if err := user.UpdatePassword(server.DB); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": http.StatusInternalServerError,
			"error":  map[string]string{"Server_error": "Cannot update password"},
		})
		return
	}
	_, _ = found.DeleteDetails(server.DB)

	c.JSON(http.StatusOK, gin.H{
		"status":   http.StatusOK,
		"response": "Password updated, please login with your new password",
	})
}
