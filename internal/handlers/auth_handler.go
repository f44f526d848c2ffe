package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/harentsoaR/school-api/internal/models"
	"github.com/harentsoaR/school-api/internal/resource"
	"github.com/harentsoaR/school-api/internal/utils"
)

type LoginRequest struct {
	// Login is a username or an email address.
	Login    string `json:"login" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

// Login exchanges a username or email and password for a JWT.
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "login and password are required"})
		return
	}

	user, err := h.findLoginUser(c, req.Login)
	if resource.KindOf(err) == resource.KindNotFound {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}

	if !utils.CheckPasswordHash(req.Password, user.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	token, err := utils.GenerateJWT(h.JWTSecret, user.ID.Hex(), user.AccessLevel)
	if err != nil {
		h.Logger.Error("could not generate token", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not generate token"})
		return
	}

	c.JSON(http.StatusOK, LoginResponse{Token: token, User: user})
}

func (h *Handler) findLoginUser(c *gin.Context, login string) (models.User, error) {
	user, err := h.Users.Lookup(c.Request.Context(), "username", login)
	if resource.KindOf(err) != resource.KindNotFound {
		return user, err
	}
	return h.Users.Lookup(c.Request.Context(), "email", login)
}

// EnsureAdmin creates the bootstrap account unless a user with that username
// already exists. It reports whether a user was created.
func EnsureAdmin(ctx context.Context, users *resource.Engine[models.User], username, email, password string) (bool, error) {
	_, err := users.Lookup(ctx, "username", username)
	if err == nil {
		return false, nil
	}
	if resource.KindOf(err) != resource.KindNotFound {
		return false, err
	}
	_, err = users.Create(ctx, map[string]any{
		"name":        username,
		"email":       email,
		"username":    username,
		"password":    password,
		"accessLevel": models.AdminAccessLevel,
		"status":      "active",
	})
	return err == nil, err
}
