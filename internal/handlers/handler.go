package handlers

import (
	"go.uber.org/zap"

	"github.com/harentsoaR/school-api/internal/models"
	"github.com/harentsoaR/school-api/internal/resource"
	"github.com/harentsoaR/school-api/internal/store"
)

// Handler serves the routes that are not plain CRUD: login and health.
type Handler struct {
	Store     store.Store
	Users     *resource.Engine[models.User]
	JWTSecret string
	Logger    *zap.Logger
}

func NewHandler(s store.Store, users *resource.Engine[models.User], jwtSecret string, logger *zap.Logger) *Handler {
	return &Handler{
		Store:     s,
		Users:     users,
		JWTSecret: jwtSecret,
		Logger:    logger,
	}
}
