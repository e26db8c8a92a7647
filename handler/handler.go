// Package handler exposes the HTTP API.
package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/learnhub/learnhub/logging/logger"
	"github.com/learnhub/learnhub/middleware"
	"github.com/learnhub/learnhub/net/resp"
	"github.com/learnhub/learnhub/service"
	validation "github.com/learnhub/learnhub/validation/validator"
)

// Handler aggregates all HTTP handlers.
type Handler struct {
	Auth    *AuthHandler
	Task    *TaskHandler
	Product *ProductHandler
	Chat    *ChatHandler

	svc *service.Service
	log *logger.Logger
}

// New creates the handler aggregate.
func New(svc *service.Service, log *logger.Logger) *Handler {
	return &Handler{
		Auth:    NewAuthHandler(svc.Auth, log),
		Task:    NewTaskHandler(svc.Task, log),
		Product: NewProductHandler(svc.Catalog, log),
		Chat:    NewChatHandler(svc.Chat, log),
		svc:     svc,
		log:     log,
	}
}

// RegisterValidations installs custom binding validators on gin's
// validator engine.
func RegisterValidations() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("strongpassword", func(fl validator.FieldLevel) bool {
			return validation.IsStrongPassword(fl.Field().String())
		})
	}
}

// RegisterRoutes mounts all routes on the engine. rateLimit guards the
// credential and model-backed endpoints; nil disables it.
func (h *Handler) RegisterRoutes(r *gin.Engine, rateLimit gin.HandlerFunc) {
	r.GET("/health", h.Health)

	api := r.Group("/api/v1")

	auth := api.Group("/auth")
	if rateLimit != nil {
		auth.Use(rateLimit)
	}
	{
		auth.POST("/signup", h.Auth.Signup)
		auth.POST("/login", h.Auth.Login)
		auth.POST("/refresh", h.Auth.Refresh)
		auth.POST("/logout", h.Auth.Logout)
		auth.POST("/forgot-password", h.Auth.ForgotPassword)
		auth.POST("/reset-password", h.Auth.ResetPassword)
	}

	authed := api.Group("")
	authed.Use(middleware.Auth(h.svc.TokenManager(), h.log))
	{
		authed.GET("/auth/me", h.Auth.Me)
		authed.PATCH("/auth/me", h.Auth.UpdateMe)
		authed.POST("/auth/change-password", h.Auth.ChangePassword)

		authed.POST("/tasks", h.Task.Create)
		authed.GET("/tasks", h.Task.List)
		authed.GET("/tasks/progress", h.Task.Progress)
		authed.POST("/tasks/ai-generate", h.Task.Generate)
		authed.GET("/tasks/:id", h.Task.Get)
		authed.PATCH("/tasks/:id", h.Task.Update)
		authed.DELETE("/tasks/:id", h.Task.Delete)

		chat := authed.Group("/chat")
		if rateLimit != nil {
			chat.Use(rateLimit)
		}
		chat.POST("/ask", h.Chat.Ask)

		authed.POST("/products", middleware.RequireAdmin(), h.Product.Create)
	}

	api.GET("/products", h.Product.List)
	api.GET("/products/:id", h.Product.Get)
	api.GET("/chat/health", h.Chat.Health)
}

// Health reports service liveness.
func (h *Handler) Health(c *gin.Context) {
	resp.Success(c.Writer, map[string]any{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}
