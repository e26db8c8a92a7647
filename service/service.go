// Package service implements the application logic between the HTTP
// handlers and the data layer.
package service

import (
	"github.com/learnhub/learnhub/ai"
	"github.com/learnhub/learnhub/config"
	"github.com/learnhub/learnhub/data"
	"github.com/learnhub/learnhub/data/repository"
	"github.com/learnhub/learnhub/email"
	"github.com/learnhub/learnhub/logging/logger"
	"github.com/learnhub/learnhub/security/jwt"
)

// Service aggregates all application services.
type Service struct {
	Auth    *AuthService
	Task    *TaskService
	Catalog *CatalogService
	Chat    *ChatService

	d   *data.Data
	log *logger.Logger
}

// New wires services from configuration and the data layer.
func New(cfg *config.Config, d *data.Data, log *logger.Logger) (*Service, error) {
	tm := jwt.NewTokenManager(cfg.Auth.JWTSecret, &jwt.TokenConfig{
		AccessTokenExpiry:  cfg.Auth.AccessTokenExpiry,
		RefreshTokenExpiry: cfg.Auth.RefreshTokenExpiry,
	})

	sender, err := email.NewSender(cfg.Email, log)
	if err != nil {
		return nil, err
	}

	aiClient := ai.NewClient(cfg.AI)

	users := repository.NewUserRepository(d)
	sessions := repository.NewSessionRepository(d)
	resetTokens := repository.NewResetTokenRepository(d)
	tasks := repository.NewTaskRepository(d)
	products := repository.NewProductRepository(d)
	chunks := repository.NewChunkRepository(d)

	return &Service{
		Auth:    NewAuthService(cfg.Auth, users, sessions, resetTokens, tm, sender, log),
		Task:    NewTaskService(cfg.AI, tasks, aiClient, log),
		Catalog: NewCatalogService(products, log),
		Chat:    NewChatService(cfg.AI, chunks, aiClient, d.Redis(), log),
		d:       d,
		log:     log,
	}, nil
}

// TokenManager exposes the token manager for the auth middleware.
func (s *Service) TokenManager() *jwt.TokenManager {
	return s.Auth.tm
}
