package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/learnhub/learnhub/logging/logger"
	"github.com/learnhub/learnhub/net/resp"
	"github.com/learnhub/learnhub/service"
)

// ChatHandler serves the study assistant endpoints.
type ChatHandler struct {
	svc *service.ChatService
	log *logger.Logger
}

// NewChatHandler creates a chat handler.
func NewChatHandler(svc *service.ChatService, log *logger.Logger) *ChatHandler {
	return &ChatHandler{svc: svc, log: log}
}

// Ask answers a question over the ingested study material.
func (h *ChatHandler) Ask(c *gin.Context) {
	var req service.AskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.Fail(c.Writer, resp.BadRequest(err.Error()))
		return
	}

	answer, err := h.svc.Ask(c.Request.Context(), &req)
	if err != nil {
		resp.Fail(c.Writer, failure(c.Request.Context(), h.log, err))
		return
	}
	resp.Success(c.Writer, answer)
}

// Health reports chat subsystem readiness.
func (h *ChatHandler) Health(c *gin.Context) {
	health, err := h.svc.Health(c.Request.Context())
	if err != nil {
		resp.Fail(c.Writer, failure(c.Request.Context(), h.log, err))
		return
	}
	resp.Success(c.Writer, health)
}
