package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/soyamkaran351-cloud/Farmer-support-system/internal/logger"
	"github.com/soyamkaran351-cloud/Farmer-support-system/internal/metrics"
	"github.com/soyamkaran351-cloud/Farmer-support-system/internal/middleware"
	"github.com/soyamkaran351-cloud/Farmer-support-system/internal/model"
	"github.com/soyamkaran351-cloud/Farmer-support-system/internal/service"
)

const (
	maxHistory = 20
	chatFailed = "Failed to get a response"
)

type ChatHandler struct {
	ai      *service.AIService
	metrics *metrics.Recorder
}

func NewChatHandler(ai *service.AIService, m *metrics.Recorder) *ChatHandler {
	return &ChatHandler{ai: ai, metrics: m}
}

// POST /functions/v1/farmer-chatbot  body: {"messages":[{"role":"user","content":"..."}]}
func (h *ChatHandler) Chat(c *gin.Context) {
	history, ok := bindHistory(c)
	if !ok {
		return
	}
	uid := middleware.UserID(c)
	logger.Info("chat", "uid", uid, "turns", len(history))

	reply, err := h.ai.Chat(c.Request.Context(), history)
	if err != nil {
		status, msg := aiFailure(err, chatFailed)
		h.metrics.Refresh("chat", metrics.OutcomeError, 0)
		logger.Error("chat.failed", "uid", uid, "status", status, "err", err)
		c.JSON(status, gin.H{"error": msg})
		return
	}
	h.metrics.Refresh("chat", metrics.OutcomeSuccess, 1)
	c.JSON(http.StatusOK, model.ChatResponse{Message: reply})
}

// POST /functions/v1/farmer-chatbot/stream
// Emits "token" events as the reply arrives, then "done", or a single
// "error" event if the gateway call fails.
func (h *ChatHandler) ChatStream(c *gin.Context) {
	history, ok := bindHistory(c)
	if !ok {
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Status(http.StatusOK)

	uid := middleware.UserID(c)
	sse := &sseWriter{w: c.Writer, f: c.Writer}
	logger.Info("chat.stream", "uid", uid, "turns", len(history))

	reply, err := h.ai.StreamChat(c.Request.Context(), history, sse.token)
	if err != nil {
		status, msg := aiFailure(err, chatFailed)
		h.metrics.Refresh("chat", metrics.OutcomeError, 0)
		logger.Error("chat.stream.failed", "uid", uid, "status", status, "partial", len(reply), "err", err)
		sse.fail(status, msg)
		return
	}
	h.metrics.Refresh("chat", metrics.OutcomeSuccess, 1)
	sse.done()
}

// bindHistory reads and checks the conversation, answering 400 itself when it
// is unusable. Only the most recent turns are forwarded.
func bindHistory(c *gin.Context) ([]model.ChatMessage, bool) {
	var req model.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil || len(req.Messages) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "messages are required"})
		return nil, false
	}
	for _, m := range req.Messages {
		if m.Role != "user" && m.Role != "assistant" {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("unsupported role %q", m.Role)})
			return nil, false
		}
		if strings.TrimSpace(m.Content) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "message content is empty"})
			return nil, false
		}
	}
	h := req.Messages
	if len(h) > maxHistory {
		h = h[len(h)-maxHistory:]
	}
	return h, true
}

type sseWriter struct {
	w http.Flusher
	f gin.ResponseWriter
}

func (s *sseWriter) event(name string, data interface{}) {
	j, _ := json.Marshal(data)
	fmt.Fprintf(s.f, "event: %s\ndata: %s\n\n", name, j)
	s.w.Flush()
}

func (s *sseWriter) token(t string) {
	s.event("token", map[string]string{"token": t})
}

func (s *sseWriter) done() {
	s.event("done", map[string]string{})
}

func (s *sseWriter) fail(status int, msg string) {
	s.event("error", gin.H{"status": status, "error": msg})
}
