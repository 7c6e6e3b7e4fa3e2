package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/juanis2112/repoexplorer/internal/middleware"
	"github.com/juanis2112/repoexplorer/internal/models"
	"github.com/juanis2112/repoexplorer/internal/services"
)

// ChatHandler bridges the conversational assistant and the filter pipeline.
// The assistant posts the id-set it resolved for the user's request; the
// dashboard reads back any pending instructions (currently only the reset
// signal).
type ChatHandler struct {
	sessionService *services.SessionService
}

func NewChatHandler(sessionService *services.SessionService) *ChatHandler {
	return &ChatHandler{sessionService: sessionService}
}

func (h *ChatHandler) chat(c *gin.Context) *services.ChatService {
	session := h.sessionService.GetOrCreate(middleware.GetSessionID(c))
	middleware.SetSessionID(c, session.ID)
	return h.sessionService.ChatFor(session.ID)
}

type chatResultRequest struct {
	IDs       []int64 `json:"ids"`
	Positions []int   `json:"positions"`
}

// SetResult handles the assistant publishing a resolved row subset
func (h *ChatHandler) SetResult(c *gin.Context) {
	var req chatResultRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid chat result"})
		return
	}

	chat := h.chat(c)
	chat.SetResult(&models.ChatResult{
		IDs:       req.IDs,
		Positions: req.Positions,
	})
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Clear handles dropping the assistant's filter contribution
func (h *ChatHandler) Clear(c *gin.Context) {
	h.chat(c).Clear()
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Instructions handles the assistant polling for pending dashboard messages
func (h *ChatHandler) Instructions(c *gin.Context) {
	instructions := h.chat(c).DrainInstructions()
	if instructions == nil {
		instructions = []string{}
	}
	c.JSON(http.StatusOK, gin.H{"instructions": instructions})
}
