package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "finpal/internal/errors"
	"finpal/internal/models"
	"finpal/internal/pagination"
	"finpal/internal/services"
)

// ChatHandler handles assistant chat requests.
type ChatHandler struct {
	assistantService services.AssistantServicer
}

// NewChatHandler creates a new ChatHandler.
func NewChatHandler(assistantService services.AssistantServicer) *ChatHandler {
	return &ChatHandler{assistantService: assistantService}
}

// SendMessageRequest represents the chat message payload
type SendMessageRequest struct {
	Content string `json:"content" binding:"required,max=2000"`
}

// ChatMessageResponse represents a chat message in the response
type ChatMessageResponse struct {
	ID        string            `json:"id"`
	UserID    string            `json:"user_id"`
	Content   string            `json:"content"`
	Sender    models.ChatSender `json:"sender"`
	Timestamp time.Time         `json:"timestamp"`
	Status    string            `json:"status,omitempty"`
}

// SendMessage sends a message to the assistant
// @Summary     Send a chat message
// @Description Send a message to the assistant and get the rule-based reply in the same call
// @Tags        chat
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body SendMessageRequest true "Message content"
// @Success     200 {object} ChatMessageResponse "Assistant reply"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /chat/messages [post]
func (h *ChatHandler) SendMessage(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	userMessage, reply, err := h.assistantService.Respond(userID, req.Content)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": userMessage, "reply": reply})
}

// GetHistory returns the conversation history
// @Summary     Get chat history
// @Description Get a paginated conversation history, oldest first
// @Tags        chat
// @Produce     json
// @Security    BearerAuth
// @Param       page query int false "Page number"
// @Param       page_size query int false "Page size"
// @Success     200 {object} pagination.PageResponse[ChatMessageResponse] "Messages"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /chat/messages [get]
func (h *ChatHandler) GetHistory(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.assistantService.GetHistory(userID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
