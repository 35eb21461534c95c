package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"finpal/internal/models"
	"finpal/internal/services"
)

// NudgeHandler handles spending-nudge requests.
type NudgeHandler struct {
	nudgeService services.NudgeServicer
}

// NewNudgeHandler creates a new NudgeHandler.
func NewNudgeHandler(nudgeService services.NudgeServicer) *NudgeHandler {
	return &NudgeHandler{nudgeService: nudgeService}
}

// NudgeResponse represents a nudge in the response
type NudgeResponse struct {
	ID         string           `json:"id"`
	UserID     string           `json:"user_id"`
	Message    string           `json:"message"`
	Type       models.NudgeType `json:"type"`
	Date       time.Time        `json:"date"`
	Read       bool             `json:"read"`
	Actionable bool             `json:"actionable"`
}

// ListNudges returns the user's persisted nudges
// @Summary     List nudges
// @Description Get the user's nudge history, newest first, capped at ten entries
// @Tags        nudges
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array} NudgeResponse "Nudges"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /nudges [get]
func (h *NudgeHandler) ListNudges(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	nudges, err := h.nudgeService.GetUserNudges(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"nudges": nudges})
}

// GenerateNudges runs nudge generation on demand
// @Summary     Generate nudges
// @Description Run the nudge heuristics over the user's current data and return the run result
// @Tags        nudges
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} services.NudgeRun "Generation result"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /nudges/generate [post]
func (h *NudgeHandler) GenerateNudges(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	run, err := h.nudgeService.Generate(userID, time.Now())
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, run)
}

// MarkNudgeRead marks a nudge as read
// @Summary     Mark a nudge read
// @Description Flip the read flag on a nudge
// @Tags        nudges
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Nudge ID"
// @Success     200 {object} NudgeResponse "Updated nudge"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Nudge not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /nudges/{id}/read [post]
func (h *NudgeHandler) MarkNudgeRead(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	nudge, err := h.nudgeService.MarkRead(userID, c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"nudge": nudge})
}
