package handler

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"devmatch/backend/internal/hub"
	"devmatch/backend/internal/models"
	"devmatch/backend/internal/relation"

	"github.com/gin-gonic/gin"
)

// RelationHandler exposes the connection-request operations over HTTP.
type RelationHandler struct {
	svc    *relation.Service
	events *hub.Hub
}

func NewRelationHandler(svc *relation.Service, events *hub.Hub) *RelationHandler {
	return &RelationHandler{svc: svc, events: events}
}

// SendInterest godoc
// @Summary      Send a connection request
// @Description  Expresses interest in another user. Repeating the call while the request is pending is a no-op.
// @Tags         connections
// @Produce      json
// @Security     BearerAuth
// @Param        targetId   path      int  true  "Target User ID"
// @Success      200  {object}  map[string]string "{"message": "Interest sent successfully"}"
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /users/request/sent/interested/{targetId} [patch]
func (h *RelationHandler) SendInterest(c *gin.Context) {
	callerID := c.MustGet("userID").(uint)
	targetID, ok := userIDParam(c, "targetId")
	if !ok {
		return
	}

	if err := h.svc.SendInterest(c.Request.Context(), callerID, targetID); err != nil {
		respondRelationError(c, err)
		return
	}

	h.events.Publish(targetID, hub.Event{
		Type:    hub.EventInterestReceived,
		Payload: gin.H{"from": callerID},
	})

	c.JSON(http.StatusOK, gin.H{"message": "Interest sent successfully"})
}

// WithdrawInterest godoc
// @Summary      Withdraw a connection request
// @Description  Clears a previously sent request. Withdrawing twice is a no-op, not an error.
// @Tags         connections
// @Produce      json
// @Security     BearerAuth
// @Param        targetId   path      int  true  "Target User ID"
// @Success      200  {object}  map[string]string "{"message": "Request withdrawn successfully"}"
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /users/request/sent/rejected/{targetId} [patch]
func (h *RelationHandler) WithdrawInterest(c *gin.Context) {
	callerID := c.MustGet("userID").(uint)
	targetID, ok := userIDParam(c, "targetId")
	if !ok {
		return
	}

	if err := h.svc.WithdrawInterest(c.Request.Context(), callerID, targetID); err != nil {
		respondRelationError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Request withdrawn successfully"})
}

// AcceptRequest godoc
// @Summary      Accept a connection request
// @Description  Converts a pending incoming request into a mutual connection.
// @Tags         connections
// @Produce      json
// @Security     BearerAuth
// @Param        requestUserId   path      int  true  "Requesting User ID"
// @Success      200  {object}  map[string]string "{"message": "Connection accepted"}"
// @Failure      400  {object}  ErrorResponse "No such connection request"
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /users/review/request/accepted/{requestUserId} [patch]
func (h *RelationHandler) AcceptRequest(c *gin.Context) {
	callerID := c.MustGet("userID").(uint)
	requesterID, ok := userIDParam(c, "requestUserId")
	if !ok {
		return
	}

	if err := h.svc.AcceptRequest(c.Request.Context(), callerID, requesterID); err != nil {
		respondRelationError(c, err)
		return
	}

	h.events.Publish(requesterID, hub.Event{
		Type:    hub.EventConnectionAccepted,
		Payload: gin.H{"by": callerID},
	})

	c.JSON(http.StatusOK, gin.H{"message": "Connection accepted"})
}

// RejectRequest godoc
// @Summary      Reject a connection request
// @Description  Clears a pending incoming request from both sides.
// @Tags         connections
// @Produce      json
// @Security     BearerAuth
// @Param        requestUserId   path      int  true  "Requesting User ID"
// @Success      200  {object}  map[string]string "{"message": "Connection rejected"}"
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /users/review/request/rejected/{requestUserId} [patch]
func (h *RelationHandler) RejectRequest(c *gin.Context) {
	callerID := c.MustGet("userID").(uint)
	requesterID, ok := userIDParam(c, "requestUserId")
	if !ok {
		return
	}

	if err := h.svc.RejectRequest(c.Request.Context(), callerID, requesterID); err != nil {
		respondRelationError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Connection rejected"})
}

// ReceivedRequests godoc
// @Summary      List incoming connection requests
// @Tags         connections
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   UserSummaryResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /users/request/received [get]
func (h *RelationHandler) ReceivedRequests(c *gin.Context) {
	callerID := c.MustGet("userID").(uint)

	users, err := h.svc.ListIncomingRequests(c.Request.Context(), callerID)
	if err != nil {
		respondRelationError(c, err)
		return
	}

	c.JSON(http.StatusOK, buildUserSummaries(users))
}

// Connections godoc
// @Summary      List established connections
// @Tags         connections
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   UserSummaryResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /users/connections [get]
func (h *RelationHandler) Connections(c *gin.Context) {
	callerID := c.MustGet("userID").(uint)

	users, err := h.svc.ListConnections(c.Request.Context(), callerID)
	if err != nil {
		respondRelationError(c, err)
		return
	}

	c.JSON(http.StatusOK, buildUserSummaries(users))
}

// Feed godoc
// @Summary      Discovery feed
// @Description  Lists every user except the caller, regardless of relationship state, with pagination.
// @Tags         feed
// @Produce      json
// @Security     BearerAuth
// @Param        page  query     int  false  "Page number" default(1)
// @Param        limit query     int  false  "Items per page" default(10)
// @Success      200  {object}  PaginatedResponse[UserSummaryResponse]
// @Failure      401  {object}  ErrorResponse
// @Router       /users/feed [get]
func (h *RelationHandler) Feed(c *gin.Context) {
	callerID := c.MustGet("userID").(uint)

	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil || limit < 1 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}

	users, total, err := h.svc.ListFeed(c.Request.Context(), callerID, page, limit)
	if err != nil {
		respondRelationError(c, err)
		return
	}

	c.JSON(http.StatusOK, NewPaginatedResponse(buildUserSummaries(users), total, page, limit))
}

// Events godoc
// @Summary      Relation event stream
// @Description  Server-sent events for the caller: interest.received, connection.accepted.
// @Tags         connections
// @Produce      text/event-stream
// @Security     BearerAuth
// @Success      200
// @Failure      401  {object}  ErrorResponse
// @Router       /users/events [get]
func (h *RelationHandler) Events(c *gin.Context) {
	callerID := c.MustGet("userID").(uint)

	client := make(hub.Client, 16)
	h.events.Subscribe(callerID, client)
	defer h.events.Unsubscribe(callerID, client)

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	ctx := c.Request.Context()
	c.Stream(func(w io.Writer) bool {
		select {
		case message, open := <-client:
			if !open {
				return false
			}
			c.SSEvent("message", string(message))
			return true
		case <-ctx.Done():
			return false
		}
	})
}

// region --- Helpers ---

func userIDParam(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return 0, false
	}
	return uint(id), true
}

func respondRelationError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, relation.ErrInvalidArgument):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot send request to yourself"})
	case errors.Is(err, relation.ErrNoSuchRequest):
		c.JSON(http.StatusBadRequest, gin.H{"error": "No such connection request found"})
	case errors.Is(err, relation.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
	case errors.Is(err, relation.ErrPartialWrite):
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Update partially applied, please retry"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

func buildUserSummaries(users []models.User) []UserSummaryResponse {
	summaries := make([]UserSummaryResponse, 0, len(users))
	for _, user := range users {
		summaries = append(summaries, buildUserSummary(user))
	}
	return summaries
}

// endregion
