package handlers

import (
	"net/http"

	"github.com/anonto42/alumni-forum/backend/internal/models"
	"github.com/anonto42/alumni-forum/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// ReplyHandler handles HTTP requests for the reply thread of a post
type ReplyHandler struct {
	replyService *services.ReplyService
}

// NewReplyHandler creates a new ReplyHandler
func NewReplyHandler(replyService *services.ReplyService) *ReplyHandler {
	return &ReplyHandler{replyService: replyService}
}

// RegisterReplyRoutes registers reply routes. Reading is public, changes need an actor.
func (h *ReplyHandler) RegisterReplyRoutes(public, protected *echo.Group) {
	public.GET("/posts/:id/replies", h.ListReplies)
	protected.POST("/posts/:id/replies", h.CreateReply)
	protected.PUT("/posts/:id/replies/:replyId", h.UpdateReply)
	protected.DELETE("/posts/:id/replies/:replyId", h.DeleteReply)
	protected.POST("/posts/:id/replies/:replyId/votes", h.VoteReply)
}

// ListReplies returns the nested reply thread of a post
func (h *ReplyHandler) ListReplies(c echo.Context) error {
	forest, err := h.replyService.ListReplies(c.Request().Context(), c.Param("id"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, forest)
}

// CreateReply adds a reply and returns the updated thread
func (h *ReplyHandler) CreateReply(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}

	var req models.CreateReplyRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	postID := c.Param("id")
	forest, created, err := h.replyService.CreateReply(c.Request().Context(), postID, actor, req)
	if err != nil {
		return httpError(err)
	}

	c.Response().Header().Set(echo.HeaderLocation, "/api/v1/posts/"+postID+"/replies/"+created.ID.Hex())
	return c.JSON(http.StatusCreated, forest)
}

// UpdateReply edits the content of a reply and returns the updated thread
func (h *ReplyHandler) UpdateReply(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}

	var req models.UpdateReplyRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	forest, err := h.replyService.EditReply(c.Request().Context(), c.Param("id"), c.Param("replyId"), actor, req.Content)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, forest)
}

// DeleteReply removes a reply with all of its descendants and returns the updated thread
func (h *ReplyHandler) DeleteReply(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}

	forest, err := h.replyService.DeleteReply(c.Request().Context(), c.Param("id"), c.Param("replyId"), actor)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, forest)
}

// VoteReply toggles the actor's vote on a reply
func (h *ReplyHandler) VoteReply(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}

	var req models.VoteRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	replyID := c.Param("replyId")
	count, err := h.replyService.VoteReply(c.Request().Context(), c.Param("id"), replyID, actor, req.Type)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"replyId": replyID, "voteCount": count})
}
