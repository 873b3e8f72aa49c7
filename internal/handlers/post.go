package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/inkle/inkle-api/internal/models"
	"github.com/inkle/inkle-api/internal/services"
	"github.com/inkle/inkle-api/pkg/logger"
)

type PostHandler struct {
	postService *services.PostService
	logger      *logger.Logger
}

func NewPostHandler(postService *services.PostService, logger *logger.Logger) *PostHandler {
	return &PostHandler{
		postService: postService,
		logger:      logger,
	}
}

func (h *PostHandler) Create(c *gin.Context) {
	current, ok := principal(c)
	if !ok {
		return
	}

	var req services.CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	post, err := h.postService.CreatePost(c.Request.Context(), current, req.Content)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Post created",
		"post":    post,
	})
}

func (h *PostHandler) List(c *gin.Context) {
	current, ok := principal(c)
	if !ok {
		return
	}

	posts, err := h.postService.ListVisiblePosts(c.Request.Context(), current)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if posts == nil {
		posts = []*models.Post{}
	}

	c.JSON(http.StatusOK, posts)
}

func (h *PostHandler) Delete(c *gin.Context) {
	acting, ok := principal(c)
	if !ok {
		return
	}
	postID, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.postService.DeletePost(c.Request.Context(), acting, postID); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Post deleted"})
}

func (h *PostHandler) Like(c *gin.Context) {
	current, ok := principal(c)
	if !ok {
		return
	}
	postID, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.postService.LikePost(c.Request.Context(), current, postID); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Post liked"})
}

func (h *PostHandler) Unlike(c *gin.Context) {
	current, ok := principal(c)
	if !ok {
		return
	}
	postID, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.postService.UnlikePost(c.Request.Context(), current, postID); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Post unliked"})
}
