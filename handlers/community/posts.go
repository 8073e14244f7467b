package community

import (
	"net/http"

	"github.com/7ever/Nerdo.Africa/handlers/auth"
	"github.com/7ever/Nerdo.Africa/models"
	"github.com/7ever/Nerdo.Africa/utils"
	"github.com/gin-gonic/gin"
)

type postView struct {
	models.Post
	CommentCount int64 `json:"comment_count"`
	LikeCount    int64 `json:"like_count"`
}

// ListPosts returns the community feed, newest first.
func ListPosts(c *gin.Context) {
	var posts []models.Post
	if err := utils.DB.Order("created_at DESC").Find(&posts).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch posts"})
		return
	}

	views := make([]postView, 0, len(posts))
	for _, post := range posts {
		view := postView{Post: post}
		utils.DB.Model(&models.Comment{}).Where("post_id = ?", post.ID).Count(&view.CommentCount)
		utils.DB.Model(&models.PostLike{}).Where("post_id = ?", post.ID).Count(&view.LikeCount)
		views = append(views, view)
	}

	c.JSON(http.StatusOK, gin.H{"posts": views})
}

func CreatePost(c *gin.Context) {
	user, exists := auth.CurrentUser(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	var input struct {
		Content  string `json:"content" binding:"required"`
		ImageURL string `json:"image_url"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Post content is required."})
		return
	}

	post := models.Post{
		AuthorID: user.ID,
		Content:  input.Content,
		ImageURL: input.ImageURL,
	}
	if err := utils.DB.Create(&post).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to share post"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Your post has been shared!", "post": post})
}

func GetPost(c *gin.Context) {
	var post models.Post
	if err := utils.DB.First(&post, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}

	var comments []models.Comment
	if err := utils.DB.Where("post_id = ?", post.ID).Order("created_at ASC").Find(&comments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch comments"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"post": post, "comments": comments})
}

func DeletePost(c *gin.Context) {
	user, exists := auth.CurrentUser(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	var post models.Post
	if err := utils.DB.First(&post, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}
	if post.AuthorID != user.ID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You are not authorized to delete this post."})
		return
	}

	if err := utils.DB.Delete(&post).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete post"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Post deleted."})
}

func CreateComment(c *gin.Context) {
	user, exists := auth.CurrentUser(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	var post models.Post
	if err := utils.DB.First(&post, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}

	var input struct {
		Content string `json:"content" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Comment content is required."})
		return
	}

	comment := models.Comment{
		PostID:   post.ID,
		AuthorID: user.ID,
		Content:  input.Content,
	}
	if err := utils.DB.Create(&comment).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add comment"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Comment added!", "comment": comment})
}

// ToggleLike flips the caller's like on a post and reports the new state.
func ToggleLike(c *gin.Context) {
	user, exists := auth.CurrentUser(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	var post models.Post
	if err := utils.DB.First(&post, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Post not found"})
		return
	}

	liked := false
	var like models.PostLike
	err := utils.DB.Where("post_id = ? AND user_id = ?", post.ID, user.ID).First(&like).Error
	if err == nil {
		if err := utils.DB.Delete(&like).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update like"})
			return
		}
	} else {
		like = models.PostLike{PostID: post.ID, UserID: user.ID}
		if err := utils.DB.Create(&like).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update like"})
			return
		}
		liked = true
	}

	var total int64
	utils.DB.Model(&models.PostLike{}).Where("post_id = ?", post.ID).Count(&total)

	c.JSON(http.StatusOK, gin.H{
		"liked":       liked,
		"total_likes": total,
	})
}
