package handler

import (
	"net/http"
	"strconv"

	"Corner_Social/internal/repository/mysql"
	"Corner_Social/internal/service"

	"github.com/gin-gonic/gin"
)

type PhotoHandler struct {
	svc *service.PhotoService
}

type CommentReq struct {
	Text string `json:"text"`
}

func NewPhotoHandler() *PhotoHandler {
	return &PhotoHandler{
		svc: service.NewPhotoService(mysql.DB),
	}
}

func (h *PhotoHandler) ListComments(c *gin.Context) {
	photoID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || photoID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid photo id"})
		return
	}

	list, err := h.svc.ListComments(photoID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"list": list})
}

func (h *PhotoHandler) AddComment(c *gin.Context) {
	photoID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || photoID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid photo id"})
		return
	}

	var req CommentReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}

	comment, err := h.svc.AddComment(currentUserID(c), photoID, req.Text)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": comment.ID})
}

// DeleteComment 评论作者或照片所有者可删
func (h *PhotoHandler) DeleteComment(c *gin.Context) {
	commentID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || commentID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid comment id"})
		return
	}

	if err := h.svc.DeleteComment(currentUserID(c), commentID); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "deleted"})
}
