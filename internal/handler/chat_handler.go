package handler

import (
	"net/http"
	"strconv"

	"Corner_Social/internal/repository/mysql"
	"Corner_Social/internal/service"

	"github.com/gin-gonic/gin"
)

type ChatHandler struct {
	svc       *service.ChatService
	reactions *service.ReactionService
}

type PostMessageReq struct {
	Text string `json:"text"`
}

type ReactionReq struct {
	Emoji string `json:"emoji"`
}

func NewChatHandler() *ChatHandler {
	return &ChatHandler{
		svc:       service.NewChatService(mysql.DB),
		reactions: service.NewReactionService(mysql.DB),
	}
}

// ListGlobal 全局聊天消息列表（最近一窗，时间正序）
func (h *ChatHandler) ListGlobal(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))

	list, err := h.svc.ListGlobal(currentUserID(c), limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"list": list})
}

func (h *ChatHandler) PostGlobal(c *gin.Context) {
	var req PostMessageReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}

	view, err := h.svc.PostGlobal(currentUserID(c), req.Text)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// Delete 删消息，仅作者本人
func (h *ChatHandler) Delete(c *gin.Context) {
	messageID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || messageID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid message id"})
		return
	}

	if err := h.svc.Delete(currentUserID(c), messageID); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "deleted"})
}

// React 贴表情（重复贴覆盖 emoji）
func (h *ChatHandler) React(c *gin.Context) {
	messageID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || messageID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid message id"})
		return
	}

	var req ReactionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}

	if err := h.reactions.ReactChat(currentUserID(c), messageID, req.Emoji); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "ok"})
}

// Unreact 撤表情（幂等）
func (h *ChatHandler) Unreact(c *gin.Context) {
	messageID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || messageID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid message id"})
		return
	}

	if err := h.reactions.UnreactChat(currentUserID(c), messageID); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "ok"})
}

// ListCommunity 社区聊天消息列表
func (h *ChatHandler) ListCommunity(c *gin.Context) {
	communityID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || communityID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid community id"})
		return
	}
	limit, _ := strconv.Atoi(c.Query("limit"))

	list, err := h.svc.ListCommunity(currentUserID(c), communityID, limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"list": list})
}

func (h *ChatHandler) PostCommunity(c *gin.Context) {
	communityID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || communityID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid community id"})
		return
	}

	var req PostMessageReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}

	view, err := h.svc.PostCommunity(currentUserID(c), communityID, req.Text)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}
