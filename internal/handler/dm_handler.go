package handler

import (
	"net/http"
	"strconv"

	"Corner_Social/internal/repository/mysql"
	"Corner_Social/internal/repository/redis"
	"Corner_Social/internal/service"

	"github.com/gin-gonic/gin"
)

type DMHandler struct {
	svc       *service.DMService
	reactions *service.ReactionService
}

type StartThreadReq struct {
	Username string `json:"username"`
}

func NewDMHandler() *DMHandler {
	var lock *redis.DistLock
	if redis.Client != nil {
		lock = &redis.DistLock{RDB: redis.Client}
	}
	return &DMHandler{
		svc:       service.NewDMService(mysql.DB, lock),
		reactions: service.NewReactionService(mysql.DB),
	}
}

// StartThread 发起（或复用）与某人的会话
func (h *DMHandler) StartThread(c *gin.Context) {
	var req StartThreadReq
	if err := c.ShouldBindJSON(&req); err != nil || req.Username == "" {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}

	view, err := h.svc.StartThread(c.Request.Context(), currentUserID(c), req.Username)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// ListThreads 我的会话列表，最近活跃在前
func (h *DMHandler) ListThreads(c *gin.Context) {
	list, err := h.svc.ListThreads(currentUserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "list failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"list": list})
}

// ListMessages 会话消息列表；读取即把对方消息标记已读
func (h *DMHandler) ListMessages(c *gin.Context) {
	threadID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || threadID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid thread id"})
		return
	}
	limit, _ := strconv.Atoi(c.Query("limit"))

	list, err := h.svc.ListMessages(currentUserID(c), threadID, limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"list": list})
}

func (h *DMHandler) PostMessage(c *gin.Context) {
	threadID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || threadID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid thread id"})
		return
	}

	var req PostMessageReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}

	view, err := h.svc.PostMessage(currentUserID(c), threadID, req.Text)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// DeleteMessage 删私信，仅发送者本人
func (h *DMHandler) DeleteMessage(c *gin.Context) {
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

func (h *DMHandler) React(c *gin.Context) {
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

	if err := h.reactions.ReactDM(currentUserID(c), messageID, req.Emoji); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "ok"})
}

func (h *DMHandler) Unreact(c *gin.Context) {
	messageID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || messageID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid message id"})
		return
	}

	if err := h.reactions.UnreactDM(currentUserID(c), messageID); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "ok"})
}
