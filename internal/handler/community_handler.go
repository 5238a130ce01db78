package handler

import (
	"net/http"
	"strconv"

	"Corner_Social/internal/repository/mysql"
	"Corner_Social/internal/service"

	"github.com/gin-gonic/gin"
)

type CommunityHandler struct {
	svc *service.CommunityService
}

type CommunityCreateReq struct {
	Name      string `json:"name"`
	IsPrivate bool   `json:"is_private"`
}

type AddMemberReq struct {
	Username string `json:"username"`
}

func NewCommunityHandler() *CommunityHandler {
	return &CommunityHandler{
		svc: service.NewCommunityService(mysql.DB),
	}
}

func (h *CommunityHandler) Create(c *gin.Context) {
	var req CommunityCreateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}

	view, err := h.svc.Create(currentUserID(c), req.Name, req.IsPrivate)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *CommunityHandler) List(c *gin.Context) {
	list, err := h.svc.ListMine(currentUserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "list failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"list": list})
}

// AddMember 管理员拉人接口
func (h *CommunityHandler) AddMember(c *gin.Context) {
	communityID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || communityID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid community id"})
		return
	}

	var req AddMemberReq
	if err := c.ShouldBindJSON(&req); err != nil || req.Username == "" {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}

	if err := h.svc.AddMember(currentUserID(c), communityID, req.Username); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "ok"})
}

func (h *CommunityHandler) ListMembers(c *gin.Context) {
	communityID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || communityID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid community id"})
		return
	}

	list, err := h.svc.ListMembers(currentUserID(c), communityID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"list": list})
}
