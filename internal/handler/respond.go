package handler

import (
	"net/http"

	"Corner_Social/internal/pkg"

	"github.com/gin-gonic/gin"
)

// writeError 业务错误码转 HTTP 状态；对外只暴露短原因，不带内部细节
func writeError(c *gin.Context, err error) {
	msg := "internal error"
	if e, ok := err.(*pkg.AppError); ok {
		msg = e.Message
	}
	switch pkg.CodeOf(err) {
	case pkg.CodeNotFound:
		c.JSON(http.StatusNotFound, gin.H{"msg": msg})
	case pkg.CodePermissionDenied:
		c.JSON(http.StatusForbidden, gin.H{"msg": msg})
	case pkg.CodeUnauthenticated:
		c.JSON(http.StatusUnauthorized, gin.H{"msg": msg})
	case pkg.CodeInvalidArgument, pkg.CodeAlreadyExists, pkg.CodeFailedPrecondition:
		c.JSON(http.StatusBadRequest, gin.H{"msg": msg})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "internal error"})
	}
}

func currentUserID(c *gin.Context) uint64 {
	userIDAny, _ := c.Get("user_id")
	userID, _ := userIDAny.(uint64)
	return userID
}
