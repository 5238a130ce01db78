package router

import (
	"Corner_Social/internal/handler"
	"Corner_Social/internal/middleware"

	"github.com/gin-gonic/gin"
)

func InitRouter() *gin.Engine {
	r := gin.Default()

	user := handler.NewUserHandler()
	community := handler.NewCommunityHandler()
	chat := handler.NewChatHandler()
	dm := handler.NewDMHandler()
	photo := handler.NewPhotoHandler()

	// 用户相关接口
	userGroup := r.Group("/api/user")
	{
		userGroup.POST("/register", user.Register)
		userGroup.POST("/login", user.Login)
	}

	// token相关接口
	tokenGroup := r.Group("/api/token")
	{
		tokenGroup.POST("/refresh", user.TokenRefresh)
	}

	// 登录态用户接口
	authGroup := r.Group("/api/auth")
	authGroup.Use(middleware.AuthMiddleware())
	{
		authGroup.POST("/logout", user.Logout)
		authGroup.GET("/user/resolve", user.Resolve)
		authGroup.GET("/user/search", user.Search)
	}

	// 社区相关接口
	communityGroup := r.Group("/api/community")
	communityGroup.Use(middleware.AuthMiddleware())
	{
		communityGroup.POST("/create", community.Create)
		communityGroup.GET("/list", community.List)
		communityGroup.POST("/:id/members", community.AddMember)
		communityGroup.GET("/:id/members", community.ListMembers)
		communityGroup.GET("/:id/chat", chat.ListCommunity)
		communityGroup.POST("/:id/chat", chat.PostCommunity)
	}

	// 聊天相关接口（全局房间 + 消息级操作）
	chatGroup := r.Group("/api/chat")
	chatGroup.Use(middleware.AuthMiddleware())
	{
		chatGroup.GET("/messages", chat.ListGlobal)
		chatGroup.POST("/messages", chat.PostGlobal)
		chatGroup.DELETE("/messages/:id", chat.Delete)
		chatGroup.POST("/messages/:id/react", chat.React)
		chatGroup.DELETE("/messages/:id/react", chat.Unreact)
	}

	// 私信相关接口
	dmGroup := r.Group("/api/dm")
	dmGroup.Use(middleware.AuthMiddleware())
	{
		dmGroup.POST("/threads", dm.StartThread)
		dmGroup.GET("/threads", dm.ListThreads)
		dmGroup.GET("/threads/:id/messages", dm.ListMessages)
		dmGroup.POST("/threads/:id/messages", dm.PostMessage)
		dmGroup.DELETE("/messages/:id", dm.DeleteMessage)
		dmGroup.POST("/messages/:id/react", dm.React)
		dmGroup.DELETE("/messages/:id/react", dm.Unreact)
	}

	// 照片评论相关接口
	photoGroup := r.Group("/api/photo")
	photoGroup.Use(middleware.AuthMiddleware())
	{
		photoGroup.GET("/:id/comments", photo.ListComments)
		photoGroup.POST("/:id/comments", photo.AddComment)
		photoGroup.DELETE("/comments/:id", photo.DeleteComment)
	}

	return r
}
