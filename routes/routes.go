package routes

import (
	"time"

	"github.com/Power-Sh3ll/CIS440-Spectra/handlers"
	"github.com/Power-Sh3ll/CIS440-Spectra/middleware"
	"github.com/gin-gonic/gin"
)

// Register wires every API route. Protected routes sit behind the token
// middleware; the two credential endpoints get an IP rate limit instead.
func Register(r *gin.Engine) {
	limiter := middleware.RateLimit(20, time.Minute)
	r.POST("/api/create-account", limiter, handlers.CreateAccount)
	r.POST("/api/login", limiter, handlers.Login)

	api := r.Group("/api")
	api.Use(middleware.Auth())
	{
		api.GET("/profile", handlers.Profile)

		api.GET("/activity", handlers.GetActivity)
		api.POST("/activity/update", handlers.UpdateActivity)
		api.POST("/activity/goals", handlers.UpdateGoals)

		api.GET("/carbon", handlers.GetCarbon)
		api.POST("/carbon/save", handlers.SaveCarbon)

		api.GET("/leaderboard", middleware.CacheResponse(30*time.Second), handlers.Leaderboard)

		api.GET("/friends", handlers.ListFriends)
		api.POST("/friends/request", handlers.SendFriendRequest)
		api.POST("/friends/accept", handlers.AcceptFriendRequest)
		api.POST("/friends/decline", handlers.DeclineFriendRequest)
		api.DELETE("/friends/cancel", handlers.CancelFriendRequest)
		api.DELETE("/friends/remove", handlers.RemoveFriend)

		api.GET("/users", handlers.ListUserEmails)
		api.GET("/users/search", handlers.SearchUsers)

		api.GET("/user/badges", middleware.CacheResponse(30*time.Second), handlers.ListBadges)

		api.GET("/settings", handlers.GetSettings)
		api.POST("/settings", handlers.SaveSettings)
	}
}
