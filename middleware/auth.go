package middleware

import (
	"net/http"

	"github.com/Power-Sh3ll/CIS440-Spectra/db"
	"github.com/Power-Sh3ll/CIS440-Spectra/models"
	"github.com/Power-Sh3ll/CIS440-Spectra/utils"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Auth validates the token from the Authorization header. The header carries
// the token verbatim (no Bearer scheme); the browser clients send it that way.
// A valid token whose account has since been deleted is rejected, so deleting
// an account deauthorizes it immediately without a revocation list.
func Auth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := c.GetHeader("Authorization")
		if tokenString == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Access denied. No token provided."})
			c.Abort()
			return
		}

		claims, err := utils.ParseToken(tokenString)
		if err != nil {
			utils.Logger.Warn("token_rejected", zap.Error(err))
			c.JSON(http.StatusForbidden, gin.H{"message": "Invalid token."})
			c.Abort()
			return
		}

		var user models.User
		err = db.DB.WithContext(c.Request.Context()).
			Where("email = ?", claims.Email).
			First(&user).Error
		if err != nil {
			utils.Logger.Warn("token_account_missing", zap.String("email", claims.Email))
			c.JSON(http.StatusForbidden, gin.H{"message": "Account not found or deactivated."})
			c.Abort()
			return
		}

		c.Set("user", user)
		c.Next()
	}
}

// CurrentUser returns the account loaded by Auth.
func CurrentUser(c *gin.Context) (models.User, bool) {
	v, exists := c.Get("user")
	if !exists {
		return models.User{}, false
	}
	user, ok := v.(models.User)
	return user, ok
}
