package middlewares

import (
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yaqoubhassan/express-chat-api/models"
	"github.com/yaqoubhassan/express-chat-api/services"
	"github.com/yaqoubhassan/express-chat-api/utils"
)

// TokenAuthMiddleware validates the bearer token and loads the authenticated
// user into the context under "user".
func TokenAuthMiddleware(db *gorm.DB, tokens *services.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			utils.RespondError(c, utils.Unauthorized("Authorization token required"))
			c.Abort()
			return
		}

		userID, err := tokens.Parse(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			utils.RespondError(c, err)
			c.Abort()
			return
		}

		var user models.User
		if err := db.Where("id = ?", userID).First(&user).Error; err != nil {
			utils.RespondError(c, utils.Unauthorized("User no longer exists"))
			c.Abort()
			return
		}

		c.Set("user", &user)
		c.Next()
	}
}

// CurrentUser pulls the authenticated user set by TokenAuthMiddleware.
func CurrentUser(c *gin.Context) *models.User {
	v, exists := c.Get("user")
	if !exists {
		return nil
	}
	user, ok := v.(*models.User)
	if !ok {
		return nil
	}
	return user
}
