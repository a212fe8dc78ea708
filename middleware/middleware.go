package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
	"gorm.io/gorm"

	"github.com/ColtenOuO/TurkeyPOS/models"
	"github.com/ColtenOuO/TurkeyPOS/utils"
)

const CallerContextKey = "caller"

// RequireAuth validates the Bearer token and resolves it into a utils.Caller.
// Store tokens are re-checked against the stores table here: a deleted or
// deactivated store is rejected before any order handler runs.
func RequireAuth(tokens *utils.TokenService, db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := c.GetHeader("Authorization")
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is missing"})
			return
		}
		tokenString = strings.TrimPrefix(tokenString, "Bearer ")

		claims, err := tokens.ValidateToken(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		var caller utils.Caller
		switch utils.Role(claims.Role) {
		case utils.RoleAdmin:
			caller = utils.Caller{Role: utils.RoleAdmin}
		case utils.RoleStore:
			storeID, err := strconv.ParseUint(claims.Subject, 10, 64)
			if err != nil {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
				return
			}
			var store models.Store
			if err := db.First(&store, uint(storeID)).Error; err != nil {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Store inactive or not found"})
				return
			}
			if !store.IsActive {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Store inactive or not found"})
				return
			}
			caller = utils.Caller{Role: utils.RoleStore, StoreID: store.ID}
		default:
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		c.Set(CallerContextKey, caller)
		c.Next()
	}
}

// RequireAdmin must run after RequireAuth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, ok := CallerFromContext(c)
		if !ok || caller.Role != utils.RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
			return
		}
		c.Next()
	}
}

func CallerFromContext(c *gin.Context) (utils.Caller, bool) {
	v, exists := c.Get(CallerContextKey)
	if !exists {
		return utils.Caller{}, false
	}
	caller, ok := v.(utils.Caller)
	return caller, ok
}

func RateLimit() gin.HandlerFunc {
	limiter := rate.NewLimiter(rate.Every(time.Second), 100)

	return func(c *gin.Context) {
		if !limiter.Allow() {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":       "Rate limit exceeded",
				"retry_after": "1s",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}
