package middleware

import (
	"net/http"
	"strings"

	"garagio/utils"

	"github.com/gin-gonic/gin"
)

// CustomerAuthMiddleware requires a bearer credential issued by the
// identity collaborator and places the customer ID on the context.
func CustomerAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Insufficient authorization",
				"code":  0,
			})
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Insufficient authorization",
				"code":  0,
			})
			return
		}

		customerID, err := utils.ExtractCustomerIDFromToken(tokenString)
		if err != nil || customerID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Insufficient authorization",
				"code":  0,
			})
			return
		}

		c.Set("customerID", customerID)
		c.Next()
	}
}
