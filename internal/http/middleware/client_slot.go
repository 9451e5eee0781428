package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/iamhemantkumawat/f3fitness-sub000/domain"
)

const slotIDKey = "slot_id"

// ClientSlot binds every request to a credential slot via a signed portal
// cookie. A missing or invalid cookie gets a fresh slot; the cookie itself
// carries no authentication.
func ClientSlot(tokens domain.SlotTokenService, cookieName string, ttl time.Duration) gin.HandlerFunc {
	return gin.HandlerFunc(func(c *gin.Context) {
		if raw, err := c.Cookie(cookieName); err == nil {
			if slotID, err := tokens.Validate(raw); err == nil {
				c.Set(slotIDKey, slotID)
				c.Next()
				return
			}
		}

		slotID := uuid.NewString()
		signed, err := tokens.Issue(slotID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to establish client slot"})
			c.Abort()
			return
		}
		c.SetCookie(cookieName, signed, int(ttl.Seconds()), "/", "", false, true)
		c.Set(slotIDKey, slotID)
		c.Next()
	})
}

// SlotID returns the request's slot ID set by ClientSlot.
func SlotID(c *gin.Context) string {
	if v, ok := c.Get(slotIDKey); ok {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}
