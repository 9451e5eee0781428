package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/iamhemantkumawat/f3fitness-sub000/internal/services"
)

const sessionKey = "session"

// RequireSession resolves the slot's session (rehydrating it on first touch)
// and enforces the access decision for the requested path. While the session
// is still resolving the handler never redirects; it answers with a loading
// payload instead.
func RequireSession(mgr *services.SessionManager, gate *services.AccessService) gin.HandlerFunc {
	return gin.HandlerFunc(func(c *gin.Context) {
		sess := mgr.Session(SlotID(c))
		sess.Rehydrate(c.Request.Context())

		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		decision := gate.Decide(sess.Snapshot(), path, c.Request.Method)
		switch {
		case decision.ShowLoading:
			c.Header("Refresh", "1")
			c.JSON(http.StatusOK, gin.H{"data": gin.H{"status": "loading"}})
			c.Abort()
		case decision.RedirectTo != "":
			c.Redirect(http.StatusSeeOther, decision.RedirectTo)
			c.Abort()
		default:
			c.Set(sessionKey, sess)
			c.Next()
		}
	})
}

// PublicOnly sends already authenticated visitors to their role's home page.
// Login and registration screens sit behind this gate.
func PublicOnly(mgr *services.SessionManager, gate *services.AccessService) gin.HandlerFunc {
	return gin.HandlerFunc(func(c *gin.Context) {
		sess := mgr.Session(SlotID(c))
		sess.Rehydrate(c.Request.Context())

		decision := gate.DecidePublic(sess.Snapshot())
		if decision.RedirectTo != "" {
			c.Redirect(http.StatusSeeOther, decision.RedirectTo)
			c.Abort()
			return
		}
		c.Set(sessionKey, sess)
		c.Next()
	})
}

// Session returns the session placed in the context by RequireSession or
// PublicOnly.
func Session(c *gin.Context) *services.SessionService {
	if v, ok := c.Get(sessionKey); ok {
		if s, ok := v.(*services.SessionService); ok {
			return s
		}
	}
	return nil
}
