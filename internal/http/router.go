package httpx

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/iamhemantkumawat/f3fitness-sub000/domain"
	"github.com/iamhemantkumawat/f3fitness-sub000/internal/http/handlers"
	"github.com/iamhemantkumawat/f3fitness-sub000/internal/http/middleware"
	"github.com/iamhemantkumawat/f3fitness-sub000/internal/services"
)

func BuildRouter(ah *handlers.AuthHandlers, dh *handlers.DashboardHandlers, mgr *services.SessionManager, gate *services.AccessService, slotTokens domain.SlotTokenService, cookieName string, cookieTTL time.Duration) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"ok": true}) })

	slot := middleware.ClientSlot(slotTokens, cookieName, cookieTTL)

	// Login and registration screens. Signed-in visitors are sent home.
	public := r.Group("/auth").Use(slot, middleware.PublicOnly(mgr, gate))
	public.POST("/login", ah.Login)
	public.POST("/signup", ah.SignupDirect)
	public.POST("/register", ah.Register)
	public.GET("/register/status", ah.RegistrationStatus)
	public.POST("/register/resend", ah.ResendOTP)
	public.POST("/register/verify", ah.VerifyOTP)
	public.POST("/register/restart", ah.RestartRegistration)

	// Session endpoints behind the slot only. Logout stays reachable in any
	// state and the session probe reports loading rather than redirecting.
	session := r.Group("/auth").Use(slot)
	session.GET("/session", ah.SessionInfo)
	session.POST("/logout", ah.Logout)

	// Role-gated pages and data views.
	protected := r.Group("/").Use(slot, middleware.RequireSession(mgr, gate))
	protected.GET("/member", dh.MemberHome)
	protected.GET("/admin", dh.AdminHome)
	protected.GET("/trainer", dh.TrainerHome)
	protected.GET("/reception", dh.ReceptionHome)
	protected.GET("/members", dh.Members)
	protected.GET("/attendance/summary", dh.Attendance)
	protected.POST("/broadcasts", dh.Broadcast)
	protected.PATCH("/auth/profile", ah.UpdateProfile)

	return r
}
