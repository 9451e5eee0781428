package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/iamhemantkumawat/f3fitness-sub000/domain"
	"github.com/iamhemantkumawat/f3fitness-sub000/internal/http/middleware"
	"github.com/iamhemantkumawat/f3fitness-sub000/internal/services"
)

// DashboardHandlers serves the role home pages and the shared data views
// behind them. Every handler here runs behind RequireSession.
type DashboardHandlers struct{}

// NewDashboardHandlers creates new dashboard handlers
func NewDashboardHandlers() *DashboardHandlers {
	return &DashboardHandlers{}
}

// respondError maps remote-call failures to portal responses. A rejected
// session answers with the login redirect; the store and memory were
// already cleared by the time the error surfaces here.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrAuthExpired):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Session expired", "redirect": services.LoginPath})
	case errors.Is(err, domain.ErrNetwork):
		c.JSON(http.StatusBadGateway, gin.H{"error": "Gym service unreachable, please retry"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Request failed"})
	}
}

// MemberHome serves the member dashboard.
func (h *DashboardHandlers) MemberHome(c *gin.Context) {
	sess := middleware.Session(c)
	snap := sess.Snapshot()
	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"page": "member_home",
			"user": snap.User,
		},
	})
}

// AdminHome serves the admin dashboard with the member roster and today's
// attendance aggregate.
func (h *DashboardHandlers) AdminHome(c *gin.Context) {
	sess := middleware.Session(c)

	members, err := sess.API().ListMembers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	attendance, err := sess.API().AttendanceSummary(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"page":       "admin_home",
			"user":       sess.Snapshot().User,
			"members":    members,
			"attendance": attendance,
		},
	})
}

// TrainerHome serves the trainer dashboard.
func (h *DashboardHandlers) TrainerHome(c *gin.Context) {
	sess := middleware.Session(c)

	attendance, err := sess.API().AttendanceSummary(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"page":       "trainer_home",
			"user":       sess.Snapshot().User,
			"attendance": attendance,
		},
	})
}

// ReceptionHome serves the receptionist dashboard.
func (h *DashboardHandlers) ReceptionHome(c *gin.Context) {
	sess := middleware.Session(c)

	members, err := sess.API().ListMembers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"page":    "reception_home",
			"user":    sess.Snapshot().User,
			"members": members,
		},
	})
}

// Members returns the member roster.
func (h *DashboardHandlers) Members(c *gin.Context) {
	sess := middleware.Session(c)

	members, err := sess.API().ListMembers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"members": members}})
}

// Attendance returns today's attendance aggregate.
func (h *DashboardHandlers) Attendance(c *gin.Context) {
	sess := middleware.Session(c)

	attendance, err := sess.API().AttendanceSummary(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"attendance": attendance}})
}

// BroadcastRequest is an announcement submitted from the admin dashboard.
type BroadcastRequest struct {
	Title    string `json:"title" binding:"required"`
	Body     string `json:"body" binding:"required"`
	Audience string `json:"audience"`
}

// Broadcast sends an announcement to a member audience.
func (h *DashboardHandlers) Broadcast(c *gin.Context) {
	var req BroadcastRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Audience == "" {
		req.Audience = "all"
	}

	sess := middleware.Session(c)
	err := sess.API().SendBroadcast(c.Request.Context(), &domain.Broadcast{
		Title:    req.Title,
		Body:     req.Body,
		Audience: req.Audience,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"data": gin.H{"message": "Broadcast queued"}})
}
