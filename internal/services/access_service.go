package services

import (
	"github.com/iamhemantkumawat/f3fitness-sub000/domain"
)

// LoginPath is where unauthenticated clients are sent.
const LoginPath = "/login"

// AccessDecision is the gate's answer for one view request. Exactly one of
// Allow and RedirectTo is meaningful; ShowLoading qualifies an Allow with
// the instruction to render a neutral loading state.
type AccessDecision struct {
	Allow       bool
	ShowLoading bool
	RedirectTo  string
}

// RoleHome maps a role to its canonical landing view. The mapping is total:
// any role it does not recognize, including future ones, lands on the
// member home.
func RoleHome(role domain.Role) string {
	switch role {
	case domain.RoleAdmin:
		return "/admin"
	case domain.RoleTrainer:
		return "/trainer"
	case domain.RoleReceptionist:
		return "/reception"
	default:
		return "/member"
	}
}

// AccessService decides access to role-gated views from a session snapshot
// alone; it never reads storage. Role/view permissions live in the Casbin
// enforcer.
type AccessService struct {
	enforcer domain.PolicyEnforcer
}

// NewAccessService creates the gate around the given enforcer.
func NewAccessService(enforcer domain.PolicyEnforcer) *AccessService {
	return &AccessService{enforcer: enforcer}
}

// Decide gates a protected view. While the session is still loading the
// decision is deferred: the caller renders a neutral loading state, never a
// redirect, so an already-authenticated user is not bounced to the login
// screen on every reload.
func (g *AccessService) Decide(snap domain.SessionSnapshot, path, method string) AccessDecision {
	if snap.Loading {
		return AccessDecision{Allow: true, ShowLoading: true}
	}
	if !snap.Authenticated() {
		return AccessDecision{RedirectTo: LoginPath}
	}

	allowed, err := g.enforcer.Enforce("role_"+string(snap.User.Role), path, method)
	if err != nil || !allowed {
		return AccessDecision{RedirectTo: RoleHome(snap.User.Role)}
	}
	return AccessDecision{Allow: true}
}

// DecidePublic gates public-only views such as login and registration: an
// authenticated client is sent to its role home instead.
func (g *AccessService) DecidePublic(snap domain.SessionSnapshot) AccessDecision {
	if snap.Loading {
		return AccessDecision{Allow: true, ShowLoading: true}
	}
	if snap.Authenticated() {
		return AccessDecision{RedirectTo: RoleHome(snap.User.Role)}
	}
	return AccessDecision{Allow: true}
}
