package mocks

import (
	"context"

	"github.com/iamhemantkumawat/f3fitness-sub000/domain"
)

// MockSessionAPI implements domain.SessionAPI for testing
type MockSessionAPI struct {
	MeFunc                func(ctx context.Context) (*domain.UserProfile, error)
	ListMembersFunc       func(ctx context.Context) ([]domain.MemberSummary, error)
	AttendanceSummaryFunc func(ctx context.Context) (*domain.AttendanceSummary, error)
	SendBroadcastFunc     func(ctx context.Context, b *domain.Broadcast) error
}

// NewMockSessionAPI creates a new MockSessionAPI with default behaviors
func NewMockSessionAPI() *MockSessionAPI {
	return &MockSessionAPI{}
}

// Factory returns a domain.SessionAPIFactory that hands out this mock and
// records the binding it was given, so tests can drive the auth-failure
// hook directly.
func (m *MockSessionAPI) Factory() (domain.SessionAPIFactory, *SessionBinding) {
	binding := &SessionBinding{}
	factory := func(tokens domain.TokenSource, onAuthExpired func()) domain.SessionAPI {
		binding.Tokens = tokens
		binding.OnAuthExpired = onAuthExpired
		return m
	}
	return factory, binding
}

// SessionBinding captures the token source and auth-failure hook a
// SessionService bound its remote client with.
type SessionBinding struct {
	Tokens        domain.TokenSource
	OnAuthExpired func()
}

// Me fetches the mock profile
func (m *MockSessionAPI) Me(ctx context.Context) (*domain.UserProfile, error) {
	if m.MeFunc != nil {
		return m.MeFunc(ctx)
	}
	return &domain.UserProfile{ID: 1, Name: "Mock User", Role: domain.RoleMember}, nil
}

// ListMembers returns the mock member list
func (m *MockSessionAPI) ListMembers(ctx context.Context) ([]domain.MemberSummary, error) {
	if m.ListMembersFunc != nil {
		return m.ListMembersFunc(ctx)
	}
	return []domain.MemberSummary{}, nil
}

// AttendanceSummary returns the mock attendance aggregate
func (m *MockSessionAPI) AttendanceSummary(ctx context.Context) (*domain.AttendanceSummary, error) {
	if m.AttendanceSummaryFunc != nil {
		return m.AttendanceSummaryFunc(ctx)
	}
	return &domain.AttendanceSummary{}, nil
}

// SendBroadcast records a mock broadcast send
func (m *MockSessionAPI) SendBroadcast(ctx context.Context, b *domain.Broadcast) error {
	if m.SendBroadcastFunc != nil {
		return m.SendBroadcastFunc(ctx, b)
	}
	return nil
}

// Compile-time interface compliance verification
var _ domain.SessionAPI = (*MockSessionAPI)(nil)
