package mocks

import (
	"context"

	"github.com/iamhemantkumawat/f3fitness-sub000/domain"
)

// MockIdentityAPI implements domain.IdentityAPI for testing
type MockIdentityAPI struct {
	LoginFunc         func(ctx context.Context, identifier, password string) (*domain.AuthResult, error)
	SignupFunc        func(ctx context.Context, draft *domain.RegistrationDraft) (*domain.AuthResult, error)
	SendOTPFunc       func(ctx context.Context, phoneNumber, countryCode, email string) error
	VerifyOTPFunc     func(ctx context.Context, phoneNumber, countryCode, email, code string) error
	SignupWithOTPFunc func(ctx context.Context, draft *domain.RegistrationDraft, code string) (*domain.AuthResult, error)
}

// NewMockIdentityAPI creates a new MockIdentityAPI with default behaviors
func NewMockIdentityAPI() *MockIdentityAPI {
	return &MockIdentityAPI{}
}

func defaultAuthResult() *domain.AuthResult {
	return &domain.AuthResult{
		Token: "tok_mock",
		User: &domain.UserProfile{
			ID:       1,
			Name:     "Mock User",
			Email:    "mock@example.com",
			Role:     domain.RoleMember,
			MemberID: "F3-0001",
		},
	}
}

// Login authenticates against the mock identity service
func (m *MockIdentityAPI) Login(ctx context.Context, identifier, password string) (*domain.AuthResult, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, identifier, password)
	}
	return defaultAuthResult(), nil
}

// Signup creates an account through the legacy direct path
func (m *MockIdentityAPI) Signup(ctx context.Context, draft *domain.RegistrationDraft) (*domain.AuthResult, error) {
	if m.SignupFunc != nil {
		return m.SignupFunc(ctx, draft)
	}
	return defaultAuthResult(), nil
}

// SendOTP issues a mock dual-channel challenge
func (m *MockIdentityAPI) SendOTP(ctx context.Context, phoneNumber, countryCode, email string) error {
	if m.SendOTPFunc != nil {
		return m.SendOTPFunc(ctx, phoneNumber, countryCode, email)
	}
	return nil
}

// VerifyOTP validates a mock challenge code
func (m *MockIdentityAPI) VerifyOTP(ctx context.Context, phoneNumber, countryCode, email, code string) error {
	if m.VerifyOTPFunc != nil {
		return m.VerifyOTPFunc(ctx, phoneNumber, countryCode, email, code)
	}
	// Default behavior: accept "123456" as valid
	if code != "123456" {
		return domain.ErrOTPExpiredOrInvalid
	}
	return nil
}

// SignupWithOTP finalizes a mock registration
func (m *MockIdentityAPI) SignupWithOTP(ctx context.Context, draft *domain.RegistrationDraft, code string) (*domain.AuthResult, error) {
	if m.SignupWithOTPFunc != nil {
		return m.SignupWithOTPFunc(ctx, draft, code)
	}
	return defaultAuthResult(), nil
}

// Compile-time interface compliance verification
var _ domain.IdentityAPI = (*MockIdentityAPI)(nil)
