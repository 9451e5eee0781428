package mocks

import (
	"github.com/iamhemantkumawat/f3fitness-sub000/domain"
)

// MockPolicyEnforcer implements domain.PolicyEnforcer for testing
type MockPolicyEnforcer struct {
	EnforceFunc   func(rvals ...interface{}) (bool, error)
	AddPolicyFunc func(params ...interface{}) (bool, error)
	GetPolicyFunc func() ([][]string, error)
}

// NewMockPolicyEnforcer creates a new MockPolicyEnforcer with default behaviors
func NewMockPolicyEnforcer() *MockPolicyEnforcer {
	return &MockPolicyEnforcer{}
}

// Enforce evaluates the mock policy
func (m *MockPolicyEnforcer) Enforce(rvals ...interface{}) (bool, error) {
	if m.EnforceFunc != nil {
		return m.EnforceFunc(rvals...)
	}
	return true, nil
}

// AddPolicy records a mock policy
func (m *MockPolicyEnforcer) AddPolicy(params ...interface{}) (bool, error) {
	if m.AddPolicyFunc != nil {
		return m.AddPolicyFunc(params...)
	}
	return true, nil
}

// GetPolicy returns the mock policy set
func (m *MockPolicyEnforcer) GetPolicy() ([][]string, error) {
	if m.GetPolicyFunc != nil {
		return m.GetPolicyFunc()
	}
	return [][]string{}, nil
}

// Compile-time interface compliance verification
var _ domain.PolicyEnforcer = (*MockPolicyEnforcer)(nil)
