package services

import (
	"sync"

	"github.com/iamhemantkumawat/f3fitness-sub000/domain"
)

// CredentialStoreFactory builds the credential store bound to one client
// slot.
type CredentialStoreFactory func(slotID string) domain.CredentialStore

// SessionManager owns the per-slot SessionService instances and the
// in-flight registration attempts. Sessions are created lazily on first
// use; registration attempts live only in memory and vanish on restart.
type SessionManager struct {
	identity   domain.IdentityAPI
	apiFactory domain.SessionAPIFactory
	stores     CredentialStoreFactory
	audit      domain.AuditLogger
	flowConfig FlowConfig

	mu       sync.Mutex
	sessions map[string]*SessionService
	flows    map[string]*RegistrationFlow
}

// NewSessionManager wires the per-slot factories together.
func NewSessionManager(identity domain.IdentityAPI, apiFactory domain.SessionAPIFactory, stores CredentialStoreFactory, audit domain.AuditLogger, flowConfig FlowConfig) *SessionManager {
	return &SessionManager{
		identity:   identity,
		apiFactory: apiFactory,
		stores:     stores,
		audit:      audit,
		flowConfig: flowConfig,
		sessions:   make(map[string]*SessionService),
		flows:      make(map[string]*RegistrationFlow),
	}
}

// Session returns the slot's session authority, creating it on first use.
func (m *SessionManager) Session(slotID string) *SessionService {
	m.mu.Lock()
	defer m.mu.Unlock()
	if sess, ok := m.sessions[slotID]; ok {
		return sess
	}
	sess := NewSessionService(slotID, m.stores(slotID), m.identity, m.apiFactory, m.audit)
	m.sessions[slotID] = sess
	return sess
}

// NewFlow starts a fresh registration attempt for the slot, replacing any
// previous attempt. Restarting after FAILED is exactly this: a new flow
// with a fresh draft.
func (m *SessionManager) NewFlow(slotID string) *RegistrationFlow {
	m.mu.Lock()
	defer m.mu.Unlock()
	flow := NewRegistrationFlow(slotID, m.identity, m.audit, m.flowConfig)
	m.flows[slotID] = flow
	return flow
}

// Flow returns the slot's in-flight registration attempt, if any.
func (m *SessionManager) Flow(slotID string) (*RegistrationFlow, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	flow, ok := m.flows[slotID]
	return flow, ok
}

// DropFlow discards the slot's registration attempt, draft included.
func (m *SessionManager) DropFlow(slotID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.flows, slotID)
}
