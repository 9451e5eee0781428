package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/iamhemantkumawat/f3fitness-sub000/domain"
	"github.com/iamhemantkumawat/f3fitness-sub000/internal/mocks"
	"github.com/iamhemantkumawat/f3fitness-sub000/internal/services"
)

type handlerFixture struct {
	router   *gin.Engine
	manager  *services.SessionManager
	identity *mocks.MockIdentityAPI
	stores   map[string]*mocks.MockCredentialStore
}

func newHandlerFixture() *handlerFixture {
	gin.SetMode(gin.TestMode)

	identity := mocks.NewMockIdentityAPI()
	remote := mocks.NewMockSessionAPI()
	factory, _ := remote.Factory()
	stores := map[string]*mocks.MockCredentialStore{}
	storeFactory := func(slotID string) domain.CredentialStore {
		s := mocks.NewMockCredentialStore()
		stores[slotID] = s
		return s
	}
	manager := services.NewSessionManager(identity, factory, storeFactory, mocks.NewMockAuditLogger(), services.FlowConfig{
		Cooldown:          60 * time.Second,
		CodeLength:        6,
		MinPasswordLength: 6,
	})

	h := NewAuthHandlers(manager)
	router := gin.New()
	router.Use(func(c *gin.Context) { c.Set("slot_id", "slot-test") })
	router.POST("/auth/login", h.Login)
	router.POST("/auth/register", h.Register)
	router.GET("/auth/register/status", h.RegistrationStatus)
	router.POST("/auth/register/resend", h.ResendOTP)
	router.POST("/auth/register/verify", h.VerifyOTP)
	router.POST("/auth/register/restart", h.RestartRegistration)
	router.POST("/auth/logout", h.Logout)
	router.GET("/auth/session", h.SessionInfo)

	return &handlerFixture{router: router, manager: manager, identity: identity, stores: stores}
}

func (f *handlerFixture) request(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func registerBody() gin.H {
	return gin.H{
		"name":         "Alice",
		"email":        "alice@example.com",
		"phone_number": "9000000000",
		"country_code": "+91",
		"password":     "secret1",
	}
}

func TestAuthHandlers_Login(t *testing.T) {
	tests := []struct {
		name           string
		body           gin.H
		loginErr       error
		expectedStatus int
		wantRemember   *bool
	}{
		{
			name:           "success with explicit remember false",
			body:           gin.H{"identifier": "alice@example.com", "password": "pass123", "remember": false},
			expectedStatus: http.StatusOK,
			wantRemember:   boolPtr(false),
		},
		{
			name:           "remember defaults to true when omitted",
			body:           gin.H{"identifier": "alice@example.com", "password": "pass123"},
			expectedStatus: http.StatusOK,
			wantRemember:   boolPtr(true),
		},
		{
			name:           "missing password rejected",
			body:           gin.H{"identifier": "alice@example.com"},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "rejected credentials",
			body:           gin.H{"identifier": "alice@example.com", "password": "wrong"},
			loginErr:       domain.ErrInvalidCredentials,
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "unreachable remote",
			body:           gin.H{"identifier": "alice@example.com", "password": "pass123"},
			loginErr:       domain.ErrNetwork,
			expectedStatus: http.StatusBadGateway,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newHandlerFixture()
			if tt.loginErr != nil {
				f.identity.LoginFunc = func(ctx context.Context, identifier, password string) (*domain.AuthResult, error) {
					return nil, tt.loginErr
				}
			}

			w := f.request(t, http.MethodPost, "/auth/login", tt.body)
			if w.Code != tt.expectedStatus {
				t.Fatalf("expected status %d, got %d: %s", tt.expectedStatus, w.Code, w.Body.String())
			}
			if tt.wantRemember == nil {
				return
			}

			store := f.stores["slot-test"]
			if len(store.SaveCalls) != 1 {
				t.Fatalf("expected 1 save, got %d", len(store.SaveCalls))
			}
			if store.SaveCalls[0].Remember != *tt.wantRemember {
				t.Errorf("expected remember=%v persisted, got %v", *tt.wantRemember, store.SaveCalls[0].Remember)
			}

			var resp struct {
				Data struct {
					Redirect string `json:"redirect"`
				} `json:"data"`
			}
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatalf("decode response: %v", err)
			}
			if resp.Data.Redirect != "/member" {
				t.Errorf("expected redirect to role home, got %q", resp.Data.Redirect)
			}
		})
	}
}

func boolPtr(b bool) *bool { return &b }

func TestAuthHandlers_RegistrationLifecycle(t *testing.T) {
	f := newHandlerFixture()

	// Start the attempt; the challenge goes out and the cooldown starts.
	w := f.request(t, http.MethodPost, "/auth/register", registerBody())
	if w.Code != http.StatusOK {
		t.Fatalf("register: expected 200, got %d: %s", w.Code, w.Body.String())
	}

	// An immediate resend is throttled locally.
	sends := 0
	f.identity.SendOTPFunc = func(ctx context.Context, phone, country, email string) error {
		sends++
		return nil
	}
	w = f.request(t, http.MethodPost, "/auth/register/resend", nil)
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("resend: expected 429, got %d: %s", w.Code, w.Body.String())
	}
	if sends != 0 {
		t.Errorf("throttled resend must not reach the remote, got %d calls", sends)
	}

	// Status reflects the outstanding challenge.
	w = f.request(t, http.MethodGet, "/auth/register/status", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status: expected 200, got %d", w.Code)
	}
	var status struct {
		Data struct {
			State    string `json:"state"`
			Cooldown int    `json:"resend_cooldown"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &status); err != nil {
		t.Fatalf("decode status: %v", err)
	}
	if status.Data.State != string(domain.RegStateAwaitingOTP) {
		t.Errorf("expected AWAITING_OTP, got %s", status.Data.State)
	}
	if status.Data.Cooldown <= 0 {
		t.Errorf("expected a running cooldown, got %d", status.Data.Cooldown)
	}

	// The correct code completes registration and signs the visitor in.
	w = f.request(t, http.MethodPost, "/auth/register/verify", gin.H{"code": "123456"})
	if w.Code != http.StatusCreated {
		t.Fatalf("verify: expected 201, got %d: %s", w.Code, w.Body.String())
	}

	store := f.stores["slot-test"]
	if len(store.SaveCalls) != 1 || !store.SaveCalls[0].Remember {
		t.Error("completed registration must persist to the durable tier")
	}
	if !f.manager.Session("slot-test").Snapshot().Authenticated() {
		t.Error("expected an authenticated session after registration")
	}

	// The completed flow is gone; another verify finds nothing.
	w = f.request(t, http.MethodPost, "/auth/register/verify", gin.H{"code": "123456"})
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409 after completion, got %d", w.Code)
	}
}

func TestAuthHandlers_VerifyOTP(t *testing.T) {
	tests := []struct {
		name           string
		code           string
		signupErr      error
		expectedStatus int
		wantState      domain.RegistrationState
	}{
		{
			name:           "wrong code returns the attempt to awaiting otp",
			code:           "999999",
			expectedStatus: http.StatusBadRequest,
			wantState:      domain.RegStateAwaitingOTP,
		},
		{
			name:           "conflict on finalization fails the attempt",
			code:           "123456",
			signupErr:      domain.ErrConflict,
			expectedStatus: http.StatusConflict,
			wantState:      domain.RegStateFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newHandlerFixture()
			if tt.signupErr != nil {
				f.identity.SignupWithOTPFunc = func(ctx context.Context, draft *domain.RegistrationDraft, code string) (*domain.AuthResult, error) {
					return nil, tt.signupErr
				}
			}

			if w := f.request(t, http.MethodPost, "/auth/register", registerBody()); w.Code != http.StatusOK {
				t.Fatalf("register: expected 200, got %d", w.Code)
			}
			w := f.request(t, http.MethodPost, "/auth/register/verify", gin.H{"code": tt.code})
			if w.Code != tt.expectedStatus {
				t.Fatalf("expected status %d, got %d: %s", tt.expectedStatus, w.Code, w.Body.String())
			}

			flow, ok := f.manager.Flow("slot-test")
			if !ok {
				t.Fatal("expected the flow to survive a failed verify")
			}
			if flow.State() != tt.wantState {
				t.Errorf("expected state %s, got %s", tt.wantState, flow.State())
			}
			if f.manager.Session("slot-test").Snapshot().Authenticated() {
				t.Error("no session may exist after a failed attempt")
			}
		})
	}
}

func TestAuthHandlers_RestartAfterFailure(t *testing.T) {
	f := newHandlerFixture()
	f.identity.SignupWithOTPFunc = func(ctx context.Context, draft *domain.RegistrationDraft, code string) (*domain.AuthResult, error) {
		return nil, domain.ErrConflict
	}

	if w := f.request(t, http.MethodPost, "/auth/register", registerBody()); w.Code != http.StatusOK {
		t.Fatalf("register: expected 200, got %d", w.Code)
	}
	if w := f.request(t, http.MethodPost, "/auth/register/verify", gin.H{"code": "123456"}); w.Code != http.StatusConflict {
		t.Fatalf("verify: expected 409, got %d", w.Code)
	}

	// A failed attempt cannot be resumed, only restarted from scratch.
	if w := f.request(t, http.MethodPost, "/auth/register/restart", nil); w.Code != http.StatusOK {
		t.Fatalf("restart: expected 200, got %d", w.Code)
	}
	f.identity.SignupWithOTPFunc = nil
	if w := f.request(t, http.MethodPost, "/auth/register", registerBody()); w.Code != http.StatusOK {
		t.Fatalf("re-register: expected 200, got %d", w.Code)
	}
	if w := f.request(t, http.MethodPost, "/auth/register/verify", gin.H{"code": "123456"}); w.Code != http.StatusCreated {
		t.Fatalf("re-verify: expected 201, got %d", w.Code)
	}
}

func TestAuthHandlers_LogoutAndSessionInfo(t *testing.T) {
	f := newHandlerFixture()

	// Logout with no session is still a success.
	if w := f.request(t, http.MethodPost, "/auth/logout", nil); w.Code != http.StatusOK {
		t.Fatalf("logout: expected 200, got %d", w.Code)
	}

	if w := f.request(t, http.MethodPost, "/auth/login", gin.H{"identifier": "alice@example.com", "password": "pass123"}); w.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d", w.Code)
	}

	w := f.request(t, http.MethodGet, "/auth/session", nil)
	var info struct {
		Data struct {
			Authenticated bool `json:"authenticated"`
			Loading       bool `json:"loading"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &info); err != nil {
		t.Fatalf("decode session info: %v", err)
	}
	if !info.Data.Authenticated || info.Data.Loading {
		t.Errorf("expected a resolved authenticated session, got %+v", info.Data)
	}

	if w := f.request(t, http.MethodPost, "/auth/logout", nil); w.Code != http.StatusOK {
		t.Fatalf("logout: expected 200, got %d", w.Code)
	}
	if f.manager.Session("slot-test").Snapshot().Authenticated() {
		t.Error("expected the session gone after logout")
	}
}
