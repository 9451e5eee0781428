package credentials

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/iamhemantkumawat/f3fitness-sub000/domain"
)

// setupTestRedis creates an in-memory Redis instance for testing
func setupTestRedis(t *testing.T) *redis.Client {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	t.Cleanup(func() {
		mr.Close()
	})

	return redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func testUser() *domain.UserProfile {
	return &domain.UserProfile{
		ID:       12,
		Name:     "Ravi",
		Email:    "ravi@example.com",
		Role:     domain.RoleMember,
		MemberID: "F3-0012",
	}
}

func TestStore_Save_TierSelection(t *testing.T) {
	tests := []struct {
		name         string
		remember     bool
		expectedTier domain.Tier
	}{
		{"remember true lands in durable tier", true, domain.TierDurable},
		{"remember false lands in ephemeral tier", false, domain.TierEphemeral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			client := setupTestRedis(t)
			eph := NewEphemeralTier()
			store := NewStore(client, eph, "slot-1", time.Hour)

			if err := store.Save(ctx, "tok_abc", testUser(), tt.remember); err != nil {
				t.Fatalf("Save() error = %v", err)
			}

			creds, tier, err := store.Load(ctx)
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if creds == nil || creds.Token != "tok_abc" {
				t.Fatalf("Load() creds = %+v, want token tok_abc", creds)
			}
			if tier != tt.expectedTier {
				t.Errorf("Load() tier = %v, want %v", tier, tt.expectedTier)
			}

			// The other tier must hold no copy.
			durableCount := client.Exists(ctx, "cred:slot-1").Val()
			_, ephHeld := eph.get("cred:slot-1")
			if tt.remember {
				if durableCount != 1 {
					t.Error("expected durable copy in redis")
				}
				if ephHeld {
					t.Error("ephemeral tier must be empty after a durable save")
				}
			} else {
				if durableCount != 0 {
					t.Error("durable tier must be empty after an ephemeral save")
				}
				if !ephHeld {
					t.Error("expected ephemeral copy")
				}
			}
		})
	}
}

func TestStore_Save_EvictsStaleCopyOnTierSwitch(t *testing.T) {
	ctx := context.Background()
	client := setupTestRedis(t)
	eph := NewEphemeralTier()
	store := NewStore(client, eph, "slot-1", time.Hour)

	// Durable first, then switch to ephemeral: the durable copy must not
	// survive to resurrect the old session.
	if err := store.Save(ctx, "tok_old", testUser(), true); err != nil {
		t.Fatalf("Save(durable) error = %v", err)
	}
	if err := store.Save(ctx, "tok_new", testUser(), false); err != nil {
		t.Fatalf("Save(ephemeral) error = %v", err)
	}

	creds, tier, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if tier != domain.TierEphemeral {
		t.Errorf("tier = %v, want ephemeral", tier)
	}
	if creds.Token != "tok_new" {
		t.Errorf("token = %q, want tok_new (stale durable copy resurrected)", creds.Token)
	}

	// And back again.
	if err := store.Save(ctx, "tok_newer", testUser(), true); err != nil {
		t.Fatalf("Save(durable) error = %v", err)
	}
	if _, held := eph.get("cred:slot-1"); held {
		t.Error("ephemeral copy must be removed on switch to durable")
	}
}

func TestStore_Load_PrefersDurable(t *testing.T) {
	// Two live copies cannot happen through Save, but Load's priority is
	// still part of the contract.
	ctx := context.Background()
	client := setupTestRedis(t)
	eph := NewEphemeralTier()
	store := NewStore(client, eph, "slot-1", time.Hour)

	eph.set("cred:slot-1", []byte(`{"token":"tok_eph","user":{"id":1},"remember":false}`))
	client.Set(ctx, "cred:slot-1", `{"token":"tok_dur","user":{"id":1},"remember":true}`, time.Hour)

	creds, tier, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if tier != domain.TierDurable || creds.Token != "tok_dur" {
		t.Errorf("Load() = (%q, %v), want (tok_dur, durable)", creds.Token, tier)
	}
}

func TestStore_Clear_WipesBothTiers(t *testing.T) {
	tests := []struct {
		name     string
		remember bool
	}{
		{"clear after durable save", true},
		{"clear after ephemeral save", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			client := setupTestRedis(t)
			eph := NewEphemeralTier()
			store := NewStore(client, eph, "slot-1", time.Hour)

			if err := store.Save(ctx, "tok", testUser(), tt.remember); err != nil {
				t.Fatalf("Save() error = %v", err)
			}
			if err := store.Clear(ctx); err != nil {
				t.Fatalf("Clear() error = %v", err)
			}

			creds, tier, err := store.Load(ctx)
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if creds != nil || tier != domain.TierNone {
				t.Errorf("Load() after Clear = (%+v, %v), want (nil, none)", creds, tier)
			}
			if client.Exists(ctx, "cred:slot-1").Val() != 0 {
				t.Error("durable tier not empty after Clear")
			}
			if _, held := eph.get("cred:slot-1"); held {
				t.Error("ephemeral tier not empty after Clear")
			}
		})
	}
}

func TestStore_Clear_IsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := NewStore(setupTestRedis(t), NewEphemeralTier(), "slot-1", time.Hour)

	if err := store.Clear(ctx); err != nil {
		t.Fatalf("Clear() on empty store error = %v", err)
	}
	if err := store.Clear(ctx); err != nil {
		t.Fatalf("second Clear() error = %v", err)
	}
}

func TestStore_Load_MalformedJSONReadsAsAbsent(t *testing.T) {
	tests := []struct {
		name    string
		durable string
		eph     string
	}{
		{"malformed durable blob", `{not json`, ""},
		{"durable blob without token", `{"user":{"id":1}}`, ""},
		{"malformed ephemeral blob", "", `garbage`},
		{"malformed durable falls through to valid ephemeral", `xx`, `{"token":"tok_eph","user":{"id":1},"remember":false}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			client := setupTestRedis(t)
			eph := NewEphemeralTier()
			store := NewStore(client, eph, "slot-1", time.Hour)

			if tt.durable != "" {
				client.Set(ctx, "cred:slot-1", tt.durable, time.Hour)
			}
			if tt.eph != "" {
				eph.set("cred:slot-1", []byte(tt.eph))
			}

			creds, tier, err := store.Load(ctx)
			if err != nil {
				t.Fatalf("Load() error = %v, malformed data must fail open", err)
			}

			if tt.name == "malformed durable falls through to valid ephemeral" {
				if tier != domain.TierEphemeral || creds == nil || creds.Token != "tok_eph" {
					t.Errorf("Load() = (%+v, %v), want ephemeral fallback", creds, tier)
				}
				return
			}
			if creds != nil || tier != domain.TierNone {
				t.Errorf("Load() = (%+v, %v), want (nil, none)", creds, tier)
			}
		})
	}
}

func TestStore_SlotsAreIsolated(t *testing.T) {
	ctx := context.Background()
	client := setupTestRedis(t)
	eph := NewEphemeralTier()
	storeA := NewStore(client, eph, "slot-a", time.Hour)
	storeB := NewStore(client, eph, "slot-b", time.Hour)

	if err := storeA.Save(ctx, "tok_a", testUser(), false); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	creds, tier, err := storeB.Load(ctx)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if creds != nil || tier != domain.TierNone {
		t.Errorf("slot-b sees slot-a's credentials: %+v", creds)
	}

	if err := storeB.Clear(ctx); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	creds, _, _ = storeA.Load(ctx)
	if creds == nil || creds.Token != "tok_a" {
		t.Error("clearing slot-b must not touch slot-a")
	}
}
