package app

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/iamhemantkumawat/f3fitness-sub000/domain"
	"github.com/iamhemantkumawat/f3fitness-sub000/internal/config"
	httpx "github.com/iamhemantkumawat/f3fitness-sub000/internal/http"
	"github.com/iamhemantkumawat/f3fitness-sub000/internal/http/handlers"
	"github.com/iamhemantkumawat/f3fitness-sub000/internal/infrastructure/api"
	"github.com/iamhemantkumawat/f3fitness-sub000/internal/infrastructure/audit"
	"github.com/iamhemantkumawat/f3fitness-sub000/internal/infrastructure/auth"
	"github.com/iamhemantkumawat/f3fitness-sub000/internal/infrastructure/credentials"
	"github.com/iamhemantkumawat/f3fitness-sub000/internal/infrastructure/database"
	"github.com/iamhemantkumawat/f3fitness-sub000/internal/services"
)

// Run wires the portal together and serves HTTP until the process exits.
func Run(cfg *config.Config) error {
	gin.SetMode(cfg.GinMode)

	redisClient := database.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := redisClient.Ping(ctx); err != nil {
		return fmt.Errorf("redis connect: %w", err)
	}

	enforcer, err := auth.NewAccessEnforcer()
	if err != nil {
		return fmt.Errorf("access enforcer: %w", err)
	}
	if err := auth.SeedDefaultPolicies(enforcer); err != nil {
		return fmt.Errorf("seed policies: %w", err)
	}

	apiClient := api.New(cfg.APIBaseURL, cfg.APITimeout)
	ephemeral := credentials.NewEphemeralTier()
	storeFactory := func(slotID string) domain.CredentialStore {
		return credentials.NewStore(redisClient.Client, ephemeral, slotID, cfg.DurableTTL)
	}

	auditLog := audit.NewLogAuditLogger()
	manager := services.NewSessionManager(apiClient, apiClient.Bound, storeFactory, auditLog, services.FlowConfig{
		Cooldown:          cfg.OTPCooldown,
		CodeLength:        cfg.OTPLength,
		MinPasswordLength: cfg.MinPasswordLength,
	})
	gate := services.NewAccessService(enforcer)
	slotTokens := auth.NewSlotTokenService(cfg.SlotCookieSecret, cfg.SlotCookieIssuer, cfg.SlotCookieTTL)

	authHandlers := handlers.NewAuthHandlers(manager)
	dashHandlers := handlers.NewDashboardHandlers()

	router := httpx.BuildRouter(authHandlers, dashHandlers, manager, gate, slotTokens, cfg.SlotCookieName, cfg.SlotCookieTTL)

	log.Printf("gymportal listening on :%s (api %s)", cfg.Port, cfg.APIBaseURL)
	return http.ListenAndServe(":"+cfg.Port, router)
}
