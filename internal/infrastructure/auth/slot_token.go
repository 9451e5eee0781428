package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/iamhemantkumawat/f3fitness-sub000/domain"
)

// SlotTokenServiceImpl implements domain.SlotTokenService. The signed token
// lives in the portal cookie and binds a browser to its credential slot; it
// carries no authentication by itself.
type SlotTokenServiceImpl struct {
	secretKey []byte
	issuer    string
	ttl       time.Duration
}

// NewSlotTokenService creates a new slot token service
func NewSlotTokenService(secretKey, issuer string, ttl time.Duration) domain.SlotTokenService {
	return &SlotTokenServiceImpl{
		secretKey: []byte(secretKey),
		issuer:    issuer,
		ttl:       ttl,
	}
}

// Issue implements domain.SlotTokenService
func (s *SlotTokenServiceImpl) Issue(slotID string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"slot_id": slotID,
		"iss":     s.issuer,
		"iat":     now.Unix(),
		"exp":     now.Add(s.ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secretKey)
}

// Validate implements domain.SlotTokenService
func (s *SlotTokenServiceImpl) Validate(signed string) (string, error) {
	token, err := jwt.Parse(signed, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, domain.ErrSlotTokenInvalid
		}
		return s.secretKey, nil
	})
	if err != nil || !token.Valid {
		return "", domain.ErrSlotTokenInvalid
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", domain.ErrSlotTokenInvalid
	}

	slotID, ok := claims["slot_id"].(string)
	if !ok || slotID == "" {
		return "", domain.ErrSlotTokenInvalid
	}
	return slotID, nil
}
