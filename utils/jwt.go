package utils

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"jwtpizza/model"
)

// UserClaims are carried by session tokens.
type UserClaims struct {
	UserID model.UserID `json:"id"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and validates HS256 session and order confirmation tokens.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// WithClock replaces the time source.
func (t *TokenIssuer) WithClock(now func() time.Time) *TokenIssuer {
	t.now = now
	return t
}

// Issue returns a signed session token for user together with its claims.
func (t *TokenIssuer) Issue(user *model.User) (string, *UserClaims, error) {
	now := t.now()
	claims := &UserClaims{
		UserID: user.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", nil, err
	}
	return signed, claims, nil
}

// Validate parses a session token. Tokens without an expiry are rejected.
func (t *TokenIssuer) Validate(tokenString string) (*UserClaims, error) {
	claims := &UserClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return t.secret, nil
	},
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil {
		return nil, fmt.Errorf("error parsing token: %w", err)
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	if claims.UserID == 0 || claims.ID == "" {
		return nil, errors.New("token is missing id or jti")
	}
	return claims, nil
}

// Remaining is how long the claims stay valid from now.
func (t *TokenIssuer) Remaining(claims *UserClaims) time.Duration {
	if claims.ExpiresAt == nil {
		return 0
	}
	return claims.ExpiresAt.Time.Sub(t.now())
}

// SignOrder returns the confirmation token handed back for a placed order.
func (t *TokenIssuer) SignOrder(order *model.Order) (string, error) {
	claims := jwt.MapClaims{
		"order":       order.ID,
		"franchiseId": order.FranchiseID,
		"storeId":     order.StoreID,
		"items":       len(order.Items),
		"total":       math.Round(order.Total()*1e6) / 1e6,
		"iat":         t.now().Unix(),
	}
	if order.DinerID != nil {
		claims["diner"] = order.DinerID.String()
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.secret)
}

// VerifyOrder parses a confirmation token issued by SignOrder.
func (t *TokenIssuer) VerifyOrder(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return t.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("error parsing order token: %w", err)
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid order token")
	}
	return claims, nil
}
