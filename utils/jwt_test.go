package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jwtpizza/model"
)

func TestTokenIssuer_IssueAndValidate(t *testing.T) {
	issuer := NewTokenIssuer("secret", time.Hour)
	user := &model.User{ID: 3, Email: "d@jwt.com"}

	token, claims, err := issuer.Issue(user)
	require.NoError(t, err)
	assert.NotEmpty(t, claims.ID)

	parsed, err := issuer.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, model.UserID(3), parsed.UserID)
	assert.Equal(t, claims.ID, parsed.ID)
	assert.InDelta(t, time.Hour.Seconds(), issuer.Remaining(parsed).Seconds(), 5)
}

func TestTokenIssuer_Rejects(t *testing.T) {
	issuer := NewTokenIssuer("secret", time.Hour)
	user := &model.User{ID: 3}
	token, _, err := issuer.Issue(user)
	require.NoError(t, err)

	t.Run("wrong secret", func(t *testing.T) {
		_, err := NewTokenIssuer("other", time.Hour).Validate(token)
		assert.Error(t, err)
	})

	t.Run("expired", func(t *testing.T) {
		later := NewTokenIssuer("secret", time.Hour).WithClock(func() time.Time {
			return time.Now().Add(2 * time.Hour)
		})
		_, err := later.Validate(token)
		assert.ErrorIs(t, err, jwt.ErrTokenExpired)
	})

	t.Run("missing expiry", func(t *testing.T) {
		raw := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"id": "3", "jti": "x"})
		signed, err := raw.SignedString([]byte("secret"))
		require.NoError(t, err)
		_, err = issuer.Validate(signed)
		assert.Error(t, err)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := issuer.Validate("abcdef")
		assert.Error(t, err)
	})
}

func TestTokenIssuer_SignOrder(t *testing.T) {
	issuer := NewTokenIssuer("secret", time.Hour)
	diner := model.UserID(3)
	order := &model.Order{
		ID:          23,
		DinerID:     &diner,
		FranchiseID: 2,
		StoreID:     4,
		Items: []model.OrderItem{
			{MenuID: 1, Description: "Veggie", Price: 0.0038},
			{MenuID: 2, Description: "Pepperoni", Price: 0.0042},
		},
	}

	signed, err := issuer.SignOrder(order)
	require.NoError(t, err)

	claims, err := issuer.VerifyOrder(signed)
	require.NoError(t, err)
	assert.Equal(t, float64(23), claims["order"])
	assert.Equal(t, float64(2), claims["items"])
	assert.Equal(t, "3", claims["diner"])
	assert.InDelta(t, 0.008, claims["total"], 1e-9)
}
