package utils

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignAndParseJWT(t *testing.T) {
	token, err := SignJWT("secret", "user-1", "client", 5)
	require.NoError(t, err)

	claims, err := ParseJWT("secret", token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "client", claims.Role)
}

func TestParseJWTRejects(t *testing.T) {
	valid, err := SignJWT("secret", "user-1", "client", 5)
	require.NoError(t, err)

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID: "user-1",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	})
	expiredStr, err := expired.SignedString([]byte("secret"))
	require.NoError(t, err)

	noSubject := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
		},
	})
	noSubjectStr, err := noSubject.SignedString([]byte("secret"))
	require.NoError(t, err)

	cases := map[string]struct {
		secret string
		token  string
	}{
		"wrong secret": {"other", valid},
		"garbage":      {"secret", "not-a-token"},
		"expired":      {"secret", expiredStr},
		"no subject":   {"secret", noSubjectStr},
		"empty":        {"secret", ""},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseJWT(tc.secret, tc.token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("hunter22")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter22", hash)
	assert.True(t, CheckPassword(hash, "hunter22"))
	assert.False(t, CheckPassword(hash, "hunter23"))
}

func TestOptionalUnmarshal(t *testing.T) {
	var body struct {
		Title  Optional[string]   `json:"title"`
		Budget Optional[float64]  `json:"budget"`
		Tags   Optional[[]string] `json:"tags"`
		Bio    Optional[string]   `json:"bio"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"title":"","budget":0,"bio":null}`), &body))

	assert.True(t, body.Title.Set)
	assert.Equal(t, "", body.Title.Value)
	assert.True(t, body.Budget.Set)
	assert.Equal(t, 0.0, body.Budget.Value)
	assert.False(t, body.Tags.Set)
	assert.False(t, body.Bio.Set)
}

func TestOptionalApply(t *testing.T) {
	budget := 100.0
	assert.False(t, Optional[float64]{}.Apply(&budget))
	assert.Equal(t, 100.0, budget)

	assert.True(t, Some(0.0).Apply(&budget))
	assert.Equal(t, 0.0, budget)
}

func TestValidate(t *testing.T) {
	type req struct {
		Email string  `json:"email" validate:"required,email"`
		Role  string  `json:"role" validate:"oneof=client developer"`
		Cost  float64 `json:"cost" validate:"gte=0"`
	}

	assert.Nil(t, Validate(req{Email: "a@b.io", Role: "client"}))

	errs := Validate(req{Email: "nope", Role: "admin", Cost: -1})
	require.NotNil(t, errs)
	assert.Contains(t, errs, "email")
	assert.Contains(t, errs, "role")
	assert.Contains(t, errs, "cost")
}
