package utils

import (
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	adminTokenLifetime = 30 * time.Minute
	storeTokenLifetime = 7 * 24 * time.Hour
)

type Claims struct {
	Role      string `json:"role"`
	StoreName string `json:"store_name,omitempty"`
	jwt.RegisteredClaims
}

// TokenService signs and validates access tokens. The secret is injected at
// construction; there is no package-level key state.
type TokenService struct {
	secret []byte
}

func NewTokenService(secret string) *TokenService {
	return &TokenService{secret: []byte(secret)}
}

func (ts *TokenService) GenerateAdminToken() (string, error) {
	return ts.generate(Claims{
		Role: string(RoleAdmin),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "admin",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(adminTokenLifetime)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	})
}

func (ts *TokenService) GenerateStoreToken(storeID uint, storeName string) (string, error) {
	return ts.generate(Claims{
		Role:      string(RoleStore),
		StoreName: storeName,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(storeID), 10),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(storeTokenLifetime)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	})
}

func (ts *TokenService) generate(claims Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(ts.secret)
}

func (ts *TokenService) ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return ts.secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, jwt.ErrSignatureInvalid
	}
	return claims, nil
}
