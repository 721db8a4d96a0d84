package jwt

import (
	"time"

	"github.com/cmlabs-hris/hris-payroll/internal/domain/user"
	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

const TokenTypeAccess = "access"

// Service verifies bearer tokens. Tokens are issued by the identity service;
// GenerateAccessToken exists for operators and tests.
type Service interface {
	GenerateAccessToken(caller user.Caller) (token string, expiresAt int64, err error)
	CallerFromClaims(claims map[string]interface{}) (user.Caller, error)
	JWTAuth() *jwtauth.JWTAuth
}

type JWTService struct {
	accessTokenExpiration time.Duration
	tokenAuth             *jwtauth.JWTAuth
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func NewJWTService(secretKey string, accessTokenExpiration time.Duration) Service {
	return &JWTService{
		accessTokenExpiration: accessTokenExpiration,
		tokenAuth:             jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
	}
}

func (j *JWTService) GenerateAccessToken(caller user.Caller) (token string, expiresAt int64, err error) {
	expiresAt = time.Now().Add(j.accessTokenExpiration).Unix()

	_, tokenString, err := j.tokenAuth.Encode(map[string]interface{}{
		"user_id":  caller.UserID,
		"username": caller.Username,
		"role":     string(caller.Role),
		"type":     TokenTypeAccess,
		"exp":      expiresAt,
	})
	return tokenString, expiresAt, err
}

// CallerFromClaims builds the acting identity from verified access-token
// claims.
func (j *JWTService) CallerFromClaims(claims map[string]interface{}) (user.Caller, error) {
	tokenType, ok := claims["type"].(string)
	if !ok || tokenType != TokenTypeAccess {
		return user.Caller{}, user.ErrInvalidToken
	}

	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return user.Caller{}, user.ErrInvalidToken
	}

	username, _ := claims["username"].(string)
	if username == "" {
		username = userID
	}

	roleStr, _ := claims["role"].(string)
	role := user.Role(roleStr)
	if !role.IsValid() {
		return user.Caller{}, user.ErrInvalidRole
	}

	return user.Caller{UserID: userID, Username: username, Role: role}, nil
}
