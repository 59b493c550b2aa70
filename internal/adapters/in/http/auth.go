package http

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"agrimarket/internal/core/domain/model/kernel"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)

// Context keys under which the authenticated caller is stored.
const (
	ctxUserID   = "userID"
	ctxUserRole = "userRole"
)

// Claims carries the authenticated user identity inside the JWT.
type Claims struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies HMAC-signed JWTs.
type TokenService struct {
	secretKey []byte
	tokenTTL  time.Duration
	issuer    string
}

// NewTokenService creates a token service with the given signing secret.
func NewTokenService(secretKey string, tokenTTL time.Duration) *TokenService {
	return &TokenService{
		secretKey: []byte(secretKey),
		tokenTTL:  tokenTTL,
		issuer:    "agrimarket",
	}
}

// GenerateToken creates a signed JWT for the given user.
func (s *TokenService) GenerateToken(userID kernel.UUID, role string) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: userID.String(),
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    s.issuer,
			Subject:   userID.String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secretKey)
}

// ValidateToken parses and verifies a JWT, returning its claims.
func (s *TokenService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secretKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// AuthMiddleware authenticates requests via the Authorization header and
// stores the caller's id and role in the echo context.
func AuthMiddleware(tokens *TokenService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			tokenString, found := strings.CutPrefix(header, "Bearer ")
			if !found || tokenString == "" {
				return c.JSON(http.StatusUnauthorized, errorResponse{
					Code:    http.StatusUnauthorized,
					Message: "Missing bearer token",
				})
			}

			claims, err := tokens.ValidateToken(tokenString)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, errorResponse{
					Code:    http.StatusUnauthorized,
					Message: err.Error(),
				})
			}

			userID, err := kernel.UUIDFromString(claims.UserID)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, errorResponse{
					Code:    http.StatusUnauthorized,
					Message: "Malformed user id in token",
				})
			}

			c.Set(ctxUserID, userID)
			c.Set(ctxUserRole, claims.Role)
			return next(c)
		}
	}
}

// callerID returns the authenticated user id stored by AuthMiddleware.
func callerID(c echo.Context) (kernel.UUID, error) {
	userID, ok := c.Get(ctxUserID).(kernel.UUID)
	if !ok {
		return kernel.UUID{}, ErrInvalidToken
	}
	return userID, nil
}

// callerRole returns the authenticated user's role stored by AuthMiddleware.
func callerRole(c echo.Context) string {
	role, _ := c.Get(ctxUserRole).(string)
	return role
}
