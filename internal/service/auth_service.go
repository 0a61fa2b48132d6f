package service

import (
	"errors"
	"time"

	"github.com/dom/league-damage-calc/internal/config"
	"github.com/golang-jwt/jwt/v5"
)

// RoleAdmin is the role claim required to modify the catalog.
const RoleAdmin = "admin"

var (
	ErrImportDisabled = errors.New("catalog import is disabled")
	ErrInvalidToken   = errors.New("invalid token")
	ErrForbidden      = errors.New("admin role required")
)

type AuthService struct {
	cfg *config.Config
}

func NewAuthService(cfg *config.Config) *AuthService {
	return &AuthService{cfg: cfg}
}

// IssueToken signs an HS256 token for subject with the given role.
func (s *AuthService) IssueToken(subject, role string, ttl time.Duration) (string, error) {
	if !s.cfg.ImportEnabled() {
		return "", ErrImportDisabled
	}

	claims := jwt.MapClaims{
		"sub":  subject,
		"role": role,
		"exp":  time.Now().Add(ttl).Unix(),
		"iat":  time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

func (s *AuthService) ValidateToken(tokenString string) (*jwt.MapClaims, error) {
	if !s.cfg.ImportEnabled() {
		return nil, ErrImportDisabled
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(s.cfg.JWTSecret), nil
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return &claims, nil
	}

	return nil, ErrInvalidToken
}

// RequireAdmin validates the token and checks its role claim.
func (s *AuthService) RequireAdmin(tokenString string) (string, error) {
	claims, err := s.ValidateToken(tokenString)
	if err != nil {
		return "", err
	}

	role, _ := (*claims)["role"].(string)
	if role != RoleAdmin {
		return "", ErrForbidden
	}

	subject, _ := claims.GetSubject()
	return subject, nil
}
