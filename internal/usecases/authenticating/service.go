// Package authenticating emite e valida os tokens JWT da API. O acesso é
// de operador único: as credenciais do administrador vêm da configuração,
// com a senha armazenada como hash bcrypt.
package authenticating

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/avilchez/commerce-insights-api/internal/config"
	"github.com/avilchez/commerce-insights-api/internal/domain"
)

const tokenTTL = 24 * time.Hour

type Authenticator interface {
	LoginUser(email, password string) (string, error)
	ValidateToken(tokenString string) (*domain.Claims, error)
}

type Service struct {
	cfg *config.Config
}

func NewService(cfg *config.Config) Authenticator {
	return &Service{cfg: cfg}
}

func (s *Service) LoginUser(email, password string) (string, error) {
	if email == "" || password == "" {
		return "", NewAuthError(ErrMissingRequiredData, "Email e senha são obrigatórios")
	}

	email = handleEmail(email)

	if email != handleEmail(s.cfg.Auth.AdminEmail) {
		return "", NewAuthError(ErrInvalidCredentials, "Usuário não encontrado")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(s.cfg.Auth.AdminPassword), []byte(password)); err != nil {
		logrus.WithField("email", email).Warn("Tentativa de login com senha incorreta")
		return "", NewAuthError(ErrInvalidCredentials, "Senha incorreta")
	}

	token, err := generateJWT(email, s.cfg.Auth.Secret)
	if err != nil {
		return "", NewAuthError(err, "Erro ao gerar token de autenticação")
	}

	return token, nil
}

func (s *Service) ValidateToken(tokenString string) (*domain.Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &domain.Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.cfg.Auth.Secret), nil
	})
	if err != nil {
		return nil, NewAuthError(ErrInvalidToken, err.Error())
	}

	claims, ok := token.Claims.(*domain.Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

func generateJWT(email, secret string) (string, error) {
	claims := domain.Claims{
		Email: email,
		Role:  domain.RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func handleEmail(s string) string {
	email := strings.ToLower(s)
	email = strings.TrimSpace(email)
	email = strings.ReplaceAll(email, " ", "")
	return email
}
