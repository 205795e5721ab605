package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken es el único error que expone Verify: firma incorrecta, token malformado
// y token expirado se colapsan para no dar pistas a quien prueba tokens.
var ErrInvalidToken = errors.New("invalid token")

// Claims incluye los claims estándar JWT más el rol del administrador.
// Subject lleva el ID del administrador.
type Claims struct {
	jwt.RegisteredClaims
	Role string `json:"role"`
}

// Config configuración del servicio de tokens. Se carga una vez al arrancar.
type Config struct {
	Secret string
	TTL    time.Duration
	Issuer string
}

// Service emite y valida tokens HS256. Inmutable tras NewService; se comparte sin locks.
type Service struct {
	secret []byte
	ttl    time.Duration
	issuer string
}

// NewService construye el servicio. Cambiar el secreto invalida todos los tokens emitidos.
func NewService(cfg Config) (*Service, error) {
	if cfg.Secret == "" {
		return nil, fmt.Errorf("jwt: secret vacío")
	}
	if cfg.TTL < 0 {
		return nil, fmt.Errorf("jwt: ttl negativo")
	}
	return &Service{
		secret: []byte(cfg.Secret),
		ttl:    cfg.TTL,
		issuer: cfg.Issuer,
	}, nil
}

// TTL devuelve la vida útil configurada.
func (s *Service) TTL() time.Duration { return s.ttl }

// Issue genera un token para subject/role con la vida útil configurada.
func (s *Service) Issue(subject, role string, now time.Time) (string, error) {
	return s.IssueWithTTL(subject, role, now, s.ttl)
}

// IssueWithTTL genera un token con issued_at=now y expires_at=now+ttl.
// Los claims JWT van en segundos enteros: now se trunca al segundo antes de calcular
// ambos, así expires_at-issued_at == ttl y la vida real puede ser hasta 1s menor.
// Con ttl=0 el token nace expirado.
func (s *Service) IssueWithTTL(subject, role string, now time.Time, ttl time.Duration) (string, error) {
	if ttl < 0 {
		return "", fmt.Errorf("jwt: ttl negativo")
	}
	now = now.Truncate(time.Second)
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Role: role,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("jwt: firmar token: %w", err)
	}
	return signed, nil
}

// Verify comprueba la firma antes de mirar cualquier claim y exige now < expires_at.
// Cualquier fallo devuelve ErrInvalidToken.
func (s *Service) Verify(tokenString string, now time.Time) (*Claims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(func() time.Time { return now }),
	}
	if s.issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("método de firma inesperado: %v", t.Header["alg"])
		}
		return s.secret, nil
	}, opts...)
	if err != nil {
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.ExpiresAt == nil || claims.IssuedAt == nil {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
