package infra

import (
	"errors"
	"net/url"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrFirmaInvalida = errors.New("enlace invalido o expirado")

// FirmadorURL issues short-lived download links. The token is an HS256 JWT
// carrying the storage key, so no server-side state is needed to verify it.
type FirmadorURL struct {
	secret  []byte
	baseURL string
	ttl     time.Duration
}

func NewFirmadorURL(secret, baseURL string, ttl time.Duration) *FirmadorURL {
	return &FirmadorURL{secret: []byte(secret), baseURL: strings.TrimRight(baseURL, "/"), ttl: ttl}
}

// Firmar returns an absolute URL to GET /v1/archivos/:token.
func (f *FirmadorURL) Firmar(key string, now time.Time) (string, error) {
	claims := jwt.MapClaims{
		"sub": key,
		"use": "archivo",
		"iat": now.Unix(),
		"exp": now.Add(f.ttl).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(f.secret)
	if err != nil {
		return "", err
	}
	return f.baseURL + "/v1/archivos/" + url.PathEscape(token), nil
}

// Verificar returns the storage key carried by token.
func (f *FirmadorURL) Verificar(token string) (string, error) {
	t, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return f.secret, nil
	})
	if err != nil || !t.Valid {
		return "", ErrFirmaInvalida
	}
	claims, ok := t.Claims.(jwt.MapClaims)
	if !ok || claims["use"] != "archivo" {
		return "", ErrFirmaInvalida
	}
	key, _ := claims["sub"].(string)
	if key == "" {
		return "", ErrFirmaInvalida
	}
	return key, nil
}
