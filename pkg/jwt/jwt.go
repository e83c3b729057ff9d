package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims de sesión: solo identifican al actor. El rol NO viaja en el token;
// se resuelve en el servidor en cada petición para no confiar en datos del cliente.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}

// ObjectClaims claims de una URL firmada de almacenamiento.
type ObjectClaims struct {
	jwt.RegisteredClaims
	Bucket string `json:"bkt"`
	Object string `json:"obj"`
}

const objectAudience = "storage"

// ErrEmptySecret se devuelve cuando no hay secreto configurado.
var ErrEmptySecret = errors.New("jwt: secret vacío")

// Generate genera un token de sesión firmado con userID y email.
func Generate(secret, userID, email, issuer string, expMinutes int) (string, error) {
	if secret == "" {
		return "", ErrEmptySecret
	}
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(expMinutes) * time.Minute)),
		},
		UserID: userID,
		Email:  email,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// Parse valida el token y devuelve userID y email.
// Retorna error si el token es inválido, expirado o tiene firma incorrecta.
func Parse(secret, tokenString string) (userID, email string, err error) {
	claims := &Claims{}
	if err := parseInto(secret, tokenString, claims); err != nil {
		return "", "", err
	}
	if claims.UserID == "" {
		return "", "", fmt.Errorf("claims inválidos: user_id vacío")
	}
	return claims.UserID, claims.Email, nil
}

// GenerateObjectToken firma el acceso de solo lectura a un objeto durante ttl.
func GenerateObjectToken(secret, bucket, object string, ttl time.Duration) (string, time.Time, error) {
	if secret == "" {
		return "", time.Time{}, ErrEmptySecret
	}
	now := time.Now()
	exp := now.Add(ttl)
	claims := ObjectClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Audience:  jwt.ClaimStrings{objectAudience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
		Bucket: bucket,
		Object: object,
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", time.Time{}, err
	}
	return token, exp, nil
}

// ParseObjectToken valida una URL firmada y devuelve bucket y clave del objeto.
func ParseObjectToken(secret, tokenString string) (bucket, object string, err error) {
	claims := &ObjectClaims{}
	if err := parseInto(secret, tokenString, claims, jwt.WithAudience(objectAudience)); err != nil {
		return "", "", err
	}
	if claims.Object == "" {
		return "", "", fmt.Errorf("claims inválidos: objeto vacío")
	}
	return claims.Bucket, claims.Object, nil
}

func parseInto(secret, tokenString string, claims jwt.Claims, opts ...jwt.ParserOption) error {
	if secret == "" {
		return ErrEmptySecret
	}
	opts = append(opts, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("método de firma inesperado: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	}, opts...)
	if err != nil {
		return err
	}
	if !token.Valid {
		return fmt.Errorf("claims inválidos")
	}
	return nil
}
