package utils

import (
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"fiber-storefront/internal/domain"
)

var secretKey []byte

func SetSecret(key string) {
	secretKey = []byte(key)
}

// GenerateSessionJWT wraps the backend customer access token in a signed
// cookie value that expires together with it.
func GenerateSessionJWT(accessToken string, expiresAt time.Time) (string, error) {
	if len(secretKey) == 0 {
		return "", fmt.Errorf("jwt secret not set")
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"cat": accessToken,
		"iat": time.Now().Unix(),
		"exp": expiresAt.Unix(),
	})

	return token.SignedString(secretKey)
}

func ValidateJWT(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secretKey, nil
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, fmt.Errorf("invalid token")
}

// ExtractCustomerSession reads the customer session from the cookie or a Bearer header.
func ExtractCustomerSession(r *http.Request) (*domain.CustomerSession, error) {
	tokenString := ""
	authHeader := r.Header.Get("Authorization")
	if len(authHeader) > 7 && authHeader[:7] == "Bearer " {
		tokenString = authHeader[7:]
	} else if cookie, err := r.Cookie(domain.CustomerSessionCookie); err == nil {
		tokenString = cookie.Value
	}

	if tokenString == "" {
		return nil, fmt.Errorf("no token found")
	}

	claims, err := ValidateJWT(tokenString)
	if err != nil {
		return nil, err
	}

	accessToken, _ := claims["cat"].(string)
	if accessToken == "" {
		return nil, fmt.Errorf("token carries no customer access token")
	}
	session := &domain.CustomerSession{AccessToken: accessToken}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		session.ExpiresAt = exp.Time
	}
	return session, nil
}

// SetSessionCookie writes the customer session cookie; an empty value clears it.
func SetSessionCookie(w http.ResponseWriter, value string, expiresAt time.Time, secure bool) {
	cookie := &http.Cookie{
		Name:     domain.CustomerSessionCookie,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
		Expires:  expiresAt,
	}
	if value == "" {
		cookie.MaxAge = -1
		cookie.Expires = time.Unix(0, 0)
	}
	http.SetCookie(w, cookie)
}
