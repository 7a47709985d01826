package sessions

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/studyvault/noteguard/internal/common"
)

// Claims carries the session binding inside the bearer view token. The
// token is the only thing downstream consumers need: a valid, unexpired
// token is proof of authorization for its (user, note) pair.
type Claims struct {
	jwt.RegisteredClaims
	SessionID string
	UserID    string
	NoteID    string
}

func GenerateViewToken(sessionID, userID, noteID string, secretKey []byte, expiresAt time.Time) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		SessionID: sessionID,
		UserID:    userID,
		NoteID:    noteID,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// ParseViewToken validates the token signature and expiry. An expired token
// maps to ErrSessionExpired so callers can trigger silent re-issuance; any
// other defect is ErrInvalidToken.
func ParseViewToken(tokenString string, secretKey []byte) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrSessionExpired
		}
		return nil, common.ErrInvalidToken
	}

	if !token.Valid {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}
