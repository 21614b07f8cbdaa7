package webserver

import (
	"crypto/subtle"
	"errors"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrAdminKeyUnset means no admin key is configured; every admin action
	// fails closed rather than silently allowing access.
	ErrAdminKeyUnset = errors.New("admin key not configured")
	ErrUnauthorised  = errors.New("unauthorised")
	// ErrNoSessionSecret means admin-login cannot issue tokens.
	ErrNoSessionSecret = errors.New("jwt secret not configured")
)

// Guard gates admin actions behind the shared admin key. A key can be
// supplied per request, or exchanged once via Login for a short-lived bearer
// token.
type Guard struct {
	adminKey  string
	jwtSecret []byte
}

func NewGuard(adminKey string, jwtSecret []byte) Guard {
	return Guard{adminKey: adminKey, jwtSecret: jwtSecret}
}

// Authorize checks the caller-supplied key (body secret/adminKey first, then
// query parameters) against the configured admin key in constant time, or
// accepts a valid admin bearer token. The guarded handler never runs on
// failure.
func (g Guard) Authorize(c *gin.Context, env *postEnvelope) error {
	if g.adminKey == "" {
		return ErrAdminKeyUnset
	}

	var key string
	if env != nil {
		key = firstNonEmpty(env.Secret, env.AdminKey)
	}
	if key == "" {
		key = firstNonEmpty(c.Query("adminKey"), c.Query("secret"))
	}

	if key != "" {
		if subtle.ConstantTimeCompare([]byte(key), []byte(g.adminKey)) == 1 {
			return nil
		}
		return ErrUnauthorised
	}

	if tok := bearerToken(c); tok != "" && g.validToken(tok) {
		return nil
	}
	return ErrUnauthorised
}

// Login exchanges the admin key for a 12 hour bearer token.
func (g Guard) Login(key string) (gin.H, error) {
	if g.adminKey == "" {
		return nil, ErrAdminKeyUnset
	}
	if subtle.ConstantTimeCompare([]byte(key), []byte(g.adminKey)) != 1 {
		return nil, ErrUnauthorised
	}
	if len(g.jwtSecret) == 0 {
		return nil, ErrNoSessionSecret
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"role": "admin",
		"exp":  time.Now().Add(12 * time.Hour).Unix(),
	})
	signed, err := token.SignedString(g.jwtSecret)
	if err != nil {
		return nil, err
	}
	return gin.H{"success": true, "token": signed}, nil
}

func (g Guard) validToken(tok string) bool {
	if len(g.jwtSecret) == 0 {
		return false
	}
	parsed, err := jwt.Parse(tok, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return g.jwtSecret, nil
	})
	if err != nil || !parsed.Valid {
		return false
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	return ok && claims["role"] == "admin"
}

func bearerToken(c *gin.Context) string {
	h := c.GetHeader("Authorization")
	if strings.HasPrefix(h, "Bearer ") {
		return h[7:]
	}
	return ""
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
