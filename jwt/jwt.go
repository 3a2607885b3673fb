package jwt

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"go.uber.org/zap"

	"gym-backend/log"
)

const (
	issuer = "gym-backend"

	kindAccess  = "access"
	kindRefresh = "refresh"

	accessTTL  = 24 * time.Hour
	refreshTTL = 24 * time.Hour * 30 * 6
)

var (
	ErrExpired   = errors.New("token expired")
	ErrWrongKind = errors.New("wrong token kind")
)

// Claims carry the session a token was issued for. The role is never part
// of a token: the session's gate resolves it.
type Claims struct {
	SessionID string `json:"sid"`
	UserID    string `json:"user_id"`
	Kind      string `json:"kind"`
	jwt.StandardClaims
}

type JWT struct {
	key []byte
	now func() time.Time
}

func New(key string) JWT {
	return JWT{key: []byte(key), now: time.Now}
}

func (j JWT) NewAccessToken(sessionID, uid string) (string, error) {
	return j.sign(sessionID, uid, kindAccess, accessTTL)
}

func (j JWT) NewRefreshToken(sessionID, uid string) (string, error) {
	return j.sign(sessionID, uid, kindRefresh, refreshTTL)
}

func (j JWT) ValidateAccessToken(token string) (*Claims, error) {
	return j.validate(token, kindAccess)
}

func (j JWT) ValidateRefreshToken(token string) (*Claims, error) {
	return j.validate(token, kindRefresh)
}

func (j JWT) sign(sessionID, uid, kind string, ttl time.Duration) (string, error) {
	now := j.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS512, &Claims{
		SessionID: sessionID,
		UserID:    uid,
		Kind:      kind,
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: now.Add(ttl).Unix(),
			IssuedAt:  now.Unix(),
			Issuer:    issuer,
		},
	})

	ss, err := token.SignedString(j.key)
	if err != nil {
		log.Logger.Error("signing failure", zap.Error(err))
		return "", err
	}

	return ss, nil
}

func (j JWT) validate(token, kind string) (*Claims, error) {
	t, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return j.key, nil
	})
	if err != nil {
		var ve *jwt.ValidationError
		if errors.As(err, &ve) && ve.Errors&jwt.ValidationErrorExpired != 0 {
			return nil, ErrExpired
		}

		log.Logger.Debug("parse failure", zap.Error(err))
		return nil, err
	}

	c := t.Claims.(*Claims)
	if c.Kind != kind {
		return nil, ErrWrongKind
	}

	return c, nil
}

type claimsKey struct{}

func WithClaims(ctx context.Context, c *Claims) context.Context {
	return context.WithValue(ctx, claimsKey{}, c)
}

func GetClaimsFromCtx(ctx context.Context) (*Claims, bool) {
	c, ok := ctx.Value(claimsKey{}).(*Claims)
	return c, ok
}
