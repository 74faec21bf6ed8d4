package session

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	userTokenIssuer         = "ku-toilet-map"
	confirmationTokenIssuer = "ku-toilet-map-admin"
)

var (
	ErrInvalidToken         = errors.New("invalid token")
	ErrConfirmationMismatch = errors.New("confirmation does not match this request")
)

// Codec signs the persisted user record and short-lived admin confirmations with HS256.
type Codec struct {
	secret []byte
	now    func() time.Time
}

func NewCodec(secret []byte) (*Codec, error) {
	if len(secret) == 0 {
		return nil, errors.New("session secret must not be empty")
	}
	return &Codec{secret: append([]byte(nil), secret...), now: time.Now}, nil
}

type userClaims struct {
	jwt.RegisteredClaims
	User User `json:"user"`
}

// EncodeUser produces the cookie value. The token carries no exp claim.
func (c *Codec) EncodeUser(user User) (string, error) {
	claims := userClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:   userTokenIssuer,
			Subject:  user.ID,
			IssuedAt: jwt.NewNumericDate(c.now()),
		},
		User: user,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign user token: %w", err)
	}
	return signed, nil
}

// DecodeUser verifies the signature and returns the embedded user record.
func (c *Codec) DecodeUser(tokenString string) (User, error) {
	claims := &userClaims{}
	if err := c.parse(tokenString, claims); err != nil {
		return User{}, err
	}
	if claims.Issuer != userTokenIssuer || strings.TrimSpace(claims.User.ID) == "" {
		return User{}, ErrInvalidToken
	}
	return claims.User, nil
}

type confirmationClaims struct {
	jwt.RegisteredClaims
	ReviewID string `json:"rid"`
}

// IssueConfirmation returns a token authorising deletion of one review by one admin.
func (c *Codec) IssueConfirmation(reviewID, email string, ttl time.Duration) (string, time.Time, error) {
	now := c.now()
	expires := now.Add(ttl)
	claims := confirmationClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    confirmationTokenIssuer,
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
		ReviewID: reviewID,
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign confirmation: %w", err)
	}
	return signed, expires, nil
}

// VerifyConfirmation checks that the token was issued for this review and admin and is unexpired.
func (c *Codec) VerifyConfirmation(tokenString, reviewID, email string) error {
	claims := &confirmationClaims{}
	if err := c.parse(tokenString, claims, jwt.WithExpirationRequired(), jwt.WithTimeFunc(c.now)); err != nil {
		return err
	}
	if claims.Issuer != confirmationTokenIssuer || claims.ReviewID != reviewID || claims.Subject != email {
		return ErrConfirmationMismatch
	}
	return nil
}

func (c *Codec) parse(tokenString string, claims jwt.Claims, opts ...jwt.ParserOption) error {
	tokenString = strings.TrimSpace(tokenString)
	if tokenString == "" {
		return ErrInvalidToken
	}
	opts = append(opts, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %s", token.Method.Alg())
		}
		return c.secret, nil
	}, opts...)
	if err != nil || !token.Valid {
		return fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return nil
}
