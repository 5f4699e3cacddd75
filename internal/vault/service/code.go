package service

import (
	"context"
	"crypto/hmac"
	"crypto/sha1"
	"encoding/base32"
	"encoding/binary"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/hotp"
	"github.com/pquerna/otp/totp"

	"github.com/otpvault/otpvault/internal/vault/domain"
	"github.com/otpvault/otpvault/internal/vault/store"
	"github.com/otpvault/otpvault/pkg/idx"
)

// ErrUnusableToken reports a token whose parameters cannot produce a code
// (unknown algorithm, undecodable secret).
var ErrUnusableToken = errors.New("service: token cannot generate a code")

// steamAlphabet is the Steam authenticator's code alphabet. Steam codes are
// 5 characters drawn from it instead of decimal digits.
const steamAlphabet = "23456789BCDFGHJKMNPQRTVWXY"

// steamPeriod is fixed; the Steam app does not expose it.
const steamPeriod = 30

// CodeService generates live OTP codes from stored tokens.
type CodeService struct {
	Store store.Store
}

// CodeByID fetches a stored token, generates its current code, and for HOTP
// advances the persisted counter so the code is not reissued.
func (s *CodeService) CodeByID(ctx context.Context, id idx.ID, now time.Time) (string, error) {
	rec, err := s.Store.Tokens().GetByID(ctx, id)
	if err != nil {
		return "", err
	}

	code, err := Code(&rec.Token, now)
	if err != nil {
		return "", err
	}

	if rec.Token.Type == domain.TypeHOTP {
		if err := s.Store.Tokens().UpdateCounter(ctx, id, rec.Token.Counter+1); err != nil {
			return "", fmt.Errorf("service: failed to advance counter: %w", err)
		}
	}

	return code, nil
}

// Code computes the current code for a token without touching storage.
func Code(token *domain.Token, now time.Time) (string, error) {
	switch token.Type {
	case domain.TypeSteam:
		return steamCode(token.Secret, now)
	case domain.TypeHOTP:
		alg, err := otpAlgorithm(token.Algorithm)
		if err != nil {
			return "", err
		}
		code, err := hotp.GenerateCodeCustom(token.Secret, uint64(token.Counter), hotp.ValidateOpts{
			Digits:    otp.Digits(token.Digits), // #nosec G115 - digits are range checked at store time
			Algorithm: alg,
		})
		if err != nil {
			return "", fmt.Errorf("%w: %w", ErrUnusableToken, err)
		}
		return code, nil
	default:
		alg, err := otpAlgorithm(token.Algorithm)
		if err != nil {
			return "", err
		}
		code, err := totp.GenerateCodeCustom(token.Secret, now, totp.ValidateOpts{
			Period:    token.Period,
			Digits:    otp.Digits(token.Digits), // #nosec G115
			Algorithm: alg,
		})
		if err != nil {
			return "", fmt.Errorf("%w: %w", ErrUnusableToken, err)
		}
		return code, nil
	}
}

func otpAlgorithm(a domain.Algorithm) (otp.Algorithm, error) {
	switch a {
	case domain.AlgorithmSHA1:
		return otp.AlgorithmSHA1, nil
	case domain.AlgorithmSHA256:
		return otp.AlgorithmSHA256, nil
	case domain.AlgorithmSHA512:
		return otp.AlgorithmSHA512, nil
	default:
		return 0, fmt.Errorf("%w: invalid algorithm", ErrUnusableToken)
	}
}

// steamCode implements Steam's TOTP variant: the standard RFC 4226 31-bit
// truncation of an HMAC-SHA1 over the 30-second time counter, rendered as
// 5 characters of the Steam alphabet instead of decimal digits. The decimal
// rendering is the only part pquerna/otp exposes, so the truncation is
// redone here.
func steamCode(secret string, now time.Time) (string, error) {
	key, err := decodeSecret(secret)
	if err != nil {
		return "", err
	}

	var counter [8]byte
	binary.BigEndian.PutUint64(counter[:], uint64(now.Unix()/steamPeriod)) // #nosec G115

	mac := hmac.New(sha1.New, key)
	mac.Write(counter[:])
	sum := mac.Sum(nil)

	offset := sum[len(sum)-1] & 0x0F
	value := binary.BigEndian.Uint32(sum[offset:offset+4]) & 0x7FFFFFFF

	code := make([]byte, 5)
	for i := range code {
		code[i] = steamAlphabet[value%uint32(len(steamAlphabet))]
		value /= uint32(len(steamAlphabet))
	}
	return string(code), nil
}

// decodeSecret accepts the usual base32 secret forms: upper or lower case,
// with or without padding, with stray spaces.
func decodeSecret(secret string) ([]byte, error) {
	s := strings.ToUpper(strings.ReplaceAll(secret, " ", ""))
	s = strings.TrimRight(s, "=")

	key, err := base32.StdEncoding.WithPadding(base32.NoPadding).DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: bad secret: %w", ErrUnusableToken, err)
	}
	return key, nil
}
