// Package andotp maps token collections to and from the andOTP backup
// schema: a root-level JSON array of token objects.
//
// Schema per entry:
//
//	{
//	    "secret": "", "label": "",
//	    "period": 30, "digits": 6,
//	    "type": "TOTP/HOTP/STEAM",
//	    "algorithm": "SHA1",
//	    "thumbnail": "Default", "last_used": 0, "tags": []
//	}
//
// see also: https://github.com/andOTP/andOTP/wiki/Special-features
package andotp

import (
	"encoding/json"
	"errors"

	"github.com/otpvault/otpvault/internal/vault/domain"
)

// ErrNotArray reports a document whose root is not a JSON array. This fails
// the whole import; it is distinct from per-entry problems, which only skip
// the offending entry.
var ErrNotArray = errors.New("andotp: root element must be an array")

// entry is the wire shape of a single andOTP token object. Pointer fields
// distinguish "absent" from zero values so import can enforce per-variant
// required fields.
type entry struct {
	Secret    *string  `json:"secret"`
	Label     *string  `json:"label"`
	Period    *uint    `json:"period,omitempty"`
	Counter   *uint32  `json:"counter,omitempty"`
	Digits    *uint    `json:"digits"`
	Type      *string  `json:"type"`
	Algorithm *string  `json:"algorithm"`
	Thumbnail string   `json:"thumbnail"`
	LastUsed  int64    `json:"last_used"`
	Tags      []string `json:"tags"`
}

// Marshal serializes tokens as an andOTP JSON array. Period is written for
// TOTP only and counter for HOTP only; fields outside the variant's
// semantics are never emitted. Steam entries are normalized to the fixed
// 5-digit SHA1 form the Steam authenticator uses, regardless of stored
// values. Thumbnail, last_used and tags are placeholder fields this engine
// does not populate.
func Marshal(tokens []*domain.Token) ([]byte, error) {
	out := make([]entry, 0, len(tokens))
	for _, token := range tokens {
		secret := token.Secret
		label := token.Label
		typ := token.Type.String()
		digits := token.Digits
		algorithm := token.Algorithm.String()

		e := entry{
			Secret:    &secret,
			Label:     &label,
			Digits:    &digits,
			Type:      &typ,
			Algorithm: &algorithm,
			Thumbnail: "Default",
			LastUsed:  0,
			Tags:      []string{},
		}

		switch token.Type {
		case domain.TypeHOTP:
			counter := token.Counter
			e.Counter = &counter
		case domain.TypeSteam:
			// Steam codes are always 5 digits of SHA1, whatever is stored.
			digits = 5
			algorithm = domain.AlgorithmSHA1.String()
		default:
			period := token.Period
			e.Period = &period
		}

		out = append(out, e)
	}

	return json.Marshal(out)
}

// Unmarshal parses an andOTP JSON array into tokens. Entry-level problems
// (missing required fields, wrong field types, unknown type strings) skip
// only that entry; a document that is not parsable, or whose root is not an
// array, fails the whole import with no tokens.
func Unmarshal(data []byte) ([]*domain.Token, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		// Distinguish "valid JSON, wrong root shape" from unparsable text
		// only as far as the caller cares: both abort the batch.
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return nil, ErrNotArray
		}
		return nil, err
	}
	// A literal null root decodes without error into a nil slice; it is
	// still not an array.
	if raw == nil {
		return nil, ErrNotArray
	}

	tokens := make([]*domain.Token, 0, len(raw))
	for _, msg := range raw {
		var e entry
		if err := json.Unmarshal(msg, &e); err != nil {
			continue
		}
		if token := e.token(); token != nil {
			tokens = append(tokens, token)
		}
	}

	return tokens, nil
}

// token converts a wire entry into a domain token, or nil when the entry
// does not carry everything its variant requires.
func (e *entry) token() *domain.Token {
	if e.Type == nil || e.Secret == nil || e.Label == nil {
		return nil
	}

	switch *e.Type {
	case "TOTP":
		if e.Period == nil || e.Digits == nil || e.Algorithm == nil {
			return nil
		}
		token := domain.NewToken(domain.TypeTOTP)
		token.Secret = *e.Secret
		token.Label = *e.Label
		token.Period = *e.Period
		token.Digits = *e.Digits
		token.SetAlgorithmName(*e.Algorithm)
		return token

	case "HOTP":
		if e.Counter == nil || e.Digits == nil || e.Algorithm == nil {
			return nil
		}
		token := domain.NewToken(domain.TypeHOTP)
		token.Secret = *e.Secret
		token.Label = *e.Label
		token.Counter = *e.Counter
		token.Digits = *e.Digits
		token.SetAlgorithmName(*e.Algorithm)
		return token

	case "STEAM":
		token := domain.NewToken(domain.TypeSteam)
		token.Secret = *e.Secret
		token.Label = *e.Label
		return token
	}

	return nil
}
