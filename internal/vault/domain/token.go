package domain

import "strings"

// TokenType discriminates the OTP variants. It is fixed at construction;
// nothing mutates it afterwards, so field applicability (period vs counter)
// stays stable over a token's lifetime.
type TokenType uint8

const (
	TypeTOTP TokenType = iota + 1
	TypeHOTP
	TypeSteam
)

// String returns the andOTP wire name for the type.
func (t TokenType) String() string {
	switch t {
	case TypeHOTP:
		return "HOTP"
	case TypeSteam:
		return "STEAM"
	default:
		return "TOTP"
	}
}

// Algorithm is the HMAC hash used for code generation.
type Algorithm uint8

const (
	AlgorithmInvalid Algorithm = iota
	AlgorithmSHA1
	AlgorithmSHA256
	AlgorithmSHA512
)

// ParseAlgorithm maps a textual label to an Algorithm, case-insensitively.
// Unrecognized labels map to AlgorithmInvalid rather than erroring, so
// lenient importers can carry on and fail later at code generation.
func ParseAlgorithm(s string) Algorithm {
	switch strings.ToUpper(s) {
	case "SHA1":
		return AlgorithmSHA1
	case "SHA256":
		return AlgorithmSHA256
	case "SHA512":
		return AlgorithmSHA512
	default:
		return AlgorithmInvalid
	}
}

func (a Algorithm) String() string {
	switch a {
	case AlgorithmSHA1:
		return "SHA1"
	case AlgorithmSHA256:
		return "SHA256"
	case AlgorithmSHA512:
		return "SHA512"
	default:
		return "(invalid)"
	}
}

// Limits for the numeric token parameters. Values outside these ranges are
// not generatable by any supported authenticator.
const (
	MinDigits uint = 3
	MaxDigits uint = 10

	MinPeriod uint = 1
	MaxPeriod uint = 120

	MinCounter uint32 = 0
	MaxCounter uint32 = 0x7FFFFFFF
)

// Token is a single OTP credential. Exactly one of the period-based
// (TOTP/Steam) or counter-based (HOTP) semantics applies, selected by Type;
// the codec ignores whichever fields do not apply to the variant.
type Token struct {
	Type      TokenType
	Label     string
	Secret    string // base32-encoded shared secret
	Digits    uint
	Period    uint   // seconds per time-step, TOTP/Steam only
	Counter   uint32 // HOTP only
	Algorithm Algorithm
}

// NewToken constructs a token of the given variant. All other fields start
// zero/empty and are set explicitly by the caller.
func NewToken(typ TokenType) *Token {
	return &Token{Type: typ}
}

// Valid reports whether the token carries enough identity to be stored.
// This is a minimal sanity check, not a range validation: a token with
// either a label or a secret is considered usable.
func (t *Token) Valid() bool {
	return !(t.Label == "" && t.Secret == "")
}

// SetAlgorithmName parses name per ParseAlgorithm and stores the result.
func (t *Token) SetAlgorithmName(name string) {
	t.Algorithm = ParseAlgorithm(name)
}
