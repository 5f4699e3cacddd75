package domain

// LegacyToken is the pre-rewrite token shape. It exists only long enough to
// be converted into a Token: construct it from external legacy data, call
// Upgrade, discard it. It shares no storage with the upgraded token.
type LegacyToken struct {
	Type      TokenType
	Label     string
	Secret    string
	Digits    uint
	Period    uint
	Counter   uint32
	Algorithm Algorithm
}

// Clone returns a deep copy. Go strings are immutable so a field-wise copy
// already gives both sides independent lifetimes; Clone exists so call sites
// that previously aliased legacy tokens get an explicit copy point.
func (l *LegacyToken) Clone() *LegacyToken {
	cp := *l
	return &cp
}

// Valid mirrors Token.Valid for the legacy shape.
func (l *LegacyToken) Valid() bool {
	return !(l.Label == "" && l.Secret == "")
}

// Upgrade converts the legacy token into the current model under the given
// type tag. The reclassification rule is the caller's policy; Upgrade only
// guarantees a field-preserving copy with no aliasing back to the legacy
// value.
func (l *LegacyToken) Upgrade(typ TokenType) *Token {
	return &Token{
		Type:      typ,
		Label:     l.Label,
		Secret:    l.Secret,
		Digits:    l.Digits,
		Period:    l.Period,
		Counter:   l.Counter,
		Algorithm: l.Algorithm,
	}
}

// RemainingValidity computes the seconds a period-based code remains valid,
// given the current second within the minute. A 1-second buffer is added so
// consumers never display "0 seconds remaining". A zero period returns 0
// without dividing.
func RemainingValidity(nowSec int, period uint) uint32 {
	if period == 0 {
		return 0
	}

	validity := int(period) - nowSec
	if validity < 0 {
		validity = (int(period) - nowSec%int(period)) + 1
	} else {
		validity++
	}

	return uint32(validity)
}
