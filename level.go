package stb34101

// Level is a security level of the STB 34.101 family. The standard levels
// are 128, 192 and 256; 96 is the experimental bign96 level.
type Level int

const (
	L96  Level = 96
	L128 Level = 128
	L192 Level = 192
	L256 Level = 256
)

// Valid reports whether l is one of the standard levels (96 is accepted
// only where the caller explicitly allows the experimental set).
func (l Level) Valid() bool {
	return l == L128 || l == L192 || l == L256
}

// FieldBytes returns the byte width of a field element at this level,
// (2l)/8 per STB 34.101.45.
func (l Level) FieldBytes() int { return int(l) / 4 }

// OrderBytes returns the byte width of the group order, equal to the
// field width for every bign curve.
func (l Level) OrderBytes() int { return int(l) / 4 }

// HashBytes returns the byte width of the level's hash output, l/4.
func (l Level) HashBytes() int { return int(l) / 4 }

// SigBytes returns the byte width of a signature, l/4 + l/2.
func (l Level) SigBytes() int { return 3 * int(l) / 8 }
