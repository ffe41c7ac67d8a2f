// Package roundid names rounds with sortable identifiers: a UUIDv7 written as
// 26 characters of Crockford base32.
package roundid

import (
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
)

// Crockford's base32, lower case
const alphabet = "0123456789abcdefghjkmnpqrstvwxyz"

// Length of an encoded identifier
const Length = 26

// Generator produces round IDs. A nil reader uses crypto randomness.
type Generator struct {
	rand io.Reader
}

// NewGenerator creates a generator drawing random bits from r; pass nil for crypto/rand.
func NewGenerator(r io.Reader) *Generator {
	return &Generator{rand: r}
}

// New returns a fresh round ID
func New() string {
	return NewGenerator(nil).Next()
}

// Next returns the next round ID. It panics if the random source fails, which
// crypto/rand does not.
func (g *Generator) Next() string {
	var (
		id  uuid.UUID
		err error
	)
	if g.rand != nil {
		id, err = uuid.NewV7FromReader(g.rand)
	} else {
		id, err = uuid.NewV7()
	}
	if err != nil {
		panic("roundid: " + err.Error())
	}
	return Encode(id)
}

// Encode writes a UUID as 26 base32 characters. The 128 bits are padded with
// two leading zero bits, so the first character is always 0-7.
func Encode(id uuid.UUID) string {
	var hi, lo uint64
	for i := 0; i < 8; i++ {
		hi = hi<<8 | uint64(id[i])
		lo = lo<<8 | uint64(id[i+8])
	}

	out := make([]byte, Length)
	for i := range Length {
		out[i] = alphabet[shr(hi, lo, uint(125-5*i))&0x1f]
	}
	return string(out)
}

// Decode reverses Encode
func Decode(s string) (uuid.UUID, error) {
	if err := Validate(s); err != nil {
		return uuid.Nil, err
	}
	var hi, lo uint64
	for i := range Length {
		v := uint64(strings.IndexByte(alphabet, s[i]))
		hi = hi<<5 | lo>>59
		lo = lo<<5 | v
	}

	var id uuid.UUID
	for i := 0; i < 8; i++ {
		id[i] = byte(hi >> (56 - 8*i))
		id[i+8] = byte(lo >> (56 - 8*i))
	}
	return id, nil
}

func shr(hi, lo uint64, s uint) uint64 {
	switch {
	case s == 0:
		return lo
	case s >= 64:
		return hi >> (s - 64)
	default:
		return lo>>s | hi<<(64-s)
	}
}

// Validate checks that s is 26 base32 characters and fits in 128 bits
func Validate(s string) error {
	if len(s) != Length {
		return fmt.Errorf("round ID must be exactly %d characters, got %d", Length, len(s))
	}
	if s[0] > '7' {
		return fmt.Errorf("round ID first character must be 0-7, got %c", s[0])
	}
	for i := 0; i < len(s); i++ {
		if strings.IndexByte(alphabet, s[i]) < 0 {
			return fmt.Errorf("invalid character %c at position %d", s[i], i)
		}
	}
	return nil
}
