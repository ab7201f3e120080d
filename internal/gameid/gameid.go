// Package gameid generates time-ordered hand identifiers: a UUIDv7 encoded
// as 26 characters of Crockford base32, so IDs sort by creation time.
package gameid

import (
	"crypto/rand"
	"fmt"
	"strings"
	"time"

	"github.com/coder/quartz"
)

// Base32 alphabet used by TypeID (Crockford's base32)
const alphabet = "0123456789abcdefghjkmnpqrstvwxyz"

// Length is the number of characters in an ID
const Length = 26

// RandSource interface for dependency injection of randomness
type RandSource interface {
	IntN(n int) int
}

// Generator creates IDs from a clock and a source of random bits
type Generator struct {
	clock      quartz.Clock
	randSource RandSource
}

// NewGenerator creates a generator. A nil clock uses the wall clock and a
// nil randSource uses crypto/rand.
func NewGenerator(clock quartz.Clock, randSource RandSource) *Generator {
	if clock == nil {
		clock = quartz.NewReal()
	}
	return &Generator{clock: clock, randSource: randSource}
}

// Generate creates an ID from the wall clock and crypto/rand
func Generate() string {
	return NewGenerator(nil, nil).Generate()
}

// Generate creates a new ID
func (g *Generator) Generate() string {
	return encode(g.uuidV7())
}

func (g *Generator) uuidV7() [16]byte {
	var id [16]byte

	// 48-bit millisecond timestamp, then random bits with the version and
	// variant overlaid
	ms := uint64(g.clock.Now().UnixMilli())
	for i := range 6 {
		id[i] = byte(ms >> (40 - 8*i))
	}

	if g.randSource != nil {
		for i := 6; i < 16; i++ {
			id[i] = byte(g.randSource.IntN(256))
		}
	} else if _, err := rand.Read(id[6:]); err != nil {
		panic("failed to generate random bytes: " + err.Error())
	}

	id[6] = (id[6] & 0x0f) | 0x70
	id[8] = (id[8] & 0x3f) | 0x80
	return id
}

// encode writes the 128 bits as 26 five-bit groups, most significant first.
// The value is padded to 130 bits, so the first character is at most '7'.
func encode(id [16]byte) string {
	var hi, lo uint64
	for i := range 8 {
		hi = hi<<8 | uint64(id[i])
		lo = lo<<8 | uint64(id[8+i])
	}

	out := make([]byte, Length)
	for i := range Length {
		shift := uint(125 - 5*i)
		var v uint64
		switch {
		case shift >= 64:
			v = hi >> (shift - 64)
		case shift+5 <= 64:
			v = lo >> shift
		default:
			v = lo>>shift | hi<<(64-shift)
		}
		out[i] = alphabet[v&0x1f]
	}
	return string(out)
}

// Validate checks if an ID is valid (26 characters, valid base32)
func Validate(id string) error {
	if len(id) != Length {
		return fmt.Errorf("game ID must be exactly %d characters, got %d", Length, len(id))
	}
	if id[0] > '7' {
		return fmt.Errorf("game ID first character must be 0-7, got %c", id[0])
	}
	for i, char := range id {
		if !strings.ContainsRune(alphabet, char) {
			return fmt.Errorf("invalid character %c at position %d", char, i)
		}
	}
	return nil
}

// Time returns the creation time encoded in an ID, to the millisecond
func Time(id string) (time.Time, error) {
	if err := Validate(id); err != nil {
		return time.Time{}, err
	}
	var hi, lo uint64
	for i := range Length {
		v := uint64(strings.IndexByte(alphabet, id[i]))
		hi = hi<<5 | lo>>59
		lo = lo<<5 | v
	}
	return time.UnixMilli(int64(hi >> 16)), nil
}
