// Package position maps dealer-relative seats to named table positions.
package position

import (
	"fmt"
	"strings"
)

// Role is a named table position. Roles are declared in acting order, so a
// larger Role acts later after the flop.
type Role int

const (
	None Role = iota
	SB
	BB
	UTG
	UTG1
	UTG2
	MP1
	MP2
	HJ
	CO
	BTN
)

// Random is the configuration value asking for a random dealer seat instead of a fixed role
const Random = "random"

var roleNames = [...]string{"", "SB", "BB", "UTG", "UTG+1", "UTG+2", "MP1", "MP2", "HJ", "CO", "BTN"}

func (r Role) String() string {
	if r < None || int(r) >= len(roleNames) {
		return fmt.Sprintf("Role(%d)", int(r))
	}
	return roleNames[r]
}

// Order returns the fixed position-advantage rank: SB=0 up to BTN=9, -1 for None.
func (r Role) Order() int {
	if r <= None || r > BTN {
		return -1
	}
	return int(r) - 1
}

// ParseRole parses a role name such as "UTG+1" (case-insensitive)
func ParseRole(s string) (Role, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	for i, name := range roleNames {
		if i > 0 && name == s {
			return Role(i), nil
		}
	}
	return None, fmt.Errorf("unknown role: %q", s)
}

// MarshalText encodes the role by name; None encodes as "".
func (r Role) MarshalText() ([]byte, error) {
	if r == None {
		return []byte{}, nil
	}
	return []byte(r.String()), nil
}

// UnmarshalText decodes a role name; "" decodes as None.
func (r *Role) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*r = None
		return nil
	}
	role, err := ParseRole(string(text))
	if err != nil {
		return err
	}
	*r = role
	return nil
}

const (
	MinPlayers = 2
	MaxPlayers = 10
)

var baseOrder = []Role{SB, BB, UTG, UTG1, UTG2, MP1, MP2, HJ, CO, BTN}

// Roles returns the roles in use for a table of the given size, ordered from
// the seat after the dealer round to the dealer. Short tables use the
// conventional compressed names; tables above eight players fill the early
// and middle positions in order and always end with BTN.
func Roles(playerCount int) []Role {
	switch playerCount {
	case 2:
		return []Role{SB, BTN}
	case 3:
		return []Role{SB, BB, BTN}
	case 4:
		return []Role{SB, BB, CO, BTN}
	case 5:
		return []Role{SB, BB, UTG, CO, BTN}
	case 6:
		return []Role{SB, BB, UTG, HJ, CO, BTN}
	case 7:
		return []Role{SB, BB, UTG, MP1, HJ, CO, BTN}
	case 8:
		return []Role{SB, BB, UTG, UTG1, MP1, HJ, CO, BTN}
	}
	if playerCount < 2 {
		return nil
	}
	n := min(playerCount-1, len(baseOrder)-1)
	roles := make([]Role, 0, n+1)
	roles = append(roles, baseOrder[:n]...)
	return append(roles, BTN)
}

// Assign returns the role of every seat: the seat (dealer+1+i) mod n gets the
// i-th role of Roles(n). The result always covers every seat.
func Assign(dealer, playerCount int) []Role {
	seats := make([]Role, playerCount)
	if playerCount <= 0 {
		return seats
	}
	for i, role := range Roles(playerCount) {
		seats[(dealer+1+i)%playerCount] = role
	}
	return seats
}

// DealerForRole returns the dealer seat that gives seat 0 the requested role.
// ok is false when the role is not used at this table size.
func DealerForRole(role Role, playerCount int) (dealer int, ok bool) {
	for i, r := range Roles(playerCount) {
		if r == role {
			return playerCount - 1 - i, true
		}
	}
	return 0, false
}
