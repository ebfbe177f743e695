package protected

import (
	"fmt"

	"github.com/google/uuid"
)

// Symbol is an opaque member key that never collides with a string key or
// with another Symbol. Symbols are comparable and usable as map keys; two
// Symbols created with the same description remain distinct.
type Symbol struct {
	id   string
	desc string
}

// NewSymbol mints a unique Symbol. The description is cosmetic and only
// surfaces in String output.
func NewSymbol(desc string) Symbol {
	return Symbol{id: uuid.NewString(), desc: desc}
}

func (s Symbol) String() string {
	if s.desc == "" {
		return fmt.Sprintf("Symbol(%s)", s.id)
	}
	return fmt.Sprintf("Symbol(%s)", s.desc)
}

func (s Symbol) isZero() bool {
	return s.id == ""
}

// validKey reports whether key is usable in a Members map: a string or a
// minted (non-zero) Symbol.
func validKey(key any) bool {
	switch k := key.(type) {
	case string:
		return true
	case Symbol:
		return !k.isZero()
	default:
		return false
	}
}

// keyLabel renders a member key for errors and provenance output.
func keyLabel(key any) string {
	switch k := key.(type) {
	case string:
		return k
	case Symbol:
		return k.String()
	default:
		return fmt.Sprintf("%v", key)
	}
}
