package ledger

import (
	"strconv"

	"github.com/google/uuid"
)

// Event is an observable record emitted by a contract during a committed transaction.
type Event struct {
	ID        uuid.UUID
	Seq       uint64
	Emitter   Address
	Name      string
	Attrs     map[string]string
	Timestamp uint64
}

func (e *Event) clone() *Event {
	c := *e
	if e.Attrs != nil {
		c.Attrs = make(map[string]string, len(e.Attrs))
		for k, v := range e.Attrs {
			c.Attrs[k] = v
		}
	}
	return &c
}

// Attr returns the named attribute, or "" when absent.
func (e *Event) Attr(key string) string { return e.Attrs[key] }

// Uint returns the named attribute parsed as a decimal uint64.
func (e *Event) Uint(key string) (uint64, error) {
	return strconv.ParseUint(e.Attrs[key], 10, 64)
}

// Filter selects events. Zero-valued fields match everything.
type Filter struct {
	Emitter Address
	Name    string
	Attrs   map[string]string
}

// Match reports whether ev satisfies f.
func (f Filter) Match(ev *Event) bool {
	if !f.Emitter.IsZero() && ev.Emitter != f.Emitter {
		return false
	}
	if f.Name != "" && ev.Name != f.Name {
		return false
	}
	for k, v := range f.Attrs {
		if ev.Attrs[k] != v {
			return false
		}
	}
	return true
}

// Attrs is a small builder for event attributes.
type Attrs map[string]string

// U sets a uint64 attribute.
func (a Attrs) U(key string, v uint64) Attrs {
	a[key] = strconv.FormatUint(v, 10)
	return a
}

// A sets an address attribute using its Base58 form.
func (a Attrs) A(key string, v Address) Attrs {
	a[key] = v.String()
	return a
}

// S sets a string attribute.
func (a Attrs) S(key, v string) Attrs {
	a[key] = v
	return a
}

// B sets a boolean attribute.
func (a Attrs) B(key string, v bool) Attrs {
	a[key] = strconv.FormatBool(v)
	return a
}
