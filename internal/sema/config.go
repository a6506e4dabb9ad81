package sema

import (
	"fmt"
	"strings"
)

// SubscriptPolicy decides how an APPROX array index is reported.
type SubscriptPolicy uint8

const (
	SubscriptWarn SubscriptPolicy = iota
	SubscriptOff
	SubscriptError
)

func (p SubscriptPolicy) String() string {
	switch p {
	case SubscriptOff:
		return "off"
	case SubscriptError:
		return "error"
	default:
		return "warn"
	}
}

// ParseSubscriptPolicy accepts off|warn|error; "" means warn.
func ParseSubscriptPolicy(s string) (SubscriptPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "warn":
		return SubscriptWarn, nil
	case "off":
		return SubscriptOff, nil
	case "error":
		return SubscriptError, nil
	}
	return SubscriptWarn, fmt.Errorf("unknown approx_subscript policy %q (want off|warn|error)", s)
}

// Config is the checker part of approx.toml.
type Config struct {
	// RedundantEscape reports ENDORSE/DEDORSE with nothing to relax.
	RedundantEscape bool
	ApproxSubscript SubscriptPolicy
	// Polymorphic adds user functions to the qualifier-polymorphic set.
	Polymorphic []string
}

var builtinPolymorphic = []string{
	"memcpy", "memmove", "memset", "bzero",
	"malloc", "calloc", "realloc", "free", "alloca",
}

// allocators return fresh memory; the rest of the polymorphic set hands
// back memory the caller already owns.
var allocators = []string{"malloc", "calloc", "alloca"}

func isAllocator(name string) bool {
	for _, n := range allocators {
		if n == name {
			return true
		}
	}
	return false
}

func (c Config) normalized() Config {
	out := c
	out.Polymorphic = append(append([]string(nil), builtinPolymorphic...), c.Polymorphic...)
	return out
}

func (c Config) isPolymorphic(name string) bool {
	for _, n := range c.Polymorphic {
		if n == name {
			return true
		}
	}
	return false
}
