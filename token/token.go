// Package token parses dispatcher tokens: "name", "name(value)",
// "name_scope" and "name(value)_scope".
package token

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// ScopeSeparator separates scope suffix from the rest of the token.
	ScopeSeparator = '_'
	openArgs       = '('
	closeArgs      = ')'
)

// ErrMalformed is returned for tokens which do not follow the grammar.
var ErrMalformed = errors.New("malformed token")

// Token is a parsed dispatcher token.
type Token struct {
	Raw      string
	Name     string
	Value    string
	HasValue bool
	Scope    string
	HasScope bool
}

// Effective returns token without scope suffix - what is matched against
// mixin names.
func (t Token) Effective() string {
	if !t.HasValue {
		return t.Name
	}
	return t.Name + string(openArgs) + t.Value + string(closeArgs)
}

func (t Token) String() string {
	if !t.HasScope {
		return t.Effective()
	}
	return t.Effective() + string(ScopeSeparator) + t.Scope
}

type state int

const (
	stateName state = iota
	stateArgs
	stateClosed
	stateScope
)

// Parse runs the token state machine: Name -> (Args) -> Scope. Argument is
// everything between the first "(" and its matching ")", parentheses inside
// are allowed as long as they are balanced.
func Parse(raw string) (Token, error) {
	t := Token{Raw: raw}

	var (
		st    = stateName
		depth int
		name  strings.Builder
		value strings.Builder
		scope strings.Builder
	)

	malformed := func(pos int, reason string) (Token, error) {
		return Token{Raw: raw}, fmt.Errorf("%w '%s' at %d: %s", ErrMalformed, raw, pos, reason)
	}

	for i, r := range raw {
		switch st {
		case stateName:
			switch r {
			case openArgs:
				st, depth, t.HasValue = stateArgs, 1, true
			case ScopeSeparator:
				st, t.HasScope = stateScope, true
			case closeArgs:
				return malformed(i, "unexpected closing parenthesis")
			default:
				name.WriteRune(r)
			}
		case stateArgs:
			switch r {
			case openArgs:
				depth++
			case closeArgs:
				depth--
				if depth == 0 {
					st = stateClosed
					continue
				}
			}
			value.WriteRune(r)
		case stateClosed:
			if r != ScopeSeparator {
				return malformed(i, "unexpected characters after argument")
			}
			st, t.HasScope = stateScope, true
		case stateScope:
			scope.WriteRune(r)
		}
	}

	switch {
	case st == stateArgs:
		return malformed(len(raw), "unbalanced parentheses")
	case name.Len() == 0:
		return malformed(0, "empty name")
	case t.HasScope && scope.Len() == 0:
		return malformed(len(raw), "empty scope")
	}

	t.Name, t.Value, t.Scope = name.String(), value.String(), scope.String()
	return t, nil
}
