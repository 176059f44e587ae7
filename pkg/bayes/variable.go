/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: variable.go
Description: Variable identities and value domains for the Liora Bayesian
network engine. A variable is an identifier plus an ordered, finite set of
possible values; the default domain is boolean.
*/

package bayes

import (
	"fmt"
	"strings"
)

// ValueTrue and ValueFalse form the default boolean domain, in that order.
const (
	ValueTrue  = "true"
	ValueFalse = "false"
)

// Variable is an identifier plus an ordered, duplicate-free, non-empty set
// of possible values.
type Variable struct {
	Name   string
	Values []string
}

// DefaultDomain returns the boolean value domain {true, false}.
func DefaultDomain() []string {
	return []string{ValueTrue, ValueFalse}
}

// NewVariable creates a variable with the given domain, falling back to the
// default boolean domain when values is empty.
func NewVariable(name string, values []string) Variable {
	if len(values) == 0 {
		values = DefaultDomain()
	}
	domain := make([]string, len(values))
	copy(domain, values)
	return Variable{Name: name, Values: domain}
}

// IsBoolean reports whether the variable carries the default boolean domain.
func (v Variable) IsBoolean() bool {
	return len(v.Values) == 2 && v.Values[0] == ValueTrue && v.Values[1] == ValueFalse
}

// ValueIndex returns the position of value in the variable's domain, or an
// ErrDomainMismatch error if the value is not part of the domain.
func (v Variable) ValueIndex(value string) (int, error) {
	for i, val := range v.Values {
		if val == value {
			return i, nil
		}
	}
	return -1, fmt.Errorf("variable %q has no value %q: %w", v.Name, value, ErrDomainMismatch)
}

// HasValue reports whether value is part of the variable's domain.
func (v Variable) HasValue(value string) bool {
	_, err := v.ValueIndex(value)
	return err == nil
}

// Validate checks the variable invariants: non-empty name, non-empty and
// duplicate-free domain, and identifier-safe tokens (no whitespace or
// characters used by the query and file grammars).
func (v Variable) Validate() error {
	if err := CheckIdentifier(v.Name); err != nil {
		return fmt.Errorf("variable name: %w", err)
	}
	if len(v.Values) == 0 {
		return fmt.Errorf("variable %q has an empty value domain", v.Name)
	}
	seen := make(map[string]bool, len(v.Values))
	for _, val := range v.Values {
		if err := CheckIdentifier(val); err != nil {
			return fmt.Errorf("variable %q value: %w", v.Name, err)
		}
		if seen[val] {
			return fmt.Errorf("variable %q has duplicate value %q", v.Name, val)
		}
		seen[val] = true
	}
	return nil
}

// CheckIdentifier rejects names and values that would collide with the
// textual grammars: empty strings, whitespace, and the reserved characters
// '|', ',', '=' and ':'.
func CheckIdentifier(s string) error {
	if s == "" {
		return fmt.Errorf("empty identifier")
	}
	if strings.ContainsAny(s, "|,=: \t\n\r") {
		return fmt.Errorf("identifier %q contains a reserved character", s)
	}
	return nil
}
