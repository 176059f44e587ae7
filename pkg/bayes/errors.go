/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: errors.go
Description: Typed error values for the Liora Bayesian network engine. Every
validation and inference failure is reported through one of these sentinels so
callers can dispatch on error kind with errors.Is instead of string matching.
*/

package bayes

import "errors"

var (
	// ErrDuplicateDeclaration indicates the same node was declared twice
	// in a structural specification.
	ErrDuplicateDeclaration = errors.New("duplicate node declaration")

	// ErrCyclicGraph indicates the parent relation contains a cycle, so no
	// topological order exists.
	ErrCyclicGraph = errors.New("cyclic graph")

	// ErrUnknownVariable indicates a referenced variable does not exist in
	// the network.
	ErrUnknownVariable = errors.New("unknown variable")

	// ErrDomainMismatch indicates a supplied value is not in its variable's
	// value domain.
	ErrDomainMismatch = errors.New("value not in variable domain")

	// ErrIncompleteAssignment indicates a CPT row lookup was attempted with
	// at least one parent missing from the assignment.
	ErrIncompleteAssignment = errors.New("incomplete parent assignment")

	// ErrIncompleteCPT indicates a CPT is missing a row for some
	// combination of parent values.
	ErrIncompleteCPT = errors.New("incomplete probability table")

	// ErrUnnormalizedCPT indicates a CPT row does not sum to 1 within
	// ProbTolerance, or contains a probability outside [0, 1].
	ErrUnnormalizedCPT = errors.New("unnormalized probability table")

	// ErrMalformedQuery indicates a query expression could not be parsed.
	ErrMalformedQuery = errors.New("malformed query")

	// ErrTargetInEvidence indicates the evidence clause of a query mentions
	// the query target itself.
	ErrTargetInEvidence = errors.New("query target appears in evidence")

	// ErrZeroProbabilityEvidence indicates the supplied evidence has
	// probability zero under the model, so no conditional distribution
	// exists.
	ErrZeroProbabilityEvidence = errors.New("evidence has zero probability")

	// ErrCorruptFile indicates a persisted network file could not be
	// parsed. Files that parse but violate a network invariant fail with
	// that invariant's own error instead.
	ErrCorruptFile = errors.New("corrupt network file")
)
