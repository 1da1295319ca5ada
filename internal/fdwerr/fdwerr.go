// Package fdwerr classifies adapter errors into the three kinds the
// host cares about: configuration mistakes a user can fix and retry,
// environment failures that make the serving context unusable, and
// internal consistency bugs.
package fdwerr

import (
	"errors"
	"fmt"
)

type Kind int

const (
	// KindConfig marks bad, missing, or mis-scoped options, schema
	// mismatches, unknown type tags, and unknown table names. Aborts
	// only the current statement.
	KindConfig Kind = iota
	// KindEnvironment marks a missing shards directory or an unreadable
	// shard manifest. Fatal to the serving context, never retried
	// per-query.
	KindEnvironment
	// KindInternal marks schema-sync or reader-protocol bugs: a host
	// column with no schema entry, an unrecognized type tag at scan
	// time, cursor initialization failures.
	KindInternal
)

func (k Kind) String() string {
	switch k {
	case KindConfig:
		return "configuration"
	case KindEnvironment:
		return "environment"
	case KindInternal:
		return "internal"
	}
	return "unknown"
}

// Error carries a kind alongside the underlying error. Use errors.As
// to recover it through wrapping.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s error: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Configf builds a configuration-kind error.
func Configf(format string, args ...any) error {
	return &Error{Kind: KindConfig, Err: fmt.Errorf(format, args...)}
}

// Envf builds an environment-kind error.
func Envf(format string, args ...any) error {
	return &Error{Kind: KindEnvironment, Err: fmt.Errorf(format, args...)}
}

// Internalf builds an internal-kind error.
func Internalf(format string, args ...any) error {
	return &Error{Kind: KindInternal, Err: fmt.Errorf(format, args...)}
}

func isKind(err error, k Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == k
}

func IsConfig(err error) bool      { return isKind(err, KindConfig) }
func IsEnvironment(err error) bool { return isKind(err, KindEnvironment) }
func IsInternal(err error) bool    { return isKind(err, KindInternal) }
