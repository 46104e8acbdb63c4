package engine

import "fmt"

// ConfigError is a configuration error (spec.md §7): raised by Validate()
// calls at load time, before any hand is dealt. It is always fatal to the
// caller — the engine never attempts to run with an invalid variant or
// betting structure.
type ConfigError struct {
	msg string
}

func (e *ConfigError) Error() string { return e.msg }

func configErrorf(format string, args ...any) error {
	return &ConfigError{msg: fmt.Sprintf(format, args...)}
}

// invariantViolation panics with a diagnostic message — spec.md §7 treats
// an invariant violation (money going negative, a pot failing to conserve
// chips, a deck running dry mid-deal) as a programmer error in the caller
// or the engine itself, never a condition to recover from silently.
func invariantViolation(format string, args ...any) {
	panic(fmt.Sprintf("engine: invariant violated: "+format, args...))
}

// precondition reports a precondition violation the spec.md §7 way: silent
// rejection, (false, nil), no error value. Operations like folding when
// it's not your turn, or betting below the table minimum, use this instead
// of returning an error — the caller is expected to check the boolean, not
// to inspect an error for routine "that wasn't legal" outcomes.
func precondition(ok bool) (bool, error) {
	return ok, nil
}
