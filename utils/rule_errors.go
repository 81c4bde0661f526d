package utils

import (
	"fmt"

	"github.com/pkg/errors"
)

// These are the reasons a transaction can be rejected. Use errors.Is to match them.
var (
	// ErrNilTransaction indicates there's no transaction at all.
	ErrNilTransaction = newRuleError("ErrNilTransaction")

	// ErrMissingUtxo indicates an input claims an output that isn't in the
	// ledger, either it never existed or it has already been spent.
	ErrMissingUtxo = newRuleError("ErrMissingUtxo")

	// ErrBadSignature indicates an input's signature doesn't verify against
	// the public key of the output it claims.
	ErrBadSignature = newRuleError("ErrBadSignature")

	// ErrDoubleClaim indicates two inputs of the same transaction claim the same UTXO.
	ErrDoubleClaim = newRuleError("ErrDoubleClaim")

	// ErrNegativeOutput indicates an output value is negative or not a number.
	ErrNegativeOutput = newRuleError("ErrNegativeOutput")

	// ErrValueCreated indicates the outputs are worth more than the claimed inputs.
	ErrValueCreated = newRuleError("ErrValueCreated")

	// ErrDuplicateTransaction indicates a transaction with the same hash was
	// already submitted in the same batch.
	ErrDuplicateTransaction = newRuleError("ErrDuplicateTransaction")
)

// RuleError identifies a rule violation. The message is stable and usable as a
// metric label, the inner error carries the details.
type RuleError struct {
	message string
	inner   error
}

// Error satisfies the error interface and prints human-readable errors.
func (e RuleError) Error() string {
	if e.inner != nil {
		return e.message + ": " + e.inner.Error()
	}
	return e.message
}

// Unwrap satisfies the errors.Unwrap interface
func (e RuleError) Unwrap() error {
	return e.inner
}

// Cause satisfies the github.com/pkg/errors.Cause interface
func (e RuleError) Cause() error {
	return e.inner
}

// Is matches rule errors by message, so a detailed error matches its sentinel.
func (e RuleError) Is(target error) bool {
	var ruleErr RuleError
	if !errors.As(target, &ruleErr) {
		return false
	}
	return ruleErr.message == e.message
}

// Reason returns the rule name without details.
func (e RuleError) Reason() string {
	return e.message
}

func newRuleError(message string) RuleError {
	return RuleError{message: message, inner: nil}
}

// newRuleErrorf attaches details to the sentinel rule.
func newRuleErrorf(rule RuleError, format string, args ...interface{}) error {
	return errors.WithStack(RuleError{
		message: rule.message,
		inner:   fmt.Errorf(format, args...),
	})
}

// RejectReason returns the rule name of err, or "unknown" if err isn't a RuleError.
func RejectReason(err error) string {
	var ruleErr RuleError
	if errors.As(err, &ruleErr) {
		return ruleErr.Reason()
	}
	return "unknown"
}
