package rsacrypt

import "errors"

// Kind is a stable category for programmatic error handling.
type Kind string

const (
	KindKey      Kind = "Key"
	KindEncrypt  Kind = "Encrypt"
	KindDecrypt  Kind = "Decrypt"
	KindEncoding Kind = "Encoding"
)

var (
	ErrNoPublicKey    = errors.New("rsacrypt: no public key configured")
	ErrMessageTooLong = errors.New("rsacrypt: message too long for key")
	ErrDecryption     = errors.New("rsacrypt: decryption failed")
)

// Error is the package's structured error type. RuleID is stable; Message is
// for humans.
type Error struct {
	Kind    Kind
	RuleID  string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Cause != nil {
		return "rsacrypt: " + e.Message + ": " + e.Cause.Error()
	}
	return "rsacrypt: " + e.Message
}

// Unwrap exposes Cause, so errors.Is reaches ErrNoPublicKey and the other
// sentinels through an *Error.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// newError builds an *Error for a failure with no underlying cause.
func newError(kind Kind, ruleID, msg string) error {
	return wrapError(kind, ruleID, msg, nil)
}

// wrapError builds an *Error around cause, which may be nil.
func wrapError(kind Kind, ruleID, msg string, cause error) error {
	return &Error{Kind: kind, RuleID: ruleID, Message: msg, Cause: cause}
}

// asError finds the first *Error in err's chain.
func asError(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}

// IsKind reports whether an encryptor or decryptor failure belongs to kind.
func IsKind(err error, kind Kind) bool {
	e, ok := asError(err)
	return ok && e.Kind == kind
}

// RuleID returns the stable rule identifier, such as "RSA-ENC-102", carried
// by err, or "" when err did not come from this package.
func RuleID(err error) string {
	if e, ok := asError(err); ok {
		return e.RuleID
	}
	return ""
}
