package protected

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidOwner indicates Share received an owner that cannot key a
	// protected record (nil, or not a pointer-shaped comparable value).
	ErrInvalidOwner = errors.New("protected: invalid owner")
	// ErrInvalidClass indicates a value that does not resolve to a class
	// identity.
	ErrInvalidClass = errors.New("protected: invalid class identity")
	// ErrInvalidMembers indicates a members map that is nil or contains keys
	// other than strings and Symbols.
	ErrInvalidMembers = errors.New("protected: invalid members")
	// ErrUnknownMember indicates a facade access for a key no layer declared.
	ErrUnknownMember = errors.New("protected: unknown member")
	// ErrNotCallable indicates Call on a member that is not a method.
	ErrNotCallable = errors.New("protected: member is not callable")
	// ErrReadOnlyProperty indicates a write to a getter-only member or a
	// non-writable property.
	ErrReadOnlyProperty = errors.New("protected: property is read-only")
	// ErrNotConfigurable indicates redefinition or deletion of a property
	// declared non-configurable.
	ErrNotConfigurable = errors.New("protected: property is not configurable")
	// ErrAbstractClass indicates direct construction of an abstract wrapper.
	ErrAbstractClass = errors.New("protected: abstract class")
	// ErrFinalClass indicates an attempt to extend or construct a subclass of
	// a final class.
	ErrFinalClass = errors.New("protected: cannot extend final class")
	// ErrNotExtensible indicates Extend on a class that reports a closed
	// extension surface.
	ErrNotExtensible = errors.New("protected: class is not extensible")
	// ErrUnimplemented indicates invocation of an abstract method placeholder.
	ErrUnimplemented = errors.New("protected: unimplemented operation")
)

var errJSBridgeUnavailable = errors.New("protected: js bridge requires the js_bridge build tag")

// ShareError captures registration context alongside the originating error.
type ShareError struct {
	Class string
	Owner string
	Err   error
}

func (e *ShareError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("protected: share class=%s owner=%s: %v", describeName(e.Class), e.Owner, e.Err)
}

func (e *ShareError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func describeName(name string) string {
	if name == "" {
		return "<unknown>"
	}
	return name
}

func wrapShareError(class, owner string, err error) error {
	if err == nil {
		return nil
	}

	var shareErr *ShareError
	if errors.As(err, &shareErr) {
		if shareErr.Class == "" {
			shareErr.Class = class
		}
		if shareErr.Owner == "" {
			shareErr.Owner = owner
		}
		return shareErr
	}

	return &ShareError{
		Class: class,
		Owner: owner,
		Err:   err,
	}
}
