package protected

import "fmt"

// DefineProperties installs a batch of properties on the class's instance
// template, filling in default attributes: Enumerable, Configurable and
// Writable are true unless specified, and Writable is left out entirely for
// accessor descriptors.
func DefineProperties(c Class, descs map[string]PropertyDescriptor) error {
	if c == nil || c.core() == nil {
		return fmt.Errorf("%w: nil class", ErrInvalidClass)
	}
	if descs == nil {
		return fmt.Errorf("%w: nil descriptors", ErrInvalidMembers)
	}
	template := c.Prototype()
	for name, desc := range descs {
		if err := template.Define(name, fillDefaults(desc)); err != nil {
			return err
		}
	}
	return nil
}

func fillDefaults(desc PropertyDescriptor) PropertyDescriptor {
	enabled := true
	if desc.Enumerable == nil {
		desc.Enumerable = &enabled
	}
	if desc.Configurable == nil {
		desc.Configurable = &enabled
	}
	if !desc.isAccessor() && desc.Writable == nil {
		desc.Writable = &enabled
	}
	return desc
}

// SelfRef defines a read-only property named name on target referring back
// to target itself. Applied to a class it additionally installs the same
// property on the class's instance template pointing at the class, so
// instances can name their class without holding a direct reference --
// the escape hatch when a guard wrapper makes the identity awkward to reach.
func SelfRef(target any, name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty property name", ErrInvalidMembers)
	}
	switch t := target.(type) {
	case Class:
		if t == nil || t.core() == nil {
			return fmt.Errorf("%w: nil class", ErrInvalidClass)
		}
		if err := t.Props().Define(name, readOnlyRef(t)); err != nil {
			return err
		}
		return t.Prototype().Define(name, readOnlyRef(t))
	case *Instance:
		if t == nil {
			return fmt.Errorf("%w: nil instance", ErrInvalidOwner)
		}
		return t.Define(name, readOnlyRef(t))
	default:
		return fmt.Errorf("%w: %T", ErrInvalidOwner, target)
	}
}

func readOnlyRef(value any) PropertyDescriptor {
	writable := false
	enumerable := true
	return PropertyDescriptor{
		Value:      value,
		Writable:   &writable,
		Enumerable: &enumerable,
	}
}
