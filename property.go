package protected

import (
	"fmt"
	"sort"
)

// PropertyDescriptor describes one property for Template.Define and the bulk
// DefineProperties helper. Attribute pointers left nil take the Template
// default (false) or the bulk-helper default (true); a descriptor carrying a
// Get or Set half is an accessor property and ignores Value and Writable.
type PropertyDescriptor struct {
	Value        any
	Get          Getter
	Set          Setter
	Writable     *bool
	Enumerable   *bool
	Configurable *bool
}

func (d PropertyDescriptor) isAccessor() bool {
	return d.Get != nil || d.Set != nil
}

type property struct {
	value        any
	get          Getter
	set          Setter
	writable     bool
	enumerable   bool
	configurable bool
	accessor     bool
}

// Template is an ordinary property bag with explicit parent delegation. A
// class's instance template is a Template; every instance gets an own
// Template whose parent is its class's.
type Template struct {
	props  map[string]*property
	parent *Template
}

// NewTemplate constructs an empty bag delegating misses to parent.
func NewTemplate(parent *Template) *Template {
	return &Template{props: map[string]*property{}, parent: parent}
}

// Parent returns the delegation target, nil at the chain root.
func (t *Template) Parent() *Template {
	if t == nil {
		return nil
	}
	return t.parent
}

// Define installs or replaces a property. Replacing a property declared
// non-configurable fails with ErrNotConfigurable.
func (t *Template) Define(name string, desc PropertyDescriptor) error {
	if t == nil {
		return fmt.Errorf("%w: nil template", ErrInvalidClass)
	}
	if existing, ok := t.props[name]; ok && !existing.configurable {
		return fmt.Errorf("%w: %s", ErrNotConfigurable, name)
	}
	prop := &property{
		enumerable:   boolAttr(desc.Enumerable, false),
		configurable: boolAttr(desc.Configurable, false),
	}
	if desc.isAccessor() {
		prop.accessor = true
		prop.get = desc.Get
		prop.set = desc.Set
	} else {
		prop.value = desc.Value
		prop.writable = boolAttr(desc.Writable, false)
	}
	t.props[name] = prop
	return nil
}

// Has reports whether name resolves on the bag or any parent.
func (t *Template) Has(name string) bool {
	_, ok := t.resolve(name)
	return ok
}

// Get resolves name through the delegation chain, invoking accessor getters
// with self as the receiver. The boolean reports whether the property exists.
func (t *Template) Get(self any, name string) (any, bool, error) {
	prop, ok := t.resolve(name)
	if !ok {
		return nil, false, nil
	}
	if prop.accessor {
		if prop.get == nil {
			return nil, true, nil
		}
		value, err := prop.get(self)
		return value, true, err
	}
	return prop.value, true, nil
}

// Set writes name, invoking an accessor setter where declared. A write to a
// data property resolved on a parent creates an own shadow when the parent
// definition is writable.
func (t *Template) Set(self any, name string, value any) error {
	if t == nil {
		return fmt.Errorf("%w: nil template", ErrInvalidClass)
	}
	prop, ok := t.resolve(name)
	if ok {
		if prop.accessor {
			if prop.set == nil {
				return fmt.Errorf("%w: %s", ErrReadOnlyProperty, name)
			}
			return prop.set(self, value)
		}
		if !prop.writable {
			return fmt.Errorf("%w: %s", ErrReadOnlyProperty, name)
		}
	}
	if own, isOwn := t.props[name]; isOwn {
		own.value = value
		return nil
	}
	writable := true
	return t.Define(name, PropertyDescriptor{Value: value, Writable: &writable, Enumerable: &writable, Configurable: &writable})
}

// Delete removes an own property. Deleting a non-configurable property fails;
// deleting an absent own property is a no-op.
func (t *Template) Delete(name string) error {
	if t == nil {
		return nil
	}
	prop, ok := t.props[name]
	if !ok {
		return nil
	}
	if !prop.configurable {
		return fmt.Errorf("%w: %s", ErrNotConfigurable, name)
	}
	delete(t.props, name)
	return nil
}

// Keys returns the enumerable own property names in sorted order.
func (t *Template) Keys() []string {
	if t == nil || len(t.props) == 0 {
		return nil
	}
	keys := make([]string, 0, len(t.props))
	for name, prop := range t.props {
		if prop.enumerable {
			keys = append(keys, name)
		}
	}
	sort.Strings(keys)
	return keys
}

func (t *Template) resolve(name string) (*property, bool) {
	for cur := t; cur != nil; cur = cur.parent {
		if prop, ok := cur.props[name]; ok {
			return prop, true
		}
	}
	return nil, false
}

func boolAttr(attr *bool, fallback bool) bool {
	if attr == nil {
		return fallback
	}
	return *attr
}
