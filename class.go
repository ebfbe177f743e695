package protected

import "fmt"

// Constructor initialises self during construction. A constructor for a
// derived class calls its parent's Construct to run the base initialiser
// before touching derived state.
type Constructor func(self *Instance, args ...any) error

// Class is a class identity: the token one hierarchy layer registers
// protected members against. Concrete identities come from NewClass and
// Extend; Abstract and Final return guard wrappers implementing the same
// interface. A wrapper and its wrapped class share one canonical identity, so
// registry entries and ancestor walks see them as the same class.
type Class interface {
	// Name returns the declared class name.
	Name() string
	// Parent returns the identity this class extends, nil at the root.
	Parent() Class
	// New constructs an instance with this identity as the construction
	// target.
	New(args ...any) (*Instance, error)
	// Construct runs this class's initialiser against an existing instance.
	// Derived constructors call it on their parent as the super call.
	Construct(self *Instance, args ...any) error
	// Extend declares a subclass.
	Extend(name string, ctor Constructor) (Class, error)
	// Prototype returns the instance template properties are installed on.
	Prototype() *Template
	// Props returns the class's own (static) property bag.
	Props() *Template
	// Extensible reports whether Extend is permitted.
	Extensible() bool

	core() *classType
}

type classType struct {
	name   string
	parent Class
	ctor   Constructor
	proto  *Template
	props  *Template
	sealed bool
}

// NewClass declares a root class. ctor may be nil for a class with no
// initialisation of its own.
func NewClass(name string, ctor Constructor) Class {
	return &classType{
		name:  name,
		ctor:  ctor,
		proto: NewTemplate(nil),
		props: NewTemplate(nil),
	}
}

func (c *classType) Name() string  { return c.name }
func (c *classType) Parent() Class { return c.parent }

func (c *classType) Prototype() *Template { return c.proto }
func (c *classType) Props() *Template     { return c.props }

func (c *classType) Extensible() bool { return !c.sealed }

func (c *classType) core() *classType { return c }

func (c *classType) New(args ...any) (*Instance, error) {
	if err := checkSealedAncestors(c); err != nil {
		return nil, err
	}
	self := newInstance(c)
	if err := c.Construct(self, args...); err != nil {
		return nil, err
	}
	return self, nil
}

func (c *classType) Construct(self *Instance, args ...any) error {
	if self == nil {
		return fmt.Errorf("%w: nil instance", ErrInvalidOwner)
	}
	if c.sealed && self.Class().core() != c {
		return fmt.Errorf("%w: %s", ErrFinalClass, c.name)
	}
	if c.ctor == nil {
		return nil
	}
	return c.ctor(self, args...)
}

func (c *classType) Extend(name string, ctor Constructor) (Class, error) {
	return newChildClass(c, name, ctor)
}

// newChildClass declares a subclass of parent. The parent reference is kept
// as given so construction delegates through guard wrappers.
func newChildClass(parent Class, name string, ctor Constructor) (Class, error) {
	if parent == nil {
		return nil, fmt.Errorf("%w: nil parent", ErrInvalidClass)
	}
	core := parent.core()
	if core.sealed {
		return nil, fmt.Errorf("%w: %s", ErrFinalClass, core.name)
	}
	if !parent.Extensible() {
		return nil, fmt.Errorf("%w: %s", ErrNotExtensible, core.name)
	}
	return &classType{
		name:   name,
		parent: parent,
		ctor:   ctor,
		proto:  NewTemplate(core.proto),
		props:  NewTemplate(core.props),
	}, nil
}

// checkSealedAncestors rejects construction when a final class appears above
// the construction target. The target itself being sealed is the permitted
// direct-construction case.
func checkSealedAncestors(target *classType) error {
	for cur := target.parent; cur != nil; cur = cur.Parent() {
		if core := cur.core(); core.sealed {
			return fmt.Errorf("%w: %s", ErrFinalClass, core.name)
		}
	}
	return nil
}

// Instance is one constructed object: a class reference plus an own property
// bag delegating to the class's instance template.
type Instance struct {
	class Class
	props *Template
}

func newInstance(c Class) *Instance {
	return &Instance{class: c, props: NewTemplate(c.core().proto)}
}

// Class returns the construction-target identity. For instances built by a
// Final wrapper this is the wrapper, while InstanceOf against the wrapped
// class still holds.
func (i *Instance) Class() Class { return i.class }

// Props returns the instance's own property bag.
func (i *Instance) Props() *Template { return i.props }

// Define installs a property directly on the instance.
func (i *Instance) Define(name string, desc PropertyDescriptor) error {
	return i.props.Define(name, desc)
}

// Get resolves a property through the instance and template chain.
func (i *Instance) Get(name string) (any, bool, error) {
	return i.props.Get(i, name)
}

// Set writes a property on the instance, honouring accessor setters and
// writability declared anywhere on the chain.
func (i *Instance) Set(name string, value any) error {
	return i.props.Set(i, name, value)
}

// InstanceOf reports whether i's class chain contains c's canonical identity.
func InstanceOf(i *Instance, c Class) bool {
	if i == nil || i.class == nil || c == nil {
		return false
	}
	target := c.core()
	for cur := i.class; cur != nil; cur = cur.Parent() {
		if cur.core() == target {
			return true
		}
	}
	return false
}
