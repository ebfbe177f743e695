package protected

import "fmt"

// Method is a function member. The registry binds it to the registering
// owner once, at registration time; the same bound closure is reused for the
// record's lifetime.
type Method func(self any, args ...any) (any, error)

// BoundMethod is a Method captured against its owner.
type BoundMethod struct {
	fn   Method
	self any
}

// Invoke calls the underlying method with the bound receiver.
func (m *BoundMethod) Invoke(args ...any) (any, error) {
	if m == nil || m.fn == nil {
		return nil, fmt.Errorf("%w: unbound method", ErrNotCallable)
	}
	return m.fn(m.self, args...)
}

// memberRoute is one facade property: a get/set pair routed either to the
// protected data chain or directly to a tagged accessor.
type memberRoute struct {
	get func() (any, error)
	set func(value any) error
}

// Facade is the object Share returns: per-member accessor routes over one
// record's protected data, delegating undeclared names to the ancestor
// record's facade. The same type serves as the $uper facade, whose routes
// capture ancestor definitions as they existed before the current layer
// registered.
type Facade struct {
	props  map[any]*memberRoute
	parent *Facade
	super  *Facade
}

func newFacade(parent, super *Facade) *Facade {
	return &Facade{props: map[any]*memberRoute{}, parent: parent, super: super}
}

// Super returns the ancestor-access facade. On a $uper facade it returns the
// next ancestor's $uper, so repeated Super calls walk the whole chain.
func (f *Facade) Super() *Facade {
	if f == nil {
		return nil
	}
	return f.super
}

// Get reads the member stored under key, invoking a tagged getter where one
// was declared. Unknown keys fail with ErrUnknownMember.
func (f *Facade) Get(key any) (any, error) {
	route, ok := f.route(key)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownMember, keyLabel(key))
	}
	if route.get == nil {
		return nil, nil
	}
	return route.get()
}

// Set writes the member stored under key. Writes to getter-only accessors
// fail with ErrReadOnlyProperty; undeclared keys fail with ErrUnknownMember
// (the protected surface is closed).
func (f *Facade) Set(key any, value any) error {
	route, ok := f.route(key)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownMember, keyLabel(key))
	}
	if route.set == nil {
		return fmt.Errorf("%w: %s", ErrReadOnlyProperty, keyLabel(key))
	}
	return route.set(value)
}

// Call invokes the method member stored under key.
func (f *Facade) Call(key any, args ...any) (any, error) {
	value, err := f.Get(key)
	if err != nil {
		return nil, err
	}
	method, ok := value.(*BoundMethod)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotCallable, keyLabel(key))
	}
	return method.Invoke(args...)
}

// Has reports whether key resolves on this facade or an ancestor.
func (f *Facade) Has(key any) bool {
	_, ok := f.route(key)
	return ok
}

// Keys returns every member key visible through the facade, most-derived
// layer first, without duplicates.
func (f *Facade) Keys() []any {
	seen := map[any]struct{}{}
	var keys []any
	for cur := f; cur != nil; cur = cur.parent {
		for key := range cur.props {
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			keys = append(keys, key)
		}
	}
	return keys
}

func (f *Facade) route(key any) (*memberRoute, bool) {
	for cur := f; cur != nil; cur = cur.parent {
		if route, ok := cur.props[key]; ok {
			return route, true
		}
	}
	return nil, false
}
