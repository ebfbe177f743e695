package protected

import (
	"context"
	"fmt"

	"github.com/goliatone/go-protected/pkg/activity"
)

// GuardOption configures a construction guard.
type GuardOption func(*guardConfig)

type guardConfig struct {
	hooks activity.Hooks
}

// WithGuardHooks attaches activity hooks notified when a guard blocks a
// construction or extension attempt.
func WithGuardHooks(hooks activity.Hooks) GuardOption {
	normalized := cloneActivityHooks(hooks)
	return func(cfg *guardConfig) {
		cfg.hooks = normalized
	}
}

func applyGuardOptions(opts []GuardOption) guardConfig {
	cfg := guardConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// Abstract wraps a class so that direct construction fails while subclass
// construction delegates to the wrapped initialiser unchanged. The wrapper
// shares the wrapped class's canonical identity, so registry entries made
// against either are reachable through both.
func Abstract(c Class, opts ...GuardOption) Class {
	if c == nil || c.core() == nil {
		return nil
	}
	cfg := applyGuardOptions(opts)
	return &abstractClass{wrapped: c, hooks: cfg.hooks}
}

// AbstractMethod returns a member function that always fails with an
// unimplemented-operation error: a placeholder for methods subclasses are
// required to override.
func AbstractMethod(name string) Method {
	return func(any, ...any) (any, error) {
		return nil, fmt.Errorf("%w: %s", ErrUnimplemented, name)
	}
}

type abstractClass struct {
	wrapped Class
	hooks   activity.Hooks
}

func (a *abstractClass) Name() string         { return a.wrapped.Name() }
func (a *abstractClass) Parent() Class        { return a.wrapped.Parent() }
func (a *abstractClass) Prototype() *Template { return a.wrapped.Prototype() }
func (a *abstractClass) Props() *Template     { return a.wrapped.Props() }
func (a *abstractClass) Extensible() bool     { return a.wrapped.Extensible() }
func (a *abstractClass) core() *classType     { return a.wrapped.core() }

func (a *abstractClass) New(args ...any) (*Instance, error) {
	a.emitBlocked("construct")
	return nil, fmt.Errorf("%w: %s", ErrAbstractClass, a.Name())
}

func (a *abstractClass) Construct(self *Instance, args ...any) error {
	if self == nil {
		return fmt.Errorf("%w: nil instance", ErrInvalidOwner)
	}
	if self.Class() == Class(a) {
		a.emitBlocked("construct")
		return fmt.Errorf("%w: %s", ErrAbstractClass, a.Name())
	}
	return a.wrapped.Construct(self, args...)
}

func (a *abstractClass) Extend(name string, ctor Constructor) (Class, error) {
	return newChildClass(a, name, ctor)
}

func (a *abstractClass) emitBlocked(op string) {
	emitGuardBlocked(a.hooks, "abstract", a.Name(), op)
}

// Final wraps a class so that direct construction succeeds while any
// subclass is rejected. The wrapper reports a closed extension surface and
// seals the canonical identity, so subclasses manufactured from a leaked
// unwrapped reference still fail at construction. Instances built through
// the wrapper report the wrapper as their class; InstanceOf against the
// wrapped class still holds because both share one canonical identity.
func Final(c Class, opts ...GuardOption) Class {
	if c == nil || c.core() == nil {
		return nil
	}
	cfg := applyGuardOptions(opts)
	c.core().sealed = true
	return &finalClass{wrapped: c, hooks: cfg.hooks}
}

type finalClass struct {
	wrapped Class
	hooks   activity.Hooks
}

func (f *finalClass) Name() string         { return f.wrapped.Name() }
func (f *finalClass) Parent() Class        { return f.wrapped.Parent() }
func (f *finalClass) Prototype() *Template { return f.wrapped.Prototype() }
func (f *finalClass) Props() *Template     { return f.wrapped.Props() }
func (f *finalClass) Extensible() bool     { return false }
func (f *finalClass) core() *classType     { return f.wrapped.core() }

func (f *finalClass) New(args ...any) (*Instance, error) {
	self := newInstance(f)
	if err := f.wrapped.Construct(self, args...); err != nil {
		return nil, err
	}
	return self, nil
}

func (f *finalClass) Construct(self *Instance, args ...any) error {
	if self == nil {
		return fmt.Errorf("%w: nil instance", ErrInvalidOwner)
	}
	if self.Class().core() != f.core() {
		f.emitBlocked("construct")
		return fmt.Errorf("%w: %s", ErrFinalClass, f.Name())
	}
	return f.wrapped.Construct(self, args...)
}

func (f *finalClass) Extend(name string, ctor Constructor) (Class, error) {
	f.emitBlocked("extend")
	return nil, fmt.Errorf("%w: %s", ErrFinalClass, f.Name())
}

func (f *finalClass) emitBlocked(op string) {
	emitGuardBlocked(f.hooks, "final", f.Name(), op)
}

func emitGuardBlocked(hooks activity.Hooks, guard, class, operation string) {
	if !hooks.Enabled() {
		return
	}
	_ = hooks.Notify(context.Background(), activity.BuildGuardBlockedEvent(activity.GuardEventInput{
		Guard:     guard,
		Class:     class,
		Operation: operation,
	}))
}
