//go:build js_bridge

package protected

import (
	"fmt"

	"github.com/dop251/goja"
)

// JSBridge exposes protected facades to a JavaScript runtime so script code
// can read, write and invoke shared members through the same closed surface
// Go callers use.
type JSBridge struct {
	vm *goja.Runtime
}

// NewJSBridge constructs a bridge backed by a fresh goja runtime.
func NewJSBridge() *JSBridge {
	return &JSBridge{vm: goja.New()}
}

// Bind publishes facade under name in the runtime's global scope. The bound
// object carries get/set/call/has helpers routed to the facade; member keys
// are script strings (Symbols stay Go-side).
func (b *JSBridge) Bind(name string, facade *Facade) error {
	if b == nil || b.vm == nil {
		return errJSBridgeUnavailable
	}
	if name == "" {
		return fmt.Errorf("%w: empty binding name", ErrInvalidMembers)
	}
	if facade == nil {
		return fmt.Errorf("%w: nil facade", ErrInvalidMembers)
	}

	obj := b.vm.NewObject()
	if err := obj.Set("get", func(key string) (any, error) {
		return facade.Get(key)
	}); err != nil {
		return err
	}
	if err := obj.Set("set", func(key string, value any) error {
		return facade.Set(key, value)
	}); err != nil {
		return err
	}
	if err := obj.Set("call", func(key string, args ...any) (any, error) {
		return facade.Call(key, args...)
	}); err != nil {
		return err
	}
	if err := obj.Set("has", func(key string) bool {
		return facade.Has(key)
	}); err != nil {
		return err
	}
	return b.vm.Set(name, obj)
}

// Run evaluates script and exports the resulting value.
func (b *JSBridge) Run(script string) (any, error) {
	if b == nil || b.vm == nil {
		return nil, errJSBridgeUnavailable
	}
	if script == "" {
		return nil, fmt.Errorf("script must not be empty")
	}
	value, err := b.vm.RunString(script)
	if err != nil {
		return nil, err
	}
	return value.Export(), nil
}

func jsBridgeAvailable() bool {
	return true
}
