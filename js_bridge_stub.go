//go:build !js_bridge

package protected

// JSBridge is unavailable without the js_bridge build tag.
type JSBridge struct{}

// NewJSBridge is unavailable without the js_bridge build tag.
func NewJSBridge() *JSBridge {
	return nil
}

// Bind reports the bridge as unavailable.
func (b *JSBridge) Bind(string, *Facade) error {
	return errJSBridgeUnavailable
}

// Run reports the bridge as unavailable.
func (b *JSBridge) Run(string) (any, error) {
	return nil, errJSBridgeUnavailable
}

func jsBridgeAvailable() bool {
	return false
}
