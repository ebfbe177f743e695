package protected

// Getter reads a computed member on behalf of self.
type Getter func(self any) (any, error)

// Setter writes a computed member on behalf of self.
type Setter func(self any, value any) error

// AccessorDescriptor pairs the get/set halves of a computed member.
type AccessorDescriptor struct {
	Get Getter
	Set Setter
}

// accessorValue is the out-of-band marker the registry recognises. The type
// is unexported so no caller-supplied member value can collide with it.
type accessorValue struct {
	get Getter
	set Setter
}

// Accessor tags a get/set pair for use as a value in a Members map. Tagged
// members are routed through the declared functions at the facade level and
// never enter the protected data chain. Returns nil when the descriptor
// carries neither half, signalling "not an accessor".
func Accessor(desc AccessorDescriptor) any {
	if desc.Get == nil && desc.Set == nil {
		return nil
	}
	return &accessorValue{get: desc.Get, set: desc.Set}
}

func asAccessor(value any) (*accessorValue, bool) {
	acc, ok := value.(*accessorValue)
	return acc, ok && acc != nil
}
