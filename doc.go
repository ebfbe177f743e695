// Package protected gives class hierarchies a shared protected member tier:
// data, methods and accessor pairs visible through hierarchy-scoped facades
// rather than on the objects themselves.
//
// Each layer of a hierarchy registers its members with Share during its own
// construction (or once per class for static sharing) and receives a Facade
// its methods close over:
//
//	fac, err := protected.Share(self, widgetClass, protected.Members{
//		"count": 0,
//		"render": protected.Method(func(self any, args ...any) (any, error) {
//			...
//		}),
//	})
//
// Facades resolve the most derived definition of every member, delegate
// undeclared names to the ancestor layer, and expose the pre-shadow
// definitions through Super (the $uper chain). Accessor-tagged members stay
// on the facade and never enter the protected data chain, so getter and
// setter closures always run in their defining layer.
//
// Abstract and Final wrap a class identity with construction-time policy
// while sharing its canonical identity, so registration against either side
// of the wrapper reaches the same records.
//
// The registry blocks access only through this ordinary member surface; it
// is a correctness guard, not a sandbox against code that reaches into the
// implementation.
package protected
