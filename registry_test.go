package protected

import (
	"errors"
	"testing"
)

type widget struct {
	id int
}

func TestShareValidatesBeforeMutating(t *testing.T) {
	r := NewRegistry()
	base := NewClass("Base", nil)

	if _, err := r.Share(nil, base, Members{"a": 1}); !errors.Is(err, ErrInvalidOwner) {
		t.Fatalf("expected ErrInvalidOwner, got %v", err)
	}
	if _, err := r.Share(42, base, Members{"a": 1}); !errors.Is(err, ErrInvalidOwner) {
		t.Fatalf("expected ErrInvalidOwner for non-pointer owner, got %v", err)
	}
	if _, err := r.Share(&widget{}, nil, Members{"a": 1}); !errors.Is(err, ErrInvalidClass) {
		t.Fatalf("expected ErrInvalidClass, got %v", err)
	}
	if _, err := r.Share(&widget{}, base, nil); !errors.Is(err, ErrInvalidMembers) {
		t.Fatalf("expected ErrInvalidMembers for nil map, got %v", err)
	}
	if _, err := r.Share(&widget{}, base, Members{7: "x"}); !errors.Is(err, ErrInvalidMembers) {
		t.Fatalf("expected ErrInvalidMembers for numeric key, got %v", err)
	}

	var shareErr *ShareError
	_, err := r.Share(&widget{}, base, nil)
	if !errors.As(err, &shareErr) {
		t.Fatalf("expected *ShareError, got %T", err)
	}
	if shareErr.Owner == "" {
		t.Fatalf("expected owner context on ShareError: %+v", shareErr)
	}

	exp, err := r.Explain(&widget{}, base, "a")
	if err != nil {
		t.Fatalf("explain: %v", err)
	}
	if len(exp.Layers) != 0 {
		t.Fatalf("expected failed registrations to leave no layers, got %d", len(exp.Layers))
	}
}

func TestShareExposesDeclaredKeys(t *testing.T) {
	r := NewRegistry()
	base := NewClass("Base", nil)
	owner := &widget{}
	secret := NewSymbol("secret")

	fac, err := r.Share(owner, base, Members{
		"num":  42,
		secret: "hidden",
	})
	if err != nil {
		t.Fatalf("share: %v", err)
	}

	if got, err := fac.Get("num"); err != nil || got != 42 {
		t.Fatalf("expected num=42, got %v (%v)", got, err)
	}
	if got, err := fac.Get(secret); err != nil || got != "hidden" {
		t.Fatalf("expected symbol member, got %v (%v)", got, err)
	}
	if _, err := fac.Get(NewSymbol("secret")); !errors.Is(err, ErrUnknownMember) {
		t.Fatalf("expected a fresh symbol to miss, got %v", err)
	}

	keys := fac.Keys()
	if len(keys) != 2 {
		t.Fatalf("expected 2 keys, got %v", keys)
	}
	if !fac.Has("num") || !fac.Has(secret) {
		t.Fatalf("expected declared keys to be visible")
	}

	if err := fac.Set("num", 7); err != nil {
		t.Fatalf("set: %v", err)
	}
	if got, _ := fac.Get("num"); got != 7 {
		t.Fatalf("expected write-through, got %v", got)
	}
	if err := fac.Set("missing", 1); !errors.Is(err, ErrUnknownMember) {
		t.Fatalf("expected closed surface on Set, got %v", err)
	}
}

func TestDerivedFacadeInheritsBaseMembers(t *testing.T) {
	r := NewRegistry()
	base := NewClass("Base", nil)
	derived, err := base.Extend("Derived", nil)
	if err != nil {
		t.Fatalf("extend: %v", err)
	}
	owner := &widget{}

	if _, err := r.Share(owner, base, Members{"num": 42}); err != nil {
		t.Fatalf("share base: %v", err)
	}
	fac, err := r.Share(owner, derived, Members{})
	if err != nil {
		t.Fatalf("share derived: %v", err)
	}

	if got, err := fac.Get("num"); err != nil || got != 42 {
		t.Fatalf("expected inherited num=42, got %v (%v)", got, err)
	}
}

func TestOwnerIsolation(t *testing.T) {
	r := NewRegistry()
	base := NewClass("Base", nil)
	first, second := &widget{id: 1}, &widget{id: 2}

	facFirst, err := r.Share(first, base, Members{"num": 42})
	if err != nil {
		t.Fatalf("share first: %v", err)
	}
	facSecond, err := r.Share(second, base, Members{"num": 42})
	if err != nil {
		t.Fatalf("share second: %v", err)
	}

	if err := facFirst.Set("num", 1); err != nil {
		t.Fatalf("set: %v", err)
	}
	if got, _ := facSecond.Get("num"); got != 42 {
		t.Fatalf("expected isolation between owners, got %v", got)
	}
}

func TestShadowingAndSuper(t *testing.T) {
	r := NewRegistry()
	base := NewClass("Base", nil)
	derived, err := base.Extend("Derived", nil)
	if err != nil {
		t.Fatalf("extend: %v", err)
	}
	owner := &widget{}

	if _, err := r.Share(owner, base, Members{
		"superTest": Method(func(any, ...any) (any, error) { return 1, nil }),
	}); err != nil {
		t.Fatalf("share base: %v", err)
	}

	var fac *Facade
	fac, err = r.Share(owner, derived, Members{
		"superTest": Method(func(any, ...any) (any, error) {
			prev, err := fac.Super().Call("superTest")
			if err != nil {
				return nil, err
			}
			return 1 + prev.(int), nil
		}),
	})
	if err != nil {
		t.Fatalf("share derived: %v", err)
	}

	got, err := fac.Call("superTest")
	if err != nil {
		t.Fatalf("call: %v", err)
	}
	if got != 2 {
		t.Fatalf("expected shadowed superTest to yield 2, got %v", got)
	}

	prev, err := fac.Super().Call("superTest")
	if err != nil {
		t.Fatalf("super call: %v", err)
	}
	if prev != 1 {
		t.Fatalf("expected ancestor superTest to yield 1, got %v", prev)
	}
}

func TestSuperChainWalksMultipleLevels(t *testing.T) {
	r := NewRegistry()
	base := NewClass("Base", nil)
	mid, _ := base.Extend("Mid", nil)
	leaf, _ := mid.Extend("Leaf", nil)
	owner := &widget{}

	mustShare := func(class Class, members Members) *Facade {
		t.Helper()
		fac, err := r.Share(owner, class, members)
		if err != nil {
			t.Fatalf("share %s: %v", class.Name(), err)
		}
		return fac
	}

	mustShare(base, Members{"label": "base"})
	mustShare(mid, Members{"label": "mid"})
	fac := mustShare(leaf, Members{"label": "leaf"})

	if got, _ := fac.Get("label"); got != "leaf" {
		t.Fatalf("expected leaf definition, got %v", got)
	}
	if got, _ := fac.Super().Get("label"); got != "mid" {
		t.Fatalf("expected mid definition one level up, got %v", got)
	}
	if got, _ := fac.Super().Super().Get("label"); got != "base" {
		t.Fatalf("expected base definition two levels up, got %v", got)
	}
}

func TestNonParticipantTransparency(t *testing.T) {
	r := NewRegistry()
	base := NewClass("Base", nil)
	mid, _ := base.Extend("Mid", nil) // never calls Share
	derived, _ := mid.Extend("Derived", nil)
	owner := &widget{}

	if _, err := r.Share(owner, base, Members{"num": 42}); err != nil {
		t.Fatalf("share base: %v", err)
	}
	fac, err := r.Share(owner, derived, Members{})
	if err != nil {
		t.Fatalf("share derived: %v", err)
	}

	if got, _ := fac.Get("num"); got != 42 {
		t.Fatalf("expected member to skip non-participant, got %v", got)
	}

	fac, err = r.Share(owner, derived, Members{"num": 100})
	if err != nil {
		t.Fatalf("reshare derived: %v", err)
	}
	if got, _ := fac.Get("num"); got != 100 {
		t.Fatalf("expected shadow through non-participant, got %v", got)
	}
	if got, _ := fac.Super().Get("num"); got != 42 {
		t.Fatalf("expected super to reach base through non-participant, got %v", got)
	}
}

func TestReRegistrationExtendsRecordInPlace(t *testing.T) {
	r := NewRegistry()
	base := NewClass("Base", nil)
	owner := &widget{}

	first, err := r.Share(owner, base, Members{"a": 1})
	if err != nil {
		t.Fatalf("share: %v", err)
	}
	second, err := r.Share(owner, base, Members{"a": 2, "b": 3})
	if err != nil {
		t.Fatalf("reshare: %v", err)
	}

	if first != second {
		t.Fatalf("expected re-registration to reuse the facade")
	}
	if got, _ := second.Get("a"); got != 2 {
		t.Fatalf("expected newest layer to win, got %v", got)
	}
	if got, _ := second.Super().Get("a"); got != 1 {
		t.Fatalf("expected super to expose the prior definition, got %v", got)
	}
	if got, _ := second.Get("b"); got != 3 {
		t.Fatalf("expected new member visible, got %v", got)
	}
}

func TestStaticSharingOnClassOwner(t *testing.T) {
	r := NewRegistry()
	base := NewClass("Base", nil)

	fac, err := r.Share(base, nil, Members{"instances": 0})
	if err != nil {
		t.Fatalf("static share: %v", err)
	}
	if err := fac.Set("instances", 5); err != nil {
		t.Fatalf("set: %v", err)
	}

	again, err := r.Share(base, nil, Members{})
	if err != nil {
		t.Fatalf("reshare: %v", err)
	}
	if fac != again {
		t.Fatalf("expected class-owned record to be shared")
	}
	if got, _ := again.Get("instances"); got != 5 {
		t.Fatalf("expected static member to persist, got %v", got)
	}
}

func TestMethodBindingIsReused(t *testing.T) {
	r := NewRegistry()
	base := NewClass("Base", nil)
	owner := &widget{}

	fac, err := r.Share(owner, base, Members{
		"who": Method(func(self any, _ ...any) (any, error) { return self, nil }),
	})
	if err != nil {
		t.Fatalf("share: %v", err)
	}

	first, _ := fac.Get("who")
	second, _ := fac.Get("who")
	if first != second {
		t.Fatalf("expected the same bound closure on every read")
	}

	got, err := fac.Call("who")
	if err != nil {
		t.Fatalf("call: %v", err)
	}
	if got != owner {
		t.Fatalf("expected method bound to owner, got %v", got)
	}
}

func TestPlainFunctionMembersAreBound(t *testing.T) {
	r := NewRegistry()
	base := NewClass("Base", nil)
	owner := &widget{id: 9}

	fac, err := r.Share(owner, base, Members{
		"id": func(self any, _ ...any) (any, error) { return self.(*widget).id, nil },
	})
	if err != nil {
		t.Fatalf("share: %v", err)
	}
	got, err := fac.Call("id")
	if err != nil {
		t.Fatalf("call: %v", err)
	}
	if got != 9 {
		t.Fatalf("expected bound receiver, got %v", got)
	}
}

func TestCallOnDataMemberFails(t *testing.T) {
	r := NewRegistry()
	base := NewClass("Base", nil)
	owner := &widget{}

	fac, err := r.Share(owner, base, Members{"num": 42})
	if err != nil {
		t.Fatalf("share: %v", err)
	}
	if _, err := fac.Call("num"); !errors.Is(err, ErrNotCallable) {
		t.Fatalf("expected ErrNotCallable, got %v", err)
	}
}

func TestOutOfOrderRegistrationHasNoAncestorSeed(t *testing.T) {
	// Registration order is the caller's responsibility; a derived layer
	// registered before its base does not see later base members.
	r := NewRegistry()
	base := NewClass("Base", nil)
	derived, _ := base.Extend("Derived", nil)
	owner := &widget{}

	fac, err := r.Share(owner, derived, Members{"x": 1})
	if err != nil {
		t.Fatalf("share derived: %v", err)
	}
	if _, err := r.Share(owner, base, Members{"y": 2}); err != nil {
		t.Fatalf("share base: %v", err)
	}
	if _, err := fac.Get("y"); !errors.Is(err, ErrUnknownMember) {
		t.Fatalf("expected late base members to stay invisible, got %v", err)
	}
}

func TestDropRemovesOwnerRecords(t *testing.T) {
	r := NewRegistry()
	base := NewClass("Base", nil)
	owner := &widget{}

	if _, err := r.Share(owner, base, Members{"a": 1}); err != nil {
		t.Fatalf("share: %v", err)
	}
	r.Drop(owner)

	exp, err := r.Explain(owner, base, "a")
	if err != nil {
		t.Fatalf("explain: %v", err)
	}
	if len(exp.Layers) != 0 || exp.Found {
		t.Fatalf("expected dropped owner to leave nothing, got %+v", exp)
	}
}

func TestDefaultRegistryShare(t *testing.T) {
	base := NewClass("Base", nil)
	owner := &widget{}
	defer defaultRegistry.Drop(owner)

	fac, err := Share(owner, base, Members{"num": 42})
	if err != nil {
		t.Fatalf("share: %v", err)
	}
	if got, _ := fac.Get("num"); got != 42 {
		t.Fatalf("expected default registry facade, got %v", got)
	}
}
