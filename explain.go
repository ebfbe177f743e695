package protected

import (
	"encoding/json"
	"fmt"
)

// Explanation captures provenance for one member key: which registered
// layers declared it, newest and most derived first, and the value the
// facade currently resolves.
type Explanation struct {
	Key    string             `json:"key"`
	Found  bool               `json:"found"`
	Value  any                `json:"value,omitempty"`
	Layers []MemberProvenance `json:"layers"`
}

// MemberProvenance details one layer's contribution to a traced key.
type MemberProvenance struct {
	Class      string `json:"class"`
	SnapshotID string `json:"snapshot_id,omitempty"`
	Declared   bool   `json:"declared"`
}

// ToJSON serialises the explanation for logging or transport helpers.
func (e Explanation) ToJSON() ([]byte, error) {
	type alias Explanation
	return json.Marshal(alias(e))
}

// ExplanationFromJSON deserialises a payload previously generated via ToJSON.
func ExplanationFromJSON(payload []byte) (Explanation, error) {
	type alias Explanation
	var exp alias
	if err := json.Unmarshal(payload, &exp); err != nil {
		return Explanation{}, err
	}
	return Explanation(exp), nil
}

// Explain reports how key resolves for the given class and owner: every
// registered layer in facade resolution order with its snapshot identifier,
// plus the value the most derived facade currently yields. A class/owner
// pair with no records produces an empty explanation.
func (r *Registry) Explain(owner any, class Class, key any) (Explanation, error) {
	if err := validateOwner(owner); err != nil {
		return Explanation{}, err
	}
	resolved := class
	if resolved == nil {
		c, ok := owner.(Class)
		if !ok {
			return Explanation{}, fmt.Errorf("%w: owner is not a class and no class was given", ErrInvalidClass)
		}
		resolved = c
	}
	if resolved.core() == nil {
		return Explanation{}, fmt.Errorf("%w: nil canonical identity", ErrInvalidClass)
	}
	if !validKey(key) {
		return Explanation{}, fmt.Errorf("%w: key %v", ErrInvalidMembers, key)
	}

	label := keyLabel(key)
	exp := Explanation{Key: label}
	ownerKey := canonicalOwner(owner)

	r.mu.Lock()
	var nearest *Facade
	for cur := resolved; cur != nil; cur = cur.Parent() {
		byOwner, ok := r.records[cur.core()]
		if !ok {
			continue
		}
		rec, ok := byOwner[ownerKey]
		if !ok {
			continue
		}
		if nearest == nil {
			nearest = rec.facade
		}
		for i := len(rec.layers) - 1; i >= 0; i-- {
			info := rec.layers[i]
			exp.Layers = append(exp.Layers, MemberProvenance{
				Class:      info.class,
				SnapshotID: info.snapshotID,
				Declared:   containsLabel(info.keys, label),
			})
		}
	}
	r.mu.Unlock()

	// Value resolution runs unlocked: accessor getters are caller code and
	// may re-enter the registry.
	if nearest != nil && nearest.Has(key) {
		value, err := nearest.Get(key)
		if err == nil {
			exp.Found = true
			exp.Value = value
		}
	}
	return exp, nil
}

// Explain reports member provenance against the default registry.
func Explain(owner any, class Class, key any) (Explanation, error) {
	return defaultRegistry.Explain(owner, class, key)
}

func containsLabel(labels []string, label string) bool {
	for _, candidate := range labels {
		if candidate == label {
			return true
		}
	}
	return false
}
