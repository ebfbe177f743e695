package protected

import (
	"context"
	"fmt"
	"reflect"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-protected/pkg/activity"
)

// Members maps member keys (strings or Symbols) to member values: plain
// values, Method functions, or values tagged by Accessor.
type Members map[any]any

// RegistryOption configures a Registry at construction.
type RegistryOption func(*registryConfig)

type registryConfig struct {
	logger RegistryLogger
	hooks  activity.Hooks
}

// WithActivityHooks attaches activity hooks notified after successful
// registrations. Hooks are cloned and nil entries dropped.
func WithActivityHooks(hooks activity.Hooks) RegistryOption {
	normalized := cloneActivityHooks(hooks)
	return func(cfg *registryConfig) {
		cfg.hooks = normalized
	}
}

func cloneActivityHooks(hooks activity.Hooks) activity.Hooks {
	if len(hooks) == 0 {
		return nil
	}
	normalized := make([]activity.Hook, 0, len(hooks))
	for _, hook := range hooks {
		if hook == nil {
			continue
		}
		normalized = append(normalized, hook)
	}
	if len(normalized) == 0 {
		return nil
	}
	return activity.Hooks(normalized)
}

// Registry holds every protected record, keyed by canonical class identity
// and then by owner. Registration is a critical section per registry; reads
// through facades touch only data published before the facade was returned.
type Registry struct {
	mu      sync.Mutex
	records map[*classType]map[any]*record
	logger  RegistryLogger
	hooks   activity.Hooks
}

// NewRegistry constructs an empty registry.
func NewRegistry(opts ...RegistryOption) *Registry {
	cfg := registryConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return &Registry{
		records: map[*classType]map[any]*record{},
		logger:  cfg.logger,
		hooks:   cfg.hooks,
	}
}

var defaultRegistry = NewRegistry()

// Share registers members on the process-wide default registry. See
// Registry.Share.
func Share(owner any, class Class, members Members) (*Facade, error) {
	return defaultRegistry.Share(owner, class, members)
}

// Share registers members as a new protected layer for class, scoped to
// owner, and returns the layer's facade. When class is nil, owner must
// itself be a Class and the layer is registered against it (static sharing).
//
// Layers register base-to-derived, matching natural constructor order; the
// registry does not reorder. Re-registering for the same (class, owner) pair
// extends the existing record in place.
func (r *Registry) Share(owner any, class Class, members Members) (*Facade, error) {
	start := time.Now()
	facade, rec, snapshotID, err := r.share(owner, class, members)
	duration := time.Since(start)

	event := ShareLogEvent{
		Owner:    ownerLabel(owner),
		Members:  len(members),
		Duration: duration,
		Err:      err,
	}
	if rec != nil {
		event.Class = rec.class.name
	}
	r.registryLogger().LogShare(event)

	if err != nil {
		return nil, wrapShareError(event.Class, event.Owner, err)
	}
	if r.hooks.Enabled() {
		_ = r.hooks.Notify(context.Background(), activity.BuildShareRegisteredEvent(activity.ShareEventInput{
			Class:      rec.class.name,
			Owner:      event.Owner,
			SnapshotID: snapshotID,
			Members:    memberLabels(members),
		}))
	}
	return facade, nil
}

func (r *Registry) share(owner any, class Class, members Members) (*Facade, *record, string, error) {
	if err := validateOwner(owner); err != nil {
		return nil, nil, "", err
	}
	resolved := class
	if resolved == nil {
		c, ok := owner.(Class)
		if !ok {
			return nil, nil, "", fmt.Errorf("%w: owner is not a class and no class was given", ErrInvalidClass)
		}
		resolved = c
	}
	core := resolved.core()
	if core == nil {
		return nil, nil, "", fmt.Errorf("%w: nil canonical identity", ErrInvalidClass)
	}
	if err := validateMembers(members); err != nil {
		return nil, nil, "", err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	ownerKey := canonicalOwner(owner)
	byOwner := r.records[core]
	if byOwner == nil {
		byOwner = map[any]*record{}
		r.records[core] = byOwner
	}
	rec := byOwner[ownerKey]
	if rec == nil {
		rec = newRecord(core, r.seedFor(core, ownerKey))
		byOwner[ownerKey] = rec
	}
	snapshotID := rec.register(owner, members)
	return rec.facade, rec, snapshotID, nil
}

// Drop removes every record held for owner, across all classes. This is the
// explicit-cleanup stand-in for weak owner association.
func (r *Registry) Drop(owner any) {
	if owner == nil {
		return
	}
	ownerKey := canonicalOwner(owner)
	r.mu.Lock()
	defer r.mu.Unlock()
	for core, byOwner := range r.records {
		delete(byOwner, ownerKey)
		if len(byOwner) == 0 {
			delete(r.records, core)
		}
	}
}

// Reset clears the registry.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = map[*classType]map[any]*record{}
}

// seedFor resolves the nearest ancestor identity holding a record for this
// owner. Classes that never registered anything are skipped, so
// non-participating ancestors stay transparent.
func (r *Registry) seedFor(core *classType, ownerKey any) *record {
	for cur := core.parent; cur != nil; cur = cur.Parent() {
		if byOwner, ok := r.records[cur.core()]; ok {
			if rec, ok := byOwner[ownerKey]; ok {
				return rec
			}
		}
	}
	return nil
}

func (r *Registry) registryLogger() RegistryLogger {
	if r.logger != nil {
		return r.logger
	}
	return noopRegistryLogger{}
}

// record is the per-(class, owner) triple: protected data, public facade,
// and the facade's $uper chain.
type record struct {
	class  *classType
	data   *dataObject
	facade *Facade
	layers []layerInfo
}

// layerInfo is provenance metadata for one registered layer.
type layerInfo struct {
	snapshotID string
	class      string
	keys       []string
}

func newRecord(core *classType, seed *record) *record {
	var seedData *dataObject
	var seedFacade, seedSuper *Facade
	if seed != nil {
		seedData = seed.data
		seedFacade = seed.facade
		seedSuper = seed.facade.super
	}
	return &record{
		class:  core,
		data:   &dataObject{ancestor: seedData},
		facade: newFacade(seedFacade, seedSuper),
	}
}

// register splices one layer into the record: captures pre-shadow routes
// into a fresh $uper facade, binds function members to owner, installs the
// non-accessor members as a new link in the data chain, and routes facade
// properties. Accessor-tagged members live only on the facade.
func (rec *record) register(owner any, members Members) string {
	prevSuper := rec.facade.super
	sup := newFacade(prevSuper, prevSuper)
	for key := range members {
		if route, ok := rec.facade.route(key); ok {
			sup.props[key] = route
		}
	}

	layer := &memberLayer{members: map[any]any{}, next: rec.data.chain}
	for key, value := range members {
		if acc, ok := asAccessor(value); ok {
			rec.facade.props[key] = accessorRoute(acc, owner)
			continue
		}
		layer.members[key] = bindMember(value, owner)
		rec.facade.props[key] = dataRoute(rec.data, layer, key)
	}
	rec.data.chain = layer
	rec.facade.super = sup

	info := layerInfo{
		snapshotID: uuid.NewString(),
		class:      rec.class.name,
		keys:       memberLabels(members),
	}
	rec.layers = append(rec.layers, info)
	return info.snapshotID
}

func accessorRoute(acc *accessorValue, owner any) *memberRoute {
	route := &memberRoute{}
	if acc.get != nil {
		route.get = func() (any, error) { return acc.get(owner) }
	}
	if acc.set != nil {
		route.set = func(value any) error { return acc.set(owner, value) }
	}
	return route
}

// dataRoute resolves key starting at the layer that declared it, so routes
// captured into a $uper facade keep seeing the pre-shadow definition after a
// newer layer splices in. Writes land in the declaring layer.
func dataRoute(data *dataObject, layer *memberLayer, key any) *memberRoute {
	return &memberRoute{
		get: func() (any, error) {
			for cur := layer; cur != nil; cur = cur.next {
				if value, ok := cur.members[key]; ok {
					return value, nil
				}
			}
			if data.ancestor != nil {
				if value, ok := data.ancestor.lookup(key); ok {
					return value, nil
				}
			}
			return nil, nil
		},
		set: func(value any) error {
			layer.members[key] = value
			return nil
		},
	}
}

func bindMember(value any, owner any) any {
	switch fn := value.(type) {
	case Method:
		return &BoundMethod{fn: fn, self: owner}
	case func(any, ...any) (any, error):
		return &BoundMethod{fn: Method(fn), self: owner}
	default:
		return value
	}
}

// dataObject is one owner's protected storage for one class: a chain of
// member layers, newest first, delegating misses to the ancestor record's
// data. The explicit parent pointer is the delegation chain.
type dataObject struct {
	chain    *memberLayer
	ancestor *dataObject
}

type memberLayer struct {
	members map[any]any
	next    *memberLayer
}

func (d *dataObject) lookup(key any) (any, bool) {
	for cur := d; cur != nil; cur = cur.ancestor {
		for layer := cur.chain; layer != nil; layer = layer.next {
			if value, ok := layer.members[key]; ok {
				return value, true
			}
		}
	}
	return nil, false
}

func validateOwner(owner any) error {
	if owner == nil {
		return fmt.Errorf("%w: nil", ErrInvalidOwner)
	}
	if c, ok := owner.(Class); ok {
		if c.core() == nil {
			return fmt.Errorf("%w: nil class", ErrInvalidOwner)
		}
		return nil
	}
	rv := reflect.ValueOf(owner)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return fmt.Errorf("%w: %T", ErrInvalidOwner, owner)
	}
	return nil
}

func validateMembers(members Members) error {
	if members == nil {
		return fmt.Errorf("%w: nil map", ErrInvalidMembers)
	}
	for key := range members {
		if !validKey(key) {
			return fmt.Errorf("%w: key %v", ErrInvalidMembers, key)
		}
	}
	return nil
}

// canonicalOwner collapses class owners onto their canonical identity so a
// guard wrapper and its wrapped class store under the same owner key.
func canonicalOwner(owner any) any {
	if c, ok := owner.(Class); ok {
		return c.core()
	}
	return owner
}

func ownerLabel(owner any) string {
	switch o := owner.(type) {
	case nil:
		return "<nil>"
	case Class:
		return "class:" + o.Name()
	case *Instance:
		if o != nil && o.class != nil {
			return "instance:" + o.class.Name()
		}
		return "instance:<nil>"
	default:
		return fmt.Sprintf("%T", owner)
	}
}

func memberLabels(members Members) []string {
	if len(members) == 0 {
		return nil
	}
	labels := make([]string, 0, len(members))
	for key := range members {
		labels = append(labels, keyLabel(key))
	}
	return labels
}
