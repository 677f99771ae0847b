package reactive

// Facade exposes each data key of a Store as a named accessor, so callers
// can write f.Field("count").Set(5) instead of going through the store.
// It holds no state of its own.
type Facade struct {
	store  *Store
	fields map[string]*Field
}

// Field is a pass-through accessor for one data key.
type Field struct {
	key   string
	store *Store
}

// NewFacade builds one Field per key of store.
func NewFacade(store *Store) *Facade {
	keys := store.Keys()
	f := &Facade{
		store:  store,
		fields: make(map[string]*Field, len(keys)),
	}
	for _, k := range keys {
		f.fields[k] = &Field{key: k, store: store}
	}
	return f
}

// Field returns the accessor for key, or nil if key is not tracked.
func (f *Facade) Field(key string) *Field {
	return f.fields[key]
}

// Get reads key through the store.
func (f *Facade) Get(key string) (any, error) {
	return f.store.Get(key)
}

// Set writes key through the store.
func (f *Facade) Set(key string, value any) error {
	return f.store.Set(key, value)
}

// Keys returns the keys with accessors, sorted.
func (f *Facade) Keys() []string {
	return f.store.Keys()
}

// Key returns the data key this field accesses.
func (fl *Field) Key() string { return fl.key }

// Get returns the current value.
func (fl *Field) Get() any {
	v, _ := fl.store.Get(fl.key)
	return v
}

// Set writes a new value and refreshes dependents.
func (fl *Field) Set(value any) error {
	return fl.store.Set(fl.key, value)
}

// Update applies fn to the current value and stores the result.
func (fl *Field) Update(fn func(any) any) error {
	return fl.Set(fn(fl.Get()))
}
