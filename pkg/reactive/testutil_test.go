package reactive

import (
	"errors"
	"fmt"
)

// fakeTarget records every property write.
type fakeTarget struct {
	name     string
	props    map[string]string
	writes   int
	detached bool
	failWith error
	log      *[]string
}

func newFakeTarget(name string, log *[]string) *fakeTarget {
	return &fakeTarget{name: name, props: make(map[string]string), log: log}
}

func (t *fakeTarget) SetProperty(name, value string) error {
	if t.failWith != nil {
		return t.failWith
	}
	t.props[name] = value
	t.writes++
	if t.log != nil {
		*t.log = append(*t.log, fmt.Sprintf("%s.%s=%s", t.name, name, value))
	}
	return nil
}

func (t *fakeTarget) Connected() bool { return !t.detached }

var errWriteFailed = errors.New("write failed")

// bind registers a textContent observer for key on a new fake target.
func bind(store *Store, key, name string, log *[]string) *fakeTarget {
	t := newFakeTarget(name, log)
	store.Registry().Register(key, NewObserver(store, key, t, "textContent"))
	return t
}
