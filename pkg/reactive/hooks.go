package reactive

// Hooks are optional callbacks invoked by the Store around its operations.
// Any field may be nil.
type Hooks struct {
	// OnGet is called for every successful Get.
	OnGet func(key string)

	// OnSet is called when Set starts on a known key. The returned function,
	// if non-nil, is called after the notify fan-out with the number of
	// observers attempted and the joined refresh error.
	OnSet func(key string) func(refreshed int, err error)

	// OnRefresh is called after each observer refresh.
	OnRefresh func(o *Observer, err error)
}

// ChainHooks combines several Hooks so that each callback of each hook runs
// in argument order.
func ChainHooks(hooks ...Hooks) Hooks {
	return Hooks{
		OnGet: func(key string) {
			for _, h := range hooks {
				if h.OnGet != nil {
					h.OnGet(key)
				}
			}
		},
		OnSet: func(key string) func(int, error) {
			var dones []func(int, error)
			for _, h := range hooks {
				if h.OnSet == nil {
					continue
				}
				if done := h.OnSet(key); done != nil {
					dones = append(dones, done)
				}
			}
			return func(refreshed int, err error) {
				// Unwind in reverse so wrapping hooks (spans) close last.
				for i := len(dones) - 1; i >= 0; i-- {
					dones[i](refreshed, err)
				}
			}
		},
		OnRefresh: func(o *Observer, err error) {
			for _, h := range hooks {
				if h.OnRefresh != nil {
					h.OnRefresh(o, err)
				}
			}
		},
	}
}
