package payment

// Registry maps payment method names to their Authorizer. Adding a method
// means registering a new implementation at wiring time; callers never
// branch on the method name themselves.
type Registry struct {
	authorizers map[string]Authorizer
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{authorizers: make(map[string]Authorizer)}
}

// Register binds an Authorizer to a method name, replacing any previous
// binding. Not safe for concurrent use with Resolve; register everything
// during wiring.
func (r *Registry) Register(method string, a Authorizer) {
	r.authorizers[method] = a
}

// Resolve returns the Authorizer for the given method name, or an
// UnsupportedMethodError when none is registered.
func (r *Registry) Resolve(method string) (Authorizer, error) {
	a, ok := r.authorizers[method]
	if !ok {
		return nil, &UnsupportedMethodError{Method: method}
	}
	return a, nil
}
