// Package handlerreg implements the Handler Registry: a name-keyed map
// of configured filter factories, resolved from a URN at creation time.
// Grounded on the teacher's internal/ctrl device-registration layer,
// which plays the same "name -> configured thing, created on demand,
// destroyed explicitly" role for ublk devices.
package handlerreg

import (
	"errors"
	"fmt"
	"sync"

	"github.com/weaver-proxy/weaverfilter/filterapi"
	"github.com/weaver-proxy/weaverfilter/internal/handlerreg/testhandler"
)

// ErrUnknownURN is returned by Create (wrapped with fmt.Errorf context)
// when urn does not name a recognized or supported handler.
var ErrUnknownURN = errors.New("handlerreg: unknown or unsupported urn")

// Well-known URNs the registry resolves. URNUnitTest is the only one
// that actually works; URNAlwaysBad is a recognized-but-unsupported
// placeholder the C test harness uses to exercise the rejection path.
const (
	URNUnitTest  = "urn:weaver-proxy:unit-test"
	URNAlwaysBad = "urn:weaver-proxy:always-bad"
)

type entry struct {
	urn     string
	factory filterapi.Factory
}

// Registry maps handler names to configured factories. Safe for
// concurrent use.
type Registry struct {
	mu       sync.RWMutex
	handlers map[string]entry
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{handlers: make(map[string]entry)}
}

// Create registers name against urn's resolved factory. Returns a
// non-nil error if urn is not recognized; an existing registration under
// name is replaced.
func (r *Registry) Create(name, urn string) error {
	factory, err := resolve(urn)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[name] = entry{urn: urn, factory: factory}
	return nil
}

// RegisterFactory registers name directly against factory, bypassing URN
// resolution. Lets a Go-native embedder (or a test) supply a
// filterapi.Factory implementation that has no URN of its own.
func (r *Registry) RegisterFactory(name string, factory filterapi.Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[name] = entry{urn: "", factory: factory}
}

// Destroy removes name's registration. Transactions already created
// under it keep their own factory-produced filter alive; only future
// CreateRequest/CreateResponse calls are affected.
func (r *Registry) Destroy(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.handlers, name)
}

// Lookup implements engine.HandlerLookup.
func (r *Registry) Lookup(name string) (filterapi.Factory, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.handlers[name]
	if !ok {
		return nil, false
	}
	return e.factory, true
}

func resolve(urn string) (filterapi.Factory, error) {
	switch urn {
	case URNUnitTest:
		return testhandler.Factory{}, nil
	case URNAlwaysBad:
		return nil, fmt.Errorf("urn %q is recognized but deliberately unsupported: %w", urn, ErrUnknownURN)
	default:
		return nil, fmt.Errorf("unknown urn %q: %w", urn, ErrUnknownURN)
	}
}
