// keys/static.go
package keys

import (
	"context"
	"crypto"
	"fmt"

	pep_errors "github.com/dive25/pep/errors"
)

// StaticSource serves keys from a fixed in-memory map. It stands in for the
// live Resolver in tests and offline tooling; the production wiring never
// uses it.
type StaticSource map[string]crypto.PublicKey

var _ Source = StaticSource{}

func (s StaticSource) ResolveKey(_ context.Context, kid string, _ string) (crypto.PublicKey, error) {
	key, ok := s[kid]
	if !ok {
		return nil, fmt.Errorf("%w: kid %q not in static key set", pep_errors.ErrKeyNotFound, kid)
	}
	return key, nil
}
