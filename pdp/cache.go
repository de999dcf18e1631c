// pdp/cache.go
package pdp

import (
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"

	pdp_model "github.com/dive25/pep/pdp/model"
)

// cacheKeySeparator joins key components unambiguously. The unit separator
// control byte cannot occur in subject ids, resource ids, clearance levels
// or country codes, so distinct tuples can never collide.
const cacheKeySeparator = "\x1f"

// DecisionCache holds recent PDP decisions for a short TTL. It trades a
// bounded staleness window (a policy or attribute change takes up to TTL
// to become visible for a cached pair) for PDP load reduction. Entries are
// exact copies of the last PDP response for their key, evicted lazily on
// read and by the periodic sweep.
type DecisionCache struct {
	entries *gocache.Cache
}

func NewDecisionCache(ttl time.Duration) *DecisionCache {
	return &DecisionCache{
		entries: gocache.New(ttl, ttl),
	}
}

// Key builds the composite cache key for a decision.
func (dc *DecisionCache) Key(subjectID, resourceID, clearance, nationality string) string {
	return strings.Join([]string{subjectID, resourceID, clearance, nationality}, cacheKeySeparator)
}

func (dc *DecisionCache) Get(key string) (*pdp_model.Decision, bool) {
	cached, found := dc.entries.Get(key)
	if !found {
		return nil, false
	}
	return cached.(*pdp_model.Decision), true
}

func (dc *DecisionCache) Set(key string, decision *pdp_model.Decision) {
	dc.entries.SetDefault(key, decision)
}
