package salestrack

import (
	"bytes"
	"sync"
)

// overviewCache memoizes serialized overview responses. Entries are keyed by
// format and live only as long as the newest sample epoch they were built from.
type overviewCache struct {
	mu        sync.Mutex
	epoch     int64
	responses map[string][]byte
}

func newOverviewCache() *overviewCache {
	return &overviewCache{responses: map[string][]byte{}}
}

func (oc *overviewCache) memoKey(args ...string) string {
	var b bytes.Buffer
	for i, a := range args {
		if i > 0 {
			b.WriteByte('|')
		}
		b.WriteString(a)
	}
	return b.String()
}

// get returns the response for key at epoch, building it on a miss. A newer
// epoch drops everything cached for older ones.
func (oc *overviewCache) get(epoch int64, key string, build func() ([]byte, error)) ([]byte, error) {
	oc.mu.Lock()
	if epoch != oc.epoch {
		oc.epoch = epoch
		oc.responses = map[string][]byte{}
	}
	if buf, ok := oc.responses[key]; ok {
		oc.mu.Unlock()
		return buf, nil
	}
	oc.mu.Unlock()

	buf, err := build()
	if err != nil {
		return nil, err
	}
	oc.mu.Lock()
	if epoch == oc.epoch {
		oc.responses[key] = buf
	}
	oc.mu.Unlock()
	return buf, nil
}
