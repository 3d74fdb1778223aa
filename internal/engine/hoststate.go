package engine

import (
	"sync"

	"github.com/credprobe/credprobe/internal/targets"
)

// hostState serializes attempts against one target and carries its
// unreachable flag. The same mutex guards both the driver invocation and
// the flag, so the re-check before a connect cannot race the mark after a
// failed one. At most one attempt per target is in flight at any time,
// regardless of worker count.
type hostState struct {
	mu          sync.Mutex
	unreachable bool
	reason      string
}

// buildHostTable creates one state per distinct target before any dispatch.
// The map is never grown afterwards, so concurrent lookups need no lock.
func buildHostTable(trials []Trial) map[targets.Target]*hostState {
	table := make(map[targets.Target]*hostState)
	for _, tr := range trials {
		if _, ok := table[tr.Target]; !ok {
			table[tr.Target] = &hostState{}
		}
	}
	return table
}
