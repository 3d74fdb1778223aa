package engine

import (
	"github.com/credprobe/credprobe/internal/credentials"
	"github.com/credprobe/credprobe/internal/targets"
)

// Trial pairs exactly one target with exactly one credential. Trials are
// ephemeral units of work, created for dispatch and never persisted.
type Trial struct {
	Target     targets.Target
	Credential credentials.Credential
}

// BuildTrials expands the full cross product with the credential as the
// outer iteration: each credential is tried against every target before the
// next credential comes up. Under any scheduling discipline this spreads
// early attempts across distinct hosts instead of hammering one target with
// the whole list first.
func BuildTrials(creds []credentials.Credential, tgts []targets.Target) []Trial {
	trials := make([]Trial, 0, len(creds)*len(tgts))
	for _, c := range creds {
		for _, t := range tgts {
			trials = append(trials, Trial{Target: t, Credential: c})
		}
	}
	return trials
}
