package aviso

import "context"

// Store remembers which class completion notices were already sent.
type Store interface {
	// Claim records a notice for the pair and reports whether this call was the first.
	Claim(ctx context.Context, conquistadorID, claseID int64) (bool, error)
	// Release forgets a claim so the notice can be sent again.
	Release(ctx context.Context, conquistadorID, claseID int64) error
}
