package ots

import (
	"context"
	"time"
)

// UpgradeResult summarizes the outcome of one Upgrade call.
type UpgradeResult struct {
	Upgraded        int
	StillPending    int
	Errors          []string
	AlreadyComplete bool
	Duration        time.Duration
}

// Upgrader replaces Pending attestations with whatever a calendar server
// has confirmed since stamping, mutating the tree in place.
type Upgrader struct {
	Oracle   HashOracle
	Calendar CalendarClient
	Store    ReceiptStore
	Limits   Limits
}

// Upgrade walks file's tree and attempts to resolve every Pending
// attestation it finds. A Pending attestation resolves into whatever
// continuations and attestations the calendar server's response
// contains, appended onto the same node; the original Pending entry is
// dropped. Upgrade never revisits attestations or continuations it adds
// during this call — only paths present in the tree when Upgrade started
// are eligible this round.
func (u *Upgrader) Upgrade(ctx context.Context, file *OtsFile) (UpgradeResult, error) {
	start := time.Now()
	if !hasPending(file.Timestamp) {
		return UpgradeResult{AlreadyComplete: true}, nil
	}

	var res UpgradeResult
	u.walk(ctx, file.Timestamp, file.FileDigest, 1, &res)
	res.Duration = time.Since(start)

	if u.Store != nil {
		if err := u.Store.RecordUpgrade(file.FileDigest, res.Upgraded, res.StillPending, time.Now()); err != nil {
			res.Errors = append(res.Errors, "receipt store: "+err.Error())
		}
	}
	return res, nil
}

func hasPending(ts *Timestamp) bool {
	for _, a := range ts.Attestations {
		if _, ok := a.(PendingAttestation); ok {
			return true
		}
	}
	for _, ob := range ts.Ops {
		if hasPending(ob.Sub) {
			return true
		}
	}
	return false
}

// walk mutates ts.Attestations and ts.Ops to fold in any resolved
// Pending attestations at this node, then recurses into the node's
// continuations as they stood before this node's own mutation — a
// freshly appended continuation (the result of resolving a Pending
// attestation here) is never itself re-walked in the same call, since a
// calendar server's response is already fully resolved at the depth it
// arrives.
func (u *Upgrader) walk(ctx context.Context, ts *Timestamp, msg []byte, depth int, res *UpgradeResult) {
	if depth > u.Limits.maxDepth() {
		res.Errors = append(res.Errors, ErrDepthExceeded.Error())
		return
	}

	originalOps := ts.Ops

	var kept []Attestation
	for _, a := range ts.Attestations {
		pending, ok := a.(PendingAttestation)
		if !ok {
			kept = append(kept, a)
			continue
		}
		merged, stillPending, err := u.fetchUpgrade(ctx, pending, msg)
		if err != nil {
			res.Errors = append(res.Errors, err.Error())
			kept = append(kept, a)
			continue
		}
		if stillPending {
			res.StillPending++
			kept = append(kept, a)
			continue
		}
		res.Upgraded++
		kept = append(kept, merged.Attestations...)
		ts.Ops = append(ts.Ops, merged.Ops...)
	}
	ts.Attestations = kept

	for _, ob := range originalOps {
		child, err := Apply(ctx, u.Oracle, ob.Op, msg)
		if err != nil {
			res.Errors = append(res.Errors, err.Error())
			continue
		}
		u.walk(ctx, ob.Sub, child, depth+1, res)
	}
}

// fetchUpgrade polls the calendar named by pending.URI for msg's digest
// and parses a non-pending response into a Timestamp fragment.
func (u *Upgrader) fetchUpgrade(ctx context.Context, pending PendingAttestation, msg []byte) (*Timestamp, bool, error) {
	if u.Calendar == nil {
		return nil, false, ErrNoCalendarResponse
	}
	body, isPending, err := u.Calendar.Upgrade(ctx, pending.URI, msg)
	if err != nil {
		return nil, false, err
	}
	if isPending {
		return nil, true, nil
	}
	ts, err := ParseTimestamp(body)
	if err != nil {
		return nil, false, err
	}
	return ts, false, nil
}
