package ots

import (
	"context"
	"crypto/rand"
	"fmt"
	"sync"
	"time"
)

// DefaultServers returns the well-known public calendar servers a Stamper
// submits to when its own Servers field is empty.
func DefaultServers() []string {
	return []string{
		"https://alice.btc.calendar.opentimestamps.org",
		"https://bob.btc.calendar.opentimestamps.org",
	}
}

// Stamper submits a file digest to one or more calendar servers and
// assembles the results into a single pending proof.
type Stamper struct {
	Oracle   HashOracle
	Random   RandomSource
	Calendar CalendarClient
	Servers  []string
	Store    ReceiptStore
}

type cryptoRandom struct{}

func (cryptoRandom) RandomBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return nil, err
	}
	return b, nil
}

// Stamp computes hashOp(data) if data is non-nil (otherwise digest must
// already hold the file digest), hides it behind a random nonce, and
// submits the nonce-hidden digest to every configured server
// concurrently, so a slow server does not delay the submissions to the
// others. Stamp returns once every submission has answered or failed.
// Results are merged, in server-configuration order, as sibling branches
// at the end of a single Prepend(nonce)->SHA256 chain.
func (s *Stamper) Stamp(ctx context.Context, hashOp HashAlgorithm, data, digest []byte) (*OtsFile, error) {
	fileDigest := digest
	if data != nil {
		d, err := Apply(ctx, s.Oracle, HashOp(hashOp), data)
		if err != nil {
			return nil, err
		}
		fileDigest = d
	}
	if fileDigest == nil {
		return nil, fmt.Errorf("ots: Stamp requires data or digest")
	}

	random := s.Random
	if random == nil {
		random = cryptoRandom{}
	}
	nonce, err := random.RandomBytes(16)
	if err != nil {
		return nil, fmt.Errorf("ots: generating nonce: %w", err)
	}

	calendarInput, err := Apply(ctx, s.Oracle, Prepend(nonce), fileDigest)
	if err != nil {
		return nil, err
	}
	calendarDigest, err := Apply(ctx, s.Oracle, HashOp(SHA256), calendarInput)
	if err != nil {
		return nil, err
	}

	servers := s.Servers
	if len(servers) == 0 {
		servers = DefaultServers()
	}
	if s.Calendar == nil {
		return nil, fmt.Errorf("ots: Stamp requires a CalendarClient")
	}

	calendarNode, submitErrs := s.submitAll(ctx, servers, calendarDigest)
	if calendarNode.BranchCount() == 0 {
		return nil, fmt.Errorf("%w: %v", ErrNoCalendarResponse, submitErrs)
	}

	tree := &Timestamp{
		Ops: []OpBranch{{
			Op: Prepend(nonce),
			Sub: &Timestamp{
				Ops: []OpBranch{{
					Op:  HashOp(SHA256),
					Sub: calendarNode,
				}},
			},
		}},
	}

	if s.Store != nil {
		if err := s.Store.RecordStamp(fileDigest, servers, time.Now()); err != nil {
			// Best-effort: the stamp itself already succeeded.
			_ = err
		}
	}

	return &OtsFile{HashOp: hashOp, FileDigest: fileDigest, Timestamp: tree}, nil
}

// submitAll submits calendarDigest to every server concurrently and merges
// successful responses into a single Timestamp whose branches are ordered
// to match servers, independent of completion order.
func (s *Stamper) submitAll(ctx context.Context, servers []string, calendarDigest []byte) (*Timestamp, []error) {
	type outcome struct {
		ts  *Timestamp
		err error
	}
	results := make([]outcome, len(servers))

	var wg sync.WaitGroup
	for i, server := range servers {
		wg.Add(1)
		go func(i int, server string) {
			defer wg.Done()
			body, err := s.Calendar.Submit(ctx, server, calendarDigest)
			if err != nil {
				results[i] = outcome{err: fmt.Errorf("%s: %w", server, err)}
				return
			}
			ts, err := ParseTimestamp(body)
			if err != nil {
				results[i] = outcome{err: fmt.Errorf("%s: %w", server, err)}
				return
			}
			results[i] = outcome{ts: ts}
		}(i, server)
	}
	wg.Wait()

	merged := &Timestamp{}
	var errs []error
	for _, r := range results {
		if r.err != nil {
			errs = append(errs, r.err)
			continue
		}
		merged.Attestations = append(merged.Attestations, r.ts.Attestations...)
		merged.Ops = append(merged.Ops, r.ts.Ops...)
	}
	return merged, errs
}
