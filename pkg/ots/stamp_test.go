package ots

import (
	"context"
	"crypto/sha256"
	"errors"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"
)

type stubCalendar struct {
	responses map[string][]byte
	fail      map[string]error
}

func (s stubCalendar) Submit(ctx context.Context, server string, digest []byte) ([]byte, error) {
	if err, ok := s.fail[server]; ok {
		return nil, err
	}
	body, ok := s.responses[server]
	if !ok {
		return nil, errors.New("stubCalendar: no response configured for " + server)
	}
	return body, nil
}

func (s stubCalendar) Upgrade(ctx context.Context, server string, digest []byte) ([]byte, bool, error) {
	if err, ok := s.fail[server]; ok {
		return nil, false, err
	}
	body, ok := s.responses[server]
	if !ok {
		return nil, true, nil
	}
	return body, false, nil
}

type fixedRandom struct{ b []byte }

func (f fixedRandom) RandomBytes(n int) ([]byte, error) {
	return f.b[:n], nil
}

func pendingBody(t *testing.T, uri string) []byte {
	t.Helper()
	ts := &Timestamp{Attestations: []Attestation{PendingAttestation{URI: uri}}}
	data, err := ts.Bytes()
	require.NoError(t, err)
	return data
}

func TestStampSubmitsToAllServersAndMerges(t *testing.T) {
	servers := []string{"https://a.example", "https://b.example"}
	cal := stubCalendar{responses: map[string][]byte{
		servers[0]: pendingBody(t, servers[0]),
		servers[1]: pendingBody(t, servers[1]),
	}}
	s := &Stamper{
		Calendar: cal,
		Servers:  servers,
		Random:   fixedRandom{b: make([]byte, 16)},
	}

	file, err := s.Stamp(context.Background(), SHA256, []byte("hello"), nil)
	require.NoError(t, err)

	wantDigest := sha256.Sum256([]byte("hello"))
	require.Equal(t, wantDigest[:], file.FileDigest)
	require.Len(t, file.Timestamp.Ops, 1, "top level should be a single Prepend(nonce) branch")
	require.Equal(t, OpPrepend, file.Timestamp.Ops[0].Op.Tag)

	hashNode := file.Timestamp.Ops[0].Sub
	require.Len(t, hashNode.Ops, 1, "second branch should be a single SHA256 op")
	require.Equal(t, OpSHA256, hashNode.Ops[0].Op.Tag)

	calendarNode := hashNode.Ops[0].Sub
	var uris []string
	for _, a := range calendarNode.Attestations {
		if p, ok := a.(PendingAttestation); ok {
			uris = append(uris, p.URI)
		}
	}
	sort.Strings(uris)
	require.Equal(t, []string{servers[0], servers[1]}, uris, "calendar node should carry both servers' pending attestations")
}

func TestStampToleratesPartialServerFailure(t *testing.T) {
	servers := []string{"https://a.example", "https://down.example"}
	cal := stubCalendar{
		responses: map[string][]byte{servers[0]: pendingBody(t, servers[0])},
		fail:      map[string]error{servers[1]: errors.New("connection refused")},
	}
	s := &Stamper{Calendar: cal, Servers: servers, Random: fixedRandom{b: make([]byte, 16)}}

	file, err := s.Stamp(context.Background(), SHA256, []byte("hello"), nil)
	require.NoError(t, err)

	calendarNode := file.Timestamp.Ops[0].Sub.Ops[0].Sub
	require.Len(t, calendarNode.Attestations, 1, "expected exactly the one successful server's attestation")
}

func TestStampFailsWhenAllServersFail(t *testing.T) {
	servers := []string{"https://a.example"}
	cal := stubCalendar{fail: map[string]error{servers[0]: errors.New("timeout")}}
	s := &Stamper{Calendar: cal, Servers: servers, Random: fixedRandom{b: make([]byte, 16)}}

	_, err := s.Stamp(context.Background(), SHA256, []byte("hello"), nil)
	require.ErrorIs(t, err, ErrNoCalendarResponse)
}

func TestStampRequiresDataOrDigest(t *testing.T) {
	s := &Stamper{Calendar: stubCalendar{}, Servers: []string{"https://a.example"}}
	_, err := s.Stamp(context.Background(), SHA256, nil, nil)
	require.Error(t, err)
}
