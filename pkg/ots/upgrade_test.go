package ots

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUpgradeAlreadyCompleteShortCircuits(t *testing.T) {
	file := &OtsFile{
		HashOp:     SHA256,
		FileDigest: mustDigest("x"),
		Timestamp:  &Timestamp{Attestations: []Attestation{BitcoinAttestation{Height: 1}}},
	}
	u := &Upgrader{}
	res, err := u.Upgrade(context.Background(), file)
	require.NoError(t, err)
	require.True(t, res.AlreadyComplete, "expected AlreadyComplete for a tree with no Pending attestations")
}

func TestUpgradeResolvesPendingIntoBitcoinAttestation(t *testing.T) {
	server := "https://alice.btc.calendar.opentimestamps.org"
	file := &OtsFile{
		HashOp:     SHA256,
		FileDigest: mustDigest("x"),
		Timestamp: &Timestamp{
			Attestations: []Attestation{PendingAttestation{URI: server}},
		},
	}
	resolved := &Timestamp{Attestations: []Attestation{BitcoinAttestation{Height: 600000}}}
	body, err := resolved.Bytes()
	require.NoError(t, err)

	cal := stubCalendar{responses: map[string][]byte{server: body}}
	u := &Upgrader{Calendar: cal}

	res, err := u.Upgrade(context.Background(), file)
	require.NoError(t, err)
	require.Equal(t, 1, res.Upgraded)
	require.Len(t, file.Timestamp.Attestations, 1)

	bc, ok := file.Timestamp.Attestations[0].(BitcoinAttestation)
	require.True(t, ok, "attestation after upgrade should be BitcoinAttestation, got %#v", file.Timestamp.Attestations[0])
	require.Equal(t, uint64(600000), bc.Height)
}

func TestUpgradeLeavesStillPendingAlone(t *testing.T) {
	server := "https://bob.btc.calendar.opentimestamps.org"
	file := &OtsFile{
		HashOp:     SHA256,
		FileDigest: mustDigest("x"),
		Timestamp: &Timestamp{
			Attestations: []Attestation{PendingAttestation{URI: server}},
		},
	}
	cal := stubCalendar{} // no response configured: Upgrade reports pending
	u := &Upgrader{Calendar: cal}

	res, err := u.Upgrade(context.Background(), file)
	require.NoError(t, err)
	require.Equal(t, 1, res.StillPending)
	require.Len(t, file.Timestamp.Attestations, 1, "pending attestation should remain in the tree")

	_, ok := file.Timestamp.Attestations[0].(PendingAttestation)
	require.True(t, ok, "attestation should remain Pending, got %#v", file.Timestamp.Attestations[0])
}

// TestUpgradeDoesNotRevisitFreshlyAppendedContinuations verifies the
// snapshot-before-mutate invariant: a continuation appended while
// resolving a Pending attestation at a node must not be walked again in
// the same Upgrade call, even though walk appends to the same ts.Ops
// slice it iterates lower in the function.
func TestUpgradeDoesNotRevisitFreshlyAppendedContinuations(t *testing.T) {
	server := "https://alice.btc.calendar.opentimestamps.org"
	file := &OtsFile{
		HashOp:     SHA256,
		FileDigest: mustDigest("x"),
		Timestamp: &Timestamp{
			Attestations: []Attestation{PendingAttestation{URI: server}},
		},
	}
	// The calendar resolves the Pending attestation into a node that
	// itself contains a continuation ending in another Pending
	// attestation for the SAME server. If walk revisited appended
	// continuations it would try to resolve that nested Pending too,
	// inflating Upgraded/StillPending beyond the single top-level
	// attestation this call is responsible for.
	nested := &Timestamp{
		Ops: []OpBranch{{
			Op:  Reverse(),
			Sub: &Timestamp{Attestations: []Attestation{PendingAttestation{URI: server}}},
		}},
	}
	body, err := nested.Bytes()
	require.NoError(t, err)

	cal := stubCalendar{responses: map[string][]byte{server: body}}
	u := &Upgrader{Calendar: cal}

	res, err := u.Upgrade(context.Background(), file)
	require.NoError(t, err)
	require.Equal(t, 1, res.Upgraded, "the nested Pending must not be resolved this round")
	require.Equal(t, 0, res.StillPending, "the nested Pending is not visited, not counted pending either")
	require.Len(t, file.Timestamp.Ops, 1, "expected the nested continuation to be appended to the tree")
}

type recordingUpgradeOracle struct {
	calls int
}

func (o *recordingUpgradeOracle) Digest(ctx context.Context, alg HashAlgorithm, data []byte) ([]byte, error) {
	o.calls++
	return Apply(ctx, nil, HashOp(alg), data)
}

// TestUpgradeUsesConfiguredOracleForHashContinuations verifies that a
// Pending resolution's hash continuations are replayed through
// Upgrader.Oracle, not the stdlib default, matching the pattern already
// followed by Verifier and Stamper.
func TestUpgradeUsesConfiguredOracleForHashContinuations(t *testing.T) {
	server := "https://alice.btc.calendar.opentimestamps.org"
	file := &OtsFile{
		HashOp:     SHA256,
		FileDigest: mustDigest("x"),
		Timestamp: &Timestamp{
			Ops: []OpBranch{{
				Op:  HashOp(SHA256),
				Sub: &Timestamp{Attestations: []Attestation{PendingAttestation{URI: server}}},
			}},
		},
	}
	cal := stubCalendar{} // no response configured: Upgrade reports pending
	oracle := &recordingUpgradeOracle{}
	u := &Upgrader{Calendar: cal, Oracle: oracle}

	_, err := u.Upgrade(context.Background(), file)
	require.NoError(t, err)
	require.Equal(t, 1, oracle.calls, "walk should replay the SHA256 continuation's hash through Oracle.Digest")
}
