package schemavalidation

import "testing"

func repeatHex(n int) string {
	out := make([]byte, n)
	for i := range out {
		out[i] = 'a'
	}
	return string(out)
}

func TestValidateBlockHeightAcceptsHexHash(t *testing.T) {
	hexHash := []byte(`"` + repeatHex(64) + `"`)
	if err := ValidateBlockHeight(hexHash); err != nil {
		t.Errorf("ValidateBlockHeight rejected a well-formed hash: %v", err)
	}
}

func TestValidateBlockHeightRejectsNonHex(t *testing.T) {
	if err := ValidateBlockHeight([]byte(`"not-hex"`)); err == nil {
		t.Error("expected an error for a non-hex block height response")
	}
}

func TestValidateBlockAcceptsWellFormedPayload(t *testing.T) {
	payload := []byte(`{
		"id": "` + repeatHex(64) + `",
		"height": 600000,
		"merkle_root": "` + repeatHex(64) + `",
		"timestamp": 1600000000
	}`)
	if err := ValidateBlock(payload); err != nil {
		t.Errorf("ValidateBlock rejected a well-formed payload: %v", err)
	}
}

func TestValidateBlockRejectsMissingField(t *testing.T) {
	payload := []byte(`{
		"id": "` + repeatHex(64) + `",
		"height": 600000
	}`)
	if err := ValidateBlock(payload); err == nil {
		t.Error("expected an error for a payload missing merkle_root and timestamp")
	}
}
