// Package schemavalidation validates JSON documents fetched from
// block-explorer APIs against embedded JSON Schema definitions before
// otsgo trusts their fields.
package schemavalidation

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// blockHeightSchema validates the response of a block-height lookup:
// blockstream.info and mempool.space both return a bare hex block hash for
// this endpoint, so it is validated as a 64-character lowercase hex string
// (the caller JSON-encodes the raw body before validating it).
const blockHeightSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "string",
  "pattern": "^[0-9a-f]{64}$"
}`

// blockSchema validates the subset of a block-explorer's block payload
// the Verifier's default BlockLookup depends on.
const blockSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["id", "height", "merkle_root", "timestamp"],
  "properties": {
    "id": {"type": "string", "pattern": "^[0-9a-f]{64}$"},
    "height": {"type": "integer", "minimum": 0},
    "merkle_root": {"type": "string", "pattern": "^[0-9a-f]{64}$"},
    "timestamp": {"type": "integer", "minimum": 0}
  }
}`

var (
	compileOnce     sync.Once
	heightSchema    *jsonschema.Schema
	blockBodySchema *jsonschema.Schema
	compileErr      error
)

func compile() error {
	compileOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("block-height.json", bytes.NewReader([]byte(blockHeightSchema))); err != nil {
			compileErr = fmt.Errorf("add block-height schema: %w", err)
			return
		}
		if err := compiler.AddResource("block.json", bytes.NewReader([]byte(blockSchema))); err != nil {
			compileErr = fmt.Errorf("add block schema: %w", err)
			return
		}
		heightSchema, compileErr = compiler.Compile("block-height.json")
		if compileErr != nil {
			return
		}
		blockBodySchema, compileErr = compiler.Compile("block.json")
	})
	return compileErr
}

// ValidateBlockHeight checks that data is a bare 64-character hex block
// hash, the shape blockstream.info's and mempool.space's
// /block-height/{h} endpoints return.
func ValidateBlockHeight(data []byte) error {
	if err := compile(); err != nil {
		return err
	}
	var instance any
	if err := json.Unmarshal(data, &instance); err != nil {
		return fmt.Errorf("schemavalidation: decode block-height response: %w", err)
	}
	if err := heightSchema.Validate(instance); err != nil {
		return fmt.Errorf("schemavalidation: block-height response: %w", err)
	}
	return nil
}

// ValidateBlock checks that data carries the id/height/merkle_root/timestamp
// fields BlockLookup needs, the shape a /block/{hash} endpoint returns.
func ValidateBlock(data []byte) error {
	if err := compile(); err != nil {
		return err
	}
	var instance any
	if err := json.Unmarshal(data, &instance); err != nil {
		return fmt.Errorf("schemavalidation: decode block response: %w", err)
	}
	if err := blockBodySchema.Validate(instance); err != nil {
		return fmt.Errorf("schemavalidation: block response: %w", err)
	}
	return nil
}
