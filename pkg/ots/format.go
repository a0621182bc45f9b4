package ots

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
)

// Format renders file as an indented tree, one line per attestation or
// continuation, using box-drawing connectors to show branch structure.
func Format(file *OtsFile) string {
	var b strings.Builder
	fmt.Fprintf(&b, "File hash: %s (%s)\n", hex.EncodeToString(file.FileDigest), file.HashOp)
	writeTree(&b, file.Timestamp, "")
	return b.String()
}

func writeTree(b *strings.Builder, ts *Timestamp, prefix string) {
	total := ts.BranchCount()
	idx := 0

	connector := func() (branch, childPrefix string) {
		idx++
		if idx == total {
			return "└── ", prefix + "    "
		}
		return "├── ", prefix + "│   "
	}

	for _, a := range ts.Attestations {
		branch, _ := connector()
		fmt.Fprintf(b, "%s%s%s\n", prefix, branch, a.String())
	}
	for _, ob := range ts.Ops {
		branch, childPrefix := connector()
		fmt.Fprintf(b, "%s%s%s\n", prefix, branch, ob.Op.Name())
		writeTree(b, ob.Sub, childPrefix)
	}
}

// jsonAttestation is the wire shape FormatJSON emits for one Attestation,
// tagged by kind so a consumer can discriminate without type assertions.
type jsonAttestation struct {
	Kind      string `json:"kind"`
	Height    uint64 `json:"height,omitempty"`
	URI       string `json:"uri,omitempty"`
	Tag       string `json:"tag,omitempty"`
	PayloadHex string `json:"payload_hex,omitempty"`
}

type jsonOp struct {
	Name string   `json:"name"`
	ArgHex string `json:"arg_hex,omitempty"`
	Sub  *jsonNode `json:"sub"`
}

type jsonNode struct {
	Attestations []jsonAttestation `json:"attestations,omitempty"`
	Ops          []jsonOp          `json:"ops,omitempty"`
}

type jsonFile struct {
	HashAlg    string   `json:"hash_alg"`
	FileDigest string   `json:"file_digest"`
	Timestamp  jsonNode `json:"timestamp"`
}

// FormatJSON renders file as a structured JSON document with the same
// shape as Format's tree, suitable for machine consumption.
func FormatJSON(file *OtsFile) ([]byte, error) {
	doc := jsonFile{
		HashAlg:    file.HashOp.String(),
		FileDigest: hex.EncodeToString(file.FileDigest),
		Timestamp:  toJSONNode(file.Timestamp),
	}
	return json.MarshalIndent(doc, "", "  ")
}

func toJSONNode(ts *Timestamp) jsonNode {
	node := jsonNode{}
	for _, a := range ts.Attestations {
		node.Attestations = append(node.Attestations, toJSONAttestation(a))
	}
	for _, ob := range ts.Ops {
		sub := toJSONNode(ob.Sub)
		jop := jsonOp{Name: ob.Op.Name(), Sub: &sub}
		if ob.Op.Tag.HasArg() {
			jop.ArgHex = hex.EncodeToString(ob.Op.Arg)
		}
		node.Ops = append(node.Ops, jop)
	}
	return node
}

func toJSONAttestation(a Attestation) jsonAttestation {
	switch v := a.(type) {
	case BitcoinAttestation:
		return jsonAttestation{Kind: "bitcoin", Height: v.Height}
	case LitecoinAttestation:
		return jsonAttestation{Kind: "litecoin", Height: v.Height}
	case EthereumAttestation:
		return jsonAttestation{Kind: "ethereum", Height: v.Height}
	case PendingAttestation:
		return jsonAttestation{Kind: "pending", URI: v.URI}
	case UnknownAttestation:
		return jsonAttestation{
			Kind:       "unknown",
			Tag:        hex.EncodeToString(v.Tag[:]),
			PayloadHex: hex.EncodeToString(v.Payload),
		}
	default:
		return jsonAttestation{Kind: "unknown"}
	}
}
