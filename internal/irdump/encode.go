package irdump

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/vmihailenco/msgpack/v5"
)

// EncodeJSON writes the document as indented JSON.
func (d *Document) EncodeJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(d)
}

// EncodeMsgpack writes the document in msgpack, the format the build
// cache stores.
func (d *Document) EncodeMsgpack(w io.Writer) error {
	return msgpack.NewEncoder(w).Encode(d)
}

// DecodeMsgpack reads a msgpack document and checks its schema version.
func DecodeMsgpack(r io.Reader) (*Document, error) {
	var doc Document
	if err := msgpack.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode document: %w", err)
	}
	if doc.Schema != SchemaVersion {
		return nil, fmt.Errorf("unsupported document schema %d", doc.Schema)
	}
	return &doc, nil
}
