package source

import (
	"fmt"
	"os"
)

// Object is an opaque schema input: something with a display path and
// readable content. Resolvers hand Objects to the loader so that the loader
// never cares whether the bytes came from disk, memory, or a test.
type Object interface {
	// Path returns the display path used in diagnostics.
	Path() string
	// Read returns the raw content of the object.
	Read() ([]byte, error)
}

// PathObject is an Object backed by a file on disk.
type PathObject struct {
	path string
}

// NewPathObject creates an Object reading from the given filesystem path.
func NewPathObject(path string) *PathObject {
	return &PathObject{path: path}
}

func (o *PathObject) Path() string {
	return o.path
}

func (o *PathObject) Read() ([]byte, error) {
	// #nosec G304 -- path is provided by the resolver
	content, err := os.ReadFile(o.path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", o.path, err)
	}
	return content, nil
}

// BytesObject is an in-memory Object. The display path defaults to <bytes>
// when no name is given.
type BytesObject struct {
	name    string
	content []byte
}

// NewBytesObject creates an Object over the given bytes.
func NewBytesObject(name string, content []byte) *BytesObject {
	if name == "" {
		name = "<bytes>"
	}
	return &BytesObject{name: name, content: content}
}

func (o *BytesObject) Path() string {
	return o.name
}

func (o *BytesObject) Read() ([]byte, error) {
	return o.content, nil
}
