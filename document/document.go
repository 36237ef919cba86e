// Package document reads and writes .sfc diagram files. Input is checked
// against an embedded JSON Schema before it is decoded.
package document

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"grafed/core"
)

// DiagramType is the kind of diagram a document holds.
type DiagramType string

const (
	TypeGrafcet DiagramType = "grafcet"
	TypeGSRSM   DiagramType = "gsrsm"
)

// Extension is the file extension of diagram documents.
const Extension = ".sfc"

// ErrInvalidDocument is returned when a document fails schema validation.
var ErrInvalidDocument = errors.New("invalid document")

// Document is a named diagram.
type Document struct {
	Name     string
	Type     DiagramType
	Elements []core.Element
}

type wireDocument struct {
	Name     string        `json:"name"`
	Type     DiagramType   `json:"type"`
	Elements []wireElement `json:"elements"`
}

const schemaURL = "https://grafed.dev/schemas/document.json"

//go:embed schema.json
var schemaJSON []byte

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

func documentSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		c := jsonschema.NewCompiler()

		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaJSON))
		if err != nil {
			schemaErr = fmt.Errorf("unmarshal document schema: %w", err)
			return
		}
		if err := c.AddResource(schemaURL, doc); err != nil {
			schemaErr = fmt.Errorf("add document schema resource: %w", err)
			return
		}
		compiledSchema, schemaErr = c.Compile(schemaURL)
		if schemaErr != nil {
			schemaErr = fmt.Errorf("compile document schema: %w", schemaErr)
		}
	})
	return compiledSchema, schemaErr
}

// Validate checks raw document JSON against the schema.
func Validate(data []byte) error {
	schema, err := documentSchema()
	if err != nil {
		return err
	}

	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	if err := schema.Validate(inst); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidDocument, describe(err))
	}
	return nil
}

// describe flattens a schema validation error into its leaf messages.
func describe(err error) string {
	var verr *jsonschema.ValidationError
	if !errors.As(err, &verr) {
		return err.Error()
	}
	return strings.Join(collectViolations(verr), "; ")
}

func collectViolations(verr *jsonschema.ValidationError) []string {
	if len(verr.Causes) == 0 {
		loc := "/" + strings.Join(verr.InstanceLocation, "/")
		return []string{fmt.Sprintf("%s: %s", loc, verr.Error())}
	}

	var violations []string
	for _, cause := range verr.Causes {
		violations = append(violations, collectViolations(cause)...)
	}
	return violations
}

// Load reads, validates and decodes a document.
func Load(r io.Reader) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}
	if err := Validate(data); err != nil {
		return nil, err
	}

	var wire wireDocument
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	elements, err := decodeElements(wire.Elements)
	if err != nil {
		return nil, err
	}
	return &Document{Name: wire.Name, Type: wire.Type, Elements: elements}, nil
}

// LoadFile loads the document at path.
func LoadFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	doc, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// Save writes the document as indented JSON.
func Save(w io.Writer, doc *Document) error {
	wire := wireDocument{Name: doc.Name, Type: doc.Type, Elements: make([]wireElement, 0, len(doc.Elements))}
	if wire.Type == "" {
		wire.Type = TypeGrafcet
	}
	for _, e := range doc.Elements {
		we, err := toWire(e)
		if err != nil {
			return err
		}
		wire.Elements = append(wire.Elements, we)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(wire)
}

// SaveFile writes the document to path.
func SaveFile(path string, doc *Document) error {
	var buf bytes.Buffer
	if err := Save(&buf, doc); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}
