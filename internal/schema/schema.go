// Package schema validates raw configuration documents against the
// consuming application's published JSON Schema. A bundled copy of the
// schema ships with the binary so validation works offline; a fresher
// copy can be fetched and cached on demand.
package schema

import (
	"bytes"
	_ "embed"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"ocp/internal/jsonfile"
)

// SchemaFileName is the filename used for the cached schema copy.
const SchemaFileName = "opencode.schema.json"

//go:embed assets/opencode.schema.json
var bundled []byte

// Bundled returns the schema copy compiled into the binary.
func Bundled() []byte { return bundled }

// Result is the outcome of validating one document. A document that
// fails validation is reported, never rejected: profiles may carry
// keys newer than the schema copy at hand.
type Result struct {
	Valid  bool
	Errors []string
}

// Validate checks raw config content against schemaData. Content may be
// the permissive dialect; it is normalized before decoding. The error
// return covers broken inputs (unparseable schema or document), not
// validation failures, which land in the Result.
func Validate(schemaData []byte, content string) (Result, error) {
	var doc any
	if err := jsonfile.DecodeLenient([]byte(content), &doc); err != nil {
		return Result{}, fmt.Errorf("parse document: %w", err)
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(SchemaFileName, bytes.NewReader(schemaData)); err != nil {
		return Result{}, fmt.Errorf("load schema: %w", err)
	}
	compiled, err := compiler.Compile(SchemaFileName)
	if err != nil {
		return Result{}, fmt.Errorf("compile schema: %w", err)
	}

	err = compiled.Validate(doc)
	if err == nil {
		return Result{Valid: true}, nil
	}

	verr, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return Result{}, err
	}

	var msgs []string
	for _, cause := range flatten(verr) {
		msgs = append(msgs, fmt.Sprintf("%s: %s", cause.InstanceLocation, cause.Message))
	}
	return Result{Valid: false, Errors: msgs}, nil
}

// flatten walks the cause tree and keeps the leaf errors, which carry
// the concrete instance locations.
func flatten(err *jsonschema.ValidationError) []*jsonschema.ValidationError {
	if len(err.Causes) == 0 {
		return []*jsonschema.ValidationError{err}
	}
	var leaves []*jsonschema.ValidationError
	for _, cause := range err.Causes {
		leaves = append(leaves, flatten(cause)...)
	}
	return leaves
}
