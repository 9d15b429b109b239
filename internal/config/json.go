package config

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"

	"hdlgen/internal/errors"
)

//go:embed schema.cue
var schemaSource []byte

// Validator checks JSON descriptions against the embedded CUE schema
type Validator struct {
	ctx    *cue.Context
	design cue.Value
}

// NewValidator compiles the embedded schema
func NewValidator() (*Validator, error) {
	ctx := cuecontext.New()

	schema := ctx.CompileBytes(schemaSource)
	if schema.Err() != nil {
		return nil, fmt.Errorf("compiling schema: %w", schema.Err())
	}

	design := schema.LookupPath(cue.ParsePath("#Design"))
	if design.Err() != nil {
		return nil, fmt.Errorf("looking up #Design definition: %w", design.Err())
	}

	return &Validator{ctx: ctx, design: design}, nil
}

// ValidateJSON reports every way data violates the schema as one
// DesignError with a note per violation.
func (v *Validator) ValidateJSON(data []byte) error {
	value := v.ctx.CompileBytes(data)
	if value.Err() != nil {
		return errors.NewDesignError(errors.ErrorSchemaViolation, "description is not valid JSON").
			WithNote(value.Err().Error()).
			Build()
	}

	err := v.design.Unify(value).Validate(cue.Concrete(true))
	if err == nil {
		return nil
	}

	b := errors.NewDesignError(errors.ErrorSchemaViolation, "description does not match the schema")
	for _, e := range cueerrors.Errors(err) {
		b.WithNote(e.Error())
	}
	return b.Build()
}

// ParseJSON validates and decodes a JSON description
func ParseJSON(data []byte) (*Design, error) {
	v, err := NewValidator()
	if err != nil {
		return nil, err
	}
	if err := v.ValidateJSON(data); err != nil {
		return nil, err
	}

	var d Design
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("decoding description: %w", err)
	}
	d.applyDefaults()
	return &d, nil
}

// JSON renders the design as indented JSON accepted by ParseJSON
func (d *Design) JSON() ([]byte, error) {
	return json.MarshalIndent(d, "", "  ")
}
