// Package manifest describes a translated contract's external surface: the
// source ABI identifiers (function selectors, event topics) next to the
// names they were emitted under.
package manifest

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"gopkg.in/yaml.v3"

	"github.com/lhaig/sol2clarity/internal/ast"
	"github.com/lhaig/sol2clarity/internal/claritybe"
	"github.com/lhaig/sol2clarity/internal/ir"
	"github.com/lhaig/sol2clarity/internal/naming"
)

// Contract is the manifest entry of one translated contract.
type Contract struct {
	Name      string     `yaml:"name"`
	Output    string     `yaml:"output"`
	Bases     []string   `yaml:"bases,omitempty"`
	Functions []Function `yaml:"functions,omitempty"`
	Events    []Event    `yaml:"events,omitempty"`
	Maps      []Map      `yaml:"maps,omitempty"`
	Variables []Variable `yaml:"variables,omitempty"`
}

// Function maps a source function to its emitted definition.
type Function struct {
	Name      string `yaml:"name"`
	Target    string `yaml:"target"`
	Signature string `yaml:"signature"`
	Selector  string `yaml:"selector,omitempty"`
	Public    bool   `yaml:"public"`
	ReadOnly  bool   `yaml:"read_only"`
}

// Event records an event's canonical signature and log topic.
type Event struct {
	Name      string  `yaml:"name"`
	Signature string  `yaml:"signature"`
	Topic     string  `yaml:"topic"`
	Fields    []Field `yaml:"fields,omitempty"`
}

// Field is one event field with its target type.
type Field struct {
	Name    string `yaml:"name"`
	Type    string `yaml:"type"`
	Indexed bool   `yaml:"indexed,omitempty"`
}

// Map records a mapping and the flattened map it became.
type Map struct {
	Name      string `yaml:"name"`
	Target    string `yaml:"target"`
	Getter    string `yaml:"getter"`
	Source    string `yaml:"source"`
	KeyType   string `yaml:"key_type"`
	ValueType string `yaml:"value_type"`
}

// Variable records a scalar state variable.
type Variable struct {
	Name     string `yaml:"name"`
	Type     string `yaml:"type"`
	Constant bool   `yaml:"constant,omitempty"`
	Getter   string `yaml:"getter,omitempty"`
}

type document struct {
	Contracts []*Contract `yaml:"contracts"`
}

// Build collects the manifest entry for a parsed contract whose
// translation is written to outputFile.
func Build(c *ast.Contract, outputFile string) *Contract {
	m := &Contract{
		Name:   c.Name,
		Output: outputFile,
		Bases:  c.Bases,
	}

	if c.Constructor != nil {
		m.Functions = append(m.Functions, Function{
			Name:      "constructor",
			Target:    "init",
			Signature: Signature("constructor", paramTypes(c.Constructor.Params)),
			Public:    true,
		})
	}
	for _, fn := range c.Functions {
		sig := Signature(fn.Name, paramTypes(fn.Params))
		m.Functions = append(m.Functions, Function{
			Name:      fn.Name,
			Target:    fn.Name,
			Signature: sig,
			Selector:  Selector(sig),
			Public:    fn.Visibility == "public" || fn.Visibility == "external",
			ReadOnly:  fn.Mutability == "view" || fn.Mutability == "pure",
		})
	}

	for _, ev := range c.Events {
		types := make([]string, 0, len(ev.Params))
		fields := make([]Field, 0, len(ev.Params))
		for _, p := range ev.Params {
			types = append(types, p.Type)
			fields = append(fields, Field{Name: p.Name, Type: ir.MapType(p.Type), Indexed: p.Indexed})
		}
		sig := Signature(ev.Name, types)
		m.Events = append(m.Events, Event{
			Name:      ev.Name,
			Signature: sig,
			Topic:     Topic(sig),
			Fields:    fields,
		})
	}

	// Lower keeps declaration order, so maps line up with the mapping
	// declarations.
	var mappings []*ast.StateVariable
	for _, sv := range c.StateVariables {
		if sv.IsMapping {
			mappings = append(mappings, sv)
		}
	}
	lowered := ir.Lower(&ast.Contract{Name: c.Name, StateVariables: c.StateVariables})
	for i, mp := range lowered.Maps {
		target := naming.Kebab(mp.Name)
		m.Maps = append(m.Maps, Map{
			Name:      mp.Name,
			Target:    target,
			Getter:    claritybe.GetterName(target),
			Source:    mappings[i].Type,
			KeyType:   mp.KeyType,
			ValueType: mp.ValueType,
		})
	}
	for _, dv := range lowered.DataVars {
		v := Variable{Name: dv.Name, Type: dv.Type, Constant: dv.IsConstant}
		if !dv.IsConstant && dv.Visibility == "public" {
			v.Getter = claritybe.GetterName(dv.Name)
		}
		m.Variables = append(m.Variables, v)
	}

	return m
}

func paramTypes(params []*ast.Param) []string {
	types := make([]string, 0, len(params))
	for _, p := range params {
		types = append(types, p.Type)
	}
	return types
}

// Signature renders the canonical ABI signature, e.g. transfer(address,uint256).
func Signature(name string, types []string) string {
	canonical := make([]string, len(types))
	for i, t := range types {
		canonical[i] = CanonicalType(t)
	}
	return name + "(" + strings.Join(canonical, ",") + ")"
}

// CanonicalType expands the uint/int aliases, keeping any array suffix.
func CanonicalType(t string) string {
	base, suffix := t, ""
	if i := strings.IndexByte(t, '['); i >= 0 {
		base, suffix = t[:i], t[i:]
	}
	switch base {
	case "uint":
		base = "uint256"
	case "int":
		base = "int256"
	}
	return base + suffix
}

// Selector is the 4-byte function selector of a canonical signature.
func Selector(signature string) string {
	return hexutil.Encode(crypto.Keccak256([]byte(signature))[:4])
}

// Topic is the log topic of a canonical event signature.
func Topic(signature string) string {
	return crypto.Keccak256Hash([]byte(signature)).Hex()
}

// Encode renders manifest entries as a YAML document.
func Encode(contracts []*Contract) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(document{Contracts: contracts}); err != nil {
		return nil, fmt.Errorf("encode manifest: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode manifest: %w", err)
	}
	return buf.Bytes(), nil
}

// Decode parses a document produced by Encode.
func Decode(data []byte) ([]*Contract, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode manifest: %w", err)
	}
	return doc.Contracts, nil
}
