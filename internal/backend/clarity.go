package backend

import (
	"github.com/lhaig/sol2clarity/internal/claritybe"
	"github.com/lhaig/sol2clarity/internal/ir"
)

// ClarityBackend wraps claritybe as a Backend implementation.
type ClarityBackend struct{}

// Name returns the backend name.
func (b *ClarityBackend) Name() string {
	return "clarity"
}

// Extension returns the Clarity source extension.
func (b *ClarityBackend) Extension() string {
	return ".clar"
}

// Generate produces Clarity source code from a lowered contract.
func (b *ClarityBackend) Generate(c *ir.Contract) string {
	return claritybe.Generate(c)
}
