package gst

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// DefaultInvoicePrefix is used when the caller passes an empty prefix.
const DefaultInvoicePrefix = "INV"

// InvoiceCounter is the storage collaborator the generator reads from.
type InvoiceCounter interface {
	CountInvoicesForUser(ctx context.Context, userID string) (int, error)
}

// InvoiceNumberGenerator builds numbers of the shape PREFIX-YYMM-NNNN.
//
// The sequence is count+1 at query time. Uniqueness under concurrent creation
// depends on the caller serializing invoice creation per user.
type InvoiceNumberGenerator struct {
	counter InvoiceCounter
	now     func() time.Time
}

// NewInvoiceNumberGenerator builds a generator that uses the wall clock.
func NewInvoiceNumberGenerator(counter InvoiceCounter) *InvoiceNumberGenerator {
	return &InvoiceNumberGenerator{counter: counter, now: time.Now}
}

// WithClock returns a copy of the generator that reads the date from now.
func (g *InvoiceNumberGenerator) WithClock(now func() time.Time) *InvoiceNumberGenerator {
	return &InvoiceNumberGenerator{counter: g.counter, now: now}
}

// Now returns the generator's current time.
func (g *InvoiceNumberGenerator) Now() time.Time {
	return g.now()
}

// NextSequence returns the user's invoice count plus one.
func (g *InvoiceNumberGenerator) NextSequence(ctx context.Context, userID string) (int, error) {
	count, err := g.counter.CountInvoicesForUser(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("count invoices: %w", err)
	}
	return count + 1, nil
}

// Generate returns the next invoice number for userID, e.g. "INV-2503-0004".
func (g *InvoiceNumberGenerator) Generate(ctx context.Context, userID, prefix string) (string, error) {
	seq, err := g.NextSequence(ctx, userID)
	if err != nil {
		return "", err
	}
	return FormatInvoiceNumber(prefix, g.now(), seq), nil
}

// FormatInvoiceNumber is the pure part of the generator.
// Sequences above 9999 keep all their digits.
func FormatInvoiceNumber(prefix string, at time.Time, seq int) string {
	prefix = NormalizePrefix(prefix)
	return fmt.Sprintf("%s-%s%s-%04d", prefix, at.Format("06"), at.Format("01"), seq)
}

// NormalizePrefix trims and upper-cases prefix, falling back to DefaultInvoicePrefix.
func NormalizePrefix(prefix string) string {
	prefix = strings.ToUpper(strings.TrimSpace(prefix))
	if prefix == "" {
		return DefaultInvoicePrefix
	}
	return prefix
}
