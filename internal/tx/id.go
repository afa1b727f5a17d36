package tx

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Generator produces globally unique transaction identifiers.
// Implemented by UUIDv7Generator (production) and FixedGenerator (tests).
type Generator interface {
	NewID() string
}

// UUIDv7Generator generates "TRX-" + UUIDv7 identifiers.
//
// UUIDv7 embeds a millisecond timestamp in the high bits, so ids sort by
// creation time while the random suffix keeps them unique across tills.
// If the system RNG fails (cannot happen on any supported platform, but the
// uuid package surfaces it), the generator falls back to a wall-clock id
// rather than panicking mid-checkout.
type UUIDv7Generator struct{}

// NewID returns a new transaction id.
func (UUIDv7Generator) NewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return fmt.Sprintf("TRX-%d-offline", time.Now().UnixMilli())
	}
	return "TRX-" + id.String()
}

// FixedGenerator returns a preset id. Test use only.
type FixedGenerator struct {
	ID string
}

// NewID returns the fixed id.
func (g FixedGenerator) NewID() string {
	return g.ID
}
