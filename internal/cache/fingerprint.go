package cache

import (
	"encoding/json"
	"fmt"

	"github.com/cespare/xxhash/v2"
	"github.com/formulab/backend-go/internal/domain"
)

// Fingerprint derives a content key for a calculation input. Two inputs with
// equal values share a fingerprint, so cache entries are invalidated by value
// equality rather than wall-clock heuristics. encoding/json sorts map keys,
// which keeps the serialization stable across invocations.
func Fingerprint(in domain.CalculationInput) (string, error) {
	payload, err := json.Marshal(in)
	if err != nil {
		return "", fmt.Errorf("encode calculation input: %w", err)
	}
	return fmt.Sprintf("%016x", xxhash.Sum64(payload)), nil
}
