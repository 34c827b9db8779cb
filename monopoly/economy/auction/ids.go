package auction

import (
	"crypto/rand"
	"encoding/base32"
	"fmt"
	"strings"
	"sync"
)

const (
	idLength     = 6
	idMaxRetries = 5
)

// newAuctionID returns a short, unique, human-readable id. Collisions are
// possible across 6 base32 characters so generation retries against the
// used set.
func newAuctionID(used *sync.Map) (string, error) {
	for i := 0; i < idMaxRetries; i++ {
		bytes := make([]byte, 5)
		if _, err := rand.Read(bytes); err != nil {
			return "", fmt.Errorf("failed to generate random bytes: %w", err)
		}

		encoded := base32.StdEncoding.EncodeToString(bytes)
		id := strings.ToUpper(encoded[:idLength])

		if _, exists := used.LoadOrStore(id, true); !exists {
			return id, nil
		}
	}

	return "", fmt.Errorf("failed to generate unique auction ID after %d attempts", idMaxRetries)
}
