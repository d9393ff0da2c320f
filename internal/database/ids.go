package database

import (
	"context"
	"fmt"

	"github.com/jaevor/go-nanoid"
)

// GenerateNodeID produces a fresh 21-character node id, re-rolling on the
// unlikely collision with an existing record.
func GenerateNodeID(ctx context.Context, store NodeStore) (string, error) {
	const maxRetries = 10

	generateID, err := nanoid.Standard(21)
	if err != nil {
		return "", fmt.Errorf("failed to initialize nanoid generator: %w", err)
	}

	for i := 0; i < maxRetries; i++ {
		id := generateID()
		exists, err := store.NodeExists(ctx, id)
		if err != nil {
			return "", fmt.Errorf("failed to check for node existence: %w", err)
		}
		if !exists {
			return id, nil
		}
	}

	return "", fmt.Errorf("failed to generate a unique ID after %d attempts", maxRetries)
}
