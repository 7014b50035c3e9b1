package autosave

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/gowebpki/jcs"

	"github.com/sampleslayer92/utopia-produkcia-sub005/internal/onboarding/models"
)

// Signature is the content signature of the whole aggregate: SHA-256 over
// its RFC 8785 canonical JSON. Equal aggregates always sign equal.
func Signature(data models.OnboardingData) (string, error) {
	return digest(data)
}

func digest(v any) (string, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("encode for signature: %w", err)
	}
	canonical, err := jcs.Transform(raw)
	if err != nil {
		return "", fmt.Errorf("canonicalize for signature: %w", err)
	}
	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:]), nil
}
