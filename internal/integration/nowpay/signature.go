package nowpay

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"

	ierr "github.com/invomate/invomate/internal/errors"
)

// VerifySignature checks the gateway's IPN signature: an HMAC-SHA512 of the
// payload re-serialized with sorted keys, hex encoded. The raw body must be
// verified before any field of the payload is trusted.
func VerifySignature(body []byte, signature, secret string) error {
	if signature == "" {
		return ierr.NewError("missing ipn signature").
			WithHint("Webhook signature is required").
			Mark(ierr.ErrSignature)
	}

	// Re-marshal through a map so keys are sorted the way the gateway
	// signs them.
	var payload map[string]interface{}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ierr.WithError(err).
			WithHint("Webhook payload is not valid JSON").
			Mark(ierr.ErrValidation)
	}

	sorted, err := json.Marshal(payload)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to canonicalize webhook payload").
			Mark(ierr.ErrValidation)
	}

	mac := hmac.New(sha512.New, []byte(secret))
	mac.Write(sorted)
	expected := hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return ierr.NewError("ipn signature mismatch").
			WithHint("Webhook signature verification failed").
			Mark(ierr.ErrSignature)
	}

	return nil
}

// Sign computes the IPN signature for a payload. Used by tests and by the
// sandbox tooling.
func Sign(body []byte, secret string) (string, error) {
	var payload map[string]interface{}
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", err
	}

	sorted, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	mac := hmac.New(sha512.New, []byte(secret))
	mac.Write(sorted)
	return hex.EncodeToString(mac.Sum(nil)), nil
}
