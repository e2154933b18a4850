package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

const (
	SignatureHeader = "X-MoodMirror-Signature"
	EventHeader     = "X-MoodMirror-Event"
	DeliveryHeader  = "X-MoodMirror-Delivery"
)

// Sign returns the hex HMAC-SHA256 of payload, prefixed with "sha256=".
func Sign(secret string, payload []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return "sha256=" + hex.EncodeToString(mac.Sum(nil))
}

// Verify lets receivers check a delivery in constant time.
func Verify(secret string, payload []byte, signature string) bool {
	return hmac.Equal([]byte(signature), []byte(Sign(secret, payload)))
}
