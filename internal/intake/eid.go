package intake

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/brightpaw/booking-inbox/internal/store"
)

// bodyKeyLen bounds how much body text feeds the fallback identity tuple.
const bodyKeyLen = 120

// Inbound is one webhook delivery: the raw fields the intake pipeline
// operates on.
type Inbound struct {
	Platform          store.Platform
	From              string
	ThreadID          string
	ProviderMessageID string
	Channel           string
	Body              string
	ReceivedAt        time.Time
}

// BuildEID derives the message identity key. With a provider-assigned id the
// tuple is (platform, thread, provider id) and timestamps or body edits do
// not change the key; without one it falls back to
// (platform, from, timestamp, body prefix). Redeliveries of the same payload
// always hash to the same key, which is the sole dedup mechanism.
func BuildEID(in Inbound) string {
	var tuple string
	if in.ProviderMessageID != "" {
		tuple = fmt.Sprintf("%s\x1f%s\x1f%s", in.Platform, in.ThreadID, in.ProviderMessageID)
	} else {
		body := in.Body
		if len(body) > bodyKeyLen {
			body = body[:bodyKeyLen]
		}
		tuple = fmt.Sprintf("%s\x1f%s\x1f%d\x1f%s", in.Platform, in.From, in.ReceivedAt.Unix(), body)
	}
	sum := sha256.Sum256([]byte(tuple))
	return hex.EncodeToString(sum[:])
}
