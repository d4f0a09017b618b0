package timeline

import (
	"encoding/base64"
	"encoding/json"
	"time"

	"github.com/siron93/moms-app/internal/domain"
)

// cursorPayload is the decoded cursor: the sort key of the last item seen.
// The date keeps full precision so equal-timestamp ties resume exactly.
type cursorPayload struct {
	Date string `json:"d"`
	ID   string `json:"i"`
}

// EncodeCursor returns the opaque token positioned at item.
func EncodeCursor(item domain.TimelineItem) string {
	return encodeKey(item.Key())
}

func encodeKey(k domain.SortKey) string {
	b, _ := json.Marshal(cursorPayload{
		Date: k.Date.UTC().Format(time.RFC3339Nano),
		ID:   k.ID,
	})
	return base64.RawURLEncoding.EncodeToString(b)
}

// DecodeCursor parses a token. It reports false for empty or corrupt tokens,
// which callers treat as the start of the timeline.
func DecodeCursor(token string) (domain.SortKey, bool) {
	if token == "" {
		return domain.SortKey{}, false
	}

	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return domain.SortKey{}, false
	}

	var p cursorPayload
	if err := json.Unmarshal(raw, &p); err != nil || p.ID == "" {
		return domain.SortKey{}, false
	}

	date, err := time.Parse(time.RFC3339Nano, p.Date)
	if err != nil {
		return domain.SortKey{}, false
	}

	return domain.SortKey{Date: date, ID: p.ID}, true
}
