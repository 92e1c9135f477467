package repair

import (
	"strings"

	"github.com/gidixi/openclaw/types"
)

// identifierFields are the message arguments holding chat or message
// identifiers, which models sometimes emit truncated.
var identifierFields = []string{"chatId", "chat_id", "replyTo", "messageId"}

// minIdentifierDigits is the shortest all-numeric identifier worth
// keeping after truncation cleanup. Real chat IDs run longer; anything
// shorter is a fragment of one.
const minIdentifierDigits = 7

// chatIdentifierCleanupRule strips trailing truncation markers ("?" or
// an ellipsis) from identifier fields, and drops the field outright
// when the remainder is a numeric fragment too short to be a real
// identifier.
type chatIdentifierCleanupRule struct{}

func (r *chatIdentifierCleanupRule) Name() string { return "chat_identifier_cleanup" }

func (r *chatIdentifierCleanupRule) Apply(schema *types.ToolSchema, record map[string]interface{}) (map[string]interface{}, bool) {
	var out map[string]interface{}
	for _, field := range identifierFields {
		value, ok := record[field].(string)
		if !ok {
			continue
		}
		cleaned := stripTruncationMarkers(value)
		if cleaned == value {
			continue
		}
		if out == nil {
			out = cloneRecord(record)
		}
		if isShortNumericFragment(cleaned) {
			delete(out, field)
		} else {
			out[field] = cleaned
		}
	}
	if out == nil {
		return record, false
	}
	return out, true
}

// stripTruncationMarkers removes trailing truncation markers until none
// remain, so stacked markers ("14760?...?") come off in one application.
func stripTruncationMarkers(s string) string {
	for {
		trimmed := strings.TrimRight(s, "?…")
		trimmed = strings.TrimSuffix(trimmed, "...")
		if trimmed == s {
			return s
		}
		s = trimmed
	}
}

func isShortNumericFragment(s string) bool {
	if len(s) == 0 {
		return true
	}
	if len(s) >= minIdentifierDigits {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// mediaURLDonors are argument names models invent for attachments, in
// preference order.
var mediaURLDonors = []string{"photo", "image", "attachment", "link", "url"}

// mediaRelocationRule moves a URL parked under an invented attachment
// key into the media field, when media is absent or holds a non-URL
// value.
type mediaRelocationRule struct{}

func (r *mediaRelocationRule) Name() string { return "media_url_relocation" }

func (r *mediaRelocationRule) Apply(schema *types.ToolSchema, record map[string]interface{}) (map[string]interface{}, bool) {
	if media, ok := record["media"].(string); ok && looksLikeURL(media) {
		return record, false
	}
	for _, donor := range mediaURLDonors {
		value, ok := record[donor].(string)
		if !ok || !looksLikeURL(value) {
			continue
		}
		out := cloneRecord(record)
		out["media"] = value
		delete(out, donor)
		return out, true
	}
	return record, false
}
