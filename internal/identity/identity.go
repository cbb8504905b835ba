// Stable identities for scraped records. The source site exposes no
// reliable API-level ids, so identity falls back from DOM attributes to
// URL patterns to a content hash. The hash is the dedup key for repeated
// polling runs; it is deliberately not a security identifier.

package identity

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf16"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	hrefIDPattern    = regexp.MustCompile(`room_([a-f0-9]+)|(?:messages|conversations)/([^/?]+)`)
	onclickIDPattern = regexp.MustCompile(`(?i)(?:conversation|room|message)[:=]\s*['"]([^'"]+)['"]`)
)

var foldChain = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Fold lowercases and strips diacritics so visually identical content
// hashes to the same id regardless of how the page encoded it.
func Fold(str string) string {
	result, _, _ := transform.String(foldChain, str)
	return strings.ToLower(result)
}

// Hash36 is a 32-bit rolling hash rendered in base 36. It iterates UTF-16
// code units and wraps at 32 bits, so ids stay byte-compatible with
// records persisted by earlier versions of the dashboard.
func Hash36(str string) string {
	var h int32
	for _, u := range utf16.Encode([]rune(str)) {
		h = (h << 5) - h + int32(u)
	}
	v := int64(h)
	if v < 0 {
		v = -v
	}
	return strconv.FormatInt(v, 36)
}

// MessageID resolves a stable id for one record. A site-provided DOM id
// wins; otherwise the id derives from folded content, scraped timestamp
// and the record's position in the run, which makes repeated extractions
// of an unchanged page produce identical ids.
func MessageID(domID, content, timestamp string, index int) string {
	if domID != "" {
		return "upwork_" + domID
	}
	hash := Hash36(Fold(strings.TrimSpace(content)) + timestamp)
	return "msg_" + hash + "_" + strconv.Itoa(index)
}

// FromHref pulls a conversation id out of an Upwork thread link
// (room_<hex> or /messages/<id> or /conversations/<id>).
func FromHref(href string) (string, bool) {
	matches := hrefIDPattern.FindStringSubmatch(href)
	if matches == nil {
		return "", false
	}
	if matches[1] != "" {
		return matches[1], true
	}
	if matches[2] != "" {
		return matches[2], true
	}
	return "", false
}

// FromElementID recognizes Upwork's room_<id> element ids.
func FromElementID(id string) (string, bool) {
	if strings.HasPrefix(id, "room_") {
		return strings.TrimPrefix(id, "room_"), true
	}
	return "", false
}

// FromOnclick matches inline handlers carrying a conversation reference.
func FromOnclick(handler string) (string, bool) {
	matches := onclickIDPattern.FindStringSubmatch(handler)
	if matches == nil || matches[1] == "" {
		return "", false
	}
	return matches[1], true
}

// ConversationHints carries the structural clues one container offered
// for thread grouping, in cascade order.
type ConversationHints struct {
	AttrID    string //data-conversation-id / data-room-id / data-id / id attribute
	Href      string //thread link, if any
	ElementID string //the container's own id attribute
	Onclick   string //inline click handler, if any
	Sender    string
	Timestamp string
}

// ConversationID resolves the grouping key for a record. The cascade is
// keyed on thread hints rather than message content, so every message in
// one thread lands on the same key even though message ids differ.
func ConversationID(h ConversationHints) string {
	if h.AttrID != "" {
		return h.AttrID
	}
	if id, ok := FromHref(h.Href); ok {
		return id
	}
	if id, ok := FromElementID(h.ElementID); ok {
		return id
	}
	if id, ok := FromOnclick(h.Onclick); ok {
		return id
	}
	if h.Sender != "" && h.Timestamp != "" {
		return "conv_" + Hash36(h.Sender+h.Timestamp)
	}
	return ""
}

// ChatURL picks the deep link for a record: a direct thread link when the
// DOM offered one, else an API-relative open-message link built from the
// conversation id.
func ChatURL(href, conversationID string) string {
	if href != "" {
		return href
	}
	if conversationID != "" {
		return "/api/upwork-messages/chrome/open-message/?conversation_id=" + conversationID
	}
	return ""
}
