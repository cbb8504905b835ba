package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMessageID_StableAcrossRuns(t *testing.T) {
	//two extraction passes over an unchanged page must agree on the id
	first := MessageID("", "Hello", "2024-01-01T00:00:00Z", 0)
	second := MessageID("", "Hello", "2024-01-01T00:00:00Z", 0)

	assert.Equal(t, first, second)
	assert.Contains(t, first, "msg_")
	assert.Contains(t, first, "_0")
}

func TestMessageID_PrefersDOMIdentifier(t *testing.T) {
	id := MessageID("12345", "whatever content", "2024-01-01", 3)
	assert.Equal(t, "upwork_12345", id)
}

func TestMessageID_DistinctContentDistinctIDs(t *testing.T) {
	a := MessageID("", "Thanks for applying to the role", "2024-01-01T00:00:00Z", 0)
	b := MessageID("", "Your proposal was declined", "2024-01-01T00:00:00Z", 0)
	assert.NotEqual(t, a, b)
}

func TestMessageID_PositionDisambiguates(t *testing.T) {
	a := MessageID("", "ok", "", 0)
	b := MessageID("", "ok", "", 1)
	assert.NotEqual(t, a, b)
}

func TestHash36_Deterministic(t *testing.T) {
	assert.Equal(t, Hash36("hello world"), Hash36("hello world"))
	assert.NotEqual(t, Hash36("hello world"), Hash36("hello worlds"))
}

func TestFold_StripsDiacriticsAndCase(t *testing.T) {
	assert.Equal(t, "dung", Fold("Dũng"))
	assert.Equal(t, "hello", Fold("HELLO"))
}

func TestFromHref(t *testing.T) {
	tests := []struct {
		name string
		href string
		want string
		ok   bool
	}{
		{
			name: "room id",
			href: "/ab/rooms/room_4f2a9c",
			want: "4f2a9c",
			ok:   true,
		},
		{
			name: "messages path",
			href: "https://www.upwork.com/messages/thread-77?tab=all",
			want: "thread-77",
			ok:   true,
		},
		{
			name: "conversations path",
			href: "/conversations/abc123/",
			want: "abc123",
			ok:   true,
		},
		{
			name: "unrelated link",
			href: "/jobs/~0199fbc",
			want: "",
			ok:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := FromHref(tt.href)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFromElementID(t *testing.T) {
	id, ok := FromElementID("room_deadbeef")
	assert.True(t, ok)
	assert.Equal(t, "deadbeef", id)

	_, ok = FromElementID("card-17")
	assert.False(t, ok)
}

func TestFromOnclick(t *testing.T) {
	id, ok := FromOnclick(`openChat(); room='r_991'`)
	assert.True(t, ok)
	assert.Equal(t, "r_991", id)

	_, ok = FromOnclick("toggleMenu()")
	assert.False(t, ok)
}

func TestConversationID_Cascade(t *testing.T) {
	//data attribute wins over everything else
	id := ConversationID(ConversationHints{
		AttrID: "attr-id",
		Href:   "/messages/other",
	})
	assert.Equal(t, "attr-id", id)

	//href next
	id = ConversationID(ConversationHints{Href: "/ab/rooms/room_ff01"})
	assert.Equal(t, "ff01", id)

	//sender+timestamp fallback is deterministic
	a := ConversationID(ConversationHints{Sender: "Alice", Timestamp: "2h ago"})
	b := ConversationID(ConversationHints{Sender: "Alice", Timestamp: "2h ago"})
	assert.Equal(t, a, b)
	assert.Contains(t, a, "conv_")

	//nothing to go on
	assert.Equal(t, "", ConversationID(ConversationHints{}))
}

func TestChatURL(t *testing.T) {
	assert.Equal(t, "https://x/messages/1", ChatURL("https://x/messages/1", "ignored"))
	assert.Equal(t,
		"/api/upwork-messages/chrome/open-message/?conversation_id=abc",
		ChatURL("", "abc"))
	assert.Equal(t, "", ChatURL("", ""))
}
