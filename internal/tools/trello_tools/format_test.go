package trello_tools

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/teemow/trellomcp/internal/trello"
)

func TestFormatCard(t *testing.T) {
	due := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		card trello.Card
		want string
	}{
		{
			name: "open card without extras",
			card: trello.Card{ID: "c1", Name: "Buy milk", ListID: "l1"},
			want: "1. ⬜ Buy milk\n   ID: c1 | List: l1",
		},
		{
			name: "closed card with due date and labels",
			card: trello.Card{
				ID:     "c2",
				Name:   "Ship it",
				ListID: "l2",
				Closed: true,
				Due:    &due,
				Labels: []trello.Label{{Name: "urgent", Color: "red"}, {Color: "green"}},
			},
			want: "1. ✅ Ship it (Due: 3/15/2024) [urgent, green]\n   ID: c2 | List: l2",
		},
		{
			name: "short description",
			card: trello.Card{ID: "c3", Name: "Call mom", ListID: "l1", Desc: "Sunday"},
			want: "1. ⬜ Call mom\n   ID: c3 | List: l1\n   Sunday",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, formatCard(1, tt.card, time.UTC))
		})
	}
}

func TestFormatCard_DueDateUsesLocation(t *testing.T) {
	due := time.Date(2024, 3, 15, 2, 0, 0, 0, time.UTC)
	loc := time.FixedZone("UTC-5", -5*60*60)

	out := formatCard(1, trello.Card{ID: "c1", Name: "Early", Due: &due}, loc)
	assert.Contains(t, out, "(Due: 3/14/2024)")
}

func TestTruncate(t *testing.T) {
	exact := strings.Repeat("a", maxDescriptionChars)
	long := strings.Repeat("b", maxDescriptionChars+1)

	assert.Equal(t, exact, truncate(exact, maxDescriptionChars))
	assert.Equal(t, strings.Repeat("b", maxDescriptionChars)+"...", truncate(long, maxDescriptionChars))
	assert.Equal(t, "", truncate("", maxDescriptionChars))

	// Multi-byte characters count once.
	assert.Equal(t, "äö...", truncate("äöü", 2))
}

func TestFormatCard_LongDescription(t *testing.T) {
	desc := strings.Repeat("x", 150)
	out := formatCard(2, trello.Card{ID: "c1", Name: "Long", ListID: "l1", Desc: desc}, time.UTC)

	lines := strings.Split(out, "\n")
	assert.Len(t, lines, 3)
	assert.Equal(t, "   "+strings.Repeat("x", 100)+"...", lines[2])
}

func TestFormatCards(t *testing.T) {
	assert.Equal(t, "No cards found.", formatCards(nil, time.UTC))

	out := formatCards([]trello.Card{
		{ID: "c1", Name: "One", ListID: "l1"},
		{ID: "c2", Name: "Two", ListID: "l1"},
	}, time.UTC)

	assert.Equal(t,
		"Found 2 card(s):\n\n"+
			"1. ⬜ One\n   ID: c1 | List: l1\n\n"+
			"2. ⬜ Two\n   ID: c2 | List: l1",
		out)
}

func TestFormatLists(t *testing.T) {
	assert.Equal(t, "No lists found.", formatLists(nil))

	out := formatLists([]trello.List{
		{ID: "l1", Name: "To Do"},
		{ID: "l2", Name: "Old", Closed: true},
	})
	assert.Equal(t, "Found 2 list(s):\n\n1. 📋 To Do (ID: l1)\n2. 🗄️ Old (ID: l2)", out)
}

func TestFormatBoards(t *testing.T) {
	assert.Equal(t, "No boards found.", formatBoards(nil))

	out := formatBoards([]trello.Board{
		{ID: "b1", Name: "Home", URL: "https://trello.com/b/b1/home"},
		{ID: "b2", Name: "Work", URL: "https://trello.com/b/b2/work"},
	})
	assert.Equal(t,
		"Found 2 board(s):\n\n"+
			"1. Home\n   ID: b1\n   URL: https://trello.com/b/b1/home\n\n"+
			"2. Work\n   ID: b2\n   URL: https://trello.com/b/b2/work",
		out)
}

func TestSuccessMessages(t *testing.T) {
	card := &trello.Card{ID: "c1", Name: "Buy milk", URL: "https://trello.com/c/c1"}

	assert.Equal(t, "✅ Card created: Buy milk\n   ID: c1\n   URL: https://trello.com/c/c1", formatCreated(card))
	assert.Equal(t, "✅ Card updated: Buy milk\n   ID: c1", formatUpdated(card))
	assert.Equal(t, "✅ Card marked as done: Buy milk\n   ID: c1", formatMarkedDone(card))
	assert.Equal(t, "🗑️ Card deleted (ID: c1)", formatDeleted("c1"))
}
