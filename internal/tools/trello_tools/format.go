package trello_tools

import (
	"fmt"
	"strings"
	"time"

	"github.com/teemow/trellomcp/internal/trello"
)

// Status glyphs.
const (
	glyphCardClosed = "✅"
	glyphCardOpen   = "⬜"
	glyphListOpen   = "📋"
	glyphListClosed = "🗄️"
	glyphFailure    = "❌"
	glyphWarning    = "⚠️"
)

// maxDescriptionChars is the number of description characters shown per card.
const maxDescriptionChars = 100

// Empty result messages.
const (
	msgNoCards  = "No cards found."
	msgNoBoards = "No boards found."
	msgNoLists  = "No lists found."
)

// dueDateLayout renders due dates as a short numeric date, e.g. 3/15/2024.
const dueDateLayout = "1/2/2006"

// formatCard renders one card. Index is 1-based.
//
//	1. ⬜ Buy milk (Due: 3/15/2024) [urgent, green]
//	   ID: c1 | List: l1
//	   first 100 characters of the description...
func formatCard(index int, card trello.Card, loc *time.Location) string {
	var sb strings.Builder

	glyph := glyphCardOpen
	if card.Closed {
		glyph = glyphCardClosed
	}
	fmt.Fprintf(&sb, "%d. %s %s", index, glyph, card.Name)

	if card.Due != nil {
		fmt.Fprintf(&sb, " (Due: %s)", card.Due.In(loc).Format(dueDateLayout))
	}

	if len(card.Labels) > 0 {
		names := make([]string, len(card.Labels))
		for i, label := range card.Labels {
			names[i] = label.DisplayName()
		}
		fmt.Fprintf(&sb, " [%s]", strings.Join(names, ", "))
	}

	fmt.Fprintf(&sb, "\n   ID: %s | List: %s", card.ID, card.ListID)

	if card.Desc != "" {
		sb.WriteString("\n   ")
		sb.WriteString(truncate(card.Desc, maxDescriptionChars))
	}

	return sb.String()
}

// truncate returns the first n characters of s, with "..." appended when
// anything was cut.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}

// formatCards renders a card listing.
func formatCards(cards []trello.Card, loc *time.Location) string {
	if len(cards) == 0 {
		return msgNoCards
	}

	blocks := make([]string, len(cards))
	for i, card := range cards {
		blocks[i] = formatCard(i+1, card, loc)
	}
	return fmt.Sprintf("Found %d card(s):\n\n%s", len(cards), strings.Join(blocks, "\n\n"))
}

// formatList renders one list line.
func formatList(index int, list trello.List) string {
	glyph := glyphListOpen
	if list.Closed {
		glyph = glyphListClosed
	}
	return fmt.Sprintf("%d. %s %s (ID: %s)", index, glyph, list.Name, list.ID)
}

// formatLists renders a list listing.
func formatLists(lists []trello.List) string {
	if len(lists) == 0 {
		return msgNoLists
	}

	lines := make([]string, len(lists))
	for i, list := range lists {
		lines[i] = formatList(i+1, list)
	}
	return fmt.Sprintf("Found %d list(s):\n\n%s", len(lists), strings.Join(lines, "\n"))
}

// formatBoard renders one board block.
func formatBoard(index int, board trello.Board) string {
	return fmt.Sprintf("%d. %s\n   ID: %s\n   URL: %s", index, board.Name, board.ID, board.URL)
}

// formatBoards renders a board listing.
func formatBoards(boards []trello.Board) string {
	if len(boards) == 0 {
		return msgNoBoards
	}

	blocks := make([]string, len(boards))
	for i, board := range boards {
		blocks[i] = formatBoard(i+1, board)
	}
	return fmt.Sprintf("Found %d board(s):\n\n%s", len(boards), strings.Join(blocks, "\n\n"))
}

func formatCreated(card *trello.Card) string {
	return fmt.Sprintf("✅ Card created: %s\n   ID: %s\n   URL: %s", card.Name, card.ID, card.URL)
}

func formatUpdated(card *trello.Card) string {
	return fmt.Sprintf("✅ Card updated: %s\n   ID: %s", card.Name, card.ID)
}

func formatMarkedDone(card *trello.Card) string {
	return fmt.Sprintf("✅ Card marked as done: %s\n   ID: %s", card.Name, card.ID)
}

func formatDeleted(cardID string) string {
	return fmt.Sprintf("🗑️ Card deleted (ID: %s)", cardID)
}
