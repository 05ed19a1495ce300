package instrumentation

import "strings"

// Trello API operation names used as metric labels and span names.
const (
	OperationListBoardCards = "list_board_cards"
	OperationListListCards  = "list_list_cards"
	OperationCreateCard     = "create_card"
	OperationUpdateCard     = "update_card"
	OperationDeleteCard     = "delete_card"
	OperationListBoards     = "list_boards"
	OperationListLists      = "list_lists"
)

// routeResources are the Trello path segments that are followed by an
// identifier.
var routeResources = map[string]bool{
	"boards":  true,
	"cards":   true,
	"lists":   true,
	"members": true,
}

// NormalizeRoute replaces identifiers in a Trello API path with "{id}" so the
// path can be used as a low-cardinality label.
//
// Example:
//
//	NormalizeRoute("/boards/5f1a/cards") // "/boards/{id}/cards"
//	NormalizeRoute("/members/me/boards") // "/members/me/boards"
//	NormalizeRoute("")                   // "/"
func NormalizeRoute(path string) string {
	segments := strings.Split(strings.Trim(path, "/"), "/")
	for i := 1; i < len(segments); i++ {
		if routeResources[segments[i-1]] && segments[i] != "me" && segments[i] != "" {
			segments[i] = "{id}"
		}
	}
	return "/" + strings.Join(segments, "/")
}
