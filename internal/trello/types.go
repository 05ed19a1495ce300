package trello

import "time"

// Label is a coloured tag attached to a card.
type Label struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// DisplayName returns the label name, or its colour when unnamed.
func (l Label) DisplayName() string {
	if l.Name != "" {
		return l.Name
	}
	return l.Color
}

// Card is a Trello card.
type Card struct {
	ID      string     `json:"id"`
	ShortID int        `json:"idShort"`
	Name    string     `json:"name"`
	Desc    string     `json:"desc"`
	URL     string     `json:"url"`
	ListID  string     `json:"idList"`
	Closed  bool       `json:"closed"`
	Due     *time.Time `json:"due"`
	Labels  []Label    `json:"labels"`
}

// List is a column on a board.
type List struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Closed bool    `json:"closed"`
	Pos    float64 `json:"pos"`
}

// Board is a Trello board.
type Board struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URL  string `json:"url"`
}

// CardCreate is the body of a create card request.
type CardCreate struct {
	Name   string `json:"name"`
	Desc   string `json:"desc,omitempty"`
	ListID string `json:"idList"`
	Due    string `json:"due,omitempty"`
}

// CardUpdate is the body of a partial card update. Nil fields are not sent.
type CardUpdate struct {
	Name   *string `json:"name,omitempty"`
	Desc   *string `json:"desc,omitempty"`
	Due    *string `json:"due,omitempty"`
	ListID *string `json:"idList,omitempty"`
	Closed *bool   `json:"closed,omitempty"`
}

// IsEmpty reports whether the update carries no fields.
func (u CardUpdate) IsEmpty() bool {
	return u.Name == nil && u.Desc == nil && u.Due == nil && u.ListID == nil && u.Closed == nil
}

// List filters accepted by BoardLists.
const (
	ListFilterOpen = "open"
	ListFilterAll  = "all"
)

// boardListsQuery holds the query parameters of GET /boards/{id}/lists.
type boardListsQuery struct {
	Filter string `url:"filter,omitempty"`
}

// memberBoardsQuery holds the query parameters of GET /members/me/boards.
type memberBoardsQuery struct {
	Filter string   `url:"filter,omitempty"`
	Fields []string `url:"fields,comma,omitempty"`
}
