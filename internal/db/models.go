package db

type Position struct {
	Dataset      string `json:"dataset"`
	Display      int64  `json:"display"`
	ScrollOffset int64  `json:"scroll_offset"`
	Alignment    string `json:"alignment"`
	ItemCount    int64  `json:"item_count"`
	CreatedAt    int64  `json:"created_at"`
	UpdatedAt    int64  `json:"updated_at"`
}
