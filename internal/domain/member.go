package domain

// Member is one row of the mirrored guild roster. The tracker resolves the
// display names Mudae prints back to these stable IDs.
type Member struct {
	ID          string   `json:"id"`
	DisplayName string   `json:"displayName"`
	Username    string   `json:"username"`
	Aliases     []string `json:"aliases,omitempty"`
	IsBot       bool     `json:"isBot,omitempty"`
}

func (m *Member) HasAlias(name string) bool {
	for _, alias := range m.Aliases {
		if alias == name {
			return true
		}
	}
	return false
}
