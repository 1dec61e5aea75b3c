package content

import (
	"encoding/json"

	"github.com/tidwall/gjson"
)

// DefaultTeams is used whenever the document cannot supply a team list.
var DefaultTeams = []string{"Alpha", "Bravo", "Charlie", "Delta"}

// Teams resolves the team list. It never fails: a missing or unreadable
// file, invalid JSON, or a missing, empty or non-string teams list all
// yield DefaultTeams.
func (s *Store) Teams() []string {
	doc, err := s.Load()
	if err != nil {
		return defaultTeams()
	}
	if teams, ok := teamsFrom(doc); ok {
		return teams
	}
	return defaultTeams()
}

func teamsFrom(doc []byte) ([]string, bool) {
	res := field(doc, "teams")
	if !res.IsArray() {
		return nil, false
	}
	var teams []string
	for _, t := range res.Array() {
		if t.Type != gjson.String {
			return nil, false
		}
		teams = append(teams, t.Str)
	}
	return teams, len(teams) > 0
}

// IsTeam reports whether name is part of the resolved team list.
func (s *Store) IsTeam(name string) bool {
	if name == "" {
		return false
	}
	for _, t := range s.Teams() {
		if t == name {
			return true
		}
	}
	return false
}

// DocumentOrFallback returns the stored document, or a document holding
// only the resolved teams and no rounds when it cannot be loaded.
func (s *Store) DocumentOrFallback() json.RawMessage {
	doc, err := s.Load()
	if err == nil {
		return doc
	}
	fallback, _ := json.Marshal(struct {
		Teams  []string          `json:"teams"`
		Rounds []json.RawMessage `json:"rounds"`
	}{Teams: s.Teams(), Rounds: []json.RawMessage{}})
	return fallback
}

func defaultTeams() []string {
	out := make([]string, len(DefaultTeams))
	copy(out, DefaultTeams)
	return out
}
