package game

import "encoding/json"

// State is the single upcoming game of one bot.
//
// When Date is nil there is no game: Players and both Teams are empty and
// Limit is nil. Everyone on a team is also in Players, and nobody is on
// both teams.
type State struct {
	Date    *string
	Limit   *int
	Players []string
	Teams   [2][]string
}

func (s *State) clone() *State {
	c := &State{
		Players: append([]string(nil), s.Players...),
	}
	if s.Date != nil {
		date := *s.Date
		c.Date = &date
	}
	if s.Limit != nil {
		limit := *s.Limit
		c.Limit = &limit
	}
	for i := range s.Teams {
		c.Teams[i] = append([]string(nil), s.Teams[i]...)
	}
	return c
}

func (s *State) scheduled() bool {
	return s.Date != nil && *s.Date != ""
}

func (s *State) date() string {
	if s.Date == nil {
		return ""
	}
	return *s.Date
}

// limit reports the player cap. A limit of zero is no limit.
func (s *State) limit() (int, bool) {
	if s.Limit == nil || *s.Limit == 0 {
		return 0, false
	}
	return *s.Limit, true
}

func (s *State) listed(name string) bool {
	return contains(s.Players, name)
}

func (s *State) teamSize() int {
	return len(s.Teams[0]) + len(s.Teams[1])
}

func (s *State) anyTeams() bool {
	return s.teamSize() > 0
}

// bench returns the players that are on neither team, in sign-up order.
func (s *State) bench() []string {
	var result []string
	for _, p := range s.Players {
		if !contains(s.Teams[0], p) && !contains(s.Teams[1], p) {
			result = append(result, p)
		}
	}
	return result
}

func (s *State) reset(date *string, limit *int) {
	s.Date = date
	s.Limit = limit
	s.Players = nil
	s.Teams = [2][]string{}
}

func contains(list []string, name string) bool {
	for _, v := range list {
		if v == name {
			return true
		}
	}
	return false
}

func without(list []string, name string) []string {
	result := make([]string, 0, len(list))
	for _, v := range list {
		if v != name {
			result = append(result, v)
		}
	}
	return result
}

type stateJSON struct {
	Date    *string     `json:"date"`
	Limit   *int        `json:"limit"`
	Players []string    `json:"players"`
	Teams   [2][]string `json:"teams"`
}

func (s *State) MarshalJSON() ([]byte, error) {
	v := stateJSON{
		Date:    s.Date,
		Limit:   s.Limit,
		Players: s.Players,
		Teams:   s.Teams,
	}
	if v.Players == nil {
		v.Players = []string{}
	}
	for i := range v.Teams {
		if v.Teams[i] == nil {
			v.Teams[i] = []string{}
		}
	}
	return json.Marshal(v)
}
