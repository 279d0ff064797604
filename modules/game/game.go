package game

import (
	"fmt"
	"strings"
	"sync"

	"github.com/pkg/errors"
)

const msgNoGame = "There are no upcoming games"

// Outcome is the reply to a game operation. A rejected outcome left the
// game unchanged; it is an answer for the user, not an error.
type Outcome struct {
	Message  string
	Rejected bool
}

func accepted(format string, v ...interface{}) Outcome {
	return Outcome{Message: fmt.Sprintf(format, v...)}
}

func rejected(format string, v ...interface{}) Outcome {
	return Outcome{Message: fmt.Sprintf(format, v...), Rejected: true}
}

// Game is one bot's upcoming game. Every operation runs under the game's
// lock and is saved to the store before it returns; an operation whose save
// fails returns the error and leaves the game as it was.
type Game struct {
	lock   sync.Mutex
	state  *State
	store  Store
	listed string
}

// NewGame loads the game from store. listed completes sentences like
// "amy is now ___ for the game", e.g. "down" or "on the shortlist".
func NewGame(store Store, listed string) (*Game, error) {
	st, err := store.Load()
	if err != nil {
		return nil, err
	}
	return &Game{state: st, store: store, listed: listed}, nil
}

// Snapshot returns a copy of the current state.
func (g *Game) Snapshot() *State {
	g.lock.Lock()
	defer g.lock.Unlock()
	return g.state.clone()
}

func (g *Game) update(f func(s *State) Outcome) (Outcome, error) {
	g.lock.Lock()
	defer g.lock.Unlock()

	next := g.state.clone()
	out := f(next)
	if out.Rejected {
		return out, nil
	}
	err := g.store.Save(next)
	if err != nil {
		return Outcome{}, errors.Wrap(err, "save game")
	}
	g.state = next
	return out, nil
}

func (g *Game) view(f func(s *State) Outcome) Outcome {
	g.lock.Lock()
	defer g.lock.Unlock()
	return f(g.state)
}

func isAre(n int) string {
	if n == 1 {
		return "is"
	}
	return "are"
}

// ---

// SetDate replaces whatever game there was with an empty game on date.
func (g *Game) SetDate(date string, limit *int) (Outcome, error) {
	return g.update(func(s *State) Outcome {
		var l *int
		if limit != nil {
			n := *limit
			l = &n
		}
		s.reset(&date, l)
		if l != nil {
			return accepted("Next game set for %s, limited to %d players", date, *l)
		}
		return accepted("Next game set for %s", date)
	})
}

// AddPlayers signs up all of names, or none of them if any is already in.
// The limit is not checked.
func (g *Game) AddPlayers(names []string) (Outcome, error) {
	return g.update(func(s *State) Outcome {
		if !s.scheduled() {
			return rejected(msgNoGame)
		}
		if len(names) == 0 {
			return rejected("Nobody to add")
		}
		for i, name := range names {
			if s.listed(name) || contains(names[:i], name) {
				return rejected("%s is already down to play on %s", name, s.date())
			}
		}
		s.Players = append(s.Players, names...)
		return accepted("%s %s now %s for the game on %s",
			strings.Join(names, ", "), isAre(len(names)), g.listed, s.date())
	})
}

func (g *Game) AddPlayer(name string) (Outcome, error) {
	return g.AddPlayers([]string{name})
}

// RemovePlayer takes name off the player list and both teams.
func (g *Game) RemovePlayer(name string) (Outcome, error) {
	return g.update(func(s *State) Outcome {
		if !s.scheduled() {
			return rejected(msgNoGame)
		}
		if !s.listed(name) {
			return rejected("%s is not %s for the the game on %s", name, g.listed, s.date())
		}
		s.Players = without(s.Players, name)
		for i := range s.Teams {
			s.Teams[i] = without(s.Teams[i], name)
		}
		return accepted("%s is no longer %s for the the game on %s", name, g.listed, s.date())
	})
}

// SetTeam moves name onto team 1 or 2.
func (g *Game) SetTeam(name string, team int) (Outcome, error) {
	return g.update(func(s *State) Outcome {
		if !s.scheduled() {
			return rejected(msgNoGame)
		}
		if team != 1 && team != 2 {
			return rejected("There is no team %d", team)
		}
		if !s.listed(name) {
			return rejected("%s is not %s for the game on %s", name, g.listed, s.date())
		}
		for i := range s.Teams {
			s.Teams[i] = without(s.Teams[i], name)
		}
		s.Teams[team-1] = append(s.Teams[team-1], name)
		if limit, ok := s.limit(); ok && s.teamSize() > limit {
			return rejected("There are already %d players in teams", limit)
		}
		return accepted("%s added to team %d", name, team)
	})
}

// SetTeams replaces both teams.
func (g *Game) SetTeams(teamA, teamB []string) (Outcome, error) {
	return g.update(func(s *State) Outcome {
		if !s.scheduled() {
			return rejected(msgNoGame)
		}
		for _, team := range [][]string{teamA, teamB} {
			for _, p := range team {
				if !s.listed(p) {
					return rejected("%s is not %s for the game on %s", p, g.listed, s.date())
				}
			}
		}
		var both []string
		for _, p := range teamA {
			if contains(teamB, p) && !contains(both, p) {
				both = append(both, p)
			}
		}
		if len(both) > 0 {
			return rejected("%s %s defined in both teams", strings.Join(both, ", "), isAre(len(both)))
		}
		if limit, ok := s.limit(); ok && len(teamA)+len(teamB) > limit {
			return rejected("You cannot put more than %d players on the pitch", limit)
		}
		s.Teams = [2][]string{
			append([]string(nil), teamA...),
			append([]string(nil), teamB...),
		}
		return accepted("The teams are %s vs %s", strings.Join(teamA, ", "), strings.Join(teamB, ", "))
	})
}

// Get describes the game: its date, then either the teams and the subs
// bench or the plain player list.
func (g *Game) Get() Outcome {
	return g.view(func(s *State) Outcome {
		if !s.scheduled() {
			return rejected(msgNoGame)
		}
		lines := []string{fmt.Sprintf("Next game set for %s", s.date())}
		if s.anyTeams() {
			sides := make([]string, len(s.Teams))
			for i, team := range s.Teams {
				sides[i] = strings.Join(team, ", ")
				if sides[i] == "" {
					sides[i] = "nobody"
				}
			}
			lines = append(lines, fmt.Sprintf("The teams are %s", strings.Join(sides, " vs ")))
			if bench := s.bench(); len(bench) > 0 {
				lines = append(lines, fmt.Sprintf("%s %s on the subs bench", strings.Join(bench, ", "), isAre(len(bench))))
			}
		} else if len(s.Players) == 0 {
			lines = append(lines, "Nobody is yet down to play")
		} else {
			lines = append(lines, fmt.Sprintf("%s %s playing", strings.Join(s.Players, ", "), isAre(len(s.Players))))
		}
		return accepted("%s", strings.Join(lines, "\n"))
	})
}

// Done cancels the game.
func (g *Game) Done() (Outcome, error) {
	return g.update(func(s *State) Outcome {
		if !s.scheduled() {
			return rejected(msgNoGame)
		}
		s.reset(nil, nil)
		return accepted("Game removed")
	})
}

// Join signs up the sender. Unlike AddPlayers, it respects the limit.
func (g *Game) Join(name string) (Outcome, error) {
	return g.update(func(s *State) Outcome {
		if !s.scheduled() {
			return rejected(msgNoGame)
		}
		if s.listed(name) {
			return rejected("You're already down to play on %s", s.date())
		}
		if limit, ok := s.limit(); ok && len(s.Players) >= limit {
			return rejected("The game on %s has enough players already", s.date())
		}
		s.Players = append(s.Players, name)
		return accepted("You're now down to play in the game on %s", s.date())
	})
}

// Leave takes the sender off the player list. Team places are kept.
func (g *Game) Leave(name string) (Outcome, error) {
	return g.update(func(s *State) Outcome {
		if !s.scheduled() {
			return rejected(msgNoGame)
		}
		if !s.listed(name) {
			return rejected("You're not down to play on %s", s.date())
		}
		s.Players = without(s.Players, name)
		return accepted("You're no longer down to play in the game on %s", s.date())
	})
}
