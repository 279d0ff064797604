package game

import (
	"reflect"
	"testing"

	"github.com/pkg/errors"
)

func newTestGame(t *testing.T, listed string) *Game {
	g, err := NewGame(NewMemoryStore(), listed)
	if err != nil {
		t.Fatalf("NewGame: %+v", err)
	}
	return g
}

// must fails the test on a store error and returns the outcome.
func must(t *testing.T) func(Outcome, error) Outcome {
	return func(out Outcome, err error) Outcome {
		t.Helper()
		if err != nil {
			t.Fatalf("unexpected error: %+v", err)
		}
		return out
	}
}

func expect(t *testing.T, out Outcome, message string, rejected bool) {
	t.Helper()
	if out.Message != message {
		t.Errorf("message = %q, want %q", out.Message, message)
	}
	if out.Rejected != rejected {
		t.Errorf("rejected = %v, want %v (%q)", out.Rejected, rejected, out.Message)
	}
}

func TestNoGame(t *testing.T) {
	g := newTestGame(t, "down")

	testCases := []struct {
		name string
		run  func() (Outcome, error)
	}{
		{"add", func() (Outcome, error) { return g.AddPlayers([]string{"amy"}) }},
		{"remove", func() (Outcome, error) { return g.RemovePlayer("amy") }},
		{"team", func() (Outcome, error) { return g.SetTeam("amy", 1) }},
		{"teams", func() (Outcome, error) { return g.SetTeams([]string{"amy"}, []string{"bo"}) }},
		{"get", func() (Outcome, error) { return g.Get(), nil }},
		{"done", g.Done},
		{"join", func() (Outcome, error) { return g.Join("amy") }},
		{"leave", func() (Outcome, error) { return g.Leave("amy") }},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			out, err := tc.run()
			if err != nil {
				t.Fatalf("unexpected error: %+v", err)
			}
			expect(t, out, "There are no upcoming games", true)
		})
	}

	if s := g.Snapshot(); s.Date != nil || len(s.Players) != 0 {
		t.Errorf("state changed: %+v", s)
	}
}

func TestSetDateResets(t *testing.T) {
	g := newTestGame(t, "down")
	ok := must(t)

	expect(t, ok(g.SetDate("Friday", intPtr(4))), "Next game set for Friday, limited to 4 players", false)
	ok(g.AddPlayers([]string{"amy", "bo"}))
	ok(g.SetTeam("amy", 1))

	expect(t, ok(g.SetDate("Saturday", nil)), "Next game set for Saturday", false)
	s := g.Snapshot()
	if *s.Date != "Saturday" || s.Limit != nil || len(s.Players) != 0 || s.anyTeams() {
		t.Errorf("SetDate did not reset the game: %+v", s)
	}

	expect(t, ok(g.SetDate("Sunday", intPtr(0))), "Next game set for Sunday, limited to 0 players", false)
	if s := g.Snapshot(); s.Limit == nil || *s.Limit != 0 {
		t.Errorf("limit = %v, want 0", s.Limit)
	}
}

func TestAddPlayers(t *testing.T) {
	testCases := []struct {
		name     string
		listed   string
		existing []string
		add      []string
		message  string
		rejected bool
		players  []string
	}{
		{
			name:    "one",
			listed:  "down",
			add:     []string{"amy"},
			message: "amy is now down for the game on Friday",
			players: []string{"amy"},
		},
		{
			name:     "several",
			listed:   "down",
			existing: []string{"amy"},
			add:      []string{"bo", "cy"},
			message:  "bo, cy are now down for the game on Friday",
			players:  []string{"amy", "bo", "cy"},
		},
		{
			name:    "shortlist",
			listed:  "on the shortlist",
			add:     []string{"amy"},
			message: "amy is now on the shortlist for the game on Friday",
			players: []string{"amy"},
		},
		{
			name:     "duplicate adds nobody",
			listed:   "down",
			existing: []string{"bo"},
			add:      []string{"amy", "bo", "cy"},
			message:  "bo is already down to play on Friday",
			rejected: true,
			players:  []string{"bo"},
		},
		{
			name:     "repeated in one command",
			listed:   "down",
			add:      []string{"amy", "amy"},
			message:  "amy is already down to play on Friday",
			rejected: true,
		},
		{
			name:     "past the limit",
			listed:   "down",
			existing: []string{"amy", "bo"},
			add:      []string{"cy"},
			message:  "cy is now down for the game on Friday",
			players:  []string{"amy", "bo", "cy"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			g := newTestGame(t, tc.listed)
			ok := must(t)
			ok(g.SetDate("Friday", intPtr(2)))
			for _, p := range tc.existing {
				ok(g.Join(p))
			}

			expect(t, ok(g.AddPlayers(tc.add)), tc.message, tc.rejected)
			if got := g.Snapshot().Players; !reflect.DeepEqual(got, tc.players) && !(len(got) == 0 && len(tc.players) == 0) {
				t.Errorf("players = %v, want %v", got, tc.players)
			}
		})
	}
}

func TestJoinOrderAndDuplicates(t *testing.T) {
	g := newTestGame(t, "down")
	ok := must(t)
	ok(g.SetDate("Sat", nil))

	names := []string{"x", "amy", "bo"}
	for _, n := range names {
		expect(t, ok(g.Join(n)), "You're now down to play in the game on Sat", false)
	}
	expect(t, ok(g.Join("x")), "You're already down to play on Sat", true)
	if got := g.Snapshot().Players; !reflect.DeepEqual(got, names) {
		t.Errorf("players = %v, want %v", got, names)
	}
}

func TestJoinLimit(t *testing.T) {
	ok := must(t)

	g := newTestGame(t, "down")
	ok(g.SetDate("Friday", intPtr(2)))
	ok(g.Join("amy"))
	ok(g.Join("bo"))
	expect(t, ok(g.Join("cy")), "The game on Friday has enough players already", true)
	// the operator can still add past the limit
	expect(t, ok(g.AddPlayer("cy")), "cy is now down for the game on Friday", false)

	unlimited := newTestGame(t, "down")
	ok(unlimited.SetDate("Friday", intPtr(0)))
	for _, n := range []string{"amy", "bo", "cy"} {
		expect(t, ok(unlimited.Join(n)), "You're now down to play in the game on Friday", false)
	}
}

func TestRemoveAndLeave(t *testing.T) {
	ok := must(t)
	g := newTestGame(t, "down")
	ok(g.SetDate("Friday", nil))
	ok(g.AddPlayers([]string{"amy", "bo", "cy"}))
	ok(g.SetTeam("amy", 1))
	ok(g.SetTeam("bo", 2))

	expect(t, ok(g.RemovePlayer("amy")), "amy is no longer down for the the game on Friday", false)
	expect(t, ok(g.RemovePlayer("amy")), "amy is not down for the the game on Friday", true)
	s := g.Snapshot()
	if contains(s.Players, "amy") || contains(s.Teams[0], "amy") {
		t.Errorf("amy still in game: %+v", s)
	}

	// Leave only touches the player list.
	expect(t, ok(g.Leave("bo")), "You're no longer down to play in the game on Friday", false)
	expect(t, ok(g.Leave("bo")), "You're not down to play on Friday", true)
	s = g.Snapshot()
	if contains(s.Players, "bo") {
		t.Errorf("bo still listed: %v", s.Players)
	}
	if !reflect.DeepEqual(s.Teams[1], []string{"bo"}) {
		t.Errorf("team 2 = %v, want [bo]", s.Teams[1])
	}
}

func TestSetTeam(t *testing.T) {
	ok := must(t)
	g := newTestGame(t, "on the shortlist")
	ok(g.SetDate("Friday", intPtr(2)))
	ok(g.AddPlayers([]string{"amy", "bo", "cy"}))

	expect(t, ok(g.SetTeam("dee", 1)), "dee is not on the shortlist for the game on Friday", true)
	expect(t, ok(g.SetTeam("amy", 1)), "amy added to team 1", false)
	expect(t, ok(g.SetTeam("amy", 1)), "amy added to team 1", false)
	s := g.Snapshot()
	if !reflect.DeepEqual(s.Teams[0], []string{"amy"}) || len(s.Teams[1]) != 0 {
		t.Errorf("teams = %v, want [[amy] []]", s.Teams)
	}

	expect(t, ok(g.SetTeam("amy", 2)), "amy added to team 2", false)
	s = g.Snapshot()
	if len(s.Teams[0]) != 0 || !reflect.DeepEqual(s.Teams[1], []string{"amy"}) {
		t.Errorf("teams = %v, want [[] [amy]]", s.Teams)
	}

	expect(t, ok(g.SetTeam("bo", 1)), "bo added to team 1", false)
	expect(t, ok(g.SetTeam("cy", 1)), "There are already 2 players in teams", true)
	if s := g.Snapshot(); contains(s.Teams[0], "cy") {
		t.Errorf("cy was placed past the limit: %v", s.Teams)
	}
	// moving someone who is already placed does not grow the teams
	expect(t, ok(g.SetTeam("bo", 2)), "bo added to team 2", false)
}

func TestSetTeams(t *testing.T) {
	testCases := []struct {
		name     string
		a, b     []string
		message  string
		rejected bool
	}{
		{"ok", []string{"amy", "bo"}, []string{"cy"}, "The teams are amy, bo vs cy", false},
		{"unknown", []string{"amy"}, []string{"zed"}, "zed is not down for the game on Friday", true},
		{"one in both", []string{"amy", "bo"}, []string{"bo", "cy"}, "bo is defined in both teams", true},
		{"two in both", []string{"amy", "bo"}, []string{"bo", "amy"}, "amy, bo are defined in both teams", true},
		{"over limit", []string{"amy", "bo", "cy"}, []string{"dee", "eve"}, "You cannot put more than 4 players on the pitch", true},
		{"empty side", nil, []string{"amy"}, "The teams are  vs amy", false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ok := must(t)
			g := newTestGame(t, "down")
			ok(g.SetDate("Friday", intPtr(4)))
			ok(g.AddPlayers([]string{"amy", "bo", "cy", "dee", "eve"}))
			ok(g.SetTeam("dee", 2))
			before := g.Snapshot()

			expect(t, ok(g.SetTeams(tc.a, tc.b)), tc.message, tc.rejected)
			after := g.Snapshot()
			if tc.rejected {
				if !reflect.DeepEqual(before, after) {
					t.Errorf("rejected SetTeams changed the game: %+v -> %+v", before, after)
				}
				return
			}
			if !reflect.DeepEqual(after.Teams[0], tc.a) && len(tc.a) != 0 {
				t.Errorf("team 1 = %v, want %v", after.Teams[0], tc.a)
			}
			if !reflect.DeepEqual(after.Teams[1], tc.b) {
				t.Errorf("team 2 = %v, want %v", after.Teams[1], tc.b)
			}
		})
	}
}

func TestGet(t *testing.T) {
	testCases := []struct {
		name    string
		players []string
		teams   [2][]string
		want    string
	}{
		{"nobody", nil, [2][]string{}, "Next game set for Friday\nNobody is yet down to play"},
		{"one", []string{"amy"}, [2][]string{}, "Next game set for Friday\namy is playing"},
		{"several", []string{"amy", "bo"}, [2][]string{}, "Next game set for Friday\namy, bo are playing"},
		{
			"one side",
			[]string{"amy", "bo"},
			[2][]string{nil, {"amy", "bo"}},
			"Next game set for Friday\nThe teams are nobody vs amy, bo",
		},
		{
			"bench of one",
			[]string{"amy", "bo", "cy"},
			[2][]string{{"amy"}, {"bo"}},
			"Next game set for Friday\nThe teams are amy vs bo\ncy is on the subs bench",
		},
		{
			"bench in sign-up order",
			[]string{"dee", "amy", "bo", "cy"},
			[2][]string{{"amy"}, nil},
			"Next game set for Friday\nThe teams are amy vs nobody\ndee, bo, cy are on the subs bench",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ok := must(t)
			g := newTestGame(t, "down")
			ok(g.SetDate("Friday", nil))
			if len(tc.players) > 0 {
				ok(g.AddPlayers(tc.players))
			}
			for side, team := range tc.teams {
				for _, p := range team {
					ok(g.SetTeam(p, side+1))
				}
			}
			expect(t, g.Get(), tc.want, false)
		})
	}
}

func TestDone(t *testing.T) {
	ok := must(t)
	g := newTestGame(t, "down")

	expect(t, ok(g.Done()), "There are no upcoming games", true)

	ok(g.SetDate("Friday", intPtr(10)))
	ok(g.AddPlayers([]string{"amy"}))
	expect(t, ok(g.Done()), "Game removed", false)
	s := g.Snapshot()
	if s.Date != nil || s.Limit != nil || len(s.Players) != 0 || s.anyTeams() {
		t.Errorf("Done left state behind: %+v", s)
	}
}

func TestLimitScenario(t *testing.T) {
	ok := must(t)
	g := newTestGame(t, "down")

	ok(g.SetDate("Friday", intPtr(4)))
	ok(g.AddPlayers([]string{"amy", "bo", "cy", "dee"}))
	ok(g.SetTeam("amy", 1))
	ok(g.SetTeam("bo", 1))
	ok(g.SetTeam("cy", 2))
	ok(g.AddPlayer("eve"))
	expect(t, ok(g.SetTeams([]string{"amy", "bo", "eve"}, []string{"cy", "dee"})),
		"You cannot put more than 4 players on the pitch", true)
	ok(g.RemovePlayer("eve"))

	expect(t, g.Get(), "Next game set for Friday\nThe teams are amy, bo vs cy\ndee is on the subs bench", false)
}

type failingStore struct {
	*MemoryStore
	err error
}

func (f *failingStore) Save(s *State) error {
	return f.err
}

func TestSaveFailureKeepsState(t *testing.T) {
	store := &failingStore{MemoryStore: NewMemoryStore()}
	g, err := NewGame(store, "down")
	if err != nil {
		t.Fatalf("NewGame: %+v", err)
	}

	store.err = errors.New("disk full")
	_, err = g.SetDate("Friday", nil)
	if err == nil {
		t.Fatal("expected the save error")
	}
	if errors.Cause(err) != store.err {
		t.Errorf("cause = %v, want %v", errors.Cause(err), store.err)
	}
	if s := g.Snapshot(); s.Date != nil {
		t.Errorf("game changed despite failed save: %+v", s)
	}

	// Rejections never reach the store.
	out, err := g.Join("amy")
	if err != nil {
		t.Errorf("rejected Join returned error: %v", err)
	}
	expect(t, out, "There are no upcoming games", true)
}
