package game

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gorilla/mux"

	"github.com/pitchside/pitchbot"
	"github.com/pitchside/pitchbot/slack"
)

type sentMessage struct {
	channel slack.ChannelID
	text    string
}

// fakeTeam implements the parts of pitchbot.Team the module calls while
// handling messages.
type fakeTeam struct {
	pitchbot.Team

	lock   sync.Mutex
	sent   []sentMessage
	errors []error
}

func (f *fakeTeam) BotUser() slack.UserID { return "UBOT" }

func (f *fakeTeam) SendMessage(channel slack.ChannelID, text string) (slack.MessageTS, slack.RTMRawMessage, error) {
	f.lock.Lock()
	defer f.lock.Unlock()
	f.sent = append(f.sent, sentMessage{channel, text})
	return "1.1", nil, nil
}

func (f *fakeTeam) ReportError(err error, source pitchbot.ActionSource) {
	f.lock.Lock()
	defer f.lock.Unlock()
	f.errors = append(f.errors, err)
}

func newTestModule(t *testing.T) (*GameModule, *fakeTeam) {
	team := &fakeTeam{}
	mod := NewGameModule(team).(*GameModule)
	for _, bot := range Presets() {
		mod.bots = append(mod.bots, newTestDispatcher(t, bot))
	}
	return mod, team
}

func message(user, channel, text string) slack.RTMRawMessage {
	return slack.RTMRawMessage{
		"type":    "message",
		"user":    user,
		"channel": channel,
		"text":    text,
		"ts":      "1.0",
	}
}

func TestOnMessage(t *testing.T) {
	mod, team := newTestModule(t)

	mod.OnMessage(message("U1", "C1", "!DAVE set Friday"))
	mod.OnMessage(message("U1", "C2", "!footy set Sunday 12"))
	mod.OnMessage(message("U1", "C1", "just chatting"))
	mod.OnMessage(message("UBOT", "C1", "!DAVE done"))
	mod.OnMessage(message("U9", "C1", "!DAVE join"))

	want := []sentMessage{
		{"C1", "Next game set for Friday, limited to 10 players"},
		{"C2", "Next game set for Sunday, limited to 12 players"},
		{"C1", msgBroken},
	}
	if len(team.sent) != len(want) {
		t.Fatalf("sent %v, want %v", team.sent, want)
	}
	for i := range want {
		if team.sent[i] != want[i] {
			t.Errorf("message %d = %v, want %v", i, team.sent[i], want[i])
		}
	}
	if len(team.errors) != 1 {
		t.Errorf("reported errors = %v, want one", team.errors)
	}
}

func TestServeGame(t *testing.T) {
	mod, _ := newTestModule(t)
	mod.OnMessage(message("U1", "C1", "!DAVE set Friday 4"))
	mod.OnMessage(message("U1", "C1", "!DAVE add amy bo"))
	mod.OnMessage(message("U1", "C1", "!DAVE team bo 2"))

	r := mux.NewRouter()
	r.Handle("/game/{bot}", http.HandlerFunc(mod.ServeGame))
	srv := httptest.NewServer(r)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/game/dave")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d", resp.StatusCode)
	}
	var got stateJSON
	err = json.NewDecoder(resp.Body).Decode(&got)
	if err != nil {
		t.Fatal(err)
	}
	if got.Date == nil || *got.Date != "Friday" || got.Limit == nil || *got.Limit != 4 {
		t.Errorf("got %+v", got)
	}
	if len(got.Players) != 2 || len(got.Teams[0]) != 0 || len(got.Teams[1]) != 1 {
		t.Errorf("got %+v", got)
	}

	resp2, err := http.Get(srv.URL + "/game/hockey")
	if err != nil {
		t.Fatal(err)
	}
	resp2.Body.Close()
	if resp2.StatusCode != http.StatusNotFound {
		t.Errorf("unknown bot: status %d, want 404", resp2.StatusCode)
	}
}
