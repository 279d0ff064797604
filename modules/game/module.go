// Package game runs the sign-up bots: each bot keeps one upcoming game,
// lets people join and leave it, and splits the players into two teams.
package game

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/pitchside/pitchbot"
	"github.com/pitchside/pitchbot/modules/usercache"
	"github.com/pitchside/pitchbot/slack"
	"github.com/pitchside/pitchbot/util"
)

func init() {
	pitchbot.RegisterModule(NewGameModule)
}

const Identifier = "game"

type GameModule struct {
	team pitchbot.Team
	bots []*Dispatcher
}

func NewGameModule(t pitchbot.Team) pitchbot.Module {
	return &GameModule{team: t}
}

func (mod *GameModule) Identifier() pitchbot.ModuleID {
	return Identifier
}

func (mod *GameModule) Load(t pitchbot.Team) {
	err := MigrateSQLStore(t.DB())
	if err != nil {
		panic(err)
	}

	bots, err := LoadBots(t.TeamConfig().BotsFile)
	if err != nil {
		panic(err)
	}
	users := teamResolver{team: t}
	for _, bot := range bots {
		if !t.TeamConfig().BotEnabled(bot.Name) {
			continue
		}
		g, err := NewGame(NewSQLStore(t.DB(), bot.Name), bot.Listed)
		if err != nil {
			panic(errors.Wrapf(err, "bot %s", bot.Name))
		}
		mod.bots = append(mod.bots, NewDispatcher(bot, g, users))
		util.LogGoodf("Loaded bot %s (trigger %s)", bot.Name, bot.Trigger)
	}
}

func (mod *GameModule) Enable(t pitchbot.Team) {
	t.OnNormalMessage(Identifier, mod.OnMessage)
	t.HandleHTTP("/game/{bot}", http.HandlerFunc(mod.ServeGame))
}

func (mod *GameModule) Disable(t pitchbot.Team) {
	t.OffAllEvents(Identifier)
}

// ---

func (mod *GameModule) OnMessage(msg slack.RTMRawMessage) {
	if !msg.AssertText() || msg.UserID() == mod.team.BotUser() {
		return
	}
	source := pitchbot.ActionSourceUserMessage{Msg: msg}

	for _, d := range mod.bots {
		var result pitchbot.CommandResult
		var ok bool
		err := util.PCall(func() error {
			result, ok = d.Dispatch(source, msg.Text())
			return nil
		})
		if err != nil {
			mod.team.ReportError(errors.Wrapf(err, "bot %s", d.bot.Name), source)
			continue
		}
		if !ok {
			continue
		}
		if result.Code == pitchbot.CmdResultError {
			mod.team.ReportError(result.Err, source)
		}
		if result.Message == "" {
			continue
		}
		_, _, err = mod.team.SendMessage(source.ChannelID(), result.Message)
		if err != nil {
			mod.team.ReportError(errors.Wrap(err, "send reply"), source)
		}
	}
}

func (mod *GameModule) bot(name string) *Dispatcher {
	for _, d := range mod.bots {
		if strings.EqualFold(d.bot.Name, name) {
			return d
		}
	}
	return nil
}

// ServeGame writes the current game of one bot as JSON.
func (mod *GameModule) ServeGame(w http.ResponseWriter, r *http.Request) {
	d := mod.bot(mux.Vars(r)["bot"])
	if d == nil {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	err := json.NewEncoder(w).Encode(d.Game().Snapshot())
	if err != nil {
		util.LogError(errors.Wrap(err, "write game json"))
	}
}

// ---

// teamResolver looks names up through the usercache module, or directly
// when that module is turned off.
type teamResolver struct {
	team pitchbot.Team
}

func (r teamResolver) Resolve(user slack.UserID) (string, error) {
	if mod, ok := r.team.GetModule(usercache.Identifier).(usercache.API); ok {
		return mod.Resolve(user)
	}
	return usercache.New(r.team.UserInfo).Resolve(user)
}
