// The controller package implements the Team type.
package controller

import (
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/pitchside/pitchbot"
	"github.com/pitchside/pitchbot/database"
	"github.com/pitchside/pitchbot/slack"
	"github.com/pitchside/pitchbot/slack/rtm"
	"github.com/pitchside/pitchbot/util"
)

const slackAPIBase = "https://slack.com/api/"

type Team struct {
	teamConfig *pitchbot.TeamConfig
	client     *rtm.Client
	db         *database.Conn
	httpClient *http.Client
	apiBase    string

	modulesLock sync.Mutex
	modules     []*moduleStatus

	confLock sync.Mutex
	confMap  map[pitchbot.ModuleID]*DBModuleConfig

	httpMux *mux.Router
}

func NewTeam(cfg *pitchbot.TeamConfig) (*Team, error) {
	db, err := database.Dial(cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}

	err = MigrateModuleConfig(db)
	if err != nil {
		db.Close()
		return nil, err
	}

	t := &Team{
		teamConfig: cfg,
		client:     nil, // ConnectRTM()
		db:         db,
		httpClient: http.DefaultClient,
		apiBase:    slackAPIBase,
		confMap:    make(map[pitchbot.ModuleID]*DBModuleConfig),
		httpMux:    mux.NewRouter(),
	}
	t.httpMux.HandleFunc("/healthcheck", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok\n"))
	})
	return t, nil
}

func (t *Team) ConnectRTM(c *rtm.Client) {
	t.client = c
}

func (t *Team) Shutdown() {
	t.disableModules()
	if t.client != nil {
		util.LogIfError(errors.Wrap(t.client.Close(), "rtm shutdown"))
	}
	util.LogIfError(errors.Wrap(t.DB().Close(), "db shutdown"))
}

func (t *Team) Domain() string {
	return t.teamConfig.TeamDomain
}

func (t *Team) TeamConfig() *pitchbot.TeamConfig {
	return t.teamConfig
}

func (t *Team) DB() *database.Conn {
	return t.db
}

func (t *Team) ModuleConfig(ident pitchbot.ModuleID) pitchbot.ModuleConfig {
	return t.moduleConfig(ident)
}

func (t *Team) moduleConfig(ident pitchbot.ModuleID) *DBModuleConfig {
	t.confLock.Lock()
	defer t.confLock.Unlock()
	conf, ok := t.confMap[ident]
	if ok {
		return conf
	}
	conf = newModuleConfig(t.db, ident)
	t.confMap[ident] = conf
	return conf
}

func (t *Team) BotUser() slack.UserID {
	if t.client == nil {
		return ""
	}
	return t.client.Self.ID
}

// ---

func (t *Team) SendMessage(channel slack.ChannelID, message string) (slack.MessageTS, slack.RTMRawMessage, error) {
	if t.client == nil {
		return "", nil, errors.New("not connected to Slack")
	}
	msg, err := t.client.SendMessage(channel, message)
	if err != nil {
		return "", msg, err
	}
	return msg.MessageTS(), msg, err
}

func (t *Team) SlackAPIPostRaw(method string, form url.Values) (*http.Response, error) {
	var u string
	if strings.HasPrefix(method, "https://") {
		u = method
	} else {
		u = t.apiBase + method
	}

	// Allow custom tokens
	if form.Get("token") == "" {
		form.Set("token", t.teamConfig.UserToken)
	}

	req, err := http.NewRequest("POST", u, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, errors.Wrapf(err, "Slack API %s: build request", method)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", "pitchbot (+https://github.com/pitchside/pitchbot)")
	return t.httpClient.Do(req)
}

// SlackAPIPostJSON calls a Web API method and decodes the reply into result.
// A reply with "ok": false comes back as a wrapped slack.APIResponse.
func (t *Team) SlackAPIPostJSON(method string, form url.Values, result interface{}) error {
	var rawResponse json.RawMessage
	var slackResponse slack.APIResponse

	resp, err := t.SlackAPIPostRaw(method, form)
	if err != nil {
		util.LogBadf("Slack API %s error: %s", method, err)
		return errors.Wrapf(err, "Slack API %s: connect", method)
	}
	err = json.NewDecoder(resp.Body).Decode(&rawResponse)
	resp.Body.Close()
	if err != nil {
		util.LogBadf("Slack API %s error: %s", method, err)
		return errors.Wrapf(err, "Slack API %s: decode json", method)
	}
	err = json.Unmarshal(rawResponse, &slackResponse)
	if err != nil {
		util.LogBadf("Slack API %s error: %s", method, err)
		return errors.Wrapf(err, "Slack API %s: decode json", method)
	}
	if !slackResponse.OK {
		err = slackResponse
		util.LogBadf("Slack API %s error: %s", method, err)
		return errors.Wrapf(err, "Slack API %s", method)
	}

	// Early return - no result needed
	if result == nil {
		return nil
	}

	err = json.Unmarshal(rawResponse, result)
	if err != nil {
		util.LogBadf("Slack API %s error: %s", method, err)
		return errors.Wrapf(err, "Slack API %s: decode json", method)
	}
	return nil
}

// ---

var _filterNoSubgroup = []string{""}

func (t *Team) OnNormalMessage(mod pitchbot.ModuleID, f func(slack.RTMRawMessage)) {
	t.client.RegisterRawHandler(mod, f, "message", _filterNoSubgroup)
}

func (t *Team) OffAllEvents(mod pitchbot.ModuleID) {
	if t.client == nil {
		return
	}
	t.client.UnregisterAllMatching(mod)
}

// ---

// ConnectHTTP serves the team's routes on l until the listener fails.
func (t *Team) ConnectHTTP(l net.Listener) {
	go func() {
		err := http.Serve(l, t.httpMux)
		if err != nil {
			util.LogError(errors.Wrap(err, "http server"))
		}
	}()
}

// HandleHTTP must be called as follows:
//
//	team.HandleHTTP("/game/{bot}", handler)
func (t *Team) HandleHTTP(path string, handler http.Handler) *mux.Route {
	return t.httpMux.Handle(path, handler)
}

// ---

func (t *Team) ReportError(err error, source pitchbot.ActionSource) {
	if source == nil {
		util.LogError(err)
		return
	}
	util.LogError(errors.Wrap(err, fmt.Sprintf("from %s in %s", source.UserID(), source.ChannelID())))
}
