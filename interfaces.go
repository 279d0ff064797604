package pitchbot

import (
	"net/http"
	"net/url"

	"github.com/gorilla/mux"

	"github.com/pitchside/pitchbot/database"
	"github.com/pitchside/pitchbot/slack"
)

type ModuleID string

type Module interface {
	Identifier() ModuleID

	// Load is called once, before any module is enabled. Migrations and
	// configuration defaults belong here.
	Load(t Team)
	Enable(t Team)
	Disable(t Team)
}

type SendMessage interface {
	SendMessage(channelID slack.ChannelID, message string) (slack.MessageTS, slack.RTMRawMessage, error)
}

// ModuleConfig is a per-module key/value table. Keys must be given a
// default with Add during Load before they can be read with Get.
type ModuleConfig interface {
	Add(key, defaultValue string)
	Get(key string) (string, error)
	GetIsDefault(key string) (string, bool, error)
	Set(key, value string) error
	SetDefault(key string) error
}

type ActionSource interface {
	UserID() slack.UserID
	ChannelID() slack.ChannelID
	MsgTimestamp() slack.MessageTS
}

type Team interface {
	// Domain returns the leftmost component of the Slack domain name.
	Domain() string
	DB() *database.Conn
	TeamConfig() *TeamConfig
	ModuleConfig(mod ModuleID) ModuleConfig

	BotUser() slack.UserID

	// GetModule returns the instance of an enabled module, or nil.
	GetModule(modID ModuleID) Module

	SendMessage
	SlackAPIPostJSON(method string, form url.Values, result interface{}) error
	UserInfo(user slack.UserID) (*slack.User, error)

	OnNormalMessage(mod ModuleID, f func(slack.RTMRawMessage))
	OffAllEvents(mod ModuleID)

	HandleHTTP(folder string, handler http.Handler) *mux.Route

	ReportError(err error, source ActionSource)
}
