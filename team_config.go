package pitchbot

import (
	"os"
	"strings"

	"gopkg.in/ini.v1"
)

// TeamConfig is loaded from the config.ini file.
type TeamConfig struct {
	TeamDomain  string
	UserToken   string
	DatabaseURL string
	HTTPListen  string

	// BotsFile points at the YAML file describing the game bots. When it
	// is empty the built-in bots are used.
	BotsFile string
	// Bots restricts which game bots run. Empty means all of them.
	Bots []string
}

func LoadTeamConfig(sec *ini.Section) *TeamConfig {
	c := &TeamConfig{}
	c.TeamDomain = sec.Key("TeamDomain").String()
	c.UserToken = sec.Key("UserToken").String()
	c.DatabaseURL = sec.Key("DatabaseURL").String()
	c.HTTPListen = sec.Key("HTTPListen").String()
	c.BotsFile = sec.Key("BotsFile").String()
	for _, v := range sec.Key("Bots").Strings(",") {
		if v = strings.TrimSpace(v); v != "" {
			c.Bots = append(c.Bots, v)
		}
	}

	if c.UserToken == "" {
		c.UserToken = os.Getenv("SLACK_TOKEN")
	}
	return c
}

// BotEnabled reports whether the game bot with the given name should run.
func (t *TeamConfig) BotEnabled(name string) bool {
	if len(t.Bots) == 0 {
		return true
	}
	for _, v := range t.Bots {
		if strings.EqualFold(v, name) {
			return true
		}
	}
	return false
}
