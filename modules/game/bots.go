package game

import (
	"os"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Rule names, as used in BotConfig.Order and BotConfig.Overrides.
const (
	RuleJoin   = "join"
	RuleSet    = "set"
	RuleAdd    = "add"
	RuleRemove = "remove"
	RuleTeams  = "teams"
	RuleTeam   = "team"
	RuleLeave  = "leave"
	RuleDone   = "done"
	RuleHelp   = "help"
	RuleGet    = "get"
)

var allRules = []string{
	RuleJoin, RuleSet, RuleAdd, RuleRemove, RuleTeams,
	RuleTeam, RuleLeave, RuleDone, RuleHelp, RuleGet,
}

// BotConfig describes one game bot: how it is addressed and how it words
// its replies.
type BotConfig struct {
	Name    string `yaml:"name"`
	Trigger string `yaml:"trigger"`
	// Listed completes "amy is now ___ for the game".
	Listed string `yaml:"listed"`
	// DefaultLimit is used by "set" when no limit is given. Zero means no
	// limit.
	DefaultLimit *int `yaml:"default_limit"`
	// MultiAdd lets "add" take several names.
	MultiAdd *bool `yaml:"multi_add"`
	// Order lists rule names, first match wins. Rules left out keep their
	// relative default order after the listed ones.
	Order []string `yaml:"order"`
	// Overrides maps a rule name and a sender ID to canned replies. One of
	// them is picked at random instead of running the command.
	Overrides map[string]map[string][]string `yaml:"overrides"`
}

func intPtr(n int) *int    { return &n }
func boolPtr(b bool) *bool { return &b }

// DAVE is the built-in configuration of the DAVE bot.
func DAVE() BotConfig {
	return BotConfig{
		Name:         "DAVE",
		Trigger:      "!DAVE",
		Listed:       "down",
		DefaultLimit: intPtr(10),
		MultiAdd:     boolPtr(true),
		Order:        append([]string(nil), allRules...),
	}
}

// Footy is the built-in configuration of the footy bot.
func Footy() BotConfig {
	return BotConfig{
		Name:         "footy",
		Trigger:      "!footy",
		Listed:       "on the shortlist",
		DefaultLimit: intPtr(10),
		MultiAdd:     boolPtr(false),
		Order: []string{
			RuleSet, RuleAdd, RuleRemove, RuleTeams, RuleTeam,
			RuleJoin, RuleLeave, RuleDone, RuleHelp, RuleGet,
		},
	}
}

func Presets() []BotConfig {
	return []BotConfig{DAVE(), Footy()}
}

func preset(name string) (BotConfig, bool) {
	for _, v := range Presets() {
		if strings.EqualFold(v.Name, name) {
			return v, true
		}
	}
	return BotConfig{}, false
}

type botsFile struct {
	Bots []BotConfig `yaml:"bots"`
}

// LoadBots reads the bot list from a YAML file. An empty path or a missing
// file gives the built-in bots.
func LoadBots(path string) ([]BotConfig, error) {
	if path == "" {
		return Presets(), nil
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Presets(), nil
	} else if err != nil {
		return nil, errors.Wrap(err, "reading bots file")
	}
	return ParseBots(data)
}

// ParseBots decodes a bots file and fills in defaults. Fields a bot leaves
// out are taken from the built-in bot of the same name, if there is one.
func ParseBots(data []byte) ([]BotConfig, error) {
	var f botsFile
	err := yaml.Unmarshal(data, &f)
	if err != nil {
		return nil, errors.Wrap(err, "parsing bots file")
	}
	if len(f.Bots) == 0 {
		return nil, errors.New("bots file lists no bots")
	}

	seen := make(map[string]bool)
	for i := range f.Bots {
		b := &f.Bots[i]
		if b.Name == "" {
			return nil, errors.Errorf("bot #%d has no name", i+1)
		}
		key := strings.ToLower(b.Name)
		if seen[key] {
			return nil, errors.Errorf("bot %s is listed twice", b.Name)
		}
		seen[key] = true

		err = b.fillDefaults()
		if err != nil {
			return nil, errors.Wrapf(err, "bot %s", b.Name)
		}
	}
	return f.Bots, nil
}

func (b *BotConfig) fillDefaults() error {
	def, ok := preset(b.Name)
	if !ok {
		def = DAVE()
		def.Trigger = "!" + b.Name
	}
	if b.Trigger == "" {
		b.Trigger = def.Trigger
	}
	if b.Listed == "" {
		b.Listed = def.Listed
	}
	if b.DefaultLimit == nil {
		b.DefaultLimit = def.DefaultLimit
	}
	if b.MultiAdd == nil {
		b.MultiAdd = def.MultiAdd
	}
	if len(b.Order) == 0 {
		b.Order = def.Order
	}
	order, err := completeOrder(b.Order)
	if err != nil {
		return err
	}
	b.Order = order
	for rule := range b.Overrides {
		if !contains(allRules, rule) {
			return errors.Errorf("override for unknown command %q", rule)
		}
	}
	return nil
}

func (b *BotConfig) multiAdd() bool {
	return b.MultiAdd != nil && *b.MultiAdd
}

// completeOrder checks the rule names and appends the missing ones.
func completeOrder(order []string) ([]string, error) {
	var result []string
	for _, name := range order {
		if !contains(allRules, name) {
			return nil, errors.Errorf("unknown command %q in order", name)
		}
		if contains(result, name) {
			return nil, errors.Errorf("command %q is listed twice in order", name)
		}
		result = append(result, name)
	}
	for _, name := range allRules {
		if !contains(result, name) {
			result = append(result, name)
		}
	}
	return result, nil
}
