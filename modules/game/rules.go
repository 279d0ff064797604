package game

import (
	"regexp"
	"strconv"

	"github.com/pitchside/pitchbot"
)

var (
	rgxName = regexp.MustCompile(`[a-z0-9][a-z0-9._-]*`)

	rgxJoin    = regexp.MustCompile(`^join`)
	rgxSet     = regexp.MustCompile(`^set (.+?)(\s(\d+))?\s*$`)
	rgxAddMany = regexp.MustCompile(`^add (([a-z0-9][a-z0-9._-]*((\s*,)?\s+)?)+)$`)
	rgxAddOne  = regexp.MustCompile(`^add ([a-z0-9][a-z0-9._-]*)`)
	rgxRemove  = regexp.MustCompile(`^remove ([a-z0-9][a-z0-9._-]*)`)
	rgxTeams   = regexp.MustCompile(`^teams (.+) vs (.+)`)
	rgxTeam    = regexp.MustCompile(`^team ([a-z0-9][a-z0-9._-]*) ([12])`)
	rgxLeave   = regexp.MustCompile(`^leave`)
	rgxDone    = regexp.MustCompile(`^done`)
	rgxHelp    = regexp.MustCompile(`^help`)
	rgxEmpty   = regexp.MustCompile(`^\s*$`)
)

// A rule maps the commands its pattern matches to a game operation. m is
// the submatch slice of pattern.
type rule struct {
	name    string
	pattern *regexp.Regexp
	run     func(d *Dispatcher, args *pitchbot.CommandArguments, m []string) pitchbot.CommandResult
}

// buildRules lays out the rules in the bot's order.
func buildRules(bot *BotConfig) []rule {
	byName := map[string]rule{
		RuleJoin:   {RuleJoin, rgxJoin, cmdJoin},
		RuleSet:    {RuleSet, rgxSet, cmdSet},
		RuleAdd:    {RuleAdd, rgxAddOne, cmdAdd},
		RuleRemove: {RuleRemove, rgxRemove, cmdRemove},
		RuleTeams:  {RuleTeams, rgxTeams, cmdTeams},
		RuleTeam:   {RuleTeam, rgxTeam, cmdTeam},
		RuleLeave:  {RuleLeave, rgxLeave, cmdLeave},
		RuleDone:   {RuleDone, rgxDone, cmdDone},
		RuleHelp:   {RuleHelp, rgxHelp, cmdHelp},
		RuleGet:    {RuleGet, rgxEmpty, cmdGet},
	}
	if bot.multiAdd() {
		byName[RuleAdd] = rule{RuleAdd, rgxAddMany, cmdAdd}
	}

	rules := make([]rule, 0, len(byName))
	for _, name := range bot.Order {
		if r, ok := byName[name]; ok {
			rules = append(rules, r)
		}
	}
	return rules
}

// names extracts every player name in s.
func names(s string) []string {
	return rgxName.FindAllString(s, -1)
}

// ---

func cmdJoin(d *Dispatcher, args *pitchbot.CommandArguments, m []string) pitchbot.CommandResult {
	name, err := d.senderName(args)
	if err != nil {
		return d.reply(args, Outcome{}, err)
	}
	out, err := d.game.Join(name)
	return d.reply(args, out, err)
}

func cmdLeave(d *Dispatcher, args *pitchbot.CommandArguments, m []string) pitchbot.CommandResult {
	name, err := d.senderName(args)
	if err != nil {
		return d.reply(args, Outcome{}, err)
	}
	out, err := d.game.Leave(name)
	return d.reply(args, out, err)
}

func cmdSet(d *Dispatcher, args *pitchbot.CommandArguments, m []string) pitchbot.CommandResult {
	date := m[1]
	limit := d.bot.DefaultLimit
	if limit != nil && *limit == 0 {
		limit = nil
	}
	if m[3] != "" {
		n, err := strconv.Atoi(m[3])
		if err != nil {
			return pitchbot.CmdFailuref(args, "%s is not a number of players", m[3])
		}
		limit = &n
	}
	out, err := d.game.SetDate(date, limit)
	return d.reply(args, out, err)
}

func cmdAdd(d *Dispatcher, args *pitchbot.CommandArguments, m []string) pitchbot.CommandResult {
	var out Outcome
	var err error
	if d.bot.multiAdd() {
		out, err = d.game.AddPlayers(names(m[1]))
	} else {
		out, err = d.game.AddPlayer(m[1])
	}
	return d.reply(args, out, err)
}

func cmdRemove(d *Dispatcher, args *pitchbot.CommandArguments, m []string) pitchbot.CommandResult {
	out, err := d.game.RemovePlayer(m[1])
	return d.reply(args, out, err)
}

func cmdTeams(d *Dispatcher, args *pitchbot.CommandArguments, m []string) pitchbot.CommandResult {
	out, err := d.game.SetTeams(names(m[1]), names(m[2]))
	return d.reply(args, out, err)
}

func cmdTeam(d *Dispatcher, args *pitchbot.CommandArguments, m []string) pitchbot.CommandResult {
	team, _ := strconv.Atoi(m[2])
	out, err := d.game.SetTeam(m[1], team)
	return d.reply(args, out, err)
}

func cmdDone(d *Dispatcher, args *pitchbot.CommandArguments, m []string) pitchbot.CommandResult {
	out, err := d.game.Done()
	return d.reply(args, out, err)
}

func cmdHelp(d *Dispatcher, args *pitchbot.CommandArguments, m []string) pitchbot.CommandResult {
	return pitchbot.CmdHelpf(args, "%s", helpText(d.bot))
}

func cmdGet(d *Dispatcher, args *pitchbot.CommandArguments, m []string) pitchbot.CommandResult {
	return d.reply(args, d.game.Get(), nil)
}
