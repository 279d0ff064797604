package game

import (
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/pkg/errors"

	"github.com/pitchside/pitchbot"
	"github.com/pitchside/pitchbot/slack"
)

const (
	msgSuppressed = ":unamused:"
	msgBroken     = "Sorry, something went wrong. Try again in a bit."
)

// Resolver turns the sender of a message into the name they play under.
type Resolver interface {
	Resolve(user slack.UserID) (string, error)
}

// Dispatcher parses the commands addressed to one bot and runs them
// against its game.
//
// A sender who repeats an unknown command gets a short reply instead of the
// full one, until anyone sends a command that is understood.
type Dispatcher struct {
	bot   BotConfig
	game  *Game
	users Resolver
	rules []rule

	// Intn picks among override replies. Defaults to math/rand.
	Intn func(n int) int

	failLock sync.Mutex
	lastFail slack.UserID
}

func NewDispatcher(bot BotConfig, g *Game, users Resolver) *Dispatcher {
	return &Dispatcher{
		bot:   bot,
		game:  g,
		users: users,
		rules: buildRules(&bot),
		Intn:  rand.Intn,
	}
}

func (d *Dispatcher) Bot() BotConfig { return d.bot }
func (d *Dispatcher) Game() *Game    { return d.game }

// Dispatch handles one chat message. It returns false if the message is not
// addressed to this bot; otherwise the result holds the reply.
func (d *Dispatcher) Dispatch(source pitchbot.ActionSource, text string) (pitchbot.CommandResult, bool) {
	command, ok := d.command(slack.UnescapeText(text))
	if !ok {
		return pitchbot.CommandResult{}, false
	}

	args := &pitchbot.CommandArguments{Source: source, Command: command}
	for _, r := range d.rules {
		m := r.pattern.FindStringSubmatch(command)
		if m == nil {
			continue
		}
		d.clearFailure()
		args.Arguments = m[1:]
		if reply, ok := d.override(r.name, source.UserID()); ok {
			return pitchbot.CmdSuccess(args, reply), true
		}
		return r.run(d, args, m), true
	}
	return d.unknown(args), true
}

// command strips the trigger. The trigger must be followed by whitespace
// or the end of the message.
func (d *Dispatcher) command(text string) (string, bool) {
	if !strings.HasPrefix(text, d.bot.Trigger) {
		return "", false
	}
	rest := text[len(d.bot.Trigger):]
	if rest != "" {
		r, _ := utf8.DecodeRuneInString(rest)
		if !unicode.IsSpace(r) {
			return "", false
		}
	}
	return strings.TrimSpace(rest), true
}

func (d *Dispatcher) clearFailure() {
	d.failLock.Lock()
	d.lastFail = ""
	d.failLock.Unlock()
}

func (d *Dispatcher) unknown(args *pitchbot.CommandArguments) pitchbot.CommandResult {
	sender := args.Source.UserID()

	d.failLock.Lock()
	defer d.failLock.Unlock()
	if sender != "" && sender == d.lastFail {
		return pitchbot.CmdNoSuchCommand(args, msgSuppressed)
	}
	d.lastFail = sender
	return pitchbot.CmdNoSuchCommand(args, fmt.Sprintf("Don't know how to %s", args.Command))
}

func (d *Dispatcher) override(ruleName string, sender slack.UserID) (string, bool) {
	replies := d.bot.Overrides[ruleName][string(sender)]
	if len(replies) == 0 {
		return "", false
	}
	return replies[d.Intn(len(replies))], true
}

func (d *Dispatcher) senderName(args *pitchbot.CommandArguments) (string, error) {
	name, err := d.users.Resolve(args.Source.UserID())
	if err != nil {
		return "", errors.Wrap(err, "resolve sender")
	}
	return name, nil
}

func (d *Dispatcher) reply(args *pitchbot.CommandArguments, out Outcome, err error) pitchbot.CommandResult {
	if err != nil {
		return pitchbot.CmdError(args, errors.Wrapf(err, "%s %s", d.bot.Name, args.Command), msgBroken)
	}
	if out.Rejected {
		return pitchbot.CmdFailure(args, out.Message)
	}
	return pitchbot.CmdSuccess(args, out.Message)
}
