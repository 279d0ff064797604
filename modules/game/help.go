package game

import (
	"fmt"
	"strings"
)

func helpText(bot BotConfig) string {
	limit := "no limit"
	if bot.DefaultLimit != nil && *bot.DefaultLimit != 0 {
		limit = fmt.Sprintf("%d", *bot.DefaultLimit)
	}

	var b strings.Builder
	b.WriteString("```\n")
	fmt.Fprintf(&b, "%s [OPTION]\n", bot.Trigger)
	b.WriteString("Options:\n")
	b.WriteString("    help                    Print this help\n")
	b.WriteString("    set <date> [<limit>]    Set the date of the next game, optionally changing\n")
	fmt.Fprintf(&b, "                            the maximum number of players (default: %s)\n", limit)
	b.WriteString("    done                    End the current game\n")
	b.WriteString("    join                    Join the next game\n")
	b.WriteString("    leave                   Leave the next game\n")
	if !bot.multiAdd() {
		b.WriteString("    add <username>          Add the user to the next game\n")
	}
	b.WriteString("    remove <username>       Remove the user from the next game\n")
	b.WriteString("    team <username> [12]    Add the user to either team 1 or 2\n")
	if bot.multiAdd() {
		b.WriteString("    add <username[, username]>  Add the user(s) to the next game\n")
	}
	b.WriteString("    teams <username[, username]> vs <username[, username]>  Set the teams\n")
	b.WriteString("With no options provided, outputs the details of the current game\n")
	b.WriteString("```")
	return b.String()
}
