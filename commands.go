package pitchbot

import (
	"fmt"
)

// CommandArguments describes one parsed command. Command is the text left
// after the trigger was stripped; Arguments holds whatever the matching rule
// extracted from it.
type CommandArguments struct {
	Source    ActionSource
	Command   string
	Arguments []string
}

type CommandResultCode int

const (
	CmdResultOK CommandResultCode = iota
	CmdResultFailure
	CmdResultError
	CmdResultNoSuchCommand
	CmdResultPrintUsage
	CmdResultPrintHelp
)

func (c CommandResultCode) String() string {
	switch c {
	case CmdResultOK:
		return "ok"
	case CmdResultFailure:
		return "failure"
	case CmdResultError:
		return "error"
	case CmdResultNoSuchCommand:
		return "no such command"
	case CmdResultPrintUsage:
		return "usage"
	case CmdResultPrintHelp:
		return "help"
	}
	return fmt.Sprintf("CommandResultCode(%d)", int(c))
}

// A CommandResult is the return of a command. Use the Cmd* constructors to make them.
//
// CommandResult objects are to be passed and modified by-value.
type CommandResult struct {
	Args    *CommandArguments
	Message string
	Err     error
	Code    CommandResultCode
}

// CmdError includes the Err field for the CmdResultError code.
// An error is something that shouldn't normally happen - a user asking for
// something the game doesn't allow goes under Failure.
func CmdError(args *CommandArguments, err error, msg string) CommandResult {
	return CommandResult{Args: args, Message: msg, Err: err, Code: CmdResultError}
}

// CmdFailure creates a CmdResultFailure result.
func CmdFailure(args *CommandArguments, msg string) CommandResult {
	return CommandResult{Args: args, Message: msg, Code: CmdResultFailure}
}

// CmdFailuref formats a string to create a CmdResultFailure result.
func CmdFailuref(args *CommandArguments, format string, v ...interface{}) CommandResult {
	return CmdFailure(args, fmt.Sprintf(format, v...))
}

// CmdHelpf formats a string to create a CmdResultPrintHelp result.
func CmdHelpf(args *CommandArguments, format string, v ...interface{}) CommandResult {
	return CommandResult{Args: args, Message: fmt.Sprintf(format, v...), Code: CmdResultPrintHelp}
}

// CmdSuccess simply takes a message to give to the user for an OK result.
func CmdSuccess(args *CommandArguments, msg string) CommandResult {
	return CommandResult{Args: args, Message: msg, Code: CmdResultOK}
}

// CmdNoSuchCommand is returned when nothing understood the command.
func CmdNoSuchCommand(args *CommandArguments, msg string) CommandResult {
	return CommandResult{Args: args, Message: msg, Code: CmdResultNoSuchCommand}
}
