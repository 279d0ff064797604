package slack

import (
	"fmt"
)

type TeamID string
type UserID string
type ChannelID string
type MessageTS string

func (u UserID) Raw() string      { return string(u) }
func (u UserID) ToAtForm() string { return fmt.Sprintf("<@%s>", string(u)) }

type MessageID struct {
	ChannelID
	MessageTS
}

func MsgID(ch ChannelID, ts MessageTS) MessageID { return MessageID{ch, ts} }

// APIResponse is the envelope of every Web API reply. A response with OK
// unset doubles as the error value.
type APIResponse struct {
	OK         bool   `json:"ok"`
	SlackError string `json:"error"`
	Warning    string `json:"warning"`
}

func (r APIResponse) Error() string {
	var w string = ""
	if r.Warning != "" {
		w = fmt.Sprintf(" (warning: %s)", r.Warning)
	}
	if r.OK {
		return "OK" + w
	}
	return fmt.Sprintf("slack API error: %s%s", r.SlackError, w)
}

// CodedError is the error object of a failed RTM send.
type CodedError struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
}

func (ce CodedError) Error() string {
	return ce.Msg
}

type TeamInfo struct {
	ID     TeamID `json:"id"`
	Name   string `json:"name"`
	Domain string `json:"domain"`
}

type User struct {
	ID       UserID  `json:"id"`
	TeamID   TeamID  `json:"team_id"`
	Name     string  `json:"name"`
	Deleted  bool    `json:"deleted"`
	RealName string  `json:"real_name"`
	IsBot    bool    `json:"is_bot"`
	Profile  Profile `json:"profile"`
}

type Profile struct {
	DisplayName string `json:"display_name_normalized"`
	RealName    string `json:"real_name"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
}
