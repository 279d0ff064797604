package pitchbot

import (
	"github.com/pitchside/pitchbot/slack"
)

// ActionSourceUserMessage is the ActionSource for a plain channel message.
type ActionSourceUserMessage struct {
	Msg slack.RTMRawMessage
}

func (um ActionSourceUserMessage) UserID() slack.UserID          { return um.Msg.UserID() }
func (um ActionSourceUserMessage) ChannelID() slack.ChannelID    { return um.Msg.ChannelID() }
func (um ActionSourceUserMessage) MsgTimestamp() slack.MessageTS { return um.Msg.MessageTS() }
