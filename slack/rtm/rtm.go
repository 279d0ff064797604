package rtm

import (
	"encoding/json"
	"fmt"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/net/websocket"

	"github.com/pitchside/pitchbot"
	"github.com/pitchside/pitchbot/slack"
	"github.com/pitchside/pitchbot/util"
)

// MsgTypeAll registers a handler for every event type.
const MsgTypeAll = "_all"

const connectMethod = "rtm.connect"

const maxMessageLength = 4000

type Client struct {
	team  pitchbot.Team
	codec websocket.Codec

	connLock sync.Mutex
	conn     *websocket.Conn

	Self struct {
		ID   slack.UserID `json:"id"`
		Name string       `json:"name"`
	}
	AboutTeam slack.TeamInfo

	sendChan  chan []byte
	pingTimer *time.Timer

	msgCbsLock sync.RWMutex
	msgCbs     []messageHandler

	sendCbsLock sync.Mutex
	sendCbs     map[int]chan slack.RTMRawMessage

	rtmMsgID int32
}

type messageHandler struct {
	Cb           func(slack.RTMRawMessage)
	MsgType      string
	SubtypesOnly []string
	Module       pitchbot.ModuleID
}

type connectResponse struct {
	URL  string         `json:"url"`
	Team slack.TeamInfo `json:"team"`
	Self struct {
		ID   slack.UserID `json:"id"`
		Name string       `json:"name"`
	} `json:"self"`
}

// Dial tries to connect to the Slack RTM API. The caller should register
// message handlers then call Start() to start the message pump.
func Dial(team pitchbot.Team) (*Client, error) {
	cdc := SlackCodec{}
	c := &Client{
		team:     team,
		codec:    websocket.Codec{Marshal: cdc.Marshal, Unmarshal: cdc.Unmarshal},
		sendChan: make(chan []byte),
		sendCbs:  make(map[int]chan slack.RTMRawMessage),
	}
	conn, err := c.connect()
	if err != nil {
		return nil, err
	}
	c.conn = conn
	util.LogGood("Connected to Slack as", c.Self.Name)
	return c, nil
}

// connect asks the Web API for a websocket URL, dials it, and waits for the
// hello event.
func (c *Client) connect() (*websocket.Conn, error) {
	var resp connectResponse
	err := c.team.SlackAPIPostJSON(connectMethod, url.Values{}, &resp)
	if err != nil {
		return nil, errors.Wrap(err, "start RTM")
	}
	wsURL, err := url.Parse(resp.URL)
	if err != nil {
		return nil, errors.Wrap(err, "start RTM - could not parse URL")
	}
	originURL, err := url.Parse(fmt.Sprintf("https://%s.slack.com", c.team.Domain()))
	if err != nil {
		return nil, errors.Wrap(err, "could not parse URL of team domain")
	}
	wsCfg := websocket.Config{
		Location: wsURL,
		Origin:   originURL,
		Version:  websocket.ProtocolVersionHybi,
	}
	conn, err := websocket.DialConfig(&wsCfg)
	if err != nil {
		return nil, errors.Wrap(err, "connect slack websocket")
	}

	var msg slack.RTMRawMessage
	err = c.codec.Receive(conn, &msg)
	if err != nil {
		conn.Close()
		return nil, errors.Wrap(err, "receive first message from Slack")
	}
	if msg.Type() != "hello" {
		conn.Close()
		return nil, errors.Errorf("Wrong type for first message, expected 'hello' got %s: %v", msg.Type(), msg)
	}

	c.Self.ID = resp.Self.ID
	c.Self.Name = resp.Self.Name
	c.AboutTeam = resp.Team
	return conn, nil
}

// Start launches the read, write and ping goroutines.
func (c *Client) Start() {
	c.pingTimer = time.NewTimer(pingOnIdleTime)
	go c.pump()
	go c.pumpSend()
	go c.pinger()
}

// Close drops the connection. Pending sends time out.
func (c *Client) Close() error {
	c.connLock.Lock()
	defer c.connLock.Unlock()
	if c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	c.conn = nil
	return err
}

func (c *Client) RegisterRawHandler(
	mod pitchbot.ModuleID,
	cb func(slack.RTMRawMessage),
	typeOnly string, subtypes []string,
) {
	if typeOnly == "" && len(subtypes) > 0 {
		panic("cannot specify subtypes without specifying type")
	}

	c.msgCbsLock.Lock()
	defer c.msgCbsLock.Unlock()

	c.msgCbs = append(c.msgCbs, messageHandler{
		Cb:           cb,
		MsgType:      typeOnly,
		SubtypesOnly: subtypes,
		Module:       mod,
	})
}

func (c *Client) UnregisterAllMatching(mod pitchbot.ModuleID) {
	c.msgCbsLock.Lock()
	defer c.msgCbsLock.Unlock()

	newMsgCbs := make([]messageHandler, 0, len(c.msgCbs))
	for _, v := range c.msgCbs {
		if v.Module != mod {
			newMsgCbs = append(newMsgCbs, v)
		}
	}
	c.msgCbs = newMsgCbs
}

// SendMessage sends a simple message over the RTM api.
// When the Slack API returns an error, the error will be of type slack.CodedError.
func (c *Client) SendMessage(channelID slack.ChannelID, message string) (slack.RTMRawMessage, error) {
	if len(message) > maxMessageLength {
		message = fmt.Sprintf("[TRUNCATED/MESSAGE TOO LONG]\n%s", util.PreviewString(message, maxMessageLength-100))
	}
	outgoing := make(slack.RTMRawMessage)
	outgoing["type"] = "message"
	outgoing["channel"] = string(channelID)
	outgoing["text"] = message
	return c.SendMessageRaw(outgoing)
}

// SendMessageRaw stamps rtmOut with a fresh id and waits for Slack to
// acknowledge it.
func (c *Client) SendMessageRaw(rtmOut slack.RTMRawMessage) (slack.RTMRawMessage, error) {
	id := int(atomic.AddInt32(&c.rtmMsgID, 1))
	rtmOut["id"] = id
	bytes, err := json.Marshal(rtmOut)
	if err != nil {
		return nil, errors.Wrap(err, "json marshal")
	}
	respChan := make(chan slack.RTMRawMessage, 1)
	c.sendCbsLock.Lock()
	c.sendCbs[id] = respChan
	c.sendCbsLock.Unlock()
	c.sendChan <- bytes

	select {
	case respMsg := <-respChan:
		var resp struct {
			Ok    bool             `json:"ok"`
			Error slack.CodedError `json:"error"`
		}
		err = respMsg.ReMarshal(&resp)
		if err != nil {
			return respMsg, errors.Wrap(err, "decode reply")
		}
		if !resp.Ok {
			return respMsg, resp.Error
		}
		return respMsg, nil
	case <-time.After(sendTimeout):
		c.sendCbsLock.Lock()
		delete(c.sendCbs, id)
		c.sendCbsLock.Unlock()
		util.LogBadf("[TIMEOUT] Reply to sent message %d timed out after %v", id, sendTimeout)
		return nil, errors.Errorf("[TIMEOUT] Reply to %d timed out after %v", id, sendTimeout)
	}
}
