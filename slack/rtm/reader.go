package rtm

import (
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/net/websocket"

	"github.com/pitchside/pitchbot/slack"
	"github.com/pitchside/pitchbot/util"
)

const pingOnIdleTime = 5 * time.Minute
const reconnectOnIdleTime = pingOnIdleTime + 15*time.Second
const sendTimeout = 1 * time.Minute
const maxReconnectDelay = 2 * time.Minute

type SlackCodec struct{}

func (codec SlackCodec) Unmarshal(data []byte, payloadType byte, v interface{}) error {
	msg := v.(*slack.RTMRawMessage)
	if payloadType == websocket.PongFrame {
		*msg = make(slack.RTMRawMessage)
		(*msg)["type"] = "pong"
		return nil
	}
	if payloadType != websocket.TextFrame {
		return errors.Errorf("Bad frame type, got %d", payloadType)
	}
	err := json.Unmarshal(data, msg)
	if err != nil {
		return errors.Wrap(err, "unmarshal json")
	}
	(*msg)[slack.MsgFieldRawBytes] = data
	return nil
}

func (codec SlackCodec) Marshal(v interface{}) (data []byte, payloadType byte, err error) {
	data, err = json.Marshal(v)
	if err != nil {
		return nil, 0, err
	}
	return data, websocket.TextFrame, nil
}

func (c *Client) currentConn() *websocket.Conn {
	c.connLock.Lock()
	defer c.connLock.Unlock()
	return c.conn
}

func (c *Client) pump() {
	for {
		conn := c.currentConn()
		if conn == nil {
			c.reconnect()
			continue
		}

		msg := make(slack.RTMRawMessage)
		conn.SetReadDeadline(time.Now().Add(reconnectOnIdleTime))
		err := c.codec.Receive(conn, &msg)
		if err != nil {
			util.LogWarn("Websocket read error, reconnecting:", err)
			c.reconnect()
			continue
		}

		c.resetPingTimer()
		switch msg.Type() {
		case "goodbye":
			util.LogWarn("Slack said goodbye, reconnecting")
			c.reconnect()
			continue
		case "pong":
			continue
		}
		if _, ok := msg["reply_to"]; ok {
			replyToID := msg.ReplyTo()
			c.sendCbsLock.Lock()
			ch, ok := c.sendCbs[replyToID]
			delete(c.sendCbs, replyToID)
			c.sendCbsLock.Unlock()
			if ok {
				ch <- msg
			}
			continue
		}
		c.dispatchMessage(msg)
	}
}

// reconnect replaces the connection, retrying with backoff until Slack
// takes us back. Only pump calls it.
func (c *Client) reconnect() {
	c.Close()

	delay := time.Second
	for {
		conn, err := c.connect()
		if err == nil {
			c.connLock.Lock()
			c.conn = conn
			c.connLock.Unlock()
			util.LogGood("Reconnected to Slack")
			return
		}
		util.LogWarnf("RTM reconnect failed, retrying in %v: %s", delay, err)
		time.Sleep(delay)
		delay *= 2
		if delay > maxReconnectDelay {
			delay = maxReconnectDelay
		}
	}
}

func (c *Client) pumpSend() {
	for bytes := range c.sendChan {
		conn := c.currentConn()
		if conn == nil {
			util.LogWarn("Websocket not connected, dropping outgoing message")
			continue
		}
		w, err := conn.NewFrameWriter(websocket.TextFrame)
		if err != nil {
			util.LogWarn("Websocket write error:", err)
			continue
		}
		_, err = w.Write(bytes)
		if err == nil {
			err = w.Close()
		}
		if err != nil {
			util.LogWarn("Websocket write error:", err)
		}
	}
}

func (c *Client) pinger() {
	for range c.pingTimer.C {
		if c.currentConn() == nil {
			// already reconnecting
			c.resetPingTimer()
			continue
		}

		msg := make(slack.RTMRawMessage)
		msg["type"] = "ping"
		msg["time"] = time.Now().Unix()
		bytes, err := json.Marshal(msg)
		if err == nil {
			c.sendChan <- bytes
		}
		c.resetPingTimer()
	}
}

func (c *Client) resetPingTimer() {
	c.pingTimer.Reset(pingOnIdleTime)
}

func (c *Client) dispatchMessage(msg slack.RTMRawMessage) {
	c.msgCbsLock.RLock()
	defer c.msgCbsLock.RUnlock()

	for _, v := range c.msgCbs {
		if !v.matches(msg) {
			continue
		}
		go dispatchOne(v, msg)
	}
}

func (h messageHandler) matches(msg slack.RTMRawMessage) bool {
	if h.MsgType == MsgTypeAll {
		return true
	}
	if msg.Type() != h.MsgType {
		return false
	}
	if len(h.SubtypesOnly) == 0 {
		return true
	}
	subtype := msg.Subtype()
	for _, v := range h.SubtypesOnly {
		if subtype == v {
			return true
		}
	}
	return false
}

func dispatchOne(handler messageHandler, msg slack.RTMRawMessage) {
	defer func() {
		if err := recover(); err != nil {
			util.LogError(errors.Errorf("A message handler callback panicked: %+v", err))
		}
	}()

	handler.Cb(msg)
}
