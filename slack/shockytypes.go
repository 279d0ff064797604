package slack

import (
	"encoding/json"
)

type RTMRawMessage map[string]interface{}

const MsgFieldRawBytes = "_rawBytes"

func (m RTMRawMessage) Type() string         { q, _ := m["type"].(string); return q }
func (m RTMRawMessage) Okay() bool           { q, _ := m["ok"].(bool); return q }
func (m RTMRawMessage) Original() []byte     { q, _ := m[MsgFieldRawBytes].([]byte); return q }
func (m RTMRawMessage) Subtype() string      { q, _ := m["subtype"].(string); return q }
func (m RTMRawMessage) ChannelID() ChannelID { q, _ := m["channel"].(string); return ChannelID(q) }
func (m RTMRawMessage) UserID() UserID       { q, _ := m["user"].(string); return UserID(q) }
func (m RTMRawMessage) Text() string         { q, _ := m["text"].(string); return q }
func (m RTMRawMessage) MessageTS() MessageTS { q, _ := m["ts"].(string); return MessageTS(q) }
func (m RTMRawMessage) IsHidden() bool       { q, _ := m["hidden"].(bool); return q }
func (m RTMRawMessage) MessageID() MessageID {
	return MessageID{ChannelID: m.ChannelID(), MessageTS: m.MessageTS()}
}

func (m RTMRawMessage) StringField(field string) string {
	q, _ := m[field].(string)
	return q
}

func (m RTMRawMessage) ReplyTo() int {
	q, _ := m["reply_to"].(float64)
	return int(q)
}

// ReMarshal decodes the original bytes of the event into v.
func (m RTMRawMessage) ReMarshal(v interface{}) error {
	return json.Unmarshal(m.Original(), v)
}

func (m RTMRawMessage) String() string {
	bytes, err := json.MarshalIndent(m, "", "\t")
	if err != nil {
		panic(err)
	}
	return string(bytes)
}

// AssertText is true for messages a human typed, as opposed to edits,
// deletions and bot chatter.
func (m RTMRawMessage) AssertText() bool {
	return m.Type() == "message" && m.Subtype() == "" && !m.IsHidden()
}
