// Package usercache resolves Slack user IDs to user names. Names are fetched
// once with users.info and kept for the lifetime of the process.
package usercache

import (
	"fmt"

	"github.com/patrickmn/go-cache"
	"github.com/pkg/errors"

	"github.com/pitchside/pitchbot"
	"github.com/pitchside/pitchbot/slack"
)

type API interface {
	pitchbot.Module

	Resolve(user slack.UserID) (string, error)
}

var _ API = &UserCacheModule{}

// ---

func init() {
	pitchbot.RegisterModule(NewUserCacheModule)
}

const Identifier = "usercache"

// LookupFunc fetches a user from the chat platform.
type LookupFunc func(user slack.UserID) (*slack.User, error)

// LookupError means the platform answered but gave no usable name.
type LookupError struct {
	User   slack.UserID
	Reason string
}

func (e LookupError) Error() string {
	return fmt.Sprintf("could not resolve user %s: %s", e.User, e.Reason)
}

type UserCacheModule struct {
	lookup LookupFunc
	names  *cache.Cache
}

func NewUserCacheModule(t pitchbot.Team) pitchbot.Module {
	return New(t.UserInfo)
}

// New returns a cache that calls lookup on every miss.
func New(lookup LookupFunc) *UserCacheModule {
	return &UserCacheModule{
		lookup: lookup,
		names:  cache.New(cache.NoExpiration, 0),
	}
}

func (mod *UserCacheModule) Identifier() pitchbot.ModuleID {
	return Identifier
}

func (mod *UserCacheModule) Load(t pitchbot.Team) {
}

func (mod *UserCacheModule) Enable(t pitchbot.Team) {
}

func (mod *UserCacheModule) Disable(t pitchbot.Team) {
}

// ---

// Resolve returns the user name of the given user ID.
func (mod *UserCacheModule) Resolve(user slack.UserID) (string, error) {
	if name, ok := mod.names.Get(string(user)); ok {
		return name.(string), nil
	}

	info, err := mod.lookup(user)
	if err != nil {
		return "", errors.Wrap(err, "usercache")
	}
	if info == nil {
		return "", LookupError{User: user, Reason: "no user returned"}
	}
	if info.Name == "" {
		return "", LookupError{User: user, Reason: "user has no name"}
	}

	mod.names.Set(string(user), info.Name, cache.NoExpiration)
	return info.Name, nil
}
