package controller

import (
	"net/url"

	"github.com/pkg/errors"

	"github.com/pitchside/pitchbot/slack"
)

type userInfoResponse struct {
	User *slack.User `json:"user"`
}

// UserInfo fetches a user's profile with users.info. Callers that need the
// result more than once should go through the usercache module.
func (t *Team) UserInfo(user slack.UserID) (*slack.User, error) {
	form := url.Values{}
	form.Set("user", string(user))

	var resp userInfoResponse
	err := t.SlackAPIPostJSON("users.info", form, &resp)
	if err != nil {
		return nil, errors.Wrapf(err, "users.info(%s)", user)
	}
	if resp.User == nil {
		return nil, errors.Errorf("users.info(%s): no user in response", user)
	}
	return resp.User, nil
}
