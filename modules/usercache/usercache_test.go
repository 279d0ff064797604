package usercache

import (
	"testing"

	"github.com/pkg/errors"

	"github.com/pitchside/pitchbot/slack"
)

type countingLookup struct {
	calls map[slack.UserID]int
	users map[slack.UserID]*slack.User
	err   error
}

func (c *countingLookup) lookup(user slack.UserID) (*slack.User, error) {
	c.calls[user]++
	if c.err != nil {
		return nil, c.err
	}
	return c.users[user], nil
}

func newCountingLookup() *countingLookup {
	return &countingLookup{
		calls: make(map[slack.UserID]int),
		users: map[slack.UserID]*slack.User{
			"U1": {ID: "U1", Name: "amy"},
			"U2": {ID: "U2", Name: ""},
		},
	}
}

func TestResolveCaches(t *testing.T) {
	fake := newCountingLookup()
	mod := New(fake.lookup)

	for i := 0; i < 3; i++ {
		name, err := mod.Resolve("U1")
		if err != nil {
			t.Fatalf("Resolve: %v", err)
		}
		if name != "amy" {
			t.Errorf("Resolve(U1) = %q, want amy", name)
		}
	}
	if fake.calls["U1"] != 1 {
		t.Errorf("lookup called %d times, want 1", fake.calls["U1"])
	}
}

func TestResolveErrors(t *testing.T) {
	testCases := []struct {
		name       string
		user       slack.UserID
		err        error
		lookupErr  bool
		wantCalls  int
		secondCall bool
	}{
		{name: "empty name", user: "U2", lookupErr: true, wantCalls: 2, secondCall: true},
		{name: "unknown user", user: "U3", lookupErr: true, wantCalls: 1},
		{name: "transport", user: "U1", err: errors.New("connection refused"), wantCalls: 2, secondCall: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			fake := newCountingLookup()
			fake.err = tc.err
			mod := New(fake.lookup)

			_, err := mod.Resolve(tc.user)
			if err == nil {
				t.Fatal("expected an error")
			}
			_, isLookup := errors.Cause(err).(LookupError)
			if isLookup != tc.lookupErr {
				t.Errorf("LookupError = %v, want %v (err: %v)", isLookup, tc.lookupErr, err)
			}
			if tc.err != nil && errors.Cause(err) != tc.err {
				t.Errorf("cause = %v, want %v", errors.Cause(err), tc.err)
			}

			// failures are not cached
			if tc.secondCall {
				mod.Resolve(tc.user)
				if fake.calls[tc.user] != tc.wantCalls {
					t.Errorf("lookup called %d times, want %d", fake.calls[tc.user], tc.wantCalls)
				}
			}
		})
	}
}
