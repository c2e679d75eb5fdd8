package domain

import (
	"context"
	"testing"
	"time"
)

func TestUser_RefreshToken(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		setup  func(u *User)
		token  string
		expect bool
	}{
		{
			name:   "no token stored",
			setup:  func(u *User) {},
			token:  "abc",
			expect: false,
		},
		{
			name:   "matching and unexpired",
			setup:  func(u *User) { u.SetRefreshToken("abc", now.Add(time.Hour)) },
			token:  "abc",
			expect: true,
		},
		{
			name:   "mismatch",
			setup:  func(u *User) { u.SetRefreshToken("abc", now.Add(time.Hour)) },
			token:  "abd",
			expect: false,
		},
		{
			name:   "expiry equal to now",
			setup:  func(u *User) { u.SetRefreshToken("abc", now) },
			token:  "abc",
			expect: false,
		},
		{
			name: "cleared",
			setup: func(u *User) {
				u.SetRefreshToken("abc", now.Add(time.Hour))
				u.ClearRefreshToken()
			},
			token:  "",
			expect: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := &User{}
			tt.setup(u)
			if got := u.HasValidRefreshToken(tt.token, now); got != tt.expect {
				t.Errorf("HasValidRefreshToken() = %v, want %v", got, tt.expect)
			}
			if (u.RefreshToken == "") != (u.RefreshTokenExpiresAt == nil) {
				t.Error("refresh token and expiry must be set or cleared together")
			}
		})
	}
}

func TestAuditEvent_Builders(t *testing.T) {
	cc := &ClientContext{IPAddress: "10.0.0.1", UserAgent: "curl/8"}
	ctx := WithClientContext(context.Background(), cc)

	event := NewAuditEvent(UserLoginFailureEvent, "u-1").
		WithEmail("ann@x.com").
		WithClientContext(ClientContextFrom(ctx)).
		WithMetadata("reason", "bad_password").
		WithError("Invalid login attempt.")

	if event.Success {
		t.Error("expected event to be marked failed")
	}
	if event.IPAddress != "10.0.0.1" || event.UserAgent != "curl/8" {
		t.Errorf("client context not applied: %+v", event)
	}
	if event.Metadata["reason"] != "bad_password" {
		t.Errorf("metadata not set: %v", event.Metadata)
	}
	if ClientContextFrom(context.Background()) != nil {
		t.Error("expected nil client context on bare context")
	}
}
