package domain

import (
	"context"

	"golang.org/x/oauth2"

	"github.com/bramgg/snapy/internal/media"
)

// SecondaryTokenSource produces a secondary-provider token valid at the
// instant of the call, refreshing lazily behind the scenes.
type SecondaryTokenSource interface {
	TokenContext(ctx context.Context) (*oauth2.Token, error)
}

// AuthService logs in, restores and tears down sessions.
type AuthService interface {
	Login(ctx context.Context, username, password string) (*Session, error)
	Restore(ctx context.Context, username, bearerToken string) (*Session, error)
	Logout(ctx context.Context, s *Session) error
	UpdatePrivacy(ctx context.Context, s *Session, p PrivacySetting) error
}

// SnapService fetches the feed and decodes snap and story blobs.
type SnapService interface {
	Conversations(ctx context.Context, s *Session) ([]Conversation, error)
	Pending(ctx context.Context, s *Session) ([]Snap, error)
	Blob(ctx context.Context, s *Session, snapID string) (media.Blob, error)
	FriendStories(ctx context.Context, s *Session) ([]Story, error)
	StoryBlob(ctx context.Context, s *Session, st Story) (media.Blob, error)
	MarkViewed(ctx context.Context, s *Session, snapID string, seconds int) error
	MarkScreenshot(ctx context.Context, s *Session, snapID string) error
	ClearFeed(ctx context.Context, s *Session) error
}

// FriendService manages the friends list.
type FriendService interface {
	List(ctx context.Context, s *Session) ([]Friend, error)
	Best(ctx context.Context, s *Session) ([]string, error)
	Blocked(ctx context.Context, s *Session) ([]Friend, error)
	Add(ctx context.Context, s *Session, username string) error
	Delete(ctx context.Context, s *Session, username string) error
	Block(ctx context.Context, s *Session, username string) error
	Unblock(ctx context.Context, s *Session, username string) error
}

// PublishService uploads media and sends it to recipients.
type PublishService interface {
	Send(ctx context.Context, s *Session, recipients []string, blob []byte, seconds int) error
}

// SessionStore persists sessions across runs so a restore does not need to
// re-run the login handshake.
type SessionStore interface {
	Save(passphrase string, s Session) error
	Load(passphrase string) (Session, bool, error)
	Clear() error
}
