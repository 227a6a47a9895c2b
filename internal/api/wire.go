package api

import "github.com/bramgg/snapy/internal/domain"

// Wire shapes for API responses. Only the fields the client reads are
// declared; the server sends far more.

// Updates is the "updates_response" block. It accompanies both a login and a
// feed refresh, and may carry a fresh bearer token at any time.
type Updates struct {
	Username  string          `json:"username"`
	AuthToken string          `json:"auth_token"`
	Friends   []domain.Friend `json:"friends"`
	Bests     []string        `json:"bests"`
}

// UpdatesEnvelope is the common envelope of /loq/login and /loq/all_updates.
// On a rejected login the envelope carries only the server's message.
type UpdatesEnvelope struct {
	Updates       *Updates              `json:"updates_response"`
	Conversations []domain.Conversation `json:"conversations_response"`
	Message       string                `json:"message"`
	Status        int                   `json:"status"`
}

// DeviceToken is the identifier pair from /loq/device_id. The secret half
// keys the login signature.
type DeviceToken struct {
	ID     string `json:"dtoken1i"`
	Secret string `json:"dtoken1v"`
}

// FriendStories is the /bq/stories response.
type FriendStories struct {
	Friends []struct {
		Username string `json:"username"`
		Stories  []struct {
			Story storyWire `json:"story"`
		} `json:"stories"`
	} `json:"friend_stories"`
}

type storyWire struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	MediaID   string `json:"media_id"`
	MediaKey  string `json:"media_key"`
	MediaIV   string `json:"media_iv"`
	MediaType int    `json:"media_type"`
	Timestamp int64  `json:"timestamp"`
}

// Stories flattens the response into domain stories.
func (fs *FriendStories) Stories() []domain.Story {
	var out []domain.Story
	for _, f := range fs.Friends {
		for _, s := range f.Stories {
			w := s.Story
			out = append(out, domain.Story{
				ID:        w.ID,
				Username:  w.Username,
				MediaID:   w.MediaID,
				MediaKey:  w.MediaKey,
				MediaIV:   w.MediaIV,
				MediaType: w.MediaType,
				Timestamp: w.Timestamp,
			})
		}
	}
	return out
}

// Message is the minimal {message, logged} result of friend and settings
// actions. Success is judged from the message text; the wire has no
// structured status for these.
type Message struct {
	Message string `json:"message"`
	Logged  bool   `json:"logged"`
}

// BestFriends is the /bq/bests response.
type BestFriends struct {
	BestFriends []string `json:"best_friends"`
}
