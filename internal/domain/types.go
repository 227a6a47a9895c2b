package domain

// Snap is one pending received snap, mapped from the single-letter wire keys
// of the conversation feed.
type Snap struct {
	ID        string `json:"id"`
	Sender    string `json:"sn"`
	Recipient string `json:"rp"`
	MediaType int    `json:"m"`  // server-declared type; informational only
	Timestamp int64  `json:"ts"` // ms epoch
	SentAt    int64  `json:"sts"`
	Status    int    `json:"st"`
}

// Conversation is one entry of the conversation feed with its pending snaps.
type Conversation struct {
	ID           string   `json:"id"`
	Participants []string `json:"participants"`
	Pending      []Snap   `json:"pending_received_snaps"`
}

// Friend is one entry of the friends list.
type Friend struct {
	Name      string `json:"name"`
	Display   string `json:"display"`
	Type      int    `json:"type"` // 0 confirmed, 1 unconfirmed, 2 blocked
	TS        int64  `json:"ts"`
	Direction string `json:"direction,omitempty"`
}

// Friend types on the wire.
const (
	FriendTypeConfirmed   = 0
	FriendTypeUnconfirmed = 1
	FriendTypeBlocked     = 2
)

// Story is one friend story with the material needed to decrypt its blob.
type Story struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	MediaID   string `json:"media_id"`
	MediaKey  string `json:"media_key"` // base64
	MediaIV   string `json:"media_iv"`  // base64
	MediaType int    `json:"media_type"`
	Timestamp int64  `json:"timestamp"`
}

// PrivacySetting selects who may send the user snaps.
type PrivacySetting int

const (
	PrivacyEveryone PrivacySetting = 0
	PrivacyFriends  PrivacySetting = 1
)
