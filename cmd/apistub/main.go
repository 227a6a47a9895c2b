package main

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"github.com/bramgg/snapy/internal/api"
	"github.com/bramgg/snapy/internal/crypto"
	"github.com/bramgg/snapy/internal/domain"
	"github.com/bramgg/snapy/internal/protocol/sign"
)

const (
	stubGauthToken   = "stub-gauth-token"
	stubMasterToken  = "stub-master-token"
	stubDeviceID     = "stub-dtoken1i"
	stubDeviceSecret = "stub-dtoken1v"
)

type stub struct {
	mu       sync.Mutex
	username string
	password string
	bearer   string

	conversations []domain.Conversation
	friends       []domain.Friend
	snapBlobs     map[string][]byte
	stories       []domain.Story
	storyBlobs    map[string][]byte
	uploads       map[string][]byte
}

func newStub(username, password string) (*stub, error) {
	s := &stub{
		username:   username,
		password:   password,
		snapBlobs:  make(map[string][]byte),
		storyBlobs: make(map[string][]byte),
		uploads:    make(map[string][]byte),
	}
	if err := s.seed(); err != nil {
		return nil, err
	}
	return s, nil
}

// seed installs fixture friends, one pending snap and one story, with blobs
// encrypted the way the live service encrypts them.
func (s *stub) seed() error {
	jpeg := []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F'}
	encrypted, err := crypto.EncryptBlob(jpeg)
	if err != nil {
		return err
	}
	s.snapBlobs["snap-fixture-1"] = encrypted
	s.conversations = []domain.Conversation{{
		ID:           "conv-1",
		Participants: []string{s.username, "fixturefriend"},
		Pending: []domain.Snap{{
			ID:        "snap-fixture-1",
			Sender:    "fixturefriend",
			Recipient: s.username,
			MediaType: 0,
			Timestamp: time.Now().UnixMilli(),
			SentAt:    time.Now().UnixMilli(),
		}},
	}}
	s.friends = []domain.Friend{
		{Name: "fixturefriend", Display: "Fixture Friend", Type: domain.FriendTypeConfirmed},
		{Name: "pendingpal", Type: domain.FriendTypeUnconfirmed},
		{Name: "blockedguy", Type: domain.FriendTypeBlocked},
	}

	key := []byte("storykey90123456")
	iv := []byte("storyiv890123456")
	storyCT, err := crypto.EncryptStory(jpeg, key, iv)
	if err != nil {
		return err
	}
	s.storyBlobs["media-story-1"] = storyCT
	s.stories = []domain.Story{{
		ID:        "story-fixture-1",
		Username:  "fixturefriend",
		MediaID:   "media-story-1",
		MediaKey:  base64.StdEncoding.EncodeToString(key),
		MediaIV:   base64.StdEncoding.EncodeToString(iv),
		Timestamp: time.Now().UnixMilli(),
	}}
	return nil
}

func main() {
	addr := flag.String("addr", ":8080", "listen address")
	user := flag.String("user", "demo", "account username")
	pass := flag.String("pass", "demo", "account password")
	flag.Parse()

	log := logrus.StandardLogger()
	st, err := newStub(*user, *pass)
	if err != nil {
		log.Fatal(err)
	}

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Post("/auth", st.handleAuth)

	r.Group(func(r chi.Router) {
		r.Use(st.requireGauth)
		r.Post("/loq/device_id", st.handleDeviceID)
		r.Post("/loq/login", st.handleLogin)

		r.Group(func(r chi.Router) {
			r.Use(st.requireBearer)
			r.Post("/loq/all_updates", st.handleUpdates)
			r.Post("/bq/blob", st.handleBlob)
			r.Post("/bq/stories", st.handleStories)
			r.Post("/bq/story_blob", st.handleStoryBlob)
			r.Post("/bq/friend", st.handleFriend)
			r.Post("/bq/bests", st.handleBests)
			r.Post("/bq/update_snaps", st.handleUpdateSnaps)
			r.Post("/ph/upload", st.handleUpload)
			r.Post("/loq/send", st.handleSend)
			r.Post("/ph/settings", st.handleSettings)
			r.Post("/ph/clear", st.handleClear)
			r.Post("/ph/logout", st.handleLogout)
		})
	})

	log.Infof("apistub listening on %s (account %s)", *addr, *user)
	log.Fatal(http.ListenAndServe(*addr, r))
}

// ---------- middleware ----------

func (s *stub) requireGauth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("gauth") != stubGauthToken {
			http.Error(w, "bad or missing gauth", http.StatusUnauthorized)
			return
		}
		if r.URL.Query().Get("now") == "" {
			http.Error(w, "missing now", http.StatusBadRequest)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *stub) requireBearer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		bearer := s.bearer
		s.mu.Unlock()
		if bearer == "" || r.Header.Get("Authorization") != "Bearer "+bearer {
			http.Error(w, "bad or missing bearer token", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ---------- identity provider ----------

func (s *stub) handleAuth(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if r.PostForm.Get("Email") == "" {
		fmt.Fprintln(w, "Error=BadAuthentication")
		return
	}
	if r.PostForm.Get("service") == "ac2dm" {
		fmt.Fprintf(w, "Token=%s\n", stubMasterToken)
		return
	}
	fmt.Fprintf(w, "Auth=%s\n", stubGauthToken)
	fmt.Fprintf(w, "Expiry=%d\n", time.Now().Add(time.Hour).Unix())
}

// ---------- login pipeline ----------

func (s *stub) handleDeviceID(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, api.DeviceToken{ID: stubDeviceID, Secret: stubDeviceSecret})
}

func (s *stub) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	username := r.PostForm.Get("username")
	password := r.PostForm.Get("password")
	ts := r.PostForm.Get("timestamp")
	reqToken := r.PostForm.Get("req_token")

	reject := func(msg string) {
		writeJSON(w, api.UpdatesEnvelope{Message: msg})
	}
	if reqToken != sign.RequestToken(sign.StaticToken, ts) {
		reject("Bad request token")
		return
	}
	if r.PostForm.Get("dtoken1i") != stubDeviceID {
		reject("Unknown device")
		return
	}
	want := sign.Signature(stubDeviceSecret, username, password, ts, reqToken)
	if r.PostForm.Get("dsig") != want {
		reject("Bad request signature")
		return
	}
	if r.Header.Get("X-Snapchat-Client-Auth") != sign.ClientAuthHeader(username, password, ts) {
		reject("Bad client auth")
		return
	}
	if username != s.username || password != s.password {
		reject("Invalid username or password")
		return
	}

	s.mu.Lock()
	s.bearer = newToken()
	bearer := s.bearer
	s.mu.Unlock()

	writeJSON(w, api.UpdatesEnvelope{
		Updates:       &api.Updates{Username: username, AuthToken: bearer, Friends: s.friends},
		Conversations: s.conversations,
	})
}

// ---------- feed ----------

func (s *stub) handleUpdates(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, api.UpdatesEnvelope{
		Updates:       &api.Updates{Username: s.username, AuthToken: s.bearer, Friends: s.friends},
		Conversations: s.conversations,
	})
}

func (s *stub) handleBlob(w http.ResponseWriter, r *http.Request) {
	_ = r.ParseForm()
	s.mu.Lock()
	blob, ok := s.snapBlobs[r.PostForm.Get("id")]
	s.mu.Unlock()
	if !ok {
		http.Error(w, "no such snap", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/octet-stream")
	_, _ = w.Write(blob)
}

func (s *stub) handleStories(w http.ResponseWriter, r *http.Request) {
	type storyEntry struct {
		Story domain.Story `json:"story"`
	}
	type friendEntry struct {
		Username string       `json:"username"`
		Stories  []storyEntry `json:"stories"`
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	byUser := make(map[string][]storyEntry)
	for _, st := range s.stories {
		byUser[st.Username] = append(byUser[st.Username], storyEntry{Story: st})
	}
	var out struct {
		FriendStories []friendEntry `json:"friend_stories"`
	}
	for user, entries := range byUser {
		out.FriendStories = append(out.FriendStories, friendEntry{Username: user, Stories: entries})
	}
	writeJSON(w, out)
}

func (s *stub) handleStoryBlob(w http.ResponseWriter, r *http.Request) {
	_ = r.ParseForm()
	s.mu.Lock()
	blob, ok := s.storyBlobs[r.PostForm.Get("story_id")]
	s.mu.Unlock()
	if !ok {
		http.Error(w, "no such story", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/octet-stream")
	_, _ = w.Write(blob)
}

func (s *stub) handleUpdateSnaps(w http.ResponseWriter, r *http.Request) {
	_ = r.ParseForm()
	var events []map[string]any
	if err := json.Unmarshal([]byte(r.PostForm.Get("events")), &events); err != nil {
		http.Error(w, "bad events payload", http.StatusBadRequest)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (s *stub) handleClear(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.conversations = nil
	s.mu.Unlock()
	w.WriteHeader(http.StatusOK)
}

// ---------- friends ----------

func (s *stub) handleFriend(w http.ResponseWriter, r *http.Request) {
	_ = r.ParseForm()
	friend := r.PostForm.Get("friend")
	s.mu.Lock()
	defer s.mu.Unlock()

	switch r.PostForm.Get("action") {
	case "add":
		s.friends = append(s.friends, domain.Friend{Name: friend, TS: time.Now().UnixMilli()})
		writeJSON(w, api.Message{Message: friend + " is now your friend!", Logged: true})
	case "delete":
		s.removeFriend(friend)
		writeJSON(w, api.Message{Message: friend + " was deleted from your friends", Logged: true})
	case "block":
		s.removeFriend(friend)
		s.friends = append(s.friends, domain.Friend{Name: friend, Type: domain.FriendTypeBlocked})
		writeJSON(w, api.Message{Message: friend + " was blocked", Logged: true})
	case "unblock":
		s.removeFriend(friend)
		s.friends = append(s.friends, domain.Friend{Name: friend})
		writeJSON(w, api.Message{Message: friend + " was unblocked", Logged: true})
	default:
		http.Error(w, "unknown action", http.StatusBadRequest)
	}
}

func (s *stub) removeFriend(name string) {
	out := s.friends[:0]
	for _, f := range s.friends {
		if f.Name != name {
			out = append(out, f)
		}
	}
	s.friends = out
}

func (s *stub) handleBests(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var best []string
	for _, f := range s.friends {
		if f.Type != domain.FriendTypeBlocked {
			best = append(best, f.Name)
		}
		if len(best) == 3 {
			break
		}
	}
	writeJSON(w, api.BestFriends{BestFriends: best})
}

// ---------- publish ----------

func (s *stub) handleUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	mediaID := r.PostForm.Get("media_id")
	f, _, err := r.FormFile("data")
	if err != nil {
		http.Error(w, "missing data part", http.StatusBadRequest)
		return
	}
	defer f.Close()
	buf, err := io.ReadAll(f)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	// Uploads arrive encrypted; reject anything that does not decrypt.
	if _, err := crypto.DecryptBlob(buf); err != nil {
		http.Error(w, "upload is not a valid encrypted blob", http.StatusBadRequest)
		return
	}
	s.mu.Lock()
	s.uploads[mediaID] = buf
	s.mu.Unlock()
	w.WriteHeader(http.StatusOK)
}

func (s *stub) handleSend(w http.ResponseWriter, r *http.Request) {
	_ = r.ParseForm()
	mediaID := r.PostForm.Get("media_id")
	var recipients []string
	if err := json.Unmarshal([]byte(r.PostForm.Get("recipients")), &recipients); err != nil || len(recipients) == 0 {
		http.Error(w, "bad recipients", http.StatusBadRequest)
		return
	}
	s.mu.Lock()
	_, ok := s.uploads[mediaID]
	s.mu.Unlock()
	if !ok {
		http.Error(w, "unknown media_id", http.StatusBadRequest)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// ---------- account ----------

func (s *stub) handleSettings(w http.ResponseWriter, r *http.Request) {
	_ = r.ParseForm()
	if r.PostForm.Get("action") != "updatePrivacy" {
		http.Error(w, "unknown action", http.StatusBadRequest)
		return
	}
	writeJSON(w, struct {
		Param  string `json:"param"`
		Logged bool   `json:"logged"`
	}{Param: r.PostForm.Get("privacySetting"), Logged: true})
}

func (s *stub) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.bearer = ""
	s.mu.Unlock()
	w.WriteHeader(http.StatusOK)
}

// ---------- helpers ----------

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func newToken() string {
	var b [16]byte
	_, _ = rand.Read(b[:])
	return hex.EncodeToString(b[:])
}
