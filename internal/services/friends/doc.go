// Package friends manages the friends list.
//
// The friend actions return no structured status, only a human-readable
// message, so success is judged from the message text the official client
// also checks.
package friends
