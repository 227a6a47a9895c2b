package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bramgg/snapy/internal/domain"
)

func friendsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "friends",
		Short: "Manage the friends list",
	}
	cmd.AddCommand(
		friendsListCmd(), friendsBestCmd(), friendsBlockedCmd(),
		friendActionCmd("add", "Send a friend request", func(ctx context.Context, w friendActions, s *domain.Session, u string) error {
			return w.Add(ctx, s, u)
		}),
		friendActionCmd("delete", "Remove a friend", func(ctx context.Context, w friendActions, s *domain.Session, u string) error {
			return w.Delete(ctx, s, u)
		}),
		friendActionCmd("block", "Block a user", func(ctx context.Context, w friendActions, s *domain.Session, u string) error {
			return w.Block(ctx, s, u)
		}),
		friendActionCmd("unblock", "Unblock a user", func(ctx context.Context, w friendActions, s *domain.Session, u string) error {
			return w.Unblock(ctx, s, u)
		}),
	)
	return cmd
}

type friendActions = domain.FriendService

func friendsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List friends",
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := wire()
			if err != nil {
				return err
			}
			session, err := currentSession(w)
			if err != nil {
				return err
			}
			list, err := w.Friends.List(cmd.Context(), session)
			if err != nil {
				return err
			}
			for _, f := range list {
				if f.Display != "" && f.Display != f.Name {
					fmt.Printf("%s (%s)\n", f.Name, f.Display)
				} else {
					fmt.Println(f.Name)
				}
			}
			return saveSession(w, session)
		},
	}
}

func friendsBestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "best",
		Short: "List best friends",
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := wire()
			if err != nil {
				return err
			}
			session, err := currentSession(w)
			if err != nil {
				return err
			}
			best, err := w.Friends.Best(cmd.Context(), session)
			if err != nil {
				return err
			}
			for _, name := range best {
				fmt.Println(name)
			}
			return nil
		},
	}
}

func friendsBlockedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "blocked",
		Short: "List blocked users",
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := wire()
			if err != nil {
				return err
			}
			session, err := currentSession(w)
			if err != nil {
				return err
			}
			blocked, err := w.Friends.Blocked(cmd.Context(), session)
			if err != nil {
				return err
			}
			for _, f := range blocked {
				fmt.Println(f.Name)
			}
			return saveSession(w, session)
		},
	}
}

func friendActionCmd(verb, short string, run func(context.Context, friendActions, *domain.Session, string) error) *cobra.Command {
	return &cobra.Command{
		Use:   verb + " <username>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := wire()
			if err != nil {
				return err
			}
			session, err := currentSession(w)
			if err != nil {
				return err
			}
			if err := run(cmd.Context(), w.Friends, session, args[0]); err != nil {
				return err
			}
			fmt.Println("ok")
			return nil
		},
	}
}
