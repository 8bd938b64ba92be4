package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yuchialin/tripledger/internal/ledger"
)

func membersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "members",
		Short: "Show or change a ledger's member roster",
		RunE:  runMembersList,
	}

	cmd.PersistentFlags().String("ledger", "", "ledger name")

	add := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a member to the session roster",
		Long: `Add a member for this session. The ledger's persisted member list is
not rewritten; update the management sheet to make the change stick.`,
		Args: cobra.ExactArgs(1),
		RunE: runMembersAdd,
	}

	remove := &cobra.Command{
		Use:   "remove <name>",
		Short: "Remove a member from the session roster",
		Long: `Remove a member for this session. The last member cannot be removed;
historical rows naming the member keep working and show the raw name.`,
		Args: cobra.ExactArgs(1),
		RunE: runMembersRemove,
	}

	cmd.AddCommand(add)
	cmd.AddCommand(remove)

	return cmd
}

func runMembersList(cmd *cobra.Command, _ []string) error {
	s, err := memberSession(cmd)
	if err != nil {
		return err
	}
	printRoster(s)
	return nil
}

func runMembersAdd(cmd *cobra.Command, args []string) error {
	s, err := memberSession(cmd)
	if err != nil {
		return err
	}

	m, err := s.AddMember(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("Added %s to the session roster.\n", m.Name)
	printRoster(s)
	return nil
}

func runMembersRemove(cmd *cobra.Command, args []string) error {
	s, err := memberSession(cmd)
	if err != nil {
		return err
	}

	if err := s.RemoveMember(args[0]); err != nil {
		return err
	}

	fmt.Printf("Removed %s from the session roster.\n", args[0])
	printRoster(s)
	return nil
}

func memberSession(cmd *cobra.Command) (*ledger.Session, error) {
	name, _ := cmd.Flags().GetString("ledger")
	return openSession(cmd.Context(), name)
}

func printRoster(s *ledger.Session) {
	for _, m := range s.Roster.Members {
		marker := " "
		if m.ID == s.Roster.ActiveID {
			marker = "*"
		}
		fmt.Printf("%s %s\n", marker, m.Name)
	}
}
