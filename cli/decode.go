package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/tung362/votecatalog/api"
	"github.com/tung362/votecatalog/lobby"
)

func newDecodeCommand() *cobra.Command {
	var adopt bool
	cmd := &cobra.Command{
		Use:   "decode [file]",
		Short: "Decode a full-state rule book message against the local catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			msg, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			l, err := api.NewServer(api.ReadConfig(), lobby.ReferenceHost).BuildLobby()
			if err != nil {
				return err
			}
			return decodeRuleBook(cmd, l, msg, adopt)
		},
	}
	cmd.Flags().BoolVar(&adopt, "adopt", false, "also resolve the decoded rule book into poll results")
	return cmd
}

func decodeRuleBook(cmd *cobra.Command, l *lobby.Context, msg []byte, adopt bool) error {
	if _, err := l.ApplyRuleBook(msg); err != nil {
		return fmt.Errorf("decoding rule book: %w", err)
	}
	book, err := l.RuleBook()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, s := range l.Catalog().Selections() {
		choice := s.Choice(int(book.Values[s.GlobalIndex]))
		name := "<invalid>"
		if choice != nil {
			name = choice.LocalName
		}
		fmt.Fprintf(out, "%s = %s\n", s.GlobalName, name)
	}
	if !adopt {
		return nil
	}

	adoption, err := l.Adopt()
	if err != nil {
		return err
	}
	for _, key := range adoption.Snapshot.Keys() {
		p, _ := adoption.Snapshot.Poll(key)
		fmt.Fprintf(out, "poll %s bits %v\n", key, p.Mask.Indices())
	}
	if adoption.Mode != nil {
		fmt.Fprintf(out, "game mode %s\n", adoption.Mode.Name())
	}
	return nil
}
