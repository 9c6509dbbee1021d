package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mohankour/ValoraVault"
	"github.com/mohankour/ValoraVault/x/vault"
)

var (
	eventsSubject string
	eventsTags    bool
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Print the ledger audit log, oldest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var subject valora.Address
		if eventsSubject != "" {
			var err error
			if subject, err = resolveAddress(eventsSubject); err != nil {
				return err
			}
		}
		now, err := blockTime("")
		if err != nil {
			return err
		}

		a, closeStore, err := openApp()
		if err != nil {
			return err
		}
		defer closeStore()

		var events []vault.Event
		err = a.Query(now, func(ctx valora.Context, l *vault.Ledger) error {
			var err error
			if subject == nil {
				events, err = l.Events()
			} else {
				events, err = l.EventsBySubject(subject)
			}
			return err
		})
		if err != nil {
			return err
		}

		if !eventsTags {
			return printJSON(cmd, events)
		}
		for _, e := range events {
			pairs := make([]string, 0, 6)
			for _, tag := range e.Tags() {
				pairs = append(pairs, fmt.Sprintf("%s=%s", tag.Key, tag.Value))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d %s %s\n", e.Sequence, e.Time, strings.Join(pairs, " "))
		}
		return nil
	},
}

func init() {
	eventsCmd.Flags().StringVar(&eventsSubject, "subject", "", "only events mentioning this key name or address")
	eventsCmd.Flags().BoolVar(&eventsTags, "tags", false, "print one line of tags per event")
}
