package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vancomm/minegrid/internal/mines"
	"github.com/vancomm/minegrid/internal/records"
)

var (
	bestParams string
	bestLimit  int
)

func init() {
	recordsCmd := &cobra.Command{
		Use:   "records",
		Short: "List finished rounds",
		Long: `List finished rounds, oldest first, or the fastest wins for a board.

Examples:
  minegrid records
  minegrid records --best 16:0.16 -n 10`,
		RunE: runRecords,
	}

	recordsCmd.Flags().StringVar(&bestParams, "best", "", "Only the fastest wins for size:density")
	recordsCmd.Flags().IntVarP(&bestLimit, "number", "n", 10, "Number of wins to list with --best")

	rootCmd.AddCommand(recordsCmd)
}

func runRecords(cmd *cobra.Command, args []string) error {
	if recordsPath == "" {
		return errors.New("no records file given")
	}
	book, err := records.Open(recordsPath)
	if err != nil {
		return err
	}
	defer book.Close()

	var entries []records.Entry
	if bestParams != "" {
		params, err := mines.ParseParams(bestParams)
		if err != nil {
			return err
		}
		entries, err = book.Best(*params, bestLimit)
		if err != nil {
			return err
		}
	} else {
		entries, err = book.Entries()
		if err != nil {
			return err
		}
	}

	if len(entries) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "no records yet")
		return nil
	}
	fmt.Fprint(cmd.OutOrStdout(), records.String(entries))
	return nil
}
