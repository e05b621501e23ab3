package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
)

func newDatesCmd() *cobra.Command {
	var selected string

	cmd := &cobra.Command{
		Use:   "dates",
		Short: "Show the navigation strip around today",
		RunE: func(cmd *cobra.Command, args []string) error {
			day, err := parseDay(selected)
			if err != nil {
				return err
			}
			if !day.IsKnown() {
				day = calendar.Today()
			}

			strip := calendar.DateStrip(day)
			if jsonOutput {
				return printJSON(strip)
			}

			header := fmt.Sprintf("prev %s  selected %s  next %s", calendar.Shift(day, -1), day, calendar.Shift(day, 1))
			if calendar.IsToday(day) {
				header += "  (today)"
			}
			fmt.Println(header)
			t := newTable(os.Stdout, "", "DATE", "LABEL", "DAY", "OFFSET")
			for _, d := range strip {
				marker := ""
				if d.Active {
					marker = "*"
				}
				t.row(marker, d.Key.String(), d.Label, strconv.Itoa(d.DayOfMonth), strconv.Itoa(d.Offset))
			}
			return t.flush()
		},
	}

	cmd.Flags().StringVar(&selected, "selected", "", "Highlighted day (YYYY-MM-DD, default today)")
	return cmd
}
