package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kpaulsen/itemforge/internal/standards"
)

var standardsCmd = &cobra.Command{
	Use:   "standards",
	Short: "Browse the curriculum standards workbook",
}

var standardsListCmd = &cobra.Command{
	Use:   "list [grade]",
	Short: "List grades in the workbook, or units for one grade",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		wb, err := openWorkbook(cmd)
		if err != nil {
			return err
		}
		defer wb.Close()

		if len(args) == 0 {
			for _, g := range wb.Grades() {
				fmt.Println(g)
			}
			return nil
		}

		units, err := wb.Units(args[0])
		if err != nil {
			return err
		}
		for _, u := range units {
			fmt.Println(u)
		}
		return nil
	},
}

var standardsShowCmd = &cobra.Command{
	Use:   "show <grade> <unit>",
	Short: "Show the standards and will-do text for a grade and unit",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		wb, err := openWorkbook(cmd)
		if err != nil {
			return err
		}
		defer wb.Close()

		entry, err := wb.Lookup(args[0], args[1])
		if err != nil {
			return err
		}

		sep := strings.Repeat("─", 60)
		fmt.Println("Standards")
		fmt.Println(sep)
		fmt.Println(entry.Standards)
		fmt.Println()
		fmt.Println("Students Will Do")
		fmt.Println(sep)
		fmt.Println(entry.WillDo)
		return nil
	},
}

func openWorkbook(cmd *cobra.Command) (*standards.Workbook, error) {
	path, _ := cmd.Flags().GetString("file")
	return standards.Open(path)
}

func init() {
	standardsCmd.PersistentFlags().StringP("file", "f", "standards.xlsx", "Path to the standards workbook")

	standardsCmd.AddCommand(standardsListCmd)
	standardsCmd.AddCommand(standardsShowCmd)
}
