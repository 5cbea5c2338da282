package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/epirename/epirename/pkg/epname"
)

var parseCmd = &cobra.Command{
	Use:   "parse <filename>...",
	Short: "Parse filenames locally and show what would be extracted",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)
}

func runParse(cmd *cobra.Command, args []string) error {
	for _, name := range args {
		base := filepath.Base(name)
		ext := filepath.Ext(base)
		stem := strings.TrimSuffix(base, ext)

		ex := epname.Parse(stem)
		fmt.Printf("%s\n", base)
		if ex.HasNumber() {
			fmt.Printf("  number:     %d (%s, confidence %.2f)\n", *ex.Number, ex.Method, ex.Confidence)
		} else {
			fmt.Println("  number:     none")
		}
		if ex.Season != nil && ex.Episode != nil {
			fmt.Printf("  season:     %d  episode: %d\n", *ex.Season, *ex.Episode)
		}
		fmt.Printf("  title:      %s\n", epname.CleanTitle(stem))

		v := epname.ValidateFilename(base, "")
		if !v.OK {
			fmt.Printf("  invalid:    %s\n", v.Problem)
		}
		for _, w := range v.Warnings {
			fmt.Printf("  warning:    %s\n", w)
		}
	}
	return nil
}
