package main

import (
	"encoding/json"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/sells-group/nap-audit/internal/match"
	"github.com/sells-group/nap-audit/internal/model"
)

var (
	matchBusiness  model.BusinessRecord
	matchCandidate model.CandidateRecord
)

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Classify one business against one directory listing",
	Long: `Compares a business with a directory candidate offline, without calling
any external API, and prints the field scores and status.

Example:
  nap-audit match --name "Joe's Pizza" --address "123 Main St, Springfield" \
    --candidate-name "Joe's Pizza LLC" --candidate-address "123 Main Street, Springfield, IL"`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := cfg.Validate("match"); err != nil {
			return err
		}
		r := match.New(cfg.Match).Match(matchBusiness, matchCandidate)
		return printJSON(os.Stdout, r)
	},
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func init() {
	f := matchCmd.Flags()
	f.StringVar(&matchBusiness.Name, "name", "", "business name")
	f.StringVar(&matchBusiness.Phone, "phone", "", "business phone")
	f.StringVar(&matchBusiness.Address, "address", "", "business address")
	f.StringVar(&matchCandidate.Name, "candidate-name", "", "directory name")
	f.StringVar(&matchCandidate.Phone, "candidate-phone", "", "directory phone")
	f.StringVar(&matchCandidate.Address, "candidate-address", "", "directory address")
	_ = matchCmd.MarkFlagRequired("name")
	rootCmd.AddCommand(matchCmd)
}
