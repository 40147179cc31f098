package commands

import (
	"fmt"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/seefood/mooring/pkg/bootstrap"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show which bootstrap steps are already satisfied",
	Long: `Show which bootstrap steps are already satisfied.

Evaluates every step's satisfaction predicate without applying anything.
Useful to inspect a deployment before running 'mooring up'.`,
	RunE: runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	seq := bootstrap.NewSequence(bootstrap.FromConfig(cfg)...)
	results, err := seq.Status(cmd.Context())
	if err != nil {
		return err
	}

	printResults(cmd, results)
	return nil
}

// printResults renders step outcomes as a table on the command's stdout.
func printResults(cmd *cobra.Command, results []bootstrap.Result) {
	table := tablewriter.NewWriter(cmd.OutOrStdout())
	table.SetHeader([]string{"Step", "State", "Optional", "Detail"})
	table.SetBorder(false)
	table.SetAutoWrapText(false)

	for _, r := range results {
		optional := ""
		if r.Optional {
			optional = "yes"
		}
		detail := ""
		if r.Err != nil {
			detail = r.Err.Error()
		} else if r.Elapsed > 0 {
			detail = r.Elapsed.Round(time.Millisecond).String()
		}
		table.Append([]string{r.Name, string(r.State), optional, detail})
	}

	table.Render()
	fmt.Fprintln(cmd.OutOrStdout())
}
