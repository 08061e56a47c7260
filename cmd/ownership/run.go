package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/wippyai/owned/scenario"
)

func (app *App) runCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [script]",
		Short: "Run a scenario script",
		Long: `Run a scenario script and print its trace.

Without an argument the built-in scenario runs. Scripts may be YAML
(.yaml, .yml), TOML (.toml) or one command per line.

After the last step every remaining handle is dropped in reverse
declaration order. The command fails if any value was destroyed more
than once or never.

Examples:
  ownership run
  ownership run transfer.yaml
  ownership run --continue broken.txt`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			script := scenario.Default()
			if len(args) == 1 {
				var err error
				script, err = scenario.Load(args[0])
				if err != nil {
					return err
				}
			}

			var opts []scenario.Option
			if app.config.ContinueOnError {
				opts = append(opts, scenario.ContinueOnError())
			}

			out := cmd.OutOrStdout()
			p := painter{enabled: app.config.colorEnabled(out)}

			report, runErr := scenario.Run(script, opts...)
			if err := app.printReport(out, p, report); err != nil {
				return err
			}
			if runErr != nil {
				return runErr
			}
			if !report.OK() {
				return fmt.Errorf("scenario %q: %d leaked, %d destroyed more than once, %d failed steps",
					report.Name, len(report.Leaked), len(report.Violations), len(report.Errors))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&app.config.ContinueOnError, "continue", false, "Record failing steps and keep going")
	return cmd
}

func (app *App) printReport(w io.Writer, p painter, report *scenario.Report) error {
	fmt.Fprintln(w, p.render(titleStyle, report.Name))
	for _, e := range report.Trace {
		fmt.Fprintln(w, p.event(e))
	}
	fmt.Fprintln(w)

	table := tablewriter.NewWriter(w)
	table.Header([]string{"ID", "X", "Destroyed", "Status"})

	for _, r := range report.Records {
		if err := table.Append([]string{
			"#" + strconv.FormatUint(r.ID, 10),
			strconv.Itoa(r.X),
			strconv.Itoa(r.Destroyed),
			recordStatus(r),
		}); err != nil {
			return err
		}
	}
	if err := table.Render(); err != nil {
		return err
	}

	summary := fmt.Sprintf("%d values, %d leaked, %d double destroyed",
		len(report.Records), len(report.Leaked), len(report.Violations))
	if report.OK() {
		fmt.Fprintln(w, p.render(resultStyle, summary))
	} else {
		fmt.Fprintln(w, p.render(errorStyle, summary))
	}
	return nil
}

func recordStatus(r scenario.Record) string {
	switch r.Destroyed {
	case 0:
		return "leaked"
	case 1:
		return "ok"
	default:
		return "destroyed twice"
	}
}
