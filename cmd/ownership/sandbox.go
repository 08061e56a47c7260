package main

import (
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/wippyai/owned/engine"
)

func (app *App) sandboxCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sandbox <file.wasm>",
		Short: "Compile a wasm module inside an owned runtime",
		Long: `Compile a core WebAssembly module and list its exported functions.

The runtime and the compiled module are each owned by a single handle and
released when the command returns.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", args[0], err)
			}

			ctx := cmd.Context()
			rt := engine.New(ctx, &engine.Config{MemoryLimitPages: app.config.MemoryLimitPages})
			defer rt.Drop()

			mod, err := rt.Get().Compile(ctx, data)
			if err != nil {
				return err
			}
			defer mod.Drop()

			out := cmd.OutOrStdout()
			p := painter{enabled: app.config.colorEnabled(out)}

			name := mod.Get().Name()
			if name == "" {
				name = args[0]
			}
			fmt.Fprintln(out, p.render(titleStyle, name))

			table := tablewriter.NewWriter(out)
			table.Header([]string{"#", "Export"})
			for i, export := range mod.Get().Exports() {
				if err := table.Append([]string{fmt.Sprint(i), export}); err != nil {
					return err
				}
			}
			return table.Render()
		},
	}

	cmd.Flags().Uint32Var(&app.config.MemoryLimitPages, "memory-limit-pages", 0, "Maximum memory per instance in 64KiB pages (0 = default)")
	return cmd
}
