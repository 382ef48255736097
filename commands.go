package main

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/hashicorp/go-hclog"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/kndndrj/mysql-fdw/adapters"
	"github.com/kndndrj/mysql-fdw/config"
	"github.com/kndndrj/mysql-fdw/core"
	"github.com/kndndrj/mysql-fdw/core/format"
)

type application struct {
	log hclog.Logger
	out io.Writer
	mux *adapters.Mux
}

func newApplication() *application {
	return &application{
		log: hclog.New(&hclog.LoggerOptions{Name: "mysqlfdw", Output: os.Stderr}),
		out: os.Stdout,
		mux: new(adapters.Mux),
	}
}

// loadTable reads a definition file and wires it to its connector.
func (a *application) loadTable(path string) (*config.File, *core.ForeignTable, error) {
	file, err := config.Load(path)
	if err != nil {
		return nil, nil, err
	}

	connector, err := a.mux.GetConnector(file.Type)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w: %q", path, err, file.Type)
	}

	ft, err := file.ForeignTable(connector, a.log)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}

	return file, ft, nil
}

func formatCost(c core.Cost) string {
	return strconv.FormatFloat(float64(c), 'f', 2, 64)
}

func (a *application) planCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "plan FILE...",
		Short: "Estimate rows and costs of one or more foreign tables",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			names := make([]string, len(args))
			plans := make([]*core.Plan, len(args))

			g, ctx := errgroup.WithContext(cmd.Context())
			for i, path := range args {
				i, path := i, path
				g.Go(func() error {
					file, ft, err := a.loadTable(path)
					if err != nil {
						return err
					}
					plan, err := ft.Plan(ctx)
					if err != nil {
						return fmt.Errorf("%s: %w", file.Name, err)
					}
					names[i] = file.Name
					plans[i] = plan
					return nil
				})
			}
			if err := g.Wait(); err != nil {
				return err
			}

			t := table.NewWriter()
			t.SetStyle(table.StyleLight)
			t.Style().Options.DrawBorder = false
			t.AppendHeader(table.Row{"table", "rows", "startup cost", "total cost", "server"})
			for i, plan := range plans {
				t.AppendRow(table.Row{names[i], plan.Rows, formatCost(plan.StartupCost), formatCost(plan.TotalCost), plan.Tier})
			}
			_, err := fmt.Fprintln(a.out, t.Render())
			return err
		},
	}
}

func (a *application) explainCommand() *cobra.Command {
	var costs bool

	cmd := &cobra.Command{
		Use:   "explain FILE",
		Short: "Show what a scan of the foreign table would run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, ft, err := a.loadTable(args[0])
			if err != nil {
				return err
			}

			scan, err := ft.Begin(cmd.Context())
			if err != nil {
				return err
			}
			defer scan.End()

			var props core.ExplainList
			scan.Explain(&props, costs)
			if !costs {
				props.Property("MySQL query", ft.Options().EffectiveQuery())
			}

			for _, p := range props {
				if _, err := fmt.Fprintf(a.out, "%s: %s\n", p.Key, p.Value); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&costs, "costs", true, "include startup costs")

	return cmd
}

func (a *application) scanCommand() *cobra.Command {
	var (
		outputFormat string
		passes       int
	)

	cmd := &cobra.Command{
		Use:   "scan FILE",
		Short: "Fetch and print all tuples of the foreign table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if passes < 1 {
				return fmt.Errorf("invalid number of passes: %d", passes)
			}
			formatter, err := format.Get(outputFormat)
			if err != nil {
				return err
			}

			_, ft, err := a.loadTable(args[0])
			if err != nil {
				return err
			}

			scan, err := ft.Begin(cmd.Context())
			if err != nil {
				return err
			}
			defer scan.End()

			for pass := 0; pass < passes; pass++ {
				if pass > 0 {
					scan.ReScan()
				}

				var rows []*core.Tuple
				for {
					tuple, err := scan.Iterate(cmd.Context())
					if err != nil {
						return err
					}
					if tuple == nil {
						break
					}
					rows = append(rows, tuple)
				}

				a.log.Debug("scan pass finished", "pass", pass+1, "rows", len(rows))
				if err := formatter.Format(ft.Schema().Header(), rows, a.out); err != nil {
					return fmt.Errorf("%s.Format: %w", formatter.Name(), err)
				}
			}

			return scan.End()
		},
	}
	cmd.Flags().StringVarP(&outputFormat, "format", "f", "table", "output format: table, csv or json")
	cmd.Flags().IntVar(&passes, "passes", 1, "number of passes over the result, every pass after the first is a rescan")

	return cmd
}

func (a *application) validateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate FILE...",
		Short: "Check foreign table definitions without connecting",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			for _, path := range args {
				file, err := config.Load(path)
				if err != nil {
					return err
				}
				if _, err := a.mux.GetConnector(file.Type); err != nil {
					return fmt.Errorf("%s: %w: %q", path, err, file.Type)
				}
				if err := file.Validate(); err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				if _, err := fmt.Fprintf(a.out, "%s: ok\n", file.Name); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
