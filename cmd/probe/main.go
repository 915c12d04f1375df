// Command probe infers the table schema of a local trip CSV (plain or gzip)
// without touching a database and prints it as JSON together with the DDL
// ingest would run for the chosen backend.
//
//	probe --file=files/output.csv.gz --table=green_taxi_trips --kind=postgres
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"taxipipe/internal/config"
	"taxipipe/internal/datasource/file"
	"taxipipe/internal/logging"
	"taxipipe/internal/probe"
	"taxipipe/internal/storage"
	_ "taxipipe/internal/storage/all"
)

type columnOut struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	NonEmpty int64  `json:"non_empty"`
}

type report struct {
	File    string      `json:"file"`
	Table   string      `json:"table"`
	Kind    string      `json:"kind"`
	Rows    int64       `json:"rows"`
	Columns []columnOut `json:"columns"`
	DDL     []string    `json:"ddl"`
}

func newCommand(stdout io.Writer) *cobra.Command {
	var (
		path, table, kind string
		pickup, dropoff   string
		pretty            bool
	)

	cmd := &cobra.Command{
		Use:           "probe",
		Short:         "Infer the schema of a trip CSV and print the table DDL",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			kind = config.NormalizeKind(kind)

			res, err := probe.ProbeFile(ctx, file.NewLocal(path), probe.Options{
				Table:         table,
				PickupColumn:  pickup,
				DropoffColumn: dropoff,
			})
			if err != nil {
				return err
			}
			ddl, err := storage.ReplaceTableSQL(kind, res.Schema)
			if err != nil {
				return err
			}

			out := report{File: path, Table: table, Kind: kind, Rows: res.Rows, DDL: ddl}
			for _, c := range res.Columns {
				out.Columns = append(out.Columns, columnOut{Name: c.Name, Type: string(c.Type), NonEmpty: c.NonEmpty})
			}
			logging.FromContext(ctx).Debugw("probed", "file", path, "rows", res.Rows, "columns", len(out.Columns))

			enc := json.NewEncoder(stdout)
			if pretty {
				enc.SetIndent("", "  ")
			}
			if err := enc.Encode(out); err != nil {
				return fmt.Errorf("encode report: %w", err)
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&path, "file", "", "local CSV file (.csv or .csv.gz)")
	f.StringVar(&table, "table", "trips", "table name used in the DDL")
	f.StringVar(&kind, "kind", config.KindPostgres, "backend: postgres|mysql|sqlserver|sqlite")
	f.StringVar(&pickup, "pickup_column", "", "pickup timestamp column (default: *pickup_datetime)")
	f.StringVar(&dropoff, "dropoff_column", "", "dropoff timestamp column (default: *dropoff_datetime)")
	f.BoolVar(&pretty, "pretty", true, "indent the JSON output")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func main() {
	log := logging.NewLogger()
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logging.WithLogger(ctx, log)

	if err := newCommand(os.Stdout).ExecuteContext(ctx); err != nil {
		log.Errorw("probe failed", "err", err)
		stop()
		_ = log.Sync()
		os.Exit(1)
	}
}
