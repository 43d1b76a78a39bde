// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/clingen/internal/archive"
	"github.com/pdiddy/clingen/internal/export"
	"github.com/pdiddy/clingen/internal/lookup"
	"github.com/pdiddy/clingen/internal/secrets"
	"github.com/pdiddy/clingen/pkg/types"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect and export the archive of saved lookups",
	Long: `History reads the lookup archive written by "lookup --save" and
"serve --archive". The archive is SQLite by default (archive.driver=sqlite3)
or PostgreSQL (archive.driver=pgx).`,
}

// --- list subcommand ---

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved lookups, newest first",
	RunE:  runHistoryList,
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	store, err := openArchive(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	geneFlag, _ := cmd.Flags().GetString("gene")
	var gene types.GeneSymbol
	if strings.TrimSpace(geneFlag) != "" {
		if gene, err = types.NormalizeGene(geneFlag); err != nil {
			return err
		}
	}
	limit, _ := cmd.Flags().GetInt("limit")

	entries, err := store.List(cmd.Context(), gene, limit)
	if err != nil {
		return err
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}
	printEntries(entries, os.Stdout)
	return nil
}

func printEntries(entries []archive.Entry, w io.Writer) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No saved lookups.")
		return
	}
	fmt.Fprintf(w, "%-6s  %-12s  %-16s  %-5s  %-20s  %s\n", "ID", "Gene", "Status", "Count", "Saved", "Filters")
	fmt.Fprintln(w, strings.Repeat("-", 84))
	for _, e := range entries {
		fmt.Fprintf(w, "%-6d  %-12s  %-16s  %-5d  %-20s  %s\n",
			e.ID, e.Gene, e.Status, e.Count, e.CreatedAt.Format("2006-01-02 15:04:05"), filterSummary(e.Options))
	}
}

func filterSummary(o types.FilterOptions) string {
	var parts []string
	if o.RequireDisease {
		parts = append(parts, "disease")
	}
	if o.RequirePhenotype {
		parts = append(parts, "phenotype")
	}
	if o.RescueFilter {
		parts = append(parts, "rescue")
	}
	if o.IncludeAbstract {
		parts = append(parts, "abstract")
	}
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, ",")
}

// --- show subcommand ---

var historyShowCmd = &cobra.Command{
	Use:   "show ID",
	Short: "Show one saved lookup with its publications",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryShow,
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid lookup id %q", args[0])
	}
	format, _ := cmd.Flags().GetString("format")

	store, err := openArchive(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	rec, err := store.Get(cmd.Context(), id)
	if err != nil {
		return err
	}

	switch format {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(rec)
	case "yaml":
		enc := yaml.NewEncoder(os.Stdout)
		defer enc.Close()
		return enc.Encode(rec)
	default:
		lookup.FormatTable(recordOutcome(rec), os.Stdout)
		return nil
	}
}

// recordOutcome rebuilds an Outcome from an archived record so the table
// formatter can print it.
func recordOutcome(rec *archive.Record) *lookup.Outcome {
	rs := lookup.NewResultSet()
	for _, p := range rec.Publications {
		rs.Add(p)
	}
	return &lookup.Outcome{
		Gene:    rec.Gene,
		Options: rec.Options,
		Status:  rec.Status,
		Count:   rec.Count,
		Results: rs,
	}
}

// --- export subcommand ---

var historyExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the whole archive to YAML or JSON",
	Long: `Export writes every saved lookup with its publications to stdout, to a
file (--output), or to the configured S3 bucket (--s3 KEY). S3 settings come
from export.s3.* (bucket, region, endpoint, path_style) and credentials from
the aws-access-key-id and aws-secret-access-key secrets or the default AWS
credential chain.`,
	RunE: runHistoryExport,
}

func runHistoryExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	output, _ := cmd.Flags().GetString("output")
	s3Key, _ := cmd.Flags().GetString("s3")

	store, err := openArchive(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	var buf bytes.Buffer
	if err := store.Export(cmd.Context(), &buf, format); err != nil {
		return err
	}

	switch {
	case s3Key != "":
		cfg := loadConfig(viper.GetViper()).S3
		cfg.AccessKeyID = secretDefault(secrets.AWSAccessKeyID, cfg.AccessKeyID)
		cfg.SecretAccessKey = secretDefault(secrets.AWSSecretAccessKey, cfg.SecretAccessKey)
		up, err := export.New(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		loc, err := up.Upload(cmd.Context(), s3Key, buf.Bytes(), export.ContentType(format))
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "exported archive to %s\n", loc)
	case output != "":
		if err := os.WriteFile(output, buf.Bytes(), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", output, err)
		}
		fmt.Fprintf(os.Stderr, "exported archive to %s\n", output)
	default:
		_, err := os.Stdout.Write(buf.Bytes())
		return err
	}
	return nil
}

func openArchive(cmd *cobra.Command) (*archive.Store, error) {
	cfg := loadConfig(viper.GetViper())
	return archive.Open(cmd.Context(), cfg.Archive)
}

func init() {
	historyListCmd.Flags().String("gene", "", "only list lookups of this gene")
	historyListCmd.Flags().Int("limit", 50, "maximum number of lookups")
	historyListCmd.Flags().Bool("json", false, "output as JSON")

	historyShowCmd.Flags().StringP("format", "f", "table", "output format: table, json, yaml")

	historyExportCmd.Flags().StringP("format", "f", archive.ExportYAML, "export format: yaml or json")
	historyExportCmd.Flags().StringP("output", "o", "", "write the export to this file")
	historyExportCmd.Flags().String("s3", "", "upload the export to this key in export.s3.bucket")

	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyExportCmd)
	rootCmd.AddCommand(historyCmd)
}
