// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/clingen/internal/archive"
	"github.com/pdiddy/clingen/internal/lookup"
	"github.com/pdiddy/clingen/pkg/types"
)

var lookupCmd = &cobra.Command{
	Use:   "lookup GENE",
	Short: "Find publications linking a gene to diseases and phenotypes",
	Long: `Lookup checks that GENE is known to MouseMine, runs the allele, phenotype
and disease annotation queries, merges the rows per publication, and prints
the result. Filters mirror the web form: --require-disease and
--require-phenotype drop publications without that kind of annotation,
--rescue marks rescue papers, and --abstract keeps every abstract.

Output formats: table (default), json, yaml, csl (CSL-YAML bibliography).`,
	Args: cobra.ExactArgs(1),
	RunE: runLookup,
}

func init() {
	lookupCmd.Flags().Bool("require-disease", false, "only keep publications with an associated disease")
	lookupCmd.Flags().Bool("require-phenotype", false, "only keep publications with an associated phenotype")
	lookupCmd.Flags().Bool("rescue", false, "mark rescue papers and highlight rescue terms")
	lookupCmd.Flags().Bool("abstract", false, "include abstracts")
	lookupCmd.Flags().StringP("format", "f", "table", "output format: table, json, yaml, csl")
	lookupCmd.Flags().Bool("save", false, "save the lookup in the archive")

	rootCmd.AddCommand(lookupCmd)
}

func runLookup(cmd *cobra.Command, args []string) error {
	gene, err := types.NormalizeGene(args[0])
	if err != nil {
		return err
	}
	format, _ := cmd.Flags().GetString("format")
	format = strings.ToLower(format)
	if !validFormat(format) {
		return fmt.Errorf("unknown format %q (want table, json, yaml, or csl)", format)
	}

	opts := filterOptionsFromFlags(cmd)
	cfg := loadConfig(viper.GetViper())

	out, err := newService(cfg).Lookup(cmd.Context(), gene, opts)
	if err != nil {
		return fmt.Errorf("looking up %s: %w", gene, err)
	}

	if save, _ := cmd.Flags().GetBool("save"); save {
		store, err := archive.Open(cmd.Context(), cfg.Archive)
		if err != nil {
			return err
		}
		defer store.Close()
		id, err := store.Save(cmd.Context(), out)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "saved lookup %d\n", id)
	}

	return writeOutcome(out, format, os.Stdout)
}

func filterOptionsFromFlags(cmd *cobra.Command) types.FilterOptions {
	var opts types.FilterOptions
	opts.RequireDisease, _ = cmd.Flags().GetBool("require-disease")
	opts.RequirePhenotype, _ = cmd.Flags().GetBool("require-phenotype")
	opts.RescueFilter, _ = cmd.Flags().GetBool("rescue")
	opts.IncludeAbstract, _ = cmd.Flags().GetBool("abstract")
	return opts
}

func validFormat(format string) bool {
	switch format {
	case "table", "json", "yaml", "csl":
		return true
	}
	return false
}

func writeOutcome(out *lookup.Outcome, format string, w io.Writer) error {
	switch format {
	case "json":
		return lookup.FormatJSON(out, w)
	case "yaml":
		return lookup.FormatYAML(out, w)
	case "csl":
		if msg := out.Message(); msg != "" {
			fmt.Fprintf(os.Stderr, "%s: %s\n", out.Gene, msg)
		}
		return lookup.FormatCSL(out, w)
	default:
		lookup.FormatTable(out, w)
		return nil
	}
}
