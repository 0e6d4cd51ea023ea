package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"storefeatures/internal/infrastructure"
	"storefeatures/internal/services"
)

func cleanCmd(global *globalOptions) *cobra.Command {
	var in, out, table string

	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Fill missing cells of one input table",
		Long: `Clean normalizes the header of a table and fills its empty cells: columns whose
present cells are all numeric get their median, any other column gets "None".
The cleaned table is written as delimited text.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := global.load(nil)
			if err != nil {
				return err
			}
			if table == "" {
				table = strings.TrimSuffix(filepath.Base(in), filepath.Ext(in))
			}

			svc := services.NewFeatureService(cfg, nil, nil, infrastructure.GetLogger())
			imputations, err := svc.CleanFile(infrastructure.EnsureTraceID(cmd.Context()), in, out, table)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			for _, imp := range imputations {
				fmt.Fprintf(w, "filled %d empty %s cells with %q\n", imp.Rows, imp.Column, imp.Value)
			}
			fmt.Fprintf(w, "wrote %s\n", out)
			return nil
		},
	}

	cmd.Flags().StringVar(&in, "in", "", "table to clean (csv or xlsx)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "cleaned output file")
	cmd.Flags().StringVar(&table, "table", "", "table name used in messages (default: file name)")
	cmd.MarkFlagRequired("in")
	cmd.MarkFlagRequired("out")

	return cmd
}
