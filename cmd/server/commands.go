package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Brownie44l1/leafscan-api/internal/label"
	"github.com/Brownie44l1/leafscan-api/internal/severity"
)

type resolved struct {
	ClassID       string         `json:"class_id"`
	ClassEN       string         `json:"class_en"`
	ClassAR       string         `json:"class_ar"`
	Plant         string         `json:"plant,omitempty"`
	Disease       string         `json:"disease,omitempty"`
	Healthy       bool           `json:"healthy"`
	DescriptionEN string         `json:"description_en"`
	DescriptionAR string         `json:"description_ar"`
	Severity      severity.Level `json:"severity,omitempty"`
	SeverityScore *int           `json:"severity_score,omitempty"`
}

func resolveCmd() *cobra.Command {
	var confidence float64

	cmd := &cobra.Command{
		Use:   "resolve <class-id>...",
		Short: "Translate raw class identifiers without loading the model",
		Example: `  leafscan resolve Tomato___Early_blight
  leafscan resolve --confidence 0.9 "Corn_(maize)___Common_rust_"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				level severity.Level
				score *int
			)
			if cmd.Flags().Changed("confidence") {
				l, err := severity.Classify(confidence)
				if err != nil {
					return err
				}
				sc, err := severity.Score(confidence)
				if err != nil {
					return err
				}
				level, score = l, &sc
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			for _, id := range args {
				r := label.Resolve(id)
				if err := enc.Encode(resolved{
					ClassID:       id,
					ClassEN:       r.ClassEN,
					ClassAR:       r.ClassAR,
					Plant:         r.Plant,
					Disease:       r.Disease,
					Healthy:       r.Healthy,
					DescriptionEN: r.DescriptionEN,
					DescriptionAR: r.DescriptionAR,
					Severity:      level,
					SeverityScore: score,
				}); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().Float64Var(&confidence, "confidence", 0, "Confidence in [0,1]; adds the severity to the output")
	return cmd
}

func classesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "classes",
		Short: "List the built-in class taxonomy with translations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "INDEX\tCLASS\tENGLISH\tARABIC")
			for i, id := range label.DefaultTable().Classes() {
				r := label.Resolve(id)
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", i, id, r.ClassEN, r.ClassAR)
			}
			return tw.Flush()
		},
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s version %s\n", appName, Version)
		},
	}
}
