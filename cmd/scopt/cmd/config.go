package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the resolved optimizer config",
		Long: `Print the optimizer config that train would use, after defaults,
the config file, SCOPT_* environment variables and flags are applied.

The output can be pasted back as the optimizer section of a config file;
hyperparameters written inline next to name are read like those under params.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			output, err := cmd.Flags().GetString("output")
			if err != nil {
				return err
			}
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			r, err := newRun(cfg)
			if err != nil {
				return err
			}

			out := r.optimizer.GetConfig()
			switch output {
			case "yaml":
				enc := yaml.NewEncoder(cmd.OutOrStdout())
				defer enc.Close()
				return enc.Encode(out)
			case "json":
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(out)
			default:
				return fmt.Errorf("unknown output format %q, want yaml or json", output)
			}
		},
	}

	cmd.Flags().StringP("output", "o", "yaml", "output format (yaml, json)")
	cmd.Flags().String("optimizer", "", "optimizer name")
	cmd.Flags().Float64("lr", 0, "learning rate; 0 uses the optimizer default")
	cmd.Flags().Float64("decay", 0, "learning rate decay per step")

	return cmd
}
