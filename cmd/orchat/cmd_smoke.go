package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/blossomz37/orchat/internal/smoke"
	"github.com/blossomz37/orchat/pkg/openrouter"
)

var (
	smokeEnvFile string
	smokeOut     string
)

func init() {
	smokeCmd.Flags().StringVar(&smokeEnvFile, "env-file", ".env", "key=value file loaded into the environment (missing file is ignored)")
	smokeCmd.Flags().StringVar(&smokeOut, "out", "", "artifact root directory (default: smoke.out_dir)")
	rootCmd.AddCommand(smokeCmd)
}

var smokeCmd = &cobra.Command{
	Use:   "smoke",
	Short: "Probe the OpenRouter API with one text and one image request",
	Args:  cobra.NoArgs,
	RunE:  runSmoke,
}

func runSmoke(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	setupLogging(cfg)

	env, err := smoke.ResolveEnv(smokeEnvFile)
	if err != nil {
		return err
	}

	outRoot := smokeOut
	if outRoot == "" {
		outRoot = cfg.Smoke.OutDir
	}

	client := openrouter.New(&openrouter.Config{
		BaseURL: cfg.OpenRouter.BaseURL,
		APIKey:  env.APIKey,
		Title:   cfg.OpenRouter.Title,
	})

	runner := &smoke.Runner{Client: client, Env: env, OutRoot: outRoot}
	summary, err := runner.Run(cmd.Context())
	if err != nil {
		return err
	}

	if summary.Text.OK {
		fmt.Fprintf(os.Stdout, "OK   text  model=%s contentLength=%d urlCitations=%d\n",
			summary.Text.Model, summary.Text.ContentLength, summary.Text.URLCitations)
	} else {
		fmt.Fprintf(os.Stdout, "FAIL text  model=%s (see text-error.txt)\n", summary.Text.Model)
	}
	if summary.Image.OK {
		fmt.Fprintf(os.Stdout, "OK   image model=%s images=%d contentLength=%d\n",
			summary.Image.Model, summary.Image.Images, summary.Image.ContentLength)
	} else {
		fmt.Fprintf(os.Stdout, "FAIL image model=%s (see image-error.txt)\n", summary.Image.Model)
	}
	fmt.Fprintf(os.Stdout, "artifacts: %s\n", summary.OutputsDir)

	if summary.Failed() {
		cmd.SilenceUsage = true
		return fmt.Errorf("smoke run failed")
	}
	return nil
}
