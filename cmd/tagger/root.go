package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"imagetagger/config"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	def := config.Default()
	cmd := &cobra.Command{
		Use:           "tagger <input_directory>",
		Short:         "Rename a folder of images and tag them from the browser",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, args[0])
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return run(ctx, cfg, cmd.ErrOrStderr())
		},
	}

	flags := cmd.Flags()
	flags.StringP("config", "c", "", "path to a YAML config file")
	flags.StringP("output-dir", "o", def.OutputDir, "output directory, relative to the input directory unless absolute")
	flags.BoolP("resume", "r", false, "resume the previous session")
	flags.StringP("prefix", "p", def.Prefix, "file name prefix for renamed images")
	flags.BoolP("verbose", "v", false, "enable debug logging")
	flags.IntP("auto-save", "a", def.AutoSave, "auto-save interval in seconds")
	flags.String("host", def.Host, "address to listen on")
	flags.Int("port", def.Port, "port to listen on")

	return cmd
}

// resolveConfig layers defaults, the optional config file, the environment
// and the flags the user actually set, then validates the result.
func resolveConfig(cmd *cobra.Command, inputDir string) (config.Config, error) {
	cfg := config.Default()
	flags := cmd.Flags()

	if path, _ := flags.GetString("config"); path != "" {
		if err := config.LoadFile(path, &cfg); err != nil {
			return cfg, err
		}
	}
	if err := config.LoadEnv(&cfg); err != nil {
		return cfg, fmt.Errorf("environment: %w", err)
	}

	cfg.InputDir = inputDir
	if flags.Changed("output-dir") {
		cfg.OutputDir, _ = flags.GetString("output-dir")
	}
	if flags.Changed("resume") {
		cfg.Resume, _ = flags.GetBool("resume")
	}
	if flags.Changed("prefix") {
		cfg.Prefix, _ = flags.GetString("prefix")
	}
	if flags.Changed("verbose") {
		cfg.Verbose, _ = flags.GetBool("verbose")
	}
	if flags.Changed("auto-save") {
		cfg.AutoSave, _ = flags.GetInt("auto-save")
	}
	if flags.Changed("host") {
		cfg.Host, _ = flags.GetString("host")
	}
	if flags.Changed("port") {
		cfg.Port, _ = flags.GetInt("port")
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
