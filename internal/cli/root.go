// Package cli provides the command-line interface for dominant.
package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/jmylchreest/dominant/internal/version"
)

// envPrefix namespaces the environment variables bound to flags,
// e.g. DOMINANT_COLOURS or DOMINANT_SEED_MODE.
const envPrefix = "DOMINANT"

// NewRootCmd builds the command tree. Each call returns an independent
// tree so tests can execute commands without sharing flag state.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "dominant",
		Short: "Extract the dominant colours of an image",
		Long: `dominant finds the N most representative colours of an image.

The image is downsampled to a fixed working resolution and its pixels are
clustered with seeded k-means, so the same image always yields the same
colours. Every flag can also be set through a DOMINANT_* environment
variable (for example DOMINANT_COLOURS=8).`,
		Version:      version.Short(),
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "suppress non-error output")

	rootCmd.SetVersionTemplate(version.String() + "\n")

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newExtractCmd())

	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  `Print detailed version information including build date, commit hash, and Go version.`,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.String())
		},
	}
}

// bindConfig layers DOMINANT_* environment variables under the command's
// flags. Explicit flags win over the environment, which wins over defaults.
func bindConfig(cmd *cobra.Command) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	for _, fs := range []*pflag.FlagSet{cmd.Flags(), cmd.InheritedFlags()} {
		if err := v.BindPFlags(fs); err != nil {
			return nil, fmt.Errorf("failed to bind flags: %w", err)
		}
	}
	return v, nil
}

// newLogger returns the diagnostic logger, writing to w.
func newLogger(w io.Writer, verbose, quiet bool) hclog.Logger {
	level := hclog.Info
	switch {
	case quiet:
		level = hclog.Error
	case verbose:
		level = hclog.Debug
	}
	return hclog.New(&hclog.LoggerOptions{
		Name:   "dominant",
		Output: w,
		Level:  level,
	})
}
