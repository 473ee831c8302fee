package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/pkg/browser"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/user/dataplot_go/internal/parser"
	"github.com/user/dataplot_go/internal/report"
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	// The OS opener is chatty on some desktops; keep it out of the terminal.
	browser.Stdout = log.WriterLevel(logrus.DebugLevel)
	browser.Stderr = log.WriterLevel(logrus.DebugLevel)

	if err := newRootCmd(log).Execute(); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}

func newRootCmd(log *logrus.Logger) *cobra.Command {
	v := viper.New()
	var cfgFile string

	rootCmd := &cobra.Command{
		Use:   "dataplot",
		Short: "Plot an index/value data file as a line chart",
		Long: `dataplot reads a whitespace-delimited data file (an index column and
one or two value columns, "nan" marking a missing sample) and saves
the line chart to ` + report.OutputFile + ` in the working directory.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := bindConfig(v, cmd.Flags()); err != nil {
				return err
			}
			cfg, err := loadConfig(v, cfgFile)
			if err != nil {
				return err
			}
			if v.GetBool("verbose") {
				log.SetLevel(logrus.DebugLevel)
			}
			return NewApp(log).Run(cfg)
		},
	}

	flags := rootCmd.Flags()
	flags.StringVar(&cfgFile, "config", "", "Config file (yaml, toml or json)")
	flags.StringP("input", "i", "data.txt", "Input data file")
	flags.String("variant", string(parser.VariantExtended), "Line shape: simple (index value) or extended (index value value)")
	flags.String("short-lines", "", "Lines with the wrong field count: skip or fail (default: fail for simple, skip for extended)")
	flags.Bool("show", false, "Open the saved chart in the default image viewer")
	flags.Bool("ascii", false, "Also print the chart to the terminal")
	flags.String("pdf", "", "Write a PDF report to this path")
	flags.Bool("no-color", false, "Disable colors in the terminal preview")
	flags.BoolP("verbose", "v", false, "Enable debug logging")

	return rootCmd
}

// bindConfig lets flags and DATAPLOT_* variables feed v.
func bindConfig(v *viper.Viper, flags *pflag.FlagSet) error {
	if err := v.BindPFlags(flags); err != nil {
		return fmt.Errorf("failed to bind flags: %w", err)
	}
	v.SetEnvPrefix("DATAPLOT")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return nil
}

// loadConfig merges flags, environment and the optional config file.
func loadConfig(v *viper.Viper, cfgFile string) (Config, error) {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("failed to read config %s: %w", cfgFile, err)
		}
	}

	variant, err := parser.ParseVariant(v.GetString("variant"))
	if err != nil {
		return Config{}, err
	}
	policy, err := parser.ParseShortLinePolicy(v.GetString("short-lines"))
	if err != nil {
		return Config{}, err
	}

	cfg := DefaultConfig()
	cfg.Input = v.GetString("input")
	cfg.Parse = parser.Options{Variant: variant, ShortLines: policy}
	cfg.PDF = v.GetString("pdf")
	cfg.Show = v.GetBool("show")
	cfg.ASCII = v.GetBool("ascii")
	cfg.Colored = !v.GetBool("no-color")
	return cfg, nil
}
