package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/martkit/martkit/internal/biomart"
	"github.com/martkit/martkit/internal/config"
	"github.com/martkit/martkit/internal/wizard"
)

var (
	cfgFile  string
	logLevel string
	version  = "dev"
	commit   = "none"
	date     = "unknown"

	hostFlag string
	pathFlag string
	portFlag int
	noCache  bool
)

var rootCmd = &cobra.Command{
	Use:   "martkit",
	Short: "Martkit — BioMart query client",
	Long: `Martkit talks to BioMart-style query services (Ensembl and
compatible hosts): it discovers marts and datasets, inspects their
attributes and filters, and runs tabular queries.

Running without a subcommand launches the interactive browser.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		srv, err := newServer()
		if err != nil {
			return err
		}
		sel, err := wizard.Run(srv)
		if err != nil {
			return err
		}
		if sel == nil {
			return nil
		}
		fmt.Printf("%s / %s\n", sel.Mart.Name(), sel.Dataset.Name())
		return nil
	},
}

func Execute() {
	rootCmd.Version = version
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig reads the config file and folds the endpoint flags in.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if hostFlag != "" {
		cfg.Endpoint.Host = hostFlag
	}
	if pathFlag != "" {
		cfg.Endpoint.Path = pathFlag
	}
	if portFlag != 0 {
		cfg.Endpoint.Port = portFlag
	}
	if noCache {
		cfg.Cache.Disabled = true
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	return cfg, nil
}

func newServer() (*biomart.Server, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return biomart.NewServer(cfg.Settings()), nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ~/.martkit/martkit.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&hostFlag, "host", "", "mart service host (overrides config)")
	rootCmd.PersistentFlags().StringVar(&pathFlag, "path", "", "mart service path on the host")
	rootCmd.PersistentFlags().IntVar(&portFlag, "port", 0, "mart service port")
	rootCmd.PersistentFlags().BoolVar(&noCache, "no-cache", false, "disable the on-disk response cache")
}
