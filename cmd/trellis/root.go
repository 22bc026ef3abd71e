package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/odvcencio/trellis/pkg/config"
	"github.com/odvcencio/trellis/pkg/errors"
	"github.com/odvcencio/trellis/pkg/ui/backend"
	"github.com/odvcencio/trellis/pkg/ui/backend/ansi"
	tcellbackend "github.com/odvcencio/trellis/pkg/ui/backend/tcell"
)

type rootOptions struct {
	configPath  string
	backend     string
	metricsAddr string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "trellis",
		Short:         "Terminal rendering pipeline demo",
		Version:       fmt.Sprintf("%s (%s)", version, commit),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "Path to a config file (default: ~/.trellis/config.yaml and ./.trellis/config.yaml)")
	root.PersistentFlags().StringVar(&opts.backend, "backend", "tcell", "Terminal backend: tcell or ansi")
	root.PersistentFlags().StringVar(&opts.metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address")

	root.AddCommand(newDemoCmd(opts), newConfigCmd(opts))
	return root
}

func newConfigCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			out, err := yaml.Marshal(cfg)
			if err != nil {
				return errors.Wrap(err, errors.ErrCodeInternal, "encode config")
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
}

// load reads the config file and applies flag overrides.
func (o *rootOptions) load() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if o.configPath != "" {
		cfg, err = config.LoadFromPath(o.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}
	if o.metricsAddr != "" {
		cfg.Metrics.Enabled = true
		cfg.Metrics.Addr = o.metricsAddr
	}
	return cfg, nil
}

func newBackend(name string) (backend.Backend, error) {
	switch name {
	case "tcell":
		be, err := tcellbackend.New()
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeTerminalIO, "open tcell screen")
		}
		return be, nil
	case "ansi":
		return ansi.NewStdio(ansi.WithMouse(true)), nil
	default:
		return nil, errors.Newf(errors.ErrCodeInvalidInput, "unknown backend %q (want tcell or ansi)", name)
	}
}
