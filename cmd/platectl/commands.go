package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"plate-service/internal/client"
	"plate-service/internal/config"
	"plate-service/internal/sidecode"
)

type rootOptions struct {
	country   string
	sideCodes string
	remote    string
	token     string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "platectl",
		Short: "Validate and format license plates",
		Long: `platectl checks license plates against per-country sidecodes.

Sidecodes use X for a letter, 9 for a digit, ? for either and - for a dash.
Without --remote the built-in Dutch sidecodes (or --sidecodes FILE) are used.

Example:
  platectl format AB1234
  platectl validate "ab - 12 - 34" --country NL
  platectl sidecode 12-ABC-3 --remote http://localhost:8080`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&opts.country, "country", "c", sidecode.DefaultCountry, "country context")
	rootCmd.PersistentFlags().StringVar(&opts.sideCodes, "sidecodes", "", "YAML sidecode registry to use instead of the built-in one")
	rootCmd.PersistentFlags().StringVar(&opts.remote, "remote", "", "plate service URL (defaults to PLATE_SERVICE_URL when set)")
	rootCmd.PersistentFlags().StringVar(&opts.token, "token", "", "bearer token for --remote (defaults to PLATE_SERVICE_TOKEN)")

	rootCmd.AddCommand(validateCmd(opts))
	rootCmd.AddCommand(formatCmd(opts))
	rootCmd.AddCommand(sideCodeCmd(opts))
	rootCmd.AddCommand(countriesCmd(opts))

	return rootCmd
}

func (o *rootOptions) backend() (backend, error) {
	cfg := config.LoadClient()
	if o.remote != "" {
		cfg.Remote.PlateServiceURL = o.remote
	}
	if o.token != "" {
		cfg.Remote.PlateServiceToken = o.token
	}
	if cfg.Remote.PlateServiceURL != "" {
		return &remoteBackend{client: client.NewPlateClient(cfg)}, nil
	}

	sideCodes := o.sideCodes
	if sideCodes == "" {
		sideCodes = cfg.SideCodes.File
	}
	return newLocalBackend(sideCodes)
}

func validateCmd(opts *rootOptions) *cobra.Command {
	var ignoreDashes bool

	cmd := &cobra.Command{
		Use:   "validate PLATE...",
		Short: "Report whether plates match a sidecode",
		Long: `Report whether plates match one of the country's sidecodes.

Dash placement has to match exactly unless --ignore-dashes is given.
Exits non-zero when any plate is invalid.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := opts.backend()
			if err != nil {
				return err
			}

			invalid := 0
			for _, plate := range args {
				ok, err := b.IsValidPlate(cmd.Context(), plate, opts.country, ignoreDashes)
				if err != nil {
					return fmt.Errorf("%s: %w", plate, err)
				}
				status := "valid"
				if !ok {
					status = "invalid"
					invalid++
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", plate, status)
			}
			if invalid > 0 {
				return fmt.Errorf("%d of %d plates invalid", invalid, len(args))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&ignoreDashes, "ignore-dashes", false, "accept any dash placement")
	return cmd
}

func formatCmd(opts *rootOptions) *cobra.Command {
	var ignoreDashes bool

	cmd := &cobra.Command{
		Use:   "format PLATE...",
		Short: "Print plates with their sidecode's dashes",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := opts.backend()
			if err != nil {
				return err
			}

			for _, plate := range args {
				formatted, err := b.FormatPlate(cmd.Context(), plate, opts.country, ignoreDashes)
				if err != nil {
					return fmt.Errorf("%s: %w", plate, err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), formatted)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&ignoreDashes, "ignore-dashes", true, "accept any dash placement")
	return cmd
}

func sideCodeCmd(opts *rootOptions) *cobra.Command {
	var ignoreDashes bool

	cmd := &cobra.Command{
		Use:   "sidecode PLATE",
		Short: "Print the sidecode a plate matches",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := opts.backend()
			if err != nil {
				return err
			}

			code, err := b.FindSideCode(cmd.Context(), args[0], opts.country, ignoreDashes)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), code)
			return nil
		},
	}

	cmd.Flags().BoolVar(&ignoreDashes, "ignore-dashes", false, "accept any dash placement")
	return cmd
}

func countriesCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "countries",
		Short: "List supported countries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := opts.backend()
			if err != nil {
				return err
			}

			countries, err := b.Countries(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), strings.Join(countries, "\n"))
			return nil
		},
	}
}
