package cmd

import (
	"fmt"

	"github.com/now-man/a4s-dshbrd-250831/cmd/recompute"
	"github.com/now-man/a4s-dshbrd-250831/cmd/serve"
	"github.com/now-man/a4s-dshbrd-250831/internal/conf"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// RootCommand creates and returns the root command
func RootCommand(settings *conf.Settings) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "a4s",
		Short: "A4S GNSS risk dashboard CLI",
	}

	setupFlags(rootCmd, settings)

	subcommands := []*cobra.Command{
		serve.Command(settings),
		recompute.Command(settings),
	}
	rootCmd.AddCommand(subcommands...)

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if err := cmd.Flags().Parse(args); err != nil {
			return err
		}
		return conf.ValidateSettings(settings)
	}

	return rootCmd
}

// setupFlags defines flags that are global to the command line interface
func setupFlags(rootCmd *cobra.Command, settings *conf.Settings) error {
	rootCmd.PersistentFlags().BoolVarP(&settings.Debug, "debug", "d", viper.GetBool("debug"), "Enable debug output")
	rootCmd.PersistentFlags().Float64VarP(&settings.Unit.DefaultThreshold, "threshold", "t", viper.GetFloat64("unit.defaultthreshold"), "Unit default positioning error threshold in meters")
	rootCmd.PersistentFlags().StringVarP(&settings.WebServer.Port, "port", "p", viper.GetString("webserver.port"), "Port for the web server")
	rootCmd.PersistentFlags().IntVar(&settings.Forecast.HorizonHours, "horizon", viper.GetInt("forecast.horizonhours"), "Forecast horizon in hours")

	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		return fmt.Errorf("error binding flags: %v", err)
	}

	return nil
}
