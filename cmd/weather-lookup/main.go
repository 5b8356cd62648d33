package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "weather-lookup",
		Short:        "Weather lookup service",
		Long:         "Looks up current weather and a five day forecast by city or coordinates, and keeps a search history.",
		SilenceUsage: true,
	}

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}

	getCmd := &cobra.Command{
		Use:   "get [city]",
		Short: "Print the weather for a city",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output, _ := cmd.Flags().GetString("output")
			return getWeather(cmd.Context(), cmd.OutOrStdout(), args[0], output)
		},
	}
	getCmd.Flags().StringP("output", "o", "text", "Output format (text, json)")

	suggestCmd := &cobra.Command{
		Use:   "suggest [query]",
		Short: "Print city name suggestions for a partial query",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return suggestCities(cmd.Context(), cmd.OutOrStdout(), args[0])
		},
	}

	rootCmd.AddCommand(serveCmd, getCmd, suggestCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
