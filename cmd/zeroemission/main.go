package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "zeroemission",
		Short:        "Zero-emission zone editor and restricted-vehicle router",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(validateCmd())
	rootCmd.AddCommand(routeCmd())
	rootCmd.AddCommand(editCmd())
	rootCmd.AddCommand(hitCmd())
	rootCmd.AddCommand(importParkingCmd())
	rootCmd.AddCommand(serveCmd())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [project-path]",
		Short: "Validate a scenario without routing anything",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd.OutOrStdout(), args[0])
		},
	}
}

func routeCmd() *cobra.Command {
	var (
		vehicle string
		to      string
		geoJSON bool
		resolve bool
	)

	cmd := &cobra.Command{
		Use:   "route [project-path]",
		Short: "Decide how a vehicle reaches a destination",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRoute(cmd.Context(), cmd.OutOrStdout(), args[0], routeOptions{
				vehicleID: vehicle,
				to:        to,
				geoJSON:   geoJSON,
				resolve:   resolve,
			})
		},
	}

	cmd.Flags().StringVar(&vehicle, "vehicle", "", "vehicle ID")
	cmd.Flags().StringVar(&to, "to", "", "destination as lat,lng")
	cmd.Flags().BoolVar(&geoJSON, "geojson", false, "print the route as a GeoJSON FeatureCollection")
	cmd.Flags().BoolVar(&resolve, "directions", false, "resolve legs through the directions provider")
	cmd.MarkFlagRequired("vehicle")
	cmd.MarkFlagRequired("to")
	return cmd
}

func editCmd() *cobra.Command {
	var (
		zoneID    string
		editsFile string
		write     bool
	)

	cmd := &cobra.Command{
		Use:   "edit [project-path]",
		Short: "Apply a list of edits to one zone",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEdit(cmd.OutOrStdout(), args[0], zoneID, editsFile, write)
		},
	}

	cmd.Flags().StringVar(&zoneID, "zone", "", "zone ID")
	cmd.Flags().StringVarP(&editsFile, "edits", "e", "", "YAML file with a list of edits")
	cmd.Flags().BoolVarP(&write, "write", "w", false, "save the edited scenario")
	cmd.MarkFlagRequired("zone")
	cmd.MarkFlagRequired("edits")
	return cmd
}

func hitCmd() *cobra.Command {
	var at string

	cmd := &cobra.Command{
		Use:   "hit [project-path]",
		Short: "List the zones containing a point",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHit(cmd.OutOrStdout(), args[0], at)
		},
	}

	cmd.Flags().StringVar(&at, "at", "", "point as lat,lng")
	cmd.MarkFlagRequired("at")
	return cmd
}

func importParkingCmd() *cobra.Command {
	var (
		bbox  string
		write bool
	)

	cmd := &cobra.Command{
		Use:   "import-parking [project-path]",
		Short: "Import parking lots from OpenStreetMap",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImportParking(cmd.Context(), cmd.OutOrStdout(), args[0], bbox, write)
		},
	}

	cmd.Flags().StringVar(&bbox, "bbox", "", "query box as south,west,north,east")
	cmd.Flags().BoolVarP(&write, "write", "w", false, "save the imported lots into the scenario")
	cmd.MarkFlagRequired("bbox")
	return cmd
}

func serveCmd() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve [project-path]",
		Short: "Start the HTTP API over a scenario",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), args[0], port)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "HTTP server port (default $PORT or 3000)")
	return cmd
}
