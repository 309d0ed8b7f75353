package main

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/UnknownOlympus/pakketpunt/internal/catalog"
	"github.com/spf13/cobra"
)

var pointsCmd = &cobra.Command{
	Use:   "points [query]",
	Short: "List pickup points matching the query with their cached coordinates",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runPoints,
}

func runPoints(cmd *cobra.Command, args []string) error {
	application, err := newApp(context.Background(), nil)
	if err != nil {
		return err
	}
	defer application.Close()

	query := strings.Join(args, " ")
	points := catalog.Filter(application.catalog.Points(application.cache.Snapshot()), query)

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tPOSTCODE\tCITY\tLAT\tLNG")
	for _, p := range points {
		lat, lng := "-", "-"
		if p.HasCoords() {
			lat = fmt.Sprintf("%.6f", p.Coords.Latitude)
			lng = fmt.Sprintf("%.6f", p.Coords.Longitude)
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n", p.ID, p.Name, p.PostalCode, p.City, lat, lng)
	}

	center := catalog.Center(points)
	fmt.Fprintf(tw, "\ncentre\t%.6f, %.6f\n", center.Latitude, center.Longitude)

	return tw.Flush()
}
