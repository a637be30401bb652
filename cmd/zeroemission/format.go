package main

import (
	"fmt"
	"io"

	"github.com/yusuferdem16/zero-emission/internal/directions"
	"github.com/yusuferdem16/zero-emission/pkg/geo"
	"github.com/yusuferdem16/zero-emission/pkg/routing"
	"github.com/yusuferdem16/zero-emission/pkg/spec"
	"github.com/yusuferdem16/zero-emission/pkg/validation"
	"github.com/yusuferdem16/zero-emission/pkg/zone"
)

func printValidationReport(w io.Writer, r *validation.Report) {
	if len(r.Errors) > 0 {
		fmt.Fprintf(w, "ERRORS (%d):\n", len(r.Errors))
		for _, e := range r.Errors {
			fmt.Fprintf(w, "  [%s] %s\n", e.Level, e.Message)
			if e.Path != "" {
				fmt.Fprintf(w, "    -> %s = %v\n", e.Path, e.ActualValue)
			}
			if e.Expected != "" {
				fmt.Fprintf(w, "    expected: %s\n", e.Expected)
			}
			if e.ConflictWith != "" {
				fmt.Fprintf(w, "    conflicts with: %s\n", e.ConflictWith)
			}
			for _, s := range e.Suggestions {
				fmt.Fprintf(w, "    * %s\n", s)
			}
		}
		fmt.Fprintln(w)
	}

	if len(r.Warnings) > 0 {
		fmt.Fprintf(w, "WARNINGS (%d):\n", len(r.Warnings))
		for _, wr := range r.Warnings {
			fmt.Fprintf(w, "  [%s] %s\n", wr.Level, wr.Message)
			if wr.Path != "" {
				fmt.Fprintf(w, "    -> %s = %v\n", wr.Path, wr.ActualValue)
			}
			if wr.ConflictWith != "" {
				fmt.Fprintf(w, "    conflicts with: %s\n", wr.ConflictWith)
			}
			for _, s := range wr.Suggestions {
				fmt.Fprintf(w, "    * %s\n", s)
			}
		}
		fmt.Fprintln(w)
	}

	if len(r.Info) > 0 {
		fmt.Fprintf(w, "INFO (%d):\n", len(r.Info))
		for _, i := range r.Info {
			fmt.Fprintf(w, "  [%s] %s\n", i.Level, i.Message)
		}
		fmt.Fprintln(w)
	}

	if r.Valid {
		fmt.Fprintf(w, "Result: VALID (%s)\n", r.Summary)
	} else {
		fmt.Fprintf(w, "Result: INVALID (%s)\n", r.Summary)
	}
}

func printDecision(w io.Writer, v routing.Vehicle, d routing.Decision, paths []directions.Path) {
	fmt.Fprintf(w, "Vehicle:      %s (%s) at %s\n", v.ID, v.Access, formatPoint(v.Position))
	fmt.Fprintf(w, "Destination:  %s\n", formatPoint(d.Destination))
	fmt.Fprintf(w, "Outcome:      %s\n", d.Outcome())
	if d.Restricted {
		fmt.Fprintf(w, "  destination in zone: %t\n", d.DestinationInZone)
		fmt.Fprintf(w, "  path crosses zone:   %t\n", d.PathCrossesZone)
	}
	if msg := directions.Message(d); msg != "" {
		fmt.Fprintln(w, msg)
	}
	if len(paths) == 0 {
		return
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%-4s %-22s %-22s %10s %7s\n", "Leg", "From", "To", "Distance", "Points")
	fmt.Fprintf(w, "%-4s %-22s %-22s %10s %7s\n", "---", "----------------------", "----------------------", "----------", "-------")
	var total float64
	for i, p := range paths {
		dist := pathLength(p.Points)
		total += dist
		pts := fmt.Sprintf("%d", len(p.Points))
		if p.Fallback {
			pts += "*"
		}
		fmt.Fprintf(w, "%-4d %-22s %-22s %10s %7s\n", i+1, formatPoint(p.Leg.From), formatPoint(p.Leg.To), formatDistance(dist), pts)
	}
	fmt.Fprintf(w, "%-4s %-22s %-22s %10s\n", "", "", "TOTAL", formatDistance(total))
}

func printZone(w io.Writer, d spec.ZoneDef) {
	switch d.Shape {
	case zone.ShapeCircle:
		center := geo.Point{}
		if d.Center != nil {
			center = *d.Center
		}
		fmt.Fprintf(w, "  %-20s circle   center %s radius %s\n", d.ID, formatPoint(center), formatDistance(d.Radius))
	default:
		fmt.Fprintf(w, "  %-20s polygon  %d points\n", d.ID, len(d.Points))
		for i, p := range d.Points {
			fmt.Fprintf(w, "    %2d  %s\n", i, formatPoint(p))
		}
	}
}

func pathLength(pts []geo.Point) float64 {
	var sum float64
	for i := 1; i < len(pts); i++ {
		sum += geo.Distance(pts[i-1], pts[i])
	}
	return sum
}

func formatPoint(p geo.Point) string {
	return fmt.Sprintf("%.5f,%.5f", p.Lat, p.Lng)
}

func formatDistance(m float64) string {
	if m >= 10_000 {
		return fmt.Sprintf("%.1fkm", m/1_000)
	}
	if m >= 1_000 {
		return fmt.Sprintf("%.2fkm", m/1_000)
	}
	return fmt.Sprintf("%.0fm", m)
}
