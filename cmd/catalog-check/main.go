// catalog-check validates a landslide catalog CSV export without starting the
// server: it prints the load report and exits non-zero when the dataset as a
// whole is unusable.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/lvasseur/go-landslides/internal/logging"
	"github.com/lvasseur/go-landslides/internal/store"
)

func main() {
	path := flag.String("csv", "./data/Global_Landslide_Catalog_Export.csv", "path to the catalog CSV export")
	maxReject := flag.Float64("max-reject", 0.5, "maximum tolerated fraction of rejected rows")
	verbose := flag.Bool("v", false, "print every row rejection")
	flag.Parse()

	logging.Setup("warn")

	rows, err := store.ReadCSVFile(*path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "cannot read catalog: %v\n", err)
		os.Exit(1)
	}

	catalog, report, err := store.Load(rows, store.Options{MaxRejectFraction: *maxReject})

	fmt.Printf("rows:     %d\n", len(rows))
	if report != nil {
		fmt.Printf("accepted: %d\n", report.Accepted)
		fmt.Printf("rejected: %d\n", report.Rejected)
		if *verbose {
			for _, re := range report.Errors {
				fmt.Printf("  %s\n", re.Error())
			}
		}
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "catalog unusable: %v\n", err)
		os.Exit(1)
	}

	minYear, maxYear := catalog.YearBounds()
	fmt.Printf("years:    %d-%d\n", minYear, maxYear)
	for _, field := range []string{store.FieldCategory, store.FieldTrigger, store.FieldSize} {
		values, _ := catalog.DistinctValues(field)
		fmt.Printf("%s: %d distinct values\n", field, len(values))
	}
}
