package geoterm_test

import (
	"context"
	"fmt"
	"log"

	"github.com/hupe1980/geoterm"
)

const (
	exampleField = "POLYGON((11.600 48.100, 11.601 48.100, 11.601 48.101, 11.600 48.101, 11.600 48.100))"
	exampleQuery = "POLYGON((11.6005 48.1005, 11.6015 48.1005, 11.6015 48.1015, 11.6005 48.1015, 11.6005 48.1005))"
	exampleFar   = "POLYGON((11.650 48.150, 11.651 48.150, 11.651 48.151, 11.650 48.151, 11.650 48.150))"
)

// Example_engine indexes two fields and searches with an overlapping polygon.
func Example_engine() {
	ctx := context.Background()

	eng, err := geoterm.New()
	if err != nil {
		log.Fatal(err)
	}

	if err := eng.Index(ctx, "near", exampleField); err != nil {
		log.Fatal(err)
	}
	if err := eng.Index(ctx, "far", exampleFar); err != nil {
		log.Fatal(err)
	}

	keys, err := eng.Search(ctx, exampleQuery)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(keys)
	// Output: [near]
}

// ExampleProcessor_AddWKT shows the rejection of a polygon without area.
func ExampleProcessor_AddWKT() {
	p := geoterm.NewProcessor()

	ok := p.AddWKT("POLYGON((0 0, 1 1, 2 2, 0 0))", geoterm.DefaultCoverConfig())

	fmt.Println(ok, p.Reason())
	// Output: false zero area
}

// ExampleTokenToDecimal converts a cell token to its decimal id.
func ExampleTokenToDecimal() {
	dec, err := geoterm.TokenToDecimal("89c25")
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(dec)
	// Output: 9926584489608216576
}
