package fieldline_test

import (
	"context"
	"fmt"
	"log"

	"github.com/aretw0/fieldline"
	"github.com/aretw0/fieldline/pkg/domain"
)

// ExampleEngine_Run traces a dipole field line from the equator at 3 planetary radii
// to its northern footpoint.
func ExampleEngine_Run() {
	eng, err := fieldline.New()
	if err != nil {
		log.Fatal(err)
	}

	req := domain.NewTraceRequest(domain.Vec3{X: 3}, domain.Forward)
	req.Config.OuterRadius = 20

	record, err := eng.Run(context.Background(), req)
	if err != nil {
		log.Fatal(err)
	}

	end := record.Result.Endpoint
	hemisphere := "north"
	if end.Z < 0 {
		hemisphere = "south"
	}
	fmt.Printf("%s at r=%.3f (%s)\n", record.Result.Reason, end.Norm(), hemisphere)
	// Output: inner_boundary at r=1.000 (north)
}
