package main

import (
	"os"

	"github.com/aretw0/fieldline/internal/cli"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var traceCmd = &cobra.Command{
	Use:   "trace [request.yaml]",
	Short: "Trace one field line",
	Long: `Traces a field line described by flags or by a YAML/JSON request file.
Flags given together with a file override its values.`,
	Example: `  fieldline trace --start 3,0,0
  fieldline trace --start 6.6,0,0 --backward --tilt 20 --json
  fieldline trace request.yaml --capacity 200`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		opts := cli.TraceOptions{}
		opts.File, _ = flags.GetString("file")
		if opts.File == "" && len(args) > 0 {
			opts.File = args[0]
		}
		opts.Start, _ = flags.GetFloat64Slice("start")
		opts.Backward, _ = flags.GetBool("backward")
		opts.Internal, _ = flags.GetString("internal")
		opts.External, _ = flags.GetString("external")
		opts.MaxStep = changedFloat(flags, "max-step")
		opts.Tolerance = changedFloat(flags, "tolerance")
		opts.InnerRadius = changedFloat(flags, "inner-radius")
		opts.OuterRadius = changedFloat(flags, "outer-radius")
		if flags.Changed("capacity") {
			capacity, _ := flags.GetInt("capacity")
			opts.Capacity = &capacity
		}
		opts.Epoch, _ = flags.GetString("epoch")
		opts.JSON, _ = flags.GetBool("json")
		opts.TiltDegrees = changedFloat(flags, "tilt")

		ctx := cli.NewSignalContext(cmd.Context())
		defer ctx.Stop()
		return cli.RunTrace(ctx, engineOptions(cmd), opts, os.Stdout)
	},
}

func init() {
	rootCmd.AddCommand(traceCmd)

	f := traceCmd.Flags()
	f.StringP("file", "f", "", "Request file (.yaml, .yml or .json)")
	f.Float64Slice("start", nil, "Start point x,y,z in Earth radii (GSW)")
	f.BoolP("backward", "b", false, "Trace against the field direction")
	f.String("internal", "", "Internal field model (default dipole)")
	f.String("external", "", "External field model (default zero)")
	f.Float64("max-step", 0, "Largest step in Earth radii")
	f.Float64("tolerance", 0, "Local error tolerance per step")
	f.Float64("inner-radius", 0, "Inner boundary radius")
	f.Float64("outer-radius", 0, "Outer boundary radius")
	f.Int("capacity", 0, "Maximum number of points")
	f.Float64("tilt", 0, "Dipole tilt in degrees (overrides --epoch)")
	f.String("epoch", "", "RFC 3339 time used to compute the dipole tilt")
	f.Bool("json", false, "Print the trace record as JSON")
}

// changedFloat returns the flag value only when it was given on the command line.
func changedFloat(flags *pflag.FlagSet, name string) *float64 {
	if !flags.Changed(name) {
		return nil
	}
	v, _ := flags.GetFloat64(name)
	return &v
}
