package main

import (
	"bytes"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	require.NoError(t, rootCmd.Execute())
	return out.String()
}

func TestVersion(t *testing.T) {
	assert.Contains(t, run(t, "version"), "fieldline version ")
}

func TestModels(t *testing.T) {
	out := run(t, "models")
	assert.Contains(t, out, "dipole\n")
	assert.Contains(t, out, "uniform\n")
}

func TestChangedFloat(t *testing.T) {
	flags := pflag.NewFlagSet("trace", pflag.ContinueOnError)
	flags.Float64("inner-radius", 0, "")
	flags.Float64("outer-radius", 0, "")
	require.NoError(t, flags.Parse([]string{"--inner-radius", "0"}))

	inner := changedFloat(flags, "inner-radius")
	require.NotNil(t, inner)
	assert.Zero(t, *inner)
	assert.Nil(t, changedFloat(flags, "outer-radius"))
}
