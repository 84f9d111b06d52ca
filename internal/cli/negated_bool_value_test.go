package cli

import (
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNegatedBoolValue(t *testing.T) {
	t.Parallel()

	for _, tc := range []struct {
		name  string
		args  []string
		color bool
	}{
		{"default", nil, false},
		{"color", []string{"--color"}, true},
		{"no-color", []string{"--no-color"}, false},
		{"color then no-color", []string{"-c", "--no-color"}, false},
		{"no-color=false", []string{"--no-color=false"}, true},
	} {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			var df diffFlags
			flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
			addDiffFlags(flags, &df)
			require.NoError(t, flags.Parse(tc.args))
			assert.Equal(t, tc.color, df.color)
		})
	}
}
