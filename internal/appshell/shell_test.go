package appshell

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRunDefaultsToHelp(t *testing.T) {
	var got []string
	code := Run(func(_ context.Context, argv []string, _, _ io.Writer) int {
		got = argv
		return 0
	}, nil, io.Discard, io.Discard)
	assert.Equal(t, 0, code)
	assert.Equal(t, []string{"-h"}, got)
}

func TestRunPassesCode(t *testing.T) {
	code := Run(func(context.Context, []string, io.Writer, io.Writer) int { return 5 }, []string{"-o", "mouse"}, io.Discard, io.Discard)
	assert.Equal(t, 5, code)
}
