// pkg/output/renderer_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: errors
// PURPOSE: Test template rendering of command results

package output

import (
	"bytes"
	"testing"

	"github.com/dotboot/dotboot/pkg/errors"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPlain(t *testing.T) (*Renderer, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	r, err := NewRenderer(&buf, true)
	require.NoError(t, err)
	return r, &buf
}

func TestRenderApply(t *testing.T) {
	tests := []struct {
		name   string
		report *ApplyReport
		want   string
	}{
		{
			name: "changes written",
			report: &ApplyReport{
				Targets:   []string{"git", "nix-cache"},
				Changed:   []string{"/etc/nix/nix.conf", "/home/me/.gitconfig"},
				Unchanged: []string{"/etc/nix/secret-key"},
			},
			want: "Targets: git, nix-cache\n" +
				"  wrote /etc/nix/nix.conf\n" +
				"  wrote /home/me/.gitconfig\n" +
				"  unchanged   /etc/nix/secret-key\n" +
				"2 changed, 1 unchanged\n",
		},
		{
			name: "dry run",
			report: &ApplyReport{
				Targets: []string{"aws"},
				Changed: []string{"/home/me/.aws/config"},
				DryRun:  true,
			},
			want: "DRY RUN: nothing was written\n" +
				"Targets: aws\n" +
				"  would write /home/me/.aws/config\n" +
				"1 changed, 0 unchanged\n",
		},
		{
			name: "nothing to do",
			report: &ApplyReport{
				Targets:   []string{"git"},
				Unchanged: []string{"/home/me/.gitconfig"},
			},
			want: "Targets: git\n" +
				"  unchanged   /home/me/.gitconfig\n" +
				"Everything up to date, 1 unchanged\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, buf := newPlain(t)
			require.NoError(t, r.RenderApply(tt.report))
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestRenderTargets(t *testing.T) {
	r, buf := newPlain(t)
	require.NoError(t, r.RenderTargets([]TargetInfo{
		{Name: "git", Description: "git config"},
		{Name: "nix-cache", Description: "binary cache"},
	}))
	assert.Equal(t, "Available targets:\n  git        git config\n  nix-cache  binary cache\n", buf.String())
}

func TestRenderError(t *testing.T) {
	r, buf := newPlain(t)
	err := errors.New(errors.ErrIO, "failed to write /etc/nix/nix.conf").
		WithDetail(errors.DetailPath, "/etc/nix/nix.conf").
		WithDetail(errors.DetailOperation, "write")

	require.NoError(t, r.RenderError(err))
	assert.Equal(t,
		"Error: [IO] failed to write /etc/nix/nix.conf\n  operation: write\n  path: /etc/nix/nix.conf\n",
		buf.String())
}

func TestRenderWithColor(t *testing.T) {
	r, buf := newPlain(t)
	r.ForceColor(termenv.ANSI256)

	require.NoError(t, r.RenderMessage("Changed", "done"))
	assert.Contains(t, buf.String(), "done")
	assert.Contains(t, buf.String(), "\x1b[", "styled output carries ANSI escapes")

	buf.Reset()
	r.color = false
	require.NoError(t, r.RenderMessage("Changed", "done"))
	assert.Equal(t, "done\n", buf.String())
}

func TestColorEnabled(t *testing.T) {
	assert.False(t, ColorEnabled(&bytes.Buffer{}, false), "buffers are not terminals")
	assert.False(t, ColorEnabled(&bytes.Buffer{}, true))

	t.Setenv("NO_COLOR", "1")
	assert.False(t, ColorEnabled(nil, false))
}

func TestPad(t *testing.T) {
	assert.Equal(t, "ab   ", pad("ab", 5))
	assert.Equal(t, "abcdef", pad("abcdef", 3))
}
