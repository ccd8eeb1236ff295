package main_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/fwojciec/harvest"
	main "github.com/fwojciec/harvest/cmd/harvest"
	"github.com/fwojciec/harvest/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDeps(stdout, stderr io.Writer) *main.Dependencies {
	return &main.Dependencies{
		Ctx:    context.Background(),
		Stdout: stdout,
		Stderr: stderr,
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func TestParseCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("extracts records from saved files", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		page := filepath.Join(dir, "acme.html")
		require.NoError(t, os.WriteFile(page, []byte(searchPage), 0644))

		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}
		cmd := &main.ParseCmd{
			Files:        []string{page},
			BaseURL:      "https://projects.propublica.org/coronavirus/bailouts/search",
			ProfileFlags: main.ProfileFlags{Profile: "ppp-loans"},
			OutputFlags:  main.OutputFlags{Output: dir, Prefix: "harvest_results"},
		}

		err := cmd.Run(testDeps(stdout, stderr))

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), page+": 2 records")
		assert.Contains(t, stdout.String(), "Extracted 2 records from 1 documents")
		assert.Len(t, resultFiles(t, dir), 1)
	})

	t.Run("uses profile file", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		page := filepath.Join(dir, "widgets.html")
		require.NoError(t, os.WriteFile(page, []byte(`<ul>
			<li class="item"><span class="name">Widget</span><span class="price">$9.99</span></li>
			<li class="item"><span class="price">$1.00</span></li>
		</ul>`), 0644))
		profileFile := filepath.Join(dir, "profile.yaml")
		require.NoError(t, os.WriteFile(profileFile, []byte(`
profile:
  name: widgets
  boundaries: ["li.item"]
  identity: name
  fields:
    - name: name
      lookups:
        - selector: span.name
    - name: price
      kind: amount
      lookups:
        - selector: span.price
`), 0644))

		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}
		cmd := &main.ParseCmd{
			Files:        []string{page},
			ProfileFlags: main.ProfileFlags{ProfileFile: profileFile},
			OutputFlags:  main.OutputFlags{Output: dir, Prefix: "widgets"},
		}

		err := cmd.Run(testDeps(stdout, stderr))

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), page+": 1 records")
		files, err := filepath.Glob(filepath.Join(dir, "widgets_*.json"))
		require.NoError(t, err)
		assert.Len(t, files, 1)
	})

	t.Run("reports write failure", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		page := filepath.Join(dir, "acme.html")
		require.NoError(t, os.WriteFile(page, []byte(searchPage), 0644))

		var written *harvest.Run
		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}
		deps := testDeps(stdout, stderr)
		deps.Writer = &mock.RunWriter{
			WriteRunFn: func(_ context.Context, run *harvest.Run) (string, error) {
				written = run
				return "", errors.New("disk full")
			},
		}
		cmd := &main.ParseCmd{
			Files:        []string{page},
			ProfileFlags: main.ProfileFlags{Profile: "ppp-loans"},
		}

		err := cmd.Run(deps)

		require.EqualError(t, err, "disk full")
		require.NotNil(t, written)
		assert.Equal(t, 2, written.TotalRecords)
		assert.Contains(t, stderr.String(), "failed to write results: disk full")
	})

	t.Run("rejects profile file without profile section", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		profileFile := filepath.Join(dir, "gate-only.yaml")
		require.NoError(t, os.WriteFile(profileFile, []byte("gate:\n  fingerprints: [\"captcha\"]\n"), 0644))

		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}
		cmd := &main.ParseCmd{
			Files:        []string{profileFile},
			ProfileFlags: main.ProfileFlags{ProfileFile: profileFile},
			OutputFlags:  main.OutputFlags{Output: dir},
		}

		err := cmd.Run(testDeps(stdout, stderr))

		require.Error(t, err)
		assert.Equal(t, harvest.EINVALID, harvest.ErrorCode(err))
		assert.Contains(t, stderr.String(), "no profile section")
	})

	t.Run("rejects invalid profile", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		profileFile := filepath.Join(dir, "bad.yaml")
		require.NoError(t, os.WriteFile(profileFile, []byte("profile:\n  name: bad\n  identity: name\n"), 0644))

		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}
		cmd := &main.ParseCmd{
			Files:        []string{profileFile},
			ProfileFlags: main.ProfileFlags{ProfileFile: profileFile},
			OutputFlags:  main.OutputFlags{Output: dir},
		}

		err := cmd.Run(testDeps(stdout, stderr))

		require.Error(t, err)
		assert.Equal(t, harvest.EINVALID, harvest.ErrorCode(err))
	})
}
