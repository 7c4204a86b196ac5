package multiquadlet_test

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poly-gun/multiquadlet"
)

func TestStager(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	t.Run("Provenance-Header", func(t *testing.T) {
		stager := &multiquadlet.Stager{Dir: t.TempDir(), Logger: logger}

		sections := []multiquadlet.Section{{Filename: "a.container", Lines: []string{"[Container]", "Image=quay.io/example/a:latest"}}}
		require.NoError(t, stager.Stage("stack.multiquadlet", sections))

		content, e := os.ReadFile(filepath.Join(stager.Dir, "a.container"))
		require.NoError(t, e)
		assert.Equal(t, "# Automatically generated by multiquadlet-generator from stack.multiquadlet\n[Container]\nImage=quay.io/example/a:latest\n", string(content))
	})

	t.Run("Rollback-On-Collision", func(t *testing.T) {
		stager := &multiquadlet.Stager{Dir: t.TempDir(), Logger: logger}

		// b.container is already occupied, e.g. by a passthrough file.
		require.NoError(t, os.WriteFile(filepath.Join(stager.Dir, "b.container"), []byte("[Container]\n"), 0o644))

		sections := []multiquadlet.Section{
			{Filename: "a.container", Lines: []string{"Foo=Bar"}},
			{Filename: "b.container", Lines: []string{"Baz=Qux"}},
		}

		e := stager.Stage("stack.multiquadlet", sections)

		var collision *multiquadlet.CollisionError
		require.ErrorAs(t, e, &collision)
		assert.Equal(t, "stack.multiquadlet", collision.Document)
		assert.Equal(t, "b.container", collision.Filename)

		// All of the failing document's files are gone, the pre-existing occupant is untouched.
		assert.NoFileExists(t, filepath.Join(stager.Dir, "a.container"))
		content, readError := os.ReadFile(filepath.Join(stager.Dir, "b.container"))
		require.NoError(t, readError)
		assert.Equal(t, "[Container]\n", string(content))
	})

	t.Run("Earlier-Documents-Not-Rolled-Back", func(t *testing.T) {
		stager := &multiquadlet.Stager{Dir: t.TempDir(), Logger: logger}

		require.NoError(t, stager.Stage("first.multiquadlet", []multiquadlet.Section{{Filename: "a.container", Lines: []string{"Foo=Bar"}}}))

		e := stager.Stage("second.multiquadlet", []multiquadlet.Section{
			{Filename: "b.container", Lines: []string{"Baz=Qux"}},
			{Filename: "a.container", Lines: []string{"Clash=True"}},
		})

		var collision *multiquadlet.CollisionError
		require.ErrorAs(t, e, &collision)
		assert.Equal(t, "second.multiquadlet", collision.Document)

		// The completed first document survives; the failing second document leaves nothing behind.
		assert.FileExists(t, filepath.Join(stager.Dir, "a.container"))
		assert.NoFileExists(t, filepath.Join(stager.Dir, "b.container"))
	})

	t.Run("Copy-Passthrough", func(t *testing.T) {
		input := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(input, "x.container"), []byte("[Container]\nImage=x\n"), 0o644))
		require.NoError(t, os.WriteFile(filepath.Join(input, "y.volume"), []byte("[Volume]\n"), 0o644))
		require.NoError(t, os.WriteFile(filepath.Join(input, "notes.txt"), []byte("not a unit\n"), 0o644))
		require.NoError(t, os.WriteFile(filepath.Join(input, "stack.multiquadlet"), []byte("--- z.container ---\n"), 0o644))

		stager := &multiquadlet.Stager{Dir: t.TempDir(), Logger: logger}
		require.NoError(t, stager.CopyPassthrough(input))

		content, e := os.ReadFile(filepath.Join(stager.Dir, "x.container"))
		require.NoError(t, e)
		assert.Equal(t, "[Container]\nImage=x\n", string(content))
		assert.FileExists(t, filepath.Join(stager.Dir, "y.volume"))

		// Composite documents and unrelated files are not passed through.
		assert.NoFileExists(t, filepath.Join(stager.Dir, "notes.txt"))
		assert.NoFileExists(t, filepath.Join(stager.Dir, "stack.multiquadlet"))
	})

	t.Run("Reset-Clears-Previous-Run", func(t *testing.T) {
		stager := &multiquadlet.Stager{Dir: filepath.Join(t.TempDir(), "staging"), Logger: logger}

		require.NoError(t, stager.Reset())
		require.NoError(t, os.WriteFile(filepath.Join(stager.Dir, "stale.container"), []byte("old\n"), 0o644))

		require.NoError(t, stager.Reset())
		assert.NoFileExists(t, filepath.Join(stager.Dir, "stale.container"))
		assert.DirExists(t, stager.Dir)
	})
}
