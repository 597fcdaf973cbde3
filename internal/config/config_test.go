package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeModule(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		path := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return root
}

// TestLoad_Defaults verifies convention-only configuration from go.mod.
func TestLoad_Defaults(t *testing.T) {
	t.Parallel()

	root := writeModule(t, map[string]string{
		"go.mod": "module example.com/demo\n\ngo 1.25.0\n",
	})

	cfg, err := Load(root)
	require.NoError(t, err)

	assert.Equal(t, "example.com/demo", cfg.Module)
	assert.Equal(t, []string{"./..."}, cfg.Scan)
	assert.Empty(t, cfg.Exclude)
	assert.Equal(t, "handlergen/pkg/handler.Handler", cfg.Contract.Qualified())
	assert.Equal(t, "internal/registrations", cfg.Output.Dir)
	assert.Equal(t, "registrations", cfg.Output.Package)
	assert.Equal(t, "example.com/demo/internal/registrations", cfg.OutputPkgPath())
}

// TestLoad_Manifest verifies handlergen.toml overrides the defaults.
func TestLoad_Manifest(t *testing.T) {
	t.Parallel()

	root := writeModule(t, map[string]string{
		"go.mod": "module example.com/demo\n",
		ManifestName: `
[scan]
paths = ["./internal/...", "./pkg/..."]
exclude = ["./internal/legacy"]

[contract]
package = "example.com/demo/pkg/mediator"
name = "RequestHandler"

[output]
dir = "internal/app"
package = "app"
file = "wiring.gen.go"
`,
	})

	cfg, err := Load(root)
	require.NoError(t, err)

	assert.Equal(t, []string{"./internal/...", "./pkg/..."}, cfg.Scan)
	assert.Equal(t, []string{"./internal/legacy"}, cfg.Exclude)
	assert.Equal(t, "example.com/demo/pkg/mediator.RequestHandler", cfg.Contract.Qualified())
	assert.Equal(t, "internal/app", cfg.Output.Dir)
	assert.Equal(t, "app", cfg.Output.Package)
	assert.Equal(t, "wiring.gen.go", cfg.Output.File)
	assert.Equal(t, "example.com/demo/internal/app", cfg.OutputPkgPath())
}

// TestLoad_PartialManifest verifies unset manifest fields keep defaults.
func TestLoad_PartialManifest(t *testing.T) {
	t.Parallel()

	root := writeModule(t, map[string]string{
		"go.mod":     "module example.com/demo\n",
		ManifestName: "[output]\npackage = \"wiring\"\n",
	})

	cfg, err := Load(root)
	require.NoError(t, err)
	assert.Equal(t, "wiring", cfg.Output.Package)
	assert.Equal(t, "internal/registrations", cfg.Output.Dir)
	assert.Equal(t, []string{"./..."}, cfg.Scan)
}

// TestLoad_MissingGoMod verifies a module-less directory fails.
func TestLoad_MissingGoMod(t *testing.T) {
	t.Parallel()

	_, err := Load(t.TempDir())
	require.Error(t, err)
}

// TestFindModuleRoot_WalksUp verifies root discovery from a nested
// directory.
func TestFindModuleRoot_WalksUp(t *testing.T) {
	t.Parallel()

	root := writeModule(t, map[string]string{
		"go.mod":                "module example.com/demo\n",
		"internal/deep/stub.go": "package deep\n",
	})

	found, err := FindModuleRoot(filepath.Join(root, "internal", "deep"))
	require.NoError(t, err)
	// TempDir may sit behind a symlink; compare resolved paths.
	wantRoot, err := filepath.EvalSymlinks(root)
	require.NoError(t, err)
	gotRoot, err := filepath.EvalSymlinks(found)
	require.NoError(t, err)
	assert.Equal(t, wantRoot, gotRoot)
}

// TestOutputPkgPath_RootDir verifies "." output dir maps to the module path
// itself.
func TestOutputPkgPath_RootDir(t *testing.T) {
	t.Parallel()

	cfg := &Config{Module: "example.com/demo", Output: Output{Dir: "."}}
	assert.Equal(t, "example.com/demo", cfg.OutputPkgPath())
}
