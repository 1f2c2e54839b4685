package distro

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixtureDist = "testdata/repo/distribution"

func TestLoadExternalProviders(t *testing.T) {
	ext, err := LoadExternalProviders(filepath.Join(fixtureDist, "build.yaml"))
	require.NoError(t, err)

	assert.Equal(t, map[string]string{
		"remote::trustyai_lmeval": "Yes (version 0.2.4)",
		"remote::trustyai_fms":    "Yes",
	}, ext)
}

func TestLoadExternalProviders_Missing(t *testing.T) {
	_, err := LoadExternalProviders(filepath.Join(t.TempDir(), "build.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadRunProviders_Empty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	require.NoError(t, os.WriteFile(path, []byte("version: 2\nproviders: {}\n"), 0o644))

	_, err := LoadRunProviders(path)
	assert.ErrorIs(t, err, ErrNoProviders)
}

func TestLoadRunProviders_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	require.NoError(t, os.WriteFile(path, []byte("providers: [unclosed\n"), 0o644))

	_, err := LoadRunProviders(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse run configuration YAML")
}

func TestBuildRows(t *testing.T) {
	providers, err := LoadRunProviders(filepath.Join(fixtureDist, "run.yaml"))
	require.NoError(t, err)
	ext, err := LoadExternalProviders(filepath.Join(fixtureDist, "build.yaml"))
	require.NoError(t, err)

	rows := BuildRows(providers, ext)

	assert.Equal(t, []ProviderRow{
		{API: "eval", ProviderType: "remote::trustyai_lmeval", External: "Yes (version 0.2.4)", Enabled: true, HowToEnable: "N/A"},
		{API: "inference", ProviderType: "inline::sentence-transformers", External: "No", Enabled: true, HowToEnable: "N/A"},
		{API: "inference", ProviderType: "remote::vllm", External: "No", Enabled: false, HowToEnable: "Set the `VLLM_URL` environment variable"},
		{API: "vector_io", ProviderType: "inline::faiss", External: "No", Enabled: false, HowToEnable: "Set the `ENABLE_FAISS` environment variable"},
		{API: "vector_io", ProviderType: "inline::milvus", External: "No", Enabled: true, HowToEnable: "N/A"},
	}, rows)
}

func TestBuildRows_ConditionalWithoutEnvPrefix(t *testing.T) {
	providers := map[string]any{
		"safety": []any{
			map[string]any{"provider_id": "${SAFETY_URL:+fms}", "provider_type": "remote::fms"},
			map[string]any{"provider_type": "inline::llama-guard"},
			"garbage",
		},
	}

	rows := BuildRows(providers, nil)

	require.Len(t, rows, 2)
	assert.Equal(t, "inline::llama-guard", rows[0].ProviderType)
	assert.True(t, rows[0].Enabled)
	assert.Equal(t, "Set the `SAFETY_URL` environment variable", rows[1].HowToEnable)
}

func TestRenderTable(t *testing.T) {
	out := RenderTable([]ProviderRow{
		{API: "inference", ProviderType: "remote::vllm", External: "No", Enabled: false, HowToEnable: "Set the `VLLM_URL` environment variable"},
	})

	assert.Equal(t,
		"| API | Provider | External? | Enabled by default? | How to enable |\n"+
			"|-----|----------|-----------|---------------------|---------------|\n"+
			"| inference | remote::vllm | No | ❌ | Set the `VLLM_URL` environment variable |",
		out)
}
