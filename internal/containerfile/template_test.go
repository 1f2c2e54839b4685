package containerfile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpand(t *testing.T) {
	values := map[string]string{"name": "world"}

	tests := []struct {
		name    string
		tmpl    string
		want    string
		wantErr bool
	}{
		{name: "plain", tmpl: "hello", want: "hello"},
		{name: "placeholder", tmpl: "hello {name}!", want: "hello world!"},
		{name: "escaped braces", tmpl: `echo '{{"a": "{name}"}}'`, want: `echo '{"a": "world"}'`},
		{name: "unknown placeholder", tmpl: "{missing}", wantErr: true},
		{name: "unterminated", tmpl: "hello {name", wantErr: true},
		{name: "stray close", tmpl: "hello }", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := expand(tt.tmpl, values)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRender(t *testing.T) {
	tmpl := "FROM registry.access.redhat.com/ubi9/python-312\n\n" +
		"{dependencies}\n" +
		"{llama_stack_install_source}\n" +
		"RUN echo '{{\"ok\": true}}'\n"

	t.Run("without source install", func(t *testing.T) {
		got, err := Render(tmpl, "RUN uv pip install fastapi\n\n", "")
		require.NoError(t, err)
		assert.Equal(t, "# WARNING: This file is auto-generated. Do not modify it manually.\n"+
			"# Generated by: stackdist containerfile\n"+
			"FROM registry.access.redhat.com/ubi9/python-312\n"+
			"RUN uv pip install fastapi\n"+
			"RUN echo '{\"ok\": true}'\n", got)
	})

	t.Run("with source install", func(t *testing.T) {
		got, err := Render(tmpl, "RUN uv pip install fastapi", SourceInstall("v0.4.0+rhai0"))
		require.NoError(t, err)
		assert.Contains(t, got, "RUN uv pip install fastapi\n"+
			"RUN uv pip install --no-cache --no-deps git+https://github.com/opendatahub-io/llama-stack.git@v0.4.0+rhai0\n")
	})

	t.Run("bad template", func(t *testing.T) {
		_, err := Render("{unknown}", "", "")
		assert.Error(t, err)
	})
}
