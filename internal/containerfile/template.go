package containerfile

import (
	"fmt"
	"strings"
)

// generatedWarning is prepended to every rendered Containerfile.
const generatedWarning = "# WARNING: This file is auto-generated. Do not modify it manually.\n# Generated by: stackdist containerfile\n\n"

// Template placeholders.
const (
	FieldDependencies  = "dependencies"
	FieldSourceInstall = "llama_stack_install_source"
)

// expand substitutes {name} placeholders in tmpl from values. "{{" and "}}"
// produce literal braces, so shell and JSON snippets in the template stay
// intact when escaped.
//
// Returns an error for an unknown or unterminated placeholder, or a stray "}".
func expand(tmpl string, values map[string]string) (string, error) {
	var b strings.Builder
	for i := 0; i < len(tmpl); i++ {
		c := tmpl[i]
		switch {
		case c == '{' && i+1 < len(tmpl) && tmpl[i+1] == '{':
			b.WriteByte('{')
			i++
		case c == '}' && i+1 < len(tmpl) && tmpl[i+1] == '}':
			b.WriteByte('}')
			i++
		case c == '{':
			end := strings.IndexByte(tmpl[i+1:], '}')
			if end < 0 {
				return "", fmt.Errorf("unterminated placeholder at offset %d", i)
			}
			name := tmpl[i+1 : i+1+end]
			v, ok := values[name]
			if !ok {
				return "", fmt.Errorf("unknown placeholder {%s}", name)
			}
			b.WriteString(v)
			i += end + 1
		case c == '}':
			return "", fmt.Errorf("single '}' at offset %d", i)
		default:
			b.WriteByte(c)
		}
	}
	return b.String(), nil
}

// Render produces the Containerfile from its template.
//
// Parameters:
//   - tmpl: Containerfile.in content
//   - dependencies: output of ParseDependencies
//   - sourceInstall: output of SourceInstall, may be empty
//
// Returns:
//   - The Containerfile with the generated-file warning, blank lines removed
//     and a single trailing newline
func Render(tmpl, dependencies, sourceInstall string) (string, error) {
	body, err := expand(tmpl, map[string]string{
		FieldDependencies:  strings.TrimRight(dependencies, " \t\r\n"),
		FieldSourceInstall: sourceInstall,
	})
	if err != nil {
		return "", fmt.Errorf("failed to render Containerfile template: %w", err)
	}

	var lines []string
	for _, line := range strings.Split(generatedWarning+body, "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n") + "\n", nil
}
