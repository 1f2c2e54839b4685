package distro

import (
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	enabledMark  = "✅"
	disabledMark = "❌"
	notExternal  = "No"
)

// conditionalIDPattern matches "${...:+...}" provider ids, which are only
// populated when an environment variable is set.
var conditionalIDPattern = regexp.MustCompile(`\$\{([^}]*:\+[^}]*)\}`)

// ProviderRow is one line of the provider table.
type ProviderRow struct {
	API          string
	ProviderType string
	External     string
	Enabled      bool
	HowToEnable  string
}

// runConfig is the subset of run.yaml the generator reads.
type runConfig struct {
	Providers map[string]any `yaml:"providers"`
}

// buildConfig is the subset of build.yaml the generator reads.
type buildConfig struct {
	DistributionSpec struct {
		Providers map[string]any `yaml:"providers"`
	} `yaml:"distribution_spec"`
}

// providerEntries iterates the provider lists of a providers section,
// skipping anything that is not a list of mappings with a provider_type.
func providerEntries(section map[string]any, fn func(api string, entry map[string]any, providerType string)) {
	apis := make([]string, 0, len(section))
	for api := range section {
		apis = append(apis, api)
	}
	sort.Strings(apis)

	for _, api := range apis {
		items, ok := section[api].([]any)
		if !ok {
			continue
		}
		for _, item := range items {
			entry, ok := item.(map[string]any)
			if !ok {
				continue
			}
			pt, ok := entry["provider_type"]
			if !ok {
				continue
			}
			fn(api, entry, fmt.Sprint(pt))
		}
	}
}

// LoadExternalProviders reads build.yaml and reports which provider types are
// installed from an external module.
//
// Returns:
//   - provider_type -> "Yes (version X)" when the module pins "==X", else "Yes"
//   - Error if the file cannot be read or parsed
func LoadExternalProviders(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read build spec %s: %w", path, err)
	}

	var cfg buildConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse build spec YAML: %w", err)
	}

	external := make(map[string]string)
	providerEntries(cfg.DistributionSpec.Providers, func(_ string, entry map[string]any, providerType string) {
		module, _ := entry["module"].(string)
		if module == "" {
			return
		}
		if strings.Contains(module, "==") {
			parts := strings.Split(module, "==")
			external[providerType] = fmt.Sprintf("Yes (version %s)", parts[len(parts)-1])
			return
		}
		external[providerType] = "Yes"
	})
	return external, nil
}

// LoadRunProviders reads the providers section of run.yaml.
func LoadRunProviders(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read run configuration %s: %w", path, err)
	}

	var cfg runConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse run configuration YAML: %w", err)
	}
	if len(cfg.Providers) == 0 {
		return nil, ErrNoProviders
	}
	return cfg.Providers, nil
}

// BuildRows turns a run.yaml providers section into table rows sorted by
// API, then provider type.
func BuildRows(providers map[string]any, external map[string]string) []ProviderRow {
	var rows []ProviderRow
	providerEntries(providers, func(api string, entry map[string]any, providerType string) {
		row := ProviderRow{
			API:          api,
			ProviderType: providerType,
			External:     notExternal,
			Enabled:      true,
			HowToEnable:  "N/A",
		}
		if ext, ok := external[providerType]; ok {
			row.External = ext
		}

		id := ""
		if v, ok := entry["provider_id"]; ok && v != nil {
			id = fmt.Sprint(v)
		}
		if m := conditionalIDPattern.FindStringSubmatch(id); m != nil {
			name, _, _ := strings.Cut(m[1], ":+")
			name = strings.TrimPrefix(name, "env.")
			row.Enabled = false
			row.HowToEnable = fmt.Sprintf("Set the `%s` environment variable", name)
		}
		rows = append(rows, row)
	})

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].API != rows[j].API {
			return rows[i].API < rows[j].API
		}
		return rows[i].ProviderType < rows[j].ProviderType
	})
	return rows
}

// RenderTable renders rows as a markdown table.
func RenderTable(rows []ProviderRow) string {
	lines := []string{
		"| API | Provider | External? | Enabled by default? | How to enable |",
		"|-----|----------|-----------|---------------------|---------------|",
	}
	for _, r := range rows {
		mark := enabledMark
		if !r.Enabled {
			mark = disabledMark
		}
		lines = append(lines, fmt.Sprintf("| %s | %s | %s | %s | %s |",
			r.API, r.ProviderType, r.External, mark, r.HowToEnable))
	}
	return strings.Join(lines, "\n")
}
