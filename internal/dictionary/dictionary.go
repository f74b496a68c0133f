package dictionary

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Entity is one tracked company with its alias and topic lists.
type Entity struct {
	Name    string
	Aliases []string
	Topics  []string
}

// Dictionary is the read-only company alias table, loaded once at
// process start. It drives keyword seeds for ingestion adapters,
// synonym expansion during retrieval, and company tagging.
type Dictionary struct {
	entities []Entity
	// alias (lowercased) -> entity index, for expansion lookups
	aliasIndex map[string]int
}

type entityYAML struct {
	Aliases []string `yaml:"aliases"`
	Topics  []string `yaml:"topics"`
}

// Load reads the dictionary from a YAML file mapping canonical company
// names to alias/topic lists. An empty path yields the built-in table.
func Load(path string) (*Dictionary, error) {
	if path == "" {
		return build(defaultEntities()), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read company dictionary: %w", err)
	}

	var raw map[string]entityYAML
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse company dictionary: %w", err)
	}

	entities := make([]Entity, 0, len(raw))
	for name, e := range raw {
		entities = append(entities, Entity{Name: name, Aliases: e.Aliases, Topics: e.Topics})
	}
	sort.Slice(entities, func(i, j int) bool { return entities[i].Name < entities[j].Name })

	return build(entities), nil
}

func build(entities []Entity) *Dictionary {
	d := &Dictionary{entities: entities, aliasIndex: make(map[string]int)}
	for i, e := range entities {
		d.aliasIndex[strings.ToLower(e.Name)] = i
		for _, a := range e.Aliases {
			d.aliasIndex[strings.ToLower(a)] = i
		}
	}
	return d
}

// ForEach visits every entity in stable order.
func (d *Dictionary) ForEach(fn func(name string, aliases, topics []string)) {
	for _, e := range d.entities {
		fn(e.Name, e.Aliases, e.Topics)
	}
}

// Seeds returns the canonical company names, lowercased, used as the
// default keyword seeds handed to ingestion adapters.
func (d *Dictionary) Seeds() []string {
	seeds := make([]string, 0, len(d.entities))
	for _, e := range d.entities {
		seeds = append(seeds, strings.ToLower(e.Name))
	}
	return seeds
}

// ExpandKeywords widens a token set with synonyms: when a token matches
// an entity's name or any of its aliases, the canonical name and the
// whole alias list join the keyword set. "nvda" thus expands to
// "nvidia", "geforce" and friends.
func (d *Dictionary) ExpandKeywords(tokens []string) []string {
	seen := make(map[string]bool)
	var keywords []string
	add := func(kw string) {
		kw = strings.ToLower(kw)
		if kw != "" && !seen[kw] {
			seen[kw] = true
			keywords = append(keywords, kw)
		}
	}

	for _, tok := range tokens {
		add(tok)
	}
	for _, tok := range tokens {
		idx, ok := d.aliasIndex[strings.ToLower(tok)]
		if !ok {
			continue
		}
		e := d.entities[idx]
		add(e.Name)
		for _, a := range e.Aliases {
			add(a)
		}
	}
	return keywords
}

func defaultEntities() []Entity {
	return []Entity{
		{
			Name:    "AMD",
			Aliases: []string{"amd", "mi300", "epyc", "xilinx", "lisa su"},
			Topics:  []string{"AI accelerators", "datacenter chips", "partnerships", "ROCm"},
		},
		{
			Name:    "Amazon",
			Aliases: []string{"amazon", "aws", "amzn", "trainium", "inferentia", "andy jassy"},
			Topics:  []string{"AWS AI infra", "chips", "cloud expansion", "Bedrock"},
		},
		{
			Name:    "Apple",
			Aliases: []string{"apple", "aapl", "iphone", "mac", "m-series", "vision pro", "tim cook"},
			Topics:  []string{"chip supply chain", "M4", "manufacturing", "acquisition", "AI features"},
		},
		{
			Name:    "Google",
			Aliases: []string{"google", "alphabet", "deepmind", "gemini", "gcp", "vertex ai", "tpu", "waymo", "sundar pichai"},
			Topics:  []string{"AI models", "TPU roadmap", "cloud infra", "AI startup acquisition", "search updates"},
		},
		{
			Name:    "Intel",
			Aliases: []string{"intel", "intc", "18a", "ifs", "foundry", "gaudi", "pat gelsinger"},
			Topics:  []string{"foundry wins", "node progress", "CHIPS act", "cost cutting"},
		},
		{
			Name:    "Meta",
			Aliases: []string{"meta", "facebook", "instagram", "whatsapp", "llama", "mark zuckerberg"},
			Topics:  []string{"AI infra", "Llama releases", "datacenter expansion", "AR/VR"},
		},
		{
			Name:    "Microsoft",
			Aliases: []string{"microsoft", "msft", "azure", "openai", "copilot", "satya nadella", "github"},
			Topics:  []string{"Azure AI infra", "datacenter chips", "OpenAI partnership", "Copilot integration"},
		},
		{
			Name:    "NVIDIA",
			Aliases: []string{"nvidia", "nvda", "geforce", "cuda", "h100", "b100", "h200", "blackwell", "jensen huang"},
			Topics:  []string{"AI GPU supply", "TSMC capacity", "CoWoS", "HBM", "DGX", "Blackwell architecture"},
		},
		{
			Name:    "Samsung",
			Aliases: []string{"samsung", "hbm3e", "exynos", "galaxy"},
			Topics:  []string{"HBM supply", "foundry progress", "yield", "memory chips"},
		},
		{
			Name:    "TSMC",
			Aliases: []string{"tsmc", "taiwan semiconductor", "n2", "n3", "cowos", "fabs", "cc wei"},
			Topics:  []string{"yield improvements", "capacity deals", "fab expansion", "pricing"},
		},
	}
}
