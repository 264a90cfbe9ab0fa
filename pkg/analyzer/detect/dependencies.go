package detect

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/panbanda/husk/pkg/models"
)

// manifestSchema accepts any package manifest whose dependency tables, when
// present, map package names to version strings.
const manifestSchema = `{
	"$schema": "https://json-schema.org/draft/2020-12/schema",
	"type": "object",
	"properties": {
		"dependencies": {
			"type": "object",
			"additionalProperties": {"type": "string"}
		},
		"devDependencies": {
			"type": "object",
			"additionalProperties": {"type": "string"}
		}
	}
}`

const manifestSchemaURL = "husk://manifest.schema.json"

var (
	compileOnce    sync.Once
	compiledSchema *jsonschema.Schema
	compileErr     error
)

func manifestValidator() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(strings.NewReader(manifestSchema))
		if err != nil {
			compileErr = err
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource(manifestSchemaURL, doc); err != nil {
			compileErr = err
			return
		}
		compiledSchema, compileErr = c.Compile(manifestSchemaURL)
	})
	return compiledSchema, compileErr
}

type manifest struct {
	Dependencies    map[string]string `json:"dependencies"`
	DevDependencies map[string]string `json:"devDependencies"`
}

// Dependencies reports one declaration per package listed in the manifest's
// dependencies and devDependencies tables, located at the package name's
// literal occurrence in raw. A manifest that is not valid JSON or does not
// match the expected shape yields an error and no declarations.
func Dependencies(manifestPath string, raw []byte) ([]models.Declaration, error) {
	schema, err := manifestValidator()
	if err != nil {
		return nil, fmt.Errorf("compile manifest schema: %w", err)
	}
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", manifestPath, err)
	}
	if err := schema.Validate(inst); err != nil {
		return nil, fmt.Errorf("validate %s: %w", manifestPath, err)
	}

	var m manifest
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("decode %s: %w", manifestPath, err)
	}

	text := string(raw)
	var out []models.Declaration
	for _, section := range []struct {
		key     string
		deps    map[string]string
		context string
	}{
		{"dependencies", m.Dependencies, models.ContextDependency},
		{"devDependencies", m.DevDependencies, models.ContextDevDependency},
	} {
		names := make([]string, 0, len(section.deps))
		for name := range section.deps {
			names = append(names, name)
		}
		sort.Strings(names)

		for _, name := range names {
			line, col := locateKey(text, section.key, name)
			out = append(out, models.Declaration{
				Name:     name,
				Kind:     models.KindDependency,
				Location: models.Location{File: manifestPath, Line: line, Column: col},
				Context:  section.context,
			})
		}
	}
	return out, nil
}

// locateKey returns the 1-based line and column of name's first character
// where it appears quoted after the section key, falling back to its first
// quoted occurrence anywhere and then to 1:1.
func locateKey(text, section, name string) (int, int) {
	quoted := `"` + name + `"`
	offset := -1
	if s := strings.Index(text, `"`+section+`"`); s >= 0 {
		if i := strings.Index(text[s:], quoted); i >= 0 {
			offset = s + i
		}
	}
	if offset < 0 {
		offset = strings.Index(text, quoted)
	}
	if offset < 0 {
		return 1, 1
	}
	offset++ // skip the opening quote
	line := strings.Count(text[:offset], "\n") + 1
	col := offset - (strings.LastIndex(text[:offset], "\n") + 1) + 1
	return line, col
}
