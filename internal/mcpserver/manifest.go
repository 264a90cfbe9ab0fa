package mcpserver

import (
	"encoding/json"
	"fmt"
)

const (
	manifestSchema = "https://static.modelcontextprotocol.io/schemas/2025-10-17/server.schema.json"
	registryName   = "io.github.panbanda/husk"
	repositoryURL  = "https://github.com/panbanda/husk"
	imageRepo      = "ghcr.io/panbanda/husk"
)

// Manifest is the registry's server.json document.
type Manifest struct {
	Schema      string      `json:"$schema"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Version     string      `json:"version"`
	Repository  *Repository `json:"repository,omitempty"`
	Packages    []Package   `json:"packages,omitempty"`
}

// Repository points at the source repository.
type Repository struct {
	URL    string `json:"url"`
	Source string `json:"source"`
	ID     string `json:"id,omitempty"`
}

// Package is one way to run the server: an OCI image started with
// `husk mcp` talking over stdio.
type Package struct {
	RegistryType     string     `json:"registryType"`
	Identifier       string     `json:"identifier"`
	PackageArguments []Argument `json:"packageArguments,omitempty"`
	Transport        Transport  `json:"transport"`
}

type Argument struct {
	Type  string `json:"type"`
	Value string `json:"value,omitempty"`
}

type Transport struct {
	Type string `json:"type"`
}

// imagePackage describes the container image published for version.
func imagePackage(version string) Package {
	return Package{
		RegistryType:     "oci",
		Identifier:       fmt.Sprintf("%s:%s", imageRepo, version),
		PackageArguments: []Argument{{Type: "positional", Value: "mcp"}},
		Transport:        Transport{Type: "stdio"},
	}
}

// GenerateManifest renders server.json for version; an empty version is
// published as 0.0.0.
func GenerateManifest(version string) ([]byte, error) {
	if version == "" {
		version = "0.0.0"
	}
	return json.MarshalIndent(Manifest{
		Schema:      manifestSchema,
		Name:        registryName,
		Description: describeServer(),
		Version:     version,
		Repository:  &Repository{URL: repositoryURL, Source: "github"},
		Packages:    []Package{imagePackage(version)},
	}, "", "  ")
}
