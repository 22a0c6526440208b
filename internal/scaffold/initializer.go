package scaffold

import (
	"embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed templates/*
var templatesFS embed.FS

// FileInfo represents a file to be created during initialization
type FileInfo struct {
	Path        string
	Content     []byte
	Permissions os.FileMode
}

// Initialize creates the Genesis project structure
// If force is true, it will remove existing genesis.yml and .env.example
func Initialize(force bool) error {
	if force {
		if err := handleForce(); err != nil {
			return err
		}
	}

	files, err := getTemplateFiles()
	if err != nil {
		return err
	}

	// Artifact output directory, empty until the first run
	if err := os.MkdirAll("output", 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	if err := writeFiles(files); err != nil {
		return err
	}

	return validateCreatedFiles()
}

// handleForce removes existing files if --force was specified
func handleForce() error {
	for _, path := range []string{"genesis.yml", ".env.example"} {
		if _, err := os.Stat(path); err == nil {
			fmt.Printf("⚠️  Removing existing %s...\n", path)
			if err := os.Remove(path); err != nil {
				return fmt.Errorf("failed to remove %s: %w", path, err)
			}
		}
	}
	return nil
}

// getTemplateFiles reads and processes all template files
func getTemplateFiles() ([]FileInfo, error) {
	files := []FileInfo{}

	genesisYml, err := templatesFS.ReadFile("templates/genesis.yml.tmpl")
	if err != nil {
		return nil, fmt.Errorf("failed to read genesis.yml template: %w", err)
	}
	files = append(files, FileInfo{
		Path:        "genesis.yml",
		Content:     genesisYml,
		Permissions: 0644,
	})

	envExample, err := templatesFS.ReadFile("templates/env.example.tmpl")
	if err != nil {
		return nil, fmt.Errorf("failed to read .env.example template: %w", err)
	}
	files = append(files, FileInfo{
		Path:        ".env.example",
		Content:     envExample,
		Permissions: 0644,
	})

	return files, nil
}

// writeFiles writes all template files to disk
func writeFiles(files []FileInfo) error {
	for _, file := range files {
		if err := os.WriteFile(file.Path, file.Content, file.Permissions); err != nil {
			return fmt.Errorf("failed to write %s: %w", file.Path, err)
		}
	}
	return nil
}

// validateCreatedFiles validates that created files are correct
func validateCreatedFiles() error {
	content, err := os.ReadFile("genesis.yml")
	if err != nil {
		return fmt.Errorf("failed to read created genesis.yml: %w", err)
	}

	var yamlData interface{}
	if err := yaml.Unmarshal(content, &yamlData); err != nil {
		return fmt.Errorf("created genesis.yml is not valid YAML: %w", err)
	}

	return nil
}

// PrintSuccess prints the success message with created files
func PrintSuccess() {
	fmt.Println("\n✅ Successfully initialized Genesis project!")
	fmt.Println("\nCreated:")
	fmt.Println("  ✓ genesis.yml")
	fmt.Println("  ✓ .env.example")
	fmt.Println("  ✓ output/")
	fmt.Println("\nNext steps:")
	fmt.Println("  1. Copy .env.example to .env and set OPENAI_API_KEY")
	fmt.Println("  2. Add '.env' and 'output/' to your .gitignore file")
	fmt.Println("  3. Run 'genesis run \"your product idea\"' to start the pipeline")
}
