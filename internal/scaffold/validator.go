package scaffold

import (
	"fmt"
	"os"
)

// CheckExisting checks if genesis.yml or .env.example already exist
// Returns an error if they do, nil otherwise
func CheckExisting() error {
	var existingFiles []string

	for _, path := range []string{"genesis.yml", ".env.example"} {
		if _, err := os.Stat(path); err == nil {
			existingFiles = append(existingFiles, path)
		}
	}

	if len(existingFiles) > 0 {
		errMsg := "project already initialized\n\nFound existing"
		if len(existingFiles) == 1 {
			errMsg += fmt.Sprintf(": %s", existingFiles[0])
		} else {
			errMsg += " files:\n"
			for _, file := range existingFiles {
				errMsg += fmt.Sprintf("  - %s\n", file)
			}
		}
		errMsg += "\nUse 'genesis init --force' to reinitialize (this will overwrite existing configuration)"

		return fmt.Errorf("%s", errMsg)
	}

	return nil
}
