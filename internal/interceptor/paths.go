package interceptor

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrCommandFileNotFound is the one hard failure inside resolution: a plugin
// claimed a command but ships no commands/<command>.md. Callers can detect it
// with errors.Is and log a configuration problem instead of staying silent.
var ErrCommandFileNotFound = errors.New("command file not found")

// ResolvePaths maps (pluginDir, commandName) to the command's instruction file
// and its supplementary skill files.
//
// Expected layout:
//
//	pluginDir/
//	    commands/<commandName>.md     (required)
//	    skills/*/SKILL.md             (optional)
//
// Skill paths are ordered by skill directory name; directories without a
// SKILL.md are skipped. All returned paths are absolute.
func ResolvePaths(pluginDir, commandName string) (commandMD string, skillMDs []string, err error) {
	commandMD = filepath.Join(pluginDir, "commands", commandName+".md")
	if !isFile(commandMD) {
		return "", nil, fmt.Errorf("%w: %s", ErrCommandFileNotFound, commandMD)
	}
	commandMD = absPath(commandMD)

	skillsDir := filepath.Join(pluginDir, "skills")
	entries, readErr := os.ReadDir(skillsDir)
	if readErr != nil {
		return commandMD, nil, nil // no skills directory is fine
	}

	// os.ReadDir returns entries sorted by name, which is exactly the order
	// the protocol promises.
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		skillMD := filepath.Join(skillsDir, entry.Name(), "SKILL.md")
		if isFile(skillMD) {
			skillMDs = append(skillMDs, absPath(skillMD))
		}
	}

	return commandMD, skillMDs, nil
}
