// Package prompt assembles LLM prompts from plugin instruction files.
package prompt

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"plugin2mcp/internal/logging"
	"plugin2mcp/internal/schema"
)

// DefaultTemplate is the standard prompt layout. Placeholders are literal
// {name} tokens so callers can supply their own template with the same slots.
const DefaultTemplate = `A user has invoked the "{command_name}" command.

## Command Instructions

{command_md_content}

## Expert Skills

{skills_md_content}

## Configuration

{config_content}

## Source Material

{source_content}

## Additional Context

{supplemental_content}

## Output Requirements

{output_requirements}
`

// ReaderFunc extracts prompt-insertable text from a source file.
type ReaderFunc func(path string) (string, error)

// Builder assembles prompts from a PluginInvocation. Source files are read
// through an explicit extension-to-reader table supplied at construction;
// there is no process-wide reader registry.
type Builder struct {
	template string
	readers  map[string]ReaderFunc
}

// NewBuilder creates a Builder. An empty template selects DefaultTemplate;
// nil readers selects DefaultReaders. Extensions in readers must include the
// dot and are matched case-insensitively.
func NewBuilder(template string, readers map[string]ReaderFunc) *Builder {
	if template == "" {
		template = DefaultTemplate
	}
	if readers == nil {
		readers = DefaultReaders()
	}
	normalized := make(map[string]ReaderFunc, len(readers))
	for ext, fn := range readers {
		normalized[strings.ToLower(ext)] = fn
	}
	return &Builder{template: template, readers: normalized}
}

// DefaultReaders returns the built-in plain-text readers. Readers for binary
// formats (.docx, .pdf) are supplied by the composing MCP server, which has
// the dependencies for them.
func DefaultReaders() map[string]ReaderFunc {
	plain := func(path string) (string, error) {
		data, err := os.ReadFile(path)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}
	return map[string]ReaderFunc{
		".txt":      plain,
		".text":     plain,
		".md":       plain,
		".markdown": plain,
	}
}

// Build assembles the complete prompt for an invocation. Unreadable files
// degrade to a bracketed placeholder in the prompt rather than failing the
// whole assembly.
func (b *Builder) Build(inv *schema.PluginInvocation, outputRequirements string) string {
	commandMD := b.readFile(inv.CommandMDPath)

	var skillParts []string
	for i, path := range inv.SkillMDPaths {
		name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		skillParts = append(skillParts, fmt.Sprintf("### Skill %d: %s\n\n%s", i+1, name, b.readFile(path)))
	}
	skillsContent := joinSections(skillParts, "No skills specified.")

	var configParts []string
	for _, path := range inv.ConfigPaths {
		configParts = append(configParts, fmt.Sprintf("### %s\n\n%s", filepath.Base(path), b.readFile(path)))
	}
	configContent := joinSections(configParts, "No configuration provided.")

	var sourceParts []string
	for _, path := range inv.SourcePaths {
		sourceParts = append(sourceParts, fmt.Sprintf("### %s\n\n%s", filepath.Base(path), b.readSource(path)))
	}
	for i, text := range inv.SourceTexts {
		sourceParts = append(sourceParts, fmt.Sprintf("### Text %d\n\n%s", i+1, text))
	}
	sourceContent := joinSections(sourceParts, "No source material provided.")

	supplementalContent := "No additional context provided."
	if len(inv.Supplemental) > 0 {
		if data, err := json.MarshalIndent(inv.Supplemental, "", "  "); err == nil {
			supplementalContent = string(data)
		}
	}

	return strings.NewReplacer(
		"{command_name}", inv.CommandName,
		"{command_md_content}", commandMD,
		"{skills_md_content}", skillsContent,
		"{config_content}", configContent,
		"{source_content}", sourceContent,
		"{supplemental_content}", supplementalContent,
		"{output_requirements}", outputRequirements,
	).Replace(b.template)
}

func joinSections(parts []string, fallback string) string {
	if len(parts) == 0 {
		return fallback
	}
	return strings.Join(parts, "\n\n---\n\n")
}

// readFile reads a text file, returning a placeholder on failure.
func (b *Builder) readFile(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		logging.Get(logging.CategoryPrompt).Warn("error reading %s: %v", path, err)
		if os.IsNotExist(err) {
			return fmt.Sprintf("[File not found: %s]", path)
		}
		return fmt.Sprintf("[Error reading %s: %v]", path, err)
	}
	return string(data)
}

// readSource reads a source file through the registered reader for its
// extension, falling back to a plain text read.
func (b *Builder) readSource(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	reader, found := b.readers[ext]
	if !found {
		return b.readFile(path)
	}
	content, err := reader(path)
	if err != nil {
		logging.Get(logging.CategoryPrompt).Warn("source reader failed for %s: %v", path, err)
		return fmt.Sprintf("[Error reading %s: %v]", path, err)
	}
	return content
}
