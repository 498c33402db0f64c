package interceptor

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
)

// manifestEntry is one record in installed_plugins.json. The manifest maps
// opaque keys to {name, installPath} records.
type manifestEntry struct {
	Name        string `json:"name"`
	InstallPath string `json:"installPath"`
}

// FindPluginDir searches for a plugin directory by name.
//
// Search order, stopping at the first hit:
//  1. installed_plugins.json manifest (installPath must exist as a directory)
//  2. <root>/knowledge-work-plugins/<name> (live copy)
//  3. <root>/cache/knowledge-work-plugins/<name>/<version> (greatest version
//     by plain string ordering — deliberately not semver)
//  4. <root>/marketplaces/*/plugins/<name>, then external_plugins/<name>
//
// An empty pluginsRoot or manifestPath falls back to the default layout.
// A malformed manifest is treated the same as a missing one.
func FindPluginDir(pluginName, pluginsRoot, manifestPath string) (string, bool) {
	if pluginsRoot == "" {
		pluginsRoot = DefaultPluginsRoot()
	}
	if manifestPath == "" {
		manifestPath = filepath.Join(pluginsRoot, manifestName)
	}

	if dir, ok := manifestLookup(manifestPath, pluginName); ok {
		return dir, true
	}

	live := filepath.Join(pluginsRoot, pluginCollection, pluginName)
	if isDir(live) {
		return live, true
	}

	cacheParent := filepath.Join(pluginsRoot, "cache", pluginCollection, pluginName)
	if dir, ok := latestCacheVersion(cacheParent); ok {
		return dir, true
	}

	marketplaces := filepath.Join(pluginsRoot, "marketplaces")
	entries, err := os.ReadDir(marketplaces)
	if err == nil {
		for _, entry := range entries {
			if !entry.IsDir() {
				continue
			}
			for _, collection := range []string{"plugins", "external_plugins"} {
				candidate := filepath.Join(marketplaces, entry.Name(), collection, pluginName)
				if isDir(candidate) {
					return candidate, true
				}
			}
		}
	}

	return "", false
}

// manifestLookup scans installed_plugins.json for a record whose name matches
// and whose installPath exists as a directory. Records with unexpected shapes
// are skipped individually.
func manifestLookup(manifestPath, pluginName string) (string, bool) {
	data, err := os.ReadFile(manifestPath)
	if err != nil {
		return "", false
	}

	var records map[string]json.RawMessage
	if err := json.Unmarshal(data, &records); err != nil {
		return "", false
	}

	for _, raw := range records {
		var entry manifestEntry
		if err := json.Unmarshal(raw, &entry); err != nil {
			continue
		}
		if entry.Name == pluginName && entry.InstallPath != "" && isDir(entry.InstallPath) {
			return entry.InstallPath, true
		}
	}

	return "", false
}

// latestCacheVersion picks the version subdirectory whose name sorts greatest.
// Plain descending string order, so "9.0.0" beats "10.0.0" — matches the
// installer's layout assumptions.
func latestCacheVersion(cacheParent string) (string, bool) {
	entries, err := os.ReadDir(cacheParent)
	if err != nil {
		return "", false
	}

	var versions []string
	for _, entry := range entries {
		if entry.IsDir() {
			versions = append(versions, entry.Name())
		}
	}
	if len(versions) == 0 {
		return "", false
	}

	sort.Sort(sort.Reverse(sort.StringSlice(versions)))
	return filepath.Join(cacheParent, versions[0]), true
}
