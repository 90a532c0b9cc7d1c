package resolver

import (
	"path/filepath"
	"strings"

	"phantomsync/internal/accounts"
)

// Target is one account/script mapping matched by a changed file.
type Target struct {
	Account    accounts.Account
	ScriptName string
	ScriptPath string
	RealPath   string
}

var handledExts = map[string]bool{
	".js":     true,
	".coffee": true,
	".json":   true,
	".md":     true,
}

// IsSidecar reports whether path is a store metadata file.
func IsSidecar(path string) bool {
	ext := filepath.Ext(path)
	return ext == ".json" || ext == ".md"
}

// Resolve returns every mapping in cfg whose script shares a canonical,
// extension-less path with path. A missing path yields no targets.
func Resolve(cfg *accounts.Configuration, path string) []Target {
	if cfg == nil || !handledExts[filepath.Ext(path)] {
		return nil
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil
	}

	want, ok := canonicalStem(abs)
	if !ok {
		return nil
	}

	var targets []Target
	for _, account := range cfg.Accounts {
		for _, name := range account.ScriptNames() {
			local := account.Scripts[name]

			stem, ok := canonicalStem(filepath.Join(cfg.BaseDir, local))
			if !ok || stem != want {
				continue
			}

			targets = append(targets, Target{
				Account:    account,
				ScriptName: name,
				ScriptPath: local,
				RealPath:   abs,
			})
		}
	}

	return targets
}

func canonicalStem(path string) (string, bool) {
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		return "", false
	}

	return strings.TrimSuffix(resolved, filepath.Ext(resolved)), true
}
