package accounts

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-viper/mapstructure/v2"
	"github.com/joho/godotenv"
	"go.yaml.in/yaml/v3"
)

const (
	envPrefix    = "ENV:"
	minEnvKeyLen = 10
	maxEnvKeyLen = 50
)

type Account struct {
	Name     string            `mapstructure:"name"`
	APIKey   string            `mapstructure:"apiKey"`
	Endpoint string            `mapstructure:"endpoint"`
	Scripts  map[string]string `mapstructure:"scripts"`
}

// ScriptNames returns the remote script names in a stable order.
func (a Account) ScriptNames() []string {
	names := make([]string, 0, len(a.Scripts))
	for name := range a.Scripts {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Configuration is a validated account list. It is only built by Load and
// is never modified afterwards; a reload produces a new value.
type Configuration struct {
	Path     string
	BaseDir  string
	Accounts []Account
	LoadedAt time.Time
}

// Load reads, validates and resolves the account configuration at path.
func Load(path string) (*Configuration, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("invalid configuration path: %w", err)
	}

	realPath, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve configuration path: %w", err)
	}

	data, err := os.ReadFile(realPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration: %w", err)
	}

	tree, err := decode(realPath, data)
	if err != nil {
		return nil, &ValidationError{Path: realPath, Cause: err}
	}

	if err := configurationSchema.Validate(tree); err != nil {
		return nil, &ValidationError{Path: realPath, Cause: err}
	}

	var list []Account
	if err := mapstructure.Decode(tree, &list); err != nil {
		return nil, &ValidationError{Path: realPath, Cause: err}
	}

	baseDir := filepath.Dir(realPath)
	if err := loadDotEnv(baseDir); err != nil {
		return nil, err
	}

	for i := range list {
		if err := resolveAccount(&list[i]); err != nil {
			return nil, err
		}
	}

	return &Configuration{
		Path:     realPath,
		BaseDir:  baseDir,
		Accounts: list,
		LoadedAt: time.Now(),
	}, nil
}

func resolveAccount(a *Account) error {
	if a.Endpoint == "" {
		a.Endpoint = DefaultEndpoint
	}
	a.Endpoint = strings.TrimRight(a.Endpoint, "/")

	if a.Scripts == nil {
		a.Scripts = map[string]string{}
	}

	name, ok := strings.CutPrefix(a.APIKey, envPrefix)
	if !ok {
		return nil
	}

	key, set := os.LookupEnv(name)
	if !set || len(key) < minEnvKeyLen || len(key) > maxEnvKeyLen {
		return &CredentialError{Account: a.Name, Variable: name}
	}

	a.APIKey = key
	return nil
}

func loadDotEnv(dir string) error {
	path := filepath.Join(dir, ".env")
	if _, err := os.Stat(path); err != nil {
		return nil
	}

	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}

	return nil
}

// decode parses data according to the file extension and normalises the
// result to the value shapes produced by encoding/json.
func decode(path string, data []byte) (any, error) {
	var raw any

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
		return raw, nil

	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, err
		}

	case ".toml":
		var doc map[string]any
		if _, err := toml.Decode(string(data), &doc); err != nil {
			return nil, err
		}
		list, ok := doc["accounts"]
		if !ok {
			return nil, fmt.Errorf("missing [[accounts]] tables")
		}
		raw = list

	default:
		v, err := parseCSON(string(data))
		if err != nil {
			return nil, err
		}
		return v, nil
	}

	b, err := json.Marshal(raw)
	if err != nil {
		return nil, err
	}

	var tree any
	if err := json.Unmarshal(b, &tree); err != nil {
		return nil, err
	}

	return tree, nil
}
