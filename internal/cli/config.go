package cli

import (
	"bufio"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// DefaultConfigName is the config file looked up in the home directory
const DefaultConfigName = ".fzscreechrc"

// ConfigFile represents configuration loaded from file
type ConfigFile struct {
	Tool       string
	Picker     string
	PickerArgs []string
	Jobs       int
	OnFailure  string
	DryRun     bool
	Verbose    bool
}

// DefaultConfig returns default configuration values
func DefaultConfig() *ConfigFile {
	return &ConfigFile{
		Tool:      "screech",
		Picker:    "fzf",
		Jobs:      1,
		OnFailure: "report",
	}
}

// DefaultConfigPath returns ~/.fzscreechrc, or "" when there is no home directory
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, DefaultConfigName)
}

// LoadConfigFile loads configuration from file on top of the defaults.
// A missing file is only an error when it was named explicitly.
func LoadConfigFile(path string, explicit bool) (*ConfigFile, error) {
	config := DefaultConfig()
	if path == "" {
		return config, nil
	}

	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return config, nil
		}
		return nil, errors.Wrap(err, "failed to open config file")
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			return nil, errors.Errorf("invalid config line %d: %s", lineNum, line)
		}

		key := strings.TrimSpace(parts[0])
		value := unquote(strings.TrimSpace(parts[1]))

		if err := setConfigValue(config, key, value); err != nil {
			return nil, errors.Wrapf(err, "config line %d", lineNum)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "error reading config file")
	}

	return config, nil
}

func unquote(value string) string {
	if len(value) >= 2 && ((value[0] == '"' && value[len(value)-1] == '"') ||
		(value[0] == '\'' && value[len(value)-1] == '\'')) {
		return value[1 : len(value)-1]
	}
	return value
}

// setConfigValue sets a configuration value by key
func setConfigValue(config *ConfigFile, key, value string) error {
	switch key {
	case "tool":
		config.Tool = value
	case "picker":
		config.Picker = value
	case "picker_args":
		config.PickerArgs = strings.Fields(value)
	case "jobs":
		return parseAndAssignInt(value, "jobs", func(val int) { config.Jobs = val })
	case "on_failure":
		config.OnFailure = value
	case "dry_run":
		return parseAndAssignBool(value, "dry_run", func(val bool) { config.DryRun = val })
	case "verbose":
		return parseAndAssignBool(value, "verbose", func(val bool) { config.Verbose = val })
	default:
		return errors.Errorf("unknown config key: %s", key)
	}
	return nil
}

func parseInt(s string) (int, error) {
	return strconv.Atoi(strings.TrimSpace(s))
}

func parseBool(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "true", "1", "yes", "on":
		return true, nil
	case "false", "0", "no", "off":
		return false, nil
	default:
		return false, errors.Errorf("invalid boolean value: %s", s)
	}
}

func parseAndAssignInt(value string, fieldName string, setter func(int)) error {
	val, err := parseInt(value)
	if err != nil {
		return errors.Wrapf(err, "invalid %s", fieldName)
	}
	setter(val)
	return nil
}

func parseAndAssignBool(value string, fieldName string, setter func(bool)) error {
	val, err := parseBool(value)
	if err != nil {
		return errors.Wrapf(err, "invalid %s", fieldName)
	}
	setter(val)
	return nil
}

// LoadEnvironmentConfig applies FZSCREECH_* environment overrides
func LoadEnvironmentConfig(config *ConfigFile, getenv func(string) string) error {
	if getenv == nil {
		getenv = os.Getenv
	}
	if val := getenv("FZSCREECH_TOOL"); val != "" {
		config.Tool = val
	}
	if val := getenv("FZSCREECH_PICKER"); val != "" {
		config.Picker = val
	}
	if val := getenv("FZSCREECH_JOBS"); val != "" {
		if err := parseAndAssignInt(val, "FZSCREECH_JOBS", func(v int) { config.Jobs = v }); err != nil {
			return err
		}
	}
	return nil
}
