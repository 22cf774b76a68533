package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/akash1629/cross-domain/internal/config"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func init() {
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config [key] [value]",
	Short: "Get or set configuration values",
	Long: `Get or set configuration values in .crossdomain/config.yml.

Usage:
  bridge config                              # Show all config
  bridge config alpha                        # Get specific value
  bridge config neighborhood-threshold 0.6   # Set value

Keys:
  max-vocabulary-size      Vocabulary cap for the vector space
  alpha, beta              Weights of similarity to domain 1 and domain 2
  gamma                    Weight of novelty
  delta                    Weight of the commonality penalty
  neighborhood-threshold   Minimum similarity for a path edge
  threshold-step           Ladder step when no path is found
  min-threshold            Ladder floor
  top-n                    Default number of bridges
  novelty-ceiling          Novelty of an uncited concept
  novelty-fallback         Novelty when no citation data exists
  commonality-sample-size  Reference sample size for the commonality penalty`,
	Args: cobra.MaximumNArgs(2),
	RunE: runConfig,
}

// UpdateResponse is the response for config set commands.
type UpdateResponse struct {
	Status string `json:"status"`
	Key    string `json:"key"`
	Value  string `json:"value"`
}

func runConfig(cmd *cobra.Command, args []string) error {
	repoRoot := mustFindRepository()
	cfg := mustLoadConfig(repoRoot)

	values, err := configValues(cfg)
	if err != nil {
		exitWithError(ExitError, "reading config: %v", err)
	}

	// No args: show all config
	if len(args) == 0 {
		if humanOutput {
			keys := make([]string, 0, len(values))
			for k := range values {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				fmt.Printf("%-24s %v\n", k+":", values[k])
			}
		} else {
			outputJSON(cfg)
		}
		return nil
	}

	key := normalizeKey(args[0])
	current, ok := values[key]
	if !ok {
		exitWithError(ExitError, "unknown config key: %s", args[0])
	}

	// One arg: get specific value
	if len(args) == 1 {
		if humanOutput {
			fmt.Println(current)
		} else {
			outputJSON(map[string]interface{}{key: current})
		}
		return nil
	}

	if err := setConfigValue(cfg, key, args[1]); err != nil {
		exitWithError(exitCodeFor(err), "setting %s: %v", args[0], err)
	}
	if err := cfg.Save(repoRoot); err != nil {
		exitWithError(exitCodeFor(err), "saving config: %v", err)
	}

	if humanOutput {
		fmt.Printf("Set %s = %s\n", key, args[1])
	} else {
		outputJSON(UpdateResponse{Status: "updated", Key: key, Value: args[1]})
	}
	return nil
}

// normalizeKey converts a CLI key (top-n) to its yaml form (top_n).
func normalizeKey(key string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(key)), "-", "_")
}

// configValues returns the configuration as a yaml key -> value map.
func configValues(cfg *config.Config) (map[string]interface{}, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, err
	}
	values := make(map[string]interface{})
	if err := yaml.Unmarshal(data, &values); err != nil {
		return nil, err
	}
	return values, nil
}

// setConfigValue decodes value as yaml into the named field and validates the result.
// cfg is left unchanged on error.
func setConfigValue(cfg *config.Config, key, value string) error {
	if strings.ContainsAny(value, "\n\r:#") {
		return fmt.Errorf("%w: %s: malformed value %q", config.ErrInvalidConfig, key, value)
	}
	updated := *cfg
	// The field type decides how the scalar is decoded.
	doc := fmt.Sprintf("%s: %s\n", key, strings.TrimSpace(value))
	if err := yaml.Unmarshal([]byte(doc), &updated); err != nil {
		return fmt.Errorf("%w: %s: %v", config.ErrInvalidConfig, key, err)
	}
	if err := updated.Validate(); err != nil {
		return err
	}
	*cfg = updated
	return nil
}
