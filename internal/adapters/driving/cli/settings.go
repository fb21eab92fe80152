package cli

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jimbaxley/codaframer/internal/core/domain"
	"github.com/jimbaxley/codaframer/internal/core/ports/driven"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and change stored settings.

Available keys:
  doc_id             default source document for sync
  table_id           default source table for sync
  use_12_hour_clock  render times as "h:mm AM/PM" (true/false)`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Set a setting",
	Args:  cobra.ExactArgs(2),
	RunE:  runSettingsSet,
}

var settingsUnsetCmd = &cobra.Command{
	Use:   "unset [key]",
	Short: "Remove a setting",
	Args:  cobra.ExactArgs(1),
	RunE:  runSettingsUnset,
}

// boolSettingKeys are parsed as booleans by settings set.
var boolSettingKeys = map[string]bool{
	driven.ConfigKey12HourClock: true,
}

// knownSettingKeys are the keys settings set accepts.
var knownSettingKeys = map[string]bool{
	driven.ConfigKeyDocID:       true,
	driven.ConfigKeyTableID:     true,
	driven.ConfigKey12HourClock: true,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsUnsetCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}

	token := "(not set)"
	if configStore.GetString(driven.ConfigKeyAPIToken) != "" {
		token = "(set)"
	}
	cmd.Printf("api_token:          %s\n", token)
	cmd.Printf("doc_id:             %s\n", orUnset(configStore.GetString(driven.ConfigKeyDocID)))
	cmd.Printf("table_id:           %s\n", orUnset(configStore.GetString(driven.ConfigKeyTableID)))
	cmd.Printf("use_12_hour_clock:  %t\n", configStore.GetBool(driven.ConfigKey12HourClock))
	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}

	key, value := args[0], args[1]
	if !knownSettingKeys[key] {
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}

	if boolSettingKeys[key] {
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%w: %q is not a boolean", domain.ErrInvalidInput, value)
		}
		configStore.Set(key, b)
	} else {
		configStore.Set(key, value)
	}

	if err := configStore.Save(); err != nil {
		return fmt.Errorf("saving settings: %w", err)
	}
	cmd.Printf("Set %s\n", key)
	return nil
}

func runSettingsUnset(cmd *cobra.Command, args []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}

	key := args[0]
	if !knownSettingKeys[key] {
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}

	configStore.Delete(key)
	if err := configStore.Save(); err != nil {
		return fmt.Errorf("saving settings: %w", err)
	}
	cmd.Printf("Unset %s\n", key)
	return nil
}

func orUnset(v string) string {
	if v == "" {
		return "(not set)"
	}
	return v
}
