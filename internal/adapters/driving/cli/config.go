package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/inkstone-labs/inkstone/internal/core/domain"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage application settings",
	Long: `View and change search, overlay, history, and workspace settings.

Running without a subcommand shows the current settings.`,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runConfigShow,
}

var configGetCmd = &cobra.Command{
	Use:   "get [key]",
	Short: "Print one setting value",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Change one setting value",
	Long: `Changes a setting and persists it. Keys use dotted section.name form,
as shown by 'inkstone config show'. List values take comma-separated
items; an empty string clears the list.`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

var configResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Restore default settings",
	RunE:  runConfigReset,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configResetCmd)
	rootCmd.AddCommand(configCmd)
}

// configField binds a dotted key to its spot in AppSettings. Save runs
// AppSettings.Validate, so setters only parse, never range-check.
type configField struct {
	key string
	get func(s *domain.AppSettings) string
	set func(s *domain.AppSettings, raw string) error
}

var configFields = []configField{
	{
		key: "search.debounce_ms",
		get: func(s *domain.AppSettings) string { return strconv.Itoa(s.Search.DebounceMS) },
		set: setIntField(func(s *domain.AppSettings, v int) { s.Search.DebounceMS = v }),
	},
	{
		key: "search.workers",
		get: func(s *domain.AppSettings) string { return strconv.Itoa(s.Search.Workers) },
		set: setIntField(func(s *domain.AppSettings, v int) { s.Search.Workers = v }),
	},
	{
		key: "search.rate_per_sec",
		get: func(s *domain.AppSettings) string { return formatFloatSetting(s.Search.RatePerSec) },
		set: setFloatField(func(s *domain.AppSettings, v float64) { s.Search.RatePerSec = v }),
	},
	{
		key: "search.context_lines",
		get: func(s *domain.AppSettings) string { return strconv.Itoa(s.Search.ContextLines) },
		set: setIntField(func(s *domain.AppSettings, v int) { s.Search.ContextLines = v }),
	},
	{
		key: "overlay.tick_ms",
		get: func(s *domain.AppSettings) string { return strconv.Itoa(s.Overlay.TickMS) },
		set: setIntField(func(s *domain.AppSettings, v int) { s.Overlay.TickMS = v }),
	},
	{
		key: "overlay.hover_width",
		get: func(s *domain.AppSettings) string { return formatFloatSetting(s.Overlay.HoverWidth) },
		set: setFloatField(func(s *domain.AppSettings, v float64) { s.Overlay.HoverWidth = v }),
	},
	{
		key: "history.keep",
		get: func(s *domain.AppSettings) string { return strconv.Itoa(s.History.Keep) },
		set: setIntField(func(s *domain.AppSettings, v int) { s.History.Keep = v }),
	},
	{
		key: "workspace.max_file_bytes",
		get: func(s *domain.AppSettings) string { return strconv.FormatInt(s.Workspace.MaxFileBytes, 10) },
		set: func(s *domain.AppSettings, raw string) error {
			v, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				return fmt.Errorf("not an integer: %q", raw)
			}
			s.Workspace.MaxFileBytes = v
			return nil
		},
	},
	{
		key: "workspace.extra_binary_exts",
		get: func(s *domain.AppSettings) string { return strings.Join(s.Workspace.ExtraBinaryExts, ",") },
		set: func(s *domain.AppSettings, raw string) error {
			s.Workspace.ExtraBinaryExts = splitExtList(raw)
			return nil
		},
	},
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")

	section := ""
	for _, f := range configFields {
		name := f.key
		if dot := strings.IndexByte(f.key, '.'); dot >= 0 {
			if f.key[:dot] != section {
				section = f.key[:dot]
				cmd.Printf("\n[%s]\n", strings.ToUpper(section[:1])+section[1:])
			}
			name = f.key[dot+1:]
		}
		value := f.get(settings)
		if value == "" {
			value = "(not set)"
		}
		cmd.Printf("  %-18s %s\n", name+":", value)
	}

	cmd.Println()
	cmd.Println("Change values with 'inkstone config set <key> <value>'.")
	return nil
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	field, ok := lookupConfigField(args[0])
	if !ok {
		return fmt.Errorf("unknown setting %q (see 'inkstone config show')", args[0])
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println(field.get(settings))
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	key, raw := args[0], args[1]

	field, ok := lookupConfigField(key)
	if !ok {
		return fmt.Errorf("unknown setting %q (see 'inkstone config show')", key)
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	if err := field.set(settings, raw); err != nil {
		return fmt.Errorf("invalid value for %s: %w", key, err)
	}
	if err := settingsService.Save(settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	cmd.Printf("%s set to %s\n", key, field.get(settings))
	return nil
}

func runConfigReset(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	defaults := settingsService.GetDefaults()
	if err := settingsService.Save(&defaults); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	cmd.Println("Settings reset to defaults.")
	return nil
}

func lookupConfigField(key string) (configField, bool) {
	for _, f := range configFields {
		if f.key == key {
			return f, true
		}
	}
	return configField{}, false
}

func setIntField(assign func(s *domain.AppSettings, v int)) func(s *domain.AppSettings, raw string) error {
	return func(s *domain.AppSettings, raw string) error {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("not an integer: %q", raw)
		}
		assign(s, v)
		return nil
	}
}

func setFloatField(assign func(s *domain.AppSettings, v float64)) func(s *domain.AppSettings, raw string) error {
	return func(s *domain.AppSettings, raw string) error {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return fmt.Errorf("not a number: %q", raw)
		}
		assign(s, v)
		return nil
	}
}

func formatFloatSetting(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// splitExtList parses a comma-separated extension list, dropping
// empty entries so "md,,log" and "" behave sensibly.
func splitExtList(raw string) []string {
	var exts []string
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			exts = append(exts, part)
		}
	}
	return exts
}
