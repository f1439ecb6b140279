package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/census/pkg/types"
)

func newSettingCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "setting",
		Short: "Read and change stored settings",
	}
	cmd.AddCommand(
		newSettingGetCmd(a),
		newSettingSetCmd(a),
		newSettingListCmd(a),
	)
	return cmd
}

func newSettingGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Show a setting",
		Long:  "Show a setting. voterEligibilityAge shows the effective value, 18 when unset.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			return a.run(func(s *session) error {
				var value any
				if key == types.SettingVoterEligibilityAge {
					age, err := s.repo.VoterEligibilityAge()
					if err != nil {
						return err
					}
					value = age
				} else {
					v, err := s.repo.GetSetting(key, nil)
					if err != nil {
						return err
					}
					if v == nil {
						return fmt.Errorf("%w: setting %q", types.ErrNotFound, key)
					}
					value = v
				}
				out := types.Setting{Key: key, Value: value}
				return a.emit(cmd, out, func(w io.Writer) {
					fmt.Fprintf(w, "%s\t%s\n", key, settingText(value))
				})
			})
		},
	}
}

func newSettingSetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Store a setting",
		Long:  "Store a setting. The value is read as JSON when it parses, otherwise as a plain string.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, raw := args[0], args[1]
			return a.run(func(s *session) error {
				var value any
				if key == types.SettingVoterEligibilityAge {
					age, err := strconv.Atoi(strings.TrimSpace(raw))
					if err != nil {
						return types.Validationf("voter eligibility age %q is not a whole number", raw)
					}
					if err := s.repo.SetVoterEligibilityAge(age); err != nil {
						return err
					}
					value = age
				} else {
					value = parseSettingValue(raw)
					if err := s.repo.SetSetting(key, value); err != nil {
						return err
					}
				}
				return a.emit(cmd, types.Setting{Key: key, Value: value}, func(w io.Writer) {
					fmt.Fprintf(w, "%s set to %s\n", key, settingText(value))
				})
			})
		},
	}
}

func newSettingListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(func(s *session) error {
				settings, err := s.repo.ListSettings()
				if err != nil {
					return err
				}
				return a.emit(cmd, settings, func(w io.Writer) {
					fmt.Fprintln(w, "KEY\tVALUE")
					for _, st := range settings {
						fmt.Fprintf(w, "%s\t%s\n", st.Key, settingText(st.Value))
					}
				})
			})
		},
	}
}

func parseSettingValue(raw string) any {
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err == nil {
		return v
	}
	return raw
}

func settingText(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(b)
}
