package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"moneyleft/internal/cli"
	"moneyleft/internal/log"
)

// ErrToolFailed is returned when a tool ran but reported an error envelope.
var ErrToolFailed = errors.New("tool call failed")

func newCallCommand() *cobra.Command {
	var compact bool

	cmd := &cobra.Command{
		Use:   "call <tool> [arguments-json|-]",
		Short: "Run one tool and print its result envelope",
		Example: `  ledger call record_cash_flow '{"amount":-12.5,"category":"food","description":"lunch"}'
  ledger call spending_visualizer '{"filter":{"type":"ThisMonth"}}'
  echo '{"year":2025}' | ledger call simulate_tax -`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw := "{}"
			if len(args) == 2 {
				raw = args[1]
			}
			if raw == "-" {
				data, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("reading arguments from stdin: %w", err)
				}
				raw = strings.TrimSpace(string(data))
			}

			app, err := cli.Bootstrap(cmd.Context(), log.ComponentApp)
			if err != nil {
				return err
			}
			defer app.Close()

			env := app.Registry.Call(cmd.Context(), "cli", args[0], json.RawMessage(raw))

			enc := json.NewEncoder(cmd.OutOrStdout())
			if !compact {
				enc.SetIndent("", "  ")
			}
			if err := enc.Encode(env); err != nil {
				return fmt.Errorf("writing result: %w", err)
			}
			if !env.OK {
				return fmt.Errorf("%w: %s: %s", ErrToolFailed, env.Error.Type, env.Error.Message)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&compact, "compact", false, "print the envelope on one line")
	return cmd
}
