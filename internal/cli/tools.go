package cli

import (
	"context"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/osokin/tradegram/internal/tools"
)

var toolNameStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("#3B82F6"))

func newToolsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tools",
		Short: "List the actions available to the agent",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			for i, bt := range tools.All(tools.Deps{}) {
				info, err := bt.Info(ctx)
				if err != nil {
					return fmt.Errorf("tool info: %w", err)
				}
				fmt.Printf("%2d. %s\n    %s\n", i+1, toolNameStyle.Render(info.Name), info.Desc)
			}
			fmt.Println("    (each chat additionally gets send_message_to_user)")
			return nil
		},
	}
}
