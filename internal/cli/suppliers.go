package cli

import (
	"strings"

	"github.com/spf13/cobra"
)

var suppliersCmd = &cobra.Command{
	Use:   "suppliers",
	Short: "List configured suppliers and their extractable fields",
	Run: func(cmd *cobra.Command, _ []string) {
		for _, name := range registry.Suppliers() {
			cmd.Printf("%s: %s\n", name, strings.Join(registry.Fields(name), ", "))
		}
	},
}

func init() {
	rootCmd.AddCommand(suppliersCmd)
}
