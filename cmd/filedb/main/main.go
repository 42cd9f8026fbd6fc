package main

import (
	"fmt"
	"os"

	"github.com/arthur-debert/filedb/cmd/filedb"
	"github.com/charmbracelet/lipgloss"

	_ "github.com/arthur-debert/filedb/pkg/stores/builtin"
)

var errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)

func main() {
	rootCmd := filedb.NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render(fmt.Sprintf("Error: %v", err)))
		os.Exit(1)
	}
}
