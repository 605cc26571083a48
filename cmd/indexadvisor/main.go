package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "indexadvisor",
		Short: "statically analyze queries against declared indexes",
	}
	rootCmd.AddCommand(explainCmd(), initCmd())
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
