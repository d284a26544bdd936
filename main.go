package main

import (
	"fmt"
	"os"
	"path/filepath"

	"fjacquet/conciliation/cmd/automatch"
	"fjacquet/conciliation/cmd/bucket"
	"fjacquet/conciliation/cmd/check"
	"fjacquet/conciliation/cmd/importcmd"
	"fjacquet/conciliation/cmd/orphans"
	"fjacquet/conciliation/cmd/root"
	"fjacquet/conciliation/cmd/split"
	"fjacquet/conciliation/cmd/unassigned"
	"fjacquet/conciliation/cmd/unbucket"
	"fjacquet/conciliation/cmd/update"

	"github.com/joho/godotenv"
)

func init() {
	// Environment first so LOG_LEVEL and CONCILIATION_* from .env apply.
	loadEnvSilently()

	root.Init()

	root.Cmd.AddCommand(importcmd.Cmd)
	root.Cmd.AddCommand(split.Cmd)
	root.Cmd.AddCommand(automatch.Cmd)
	root.Cmd.AddCommand(bucket.Cmd)
	root.Cmd.AddCommand(unbucket.Cmd)
	root.Cmd.AddCommand(orphans.Cmd)
	root.Cmd.AddCommand(update.Cmd)
	root.Cmd.AddCommand(check.Cmd)
	root.Cmd.AddCommand(unassigned.Cmd)
}

// loadEnvSilently loads environment variables without logging anything
func loadEnvSilently() {
	envFile := ".env"
	if _, err := os.Stat(envFile); os.IsNotExist(err) {
		envFile = filepath.Join("..", ".env")
		if _, err := os.Stat(envFile); os.IsNotExist(err) {
			return
		}
	}
	_ = godotenv.Load(envFile)
}

func main() {
	if err := root.Cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
