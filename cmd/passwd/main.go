package main

import (
	"fmt"
	"os"

	"github.com/dtroode/filecms/internal/cli"
	"github.com/dtroode/filecms/internal/credentials"
)

func main() {
	root := cli.NewRootCommand(credentials.BcryptVerifier{}, credentials.SetUser)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
