// Package main is the rovcal command itself.
package main

import (
	"log"
	"os"

	"go.eer.dev/rov/cli"
)

func main() {
	app := cli.NewApp(os.Stdout, os.Stderr)
	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
