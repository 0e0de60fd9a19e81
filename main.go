package main

import (
	"fmt"
	"log"
	"os"

	_ "github.com/joho/godotenv/autoload"
)

func main() {
	log.SetOutput(os.Stdout)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	if err := run(NewApp(os.Stdout), os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run executes one command line and closes the app before returning, so
// the database is closed even when the command fails.
func run(a *App, args []string) error {
	defer a.Close()

	cmd := SetupCommands(a)
	cmd.SetArgs(args)
	return cmd.Execute()
}
