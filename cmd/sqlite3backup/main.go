// Command sqlite3backup copies a SQLite database with the engine's online
// backup API, so the source may be in use while it runs. The outcome of every
// run is appended to backup.log in the working directory.
//
//	sqlite3backup ~/myproject/src.db ~/myproject/backup.db
//
// The destination is created when it does not exist and its parent directory
// does.
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/garnizeh/sqlite3backup/internal/backup"
	"github.com/garnizeh/sqlite3backup/internal/config"
	"github.com/garnizeh/sqlite3backup/internal/engine/sqlite"
)

const usage = "usage: sqlite3backup <source_db_path> <destination_db_path>\n"

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if len(args) != 2 {
		fmt.Fprint(stderr, usage)
		return 2
	}

	cfg, err := config.LoadConfig("")
	if err != nil {
		fmt.Fprintf(stderr, "Config error: %v\n", err)
		return 1
	}

	journal, err := backup.OpenJournal(cfg.LogPath)
	if err != nil {
		fmt.Fprintf(stderr, "%s: %v\n", backup.Kind(err), err)
	} else {
		defer closeJournal(journal, stderr)
	}

	runner := backup.New(sqlite.New(cfg.EngineConfig, nil), journal)
	res, err := runner.Run(ctx, args[0], args[1])
	if res.LogErr != nil {
		fmt.Fprintf(stderr, "%s: %v\n", backup.Kind(res.LogErr), res.LogErr)
	}
	if err != nil {
		fmt.Fprintf(stderr, "%s: %v\n", backup.Kind(err), err)
		return 1
	}

	fmt.Fprintln(stdout, "Database backup completed.")
	return 0
}

func closeJournal(j *backup.Journal, stderr io.Writer) {
	if err := j.Close(); err != nil {
		fmt.Fprintf(stderr, "%s: %v\n", backup.Kind(err), err)
	}
}
