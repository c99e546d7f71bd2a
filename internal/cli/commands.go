package cli

import (
	"github.com/google/subcommands"

	"tally/internal/audit"
	"tally/internal/config"
	"tally/internal/log"
	"tally/internal/secure"
	"tally/internal/storage"
)

// App carries the wired dependencies every subcommand shares.
type App struct {
	Cfg   *config.Config
	Store *storage.SQLiteRepository
	Enc   secure.Encryptor
	Audit audit.Recorder
	Log   *log.Logger
}

// Commands returns every subcommand of the main binary.
func Commands(app *App) []subcommands.Command {
	return []subcommands.Command{
		&importCmd{app: app},
		&exportCmd{app: app},
		&billCmd{app: app},
		&rolloverCmd{app: app},
		&reportCmd{app: app},
	}
}
