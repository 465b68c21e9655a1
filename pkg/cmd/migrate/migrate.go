package migrate

import (
	"database/sql"

	"github.com/spf13/cobra"
	_ "modernc.org/sqlite"

	"github.com/pitwall/pitwall/log"
	"github.com/pitwall/pitwall/pkg/cmd/util"
	"github.com/pitwall/pitwall/pkg/config"
	"github.com/pitwall/pitwall/pkg/provider/store"
)

func NewMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "performs session store migration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return startMigration()
		},
	}
	return cmd
}

func startMigration() error {
	util.SetupLogger()

	log.Info("Migrating session store", log.String("db", config.SessionDB))
	db, err := sql.Open("sqlite", config.SessionDB)
	if err != nil {
		log.Error("could not open session store", log.ErrorField(err))
		return err
	}
	defer db.Close()

	if err := store.Migrate(db); err != nil {
		log.Error("migration failed", log.ErrorField(err))
		return err
	}
	log.Info("Migration done")
	return nil
}
