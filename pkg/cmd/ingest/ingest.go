package ingest

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/pitwall/pitwall/log"
	"github.com/pitwall/pitwall/pkg/cmd/util"
	"github.com/pitwall/pitwall/pkg/config"
	"github.com/pitwall/pitwall/pkg/provider/store"
)

func NewIngestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "imports a session dump into the session store",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ingestSession()
		},
	}
	cmd.Flags().StringVarP(&config.ImportFile,
		"file",
		"f",
		"",
		"session dump file (JSON), reads stdin when omitted")
	return cmd
}

func ingestSession() error {
	logger := util.SetupLogger()

	in := os.Stdin
	if config.ImportFile != "" {
		f, err := os.Open(config.ImportFile)
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}
	dump, err := store.ReadDump(in)
	if err != nil {
		log.Error("could not read session dump", log.ErrorField(err))
		return err
	}

	st, err := store.New(config.SessionDB,
		store.WithLogger(logger.Named("store")))
	if err != nil {
		log.Error("could not open session store", log.ErrorField(err))
		return err
	}
	defer st.Close()

	return st.ImportSession(context.Background(), dump)
}
