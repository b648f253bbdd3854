package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/frahmantamala/shift-scheduler/internal/core/common/validation"
	"github.com/frahmantamala/shift-scheduler/internal/export"
	"github.com/frahmantamala/shift-scheduler/internal/export/storage"
	"github.com/frahmantamala/shift-scheduler/pkg/logger"
)

var (
	exportFrom   string
	exportTo     string
	exportOut    string
	exportUpload bool
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write shifts in a date range to CSV",
	Long:  `Export every shift dated between --from and --to; a missing bound is open. The file goes to --out, a directory, or stdout, and optionally to object storage.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		v := validation.NewValidator()
		v.Field("from", exportFrom).Date()
		v.Field("to", exportTo).Date()
		if err := v.Validate(); err != nil {
			return err
		}

		cfg, err := loadConfig(configDir)
		if err != nil {
			return err
		}
		lg := logger.LoggerWrapper()

		stores, err := openStores(cfg)
		if err != nil {
			return err
		}
		defer stores.Close()
		app := NewApp(cfg, stores, lg)

		var uploader export.Uploader
		if exportUpload {
			if !cfg.Storage.Enabled() {
				return fmt.Errorf("--upload needs storage.endpoint, access_key and secret_key")
			}
			u, err := storage.NewMinioUploader(cmd.Context(), cfg.Storage)
			if err != nil {
				return err
			}
			uploader = u
		}

		var w io.Writer = cmd.OutOrStdout()
		var file *os.File
		if exportOut != "" {
			path := exportOut
			if info, err := os.Stat(exportOut); err == nil && info.IsDir() {
				path = filepath.Join(exportOut, export.FileName(time.Now()))
			}
			file, err = os.Create(path)
			if err != nil {
				return err
			}
			defer file.Close()
			w = file
		}

		name, rows, err := app.Export.ExportRange(cmd.Context(), exportFrom, exportTo, w, uploader)
		if err != nil {
			return err
		}
		lg.Info("export finished", "file", name, "rows", rows, "uploaded", uploader != nil)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportFrom, "from", "", "first date, YYYY-MM-DD")
	exportCmd.Flags().StringVar(&exportTo, "to", "", "last date, YYYY-MM-DD")
	exportCmd.Flags().StringVar(&exportOut, "out", "", "output file or directory; stdout when empty")
	exportCmd.Flags().BoolVar(&exportUpload, "upload", false, "also upload to object storage")
}
