package main

import (
	"fmt"
	"log/slog"

	"github.com/sirupsen/logrus"
	"github.com/snowzach/rotatefilehook"
	"github.com/spf13/cobra"

	"github.com/vancomm/minegrid/internal/mines"
)

var (
	log = logrus.New()
	// slogger carries library logs, see setupLogging
	slogger = slog.Default()

	verbose     bool
	logFile     string
	recordsPath string
)

var rootCmd = &cobra.Command{
	Use:   "minegrid",
	Short: "Play minegrid in the terminal",
	Long: `Play minegrid in the terminal.

Commands are read from stdin, one per line:
  o ROW COL   reveal a cell
  f ROW COL   toggle a flag
  c ROW COL   chord around a revealed number
  n           start a new round
  g           print the board again`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setupLogging()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log debug messages")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Also write JSON logs to this file, rotated")
	rootCmd.PersistentFlags().StringVarP(&recordsPath, "records", "r", "minegrid.db", "Sqlite file for finished rounds, empty to disable")
}

func setupLogging() error {
	logLevel := logrus.InfoLevel
	if verbose {
		logLevel = logrus.DebugLevel
	}
	log.SetLevel(logLevel)
	log.SetFormatter(&logrus.TextFormatter{ForceColors: true})

	if logFile != "" {
		hook, err := rotatefilehook.NewRotateFileHook(rotatefilehook.RotateFileConfig{
			Filename:   logFile,
			MaxSize:    5,
			MaxBackups: 3,
			MaxAge:     28,
			Level:      logLevel,
			Formatter:  &logrus.JSONFormatter{},
		})
		if err != nil {
			return fmt.Errorf("unable to open log file %s: %w", logFile, err)
		}
		log.AddHook(hook)
	}

	// library logs go through logrus at debug level
	slogger = slog.New(slog.NewTextHandler(
		log.WriterLevel(logrus.DebugLevel),
		&slog.HandlerOptions{Level: slog.LevelDebug},
	))
	mines.Log = slogger
	return nil
}
