package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"fakes3/internal/fakes3"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "fakes3",
	Short: "A lightweight S3-style object store backed by sqlite",
	Long: `fakes3 manages the persistence layer of an S3-style object storage
emulator: objects live as rows in a single sqlite database, each carrying
its content bytes and a serialized metadata record.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupLogging()
	},
}

// Execute runs the command tree. Errors are logged here so main can exit
// without printing them twice.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		slog.Error("Command failed", "err", err)
	}
	return err
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default fakes3.yaml in the working directory)")
	rootCmd.PersistentFlags().String("db", "", "path to the sqlite database file")
	if err := viper.BindPFlag("database.path", rootCmd.PersistentFlags().Lookup("db")); err != nil {
		panic(err)
	}
}

// initConfig wires defaults, the optional config file, and FAKES3_* env
// vars into viper.
func initConfig() {
	viper.SetDefault("database.path", fakes3.DefaultDBPath)
	viper.SetDefault("verify.workers", 4)

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName("fakes3")
	}

	viper.SetEnvPrefix("FAKES3")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			fmt.Fprintln(os.Stderr, "Config error:", err)
			os.Exit(1)
		}
	}
}

func setupLogging() {
	handler := log.NewWithOptions(os.Stderr, log.Options{
		Level:           log.InfoLevel,
		TimeFormat:      time.RFC3339,
		ReportTimestamp: true,
		TimeFunction:    log.NowUTC,
	})

	slog.SetDefault(slog.New(handler))
}

// openStore opens the configured store; the caller is responsible for
// closing it.
func openStore(ctx context.Context) (*fakes3.FileStore, error) {
	cfg := fakes3.NewConfig(
		fakes3.WithDBPath(viper.GetString("database.path")),
	)
	return fakes3.NewFileStore(ctx, cfg)
}
