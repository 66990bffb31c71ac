package commands

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Check stored digests and sizes against the actual content",
	Long: `Walks every stored object, re-derives the MD5 digest and size of its
content, and compares them against the recorded metadata. Exits non-zero
when any mismatch is found.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer store.Close()

		workers := viper.GetInt("verify.workers")
		faults, err := store.Verify(cmd.Context(), workers)
		if err != nil {
			return err
		}

		for _, fault := range faults {
			fmt.Println(fault)
		}

		if len(faults) > 0 {
			return fmt.Errorf("found %d integrity faults", len(faults))
		}

		slog.Info("Store verified", "faults", 0)
		return nil
	},
}

func init() {
	verifyCmd.Flags().Int("workers", 0, "number of concurrent verification workers")
	if err := viper.BindPFlag("verify.workers", verifyCmd.Flags().Lookup("workers")); err != nil {
		panic(err)
	}
	rootCmd.AddCommand(verifyCmd)
}
