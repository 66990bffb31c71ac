package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"fakes3/internal/fakes3"
)

var rmForce bool

var rmCmd = &cobra.Command{
	Use:   "rm <bucket> <key>",
	Short: "Delete an object",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer store.Close()

		err = store.DeleteObject(cmd.Context(), args[0], args[1])
		if errors.Is(err, fakes3.ErrNotFound) && rmForce {
			return nil
		}
		if err != nil {
			return err
		}

		fmt.Printf("Deleted %s/%s\n", args[0], args[1])
		return nil
	},
}

func init() {
	rmCmd.Flags().BoolVarP(&rmForce, "force", "f", false, "do not fail when the object does not exist")
	rootCmd.AddCommand(rmCmd)
}
