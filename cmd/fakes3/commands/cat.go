package commands

import (
	"os"

	"github.com/spf13/cobra"
)

var catCmd = &cobra.Command{
	Use:   "cat <bucket> <key>",
	Short: "Write an object's content to stdout",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer store.Close()

		obj, err := store.GetObject(cmd.Context(), args[0], args[1])
		if err != nil {
			return err
		}

		_, err = os.Stdout.Write(obj.Item.Content)
		return err
	},
}

func init() {
	rootCmd.AddCommand(catCmd)
}
