package commands

import (
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"
)

var statCmd = &cobra.Command{
	Use:   "stat <bucket> <key>",
	Short: "Show an object's metadata",
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

		fmt.Printf("Name:         %s\n", obj.Name)
		fmt.Printf("MD5:          %s\n", obj.MD5)
		fmt.Printf("Content-Type: %s\n", obj.ContentType)
		fmt.Printf("Size:         %d\n", obj.Size)
		fmt.Printf("Modified:     %s\n", obj.ModifiedDate.Format(time.RFC3339Nano))

		keys := make([]string, 0, len(obj.CustomMetadata))
		for k := range obj.CustomMetadata {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Printf("Meta %s: %s\n", k, obj.CustomMetadata[k])
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(statCmd)
}
