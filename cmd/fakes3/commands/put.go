package commands

import (
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"fakes3/internal/fakes3"
)

var (
	putContentType string
	putMeta        []string
)

var putCmd = &cobra.Command{
	Use:   "put <bucket> <key> <file>",
	Short: "Store a file as an object",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		bucket, key, path := args[0], args[1], args[2]

		store, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer store.Close()

		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()

		header := http.Header{}
		if putContentType != "" {
			header.Set("Content-Type", putContentType)
		}
		for _, kv := range putMeta {
			k, v, ok := strings.Cut(kv, "=")
			if !ok || k == "" {
				return fmt.Errorf("invalid --meta %q, want key=value", kv)
			}
			header.Add("x-amz-meta-"+k, v)
		}

		obj, err := store.StoreObject(cmd.Context(), bucket, key, fakes3.NewRequest(putContentType, header, f))
		if err != nil {
			return err
		}

		fmt.Printf("%s/%s %d bytes md5=%s\n", bucket, obj.Name, obj.Size, obj.MD5)
		return nil
	},
}

func init() {
	putCmd.Flags().StringVar(&putContentType, "content-type", "", "declared content type (default application/octet-stream)")
	putCmd.Flags().StringArrayVar(&putMeta, "meta", nil, "custom metadata entry as key=value (repeatable)")
	rootCmd.AddCommand(putCmd)
}
