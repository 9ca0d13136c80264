package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/spf13/cobra"
	"github.com/upb/shotlocker/client"
)

func newGetCommand(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "get <path>",
		Short: "Send an authorized GET and print the response",
		Long: `Send an authorized GET request to the API and print the JSON response.

The path is relative to the API root, for example /lockers.
A 401 response signs the user out.`,
		Args: cobra.ExactArgs(1),
		RunE: rt.run(func(cmd *cobra.Command, args []string) error {
			err := rt.start(cmd)
			if redirected(err) {
				return ErrSignInRequired
			}
			if err != nil {
				return err
			}

			req, err := rt.deps.API.NewRequest(cmd.Context(), http.MethodGet, args[0], nil)
			if err != nil {
				return err
			}
			resp, err := rt.deps.API.Do(req)
			if err != nil {
				return fmt.Errorf("GET %s: %w", args[0], err)
			}
			defer resp.Body.Close()

			body, err := io.ReadAll(resp.Body)
			if err != nil {
				return fmt.Errorf("read response: %w", err)
			}
			if resp.StatusCode < 200 || resp.StatusCode > 299 {
				return &client.StatusError{StatusCode: resp.StatusCode, Body: string(body)}
			}

			return writeJSON(cmd.OutOrStdout(), body)
		}),
	}
}

// writeJSON pretty prints body, falling back to the raw bytes
func writeJSON(out io.Writer, body []byte) error {
	var buf bytes.Buffer
	if err := json.Indent(&buf, body, "", "  "); err != nil {
		_, err = out.Write(body)
		return err
	}
	buf.WriteByte('\n')
	_, err := buf.WriteTo(out)
	return err
}
