package client

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

// UploadResult represents one per-file entry from the upload API.
type UploadResult struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Type   string `json:"type"`
	Size   int64  `json:"size"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// UploadCmd creates the upload command.
func UploadCmd() *cobra.Command {
	var (
		orgID     string
		pipeline  string
		sessionID string
	)

	cmd := &cobra.Command{
		Use:   "upload <file>...",
		Short: "Upload documents into a pipeline session",
		Long:  "Uploads one or more documents into the scoped vector index for a pipeline session.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			outputJSON, _ := cmd.Flags().GetBool("output")
			return runUpload(cmd, orgID, pipeline, sessionID, args, outputJSON)
		},
	}

	cmd.Flags().StringVarP(&orgID, "org", "o", "", "Organization ID (required)")
	cmd.Flags().StringVarP(&pipeline, "pipeline", "P", "", "Pipeline ID (required)")
	cmd.Flags().StringVarP(&sessionID, "session", "s", "", "Session ID (required)")
	_ = cmd.MarkFlagRequired("org")
	_ = cmd.MarkFlagRequired("pipeline")
	_ = cmd.MarkFlagRequired("session")

	return cmd
}

func runUpload(cmd *cobra.Command, orgID, pipeline, sessionID string, files []string, outputJSON bool) error {
	api, err := NewAPIClientWithCmd(cmd)
	if err != nil {
		return err
	}

	fields := map[string]string{
		"orgId":     orgID,
		"pipeline":  pipeline,
		"sessionId": sessionID,
	}

	var results []UploadResult
	if err := api.UploadFiles("/upload", fields, files, &results); err != nil {
		return fmt.Errorf("upload failed: %w", err)
	}

	if outputJSON {
		output, _ := json.MarshalIndent(results, "", "  ")
		fmt.Println(string(output))
		return nil
	}

	for _, result := range results {
		if result.Status == "ready" {
			fmt.Printf("✓ %s (%d bytes, id: %s)\n", result.Name, result.Size, result.ID)
		} else {
			fmt.Printf("✗ %s: %s\n", result.Name, result.Error)
		}
	}

	return nil
}
