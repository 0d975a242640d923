package client

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

// AskRequest represents the query API request.
type AskRequest struct {
	Query     string `json:"query"`
	OrgID     string `json:"orgId"`
	Pipeline  string `json:"pipeline"`
	SessionID string `json:"sessionId"`
}

// AskSource represents one cited source in the query response.
type AskSource struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Type       string  `json:"type"`
	Confidence float32 `json:"confidence"`
	Snippet    string  `json:"snippet"`
}

// AskResponse represents the query API response.
type AskResponse struct {
	Answer     string      `json:"answer"`
	Sources    []AskSource `json:"sources"`
	Confidence float32     `json:"confidence"`
}

// AskCmd creates the ask command.
func AskCmd() *cobra.Command {
	var (
		orgID     string
		pipeline  string
		sessionID string
	)

	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Ask a question against a pipeline session",
		Long:  "Asks a question answered from the documents uploaded into the pipeline session.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			outputJSON, _ := cmd.Flags().GetBool("output")
			return runAsk(cmd, args[0], orgID, pipeline, sessionID, outputJSON)
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

func runAsk(cmd *cobra.Command, question, orgID, pipeline, sessionID string, outputJSON bool) error {
	api, err := NewAPIClientWithCmd(cmd)
	if err != nil {
		return err
	}

	req := AskRequest{
		Query:     question,
		OrgID:     orgID,
		Pipeline:  pipeline,
		SessionID: sessionID,
	}

	var resp AskResponse
	if err := api.Post("/query", req, &resp); err != nil {
		return fmt.Errorf("query failed: %w", err)
	}

	if outputJSON {
		output, _ := json.MarshalIndent(resp, "", "  ")
		fmt.Println(string(output))
		return nil
	}

	fmt.Println(resp.Answer)

	if len(resp.Sources) > 0 {
		fmt.Printf("\nSources (confidence %.2f):\n", resp.Confidence)
		for _, src := range resp.Sources {
			fmt.Printf("  - %s (%.2f)\n", src.Name, src.Confidence)
		}
	}

	return nil
}
