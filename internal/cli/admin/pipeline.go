package admin

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cloo-solutions/lendrag/internal/domain"
)

// PipelineCmd returns the pipeline command group
func PipelineCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pipeline",
		Short: "Inspect retrieval pipelines",
	}

	cmd.AddCommand(pipelineListCmd())

	return cmd
}

func pipelineListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the supported retrieval pipelines",
		RunE:  runPipelineList,
	}

	cmd.Flags().Bool("json", false, "Output as JSON")

	return cmd
}

func runPipelineList(cmd *cobra.Command, args []string) error {
	asJSON, _ := cmd.Flags().GetBool("json")

	if asJSON {
		type pipelineInfo struct {
			ID          string `json:"id"`
			Description string `json:"description"`
		}
		infos := make([]pipelineInfo, 0, len(domain.Pipelines()))
		for _, p := range domain.Pipelines() {
			infos = append(infos, pipelineInfo{ID: string(p), Description: p.Description()})
		}
		return json.NewEncoder(os.Stdout).Encode(infos)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "PIPELINE\tDESCRIPTION")
	for _, p := range domain.Pipelines() {
		fmt.Fprintf(w, "%s\t%s\n", p, p.Description())
	}
	return w.Flush()
}
