package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Veraticus/mapping-lia/internal/cli"
	"github.com/Veraticus/mapping-lia/internal/feedback"
	"github.com/Veraticus/mapping-lia/internal/model"
	"github.com/Veraticus/mapping-lia/internal/tui/viewmodel"
	"github.com/spf13/cobra"
)

const confidenceBarWidth = 20

func mapCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "map [competence...]",
		Short: "Map competences onto the taxonomy",
		Long: `Map free-text competences onto areas. Each argument is one competence;
with no arguments the competences are read from --file or stdin, one per line.`,
		Example: `  lia map ".NET" "Project Management"
  lia map --file competences.txt`,
		RunE: runMap,
	}

	cmd.Flags().StringP("file", "f", "", "read competences from file (one per line)")

	return cmd
}

func runMap(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	lines := args
	if len(lines) == 0 {
		var err error
		if lines, err = readCompetences(cmd); err != nil {
			return err
		}
	}
	if len(nonBlank(lines)) == 0 {
		return fmt.Errorf("no competences to map")
	}

	a, err := newApp(ctx, nil)
	if err != nil {
		return err
	}
	defer a.close()
	if err := a.requireLogin(); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, cli.FormatInfo("Running LLM mapping for all lines..."))

	batch, err := a.api.MapLines(ctx, lines)
	if err != nil {
		for _, msg := range feedback.MappingErrors(err) {
			fmt.Fprintln(out, cli.FormatError(msg))
		}
		return err
	}

	fmt.Fprint(out, renderBatch(batch))
	text, ok := viewmodel.Batch(batch).Outcome()
	if !ok {
		return fmt.Errorf("%s", text)
	}
	fmt.Fprintln(out, cli.FormatSuccess(text))
	return nil
}

func readCompetences(cmd *cobra.Command) ([]string, error) {
	var r io.Reader = cmd.InOrStdin()
	if path, _ := cmd.Flags().GetString("file"); path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", path, err)
		}
		defer f.Close()
		r = f
	}

	var lines []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read competences: %w", err)
	}
	return lines, nil
}

func nonBlank(lines []string) []string {
	var out []string
	for _, l := range lines {
		if strings.TrimSpace(l) != "" {
			out = append(out, l)
		}
	}
	return out
}

// renderBatch lists per-line failures followed by a table of results.
func renderBatch(b model.BatchMapping) string {
	view := viewmodel.Batch(b)

	var sb strings.Builder
	for _, msg := range view.Errors {
		sb.WriteString(cli.FormatWarning(msg))
		sb.WriteString("\n")
	}
	if len(view.Results) == 0 {
		return sb.String()
	}

	rows := make([][]string, 0, len(view.Results))
	for _, r := range view.Results {
		rows = append(rows, []string{
			r.Input,
			r.Normalized,
			r.Area,
			fmt.Sprintf("%s %3d%%", viewmodel.ConfidenceBar(r.Percentage, confidenceBarWidth), r.Percentage),
		})
	}
	sb.WriteString(cli.RenderTable([]string{"Competence", "Normalized", "Area", "Confidence"}, rows, 60))
	return sb.String()
}
