package command

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/navkeep-go/internal/cli/connection"
	"github.com/yndnr/navkeep-go/internal/cli/output"
)

// decisionEntry mirrors one journal record in the GET /decisions
// response.
type decisionEntry struct {
	ID           string `json:"id"`
	DecidedAt    int64  `json:"decided_at"`
	Outcome      string `json:"outcome"`
	Route        string `json:"route,omitempty"`
	Reason       string `json:"reason"`
	BackgroundMs int64  `json:"background_ms"`
	SavedRoute   string `json:"saved_route,omitempty"`
}

// DecisionsCommand returns the decisions command.
func DecisionsCommand() *cli.Command {
	return &cli.Command{
		Name:    "decisions",
		Aliases: []string{"dec"},
		Usage:   "Show recent restoration decisions, newest first",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "limit",
				Aliases: []string{"n"},
				Value:   20,
				Usage:   "Maximum number of decisions to show",
			},
		},
		Action: decisionsList,
	}
}

func decisionsList(c *cli.Context) error {
	client, err := EnsureConnected(c)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	path := "/decisions"
	if limit := c.Int("limit"); limit > 0 {
		path = fmt.Sprintf("%s?limit=%d", path, limit)
	}

	resp, err := client.Get(ctx, path)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}

	var result struct {
		Items []decisionEntry `json:"items"`
		Total int             `json:"total"`
	}
	if err := connection.ParseResponse(resp, &result); err != nil {
		return err
	}

	flags := ParseGlobalFlags(c)
	switch output.Format(flags.Output) {
	case output.FormatJSON, output.FormatYAML:
		formatter := output.NewFormatter(output.Format(flags.Output), flags.Wide)
		return formatter.Format(os.Stdout, result.Items)
	default:
		return renderDecisions(flags, result.Items, result.Total)
	}
}

func renderDecisions(flags *GlobalFlags, items []decisionEntry, total int) error {
	headers := []string{"WHEN", "OUTCOME", "ROUTE", "REASON", "BACKGROUND"}
	if flags.Wide {
		headers = append(headers, "SAVED ROUTE", "ID")
	}

	table := &output.Table{Headers: headers}
	for _, d := range items {
		row := []string{
			time.UnixMilli(d.DecidedAt).Format("2006-01-02 15:04:05"),
			d.Outcome,
			d.Route,
			d.Reason,
			(time.Duration(d.BackgroundMs) * time.Millisecond).String(),
		}
		if flags.Wide {
			row = append(row, d.SavedRoute, d.ID)
		}
		table.Rows = append(table.Rows, row)
	}

	if err := table.Render(os.Stdout); err != nil {
		return err
	}
	fmt.Printf("\nTotal: %d decisions\n", total)
	return nil
}
