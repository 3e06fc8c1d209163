package command

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/navkeep-go/internal/cli/connection"
	"github.com/yndnr/navkeep-go/internal/cli/output"
)

// stateView mirrors the GET /state response data.
type stateView struct {
	CurrentRoute    string   `json:"current_route"`
	RouteHistory    []string `json:"route_history"`
	LastActiveAt    int64    `json:"last_active_at"`
	WasInBackground bool     `json:"was_in_background"`
	Phase           string   `json:"phase,omitempty"`
}

// StateCommand returns the state command.
func StateCommand() *cli.Command {
	return &cli.Command{
		Name:  "state",
		Usage: "Show the current navigation state",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "local",
				Usage: "Query via the host bridge socket instead of HTTP",
			},
		},
		Action: stateShow,
	}
}

func stateShow(c *cli.Context) error {
	var view stateView
	var err error

	if c.Bool("local") {
		view, err = stateViaSocket(c)
	} else {
		view, err = stateViaHTTP(c)
	}
	if err != nil {
		return err
	}

	flags := ParseGlobalFlags(c)
	switch output.Format(flags.Output) {
	case output.FormatJSON, output.FormatYAML:
		formatter := output.NewFormatter(output.Format(flags.Output), flags.Wide)
		return formatter.Format(os.Stdout, view)
	default:
		return renderState(view)
	}
}

func stateViaHTTP(c *cli.Context) (stateView, error) {
	client, err := EnsureConnected(c)
	if err != nil {
		return stateView{}, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	resp, err := client.Get(ctx, "/state")
	if err != nil {
		return stateView{}, fmt.Errorf("request failed: %w", err)
	}

	var view stateView
	if err := connection.ParseResponse(resp, &view); err != nil {
		return stateView{}, err
	}
	return view, nil
}

func stateViaSocket(c *cli.Context) (stateView, error) {
	flags := ParseGlobalFlags(c)

	client := connection.NewSocketClient(flags.Socket)
	defer client.Close()

	reply, err := client.Execute("STATE")
	if err != nil {
		return stateView{}, fmt.Errorf("bridge request failed: %w", err)
	}
	if strings.HasPrefix(reply, "ERR ") {
		return stateView{}, fmt.Errorf("bridge error: %s", strings.TrimPrefix(reply, "ERR "))
	}

	var view stateView
	if err := json.Unmarshal([]byte(reply), &view); err != nil {
		return stateView{}, fmt.Errorf("parse bridge reply: %w", err)
	}
	return view, nil
}

func renderState(view stateView) error {
	fmt.Printf("Navigation State\n")
	fmt.Printf("================\n\n")
	fmt.Printf("Current route:   %s\n", view.CurrentRoute)
	if view.Phase != "" {
		fmt.Printf("Phase:           %s\n", view.Phase)
	}
	if view.LastActiveAt > 0 {
		fmt.Printf("Last active:     %s\n", time.UnixMilli(view.LastActiveAt).Format("2006-01-02 15:04:05"))
	}
	fmt.Printf("In background:   %v\n", view.WasInBackground)

	if len(view.RouteHistory) > 0 {
		fmt.Printf("\nRoute history (oldest first):\n")
		for i, route := range view.RouteHistory {
			fmt.Printf("  %2d. %s\n", i+1, route)
		}
	}
	return nil
}
