package command

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/navkeep-go/internal/cli/connection"
	"github.com/yndnr/navkeep-go/internal/cli/output"
)

// ExportCommand returns the export command.
func ExportCommand() *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Download a diagnostic bundle of state and decisions",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "out",
				Aliases: []string{"O"},
				Usage:   "Output file path (defaults to <bundle-id>.nkbundle)",
			},
		},
		Action: exportRun,
	}
}

func exportRun(c *cli.Context) error {
	client, err := EnsureConnected(c)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	resp, err := client.Get(ctx, "/admin/v1/export")
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		// Errors still come back as the JSON envelope.
		return connection.ParseResponse(resp, nil)
	}
	defer resp.Body.Close()

	outPath := c.String("out")
	if outPath == "" {
		bundleID := resp.Header.Get("X-Bundle-ID")
		if bundleID == "" {
			bundleID = fmt.Sprintf("navkeep-%d", time.Now().Unix())
		}
		outPath = bundleID + ".nkbundle"
	}

	f, err := os.OpenFile(outPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	defer f.Close()

	written, err := downloadBundle(f, resp)
	if err != nil {
		os.Remove(outPath)
		return fmt.Errorf("write bundle: %w", err)
	}

	fmt.Printf("Bundle written to %s (%d bytes)\n", outPath, written)
	if id := resp.Header.Get("X-Bundle-ID"); id != "" {
		fmt.Printf("Bundle ID: %s\n", id)
	}
	return nil
}

// downloadBundle copies the response body to w with download feedback
// on stderr: a progress bar when the size is known, a spinner
// otherwise.
func downloadBundle(w io.Writer, resp *http.Response) (int64, error) {
	if resp.ContentLength > 0 {
		bar := output.NewProgressBar(os.Stderr, "Downloading")
		bar.SetTotal(resp.ContentLength)
		written, err := io.Copy(io.MultiWriter(w, progressWriter{bar}), resp.Body)
		if err == nil {
			bar.Finish()
		}
		return written, err
	}

	spinner := output.NewSpinner(os.Stderr, "Downloading bundle...")
	spinner.Start()
	written, err := io.Copy(w, resp.Body)
	if err != nil {
		spinner.Fail("Download failed")
		return written, err
	}
	spinner.Stop()
	return written, nil
}

// progressWriter feeds copied byte counts into a progress bar.
type progressWriter struct {
	bar *output.ProgressBar
}

func (p progressWriter) Write(b []byte) (int, error) {
	p.bar.Increment(int64(len(b)))
	return len(b), nil
}
