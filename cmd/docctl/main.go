// docctl drives the contract analyzer API from a terminal.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"contract-analyzer/internal/client"
	"contract-analyzer/internal/domain"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	boldGreen = color.New(color.FgGreen, color.Bold).SprintFunc()
	boldRed   = color.New(color.FgRed, color.Bold).SprintFunc()
	cyan      = color.New(color.FgCyan).SprintFunc()
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", boldRed("error:"), err)
		var apiErr *client.APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode < 500 {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var server string

	root := &cobra.Command{
		Use:           "docctl",
		Short:         "Upload, parse and analyze contract PDFs",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&server, "server", envOr("DOCCTL_SERVER", "http://localhost:8080"), "analyzer base URL")

	newClient := func() *client.Client { return client.New(server, nil) }

	root.AddCommand(
		newUploadCmd(newClient),
		newParseCmd(newClient),
		newAnalyzeCmd(newClient),
	)
	return root
}

func newUploadCmd(newClient func() *client.Client) *cobra.Command {
	var parse bool
	cmd := &cobra.Command{
		Use:   "upload <file.pdf>",
		Short: "Upload a PDF to blob storage",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := newClient()
			res, err := c.UploadFile(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", boldGreen("uploaded"), res.URL)

			if !parse {
				return nil
			}
			name := filepath.Base(args[0])
			parsed, err := c.Parse(cmd.Context(), name)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s (%d characters)\n", boldGreen("parsed"), name, parsed.Length)
			return nil
		},
	}
	cmd.Flags().BoolVar(&parse, "parse", false, "extract text right after uploading")
	return cmd
}

func newParseCmd(newClient func() *client.Client) *cobra.Command {
	return &cobra.Command{
		Use:   "parse <fileName>",
		Short: "Extract and store the text of an uploaded PDF",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := newClient().Parse(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s (%d characters)\n", boldGreen("parsed"), args[0], res.Length)
			return nil
		},
	}
}

func newAnalyzeCmd(newClient func() *client.Client) *cobra.Command {
	var (
		requestType string
		question    string
		second      string
	)
	cmd := &cobra.Command{
		Use:   "analyze <fileName>",
		Short: "Run an analysis over parsed documents",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := domain.AnalysisRequest{
				PrimaryFileName:   args[0],
				SecondaryFileName: second,
				RequestType:       domain.RequestType(requestType),
				Question:          question,
			}
			res, err := newClient().Analyze(cmd.Context(), req)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\n%s\n", cyan(fmt.Sprintf("[%s] %s", req.RequestType, args[0])), res.Text)
			return nil
		},
	}
	cmd.Flags().StringVarP(&requestType, "type", "t", string(domain.RequestTypeSummary), "summary, clauses, risk, qa or compare")
	cmd.Flags().StringVarP(&question, "question", "q", "", "question for --type qa")
	cmd.Flags().StringVar(&second, "second", "", "second file for --type compare")
	return cmd
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
