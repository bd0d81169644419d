package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	blog "github.com/ericx1023/contentful-blog"
	"github.com/ericx1023/contentful-blog/article"
)

// version is set at build time via ldflags.
var version = "dev"

var (
	logger     *zap.Logger
	configPath string
	feedLocale string
	feedJSON   bool
)

var rootCmd = &cobra.Command{
	Use:           "ctfblog",
	Short:         "ctfblog - a Contentful blog front-end",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		app, err := newApp()
		if err != nil {
			return err
		}
		defer app.Close()
		return app.Start(ctx)
	},
}

var feedCmd = &cobra.Command{
	Use:   "feed",
	Short: "Print the unified article feed",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
		defer cancel()

		app, err := newApp()
		if err != nil {
			return err
		}
		defer app.Close()
		articles, err := app.Articles(ctx, feedLocale)
		if err != nil {
			return err
		}
		if feedJSON {
			return writeJSON(cmd.OutOrStdout(), articles)
		}
		writeTable(cmd.OutOrStdout(), articles)
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "ctfblog %s\n", version)
	},
}

func newApp() (*blog.App, error) {
	cfg, err := blog.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	l, err := blog.NewLogger(cfg.LogLevel, cfg.Development)
	if err != nil {
		return nil, err
	}
	logger = l
	return blog.New(cfg, blog.WithLogger(logger)), nil
}

type feedRow struct {
	ID    string `json:"id"`
	Type  string `json:"type"`
	Date  string `json:"publishedDate,omitempty"`
	Slug  string `json:"slug"`
	Title string `json:"title"`
	Path  string `json:"path"`
}

func rows(articles []article.UnifiedArticle) []feedRow {
	out := make([]feedRow, 0, len(articles))
	for _, a := range articles {
		out = append(out, feedRow{
			ID:    a.Sys.ID,
			Type:  string(a.Type()),
			Date:  a.PublishedDate,
			Slug:  a.Slug,
			Title: a.Title,
			Path:  a.Path(),
		})
	}
	return out
}

func writeJSON(w io.Writer, articles []article.UnifiedArticle) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rows(articles))
}

const maxTitleWidth = 48

// writeTable prints rows aligned by display width so CJK titles line up.
func writeTable(w io.Writer, articles []article.UnifiedArticle) {
	header := []string{"TYPE", "DATE", "TITLE", "PATH"}
	table := [][]string{header}
	for _, r := range rows(articles) {
		date := r.Date
		if len(date) > 10 {
			date = date[:10]
		}
		table = append(table, []string{r.Type, date, runewidth.Truncate(r.Title, maxTitleWidth, "…"), r.Path})
	}

	widths := make([]int, len(header))
	for _, row := range table {
		for i, cell := range row {
			widths[i] = max(widths[i], runewidth.StringWidth(cell))
		}
	}
	for _, row := range table {
		cells := make([]string, len(row))
		for i, cell := range row {
			if i == len(row)-1 {
				cells[i] = cell
				continue
			}
			cells[i] = runewidth.FillRight(cell, widths[i])
		}
		fmt.Fprintln(w, strings.Join(cells, "  "))
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to a YAML config file")
	feedCmd.Flags().StringVar(&feedLocale, "locale", "", "locale to fetch (default en-US)")
	feedCmd.Flags().BoolVar(&feedJSON, "json", false, "print JSON instead of a table")

	rootCmd.AddCommand(serveCmd, feedCmd, versionCmd)
}

func main() {
	err := rootCmd.Execute()
	if logger != nil {
		_ = logger.Sync()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
