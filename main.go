package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"scrapper/internal/browser"
	"scrapper/internal/formatter"
	"scrapper/internal/records"
	"scrapper/internal/scrapper"

	"github.com/spf13/cobra"
)

var version = "dev"

var (
	searchSelector string
	searchValue    string
	clicks         []string
	selector       string
	asHTML         bool
	maxRecords     int
	outputFormat   string
	outputFile     string
	settle         time.Duration
	timeout        time.Duration
	elementTimeout time.Duration
	showUI         bool
	proxyURL       string
	browserBin     string
)

func main() {
	var rootCmd = &cobra.Command{
		Use:     "scrapper [URL]",
		Short:   "Drive a headless browser page and scrape text from it",
		Version: version,
		Long: `scrapper opens a URL in a headless browser, optionally fills and submits
a search field and clicks elements, then prints the visible text of every
element matching a CSS selector.`,
		Example: `  # Print the page heading
  scrapper -s h1 https://example.com

  # Search, then list result titles as JSON
  scrapper -S "input[name=q]" -q "golang" --settle 2s -s "h3" -n 10 -f json https://duckduckgo.com

  # Click a tab first and save the rows as CSV
  scrapper -c "#tab-details" -s "table tr" -o rows.csv https://example.com/item

  # Convert matched blocks to markdown
  scrapper --html -s article -f markdown https://example.com/blog`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				cmd.Help()
				os.Exit(0)
			}
			return cobra.ExactArgs(1)(cmd, args)
		},
		RunE:         run,
		SilenceUsage: true,
	}

	rootCmd.Flags().StringVarP(&searchSelector, "search-selector", "S", "", "CSS selector of the field to type the search into")
	rootCmd.Flags().StringVarP(&searchValue, "search", "q", "", "Text to type into the search field before pressing Enter")
	rootCmd.Flags().StringArrayVarP(&clicks, "click", "c", []string{}, "CSS selector to click, in order (can be used multiple times)")
	rootCmd.Flags().StringVarP(&selector, "selector", "s", "", "CSS selector of the elements to scrape (required)")
	rootCmd.Flags().BoolVar(&asHTML, "html", false, "Scrape outer HTML instead of visible text")
	rootCmd.Flags().IntVarP(&maxRecords, "max-records", "n", 0, "Maximum number of records to output (0 for no limit)")
	rootCmd.Flags().StringVarP(&outputFormat, "format", "f", "text", "Output format (html, text, markdown, json, csv)")
	rootCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file path (format inferred from extension if -f not specified)")
	rootCmd.Flags().DurationVar(&settle, "settle", 0, "Time to wait after the search and after each click")
	rootCmd.Flags().DurationVarP(&timeout, "timeout", "t", 60*time.Second, "Deadline for the whole run")
	rootCmd.Flags().DurationVar(&elementTimeout, "element-timeout", browser.DefaultElementTimeout, "How long to wait for a search or click target to appear")
	rootCmd.Flags().BoolVar(&showUI, "showui", false, "Show browser UI (disable headless mode)")
	rootCmd.Flags().StringVarP(&proxyURL, "proxy", "p", os.Getenv("SCRAPPER_PROXY"), "Proxy URL (e.g. http://127.0.0.1:7890), defaults to SCRAPPER_PROXY env var")
	rootCmd.Flags().StringVar(&browserBin, "bin", "", "Browser binary to launch (downloaded automatically when empty)")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	target := normalizeURL(args[0])

	if outputFile != "" && !cmd.Flags().Changed("format") {
		if inferred := formatter.InferFromExtension(outputFile); inferred != "" {
			outputFormat = inferred
		}
	}

	opts := scrapper.Options{
		SearchValue: searchValue,
		MaxRecords:  maxRecords,
	}

	if err := validateFlags(opts); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	driver := browser.New(browser.Config{
		Headless:       !showUI,
		ProxyURL:       proxyURL,
		Bin:            browserBin,
		ElementTimeout: elementTimeout,
	})

	content, err := scrape(ctx, scrapper.New(driver, opts), plan{
		URL:            target,
		SearchSelector: searchSelector,
		Clicks:         clicks,
		Selector:       selector,
		HTML:           asHTML,
		Settle:         settle,
	})
	if err != nil {
		return err
	}

	outputContent, err := formatter.Format(content, outputFormat)
	if err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}

	if outputFile != "" {
		if err := os.WriteFile(outputFile, []byte(outputContent), 0644); err != nil {
			return fmt.Errorf("failed to write to file: %w", err)
		}
		fmt.Fprintf(os.Stderr, "%d records written to: %s\n", len(content.Items), outputFile)
	} else {
		fmt.Println(outputContent)
	}

	return nil
}

// plan is the sequence of page actions for one run.
type plan struct {
	URL            string
	SearchSelector string
	Clicks         []string
	Selector       string
	HTML           bool
	Settle         time.Duration
}

// scrape runs p against c and always stops the browser before returning.
func scrape(ctx context.Context, c *scrapper.Controller, p plan) (content *records.Content, err error) {
	if err := c.Start(ctx); err != nil {
		return nil, fmt.Errorf("failed to start browser: %w", err)
	}
	defer func() {
		if stopErr := c.Stop(); stopErr != nil {
			log.Printf("Warning: %v", stopErr)
		}
	}()

	if err := c.NavigateTo(ctx, p.URL); err != nil {
		return nil, err
	}

	opts := c.Options()
	if p.SearchSelector != "" {
		if err := c.PerformSearch(ctx, p.SearchSelector, opts.SearchValue); err != nil {
			return nil, fmt.Errorf("failed to search: %w", err)
		}
		if err := pause(ctx, p.Settle); err != nil {
			return nil, err
		}
	}

	for _, sel := range p.Clicks {
		if err := c.ClickOnElement(ctx, sel); err != nil {
			return nil, fmt.Errorf("failed to click: %w", err)
		}
		if err := pause(ctx, p.Settle); err != nil {
			return nil, err
		}
	}

	kind := records.KindText
	var items []string
	if p.HTML {
		kind = records.KindHTML
		items, err = c.GetHTMLFromElements(ctx, p.Selector)
	} else {
		items, err = c.GetTextFromElements(ctx, p.Selector)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scrape %s: %w", p.Selector, err)
	}

	return records.New(p.Selector, p.URL, kind, items).Limit(opts.MaxRecords), nil
}

func pause(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func validateFlags(opts scrapper.Options) error {
	if err := opts.Validate(); err != nil {
		return err
	}

	if selector == "" {
		return fmt.Errorf("--selector is required")
	}

	if !formatter.Valid(outputFormat) {
		return fmt.Errorf("invalid output format: %s", outputFormat)
	}

	if searchSelector == "" && searchValue != "" {
		return fmt.Errorf("--search requires --search-selector")
	}

	if timeout <= 0 {
		return fmt.Errorf("--timeout must be positive")
	}

	return nil
}

// normalizeURL adds http:// if no protocol prefix
func normalizeURL(rawURL string) string {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return rawURL
	}
	lower := strings.ToLower(rawURL)
	if !strings.HasPrefix(lower, "http://") && !strings.HasPrefix(lower, "https://") &&
		!strings.HasPrefix(lower, "file://") && !strings.HasPrefix(lower, "about:") {
		return "http://" + rawURL
	}
	return rawURL
}
