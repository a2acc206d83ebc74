// novelshelf-cli imports a metadata file and prints one page of the
// filtered catalog, or runs the downloader for a single novel.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/vrsandeep/novelshelf/internal/catalog"
	"github.com/vrsandeep/novelshelf/internal/config"
	"github.com/vrsandeep/novelshelf/internal/cover"
	"github.com/vrsandeep/novelshelf/internal/downloader"
	"github.com/vrsandeep/novelshelf/internal/importer"
	"github.com/vrsandeep/novelshelf/internal/models"
	"github.com/vrsandeep/novelshelf/internal/query"
	"github.com/vrsandeep/novelshelf/internal/view"
)

type options struct {
	filter   query.Filter
	sort     query.Sort
	page     int
	topTags  bool
	asJSON   bool
	download string
	title    string
	verbose  bool
}

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	v := config.New()
	opts, err := parseFlags(v, os.Args[1:])
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if !opts.verbose {
		log.SetOutput(io.Discard)
	}

	cfg, err := config.LoadFrom(v)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	if err := run(cfg, opts, os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func parseFlags(v *viper.Viper, args []string) (*options, error) {
	fs := pflag.NewFlagSet("novelshelf-cli", pflag.ContinueOnError)
	configFile := fs.StringP("config", "c", "", "config file (default ./config.yml)")
	fs.StringP("source", "s", "", `metadata file to import, "-" for stdin`)
	fs.String("covers", "", "covers folder")
	fs.Int("page-size", 0, "novels per page")
	fs.Int("top", 0, "number of top tags to compute")
	fs.String("downloader", "", "path to the downloader executable")
	fs.String("output", "", "download output folder")

	search := fs.String("search", "", "free-text search")
	author := fs.String("author", "", "author substring")
	tags := fs.StringSlice("tag", nil, "include novels having any of these tags (repeatable)")
	phrases := fs.String("tag-phrases", "", "comma or semicolon separated tag phrases")
	status := fs.String("status", "", "publication status")
	adult := fs.String("adult", "any", "adult filter: any, only, exclude")
	covers := fs.String("cover", "any", "cover filter: any, only, without")
	minChapters := fs.Int("min-chapters", -1, "minimum chapter count")
	maxChapters := fs.Int("max-chapters", -1, "maximum chapter count")
	minLikes := fs.Int("min-likes", -1, "minimum like count")
	maxLikes := fs.Int("max-likes", -1, "maximum like count")
	sortBy := fs.String("sort", "likes", "sort key: title, likes, chapters, relevance")
	sortDir := fs.String("dir", "desc", "sort direction: asc, desc")
	page := fs.IntP("page", "p", 1, "page to print")
	topTags := fs.Bool("tags", false, "print the most frequent tags instead of novels")
	asJSON := fs.Bool("json", false, "print JSON")
	download := fs.String("download", "", "run the downloader for this novel id and exit")
	title := fs.String("title", "", "title to name the download after (default: looked up in the catalog)")
	verbose := fs.BoolP("verbose", "v", false, "log progress to stderr")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	for key, flag := range map[string]string{
		"catalog.source_path":    "source",
		"catalog.covers_path":    "covers",
		"catalog.page_size":      "page-size",
		"catalog.top_tags":       "top",
		"downloader.path":        "downloader",
		"downloader.output_path": "output",
	} {
		if fs.Changed(flag) {
			if err := v.BindPFlag(key, fs.Lookup(flag)); err != nil {
				return nil, err
			}
		}
	}
	if *configFile != "" {
		v.SetConfigFile(*configFile)
	}

	opts := &options{
		filter: query.Filter{
			Search:     *search,
			Author:     *author,
			Tags:       *tags,
			TagPhrases: *phrases,
			Status:     *status,
			Adult:      query.ParseAdultMode(*adult),
			Cover:      query.ParseCoverMode(*covers),
			Chapters:   flagRange(*minChapters, *maxChapters),
			Likes:      flagRange(*minLikes, *maxLikes),
		},
		sort:     query.Sort{Key: query.ParseSortKey(*sortBy), Dir: query.ParseDirection(*sortDir)},
		page:     *page,
		topTags:  *topTags,
		asJSON:   *asJSON,
		download: *download,
		title:    *title,
		verbose:  *verbose,
	}
	return opts, nil
}

// flagRange treats negative values as "not set".
func flagRange(lo, hi int) query.Range {
	var r query.Range
	if lo >= 0 {
		r.Min = &lo
	}
	if hi >= 0 {
		r.Max = &hi
	}
	return r
}

func run(cfg *config.Config, opts *options, stdin io.Reader, stdout, stderr io.Writer) error {
	if opts.download != "" {
		title := opts.title
		if title == "" {
			title = lookupTitle(cfg, opts, stdin, stderr)
		}
		return runDownload(cfg, models.DownloadRequest{NovelID: opts.download, Title: title}, stdout)
	}

	session, err := importCatalog(cfg, opts, stdin, stderr)
	if err != nil {
		return err
	}
	defer session.Close()

	if opts.topTags {
		return printTags(stdout, session.TopTags(), opts.asJSON)
	}

	page, err := session.QueryPage(opts.filter, opts.sort, opts.page)
	if err != nil {
		return err
	}
	return printPage(stdout, page, opts.asJSON)
}

// importCatalog imports the configured source and waits for it to end.
func importCatalog(cfg *config.Config, opts *options, stdin io.Reader, stderr io.Writer) (*view.Session, error) {
	resolver, err := cover.NewResolver(0)
	if err != nil {
		return nil, err
	}
	p := newTerminalPresenter(stderr, opts.verbose)
	session := view.NewSession(catalog.New(), view.Options{
		PageSize:  cfg.Catalog.PageSize,
		TopTags:   cfg.Catalog.TopTags,
		Covers:    resolver,
		Presenter: p,
	})

	ingester := importer.New(cfg.Catalog.CoversPath, session.Sink())
	source := cfg.Catalog.SourcePath
	if source == "-" {
		err = ingester.StartReader("stdin", io.NopCloser(stdin))
	} else {
		err = ingester.Start(source)
	}
	if err == nil {
		err = <-p.done
	}
	if err != nil {
		session.Close()
		return nil, err
	}
	return session, nil
}

// lookupTitle finds the novel's title in the catalog so the download is
// named after it. The id is used when the catalog cannot be read.
func lookupTitle(cfg *config.Config, opts *options, stdin io.Reader, stderr io.Writer) string {
	session, err := importCatalog(cfg, opts, stdin, stderr)
	if err != nil {
		log.Printf("Could not read catalog for the title of %s: %v", opts.download, err)
		return ""
	}
	defer session.Close()
	if n, ok := session.Store().Get(opts.download); ok {
		return n.Title
	}
	return ""
}

func runDownload(cfg *config.Config, req models.DownloadRequest, stdout io.Writer) error {
	r := downloader.New(downloader.Options{
		Path:      cfg.Downloader.Path,
		OutputDir: cfg.Downloader.OutputPath,
	})
	result, err := r.Run(context.Background(), req)
	if err != nil {
		return err
	}
	if !result.Success {
		return errors.New(result.Message)
	}
	fmt.Fprintf(stdout, "Downloaded novel %s to %s\n", req.NovelID, result.OutputPath)
	return nil
}

func printPage(w io.Writer, page view.Page, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(page)
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tAUTHOR\tLIKES\tCHAPTERS\tSTATUS\tTAGS")
	for _, n := range page.Novels {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%s\t%s\n",
			n.ID, n.DisplayTitle(), n.Author, n.LikeCount, n.ChapterCount, n.PublicationStatus, strings.Join(n.Tags, ", "))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Page %d of %d (%d novels)\n", page.CurrentPage, page.TotalPages, page.Total)
	return err
}

func printTags(w io.Writer, tags []models.TagCount, asJSON bool) error {
	if asJSON {
		return json.NewEncoder(w).Encode(tags)
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, t := range tags {
		fmt.Fprintf(tw, "%s\t%d\n", t.Tag, t.Count)
	}
	return tw.Flush()
}
