package progress

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/schollz/progressbar/v3"

	"coscindex/internal/domain"
	"coscindex/internal/ports"
)

// Reporter implements ports.CrawlProgress with a spinner. The total number
// of files is unknown until the crawl ends.
type Reporter struct {
	out       io.Writer
	quiet     bool
	bar       *progressbar.ProgressBar
	resources int
	files     int
	errors    int
}

// Ensure Reporter implements CrawlProgress
var _ ports.CrawlProgress = (*Reporter)(nil)

// NewReporter creates a reporter writing to stderr
func NewReporter(quiet bool) *Reporter {
	return NewReporterTo(os.Stderr, quiet)
}

// NewReporterTo creates a reporter writing to out
func NewReporterTo(out io.Writer, quiet bool) *Reporter {
	return &Reporter{out: out, quiet: quiet}
}

func (r *Reporter) OnCrawlStart() {
	if r.quiet {
		return
	}
	r.resources, r.files, r.errors = 0, 0, 0
	r.bar = progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(r.out),
		progressbar.OptionSetDescription("Crawling repository"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("files/s"),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprintln(r.out)
		}),
	)
}

func (r *Reporter) OnProject(path string) {
	if r.bar != nil {
		r.bar.Describe("Crawling " + path)
	}
}

func (r *Reporter) OnResource(path string) {
	r.resources++
	if r.bar != nil {
		r.bar.Describe("Crawling " + path)
	}
}

func (r *Reporter) OnFile(path string) {
	r.files++
	if r.bar != nil {
		r.bar.Add(1)
	}
}

func (r *Reporter) OnError(record domain.ErrorRecord) {
	r.errors++
}

func (r *Reporter) OnCrawlComplete(stats domain.CrawlStats) {
	if r.quiet {
		return
	}
	if r.bar != nil {
		r.bar.Finish()
		r.bar = nil
	}
	fmt.Fprintln(r.out, Summary(stats))
	if stats.Errors > 0 {
		fmt.Fprintf(r.out, "  %s failed remote calls, see the error list\n", humanize.Comma(int64(stats.Errors)))
	}
}

func (r *Reporter) OnCrawlAborted(stats domain.CrawlStats, err error) {
	if r.quiet {
		return
	}
	if r.bar != nil {
		r.bar.Finish()
		r.bar = nil
	}
	fmt.Fprintf(r.out, "✗ Crawl aborted after %s files: %v\n", humanize.Comma(int64(stats.Files)), err)
}

// Counts returns the resources, files and errors seen since the crawl started
func (r *Reporter) Counts() (resources, files, errors int) {
	return r.resources, r.files, r.errors
}

// Summary formats crawl statistics in one line
func Summary(stats domain.CrawlStats) string {
	return fmt.Sprintf("✓ Crawl complete: %s projects, %s resources, %s files (%s) in %.1fs",
		humanize.Comma(int64(stats.Projects)),
		humanize.Comma(int64(stats.Resources)),
		humanize.Comma(int64(stats.Files)),
		humanize.Bytes(uint64(stats.Bytes)),
		stats.Duration.Seconds())
}
