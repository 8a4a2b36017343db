package commands

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/gobwas/glob"

	"coscindex/internal/application"
	"coscindex/internal/domain"
	"coscindex/internal/ports"
)

// FailPolicy decides what a failed remote call does to the crawl
type FailPolicy int

const (
	// FailSoft records the failure and continues with an empty result
	FailSoft FailPolicy = iota
	// FailHard aborts the crawl on the first recorded failure
	FailHard
)

// Crawl log levels
const (
	VerboseSilent = iota
	VerboseProjects
	VerboseResources
	VerboseFiles
)

// CrawlResult pairs the (possibly partial) snapshot with the failed calls
type CrawlResult struct {
	Snapshot *domain.Snapshot
	Errors   []error
	Stats    domain.CrawlStats
}

// CrawlCommand walks the remote repository into a flat snapshot
type CrawlCommand struct {
	repo     ports.RemoteRepository
	store    ports.SnapshotStore
	logger   *log.Logger
	progress ports.CrawlProgress

	Policy  FailPolicy
	Verbose int
	// Ignore holds glob patterns matched against project paths ("/A/B").
	// Matching projects are skipped with their whole subtree.
	Ignore []string
	now    func() time.Time
}

// NewCrawlCommand creates a new CrawlCommand. store, logger and progress may be nil.
func NewCrawlCommand(repo ports.RemoteRepository, store ports.SnapshotStore, logger *log.Logger, progress ports.CrawlProgress) *CrawlCommand {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &CrawlCommand{
		repo:     repo,
		store:    store,
		logger:   logger,
		progress: progress,
		now:      time.Now,
	}
}

// Validate checks if the crawl options are valid
func (c *CrawlCommand) Validate() error {
	if err := application.ValidateVerbosity(c.Verbose); err != nil {
		return err
	}
	_, err := compileIgnore(c.Ignore)
	return err
}

func compileIgnore(patterns []string) ([]glob.Glob, error) {
	globs := make([]glob.Glob, 0, len(patterns))
	for _, p := range patterns {
		g, err := glob.Compile(p, '/')
		if err != nil {
			return nil, &application.ValidationError{
				Field:   "ignore",
				Message: fmt.Sprintf("invalid pattern %q: %v", p, err),
			}
		}
		globs = append(globs, g)
	}
	return globs, nil
}

// Execute crawls the repository. Under FailHard the first failure is
// returned together with the partial result. The snapshot is saved to the
// store only when the crawl completes.
func (c *CrawlCommand) Execute(ctx context.Context) (*CrawlResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	ignore, _ := compileIgnore(c.Ignore)

	start := c.now()
	w := &crawler{
		repo:     c.repo,
		snap:     domain.NewSnapshot(),
		policy:   c.Policy,
		verbose:  c.Verbose,
		ignore:   ignore,
		logger:   c.logger,
		progress: c.progress,
	}
	w.snap.DownloadTime = start.UTC()

	if c.progress != nil {
		c.progress.OnCrawlStart()
	}
	err := w.run(ctx)

	result := &CrawlResult{
		Snapshot: w.snap,
		Errors:   w.errs,
		Stats:    w.snap.Stats(c.now().Sub(start)),
	}
	if err != nil {
		if c.progress != nil {
			c.progress.OnCrawlAborted(result.Stats, err)
		}
		return result, err
	}
	if c.progress != nil {
		c.progress.OnCrawlComplete(result.Stats)
	}

	if c.store != nil {
		if err := c.store.Save(ctx, w.snap); err != nil {
			return result, fmt.Errorf("failed to save snapshot: %w", err)
		}
	}
	return result, nil
}

type crawler struct {
	repo     ports.RemoteRepository
	snap     *domain.Snapshot
	policy   FailPolicy
	verbose  int
	ignore   []glob.Glob
	logger   *log.Logger
	progress ports.CrawlProgress
	errs     []error
}

type related struct {
	project  *domain.ProjectIndex
	resource *domain.ResourceIndex
	file     *domain.FileIndex
}

// record logs a failed remote call in the error list and the snapshot
func (w *crawler) record(kind, method string, args []string, err error, rel related) error {
	callErr := &application.RemoteCallError{Kind: kind, Method: method, Args: args, Err: err}
	w.errs = append(w.errs, callErr)
	rec := domain.ErrorRecord{
		SourceKind: kind,
		Method:     method,
		Args:       args,
		Message:    err.Error(),
		Project:    rel.project,
		Resource:   rel.resource,
		File:       rel.file,
	}
	w.snap.AppendError(rec)
	if w.progress != nil {
		w.progress.OnError(rec)
	}
	return callErr
}

// fail records a failed remote call. The returned error is non-nil only
// when the crawl must abort.
func (w *crawler) fail(kind, method string, args []string, err error, rel related) error {
	callErr := w.record(kind, method, args, err, rel)
	if w.policy == FailHard {
		return callErr
	}
	return nil
}

func (w *crawler) logf(level int, format string, args ...any) {
	if w.verbose >= level {
		w.logger.Printf(format, args...)
	}
}

func (w *crawler) skipped(path string) bool {
	for _, g := range w.ignore {
		if g.Match(path) {
			return true
		}
	}
	return false
}

func (w *crawler) run(ctx context.Context) error {
	projects, err := w.repo.ListProjects(ctx)
	if err != nil {
		if ferr := w.fail("repository", "ListProjects", nil, err, related{}); ferr != nil {
			return ferr
		}
	}
	for _, p := range projects {
		if err := w.project(ctx, p, nil, ""); err != nil {
			return err
		}
	}
	return nil
}

// project appends the project, then all of its resources, then recurses
// into its sub-projects
func (w *crawler) project(ctx context.Context, h ports.ProjectHandle, parent *domain.ProjectIndex, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	node := domain.ProjectNode{ID: h.ID(), Path: path, Name: h.Name(), Parent: parent}
	full := node.FullPath()
	if w.skipped(full) {
		w.logf(VerboseProjects, "Skipping project %s", full)
		return nil
	}

	pi := w.snap.AppendProject(node)
	if parent != nil {
		w.snap.Projects[*parent].SubProjects = append(w.snap.Projects[*parent].SubProjects, pi)
	}
	w.logf(VerboseProjects, "Project: %s at %s", node.Name, full)
	if w.progress != nil {
		w.progress.OnProject(full)
	}

	rel := related{project: &pi}
	resources, err := h.ListResources(ctx)
	if err != nil {
		if ferr := w.fail("project", "ListResources", []string{node.ID}, err, rel); ferr != nil {
			return ferr
		}
	}
	for _, r := range resources {
		if err := w.resource(ctx, r, pi, full); err != nil {
			return err
		}
	}

	subs, err := h.ListSubprojects(ctx)
	if err != nil {
		if ferr := w.fail("project", "ListSubprojects", []string{node.ID}, err, rel); ferr != nil {
			return ferr
		}
	}
	for _, s := range subs {
		if err := w.project(ctx, s, &pi, full); err != nil {
			return err
		}
	}
	return nil
}

func (w *crawler) resource(ctx context.Context, h ports.ResourceHandle, pi domain.ProjectIndex, projectPath string) error {
	path := projectPath + "/" + h.Name()
	ri := w.snap.AppendResource(domain.ResourceEntry{
		ID:      h.ID(),
		Path:    path,
		Name:    h.Name(),
		Project: pi,
		Profile: h.Profile(),
	})
	w.snap.Projects[pi].Resources = append(w.snap.Projects[pi].Resources, ri)
	w.logf(VerboseResources, "  Resource %s at %s", h.Name(), path)
	if w.progress != nil {
		w.progress.OnResource(path)
	}

	rel := related{project: &pi, resource: &ri}
	form, err := h.MetadataForm(ctx)
	if err != nil {
		form = nil
		if ferr := w.fail("resource", "MetadataForm", []string{h.ID()}, err, rel); ferr != nil {
			return ferr
		}
	} else {
		w.snap.Resources[ri].FieldSpec = FieldSpecOf(form)
	}

	files, err := h.ListFiles(ctx)
	if err != nil {
		if ferr := w.fail("resource", "ListFiles", []string{h.ID()}, err, rel); ferr != nil {
			return ferr
		}
	}
	for _, f := range files {
		if err := w.file(ctx, f, pi, ri, path, form); err != nil {
			return err
		}
	}

	res := &w.snap.Resources[ri]
	res.TotalSize = w.snap.SumFileSizes(res.Files)
	return nil
}

func (w *crawler) file(ctx context.Context, h ports.FileHandle, pi domain.ProjectIndex, ri domain.ResourceIndex, resourcePath string, form ports.FormHandle) error {
	path := resourcePath + "/" + h.Name()
	w.logf(VerboseFiles, "    File %s in resource %s", h.Name(), resourcePath)

	fi := w.snap.AppendFile(domain.FileEntry{
		ID:       h.Name(),
		Path:     path,
		Name:     h.Name(),
		Size:     h.Size(),
		Project:  pi,
		Resource: ri,
	})
	w.snap.Resources[ri].Files = append(w.snap.Resources[ri].Files, fi)
	if w.progress != nil {
		w.progress.OnFile(path)
	}

	meta, err := w.metadata(ctx, h, form, related{project: &pi, resource: &ri, file: &fi})
	w.snap.Files[fi].Metadata = meta
	return err
}

// metadata tries the repository's form accessor, then re-parses the raw
// metadata against the resource's form. Both failures are recorded; only
// the second can abort the crawl.
func (w *crawler) metadata(ctx context.Context, h ports.FileHandle, form ports.FormHandle, rel related) (map[string]any, error) {
	meta, err := h.FetchMetadataForm(ctx)
	if err == nil {
		return meta, nil
	}
	args := []string{h.Name()}
	w.logf(VerboseProjects, "     Problem for receiving metadata for file %s: %v", h.Name(), err)
	w.record("file", "FetchMetadataForm", args, err, rel)

	meta, err = reparse(ctx, h, form)
	if err == nil {
		return meta, nil
	}
	w.logf(VerboseProjects, "     Persistent problem for receiving metadata for file %s: %v", h.Name(), err)
	sentinel := map[string]any{domain.MetadataErrorKey: domain.MetadataErrorMessage}
	return sentinel, w.fail("file", "RawMetadata", args, err, rel)
}

func reparse(ctx context.Context, h ports.FileHandle, form ports.FormHandle) (map[string]any, error) {
	if form == nil {
		return nil, domain.ErrNoFieldSpec
	}
	raw, err := h.RawMetadata(ctx)
	if err != nil {
		return nil, err
	}
	return form.Parse(raw)
}

// FieldSpecOf captures a metadata form as a field spec
func FieldSpecOf(form ports.FormHandle) domain.MetadataFieldSpec {
	keys := form.Keys()
	spec := make(domain.MetadataFieldSpec, 0, len(keys))
	for _, k := range keys {
		field := domain.FieldSpec{Name: k, Required: form.IsRequired(k), Options: []string{}}
		if form.IsControlled(k) {
			field.Options = append(field.Options, form.ControlledValues(k)...)
		}
		spec = append(spec, field)
	}
	return spec
}
