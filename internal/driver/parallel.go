package driver

import (
	"context"
	"io/fs"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"scopetree/internal/diag"
	"scopetree/internal/source"
	"scopetree/internal/trace"
)

// SourceExt is the extension of the files BuildDir picks up.
const SourceExt = ".swift"

// ListSourceFiles возвращает отсортированный список всех *.swift файлов в директории
func ListSourceFiles(dir string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			// скрытые каталоги (.git, .cache) пропускаем
			if path != dir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasSuffix(path, SourceExt) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Сортируем для детерминированного порядка
	sort.Strings(files)
	return files, nil
}

// BuildDir строит деревья областей для всех *.swift файлов в директории
// параллельно. Results are in ListSourceFiles order; a file that fails to
// load gets a result holding only an IO diagnostic.
func BuildDir(ctx context.Context, dir string, opts BuildOptions, jobs int) (*source.FileSet, []*BuildResult, error) {
	files, err := ListSourceFiles(dir)
	if err != nil {
		return nil, nil, err
	}
	return BuildFiles(ctx, dir, files, opts, jobs)
}

// BuildFiles is BuildDir over an explicit file list.
func BuildFiles(ctx context.Context, dir string, files []string, opts BuildOptions, jobs int) (*source.FileSet, []*BuildResult, error) {
	fileSet := source.NewFileSetWithBase(dir)
	if len(files) == 0 {
		return fileSet, nil, nil
	}

	span := trace.Begin(trace.FromContext(ctx), trace.ScopeDriver, "build_dir", trace.CurrentSpan(ctx).SpanID).
		WithExtra("dir", dir)
	defer span.End("")
	ctx = trace.WithSpanContext(ctx, trace.SpanContext{SpanID: span.ID()})

	// FileSet не потокобезопасен: все файлы загружаются заранее,
	// горутины только читают.
	fileIDs := make(map[string]source.FileID, len(files))
	loadErrors := make(map[string]error, len(files))
	for _, path := range files {
		fileID, err := fileSet.Load(path)
		if err != nil {
			loadErrors[path] = err
			continue
		}
		fileIDs[path] = fileID
	}

	// Общий потокобезопасный interner
	interner := source.NewInterner()

	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	// индексы уникальны для каждой горутины, мьютекс не нужен
	results := make([]*BuildResult, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))

	for i, path := range files {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			r := newRun(gctx, path, &opts)
			defer r.close()

			if loadErr, hadError := loadErrors[path]; hadError {
				idx := r.begin(PhaseLoad)
				r.end(idx, "", loadErr)
				bag := newBag(opts.Parse.MaxDiagnostics)
				bag.Add(diag.New(diag.SevError, diag.IOLoadFileError, source.Span{}, "failed to load file: "+loadErr.Error()))
				results[i] = &BuildResult{ParseResult: ParseResult{FileSet: fileSet, Bag: bag}, Path: path}
				r.done(loadErr)
				return nil
			}

			res, err := r.build(fileSet, fileSet.Get(fileIDs[path]), interner)
			results[i] = res
			return err
		})
	}

	if err := g.Wait(); err != nil {
		return fileSet, results, err
	}
	return fileSet, results, nil
}
