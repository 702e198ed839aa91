// Package preexec implements the Pre-Execution Validator (§4.8): the last
// check run on each file immediately before a batch rename. Checks are
// read-only and independent across files, so they run across a bounded
// worker pool instead of one goroutine per file.
package preexec

import (
	"os"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/renamecraft/renamectl/internal/fileref"
	"github.com/spf13/afero"
)

// IssueType tags the kind of pre-execution problem found for a file.
type IssueType string

const (
	IssueMissing           IssueType = "MISSING"
	IssuePermissionDenied  IssueType = "PERMISSION_DENIED"
	IssueLocked            IssueType = "LOCKED"
	IssueInaccessible      IssueType = "INACCESSIBLE"
	IssueModified          IssueType = "MODIFIED"
)

// Issue records one pre-execution finding for one file.
type Issue struct {
	Path   string
	Type   IssueType
	Detail string
}

// Critical reports whether this issue class should block execution by
// default; MODIFIED is advisory only (§4.8).
func (i Issue) Critical() bool {
	return i.Type != IssueModified
}

// Result mirrors §4.8's described validator result.
type Result struct {
	ValidFiles []*fileref.FileRef
	Issues     []Issue
	TotalFiles int
}

// HashChecker recomputes a file's content hash for drift detection. An
// error here does not fail validation (§4.8 step 4): checkHashDrift drops
// it without logging and reports no MODIFIED issue for that file.
type HashChecker interface {
	Hash(path string) (string, error)
}

// Validator is the Pre-Execution Validator. Fs defaults to the real
// filesystem (afero.NewOsFs()) in production; tests substitute
// afero.NewMemMapFs() so the checks never touch disk.
type Validator struct {
	Fs              afero.Fs
	HashChecker     HashChecker
	CheckHash       bool
	MaxParallelism  int
	isWindowsRuntime func() bool
}

// New builds a Validator against the given filesystem.
func New(fs afero.Fs) *Validator {
	return &Validator{
		Fs:               fs,
		MaxParallelism:   8,
		isWindowsRuntime: func() bool { return os.PathSeparator == '\\' },
	}
}

// Validate runs the four checks of §4.8 for every file, in parallel across
// a bounded ants.Pool.
func (v *Validator) Validate(files []*fileref.FileRef) Result {
	result := Result{TotalFiles: len(files)}
	if len(files) == 0 {
		return result
	}

	var mu sync.Mutex
	var wg sync.WaitGroup

	parallelism := v.MaxParallelism
	if parallelism <= 0 {
		parallelism = 8
	}
	pool, err := ants.NewPool(parallelism)
	if err != nil {
		// Pool construction failure degrades to sequential checking
		// rather than failing validation outright.
		for _, f := range files {
			v.checkOne(f, &result, &mu)
		}
		return result
	}
	defer pool.Release()

	for _, f := range files {
		f := f
		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()
			v.checkOne(f, &result, &mu)
		})
		if submitErr != nil {
			wg.Done()
			v.checkOne(f, &result, &mu)
		}
	}
	wg.Wait()

	return result
}

func (v *Validator) checkOne(f *fileref.FileRef, result *Result, mu *sync.Mutex) {
	issue, ok := v.checkExistenceAndPermissions(f)
	if !ok {
		mu.Lock()
		result.Issues = append(result.Issues, issue)
		mu.Unlock()
		return
	}

	if v.CheckHash && v.HashChecker != nil && f.HashValue != "" {
		if modified := v.checkHashDrift(f); modified != nil {
			mu.Lock()
			result.Issues = append(result.Issues, *modified)
			mu.Unlock()
		}
	}

	mu.Lock()
	result.ValidFiles = append(result.ValidFiles, f)
	mu.Unlock()
}

// checkExistenceAndPermissions implements §4.8 steps 1-3.
func (v *Validator) checkExistenceAndPermissions(f *fileref.FileRef) (Issue, bool) {
	info, err := v.Fs.Stat(f.FullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return Issue{Path: f.FullPath, Type: IssueMissing, Detail: err.Error()}, false
		}
		return Issue{Path: f.FullPath, Type: IssueInaccessible, Detail: err.Error()}, false
	}

	if info.Mode().Perm()&0o200 == 0 {
		return Issue{Path: f.FullPath, Type: IssuePermissionDenied, Detail: "no write permission"}, false
	}

	// Non-destructive open-for-write probe: O_RDWR without O_TRUNC or
	// O_CREATE, so content is never touched.
	handle, err := v.Fs.OpenFile(f.FullPath, os.O_RDWR, 0)
	if err != nil {
		if v.isWindowsRuntime() {
			return Issue{Path: f.FullPath, Type: IssueLocked, Detail: err.Error()}, false
		}
		return Issue{Path: f.FullPath, Type: IssueInaccessible, Detail: err.Error()}, false
	}
	_ = handle.Close()

	return Issue{}, true
}

// checkHashDrift implements §4.8 step 4.
func (v *Validator) checkHashDrift(f *fileref.FileRef) *Issue {
	current, err := v.HashChecker.Hash(f.FullPath)
	if err != nil {
		// Errors during hash recomputation must not fail validation.
		return nil
	}
	if current != f.HashValue {
		return &Issue{Path: f.FullPath, Type: IssueModified, Detail: "content hash changed since selection"}
	}
	return nil
}
