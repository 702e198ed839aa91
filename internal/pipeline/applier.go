package pipeline

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/renamecraft/renamectl/internal/cache"
	"github.com/renamecraft/renamectl/internal/fileref"
	"github.com/renamecraft/renamectl/internal/filenamevalidate"
	"github.com/renamecraft/renamectl/internal/modules"
)

// memoTTL is the pipeline applier's module-level memoization window (§9:
// "memoizes per-(modules_data, global_index, filename) results with a 50ms
// TTL"). It exists to coalesce repeat Apply calls for the same row within a
// single fast-moving preview/validate burst, not to cache across batches.
const memoTTL = 50 * time.Millisecond

// PostTransformConfig is the post-transform record applied once to the
// final basename after all fragment modules run (§3 PipelineConfig, §4.1
// Name-transform module).
type PostTransformConfig struct {
	Case      CaseStyle      `json:"case,omitempty"`
	Separator SeparatorStyle `json:"separator,omitempty"`
	Greeklish bool           `json:"greeklish,omitempty"`
}

type CaseStyle string

const (
	CaseOriginal    CaseStyle = "original"
	CaseLower       CaseStyle = "lower"
	CaseUpper       CaseStyle = "UPPER"
	CaseCapitalize  CaseStyle = "Capitalize"
	CaseCamel       CaseStyle = "camelCase"
	CasePascal      CaseStyle = "PascalCase"
	CaseTitle       CaseStyle = "Title Case"
)

type SeparatorStyle string

const (
	SeparatorAsIs  SeparatorStyle = "as-is"
	SeparatorSnake SeparatorStyle = "snake_case"
	SeparatorKebab SeparatorStyle = "kebab-case"
	SeparatorSpace SeparatorStyle = "space"
)

// IsActive reports whether the post-transform has any non-default setting,
// matching the Name-transform module's effectiveness rule (§4.1).
func (p PostTransformConfig) IsActive() bool {
	return p.Case != CaseOriginal && p.Case != "" ||
		p.Separator != SeparatorAsIs && p.Separator != "" ||
		p.Greeklish
}

// Applier is the Pipeline Applier (§4.2): composes a PipelineConfig's
// modules in order to produce a full proposed basename for one file.
type Applier struct {
	Indexer *Indexer
	memo    *cache.Cache
}

// NewApplier builds an Applier with the default folder-derived grouping.
func NewApplier() *Applier {
	return &Applier{
		Indexer: &Indexer{},
		memo:    cache.NewCache(cache.Config{MaxSize: 512, DefaultTTL: memoTTL}),
	}
}

// ClearCache empties the module-level memoization table (§4.5's
// clear_all_caches additionally clears this, distinct from the Preview
// Manager's own result cache).
func (a *Applier) ClearCache() {
	a.memo.Clear()
}

// Apply runs the full pipeline algorithm of §4.2 steps 1-7 for one file at
// globalIndex i within allFiles, returning the final new filename
// (stem + original extension).
func (a *Applier) Apply(modulesData []modules.Config, post PostTransformConfig, file *fileref.FileRef, i int, allFiles []*fileref.FileRef, lookup modules.Lookup, hashAvailable, metadataAvailable bool) string {
	key := applyMemoKey(modulesData, i, file.Filename)
	if cached, ok := a.memo.Get(key); ok {
		return cached.(string)
	}
	result := a.apply(modulesData, post, file, i, allFiles, lookup, hashAvailable, metadataAvailable)
	a.memo.SetWithTTL(key, result, memoTTL)
	return result
}

// apply is the uncached pipeline algorithm; Apply wraps it with the
// module-level memoization of §9.
func (a *Applier) apply(modulesData []modules.Config, post PostTransformConfig, file *fileref.FileRef, i int, allFiles []*fileref.FileRef, lookup modules.Lookup, hashAvailable, metadataAvailable bool) string {
	var b strings.Builder
	for _, cfg := range modulesData {
		idx := i
		if cfg.Kind == modules.KindCounter {
			idx = a.Indexer.EffectiveIndex(cfg.Scope, allFiles, i)
		}
		fragment := modules.Apply(cfg, file, idx, lookup, hashAvailable, metadataAvailable)
		if fragment == filenamevalidate.Sentinel {
			// A module hit a validation-error sentinel: the row falls
			// back to the original filename unchanged (§4.2 step 6,
			// §8 property 6). No point concatenating further.
			return file.Filename
		}
		b.WriteString(fragment)
	}
	generated := b.String()
	if generated == "" {
		// No fragment module contributed output (e.g. an empty pipeline
		// driven only by a post-transform): fall back to the original
		// stem as the basis for the post-transform step, per the
		// Name-transform module's "produces the original basename on
		// empty output" rule.
		generated = file.Stem()
	} else {
		generated = stripTrailingExtension(generated, file.Extension)
	}

	if post.IsActive() {
		generated = ApplyPostTransform(generated, post)
	}

	if generated == "" {
		return file.Filename
	}

	if !filenamevalidate.ValidateBasenameStem(generated) {
		// Step 6: inline validation failure falls back to the original
		// filename unchanged; the ValidationManager is the authoritative
		// source of validity, not the applier.
		return file.Filename
	}

	return reattachExtension(generated, file.Filename, file.Extension)
}

// applyMemoKey builds the §9 memoization key from (modules_data,
// global_index, filename): modulesData as canonical JSON, hashed, plus the
// index and filename joined in.
func applyMemoKey(modulesData []modules.Config, globalIndex int, filename string) string {
	h := sha256.New()
	if b, err := json.Marshal(modulesData); err == nil {
		h.Write(b)
	} else {
		fmt.Fprintf(h, "%#v", modulesData)
	}
	h.Write([]byte{0})
	h.Write([]byte(strconv.Itoa(globalIndex)))
	h.Write([]byte{0})
	h.Write([]byte(filename))
	return hex.EncodeToString(h.Sum(nil))
}

func stripTrailingExtension(generated, ext string) string {
	if ext == "" {
		return generated
	}
	suffix := "." + ext
	if len(generated) >= len(suffix) && strings.EqualFold(generated[len(generated)-len(suffix):], suffix) {
		return generated[:len(generated)-len(suffix)]
	}
	return generated
}

func reattachExtension(stem, originalFilename, ext string) string {
	if ext == "" {
		return stem
	}
	// Preserve the original extension's case, per §4.2 step 7.
	originalExt := originalFilename[len(originalFilename)-len(ext)-1:]
	return stem + originalExt
}
