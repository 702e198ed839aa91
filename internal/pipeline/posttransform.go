package pipeline

import (
	"regexp"
	"strings"

	"github.com/renamecraft/renamectl/internal/modules"
)

var wordSplit = regexp.MustCompile(`[_\-\s]+`)

// ApplyPostTransform applies, in order, optional Greeklish transliteration,
// then case transform, then separator transform, per §4.1's Name-transform
// module. It returns the original basename when the result would be empty
// or whitespace-only.
func ApplyPostTransform(basename string, cfg PostTransformConfig) string {
	s := basename
	if cfg.Greeklish {
		s = modules.Greeklish(s)
	}
	s = applyCase(s, cfg.Case)
	s = applySeparator(s, cfg.Separator)
	if strings.TrimSpace(s) == "" {
		return basename
	}
	return s
}

func applyCase(s string, style CaseStyle) string {
	switch style {
	case CaseLower:
		return strings.ToLower(s)
	case CaseUpper:
		return strings.ToUpper(s)
	case CaseCapitalize:
		return capitalizeWords(s, " ")
	case CaseCamel:
		return camelJoin(s, false)
	case CasePascal:
		return camelJoin(s, true)
	case CaseTitle:
		return capitalizeWords(s, " ")
	default:
		return s
	}
}

func applySeparator(s string, style SeparatorStyle) string {
	words := wordSplit.Split(s, -1)
	switch style {
	case SeparatorSnake:
		return strings.Join(words, "_")
	case SeparatorKebab:
		return strings.Join(words, "-")
	case SeparatorSpace:
		return strings.Join(words, " ")
	default:
		return s
	}
}

func capitalizeWords(s, joiner string) string {
	words := wordSplit.Split(s, -1)
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
	}
	return strings.Join(words, joiner)
}

func camelJoin(s string, pascal bool) string {
	words := wordSplit.Split(s, -1)
	var b strings.Builder
	for i, w := range words {
		if w == "" {
			continue
		}
		if i == 0 && !pascal {
			b.WriteString(strings.ToLower(w))
			continue
		}
		b.WriteString(strings.ToUpper(w[:1]) + strings.ToLower(w[1:]))
	}
	return b.String()
}
