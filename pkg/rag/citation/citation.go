package citation

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"ksg-support-be/pkg/rag"
)

// FallbackCount is how many raw citations are surfaced when the answer text
// carries no recognizable inline cites.
const FallbackCount = 3

// Citation is the provenance of an answer, derived per request and never
// stored by the core.
type Citation struct {
	Filename  string `json:"filename"`
	Page      int    `json:"page"`
	SourceURL string `json:"source_url,omitempty"`
}

// FromHits builds the raw citation set for a ranked hit list: one citation per
// hit, deduplicated by exact (filename, page, source_url) triple keeping the
// first occurrence, then sorted ascending by (filename, page).
func FromHits(hits []rag.Hit) []Citation {
	cites := make([]Citation, 0, len(hits))
	for _, h := range hits {
		cites = append(cites, Citation{
			Filename:  h.Filename,
			Page:      h.Page,
			SourceURL: h.SourceURL,
		})
	}
	cites = Dedupe(cites)
	Sort(cites)
	return cites
}

// Dedupe removes exact-triple duplicates, preserving first-occurrence order.
func Dedupe(cites []Citation) []Citation {
	seen := make(map[string]bool, len(cites))
	out := cites[:0]
	for _, c := range cites {
		key := fmt.Sprintf("%s\x00%d\x00%s", c.Filename, c.Page, c.SourceURL)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, c)
	}
	return out
}

// Sort orders citations ascending by filename, then page.
func Sort(cites []Citation) {
	sort.SliceStable(cites, func(i, j int) bool {
		if cites[i].Filename != cites[j].Filename {
			return cites[i].Filename < cites[j].Filename
		}
		return cites[i].Page < cites[j].Page
	})
}

// FilterByAnswer keeps only citations the answer text plausibly used: the
// lowercased filename and the decimal page number must both appear as
// substrings of the lowercased answer. The model is instructed to cite
// filename and page inline, so this surfaces just the citations it mentioned.
func FilterByAnswer(answer string, cites []Citation) []Citation {
	lower := strings.ToLower(answer)
	var out []Citation
	for _, c := range cites {
		if strings.Contains(lower, strings.ToLower(c.Filename)) &&
			strings.Contains(lower, strconv.Itoa(c.Page)) {
			out = append(out, c)
		}
	}
	return out
}

// Reconcile applies the filter and, when it removes everything while raw
// citations existed, falls back to the first FallbackCount raw entries so the
// caller always sees some provenance when hits existed.
func Reconcile(answer string, raw []Citation) []Citation {
	filtered := FilterByAnswer(answer, raw)
	if len(filtered) > 0 || len(raw) == 0 {
		return filtered
	}
	if len(raw) > FallbackCount {
		return raw[:FallbackCount]
	}
	return raw
}
