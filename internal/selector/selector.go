package selector

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/ytget/ytfetch/internal/model"
)

// ErrNotFound is returned when no encoding matches a request
var ErrNotFound = errors.New("no matching encoding")

// Select returns the encoding best matching req.
// An exact quality label wins; otherwise the highest quality magnitude wins,
// keeping catalog order on ties. Unlabeled encodings sort last.
func Select(encodings []model.EncodingDescriptor, req model.SelectionRequest) (model.EncodingDescriptor, error) {
	candidates := filter(encodings, req)
	if len(candidates) == 0 {
		return model.EncodingDescriptor{}, fmt.Errorf("%w: %s", ErrNotFound, req)
	}

	if req.QualityLabel != "" {
		for _, c := range candidates {
			if c.QualityLabel == req.QualityLabel {
				return c, nil
			}
		}
	}

	best := candidates[0]
	bestMag, bestOK := QualityMagnitude(best.QualityLabel)
	for _, c := range candidates[1:] {
		mag, ok := QualityMagnitude(c.QualityLabel)
		if !ok {
			continue
		}
		if !bestOK || mag > bestMag {
			best, bestMag, bestOK = c, mag, true
		}
	}
	return best, nil
}

// Labels returns the distinct quality labels matching req's kind and
// container, highest quality first. The quality label of req is ignored.
func Labels(encodings []model.EncodingDescriptor, req model.SelectionRequest) []string {
	req.QualityLabel = ""
	seen := make(map[string]bool)
	var labels []string
	for _, c := range filter(encodings, req) {
		if c.QualityLabel == "" || seen[c.QualityLabel] {
			continue
		}
		seen[c.QualityLabel] = true
		labels = append(labels, c.QualityLabel)
	}

	sort.SliceStable(labels, func(i, j int) bool {
		mi, oki := QualityMagnitude(labels[i])
		mj, okj := QualityMagnitude(labels[j])
		if oki != okj {
			return oki
		}
		return mi > mj
	})
	return labels
}

// QualityMagnitude extracts the first number embedded in a quality label,
// so "1080p60" yields 1080 and "128k" yields 128.
func QualityMagnitude(label string) (float64, bool) {
	start := strings.IndexFunc(label, isDigit)
	if start < 0 {
		return 0, false
	}
	end := start
	dot := false
	for end < len(label) {
		ch := rune(label[end])
		if isDigit(ch) {
			end++
			continue
		}
		if ch == '.' && !dot && end+1 < len(label) && isDigit(rune(label[end+1])) {
			dot = true
			end++
			continue
		}
		break
	}
	v, err := strconv.ParseFloat(label[start:end], 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func filter(encodings []model.EncodingDescriptor, req model.SelectionRequest) []model.EncodingDescriptor {
	var out []model.EncodingDescriptor
	for _, e := range encodings {
		if e.Kind != req.Kind {
			continue
		}
		if req.Container != "" && !strings.EqualFold(e.Container, req.Container) {
			continue
		}
		out = append(out, e)
	}
	return out
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}
