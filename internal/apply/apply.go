// Package apply holds the content transforms executed when an approval
// request is applied to a document. Each transform is a pure function;
// the transactional bookkeeping around them lives in the db package.
package apply

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"redline/internal/models"
)

// ErrUnknownKind is returned for a change kind with no registered transform.
var ErrUnknownKind = errors.New("unknown change kind")

// ErrNoDeletionTarget is returned for a deletion request with no original
// content to remove.
var ErrNoDeletionTarget = errors.New("deletion request has no original content to remove")

// Input carries everything a transform may use.
type Input struct {
	Current  string  // live document content
	Proposed string  // required proposed content
	Original *string // optional snapshot, used by deletion
	Location *string // free-form locator, e.g. a line number
}

// Func transforms the current content into the new content.
type Func func(in Input) (string, error)

// transforms dispatches change kind to transform. Edit-like kinds all
// replace the full content; addition appends or inserts by line when the
// locator carries one; deletion removes every occurrence of the original
// snapshot as a plain substring.
var transforms = map[string]Func{
	models.KindEdit:             replaceContent,
	models.KindStructuralChange: replaceContent,
	models.KindFormatting:       replaceContent,
	models.KindReplacement:      replaceContent,
	models.KindAddition:         addContent,
	models.KindDeletion:         deleteContent,
}

// Transform applies the change kind's transform to the input.
func Transform(changeKind string, in Input) (string, error) {
	fn, ok := transforms[changeKind]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, changeKind)
	}
	return fn(in)
}

func replaceContent(in Input) (string, error) {
	return in.Proposed, nil
}

// addContent appends the proposed content, or inserts it as a whole line
// when the locator parses as a line index.
func addContent(in Input) (string, error) {
	if idx, ok := lineIndex(in.Location); ok {
		lines := strings.Split(in.Current, "\n")
		if idx < 0 {
			idx = 0
		}
		if idx > len(lines) {
			idx = len(lines)
		}
		out := make([]string, 0, len(lines)+1)
		out = append(out, lines[:idx]...)
		out = append(out, in.Proposed)
		out = append(out, lines[idx:]...)
		return strings.Join(out, "\n"), nil
	}
	return in.Current + in.Proposed, nil
}

// deleteContent removes all occurrences of the original snapshot from the
// current content. The removal is a plain substring replace, not
// occurrence-limited.
func deleteContent(in Input) (string, error) {
	if in.Original == nil || *in.Original == "" {
		return "", ErrNoDeletionTarget
	}
	return strings.ReplaceAll(in.Current, *in.Original, ""), nil
}

// lineIndex extracts a line index from a free-form locator.
func lineIndex(location *string) (int, bool) {
	if location == nil {
		return 0, false
	}
	idx, err := strconv.Atoi(strings.TrimSpace(*location))
	if err != nil {
		return 0, false
	}
	return idx, true
}
