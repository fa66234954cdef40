package app

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/saltline/sendwave/internal/ports"
)

// BuildSegments derives the run's segments from the directory's folder
// layout. With no category the run targets a single segment (the explicit
// list, or the whole directory). With a category, every list in the named
// folder becomes one segment labeled by its list name; experience filters
// the segments to matching labels.
func BuildSegments(ctx context.Context, dir ports.ContactDirectory, category, experience string, listID int64) ([]Segment, error) {
	if category == "" {
		label := experience
		if label == "" {
			label = "all"
		}
		return []Segment{{Label: label, ListID: listID}}, nil
	}

	folders, err := dir.Folders(ctx)
	if err != nil {
		return nil, fmt.Errorf("list folders: %w", err)
	}

	var folderID int64
	found := false
	for _, f := range folders {
		if strings.EqualFold(f.Name, category) {
			folderID = f.ID
			found = true
			break
		}
	}
	if !found {
		return nil, fmt.Errorf("folder %q not found in contact directory", category)
	}

	lists, err := dir.ListsInFolder(ctx, folderID)
	if err != nil {
		return nil, fmt.Errorf("list folder %q contents: %w", category, err)
	}

	var segments []Segment
	for name, id := range lists {
		if experience != "" && !strings.Contains(strings.ToLower(name), strings.ToLower(experience)) {
			continue
		}
		segments = append(segments, Segment{Label: name, ListID: id})
	}
	sort.Slice(segments, func(i, j int) bool { return segments[i].Label < segments[j].Label })

	if len(segments) == 0 {
		return nil, fmt.Errorf("no lists in folder %q match experience %q", category, experience)
	}
	return segments, nil
}
