package app

import (
	"context"
	"errors"
	"testing"

	"github.com/saltline/sendwave/internal/ports"
)

type folderDirectory struct {
	mockDirectory
	folders    []ports.Folder
	lists      map[int64]map[string]int64
	foldersErr error
}

func (d *folderDirectory) Folders(ctx context.Context) ([]ports.Folder, error) {
	return d.folders, d.foldersErr
}

func (d *folderDirectory) ListsInFolder(ctx context.Context, folderID int64) (map[string]int64, error) {
	lists, ok := d.lists[folderID]
	if !ok {
		return nil, errors.New("no such folder")
	}
	return lists, nil
}

func TestBuildSegments_NoCategory(t *testing.T) {
	segs, err := BuildSegments(context.Background(), &mockDirectory{}, "", "", 7)
	if err != nil {
		t.Fatalf("BuildSegments() error = %v", err)
	}
	if len(segs) != 1 || segs[0].Label != "all" || segs[0].ListID != 7 {
		t.Errorf("segments = %+v", segs)
	}

	segs, err = BuildSegments(context.Background(), &mockDirectory{}, "", "senior", 0)
	if err != nil {
		t.Fatalf("BuildSegments() error = %v", err)
	}
	if len(segs) != 1 || segs[0].Label != "senior" {
		t.Errorf("segments = %+v", segs)
	}
}

func TestBuildSegments_FolderLists(t *testing.T) {
	dir := &folderDirectory{
		folders: []ports.Folder{{ID: 1, Name: "Marketing"}, {ID: 2, Name: "Engineering"}},
		lists: map[int64]map[string]int64{
			2: {"Senior Engineers": 21, "Junior Engineers": 22, "Mid Engineers": 23},
		},
	}

	segs, err := BuildSegments(context.Background(), dir, "engineering", "", 0)
	if err != nil {
		t.Fatalf("BuildSegments() error = %v", err)
	}
	if len(segs) != 3 {
		t.Fatalf("segments = %+v, want 3", segs)
	}
	// Sorted by label.
	if segs[0].Label != "Junior Engineers" || segs[0].ListID != 22 {
		t.Errorf("segs[0] = %+v", segs[0])
	}
	if segs[2].Label != "Senior Engineers" || segs[2].ListID != 21 {
		t.Errorf("segs[2] = %+v", segs[2])
	}
}

func TestBuildSegments_ExperienceFilter(t *testing.T) {
	dir := &folderDirectory{
		folders: []ports.Folder{{ID: 2, Name: "Engineering"}},
		lists: map[int64]map[string]int64{
			2: {"Senior Engineers": 21, "Junior Engineers": 22},
		},
	}

	segs, err := BuildSegments(context.Background(), dir, "Engineering", "senior", 0)
	if err != nil {
		t.Fatalf("BuildSegments() error = %v", err)
	}
	if len(segs) != 1 || segs[0].ListID != 21 {
		t.Errorf("segments = %+v, want Senior Engineers only", segs)
	}

	if _, err := BuildSegments(context.Background(), dir, "Engineering", "executive", 0); err == nil {
		t.Error("BuildSegments() error = nil, want no-match error")
	}
}

func TestBuildSegments_UnknownFolder(t *testing.T) {
	dir := &folderDirectory{folders: []ports.Folder{{ID: 1, Name: "Marketing"}}}
	if _, err := BuildSegments(context.Background(), dir, "Engineering", "", 0); err == nil {
		t.Error("BuildSegments() error = nil, want unknown-folder error")
	}
}
