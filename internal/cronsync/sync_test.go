package cronsync

import (
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"blocksched/internal/planner"
	"blocksched/internal/schedule"
	logx "blocksched/pkg/logx"
)

const testExec = "/usr/local/bin/blocksched"

func testEntries() []planner.Entry {
	return planner.Plan([]schedule.Schedule{
		{Name: "Work_Hours", Start: 9 * 60, End: 17 * 60, Days: schedule.Weekdays, Enabled: true},
		{Name: "Night_Block", Start: 22 * 60, End: 7 * 60, Days: schedule.EveryDay, Enabled: true},
	})
}

func TestRender(t *testing.T) {
	t.Parallel()
	e := planner.Entry{
		Days:   schedule.Weekdays,
		At:     schedule.Minute(9 * 60),
		Action: planner.Activate,
		Owner:  "Work_Hours",
	}
	line, err := Render(e, testExec)
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}
	want := "0 9 * * 1,2,3,4,5 " + testExec + " schedule run Work_Hours activate " + Marker + "Work_Hours"
	if line != want {
		t.Fatalf("Render:\n got %q\nwant %q", line, want)
	}
}

func TestRenderSundayMapsToZero(t *testing.T) {
	t.Parallel()
	e := planner.Entry{
		Days:   schedule.Weekends,
		At:     schedule.Minute(7*60 + 30),
		Action: planner.Deactivate,
		Owner:  "Weekend_Limit",
	}
	line, err := Render(e, testExec)
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}
	if !strings.HasPrefix(line, "30 7 * * 0,6 ") {
		t.Fatalf("expected Sunday rendered as 0: %q", line)
	}
}

func TestRenderRejectsEmptyDaySet(t *testing.T) {
	t.Parallel()
	e := planner.Entry{Owner: "Broken", Action: planner.Activate}
	if _, err := Render(e, testExec); err == nil {
		t.Fatal("expected error for empty day set")
	}
}

func TestSyncInstallsAndPreservesForeignLines(t *testing.T) {
	t.Parallel()
	table := &fileTable{path: filepath.Join(t.TempDir(), "crontab")}
	foreign := []string{
		"MAILTO=root",
		"15 3 * * * /usr/local/bin/backup.sh",
	}
	if err := table.Replace(foreign); err != nil {
		t.Fatal(err)
	}

	sync := New(table, testExec, logx.Nop())
	if err := sync.Sync(testEntries()); err != nil {
		t.Fatalf("Sync error: %v", err)
	}

	lines, err := table.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(lines) != len(foreign)+4 {
		t.Fatalf("table has %d lines, want %d", len(lines), len(foreign)+4)
	}
	if !reflect.DeepEqual(lines[:2], foreign) {
		t.Fatalf("foreign lines altered: %q", lines[:2])
	}
	for _, l := range lines[2:] {
		if !Owned(l) {
			t.Fatalf("installed line missing marker: %q", l)
		}
	}
}

func TestSyncIsIdempotent(t *testing.T) {
	t.Parallel()
	table := &fileTable{path: filepath.Join(t.TempDir(), "crontab")}
	if err := table.Replace([]string{"@reboot /bin/true"}); err != nil {
		t.Fatal(err)
	}

	sync := New(table, testExec, logx.Nop())
	if err := sync.Sync(testEntries()); err != nil {
		t.Fatalf("first Sync error: %v", err)
	}
	first, err := table.List()
	if err != nil {
		t.Fatal(err)
	}

	if err := sync.Sync(testEntries()); err != nil {
		t.Fatalf("second Sync error: %v", err)
	}
	second, err := table.List()
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("repeated sync changed the table:\nfirst:  %q\nsecond: %q", first, second)
	}
}

func TestSyncRemovesRetiredOwners(t *testing.T) {
	t.Parallel()
	table := &fileTable{path: filepath.Join(t.TempDir(), "crontab")}
	sync := New(table, testExec, logx.Nop())

	if err := sync.Sync(testEntries()); err != nil {
		t.Fatal(err)
	}
	// Re-sync with only one schedule left.
	remaining := planner.Plan([]schedule.Schedule{
		{Name: "Work_Hours", Start: 9 * 60, End: 17 * 60, Days: schedule.Weekdays, Enabled: true},
	})
	if err := sync.Sync(remaining); err != nil {
		t.Fatal(err)
	}

	lines, err := table.List()
	if err != nil {
		t.Fatal(err)
	}
	for _, l := range lines {
		if strings.Contains(l, "Night_Block") {
			t.Fatalf("retired schedule still present: %q", l)
		}
	}
	if len(lines) != 2 {
		t.Fatalf("table has %d lines, want 2", len(lines))
	}
}

func TestFileTableMissingFileIsEmpty(t *testing.T) {
	t.Parallel()
	table := &fileTable{path: filepath.Join(t.TempDir(), "missing")}
	lines, err := table.List()
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(lines) != 0 {
		t.Fatalf("List = %d lines, want 0", len(lines))
	}
}
