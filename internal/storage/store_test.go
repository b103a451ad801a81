package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/san-kum/pixmorph/internal/grid"
	"github.com/san-kum/pixmorph/internal/transport"
)

func testArtifacts() Artifacts {
	red := grid.Filled(2, 2, grid.Color{R: 255, A: 255})
	blue := grid.Filled(2, 2, grid.Color{B: 255, A: 255})
	return Artifacts{
		Source: red,
		Dest:   blue,
		Frames: []*grid.Grid{red, blue},
		Stats: []transport.FrameStats{
			{Version: 1, T: 0, Filled: 4},
			{Version: 2, T: 1, Filled: 3, Collisions: 1, Merged: 1, Empty: 1},
		},
		GIFDelay:   3,
		HoldFrames: 2,
	}
}

func TestStoreSaveLoad(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	meta := RunMetadata{
		Source:    "images/cat photo.png",
		Dest:      "https://example.com/dog.jpg",
		Seed:      42,
		Width:     2,
		Height:    2,
		SolveTime: 3 * time.Millisecond,
		Metrics:   map[string]float64{"coverage": 0.875},
	}

	runID, err := st.Save(meta, testArtifacts())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	if runID == "" {
		t.Error("expected non-empty run id")
	}

	loaded, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if loaded.ID != runID {
		t.Errorf("expected id %s, got %s", runID, loaded.ID)
	}
	if loaded.Seed != 42 {
		t.Errorf("expected seed 42, got %d", loaded.Seed)
	}
	if loaded.SolveTime != 3*time.Millisecond {
		t.Errorf("expected solve time 3ms, got %v", loaded.SolveTime)
	}
	if loaded.Metrics["coverage"] != 0.875 {
		t.Errorf("expected coverage 0.875, got %f", loaded.Metrics["coverage"])
	}

	stats, err := st.LoadFrameStats(runID)
	if err != nil {
		t.Fatalf("load frame stats failed: %v", err)
	}
	want := testArtifacts().Stats
	if len(stats) != len(want) {
		t.Fatalf("expected %d frames, got %d", len(want), len(stats))
	}
	for i := range want {
		if stats[i] != want[i] {
			t.Errorf("frame %d: expected %+v, got %+v", i, want[i], stats[i])
		}
	}
}

func TestRunName(t *testing.T) {
	tests := []struct {
		ref  string
		want string
	}{
		{"images/cat photo.png", "cat-photo"},
		{"https://example.com/a/dog.jpg", "dog"},
		{"", "run"},
		{"///", "run"},
	}
	for _, tt := range tests {
		if got := runName(tt.ref); got != tt.want {
			t.Errorf("runName(%q) = %q, want %q", tt.ref, got, tt.want)
		}
	}
}

func TestStoreList(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(filepath.Join(tmpDir, "runs"))

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected 0 runs, got %d", len(runs))
	}

	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}
	if _, err := st.Save(RunMetadata{Source: "a.png"}, Artifacts{}); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if err := os.MkdirAll(filepath.Join(tmpDir, "runs", "not-a-run"), 0755); err != nil {
		t.Fatal(err)
	}

	runs, err = st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 1 {
		t.Errorf("expected 1 run, got %d", len(runs))
	}
}

func TestStoreFileStructure(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	runID, err := st.Save(RunMetadata{Source: "a.png"}, testArtifacts())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	for _, name := range []string{metadataFile, framesFile, sourceFile, destFile, finalFile, gifFile} {
		if _, err := os.Stat(filepath.Join(st.Dir(runID), name)); os.IsNotExist(err) {
			t.Errorf("%s not created", name)
		}
	}
}

func TestStoreSaveUniqueIDs(t *testing.T) {
	st := New(t.TempDir())

	seen := make(map[string]bool)
	for i := 0; i < 3; i++ {
		runID, err := st.Save(RunMetadata{Source: "a.png"}, Artifacts{})
		if err != nil {
			t.Fatalf("save failed: %v", err)
		}
		if seen[runID] {
			t.Fatalf("duplicate run id %s", runID)
		}
		seen[runID] = true
	}

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 3 {
		t.Errorf("expected 3 runs, got %d", len(runs))
	}
}

func TestStoreSkipsGIFWithoutDelay(t *testing.T) {
	st := New(t.TempDir())
	art := testArtifacts()
	art.GIFDelay = 0

	runID, err := st.Save(RunMetadata{Source: "a.png"}, art)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(st.Dir(runID), gifFile)); !os.IsNotExist(err) {
		t.Error("animation.gif should not be written without a delay")
	}
}

func TestLoadMissingRun(t *testing.T) {
	st := New(t.TempDir())
	if _, err := st.Load("nope"); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("expected ErrRunNotFound, got %v", err)
	}
	if _, err := st.LoadFrameStats("nope"); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("expected ErrRunNotFound, got %v", err)
	}
}

func TestExport(t *testing.T) {
	st := New(t.TempDir())
	runID, err := st.Save(RunMetadata{Source: "a.png", Seed: 7}, testArtifacts())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	data, err := st.Export(runID)
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}

	var buf bytes.Buffer
	if err := WriteJSON(&buf, data); err != nil {
		t.Fatal(err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatal(err)
	}
	if decoded["id"] != runID {
		t.Errorf("expected flattened id %s, got %v", runID, decoded["id"])
	}
	if frames, ok := decoded["frame_stats"].([]any); !ok || len(frames) != 2 {
		t.Errorf("expected 2 frame stats, got %v", decoded["frame_stats"])
	}

	path := filepath.Join(t.TempDir(), "run.json")
	if err := st.ExportJSON(path, runID); err != nil {
		t.Fatalf("export json failed: %v", err)
	}
}
