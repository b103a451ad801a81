package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/san-kum/pixmorph/internal/grid"
	"github.com/san-kum/pixmorph/internal/imageio"
	"github.com/san-kum/pixmorph/internal/transport"
)

const (
	metadataFile = "metadata.json"
	framesFile   = "frames.csv"
	sourceFile   = "source.png"
	destFile     = "dest.png"
	finalFile    = "final.png"
	gifFile      = "animation.gif"
)

var ErrRunNotFound = errors.New("storage: run not found")

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

func (s *Store) Dir(runID string) string {
	return filepath.Join(s.baseDir, runID)
}

type RunMetadata struct {
	ID            string             `json:"id"`
	Source        string             `json:"source"`
	Dest          string             `json:"dest"`
	Timestamp     time.Time          `json:"timestamp"`
	Seed          int64              `json:"seed"`
	Width         int                `json:"width"`
	Height        int                `json:"height"`
	ColorWeight   float64            `json:"color_weight"`
	SpatialWeight float64            `json:"spatial_weight"`
	ColorSpace    string             `json:"color_space"`
	Easing        string             `json:"easing"`
	Frames        int                `json:"frames"`
	HoldFrames    int                `json:"hold_frames"`
	FPS           int                `json:"fps"`
	SolveTime     time.Duration      `json:"solve_time_ns"`
	RenderTime    time.Duration      `json:"render_time_ns"`
	Metrics       map[string]float64 `json:"metrics"`
}

// Artifacts are the images written next to the metadata. Nil grids and an
// empty Frames slice are skipped.
type Artifacts struct {
	Source     *grid.Grid
	Dest       *grid.Grid
	Frames     []*grid.Grid
	Stats      []transport.FrameStats
	GIFDelay   int
	HoldFrames int
}

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9_-]+`)

func runName(ref string) string {
	base := filepath.Base(ref)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	base = strings.Trim(unsafeChars.ReplaceAllString(base, "-"), "-")
	if base == "" {
		return "run"
	}
	return base
}

func (s *Store) Save(meta RunMetadata, art Artifacts) (string, error) {
	now := time.Now()
	runID := fmt.Sprintf("%s_%d", runName(meta.Source), now.UnixMilli())
	for i := 2; ; i++ {
		if _, err := os.Stat(s.Dir(runID)); os.IsNotExist(err) {
			break
		}
		runID = fmt.Sprintf("%s_%d_%d", runName(meta.Source), now.UnixMilli(), i)
	}
	runDir := s.Dir(runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta.ID = runID
	meta.Timestamp = now
	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}
	if err := writeFrameStats(filepath.Join(runDir, framesFile), art.Stats); err != nil {
		return "", err
	}

	pngs := []struct {
		name string
		g    *grid.Grid
	}{
		{sourceFile, art.Source},
		{destFile, art.Dest},
	}
	if n := len(art.Frames); n > 0 {
		pngs = append(pngs, struct {
			name string
			g    *grid.Grid
		}{finalFile, art.Frames[n-1]})
	}
	for _, p := range pngs {
		if p.g == nil {
			continue
		}
		if err := imageio.SavePNG(filepath.Join(runDir, p.name), p.g); err != nil {
			return "", err
		}
	}

	if len(art.Frames) > 0 && art.GIFDelay > 0 {
		if err := imageio.SaveGIF(filepath.Join(runDir, gifFile), art.Frames, art.GIFDelay, art.HoldFrames); err != nil {
			return "", err
		}
	}

	return runID, nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeFrameStats(path string, stats []transport.FrameStats) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := []string{"frame", "version", "t", "out_of_bounds", "collisions", "merged", "filled", "empty"}
	if err := w.Write(header); err != nil {
		return err
	}
	for i, st := range stats {
		row := []string{
			strconv.Itoa(i),
			strconv.FormatUint(st.Version, 10),
			strconv.FormatFloat(st.T, 'f', 6, 64),
			strconv.Itoa(st.OutOfBounds),
			strconv.Itoa(st.Collisions),
			strconv.Itoa(st.Merged),
			strconv.Itoa(st.Filled),
			strconv.Itoa(st.Empty),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// List returns stored runs, newest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.After(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.Dir(runID), metadataFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

func (s *Store) LoadFrameStats(runID string) ([]transport.FrameStats, error) {
	file, err := os.Open(filepath.Join(s.Dir(runID), framesFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	if len(records) < 2 {
		return []transport.FrameStats{}, nil
	}

	stats := make([]transport.FrameStats, 0, len(records)-1)
	for i, record := range records[1:] {
		st, err := parseFrameStats(record)
		if err != nil {
			return nil, fmt.Errorf("storage: %s line %d: %w", framesFile, i+2, err)
		}
		stats = append(stats, st)
	}

	return stats, nil
}

func parseFrameStats(record []string) (transport.FrameStats, error) {
	var st transport.FrameStats
	if len(record) != 8 {
		return st, fmt.Errorf("expected 8 fields, got %d", len(record))
	}
	var err error
	if st.Version, err = strconv.ParseUint(record[1], 10, 64); err != nil {
		return st, err
	}
	if st.T, err = strconv.ParseFloat(record[2], 64); err != nil {
		return st, err
	}
	ints := []*int{&st.OutOfBounds, &st.Collisions, &st.Merged, &st.Filled, &st.Empty}
	for i, dst := range ints {
		if *dst, err = strconv.Atoi(record[3+i]); err != nil {
			return st, err
		}
	}
	return st, nil
}
