package storage

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/pixmorph/internal/transport"
)

type ExportData struct {
	RunMetadata
	FrameStats []transport.FrameStats `json:"frame_stats"`
}

func (s *Store) Export(runID string) (*ExportData, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, err
	}
	stats, err := s.LoadFrameStats(runID)
	if err != nil {
		return nil, err
	}
	return &ExportData{RunMetadata: *meta, FrameStats: stats}, nil
}

func WriteJSON(w io.Writer, data *ExportData) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

func (s *Store) ExportJSON(path, runID string) error {
	data, err := s.Export(runID)
	if err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return WriteJSON(file, data)
}

func (s *Store) ExportJSONStdout(runID string) error {
	data, err := s.Export(runID)
	if err != nil {
		return err
	}
	return WriteJSON(os.Stdout, data)
}
