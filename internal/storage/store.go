package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/san-kum/springsim/internal/config"
	"github.com/san-kum/springsim/internal/dynamo"
)

const (
	metadataFile = "metadata.json"
	framesFile   = "frames.csv"
)

// Store keeps one directory per run under baseDir.
type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID         string             `json:"id"`
	Name       string             `json:"name"`
	Timestamp  time.Time          `json:"timestamp"`
	Seed       int64              `json:"seed"`
	Dt         float64            `json:"dt"`
	Steps      int                `json:"steps"`
	Integrator string             `json:"integrator"`
	Particles  int                `json:"particles"`
	Capacity   int                `json:"capacity"`
	Stiffness  float64            `json:"stiffness"`
	RestLength float64            `json:"rest_length"`
	Gravity    float64            `json:"gravity"`
	Ground     float64            `json:"ground_height"`
	Closed     bool               `json:"closed"`
	FrameCount int                `json:"frame_count"`
	Rejected   int                `json:"rejected"`
	Metrics    map[string]float64 `json:"metrics"`
}

// NewMetadata describes a run of cfg under name.
func NewMetadata(name string, cfg *config.Config, result *dynamo.Result) RunMetadata {
	now := time.Now()
	return RunMetadata{
		ID:         fmt.Sprintf("%s_%d", name, now.UnixMilli()),
		Name:       name,
		Timestamp:  now,
		Seed:       cfg.Seed,
		Dt:         cfg.Dt,
		Steps:      cfg.Steps,
		Integrator: cfg.Integrator,
		Particles:  cfg.Chain.Particles,
		Capacity:   cfg.Chain.Capacity,
		Stiffness:  cfg.Physics.Stiffness,
		RestLength: cfg.Physics.RestLength,
		Gravity:    cfg.Physics.Gravity,
		Ground:     cfg.Physics.GroundHeight,
		Closed:     cfg.Chain.Closed,
		FrameCount: len(result.Frames),
		Rejected:   result.Rejected,
		Metrics:    result.Metrics,
	}
}

// Save writes metadata.json and frames.csv into a fresh run directory and
// returns the run id.
func (s *Store) Save(name string, cfg *config.Config, result *dynamo.Result) (string, error) {
	meta := NewMetadata(name, cfg, result)
	runDir := filepath.Join(s.baseDir, meta.ID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	metaFile, err := os.Create(filepath.Join(runDir, metadataFile))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, framesFile))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	if err := WriteCSV(csvFile, result.Frames); err != nil {
		return "", err
	}
	return meta.ID, csvFile.Sync()
}

// List returns every readable run, oldest first.
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
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

func (s *Store) LoadFrames(runID string) ([]dynamo.Snapshot, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, framesFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return ReadCSV(file)
}
