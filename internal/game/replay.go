package game

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/klauspost/compress/gzip"
	"go.uber.org/zap"
)

// ReplayFrame is one recorded dispatch: the action that was applied and
// the checksum of the state it produced. With the engine seed this is
// enough to re-derive the full game, and the checksums catch divergence.
type ReplayFrame struct {
	Seq      int             `json:"seq"`
	Action   string          `json:"action"`
	Payload  json.RawMessage `json:"payload,omitempty"`
	Checksum string          `json:"checksum"`
	State    *State          `json:"state,omitempty"`
}

// Replay is a recorded game: a seed plus the ordered frames, with a
// cursor for playback.
type Replay struct {
	GameID string
	Seed   int64
	Frames []ReplayFrame

	mu     sync.RWMutex
	cursor int
}

// NewReplay creates an empty replay for a game.
func NewReplay(gameID string, seed int64) *Replay {
	return &Replay{GameID: gameID, Seed: seed}
}

// Record appends a frame for one dispatched action and its result.
func (r *Replay) Record(a Action, result *State) {
	r.mu.Lock()
	defer r.mu.Unlock()

	payload, _ := json.Marshal(a)
	r.Frames = append(r.Frames, ReplayFrame{
		Seq:      len(r.Frames),
		Action:   ActionName(a),
		Payload:  payload,
		Checksum: result.Checksum(),
		State:    result,
	})
}

// Start rewinds playback to the first frame.
func (r *Replay) Start() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cursor = 0
}

// Next returns the next frame, or nil past the end.
func (r *Replay) Next() *ReplayFrame {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cursor >= len(r.Frames) {
		return nil
	}
	f := &r.Frames[r.cursor]
	r.cursor++
	return f
}

// Previous steps the cursor back and returns that frame, or nil at the
// start.
func (r *Replay) Previous() *ReplayFrame {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cursor == 0 {
		return nil
	}
	r.cursor--
	return &r.Frames[r.cursor]
}

// Skip moves the cursor by count frames, clamped to the recording.
func (r *Replay) Skip(count int) *ReplayFrame {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cursor += count
	if r.cursor < 0 {
		r.cursor = 0
	}
	if r.cursor >= len(r.Frames) {
		r.cursor = len(r.Frames) - 1
	}
	if r.cursor < 0 {
		return nil
	}
	return &r.Frames[r.cursor]
}

// Size returns the number of recorded frames.
func (r *Replay) Size() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.Frames)
}

// FrameAt returns the frame at index, or nil out of range.
func (r *Replay) FrameAt(index int) *ReplayFrame {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if index < 0 || index >= len(r.Frames) {
		return nil
	}
	return &r.Frames[index]
}

type replayMetadata struct {
	GameID     string    `json:"gameId"`
	Seed       int64     `json:"seed"`
	SavedAt    time.Time `json:"savedAt"`
	Version    int       `json:"version"`
	FrameCount int       `json:"frameCount"`
}

// SaveToFile writes the replay as a gzipped JSON stream: one metadata
// record followed by one record per frame.
func (r *Replay) SaveToFile(directory string) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if err := os.MkdirAll(directory, 0o755); err != nil {
		return fmt.Errorf("create replay directory: %w", err)
	}
	filename := filepath.Join(directory, fmt.Sprintf("%s.replay", r.GameID))
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("create replay file: %w", err)
	}
	defer file.Close()

	zw := gzip.NewWriter(file)
	defer zw.Close()
	enc := json.NewEncoder(zw)

	meta := replayMetadata{
		GameID:     r.GameID,
		Seed:       r.Seed,
		SavedAt:    time.Now().UTC(),
		Version:    saveVersion,
		FrameCount: len(r.Frames),
	}
	if err := enc.Encode(&meta); err != nil {
		return fmt.Errorf("encode replay metadata: %w", err)
	}
	for i := range r.Frames {
		if err := enc.Encode(&r.Frames[i]); err != nil {
			return fmt.Errorf("encode frame %d: %w", i, err)
		}
	}
	return nil
}

// LoadReplayFromFile reads a replay written by SaveToFile.
func LoadReplayFromFile(directory, gameID string) (*Replay, error) {
	filename := filepath.Join(directory, fmt.Sprintf("%s.replay", gameID))
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("open replay file: %w", err)
	}
	defer file.Close()

	zr, err := gzip.NewReader(file)
	if err != nil {
		return nil, fmt.Errorf("open gzip stream: %w", err)
	}
	defer zr.Close()
	dec := json.NewDecoder(zr)

	var meta replayMetadata
	if err := dec.Decode(&meta); err != nil {
		return nil, fmt.Errorf("decode replay metadata: %w", err)
	}
	if meta.Version != saveVersion {
		return nil, fmt.Errorf("unsupported replay version: %d", meta.Version)
	}

	r := NewReplay(meta.GameID, meta.Seed)
	for i := 0; i < meta.FrameCount; i++ {
		var f ReplayFrame
		if err := dec.Decode(&f); err != nil {
			return nil, fmt.Errorf("decode frame %d: %w", i, err)
		}
		r.Frames = append(r.Frames, f)
	}
	return r, nil
}

// ReplayRecorder tracks in-flight recordings across games.
type ReplayRecorder struct {
	logger  *zap.Logger
	mu      sync.RWMutex
	replays map[string]*Replay
	enabled map[string]bool
	saveDir string
}

// NewReplayRecorder creates a recorder that writes files under saveDir.
func NewReplayRecorder(logger *zap.Logger, saveDir string) *ReplayRecorder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReplayRecorder{
		logger:  logger,
		replays: make(map[string]*Replay),
		enabled: make(map[string]bool),
		saveDir: saveDir,
	}
}

// StartRecording begins recording a game.
func (rr *ReplayRecorder) StartRecording(gameID string, seed int64) {
	rr.mu.Lock()
	defer rr.mu.Unlock()
	rr.replays[gameID] = NewReplay(gameID, seed)
	rr.enabled[gameID] = true
	rr.logger.Info("started replay recording", zap.String("game_id", gameID))
}

// StopRecording stops recording without discarding the frames.
func (rr *ReplayRecorder) StopRecording(gameID string) {
	rr.mu.Lock()
	defer rr.mu.Unlock()
	rr.enabled[gameID] = false
	rr.logger.Info("stopped replay recording", zap.String("game_id", gameID))
}

// Record appends a frame if recording is enabled for the game.
func (rr *ReplayRecorder) Record(gameID string, a Action, result *State) {
	rr.mu.RLock()
	enabled := rr.enabled[gameID]
	replay := rr.replays[gameID]
	rr.mu.RUnlock()

	if !enabled || replay == nil {
		return
	}
	replay.Record(a, result)
	rr.logger.Debug("recorded replay frame",
		zap.String("game_id", gameID),
		zap.Int("frames", replay.Size()))
}

// GetReplay returns the in-memory replay for a game.
func (rr *ReplayRecorder) GetReplay(gameID string) (*Replay, bool) {
	rr.mu.RLock()
	defer rr.mu.RUnlock()
	replay, ok := rr.replays[gameID]
	return replay, ok
}

// SaveReplay flushes a replay to disk and drops it from memory.
func (rr *ReplayRecorder) SaveReplay(gameID string) error {
	rr.mu.Lock()
	replay, ok := rr.replays[gameID]
	if !ok {
		rr.mu.Unlock()
		return fmt.Errorf("no replay found for game %s", gameID)
	}
	delete(rr.replays, gameID)
	delete(rr.enabled, gameID)
	rr.mu.Unlock()

	if err := replay.SaveToFile(rr.saveDir); err != nil {
		return fmt.Errorf("save replay: %w", err)
	}
	rr.logger.Info("saved replay to disk",
		zap.String("game_id", gameID),
		zap.Int("frames", replay.Size()),
		zap.String("directory", rr.saveDir))
	return nil
}

// LoadReplay reads a saved replay from disk.
func (rr *ReplayRecorder) LoadReplay(gameID string) (*Replay, error) {
	replay, err := LoadReplayFromFile(rr.saveDir, gameID)
	if err != nil {
		return nil, err
	}
	rr.logger.Info("loaded replay from disk",
		zap.String("game_id", gameID),
		zap.Int("frames", replay.Size()))
	return replay, nil
}

// ClearReplay drops a replay from memory without saving.
func (rr *ReplayRecorder) ClearReplay(gameID string) {
	rr.mu.Lock()
	defer rr.mu.Unlock()
	delete(rr.replays, gameID)
	delete(rr.enabled, gameID)
}

// IsRecording reports whether the game is being recorded.
func (rr *ReplayRecorder) IsRecording(gameID string) bool {
	rr.mu.RLock()
	defer rr.mu.RUnlock()
	return rr.enabled[gameID]
}
