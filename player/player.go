package player

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

const (
	defaultVolume = 0.7
	volumeStep    = 0.1
)

// ErrNoTracks is reported when the music directory holds no playable files.
var ErrNoTracks = errors.New("no music tracks available")

var supportedExtensions = map[string]bool{
	".mp3": true,
	".wav": true,
	".ogg": true,
}

// output is the seam between the playback state machine and the actual audio
// device, so the state logic tests without one.
type output interface {
	start(path string, volume float64) error
	setPaused(paused bool)
	setVolume(volume float64)
	clear()
}

type playerImpl struct {
	mu      sync.Mutex
	fileSys afero.Fs
	logger  *logrus.Logger
	out     output
	tracks  []string
	current int
	volume  float64
	playing bool
	paused  bool
}

type Config struct {
	FileSys  afero.Fs
	MusicDir string
	Logger   *logrus.Logger
}

func New(cfg *Config) (Controller, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is nil")
	}

	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger is nil")
	}

	return newPlayer(cfg, newBeepOutput(cfg.Logger))
}

func newPlayer(cfg *Config, out output) (*playerImpl, error) {
	if cfg.FileSys == nil {
		return nil, fmt.Errorf("fileSys is nil")
	}

	if cfg.MusicDir == "" {
		return nil, fmt.Errorf("musicDir is empty")
	}

	tracks, err := scanLibrary(cfg.FileSys, cfg.MusicDir)
	if err != nil {
		return nil, err
	}

	cfg.Logger.WithFields(logrus.Fields{
		"music_dir": cfg.MusicDir,
		"tracks":    len(tracks),
	}).Info("loaded music library")

	return &playerImpl{
		fileSys: cfg.FileSys,
		logger:  cfg.Logger,
		out:     out,
		tracks:  tracks,
		volume:  defaultVolume,
	}, nil
}

func scanLibrary(fileSys afero.Fs, dir string) ([]string, error) {
	entries, err := afero.ReadDir(fileSys, dir)
	if err != nil {
		return nil, fmt.Errorf("reading music dir %q: %w", dir, err)
	}

	var tracks []string

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		if supportedExtensions[strings.ToLower(filepath.Ext(entry.Name()))] {
			tracks = append(tracks, filepath.Join(dir, entry.Name()))
		}
	}

	sort.Strings(tracks)

	return tracks, nil
}

// Play resumes a paused track or starts the current one from the beginning.
// Calling it while already playing restarts the current track, matching a
// fresh "play" request.
func (p *playerImpl) Play() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.playLocked()
}

func (p *playerImpl) playLocked() error {
	if len(p.tracks) == 0 {
		return ErrNoTracks
	}

	if p.paused {
		p.out.setPaused(false)
		p.paused = false
		p.playing = true

		return nil
	}

	err := p.out.start(p.tracks[p.current], p.volume)
	if err != nil {
		return fmt.Errorf("playing %q: %w", p.tracks[p.current], err)
	}

	p.playing = true

	p.logger.WithField("track", filepath.Base(p.tracks[p.current])).Info("now playing")

	return nil
}

// Pause is a no-op unless something is actually playing.
func (p *playerImpl) Pause() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.playing || p.paused {
		return nil
	}

	p.out.setPaused(true)
	p.paused = true
	p.playing = false

	return nil
}

func (p *playerImpl) Stop() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.stopLocked()

	return nil
}

func (p *playerImpl) stopLocked() {
	p.out.clear()
	p.playing = false
	p.paused = false
}

func (p *playerImpl) NextTrack() error {
	return p.advance(1)
}

func (p *playerImpl) PreviousTrack() error {
	return p.advance(-1)
}

func (p *playerImpl) advance(step int) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.tracks) == 0 {
		return ErrNoTracks
	}

	p.current = wrapIndex(p.current+step, len(p.tracks))
	p.stopLocked()

	return p.playLocked()
}

// wrapIndex advances modulo n in either direction.
func wrapIndex(i, n int) int {
	return ((i % n) + n) % n
}

func (p *playerImpl) VolumeUp() error {
	return p.adjustVolume(volumeStep)
}

func (p *playerImpl) VolumeDown() error {
	return p.adjustVolume(-volumeStep)
}

func (p *playerImpl) adjustVolume(delta float64) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.volume = clampVolume(p.volume + delta)
	p.out.setVolume(p.volume)

	return nil
}

func clampVolume(v float64) float64 {
	if v < 0 {
		return 0
	}

	if v > 1 {
		return 1
	}

	return v
}

func (p *playerImpl) Status() string {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.tracks) == 0 {
		return "no music available"
	}

	state := "stopped"
	if p.playing {
		state = "playing"
	} else if p.paused {
		state = "paused"
	}

	return fmt.Sprintf("track: %s | volume: %d%% | %s",
		filepath.Base(p.tracks[p.current]), int(p.volume*100+0.5), state)
}
