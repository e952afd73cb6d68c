package audiomix

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"meditation-server/internal/models"

	"go.uber.org/zap"
)

const (
	voiceFileName = "voice.mp3"
	mixedFileName = "final.mp3"
)

// Result - смикшированный файл в scratch-каталоге.
type Result struct {
	Path        string
	DurationSec float64
	SizeBytes   int64
}

// Mixer накладывает голос на зацикленный фон.
//
//go:generate mockery --name Mixer --output ../../mocks --outpkg mocks --structname MockMixer --filename mixer_mock.go
type Mixer interface {
	Mix(ctx context.Context, voice []byte, bg models.Background, minutes int) (Result, error)
}

// commandRunner запускает внешнюю команду и возвращает объединенный вывод.
type commandRunner func(ctx context.Context, name string, args ...string) ([]byte, error)

func execRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec
	return cmd.CombinedOutput()
}

type ffmpegMixer struct {
	ffmpegPath  string
	ffprobePath string
	scratchDir  string
	catalog     *Catalog
	run         commandRunner
	logger      *zap.Logger
}

// NewFFmpegMixer создает микшер на ffmpeg. ffprobe ищется рядом с ffmpeg.
func NewFFmpegMixer(ffmpegPath, scratchDir string, catalog *Catalog, logger *zap.Logger) Mixer {
	return newFFmpegMixer(ffmpegPath, scratchDir, catalog, execRunner, logger)
}

func newFFmpegMixer(ffmpegPath, scratchDir string, catalog *Catalog, run commandRunner, logger *zap.Logger) *ffmpegMixer {
	return &ffmpegMixer{
		ffmpegPath:  ffmpegPath,
		ffprobePath: probePathFor(ffmpegPath),
		scratchDir:  scratchDir,
		catalog:     catalog,
		run:         run,
		logger:      logger.Named("FFmpegMixer"),
	}
}

func (m *ffmpegMixer) Mix(ctx context.Context, voice []byte, bg models.Background, minutes int) (Result, error) {
	if len(voice) == 0 {
		return Result{}, fmt.Errorf("%w: voice track is empty", models.ErrInvalidRequest)
	}
	if minutes < models.MinDurationMinutes || minutes > models.MaxDurationMinutes {
		return Result{}, fmt.Errorf("%w: duration %d is out of range", models.ErrInvalidRequest, minutes)
	}
	bgPath, gain, err := m.catalog.Lookup(bg)
	if err != nil {
		return Result{}, err
	}

	if err := os.MkdirAll(m.scratchDir, 0o755); err != nil {
		return Result{}, fmt.Errorf("create scratch dir: %w", err)
	}
	workDir, err := os.MkdirTemp(m.scratchDir, "mix-")
	if err != nil {
		return Result{}, fmt.Errorf("create mix dir: %w", err)
	}

	voicePath := filepath.Join(workDir, voiceFileName)
	outPath := filepath.Join(workDir, mixedFileName)
	if err := os.WriteFile(voicePath, voice, 0o600); err != nil {
		_ = os.RemoveAll(workDir)
		return Result{}, fmt.Errorf("write voice track: %w", err)
	}

	targetSec := minutes * 60
	args := mixArgs(voicePath, bgPath, outPath, gain, targetSec)
	if output, err := m.run(ctx, m.ffmpegPath, args...); err != nil {
		_ = os.RemoveAll(workDir)
		return Result{}, fmt.Errorf("ffmpeg mix: %w: %s", err, strings.TrimSpace(string(output)))
	}
	_ = os.Remove(voicePath)

	info, err := os.Stat(outPath)
	if err != nil {
		_ = os.RemoveAll(workDir)
		return Result{}, fmt.Errorf("mixed file missing: %w", err)
	}

	duration, err := m.probeDuration(ctx, outPath)
	if err != nil {
		m.logger.Warn("ffprobe failed, using target duration", zap.String("file", outPath), zap.Error(err))
		duration = float64(targetSec)
	}

	m.logger.Info("Audio mixed",
		zap.String("background", string(bg)),
		zap.Int("targetSec", targetSec),
		zap.Float64("durationSec", duration),
		zap.Int64("sizeBytes", info.Size()))

	return Result{Path: outPath, DurationSec: duration, SizeBytes: info.Size()}, nil
}

// mixArgs: фон зацикливается и приглушается, голос дополняется тишиной до целевой длины,
// длина результата следует за голосом.
func mixArgs(voicePath, bgPath, outPath string, gain float64, targetSec int) []string {
	filter := fmt.Sprintf(
		"[0:a]apad=whole_dur=%d[v];[1:a]volume=%s[b];[v][b]amix=inputs=2:duration=first:dropout_transition=0:normalize=0[out]",
		targetSec, strconv.FormatFloat(gain, 'f', -1, 64))
	return []string{
		"-y",
		"-hide_banner",
		"-loglevel", "error",
		"-i", voicePath,
		"-stream_loop", "-1",
		"-i", bgPath,
		"-filter_complex", filter,
		"-map", "[out]",
		"-c:a", "libmp3lame",
		"-b:a", "192k",
		outPath,
	}
}

func (m *ffmpegMixer) probeDuration(ctx context.Context, path string) (float64, error) {
	output, err := m.run(ctx, m.ffprobePath,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path)
	if err != nil {
		return 0, fmt.Errorf("ffprobe: %w: %s", err, strings.TrimSpace(string(output)))
	}
	return strconv.ParseFloat(strings.TrimSpace(string(output)), 64)
}

func probePathFor(ffmpegPath string) string {
	dir, base := filepath.Split(ffmpegPath)
	if strings.HasPrefix(base, "ffmpeg") {
		return dir + "ffprobe" + strings.TrimPrefix(base, "ffmpeg")
	}
	return "ffprobe"
}

// RemoveScratch удаляет рабочий каталог микшированного файла.
func RemoveScratch(mixedRef string) error {
	if mixedRef == "" {
		return nil
	}
	return os.RemoveAll(filepath.Dir(mixedRef))
}
