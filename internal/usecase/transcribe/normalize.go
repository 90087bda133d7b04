package transcribe

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
)

// NormalizeFunc converts an arbitrary audio file into the canonical format
// and returns the path of the converted file.
type NormalizeFunc func(ctx context.Context, audioPath string) (string, error)

// ffmpegNormalizer resamples the input to mono WAV at the given sample rate
// under workDir. Conversion failure is fatal and not retried.
func ffmpegNormalizer(sampleRate int, workDir string) NormalizeFunc {
	return func(ctx context.Context, audioPath string) (string, error) {
		base := strings.TrimSuffix(filepath.Base(audioPath), filepath.Ext(audioPath))
		outPath := filepath.Join(workDir, base+"_converted.wav")

		cmd := exec.CommandContext(ctx, "ffmpeg",
			"-y",
			"-i", audioPath,
			"-ac", "1",
			"-ar", strconv.Itoa(sampleRate),
			outPath,
		)
		if out, err := cmd.CombinedOutput(); err != nil {
			return "", fmt.Errorf("ffmpeg conversion failed: %w: %s", err, string(out))
		}
		return outPath, nil
	}
}
