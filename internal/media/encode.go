package media

import (
	"context"
	"fmt"
	"strconv"

	"github.com/fwegner/meetproc/pkg/executor"
)

// scaleFilters maps resolution presets to ffmpeg scale expressions.
// Height stays proportional and divisible by two.
var scaleFilters = map[string]string{
	"1080p": "scale=1920:-2",
	"720p":  "scale=1280:-2",
}

// Encode compresses a recording to H.265. The hardware encoder takes a
// 0-100 quality value; max compression switches to the software encoder
// at its configured CRF. ffmpeg's machine-readable progress goes to
// onLine.
func (m *implMedia) Encode(ctx context.Context, req EncodeRequest, onLine executor.LineHandler) error {
	args, err := m.buildEncodeArgs(req)
	if err != nil {
		return err
	}

	mode := fmt.Sprintf("hardware (%s, q=%d)", m.cfg.HardwareEncoder, req.Quality)
	if req.MaxCompression {
		mode = fmt.Sprintf("software (%s, crf=%d)", m.cfg.SoftwareEncoder, m.cfg.SoftwareCRF)
	}
	m.logger.Info(ctx, "Encoding %s -> %s [%s]", req.InputPath, req.OutputPath, mode)

	if err := m.executor.ExecuteStream(ctx, onLine, "ffmpeg", args...); err != nil {
		return fmt.Errorf("ffmpeg encode: %w", err)
	}
	return nil
}

func (m *implMedia) buildEncodeArgs(req EncodeRequest) ([]string, error) {
	args := []string{"-i", req.InputPath}

	if req.Scale != "" {
		filter, ok := scaleFilters[req.Scale]
		if !ok {
			return nil, fmt.Errorf("unknown scale preset %q", req.Scale)
		}
		args = append(args, "-vf", filter)
	}

	if req.MaxCompression {
		args = append(args,
			"-c:v", m.cfg.SoftwareEncoder,
			"-crf", strconv.Itoa(m.cfg.SoftwareCRF),
			"-preset", "medium",
		)
	} else {
		args = append(args,
			"-c:v", m.cfg.HardwareEncoder,
			"-q:v", strconv.Itoa(req.Quality),
		)
	}

	args = append(args,
		"-tag:v", "hvc1",
		"-c:a", "aac", "-b:a", m.cfg.AudioBitrate,
		"-movflags", "+faststart",
		"-progress", "pipe:1",
		"-nostats",
		"-y",
		req.OutputPath,
	)

	return args, nil
}
