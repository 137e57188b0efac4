package download

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
)

var (
	// e.g. "[download]  45.2% of ~102.35MiB at 1.24MiB/s ETA 00:45"
	ytdlpProgressRe = regexp.MustCompile(`^\[download\]\s+([\d.]+)%(?:\s+of\s+~?\s*\S+)?(?:\s+at\s+(\S+))?(?:\s+ETA\s+(\S+))?`)
	// e.g. "[download] Destination: /downloads/Intro.mp4"
	ytdlpDestRe = regexp.MustCompile(`^\[download\] Destination:\s+(.+)$`)
)

// YtDlp drives the yt-dlp binary. It relies on --newline to get one
// progress report per line on stdout.
type YtDlp struct {
	binary string
	format string
}

func NewYtDlp(binary, format string) *YtDlp {
	if binary == "" {
		binary = "yt-dlp"
	}
	return &YtDlp{binary: binary, format: format}
}

func (d *YtDlp) Download(ctx context.Context, url, outputTemplate string, events chan<- Event) error {
	args := []string{
		"-f", d.format,
		"-o", outputTemplate,
		"--newline",
		"--no-warnings",
		url,
	}
	cmd := exec.CommandContext(ctx, d.binary, args...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("yt-dlp stdout pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start yt-dlp: %w", err)
	}

	var filename string
	scanner := bufio.NewScanner(stdout)
	for scanner.Scan() {
		line := scanner.Text()

		if m := ytdlpDestRe.FindStringSubmatch(line); m != nil {
			filename = strings.TrimSpace(m[1])
			continue
		}
		m := ytdlpProgressRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		pct, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			continue
		}
		events <- Event{
			Percent:  pct,
			Speed:    m[2],
			ETA:      m[3],
			Filename: filename,
		}
	}

	if err := cmd.Wait(); err != nil {
		return fmt.Errorf("yt-dlp failed: %w: %s", err, stderrTail(&stderr))
	}
	return nil
}

// stderrTail keeps error messages readable when yt-dlp dumps a long
// trace.
func stderrTail(buf *bytes.Buffer) string {
	s := strings.TrimSpace(buf.String())
	lines := strings.Split(s, "\n")
	if len(lines) > 3 {
		lines = lines[len(lines)-3:]
	}
	return strings.Join(lines, " ")
}
