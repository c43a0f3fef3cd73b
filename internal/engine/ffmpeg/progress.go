package ffmpeg

import (
	"bufio"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/fhuszti/medias-transcode-go/internal/model"
)

// parseProgress reads ffmpeg -progress output from r and calls emit once per
// block. A block ends with a "progress=continue" or "progress=end" line.
// Percent is only set when total is positive.
func parseProgress(r io.Reader, total float64, emit func(model.Progress)) error {
	var cur model.Progress
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		key, val, ok := strings.Cut(strings.TrimSpace(sc.Text()), "=")
		if !ok {
			continue
		}
		val = strings.TrimSpace(val)

		switch key {
		case "frame":
			if n, err := strconv.ParseInt(val, 10, 64); err == nil {
				cur.Frame = n
			}
		case "fps":
			if f, err := strconv.ParseFloat(val, 64); err == nil {
				cur.FPS = f
			}
		case "out_time_us", "out_time_ms":
			// both keys carry microseconds
			if us, err := strconv.ParseInt(val, 10, 64); err == nil && us >= 0 {
				cur.OutTimeSeconds = float64(us) / float64(time.Second/time.Microsecond)
			}
		case "out_time":
			if cur.OutTimeSeconds == 0 {
				if s, ok := parseClock(val); ok {
					cur.OutTimeSeconds = s
				}
			}
		case "speed":
			if val != "N/A" {
				cur.Speed = val
			}
		case "progress":
			if total > 0 {
				pct := cur.OutTimeSeconds / total * 100
				if pct > 100 {
					pct = 100
				}
				cur.Percent = &pct
			}
			emit(cur)
			cur = model.Progress{}
		}
	}
	return sc.Err()
}

// parseClock parses HH:MM:SS.micro into seconds.
func parseClock(s string) (float64, bool) {
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return 0, false
	}
	h, err1 := strconv.Atoi(parts[0])
	m, err2 := strconv.Atoi(parts[1])
	sec, err3 := strconv.ParseFloat(parts[2], 64)
	if err1 != nil || err2 != nil || err3 != nil || h < 0 || m < 0 || sec < 0 {
		return 0, false
	}
	return float64(h*3600+m*60) + sec, true
}
