package middleware

import (
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

const logFormat = "${time} | ${status} | ${latency} | ${method} ${path}\n"

// Logger returns a Fiber middleware that only logs slow or failed requests.
func Logger(slowThreshold time.Duration) fiber.Handler {
	return logger.New(logger.Config{
		Format:     logFormat,
		TimeFormat: "15:04:05",
		Output:     newFilteredWriter(os.Stdout, slowThreshold),
	})
}

// filteredWriter discards log lines for fast, successful requests. Lines look
// like "15:04:05 | 200 | 1.23ms | GET /path\n".
type filteredWriter struct {
	dest             io.Writer
	slowThreshold    time.Duration
	errorStatusFloor int
}

func newFilteredWriter(dest io.Writer, slowThreshold time.Duration) *filteredWriter {
	return &filteredWriter{dest: dest, slowThreshold: slowThreshold, errorStatusFloor: 400}
}

func (w *filteredWriter) Write(p []byte) (int, error) {
	parts := strings.Split(string(p), " | ")
	if len(parts) < 3 {
		return w.dest.Write(p)
	}
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	if status, err := strconv.Atoi(parts[1]); err == nil && status >= w.errorStatusFloor {
		return w.dest.Write(p)
	}

	// latency is padded, e.g. "    3ms"
	if dur, err := time.ParseDuration(parts[2]); err == nil && dur >= w.slowThreshold {
		return w.dest.Write(p)
	}

	return len(p), nil
}
