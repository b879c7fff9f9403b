package observability

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/valyala/bytebufferpool"
	"go.uber.org/zap/zapcore"

	"github.com/riskibarqy/nfl-league/internal/config"
	"github.com/riskibarqy/nfl-league/internal/platform/logging"
)

// InitLogger builds the process logger. Entries always go to console; when
// Better Stack is enabled, entries at or above BetterStackMinLevel are also
// shipped in JSON array batches. The returned func flushes the last batch.
func InitLogger(cfg config.Config, console io.Writer) (*logging.Logger, func(context.Context) error, error) {
	consoleCore := logging.JSONCore(cfg.LogLevel, console)
	if !cfg.BetterStackEnabled {
		logger := logging.NewTee(consoleCore)
		return logger, func(context.Context) error { return syncLogger(logger) }, nil
	}

	endpoint := normalizeBetterStackEndpoint(cfg.BetterStackEndpoint)
	if endpoint == "" {
		return nil, nil, fmt.Errorf("betterstack endpoint cannot be empty")
	}

	sink := newBetterStackSink(endpoint, cfg.BetterStackToken, cfg.BetterStackTimeout, cfg.BetterStackBatchSize)
	logger := logging.NewTee(consoleCore, logging.JSONCore(cfg.BetterStackMinLevel, sink))
	logger.Debug("betterstack enabled",
		"endpoint", endpoint,
		"min_level", cfg.BetterStackMinLevel.String(),
		"batch_size", sink.batchSize,
	)

	return logger, func(ctx context.Context) error {
		if ctx == nil {
			ctx = context.Background()
		}
		if _, ok := ctx.Deadline(); !ok {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, 5*time.Second)
			defer cancel()
		}
		if err := sink.Flush(ctx); err != nil {
			return fmt.Errorf("flush betterstack batch: %w", err)
		}
		return syncLogger(logger)
	}, nil
}

func normalizeBetterStackEndpoint(raw string) string {
	value := strings.TrimSpace(raw)
	if value == "" || strings.HasPrefix(value, "http://") || strings.HasPrefix(value, "https://") {
		return value
	}
	return "https://" + value
}

// betterStackSink buffers encoded log lines and posts them once batchSize
// lines are pending or on Flush.
type betterStackSink struct {
	endpoint  string
	token     string
	client    *http.Client
	batchSize int

	mu      sync.Mutex
	pending [][]byte
}

func newBetterStackSink(endpoint, token string, timeout time.Duration, batchSize int) *betterStackSink {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	if batchSize < 1 {
		batchSize = 1
	}
	return &betterStackSink{
		endpoint:  endpoint,
		token:     strings.TrimSpace(token),
		client:    &http.Client{Timeout: timeout},
		batchSize: batchSize,
	}
}

func (s *betterStackSink) Write(p []byte) (int, error) {
	line := bytes.TrimSpace(p)
	if len(line) == 0 {
		return len(p), nil
	}

	// zap reuses its buffer once Write returns.
	copied := make([]byte, len(line))
	copy(copied, line)

	s.mu.Lock()
	s.pending = append(s.pending, copied)
	var batch [][]byte
	if len(s.pending) >= s.batchSize {
		batch = s.takeLocked()
	}
	s.mu.Unlock()

	if batch != nil {
		if err := s.post(context.Background(), batch); err != nil {
			return len(p), err
		}
	}
	return len(p), nil
}

// Sync is a no-op so the console Sync on exit does not block on the network.
func (s *betterStackSink) Sync() error {
	return nil
}

func (s *betterStackSink) Flush(ctx context.Context) error {
	s.mu.Lock()
	batch := s.takeLocked()
	s.mu.Unlock()

	if len(batch) == 0 {
		return nil
	}
	return s.post(ctx, batch)
}

func (s *betterStackSink) takeLocked() [][]byte {
	batch := s.pending
	s.pending = nil
	return batch
}

func (s *betterStackSink) post(ctx context.Context, batch [][]byte) error {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	_ = buf.WriteByte('[')
	for i, line := range batch {
		if i > 0 {
			_ = buf.WriteByte(',')
		}
		_, _ = buf.Write(line)
	}
	_ = buf.WriteByte(']')

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(buf.B))
	if err != nil {
		return fmt.Errorf("create betterstack request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("send %d logs to betterstack: %w", len(batch), err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("betterstack rejected %d logs: status=%d", len(batch), resp.StatusCode)
	}
	return nil
}

var _ zapcore.WriteSyncer = (*betterStackSink)(nil)

func syncLogger(logger *logging.Logger) error {
	if err := logger.Sync(); err != nil && !isIgnorableLoggerSyncError(err) {
		return err
	}
	return nil
}

// isIgnorableLoggerSyncError matches the errors fsync returns for terminals and pipes.
func isIgnorableLoggerSyncError(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "bad file descriptor") ||
		strings.Contains(msg, "invalid argument") ||
		strings.Contains(msg, "inappropriate ioctl")
}
