// Package stdio serves the ledger tools as JSON lines over a pair of streams,
// one request per input line and one envelope per output line.
package stdio

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"moneyleft/internal/core"
	"moneyleft/internal/log"
	"moneyleft/internal/tools"
)

const maxLineBytes = 1 << 20

// Request is one input line. ID is echoed back verbatim.
type Request struct {
	ID        any             `json:"id,omitempty"`
	Tool      string          `json:"tool"`
	Arguments json.RawMessage `json:"arguments,omitempty"`
}

type Server struct {
	registry *tools.Registry
	logger   *log.Logger
}

func NewServer(registry *tools.Registry, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.FromContext(context.Background())
	}
	return &Server{registry: registry, logger: logger.WithComponent(log.ComponentStdio)}
}

// Serve handles requests from in until EOF or ctx is cancelled. Blank lines
// are skipped. A line that is not a request still gets an error envelope.
func (s *Server) Serve(ctx context.Context, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	w := bufio.NewWriter(out)
	enc := json.NewEncoder(w)

	s.logger.Info("Serving tools on stdio")
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}

		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		if err := enc.Encode(s.handle(ctx, line)); err != nil {
			return fmt.Errorf("write response: %w", err)
		}
		if err := w.Flush(); err != nil {
			return fmt.Errorf("flush response: %w", err)
		}
	}

	if err := scanner.Err(); err != nil {
		if errors.Is(err, bufio.ErrTooLong) {
			return fmt.Errorf("read request: line exceeds %d bytes: %w", maxLineBytes, err)
		}
		return fmt.Errorf("read request: %w", err)
	}
	s.logger.Info("Input closed, stopping")
	return nil
}

func (s *Server) handle(ctx context.Context, line []byte) tools.Envelope {
	var req Request
	dec := json.NewDecoder(bytes.NewReader(line))
	dec.UseNumber()
	if err := dec.Decode(&req); err != nil {
		return invalid(nil, fmt.Errorf("%w: malformed request: %v", core.ErrInvalidInput, err))
	}
	if req.Tool == "" {
		return invalid(req.ID, fmt.Errorf("%w: request names no tool", core.ErrInvalidInput))
	}

	env := s.registry.Call(ctx, log.ComponentStdio, req.Tool, req.Arguments)
	env.ID = req.ID
	return env
}

func invalid(id any, err error) tools.Envelope {
	return tools.Envelope{
		ID:    id,
		Error: &tools.ErrorBody{Type: tools.ErrorType(err), Message: err.Error()},
	}
}
