package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bastiangx/reelserve/internal/logger"
	"github.com/bastiangx/reelserve/internal/utils"
	"github.com/bastiangx/reelserve/pkg/cache"
	"github.com/bastiangx/reelserve/pkg/config"
	"github.com/bastiangx/reelserve/pkg/suggest"
	"github.com/charmbracelet/log"
)

// readier is implemented by completers that know whether they hold data.
type readier interface {
	Ready() bool
}

// invalidator is implemented by sources that memoize their fetches.
type invalidator interface {
	Invalidate()
}

// Server handles the IPC for title and location suggestions
type Server struct {
	completer suggest.ICompleter
	source    suggest.Source
	config    *config.Config
	responses *cache.LRU[string, QueryResponse]
	cacheMu   sync.RWMutex // orders response puts against clears
	gen       atomic.Uint64
	cleaners  []cache.Cleaner
	reader    io.Reader
	writer    io.Writer
	logger    *log.Logger
	requests  atomic.Int64
}

// Option customizes a Server.
type Option func(*Server)

// WithIO replaces stdin/stdout.
func WithIO(r io.Reader, w io.Writer) Option {
	return func(s *Server) {
		s.reader = r
		s.writer = w
	}
}

// WithCleaners registers caches swept by the janitor every clean interval.
func WithCleaners(cleaners ...cache.Cleaner) Option {
	return func(s *Server) {
		s.cleaners = append(s.cleaners, cleaners...)
	}
}

// WithLogger replaces the server logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Server) {
		s.logger = l
	}
}

// NewServer creates a server answering from completer and rebuilding from src.
func NewServer(completer suggest.ICompleter, src suggest.Source, cfg *config.Config, opts ...Option) *Server {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	s := &Server{
		completer: completer,
		source:    src,
		config:    cfg,
		responses: cache.NewLRU[string, QueryResponse](cfg.Server.ResponseCacheSize),
		reader:    os.Stdin,
		writer:    os.Stdout,
		logger:    logger.Default("server"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type frame struct {
	data []byte
	err  error
}

// Start serves requests until the input ends or ctx is done. The refresher
// and janitor run for as long as Start does. A clean EOF returns nil.
func (s *Server) Start(ctx context.Context) error {
	c, err := newCodec(s.config.Server.Encoding, s.reader, s.writer)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go s.runRefresher(ctx, s.config.Index.RefreshInterval())
	go cache.RunJanitor(ctx, s.config.Cache.CleanInterval(), s.cleaners...)

	frames := make(chan frame)
	go func() {
		for {
			data, err := c.Next()
			select {
			case frames <- frame{data: data, err: err}:
			case <-ctx.Done():
				return
			}
			if err != nil {
				return
			}
		}
	}()

	s.logger.Debug("Starting server", "encoding", s.config.Server.Encoding)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case f := <-frames:
			if f.err != nil {
				if errors.Is(f.err, io.EOF) {
					s.logger.Debug("Client disconnected (EOF)")
					return nil
				}
				return fmt.Errorf("read request: %w", f.err)
			}
			if err := c.Write(s.handle(ctx, c, f.data)); err != nil {
				return fmt.Errorf("write response: %w", err)
			}
		}
	}
}

// handle decodes one frame and returns the response to send.
func (s *Server) handle(ctx context.Context, c codec, data []byte) any {
	s.requests.Add(1)

	var req Request
	if err := c.Unmarshal(data, &req); err != nil {
		s.logger.Debugf("Unmarshaling request: %v", err)
		return ErrorResponse{Error: "invalid request", Code: CodeBadRequest}
	}
	return s.Handle(ctx, req)
}

// Handle answers a decoded request.
func (s *Server) Handle(ctx context.Context, req Request) any {
	switch req.Action {
	case "", ActionQuery:
		return s.handleQuery(req)
	case ActionRebuild:
		return s.handleRebuild(ctx, req)
	case ActionStats:
		return StatusResponse{ID: req.ID, Status: "ok", Stats: s.Stats()}
	case ActionHealth:
		return s.handleHealth(req)
	default:
		return ErrorResponse{ID: req.ID, Error: fmt.Sprintf("unknown action: %s", req.Action), Code: CodeUnknown}
	}
}

func (s *Server) handleQuery(req Request) any {
	start := time.Now()
	q := req.Query

	if !utils.IsValidQuery(q) {
		return ErrorResponse{ID: req.ID, Error: "query contains invalid characters", Code: CodeBadRequest}
	}
	if q != "" {
		n := utils.RuneLen(q)
		if n < s.config.Server.MinPrefix {
			return ErrorResponse{ID: req.ID, Error: fmt.Sprintf("query must be at least %d characters", s.config.Server.MinPrefix), Code: CodeBadRequest}
		}
		if n > s.config.Server.MaxPrefix {
			return ErrorResponse{ID: req.ID, Error: fmt.Sprintf("query exceeds maximum length of %d characters", s.config.Server.MaxPrefix), Code: CodeBadRequest}
		}
	}

	key := utils.Fold(q)
	resp, ok := s.responses.Get(key)
	if !ok {
		gen := s.gen.Load()
		suggestions := s.completer.Suggest(q)
		if suggestions == nil {
			suggestions = []suggest.Suggestion{}
		}
		resp = QueryResponse{Suggestions: suggestions, Count: len(suggestions)}
		s.remember(gen, key, resp)
	}

	resp.ID = req.ID
	resp.Query = q
	resp.TimeTaken = time.Since(start).Microseconds()
	return resp
}

func (s *Server) handleRebuild(ctx context.Context, req Request) any {
	if inv, ok := s.source.(invalidator); ok {
		inv.Invalidate()
	}
	if err := s.rebuild(ctx); err != nil {
		return ErrorResponse{ID: req.ID, Error: err.Error(), Code: CodeInternal}
	}
	return StatusResponse{ID: req.ID, Status: "ok", Stats: s.completer.Stats()}
}

func (s *Server) handleHealth(req Request) any {
	if r, ok := s.completer.(readier); ok && !r.Ready() {
		return ErrorResponse{ID: req.ID, Error: "index not built", Code: CodeUnavailable}
	}
	return StatusResponse{ID: req.ID, Status: "ok"}
}

// rebuild refreshes the completer and empties the response cache on success.
func (s *Server) rebuild(ctx context.Context) error {
	if s.source == nil {
		return errors.New("no source configured")
	}
	if err := s.completer.RebuildFrom(ctx, s.source); err != nil {
		s.logger.Warnf("Rebuild failed, keeping previous data: %v", err)
		return err
	}
	s.cacheMu.Lock()
	s.gen.Add(1)
	s.responses.Clear()
	s.cacheMu.Unlock()
	return nil
}

// remember caches resp unless a rebuild landed after gen was read.
func (s *Server) remember(gen uint64, key string, resp QueryResponse) {
	s.cacheMu.RLock()
	defer s.cacheMu.RUnlock()
	if s.gen.Load() == gen {
		s.responses.Put(key, resp)
	}
}

// Stats merges completer stats with server and response cache counters.
func (s *Server) Stats() map[string]int {
	stats := s.completer.Stats()
	for k, v := range s.responses.Stats().Map() {
		stats["responseCache."+k] = v
	}
	stats["responseCache.size"] = s.responses.Len()
	stats["requests"] = int(s.requests.Load())
	return stats
}
