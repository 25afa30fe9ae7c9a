package server

import (
	"bufio"
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/bertonantho/Names-sub000/pkg/config"
	"github.com/bertonantho/Names-sub000/pkg/corpus"
	"github.com/bertonantho/Names-sub000/pkg/recommend"
	"github.com/bertonantho/Names-sub000/pkg/search"
)

// maxFrameSize guards against garbage length prefixes.
const maxFrameSize = 1 << 20

// Server handles the IPC for search and recommendation requests.
type Server struct {
	engine      *search.Engine
	recommender *recommend.Recommender
	cfg         *config.Config
	reader      *bufio.Reader
	writer      io.Writer
}

// NewServer creates an IPC server over stdin/stdout.
func NewServer(engine *search.Engine, recommender *recommend.Recommender, cfg *config.Config) *Server {
	return &Server{
		engine:      engine,
		recommender: recommender,
		cfg:         cfg,
		reader:      bufio.NewReader(os.Stdin),
		writer:      os.Stdout,
	}
}

// Start begins listening for IPC frames. It returns nil on EOF.
func (s *Server) Start() error {
	log.Debug("Starting IPC server.")
	s.send(Response{Status: "ready"})

	for {
		frame, err := s.readFrame()
		if err != nil {
			if err == io.EOF {
				return nil
			}
			log.Errorf("Reading frame: %v", err)
			return err
		}
		s.handleFrame(frame)
	}
}

// readFrame reads one length-prefixed msgpack message.
func (s *Server) readFrame() ([]byte, error) {
	var size uint32
	if err := binary.Read(s.reader, binary.LittleEndian, &size); err != nil {
		return nil, err
	}
	if size == 0 || size > maxFrameSize {
		return nil, fmt.Errorf("invalid frame size %d", size)
	}
	frame := make([]byte, size)
	if _, err := io.ReadFull(s.reader, frame); err != nil {
		return nil, err
	}
	return frame, nil
}

func (s *Server) handleFrame(frame []byte) {
	var request Request
	if err := msgpack.Unmarshal(frame, &request); err != nil {
		s.sendError("", "Invalid msgpack request", 400)
		log.Errorf("Unmarshaling request: %v", err)
		return
	}

	switch request.Cmd {
	case "search":
		s.handleSearch(request)
	case "recommend":
		s.handleRecommend(request)
	case "health":
		s.send(Response{ID: request.ID, Status: "ok"})
	default:
		s.sendError(request.ID, fmt.Sprintf("Unknown command: %s", request.Cmd), 400)
	}
}

func (s *Server) handleSearch(request Request) {
	if request.Query == nil {
		s.sendError(request.ID, "Missing 'q' parameter", 400)
		return
	}
	q := *request.Query

	if len(q.Text) > s.cfg.Server.MaxQueryLen {
		s.sendError(request.ID, fmt.Sprintf("Query text exceeds maximum length of %d characters", s.cfg.Server.MaxQueryLen), 400)
		return
	}
	sex, ok := corpus.ParseSex(q.Sex)
	if !ok {
		s.sendError(request.ID, fmt.Sprintf("Unknown sex filter: %s", q.Sex), 400)
		return
	}
	sortKey, err := search.ParseSortKey(q.Sort)
	if err != nil {
		s.sendError(request.ID, err.Error(), 400)
		return
	}
	limit := q.Limit
	if limit < 1 || limit > s.cfg.Server.MaxLimit {
		limit = s.cfg.Server.MaxLimit
	}

	start := time.Now()
	records := s.engine.Search(search.Query{
		Text:            q.Text,
		Sex:             sex,
		MinYear:         q.MinYear,
		MaxYear:         q.MaxYear,
		MinLetters:      q.MinLetters,
		MaxLetters:      q.MaxLetters,
		MinSyllables:    q.MinSyllables,
		MaxSyllables:    q.MaxSyllables,
		MinRecentBirths: q.MinRecentBirths,
		MinTrend:        q.MinTrend,
		MaxTrend:        q.MaxTrend,
		SortBy:          sortKey,
		Limit:           limit,
	})
	elapsed := time.Since(start)

	latest := s.engine.LatestYear()
	results := make([]ResultName, len(records))
	for i, r := range records {
		results[i] = ResultName{
			Name:         r.Name,
			Sex:          string(r.Sex),
			RecentBirths: r.RecentCount(latest),
			TotalBirths:  r.TotalBirths(),
		}
	}

	s.send(Response{
		ID:        request.ID,
		Results:   results,
		Count:     len(results),
		TimeTaken: elapsed.Microseconds(),
	})
}

func (s *Server) handleRecommend(request Request) {
	if request.Family == nil {
		s.sendError(request.ID, "Missing 'family' parameter", 400)
		return
	}
	payload := request.Family

	sex, ok := corpus.ParseSex(payload.Sex)
	if !ok {
		s.sendError(request.ID, fmt.Sprintf("Unknown sex filter: %s", payload.Sex), 400)
		return
	}
	bracket, ok := recommend.ParseBracket(payload.Bracket)
	if !ok {
		s.sendError(request.ID, fmt.Sprintf("Unknown popularity bracket: %s", payload.Bracket), 400)
		return
	}

	children := make([]recommend.Child, 0, len(payload.Children))
	for _, name := range payload.Children {
		children = append(children, recommend.Child{Name: name})
	}
	fc := recommend.FamilyContext{
		LastName: payload.LastName,
		Children: children,
		Prefs: recommend.Preferences{
			Sex:           sex,
			Bracket:       bracket,
			MaxLetters:    payload.MaxLetters,
			MeaningWeight: payload.MeaningWeight,
		},
	}

	timeout := time.Duration(s.cfg.Recommend.ProviderTimeoutMs) * time.Millisecond
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	start := time.Now()
	candidates := s.recommender.RecommendWithInsights(ctx, fc)
	elapsed := time.Since(start)

	latest := s.engine.LatestYear()
	results := make([]ResultName, len(candidates))
	for i, c := range candidates {
		result := ResultName{
			Name:         c.Record.Name,
			Sex:          string(c.Record.Sex),
			RecentBirths: c.Record.RecentCount(latest),
			Score:        c.Score,
			External:     c.IsExternallySourced(),
		}
		if c.Insight != nil {
			result.Reasoning = c.Insight.Reasoning
		}
		results[i] = result
	}

	s.send(Response{
		ID:        request.ID,
		Results:   results,
		Count:     len(results),
		TimeTaken: elapsed.Microseconds(),
	})
}

// send marshals the response and writes it as one length-prefixed frame.
func (s *Server) send(response interface{}) {
	data, err := msgpack.Marshal(response)
	if err != nil {
		log.Errorf("Marshaling response: %v", err)
		return
	}
	if err := binary.Write(s.writer, binary.LittleEndian, uint32(len(data))); err != nil {
		log.Errorf("Writing frame header: %v", err)
		return
	}
	if _, err := s.writer.Write(data); err != nil {
		log.Errorf("Writing frame: %v", err)
	}
}

func (s *Server) sendError(id, message string, code int) {
	s.send(ErrorResponse{
		ID:    id,
		Error: message,
		Code:  code,
	})
}
