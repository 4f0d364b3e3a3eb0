package web

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/dhamidi/sdkconf/dialect"
	"github.com/dhamidi/sdkconf/parser"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("sdkconf.web")

const (
	RequestIDHeader = "X-Request-Id"

	// MaxBodyBytes bounds request bodies.
	MaxBodyBytes = 1 << 20
)

type ParseRequest struct {
	Code    string `json:"code" binding:"required"`
	Dialect string `json:"dialect"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type HealthResponse struct {
	Status   string `json:"status"`
	Dialects int    `json:"dialects"`
}

type DialectInfo struct {
	Name       string   `json:"name"`
	Title      string   `json:"title"`
	Aliases    []string `json:"aliases"`
	Extensions []string `json:"extensions"`
}

// Server exposes the parser over HTTP.
type Server struct {
	engine   *gin.Engine
	fallback string
}

// NewServer builds the router. Requests without a dialect use fallback.
func NewServer(fallback string) *Server {
	s := &Server{fallback: fallback}

	r := gin.New()
	r.Use(gin.Recovery(), requestID(), requestLogger())

	r.POST("/parse", s.parse)
	r.POST("/validate", s.validate)
	r.GET("/dialects", s.dialects)
	r.GET("/health", s.health)

	s.engine = r
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.engine.ServeHTTP(w, r)
}

func (s *Server) parse(c *gin.Context) {
	p, ok := s.bind(c, func(msg string) any { return ErrorResponse{Error: msg} })
	if !ok {
		return
	}
	c.JSON(http.StatusOK, p.Parse(c.GetString("code")))
}

func (s *Server) validate(c *gin.Context) {
	p, ok := s.bind(c, func(msg string) any {
		return parser.Validation{Errors: []*parser.ParseError{{Message: msg, Kind: parser.KindStructural}}}
	})
	if !ok {
		return
	}
	c.JSON(http.StatusOK, p.Validate(c.GetString("code")))
}

// bind decodes the request and resolves its parser. On failure it writes a
// 400 response built by reject and returns false.
func (s *Server) bind(c *gin.Context, reject func(msg string) any) (*parser.Parser, bool) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxBodyBytes)

	var req ParseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, reject("request body too large"))
			return nil, false
		}
		c.JSON(http.StatusBadRequest, reject("missing code parameter"))
		return nil, false
	}

	name := strings.TrimSpace(req.Dialect)
	if name == "" {
		name = c.Query("dialect")
	}
	if name == "" {
		name = s.fallback
	}
	p, err := parser.For(name)
	if err != nil {
		c.JSON(http.StatusBadRequest, reject(err.Error()))
		return nil, false
	}
	c.Set("code", req.Code)
	c.Set("dialect", p.Dialect())
	return p, true
}

func (s *Server) dialects(c *gin.Context) {
	tables := dialect.All()
	out := make([]DialectInfo, 0, len(tables))
	for _, t := range tables {
		out = append(out, DialectInfo{
			Name:       t.Name,
			Title:      t.Title,
			Aliases:    nonNil(t.Aliases),
			Extensions: nonNil(t.Extensions),
		})
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:   "healthy",
		Dialects: len(dialect.Names()),
	})
}

// requestID reuses the caller's request ID or assigns a new one.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(RequestIDHeader))
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"dialect", c.GetString("dialect"),
			"latency_ms", time.Since(start).Milliseconds(),
			"request_id", c.GetString("request_id"),
		)
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
