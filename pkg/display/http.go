package display

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"image/jpeg"
	"io"
	"net"
	"net/http"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/mattn/go-isatty"

	"github.com/framemill/framemill/internal/logging"
	"github.com/framemill/framemill/pkg/stats"
	"github.com/framemill/framemill/pkg/transform"
)

var log = logging.NewLogger("display")

const shutdownTimeout = 3 * time.Second

// HTTPSink serves each named view as an MJPEG stream over HTTP, pushes
// RunStats over a websocket feed, and accepts interrupt requests from the
// viewer (POST /interrupt) or a designated key line on stdin.
type HTTPSink struct {
	server      *http.Server
	listener    net.Listener
	streams     map[string]*viewStream
	quality     int
	key         string
	interrupted atomic.Bool
	serveErr    atomic.Value // error

	wsMu       sync.Mutex
	wsClients  map[*websocket.Conn]struct{}
	wsUpgrader websocket.Upgrader

	closeOnce sync.Once
	closeErr  error
}

// NewHTTPSink starts the viewer server on addr. quality is the JPEG quality
// used for the view streams; key is the stdin interrupt line (typically "q"),
// listened for only when stdin is a terminal.
func NewHTTPSink(addr string, quality int, key string) (*HTTPSink, error) {
	if quality <= 0 || quality > 100 {
		quality = jpeg.DefaultQuality
	}

	s := &HTTPSink{
		streams:   make(map[string]*viewStream, len(transform.ViewNames)),
		quality:   quality,
		key:       key,
		wsClients: make(map[*websocket.Conn]struct{}),
		wsUpgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
	for _, name := range transform.ViewNames {
		s.streams[name] = newViewStream()
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.GET("/", s.handleIndex)
	router.GET("/views/:name", s.handleView)
	router.GET("/ws", s.handleStatsFeed)
	router.POST("/interrupt", s.handleInterrupt)

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("display: listen on %s: %w", addr, err)
	}
	s.listener = listener
	s.server = &http.Server{Handler: router}

	go func() {
		if err := s.server.Serve(listener); err != nil && err != http.ErrServerClosed {
			s.serveErr.Store(err)
		}
	}()

	if isatty.IsTerminal(os.Stdin.Fd()) && key != "" {
		go s.watchKeys(os.Stdin)
	}

	log.Infof("live views available at http://%s/", listener.Addr())
	return s, nil
}

// Addr returns the address the viewer server is bound to.
func (s *HTTPSink) Addr() string {
	return s.listener.Addr().String()
}

// Present encodes every view to JPEG and hands it to the matching stream,
// then pushes the stats snapshot to the websocket feed. It fails only when
// the viewer server itself has died.
func (s *HTTPSink) Present(set *transform.Set, st stats.RunStats) error {
	if err, ok := s.serveErr.Load().(error); ok && err != nil {
		return fmt.Errorf("display: viewer server failed: %w", err)
	}

	for _, view := range set.Views() {
		var buf bytes.Buffer
		if err := jpeg.Encode(&buf, view.Image, &jpeg.Options{Quality: s.quality}); err != nil {
			return fmt.Errorf("display: encode %s view: %w", view.Name, err)
		}
		s.streams[view.Name].publish(buf.Bytes())
	}

	s.pushStats(st)
	return nil
}

// Interrupted reports whether the user requested a stop.
func (s *HTTPSink) Interrupted() bool {
	return s.interrupted.Load()
}

// Close stops all view streams, disconnects stats subscribers, and shuts the
// server down. Safe to call more than once.
func (s *HTTPSink) Close() error {
	s.closeOnce.Do(func() {
		for _, stream := range s.streams {
			stream.close()
		}

		s.wsMu.Lock()
		for conn := range s.wsClients {
			_ = conn.Close()
		}
		s.wsClients = make(map[*websocket.Conn]struct{})
		s.wsMu.Unlock()

		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		s.closeErr = s.server.Shutdown(ctx)
	})
	return s.closeErr
}

// watchKeys marks an interrupt when the designated key arrives on r as its
// own line.
func (s *HTTPSink) watchKeys(r io.Reader) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if strings.TrimSpace(scanner.Text()) == s.key {
			log.Infof("interrupt key received")
			s.interrupted.Store(true)
			return
		}
	}
}

func (s *HTTPSink) handleInterrupt(c *gin.Context) {
	log.Infof("interrupt requested by viewer")
	s.interrupted.Store(true)
	c.Status(http.StatusNoContent)
}

func (s *HTTPSink) handleView(c *gin.Context) {
	stream, ok := s.streams[c.Param("name")]
	if !ok {
		c.Status(http.StatusNotFound)
		return
	}

	c.Header("Content-Type", "multipart/x-mixed-replace; boundary=frame")
	var seq uint64
	for {
		frame, next, open := stream.next(seq)
		if !open {
			return
		}
		seq = next

		if _, err := fmt.Fprintf(c.Writer,
			"--frame\r\nContent-Type: image/jpeg\r\nContent-Length: %d\r\n\r\n", len(frame)); err != nil {
			return
		}
		if _, err := c.Writer.Write(frame); err != nil {
			return
		}
		if _, err := io.WriteString(c.Writer, "\r\n"); err != nil {
			return
		}
		c.Writer.Flush()
	}
}

func (s *HTTPSink) handleStatsFeed(c *gin.Context) {
	conn, err := s.wsUpgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Warnf("stats feed upgrade: %v", err)
		return
	}

	s.wsMu.Lock()
	s.wsClients[conn] = struct{}{}
	s.wsMu.Unlock()

	// Drain reads so client-initiated closes are noticed.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				s.dropStatsClient(conn)
				return
			}
		}
	}()
}

func (s *HTTPSink) pushStats(st stats.RunStats) {
	s.wsMu.Lock()
	defer s.wsMu.Unlock()
	for conn := range s.wsClients {
		if err := conn.WriteJSON(st); err != nil {
			_ = conn.Close()
			delete(s.wsClients, conn)
		}
	}
}

func (s *HTTPSink) dropStatsClient(conn *websocket.Conn) {
	s.wsMu.Lock()
	defer s.wsMu.Unlock()
	if _, ok := s.wsClients[conn]; ok {
		_ = conn.Close()
		delete(s.wsClients, conn)
	}
}

func (s *HTTPSink) handleIndex(c *gin.Context) {
	var b strings.Builder
	b.WriteString(`<!DOCTYPE html><html><head><title>framemill</title>
<style>body{font-family:sans-serif;background:#111;color:#eee}
.grid{display:grid;grid-template-columns:repeat(4,1fr);gap:8px}
figure{margin:0}figcaption{text-align:center;padding:4px}
img{width:100%}button{margin:12px 0;padding:8px 16px}</style>
</head><body>
<h1>framemill live views</h1>
<button onclick="fetch('/interrupt',{method:'POST'})">Stop processing</button>
<div class="grid">`)
	for _, name := range transform.ViewNames {
		fmt.Fprintf(&b,
			`<figure><img src="/views/%s" alt="%s"><figcaption>%s</figcaption></figure>`,
			name, name, name)
	}
	b.WriteString(`</div></body></html>`)
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(b.String()))
}
