package webtui

import (
	"errors"
	"html/template"
	"net/http"
	"strings"
	"sync"
)

// DefaultMaxSessions bounds concurrent TUI subprocesses.
const DefaultMaxSessions = 8

type ServerConfig struct {
	Addr string
	// Dir and APIURL are forwarded to each spawned TUI as --dir and --api.
	Dir     string
	APIURL  string
	Profile string

	MaxSessions int
	// Executable is the binary started per connection. Empty means the running binary.
	Executable string
}

type Server struct {
	cfg  ServerConfig
	tmpl *template.Template

	mu       sync.Mutex
	sessions int
}

func NewServer(cfg ServerConfig) (*Server, error) {
	if strings.TrimSpace(cfg.Addr) == "" {
		return nil, errors.New("webtui: missing addr")
	}
	if cfg.MaxSessions <= 0 {
		cfg.MaxSessions = DefaultMaxSessions
	}
	tmpl, err := template.New("terminal.html").Parse(terminalHTML)
	if err != nil {
		return nil, err
	}
	return &Server{cfg: cfg, tmpl: tmpl}, nil
}

func (s *Server) Addr() string {
	return strings.TrimSpace(s.cfg.Addr)
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/terminal", http.StatusFound)
	})
	mux.HandleFunc("GET /terminal", s.handleTerminal)
	mux.HandleFunc("GET /ws", s.handleWS)

	return mux
}

// acquire reserves a session slot.
func (s *Server) acquire() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sessions >= s.cfg.MaxSessions {
		return false
	}
	s.sessions++
	return true
}

func (s *Server) release() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sessions > 0 {
		s.sessions--
	}
}

type terminalVM struct {
	APIURL  string
	Dir     string
	Profile string
}

func (s *Server) handleTerminal(w http.ResponseWriter, r *http.Request) {
	vm := terminalVM{
		APIURL:  strings.TrimSpace(s.cfg.APIURL),
		Dir:     strings.TrimSpace(s.cfg.Dir),
		Profile: strings.TrimSpace(s.cfg.Profile),
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.tmpl.Execute(w, vm); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

const xtermVersion = "5.3.0"

var terminalHTML = `<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>folio</title>
<link rel="stylesheet" href="https://cdn.jsdelivr.net/npm/xterm@` + xtermVersion + `/css/xterm.css">
<style>
  html, body { margin: 0; height: 100%; background: #1e1e2e; }
  #bar { font: 12px monospace; color: #a6adc8; padding: 4px 8px; }
  #term { position: absolute; top: 24px; bottom: 0; left: 0; right: 0; }
</style>
</head>
<body>
<div id="bar">folio{{if .APIURL}} · {{.APIURL}}{{end}}{{if .Profile}} · {{.Profile}}{{end}}</div>
<div id="term"></div>
<script src="https://cdn.jsdelivr.net/npm/xterm@` + xtermVersion + `/lib/xterm.js"></script>
<script src="https://cdn.jsdelivr.net/npm/xterm-addon-fit@0.8.0/lib/xterm-addon-fit.js"></script>
<script>
(function () {
  const term = new Terminal({ cursorBlink: true, fontFamily: "monospace" });
  const fit = new FitAddon.FitAddon();
  term.loadAddon(fit);
  term.open(document.getElementById("term"));
  fit.fit();

  const proto = location.protocol === "https:" ? "wss://" : "ws://";
  const ws = new WebSocket(proto + location.host + "/ws");
  ws.binaryType = "arraybuffer";

  const resize = () => {
    fit.fit();
    if (ws.readyState === WebSocket.OPEN) {
      ws.send(JSON.stringify({ type: "resize", cols: term.cols, rows: term.rows }));
    }
  };
  ws.onopen = resize;
  ws.onmessage = (ev) => {
    term.write(typeof ev.data === "string" ? ev.data : new Uint8Array(ev.data));
  };
  ws.onclose = () => term.write("\r\n[session closed]\r\n");
  term.onData((d) => { if (ws.readyState === WebSocket.OPEN) ws.send(d); });
  window.addEventListener("resize", resize);
})();
</script>
</body>
</html>
`
