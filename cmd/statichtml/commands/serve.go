package commands

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/gorilla/websocket"

	"github.com/livefir/statichtml"
	"github.com/livefir/statichtml/cmd/statichtml/internal/ui"
	"github.com/livefir/statichtml/internal/encode"
	"github.com/livefir/statichtml/stream"
	"github.com/livefir/statichtml/stream/wsstream"
)

// Serve renders a document once and serves it: GET / returns the markup,
// /ws pushes its chunks over a websocket with the configured delay
func Serve(args []string) error {
	positional, flags := options(args)
	if len(positional) != 1 {
		return fmt.Errorf("document required: statichtml serve <document.yaml>")
	}
	addr := flags["addr"]
	if addr == "" {
		addr = ":8080"
	}

	cfg, err := loadConfig(flags)
	if err != nil {
		return err
	}

	ctx := context.Background()
	compiler, cleanup, err := newCompiler(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	doc, err := statichtml.LoadDocument(positional[0])
	if err != nil {
		return err
	}

	rep := cfg.Representation
	if rep.Kind == encode.Single {
		rep = encode.PushSequence(64, false, rep.Delay, false)
	}
	artifact, err := compiler.RenderDocument(ctx, doc, statichtml.Text(), rep, ui.Sink(os.Stderr))
	if err != nil {
		return err
	}
	chunks, ok := artifact.ChunkTexts()
	if !ok {
		return fmt.Errorf("document holds run-time values and cannot be served")
	}

	log.Printf("Serving %s on %s (%d chunks)", doc.Name, addr, len(chunks))
	return http.ListenAndServe(addr, Handler(chunks, artifact.Representation))
}

// Handler serves pre-rendered chunks.
func Handler(chunks []string, rep statichtml.Representation) http.Handler {
	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool { return true },
	}
	page := strings.Join(chunks, "")

	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, page)
	})
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("WebSocket upgrade failed: %v", err)
			return
		}
		defer conn.Close()

		seq := stream.New(chunks, stream.WithDelay(rep.Delay), stream.WithInterruptibleDelay())
		n, err := wsstream.Write(r.Context(), conn, seq)
		if err != nil {
			log.Printf("Stream to %s stopped after %d chunks: %v", r.RemoteAddr, n, err)
			return
		}
		conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, "done"))
	})
	return mux
}
