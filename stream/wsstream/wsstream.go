// Package wsstream writes push sequences to websocket connections.
package wsstream

import (
	"context"
	"fmt"
	"reflect"

	"github.com/gorilla/websocket"

	"github.com/livefir/statichtml/stream"
)

// Chunk is a chunk type a websocket frame can carry.
type Chunk interface {
	~string | ~[]byte
}

// Write sends every chunk of seq as one frame, in order: strings as text
// frames, byte slices as binary frames.
func Write[T Chunk](ctx context.Context, conn *websocket.Conn, seq *stream.Sequence[T]) (int, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	n := 0
	for c := range seq.Chunks(ctx) {
		if err := conn.WriteMessage(messageType(c), []byte(c)); err != nil {
			return n, fmt.Errorf("failed to write chunk %d: %w", n, err)
		}
		n++
	}
	if err := ctx.Err(); err != nil {
		return n, err
	}
	return n, nil
}

func messageType[T Chunk](T) int {
	if reflect.TypeFor[T]().Kind() == reflect.String {
		return websocket.TextMessage
	}
	return websocket.BinaryMessage
}
