package pong

import (
	"time"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

// matchSummary renders the final state of a session as a JSON record for the
// logs.
func matchSummary(s *Session, reason error, ended time.Time) ([]byte, error) {
	reasonText := "none"
	if reason != nil {
		reasonText = reason.Error()
	}

	player := func(p *Player, score uint8) map[string]any {
		return map[string]any{
			"id":    p.ID.String(),
			"name":  p.Name,
			"score": int(score),
		}
	}

	summary, err := structpb.NewStruct(map[string]any{
		"match_id":    s.ID.String(),
		"mode":        s.kind.String(),
		"player1":     player(s.state.Player1, s.state.Player1Score),
		"player2":     player(s.state.Player2, s.state.Player2Score),
		"ticks":       int64(s.ticks),
		"duration_ms": ended.Sub(s.started).Milliseconds(),
		"reason":      reasonText,
	})
	if err != nil {
		return nil, err
	}

	return protojson.Marshal(summary)
}
