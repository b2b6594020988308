package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/nutrixpro/nutrix-backend/services"
)

const (
	pingInterval = 25 * time.Second
	writeWait    = 10 * time.Second
)

type RealtimeController struct {
	Days *LedgerController
	log  zerolog.Logger
}

func NewRealtimeController(days *LedgerController, log zerolog.Logger) *RealtimeController {
	return &RealtimeController{Days: days, log: log}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true }, // tighten behind ALB/CloudFront if needed
}

// LiveDay streams the day's snapshot as JSON, first the current state and
// then one message per committed change.
func (rc *RealtimeController) LiveDay(c *gin.Context) {
	uid, date, ok := rc.Days.dayParams(c)
	if !ok {
		return
	}
	// reject bad dates before upgrading so the client gets a plain 400
	if _, err := rc.Days.Ledger.GetDay(c.Request.Context(), uid, date); err != nil {
		respondError(c, err)
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	// the latest snapshot supersedes any unsent one
	updates := make(chan services.DayView, 1)
	push := func(v services.DayView) {
		select {
		case updates <- v:
		default:
			select {
			case <-updates:
			default:
			}
			updates <- v
		}
	}

	cancel, err := rc.Days.Ledger.Subscribe(c.Request.Context(), uid, date, push)
	if err != nil {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseInternalServerErr, "subscribe failed"),
			time.Now().Add(writeWait))
		return
	}
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		// read loop ends on client close/error
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case v := <-updates:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(v); err != nil {
				rc.log.Debug().Err(err).Uint("user_id", uid).Str("date", date).Msg("live day write failed")
				return
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}
