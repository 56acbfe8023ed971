package server

import (
	"net/http"

	"lyricsync/core/session"
	"lyricsync/logger"
)

// WebSocketHandler upgrades the request and runs one lyric session on it.
func (s *Server) WebSocketHandler(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Warn("websocket upgrade failed", logger.ErrorField(err))
		return
	}

	client := session.NewClient(s.hub, conn, session.Options{
		Lyrics: s.cfg.LyricOptions(),
		Echo:   s.echo,
		Debug:  s.cfg.Debug,
	})
	s.hub.Register(client)

	go client.WritePump()
	go client.ReadPump(s.ctx)
}
