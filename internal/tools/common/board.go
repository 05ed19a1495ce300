package common

import (
	"github.com/teemow/trellomcp/internal/config"
	"github.com/teemow/trellomcp/internal/server"
)

// BoardID returns the configured board for instrumentation labels, or ""
// when none is configured. It never fails.
func BoardID(sc *server.ServerContext) string {
	if sc == nil || sc.Host() == nil || sc.Host().Settings == nil {
		return ""
	}
	boardID, _ := sc.Host().Lookup(config.KeyBoardID)
	return boardID
}
