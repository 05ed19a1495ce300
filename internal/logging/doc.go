// Package logging provides structured logging helpers for trellomcp.
//
// All logging goes through log/slog. The helpers keep attribute names
// consistent and make sure Trello credentials never reach a log line.
//
// # Usage Patterns
//
//	logger := logging.WithBoard(logging.WithTool(slog.Default(), "trello_add_card"), cfg.BoardID)
//	logger.Info("card created", logging.Card(card.ID), logging.List(listID))
//
// Credentials and request URLs are masked before logging:
//
//	logger.Debug("trello request",
//	    "url", logging.SanitizeURL(req.URL.String()),
//	    "token", logging.SanitizeToken(cfg.APIToken))
package logging
