// Package trello is a small client for the Trello REST API.
//
// Every call is a single HTTP request authenticated with the key and token
// query parameters. Request bodies and responses are JSON. Non-2xx responses
// are returned as *APIError carrying the status code and the response body;
// network failures are returned as *TransportError. Nothing is retried and
// nothing is cached.
//
//	client := trello.NewClient(cfg.APIKey, cfg.APIToken,
//		trello.WithMetrics(metrics))
//	cards, err := client.BoardCards(ctx, cfg.BoardID)
package trello
