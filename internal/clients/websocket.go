package clients

import (
	"context"

	ws "paytrack/internal/transport/websocket"
)

type WebSocketClient struct {
	hub *ws.Hub
}

func NewWebSocketClient(hub *ws.Hub) *WebSocketClient {
	return &WebSocketClient{
		hub: hub,
	}
}

func (c *WebSocketClient) NotifyExportProgress(
	ctx context.Context,
	exportID string,
	progress float64,
	stage string,
) error {
	if c.hub == nil {
		return nil
	}

	data := map[string]interface{}{
		"id":       exportID,
		"progress": progress,
	}
	if stage != "" {
		data["stage"] = stage
	}

	message := &ws.Message{
		Type:    "export_progress",
		Channel: "exports",
		Data:    data,
	}

	c.hub.Broadcast(message)
	return nil
}

func (c *WebSocketClient) NotifyExportComplete(
	ctx context.Context,
	exportID string,
	url string,
	filename string,
) error {
	if c.hub == nil {
		return nil
	}

	message := &ws.Message{
		Type:    "export_complete",
		Channel: "exports",
		Data: map[string]interface{}{
			"id":       exportID,
			"url":      url,
			"filename": filename,
		},
	}

	c.hub.Broadcast(message)
	return nil
}

// NotifyExportFailed pushes a failure event with the error message.
func (c *WebSocketClient) NotifyExportFailed(ctx context.Context, exportID string, errMsg string) error {
	if c.hub == nil {
		return nil
	}

	message := &ws.Message{
		Type:    "export_failed",
		Channel: "exports",
		Data: map[string]interface{}{
			"id":      exportID,
			"message": errMsg,
		},
	}

	c.hub.Broadcast(message)
	return nil
}
