package platform

import (
	"context"
	"encoding/json"
)

// Object is a thing registered in the project (a lamp, a sensor).
type Object struct {
	ID   string
	Name string
	// State is the raw JSON of the object's "state" member, nil when absent.
	State json.RawMessage
}

// DeviceAPI is the subset of the platform the dispatcher needs.
type DeviceAPI interface {
	ListObjects(ctx context.Context) ([]Object, error)
	GetObject(ctx context.Context, id string) (*Object, error)
	SendCommand(ctx context.Context, id, command string, params map[string]interface{}) error
}
