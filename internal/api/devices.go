package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"

	"github.com/camctl/camctl/internal/api/models"
	"github.com/camctl/camctl/pkg/v4l2"
)

// DeviceRefInput identifies a device by path, index or stable ID.
type DeviceRefInput struct {
	DeviceID string `path:"device_id" example:"usb-Logitech_C920-video-index0" doc:"Device reference: stable identifier or enumeration index"`
}

// ControlRefInput identifies one control of a device.
type ControlRefInput struct {
	DeviceRefInput
	ControlID uint32 `path:"control_id" example:"9963776" doc:"V4L2 control identifier"`
}

// SetControlInput combines the control reference and the new value.
type SetControlInput struct {
	ControlRefInput
	Body models.SetControlBody
}

// capNames expands a capability bitmask into flag names.
func capNames(f v4l2.CapFlags) []string {
	s := f.String()
	if s == "none" {
		return []string{}
	}
	return strings.Split(s, "|")
}

func toControlInfo(c v4l2.ControlInfo) models.ControlInfo {
	info := models.ControlInfo{
		ID:      c.ID,
		Name:    c.Name,
		Type:    c.Type.String(),
		Min:     int64(c.Min),
		Max:     int64(c.Max),
		Step:    int64(c.Step),
		Default: int64(c.Default),
		Flags:   c.Flags,
	}
	for _, item := range c.Items {
		info.Items = append(info.Items, models.MenuItem{
			Index: int64(item.Index),
			Name:  item.Name,
			Value: item.Value,
		})
	}
	return info
}

// registerDeviceRoutes registers all device-related endpoints.
func (s *Server) registerDeviceRoutes() {
	// List all devices
	huma.Register(s.api, huma.Operation{
		OperationID: "list-devices",
		Method:      http.MethodGet,
		Path:        "/api/devices",
		Summary:     "List Devices",
		Description: "List all available V4L2 capture devices",
		Tags:        []string{"devices"},
		Security:    withAuth(),
		Errors:      []int{401, 500},
	}, func(ctx context.Context, input *struct{}) (*models.DeviceResponse, error) {
		devices, err := s.store.List()
		if err != nil {
			return nil, huma.Error500InternalServerError("Failed to list devices", err)
		}

		data := models.DeviceData{
			Devices: make([]models.DeviceInfo, len(devices)),
			Count:   len(devices),
		}
		for i, dev := range devices {
			data.Devices[i] = models.DeviceInfo{
				DevicePath:   dev.DevicePath,
				DeviceName:   dev.DeviceName,
				DeviceID:     dev.DeviceID,
				Capabilities: capNames(dev.Caps),
			}
		}

		return &models.DeviceResponse{Body: data}, nil
	})

	// Query device capabilities
	huma.Register(s.api, huma.Operation{
		OperationID: "device-capabilities",
		Method:      http.MethodGet,
		Path:        "/api/devices/{device_id}/capabilities",
		Summary:     "Capabilities",
		Description: "Query driver identity and capability flags for a specific device",
		Tags:        []string{"devices"},
		Security:    withAuth(),
		Errors:      []int{401, 404, 500},
	}, func(ctx context.Context, input *DeviceRefInput) (*models.CapabilitiesResponse, error) {
		caps, err := s.store.Capabilities(input.DeviceID)
		if err != nil {
			return nil, huma.Error404NotFound("Device not found", err)
		}

		data := models.CapabilitiesData{
			Driver:       caps.Driver,
			Card:         caps.Card,
			BusInfo:      caps.BusInfo,
			Version:      caps.Version.String(),
			Capabilities: capNames(caps.Capabilities),
		}
		if caps.Capabilities.Has(v4l2.CapDeviceCaps) {
			data.DeviceCaps = capNames(caps.DeviceCaps)
		}

		return &models.CapabilitiesResponse{Body: data}, nil
	})

	// Enumerate device controls
	huma.Register(s.api, huma.Operation{
		OperationID: "device-controls",
		Method:      http.MethodGet,
		Path:        "/api/devices/{device_id}/controls",
		Summary:     "Controls",
		Description: "Enumerate all user controls of a specific device",
		Tags:        []string{"controls"},
		Security:    withAuth(),
		Errors:      []int{401, 404, 500},
	}, func(ctx context.Context, input *DeviceRefInput) (*models.ControlsResponse, error) {
		path, err := s.store.Resolve(input.DeviceID)
		if err != nil {
			return nil, huma.Error404NotFound("Device not found", err)
		}

		controls, err := s.store.Controls(input.DeviceID)
		if err != nil {
			return nil, huma.Error500InternalServerError("Failed to enumerate controls", err)
		}

		data := models.ControlsData{
			DevicePath: path,
			Controls:   make([]models.ControlInfo, len(controls)),
			Count:      len(controls),
		}
		for i, c := range controls {
			data.Controls[i] = toControlInfo(c)
		}

		return &models.ControlsResponse{Body: data}, nil
	})

	// Read a control value
	huma.Register(s.api, huma.Operation{
		OperationID: "get-control",
		Method:      http.MethodGet,
		Path:        "/api/devices/{device_id}/controls/{control_id}",
		Summary:     "Get Control",
		Description: "Read the current value of a scalar control",
		Tags:        []string{"controls"},
		Security:    withAuth(),
		Errors:      []int{401, 404, 500},
	}, func(ctx context.Context, input *ControlRefInput) (*models.ControlValueResponse, error) {
		value, err := s.store.GetControl(input.DeviceID, input.ControlID)
		if err != nil {
			return nil, huma.Error500InternalServerError("Failed to read control", err)
		}

		return &models.ControlValueResponse{
			Body: models.ControlValueData{
				ID:    input.ControlID,
				Value: value.Int,
			},
		}, nil
	})

	// Write a control value
	huma.Register(s.api, huma.Operation{
		OperationID: "set-control",
		Method:      http.MethodPut,
		Path:        "/api/devices/{device_id}/controls/{control_id}",
		Summary:     "Set Control",
		Description: "Write a scalar control value",
		Tags:        []string{"controls"},
		Security:    withAuth(),
		Errors:      []int{401, 404, 422, 500},
	}, func(ctx context.Context, input *SetControlInput) (*models.ControlValueResponse, error) {
		err := s.store.SetControl(input.DeviceID, input.ControlID, v4l2.IntValue(input.Body.Value))
		if err != nil {
			return nil, huma.Error500InternalServerError("Failed to write control", err)
		}

		return &models.ControlValueResponse{
			Body: models.ControlValueData{
				ID:    input.ControlID,
				Value: input.Body.Value,
			},
		}, nil
	})
}
