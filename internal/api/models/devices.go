package models

// DeviceInfo describes one capture device in API responses.
type DeviceInfo struct {
	DevicePath   string   `json:"device_path" example:"/dev/video0" doc:"Device node path"`
	DeviceName   string   `json:"device_name" example:"HD Pro Webcam C920" doc:"Human-readable device name"`
	DeviceID     string   `json:"device_id" example:"usb-Logitech_C920-video-index0" doc:"Stable device identifier"`
	Capabilities []string `json:"capabilities" example:"[\"video_capture\",\"streaming\"]" doc:"Capability flag names"`
}

type DeviceData struct {
	Devices []DeviceInfo `json:"devices" doc:"List of capture devices"`
	Count   int          `json:"count" example:"2" doc:"Number of devices"`
}

type DeviceResponse struct {
	Body DeviceData
}

// CapabilitiesData mirrors the VIDIOC_QUERYCAP result.
type CapabilitiesData struct {
	Driver       string   `json:"driver" example:"uvcvideo" doc:"Kernel driver name"`
	Card         string   `json:"card" example:"HD Pro Webcam C920" doc:"Device name"`
	BusInfo      string   `json:"bus_info" example:"usb-0000:00:14.0-1" doc:"Bus location"`
	Version      string   `json:"version" example:"6.1.12" doc:"Driver version"`
	Capabilities []string `json:"capabilities" doc:"Global capability flag names"`
	DeviceCaps   []string `json:"device_caps,omitempty" doc:"Per-node capability flag names"`
}

type CapabilitiesResponse struct {
	Body CapabilitiesData
}

// MenuItem is one selectable entry of a menu control.
type MenuItem struct {
	Index int64  `json:"index" example:"1" doc:"Menu item index"`
	Name  string `json:"name,omitempty" example:"50 Hz" doc:"Item label (menu controls)"`
	Value int64  `json:"value,omitempty" example:"50" doc:"Item value (integer menu controls)"`
}

// ControlInfo describes one device control.
type ControlInfo struct {
	ID      uint32     `json:"id" example:"9963776" doc:"V4L2 control identifier"`
	Name    string     `json:"name" example:"Brightness" doc:"Control name"`
	Type    string     `json:"type" example:"integer" doc:"Control type"`
	Min     int64      `json:"min" example:"0" doc:"Minimum value"`
	Max     int64      `json:"max" example:"255" doc:"Maximum value"`
	Step    int64      `json:"step" example:"1" doc:"Value step"`
	Default int64      `json:"default" example:"128" doc:"Default value"`
	Flags   uint32     `json:"flags" example:"0" doc:"Control flags"`
	Items   []MenuItem `json:"items,omitempty" doc:"Menu items (menu controls only)"`
}

type ControlsData struct {
	DevicePath string        `json:"device_path" example:"/dev/video0" doc:"Device node path"`
	Controls   []ControlInfo `json:"controls" doc:"Device controls"`
	Count      int           `json:"count" example:"12" doc:"Number of controls"`
}

type ControlsResponse struct {
	Body ControlsData
}

// ControlValueData carries one scalar control value.
type ControlValueData struct {
	ID    uint32 `json:"id" example:"9963776" doc:"V4L2 control identifier"`
	Value int32  `json:"value" example:"128" doc:"Current control value"`
}

type ControlValueResponse struct {
	Body ControlValueData
}

// SetControlBody is the request body for a control write.
type SetControlBody struct {
	Value int32 `json:"value" example:"128" doc:"New control value"`
}
