package api

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/camctl/camctl/internal/events"
	"github.com/camctl/camctl/pkg/v4l2"
)

// mockStore is a test implementation of devices.Store.
type mockStore struct {
	devices  []v4l2.DeviceInfo
	caps     map[string]v4l2.Capabilities
	controls map[string][]v4l2.ControlInfo
	values   map[uint32]int32
	setErr   error
}

func (m *mockStore) List() ([]v4l2.DeviceInfo, error) {
	return m.devices, nil
}

func (m *mockStore) Resolve(ref string) (string, error) {
	for _, dev := range m.devices {
		if dev.DevicePath == ref || dev.DeviceID == ref {
			return dev.DevicePath, nil
		}
	}
	return "", errors.New("device not found: " + ref)
}

func (m *mockStore) Capabilities(ref string) (v4l2.Capabilities, error) {
	path, err := m.Resolve(ref)
	if err != nil {
		return v4l2.Capabilities{}, err
	}
	return m.caps[path], nil
}

func (m *mockStore) Controls(ref string) ([]v4l2.ControlInfo, error) {
	path, err := m.Resolve(ref)
	if err != nil {
		return nil, err
	}
	return m.controls[path], nil
}

func (m *mockStore) GetControl(ref string, id uint32) (v4l2.ControlValue, error) {
	if _, err := m.Resolve(ref); err != nil {
		return v4l2.ControlValue{}, err
	}
	value, ok := m.values[id]
	if !ok {
		return v4l2.ControlValue{}, errors.New("no such control")
	}
	return v4l2.IntValue(value), nil
}

func (m *mockStore) SetControl(ref string, id uint32, value v4l2.ControlValue) error {
	if _, err := m.Resolve(ref); err != nil {
		return err
	}
	if m.setErr != nil {
		return m.setErr
	}
	m.values[id] = value.Int
	return nil
}

func newTestStore() *mockStore {
	return &mockStore{
		devices: []v4l2.DeviceInfo{
			{
				DevicePath: "/dev/video0",
				DeviceName: "HD Pro Webcam C920",
				DeviceID:   "usb-Logitech_C920-video-index0",
				Caps:       v4l2.CapVideoCapture | v4l2.CapStreaming,
			},
		},
		caps: map[string]v4l2.Capabilities{
			"/dev/video0": {
				Driver:       "uvcvideo",
				Card:         "HD Pro Webcam C920",
				BusInfo:      "usb-0000:00:14.0-1",
				Version:      v4l2.Version{Major: 6, Minor: 8, Patch: 0},
				Capabilities: v4l2.CapVideoCapture | v4l2.CapStreaming | v4l2.CapDeviceCaps,
				DeviceCaps:   v4l2.CapVideoCapture | v4l2.CapStreaming,
			},
		},
		controls: map[string][]v4l2.ControlInfo{
			"/dev/video0": {
				{ID: 0x00980900, Name: "Brightness", Type: v4l2.ControlTypeInteger, Min: 0, Max: 255, Step: 1, Default: 128},
				{ID: 0x0098091a, Name: "Power Line Frequency", Type: v4l2.ControlTypeMenu, Max: 2, Items: []v4l2.MenuItem{
					{Index: 0, Name: "Disabled"},
					{Index: 1, Name: "50 Hz"},
				}},
			},
		},
		values: map[uint32]int32{0x00980900: 100},
	}
}

func newTestServer(t *testing.T, store *mockStore) *httptest.Server {
	t.Helper()
	server := NewServer(&Options{
		AuthUsername: "admin",
		AuthPassword: "secret",
		Store:        store,
		EventBus:     events.New(),
	})
	ts := httptest.NewServer(server.GetMux())
	t.Cleanup(ts.Close)
	return ts
}

func authHeader() string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte("admin:secret"))
}

func doRequest(t *testing.T, ts *httptest.Server, method, path, body string, auth bool) *http.Response {
	t.Helper()
	var reader *strings.Reader
	if body != "" {
		reader = strings.NewReader(body)
	} else {
		reader = strings.NewReader("")
	}
	req, err := http.NewRequest(method, ts.URL+path, reader)
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if auth {
		req.Header.Set("Authorization", authHeader())
	}
	resp, err := ts.Client().Do(req)
	if err != nil {
		t.Fatalf("request %s %s: %v", method, path, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestHealthNoAuth(t *testing.T) {
	ts := newTestServer(t, newTestStore())

	resp := doRequest(t, ts, http.MethodGet, "/api/health", "", false)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("health status = %d, want 200", resp.StatusCode)
	}

	var body struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode health body: %v", err)
	}
	if body.Status != "ok" {
		t.Errorf("status = %q, want ok", body.Status)
	}
}

func TestHealthzProbe(t *testing.T) {
	ts := newTestServer(t, newTestStore())

	resp := doRequest(t, ts, http.MethodGet, "/healthz", "", false)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("healthz status = %d, want 200", resp.StatusCode)
	}
}

func TestVersionNoAuth(t *testing.T) {
	ts := newTestServer(t, newTestStore())

	resp := doRequest(t, ts, http.MethodGet, "/api/version", "", false)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("version status = %d, want 200", resp.StatusCode)
	}
}

func TestDevicesRequireAuth(t *testing.T) {
	ts := newTestServer(t, newTestStore())

	resp := doRequest(t, ts, http.MethodGet, "/api/devices", "", false)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("unauthenticated status = %d, want 401", resp.StatusCode)
	}
	if got := resp.Header.Get("WWW-Authenticate"); !strings.Contains(got, "Basic") {
		t.Errorf("WWW-Authenticate = %q, want Basic challenge", got)
	}
}

func TestQueryParamAuth(t *testing.T) {
	ts := newTestServer(t, newTestStore())

	creds := base64.StdEncoding.EncodeToString([]byte("admin:secret"))
	resp := doRequest(t, ts, http.MethodGet, "/api/devices?auth="+creds, "", false)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("query auth status = %d, want 200", resp.StatusCode)
	}
}

func TestListDevices(t *testing.T) {
	ts := newTestServer(t, newTestStore())

	resp := doRequest(t, ts, http.MethodGet, "/api/devices", "", true)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list status = %d, want 200", resp.StatusCode)
	}

	var body struct {
		Devices []struct {
			DevicePath   string   `json:"device_path"`
			DeviceID     string   `json:"device_id"`
			Capabilities []string `json:"capabilities"`
		} `json:"devices"`
		Count int `json:"count"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode list body: %v", err)
	}
	if body.Count != 1 || len(body.Devices) != 1 {
		t.Fatalf("count = %d, devices = %d, want 1", body.Count, len(body.Devices))
	}
	if body.Devices[0].DevicePath != "/dev/video0" {
		t.Errorf("device_path = %q", body.Devices[0].DevicePath)
	}
	found := false
	for _, name := range body.Devices[0].Capabilities {
		if name == "video_capture" {
			found = true
		}
	}
	if !found {
		t.Errorf("capabilities = %v, want video_capture present", body.Devices[0].Capabilities)
	}
}

func TestDeviceCapabilities(t *testing.T) {
	ts := newTestServer(t, newTestStore())

	resp := doRequest(t, ts, http.MethodGet, "/api/devices/usb-Logitech_C920-video-index0/capabilities", "", true)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("capabilities status = %d, want 200", resp.StatusCode)
	}

	var body struct {
		Driver     string   `json:"driver"`
		Version    string   `json:"version"`
		DeviceCaps []string `json:"device_caps"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode capabilities body: %v", err)
	}
	if body.Driver != "uvcvideo" {
		t.Errorf("driver = %q, want uvcvideo", body.Driver)
	}
	if body.Version != "6.8.0" {
		t.Errorf("version = %q, want 6.8.0", body.Version)
	}
	if len(body.DeviceCaps) == 0 {
		t.Error("device_caps empty, want per-node caps")
	}
}

func TestDeviceCapabilitiesNotFound(t *testing.T) {
	ts := newTestServer(t, newTestStore())

	resp := doRequest(t, ts, http.MethodGet, "/api/devices/nonexistent/capabilities", "", true)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}
}

func TestListControls(t *testing.T) {
	ts := newTestServer(t, newTestStore())

	resp := doRequest(t, ts, http.MethodGet, "/api/devices/usb-Logitech_C920-video-index0/controls", "", true)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("controls status = %d, want 200", resp.StatusCode)
	}

	var body struct {
		DevicePath string `json:"device_path"`
		Controls   []struct {
			ID    uint32 `json:"id"`
			Name  string `json:"name"`
			Type  string `json:"type"`
			Items []struct {
				Name string `json:"name"`
			} `json:"items"`
		} `json:"controls"`
		Count int `json:"count"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode controls body: %v", err)
	}
	if body.Count != 2 {
		t.Fatalf("count = %d, want 2", body.Count)
	}
	if body.Controls[0].Name != "Brightness" {
		t.Errorf("first control = %q, want Brightness", body.Controls[0].Name)
	}
	if len(body.Controls[1].Items) != 2 {
		t.Errorf("menu items = %d, want 2", len(body.Controls[1].Items))
	}
}

func TestGetControl(t *testing.T) {
	ts := newTestServer(t, newTestStore())

	resp := doRequest(t, ts, http.MethodGet, "/api/devices/usb-Logitech_C920-video-index0/controls/9963776", "", true)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get control status = %d, want 200", resp.StatusCode)
	}

	var body struct {
		ID    uint32 `json:"id"`
		Value int32  `json:"value"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode control body: %v", err)
	}
	if body.ID != 0x00980900 || body.Value != 100 {
		t.Errorf("got id=%d value=%d, want id=%d value=100", body.ID, body.Value, 0x00980900)
	}
}

func TestSetControl(t *testing.T) {
	store := newTestStore()
	ts := newTestServer(t, store)

	resp := doRequest(t, ts, http.MethodPut,
		"/api/devices/usb-Logitech_C920-video-index0/controls/9963776",
		`{"value": 200}`, true)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("set control status = %d, want 200", resp.StatusCode)
	}

	if got := store.values[0x00980900]; got != 200 {
		t.Errorf("stored value = %d, want 200", got)
	}
}

func TestSetControlFailure(t *testing.T) {
	store := newTestStore()
	store.setErr = errors.New("write failed: invalid argument")
	ts := newTestServer(t, store)

	resp := doRequest(t, ts, http.MethodPut,
		"/api/devices/usb-Logitech_C920-video-index0/controls/9963776",
		`{"value": 9000}`, true)
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("set control status = %d, want 500", resp.StatusCode)
	}
	if got := store.values[0x00980900]; got != 100 {
		t.Errorf("stored value = %d, want unchanged 100", got)
	}
}

func TestCORSPreflight(t *testing.T) {
	ts := newTestServer(t, newTestStore())

	resp := doRequest(t, ts, http.MethodOptions, "/api/devices", "", false)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("preflight status = %d, want 204", resp.StatusCode)
	}
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Allow-Origin = %q, want *", got)
	}
}
