package coolercontrol

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// liquidctlType is the device-type tag the daemon assigns to cooler
// controllers; discovery selects the first device carrying it.
const liquidctlType = "Liquidctl"

const maxDeviceListBytes = 1 << 20

// Device is one entry of the daemon's device list.
type Device struct {
	Name string `json:"name"`
	Type string `json:"type"`
	UID  string `json:"uid"`
}

type deviceListEnvelope struct {
	Devices []Device `json:"devices"`
}

// Devices fetches and parses the daemon's device list. Depending on the
// daemon version the body is either a bare array or wrapped in a
// {"devices": [...]} envelope; both are accepted.
func (s *Session) Devices(ctx context.Context) ([]Device, error) {
	if !s.Ready() {
		return nil, ErrNotReady
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/devices", nil)
	if err != nil {
		return nil, fmt.Errorf("build devices request: %w", err)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("devices request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("devices returned status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxDeviceListBytes))
	if err != nil {
		return nil, fmt.Errorf("read devices response: %w", err)
	}

	var devices []Device
	if err := json.Unmarshal(body, &devices); err == nil {
		return devices, nil
	}
	var envelope deviceListEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("parse devices response: %w", err)
	}
	return envelope.Devices, nil
}

// DiscoverLiquidctl returns the first Liquidctl-typed device from the
// daemon's list, or ErrNoDevice when none is present.
func (s *Session) DiscoverLiquidctl(ctx context.Context) (Device, error) {
	devices, err := s.Devices(ctx)
	if err != nil {
		return Device{}, err
	}
	for _, d := range devices {
		if d.Type == liquidctlType && d.UID != "" {
			return d, nil
		}
	}
	return Device{}, ErrNoDevice
}

// ValidateUID re-queries the device list and reports whether uid still
// identifies a Liquidctl device. The error is non-nil only for transport
// failures; callers should not treat those as proof of staleness.
func (s *Session) ValidateUID(ctx context.Context, uid string) (bool, error) {
	if uid == "" {
		return false, nil
	}
	devices, err := s.Devices(ctx)
	if err != nil {
		return false, err
	}
	for _, d := range devices {
		if d.Type == liquidctlType && d.UID == uid {
			return true, nil
		}
	}
	return false, nil
}
