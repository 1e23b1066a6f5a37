package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"net/netip"
	"strings"

	"go.uber.org/zap"
)

const (
	UnknownDevice  = "Unknown Device"
	UnknownNetwork = "Unknown"
)

// DeviceClass maps a User-Agent to a coarse platform name.
func DeviceClass(userAgent string) string {
	ua := strings.ToLower(userAgent)
	switch {
	case strings.Contains(ua, "android"):
		return "Android"
	case strings.Contains(ua, "iphone"), strings.Contains(ua, "ipad"):
		return "iOS"
	case strings.Contains(ua, "windows"):
		return "Windows"
	case strings.Contains(ua, "mac"):
		return "Mac"
	}
	return UnknownDevice
}

type geoResponse struct {
	Success     bool   `json:"success"`
	IP          string `json:"ip"`
	CountryCode string `json:"country_code"`
	Flag        struct {
		Emoji string `json:"emoji"`
	} `json:"flag"`
}

type ipResponse struct {
	IP string `json:"ip"`
}

// networkLabel asks the geo lookup about the client address. Without a
// usable answer it falls back to the bare address, and to UnknownNetwork
// when even that cannot be found.
func (d *Dispatcher) networkLabel(ctx context.Context, remoteAddr string) string {
	ip := publicIP(remoteAddr)

	if d.lookupURL != "" {
		var geo geoResponse
		err := d.getJSON(ctx, d.lookupURL+ip, &geo)
		if err == nil && geo.Success && geo.IP != "" {
			return fmt.Sprintf("%s %s (%s)", geo.Flag.Emoji, geo.IP, geo.CountryCode)
		}
		if err != nil {
			d.logger.Debug("geo lookup failed", zap.Error(err))
		}
	}

	if ip != "" {
		return ip
	}

	if d.fallbackURL != "" {
		var plain ipResponse
		err := d.getJSON(ctx, d.fallbackURL, &plain)
		if err == nil && plain.IP != "" {
			return plain.IP
		}
		if err != nil {
			d.logger.Debug("ip lookup failed", zap.Error(err))
		}
	}

	return UnknownNetwork
}

// publicIP extracts a routable address from host:port, or returns "".
func publicIP(remoteAddr string) string {
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		host = remoteAddr
	}
	addr, err := netip.ParseAddr(host)
	if err != nil {
		return ""
	}
	addr = addr.Unmap()
	if addr.IsLoopback() || addr.IsPrivate() || addr.IsLinkLocalUnicast() || addr.IsUnspecified() {
		return ""
	}
	return addr.String()
}

func (d *Dispatcher) getJSON(ctx context.Context, url string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return fmt.Errorf("error on %s : %w", url, err)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("request error %s : %w", url, err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("bad response %v for request %s", resp.StatusCode, url)
	}

	err = json.NewDecoder(resp.Body).Decode(v)
	if err != nil {
		return fmt.Errorf("error on response decode: %w", err)
	}
	return nil
}
