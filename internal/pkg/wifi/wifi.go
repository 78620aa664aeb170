package wifi

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/anicoll/envmonitor/internal/pkg/config"
	"github.com/anicoll/envmonitor/internal/pkg/display"
	"github.com/anicoll/envmonitor/internal/pkg/model"
)

var ErrNoInterface = errors.New("wifi: interface not found")

// Monitor reflects the link state of the wifi interface on the WiFi status
// icon. Joining a network is left to the host (wpa_supplicant, NetworkManager).
type Monitor struct {
	iface     string
	sysfsRoot string
	ssid      string
	ui        display.UI
	logger    *zap.Logger

	mu   sync.Mutex
	last *model.StatusValue
}

func New(cfg config.WifiConfig, ssid string, ui display.UI, logger *zap.Logger) *Monitor {
	if logger == nil {
		logger = zap.L()
	}
	return &Monitor{
		iface:     cfg.Interface,
		sysfsRoot: cfg.SysfsRoot,
		ssid:      ssid,
		ui:        ui,
		logger:    logger,
	}
}

// Check reads the interface operstate and updates the icon when the state
// changed since the last check. A missing interface counts as connecting.
func (m *Monitor) Check() (model.StatusValue, error) {
	status, err := m.linkStatus()

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.last != nil && *m.last == status {
		return status, err
	}
	m.last = &status
	m.logger.Info("wifi link changed",
		zap.String("interface", m.iface),
		zap.Bool("ssid_configured", m.ssid != ""),
		zap.Stringer("status", status),
	)
	m.ui.DisplayStatus(model.StatusWifi, status)
	return status, err
}

func (m *Monitor) linkStatus() (model.StatusValue, error) {
	path := filepath.Join(m.sysfsRoot, "class", "net", m.iface, "operstate")
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return model.StatusConnecting, fmt.Errorf("%w: %s", ErrNoInterface, m.iface)
		}
		return model.StatusConnecting, err
	}
	if strings.TrimSpace(string(b)) == "up" {
		return model.StatusConnected, nil
	}
	return model.StatusConnecting, nil
}
